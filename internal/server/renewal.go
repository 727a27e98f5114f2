package server

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/railzwaylabs/subcommerce/internal/clock"
	renewaldomain "github.com/railzwaylabs/subcommerce/internal/renewal/domain"
)

const (
	defaultRunsLimit = 20
	maxRequestBody   = 1 << 16
	noRunsMessage    = "no renewal runs recorded"
)

type runRenewalRequest struct {
	AsOf *string `json:"as_of,omitempty" binding:"omitempty,asof"`
}

type listRenewalRunsQuery struct {
	limitQuery
}

type inspectRenewalsQuery struct {
	AsOf string `form:"as_of" binding:"omitempty,asof"`
}

// @Summary      Run Renewals
// @Description  Run the subscription renewal job now. Returns the run record even when some subscriptions failed.
// @Tags         renewals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      runRenewalRequest  false  "Optional as_of override"
// @Success      200  {object}  DataResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /admin/renewals/run [post]
func (s *Server) RunRenewals(c *gin.Context) {
	var req runRenewalRequest
	if err := bindJSONBody(c, &req); err != nil {
		AbortWithError(c, err)
		return
	}

	ctx := context.WithoutCancel(c.Request.Context())
	if req.AsOf != nil {
		if !s.cfg.Renewal.AllowTimeOverride {
			AbortWithError(c, renewaldomain.ErrTimeOverrideDisabled)
			return
		}
		asOf, err := parseAsOf(*req.AsOf)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		ctx = clock.WithTime(ctx, asOf)
	}

	run, err := s.renewalSvc.Run(ctx, renewaldomain.TriggerManual)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, run)
}

// @Summary      List Renewal Runs
// @Description  Most recent renewal run records, newest first
// @Tags         renewals
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Number of runs (1-100)"
// @Success      200  {object}  RenewalRunsResponse
// @Router       /admin/renewals/runs [get]
func (s *Server) ListRenewalRuns(c *gin.Context) {
	var query listRenewalRunsQuery
	if err := bindQuery(c, &query); err != nil {
		AbortWithError(c, err)
		return
	}

	history, err := s.renewalSvc.History(c.Request.Context(), query.limitOr(defaultRunsLimit))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	extra := gin.H{"malformed": history.Malformed}
	if history.Unavailable {
		extra["unavailable"] = true
	}
	if len(history.Runs) == 0 {
		extra["message"] = noRunsMessage
	}
	respondList(c, history.Runs, extra)
}

// @Summary      Inspect Renewals
// @Description  Due-ness and skip reasons for every renewal candidate. Never writes.
// @Tags         renewals
// @Produce      json
// @Security     BearerAuth
// @Param        as_of  query     string  false  "Evaluate at this RFC3339 instant or date"
// @Success      200  {object}  DataResponse
// @Router       /admin/renewals/inspect [get]
func (s *Server) InspectRenewals(c *gin.Context) {
	var query inspectRenewalsQuery
	if err := bindQuery(c, &query); err != nil {
		AbortWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	if query.AsOf != "" {
		asOf, err := parseAsOf(query.AsOf)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		ctx = clock.WithTime(ctx, asOf)
	}

	inspection, err := s.renewalSvc.Inspect(ctx)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, inspection)
}

// parseAsOf accepts RFC3339 timestamps or plain dates (midnight UTC).
func parseAsOf(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, renewaldomain.ErrInvalidAsOf
}
