package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type ReadinessState string

const (
	ReadinessStateReady    ReadinessState = "ready"
	ReadinessStateNotReady ReadinessState = "not_ready"
)

type ReadinessCheck struct {
	ID     string         `json:"id"`
	Status ReadinessState `json:"status"`
	Error  string         `json:"error,omitempty"`
}

type ReadinessResponse struct {
	SystemState ReadinessState   `json:"system_state"`
	Checks      []ReadinessCheck `json:"checks"`
}

func (s *Server) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary      Readiness
// @Description  Reports whether the database is reachable
// @Tags         system
// @Produce      json
// @Success      200  {object}  ReadinessResponse
// @Failure      503  {object}  ReadinessResponse
// @Router       /readyz [get]
func (s *Server) Readyz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	check := ReadinessCheck{ID: "database", Status: ReadinessStateReady}
	if err := s.pingDB(ctx); err != nil {
		check.Status = ReadinessStateNotReady
		check.Error = err.Error()
	}

	resp := ReadinessResponse{SystemState: check.Status, Checks: []ReadinessCheck{check}}
	status := http.StatusOK
	if resp.SystemState != ReadinessStateReady {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}

func (s *Server) pingDB(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
