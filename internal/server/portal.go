package server

import (
	"github.com/gin-gonic/gin"
	subscriptiondomain "github.com/railzwaylabs/subcommerce/internal/subscription/domain"
)

// @Summary      My Subscriptions
// @Tags         portal
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  DataResponse
// @Router       /portal/subscriptions [get]
func (s *Server) ListMySubscriptions(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	var query struct {
		limitQuery
		Status string `form:"status"`
	}
	if err := bindQuery(c, &query); err != nil {
		AbortWithError(c, err)
		return
	}

	items, err := s.subscriptionSvc.List(c.Request.Context(), subscriptiondomain.ListSubscriptionRequest{
		UserID: principal.UserID.String(),
		Status: query.Status,
		Limit:  query.limitOr(0),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, items)
}

// @Summary      My Invoices
// @Tags         portal
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  DataResponse
// @Router       /portal/invoices [get]
func (s *Server) ListMyInvoices(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	var query limitQuery
	if err := bindQuery(c, &query); err != nil {
		AbortWithError(c, err)
		return
	}

	items, err := s.invoiceSvc.ListByUser(c.Request.Context(), principal.UserID.String(), query.limitOr(0))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, items)
}
