package server

import (
	"github.com/gin-gonic/gin"
	subscriptiondomain "github.com/railzwaylabs/subcommerce/internal/subscription/domain"
)

type listSubscriptionsQuery struct {
	limitQuery
	Status string `form:"status"`
	UserID string `form:"user_id"`
}

// @Summary      List Subscriptions
// @Description  List subscriptions, newest first
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        status   query     string  false  "Status filter"
// @Param        user_id  query     string  false  "User filter"
// @Param        limit    query     int     false  "Page size (1-100)"
// @Success      200  {object}  DataResponse
// @Router       /admin/subscriptions [get]
func (s *Server) ListSubscriptions(c *gin.Context) {
	var query listSubscriptionsQuery
	if err := bindQuery(c, &query); err != nil {
		AbortWithError(c, err)
		return
	}

	items, err := s.subscriptionSvc.List(c.Request.Context(), subscriptiondomain.ListSubscriptionRequest{
		Status: query.Status,
		UserID: query.UserID,
		Limit:  query.limitOr(0),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, items)
}

// @Summary      Get Subscription
// @Description  Subscription with its lines
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Subscription ID"
// @Success      200  {object}  DataResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/subscriptions/{id} [get]
func (s *Server) GetSubscription(c *gin.Context) {
	detail, err := s.subscriptionSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, detail)
}

// @Summary      List Subscription Invoices
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Subscription ID"
// @Success      200  {object}  DataResponse
// @Router       /admin/subscriptions/{id}/invoices [get]
func (s *Server) ListSubscriptionInvoices(c *gin.Context) {
	var query limitQuery
	if err := bindQuery(c, &query); err != nil {
		AbortWithError(c, err)
		return
	}

	items, err := s.invoiceSvc.ListBySubscription(c.Request.Context(), c.Param("id"), query.limitOr(0))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, items)
}
