package server

import (
	"github.com/gin-gonic/gin"
)

// @Summary      Get Invoice
// @Description  Invoice with its lines
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  DataResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/invoices/{id} [get]
func (s *Server) GetInvoice(c *gin.Context) {
	detail, err := s.invoiceSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, detail)
}
