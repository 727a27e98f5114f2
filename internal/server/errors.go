package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/railzwaylabs/subcommerce/internal/auth"
	invoicedomain "github.com/railzwaylabs/subcommerce/internal/invoice/domain"
	renewaldomain "github.com/railzwaylabs/subcommerce/internal/renewal/domain"
	subscriptiondomain "github.com/railzwaylabs/subcommerce/internal/subscription/domain"
)

// APIError is rendered as {"error": {...}}.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func (e *APIError) Error() string {
	return e.Code
}

var (
	ErrUnauthorized = &APIError{Status: http.StatusUnauthorized, Code: "unauthorized", Message: "missing or invalid bearer token"}
	ErrForbidden    = &APIError{Status: http.StatusForbidden, Code: "forbidden", Message: "not allowed"}
	ErrNotFound     = &APIError{Status: http.StatusNotFound, Code: "not_found", Message: "resource not found"}
	errInternal     = &APIError{Status: http.StatusInternalServerError, Code: "internal_error", Message: "internal error"}
)

func newValidationError(field, code, message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: code, Message: message, Field: field}
}

func invalidRequestError() *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: "invalid_request", Message: "invalid request body"}
}

// AbortWithError renders err and stops the handler chain.
func AbortWithError(c *gin.Context, err error) {
	apiErr := toAPIError(err)
	if apiErr.Status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(apiErr.Status, gin.H{"error": apiErr})
}

func toAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	case errors.Is(err, renewaldomain.ErrRunInProgress):
		return &APIError{Status: http.StatusConflict, Code: err.Error(), Message: "a renewal run is already in progress"}
	case errors.Is(err, renewaldomain.ErrCandidateScan):
		return &APIError{Status: http.StatusServiceUnavailable, Code: renewaldomain.ErrCandidateScan.Error(), Message: "could not read renewal candidates"}
	case errors.Is(err, renewaldomain.ErrTimeOverrideDisabled):
		return &APIError{Status: http.StatusForbidden, Code: err.Error(), Message: "as_of override is disabled", Field: "as_of"}
	case errors.Is(err, renewaldomain.ErrInvalidAsOf):
		return newValidationError("as_of", err.Error(), "as_of must be an RFC3339 timestamp")
	case errors.Is(err, renewaldomain.ErrInvalidLimit):
		return newValidationError("limit", err.Error(), "limit must be between 1 and 100")

	case errors.Is(err, subscriptiondomain.ErrInvalidSubscription),
		errors.Is(err, invoicedomain.ErrInvalidSubscription):
		return newValidationError("id", "invalid_id", "invalid subscription id")
	case errors.Is(err, invoicedomain.ErrInvalidInvoice):
		return newValidationError("id", "invalid_id", "invalid invoice id")
	case errors.Is(err, subscriptiondomain.ErrInvalidStatus):
		return newValidationError("status", err.Error(), "unknown subscription status")
	case errors.Is(err, subscriptiondomain.ErrInvalidUser),
		errors.Is(err, invoicedomain.ErrInvalidUser):
		return newValidationError("user_id", "invalid_user", "invalid user id")
	case errors.Is(err, subscriptiondomain.ErrSubscriptionNotFound),
		errors.Is(err, invoicedomain.ErrInvoiceNotFound):
		return &APIError{Status: http.StatusNotFound, Code: err.Error(), Message: "resource not found"}

	case errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrInvalidRole):
		return ErrUnauthorized
	case errors.Is(err, auth.ErrForbidden):
		return ErrForbidden
	}
	return errInternal
}
