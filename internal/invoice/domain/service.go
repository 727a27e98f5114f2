package domain

import (
	"context"
	"errors"
)

type Service interface {
	ListBySubscription(ctx context.Context, subscriptionID string, limit int) ([]Invoice, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]Invoice, error)
	Get(ctx context.Context, id string) (InvoiceDetail, error)
}

type InvoiceDetail struct {
	Invoice
	Lines []InvoiceLine `json:"lines"`
}

var (
	ErrInvalidInvoice      = errors.New("invalid_invoice")
	ErrInvalidSubscription = errors.New("invalid_subscription")
	ErrInvalidUser         = errors.New("invalid_user")
	ErrInvoiceNotFound     = errors.New("invoice_not_found")
)
