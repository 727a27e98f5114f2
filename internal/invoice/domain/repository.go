package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	InsertLines(ctx context.Context, db *gorm.DB, lines []InvoiceLine) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Invoice, error)

	// FindLatestBySubscriptionID returns the invoice with the greatest issue date, or nil.
	FindLatestBySubscriptionID(ctx context.Context, db *gorm.DB, subscriptionID snowflake.ID) (*Invoice, error)
	ListBySubscriptionID(ctx context.Context, db *gorm.DB, subscriptionID snowflake.ID, limit int) ([]Invoice, error)
	ListByUserID(ctx context.Context, db *gorm.DB, userID snowflake.ID, limit int) ([]Invoice, error)
	ListLines(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) ([]InvoiceLine, error)
}
