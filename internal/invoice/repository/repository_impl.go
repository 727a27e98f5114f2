package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/railzwaylabs/subcommerce/internal/invoice/domain"
	"gorm.io/gorm"
)

const defaultListLimit = 50

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, invoice *domain.Invoice) error {
	if invoice == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Create(invoice).Error
}

func (r *repo) InsertLines(ctx context.Context, db *gorm.DB, lines []domain.InvoiceLine) error {
	if len(lines) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&lines).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := db.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&inv).Error
	if err != nil {
		return nil, err
	}
	if inv.ID == 0 {
		return nil, nil
	}
	return &inv, nil
}

func (r *repo) FindLatestBySubscriptionID(ctx context.Context, db *gorm.DB, subscriptionID snowflake.ID) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := db.WithContext(ctx).
		Where("subscription_id = ?", subscriptionID).
		Order("issue_date desc, id desc").
		Limit(1).
		Find(&inv).Error
	if err != nil {
		return nil, err
	}
	if inv.ID == 0 {
		return nil, nil
	}
	return &inv, nil
}

func (r *repo) ListBySubscriptionID(ctx context.Context, db *gorm.DB, subscriptionID snowflake.ID, limit int) ([]domain.Invoice, error) {
	return r.list(ctx, db.Where("subscription_id = ?", subscriptionID), limit)
}

func (r *repo) ListByUserID(ctx context.Context, db *gorm.DB, userID snowflake.ID, limit int) ([]domain.Invoice, error) {
	return r.list(ctx, db.Where("user_id = ?", userID), limit)
}

func (r *repo) list(ctx context.Context, stmt *gorm.DB, limit int) ([]domain.Invoice, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	var items []domain.Invoice
	err := stmt.WithContext(ctx).
		Order("issue_date desc, id desc").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) ListLines(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) ([]domain.InvoiceLine, error) {
	var lines []domain.InvoiceLine
	err := db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("position asc, id asc").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}
