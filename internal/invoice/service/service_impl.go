package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/railzwaylabs/subcommerce/internal/invoice/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxListLimit = 100

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("invoice.service"),
		repo: p.Repo,
	}
}

func (s *Service) ListBySubscription(ctx context.Context, subscriptionID string, limit int) ([]domain.Invoice, error) {
	id, err := parseID(subscriptionID)
	if err != nil {
		return nil, domain.ErrInvalidSubscription
	}
	items, err := s.repo.ListBySubscriptionID(ctx, s.db, id, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	return nonNil(items), nil
}

func (s *Service) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Invoice, error) {
	id, err := parseID(userID)
	if err != nil {
		return nil, domain.ErrInvalidUser
	}
	items, err := s.repo.ListByUserID(ctx, s.db, id, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	return nonNil(items), nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.InvoiceDetail, error) {
	invoiceID, err := parseID(id)
	if err != nil {
		return domain.InvoiceDetail{}, domain.ErrInvalidInvoice
	}

	inv, err := s.repo.FindByID(ctx, s.db, invoiceID)
	if err != nil {
		return domain.InvoiceDetail{}, err
	}
	if inv == nil {
		return domain.InvoiceDetail{}, domain.ErrInvoiceNotFound
	}

	lines, err := s.repo.ListLines(ctx, s.db, inv.ID)
	if err != nil {
		return domain.InvoiceDetail{}, err
	}
	if lines == nil {
		lines = []domain.InvoiceLine{}
	}
	return domain.InvoiceDetail{Invoice: *inv, Lines: lines}, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, domain.ErrInvalidInvoice
	}
	return id, nil
}

func clampLimit(limit int) int {
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

func nonNil(items []domain.Invoice) []domain.Invoice {
	if items == nil {
		return []domain.Invoice{}
	}
	return items
}
