package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/railzwaylabs/subcommerce/internal/subscription/domain"
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
		log:  p.Log.Named("subscription.service"),
		repo: p.Repo,
	}
}

func (s *Service) List(ctx context.Context, req domain.ListSubscriptionRequest) ([]domain.Subscription, error) {
	filter := domain.ListFilter{Limit: req.Limit}

	if status := strings.ToUpper(strings.TrimSpace(req.Status)); status != "" {
		parsed := domain.SubscriptionStatus(status)
		if !parsed.Valid() {
			return nil, domain.ErrInvalidStatus
		}
		filter.Status = parsed
	}

	if userID := strings.TrimSpace(req.UserID); userID != "" {
		id, err := snowflake.ParseString(userID)
		if err != nil || id == 0 {
			return nil, domain.ErrInvalidUser
		}
		filter.UserID = id
	}

	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}

	items, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Subscription{}
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.SubscriptionDetail, error) {
	subscriptionID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || subscriptionID == 0 {
		return domain.SubscriptionDetail{}, domain.ErrInvalidSubscription
	}

	item, err := s.repo.FindByID(ctx, s.db, subscriptionID)
	if err != nil {
		return domain.SubscriptionDetail{}, err
	}
	if item == nil {
		return domain.SubscriptionDetail{}, domain.ErrSubscriptionNotFound
	}

	lines, err := s.repo.ListLines(ctx, s.db, []snowflake.ID{item.ID})
	if err != nil {
		return domain.SubscriptionDetail{}, err
	}
	if lines == nil {
		lines = []domain.SubscriptionLine{}
	}

	return domain.SubscriptionDetail{Subscription: *item, Lines: lines}, nil
}
