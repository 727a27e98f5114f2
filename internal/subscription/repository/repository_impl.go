package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/railzwaylabs/subcommerce/internal/subscription/domain"
	"gorm.io/gorm"
)

const defaultListLimit = 50

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertPlan(ctx context.Context, db *gorm.DB, plan *domain.RecurringPlan) error {
	if plan == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Create(plan).Error
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, subscription *domain.Subscription) error {
	if subscription == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Create(subscription).Error
}

func (r *repo) InsertLines(ctx context.Context, db *gorm.DB, lines []domain.SubscriptionLine) error {
	if len(lines) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&lines).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Subscription, error) {
	var s domain.Subscription
	err := db.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&s).Error
	if err != nil {
		return nil, err
	}
	if s.ID == 0 {
		return nil, nil
	}
	return &s, nil
}

func (r *repo) FindBySubscriptionNo(ctx context.Context, db *gorm.DB, subscriptionNo string) (*domain.Subscription, error) {
	var s domain.Subscription
	err := db.WithContext(ctx).
		Where("subscription_no = ?", subscriptionNo).
		Limit(1).
		Find(&s).Error
	if err != nil {
		return nil, err
	}
	if s.ID == 0 {
		return nil, nil
	}
	return &s, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]domain.Subscription, error) {
	stmt := db.WithContext(ctx).Model(&domain.Subscription{})
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.UserID != 0 {
		stmt = stmt.Where("user_id = ?", filter.UserID)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	var items []domain.Subscription
	if err := stmt.Order("created_at desc, id desc").Limit(limit).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) ListLines(ctx context.Context, db *gorm.DB, subscriptionIDs []snowflake.ID) ([]domain.SubscriptionLine, error) {
	if len(subscriptionIDs) == 0 {
		return nil, nil
	}
	var lines []domain.SubscriptionLine
	err := db.WithContext(ctx).
		Where("subscription_id IN ?", subscriptionIDs).
		Order("subscription_id asc, position asc, id asc").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *repo) ListRenewalCandidates(ctx context.Context, db *gorm.DB, period domain.BillingPeriod, now time.Time) ([]domain.Subscription, error) {
	var items []domain.Subscription
	err := activeByPeriod(ctx, db, period).
		Where("(subscriptions.end_date IS NULL OR subscriptions.end_date > ?)", now).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) ListActiveByPeriod(ctx context.Context, db *gorm.DB, period domain.BillingPeriod) ([]domain.Subscription, error) {
	var items []domain.Subscription
	if err := activeByPeriod(ctx, db, period).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func activeByPeriod(ctx context.Context, db *gorm.DB, period domain.BillingPeriod) *gorm.DB {
	return db.WithContext(ctx).
		Model(&domain.Subscription{}).
		Select("subscriptions.*").
		Joins("JOIN recurring_plans ON recurring_plans.id = subscriptions.recurring_plan_id").
		Where("subscriptions.status = ?", domain.SubscriptionStatusActive).
		Where("recurring_plans.billing_period = ?", period).
		Order("subscriptions.created_at asc, subscriptions.id asc")
}
