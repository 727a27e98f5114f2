package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListFilter struct {
	Status SubscriptionStatus
	UserID snowflake.ID
	Limit  int
}

type Repository interface {
	InsertPlan(ctx context.Context, db *gorm.DB, plan *RecurringPlan) error
	Insert(ctx context.Context, db *gorm.DB, subscription *Subscription) error
	InsertLines(ctx context.Context, db *gorm.DB, lines []SubscriptionLine) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Subscription, error)
	FindBySubscriptionNo(ctx context.Context, db *gorm.DB, subscriptionNo string) (*Subscription, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Subscription, error)
	ListLines(ctx context.Context, db *gorm.DB, subscriptionIDs []snowflake.ID) ([]SubscriptionLine, error)

	// ListRenewalCandidates returns ACTIVE subscriptions on a plan with the given
	// billing period whose end date is unset or after now, oldest first.
	ListRenewalCandidates(ctx context.Context, db *gorm.DB, period BillingPeriod, now time.Time) ([]Subscription, error)

	// ListActiveByPeriod is ListRenewalCandidates without the end date filter.
	ListActiveByPeriod(ctx context.Context, db *gorm.DB, period BillingPeriod) ([]Subscription, error)
}
