package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type SubscriptionStatus string

const (
	SubscriptionStatusDraft     SubscriptionStatus = "DRAFT"
	SubscriptionStatusConfirmed SubscriptionStatus = "CONFIRMED"
	SubscriptionStatusActive    SubscriptionStatus = "ACTIVE"
	SubscriptionStatusClosed    SubscriptionStatus = "CLOSED"
	SubscriptionStatusCancelled SubscriptionStatus = "CANCELLED"
)

func (s SubscriptionStatus) Valid() bool {
	switch s {
	case SubscriptionStatusDraft,
		SubscriptionStatusConfirmed,
		SubscriptionStatusActive,
		SubscriptionStatusClosed,
		SubscriptionStatusCancelled:
		return true
	}
	return false
}

type BillingPeriod string

const (
	BillingPeriodDaily   BillingPeriod = "DAILY"
	BillingPeriodWeekly  BillingPeriod = "WEEKLY"
	BillingPeriodMonthly BillingPeriod = "MONTHLY"
	BillingPeriodYearly  BillingPeriod = "YEARLY"
)

type RecurringPlan struct {
	ID            snowflake.ID  `gorm:"primaryKey" json:"id"`
	Name          string        `gorm:"type:text;not null" json:"name"`
	BillingPeriod BillingPeriod `gorm:"type:text;not null;index" json:"billing_period"`
	CreatedAt     time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"not null" json:"updated_at"`
}

func (RecurringPlan) TableName() string { return "recurring_plans" }

// Subscription totals are a cached view of its lines; billing always re-derives them.
type Subscription struct {
	ID              snowflake.ID       `gorm:"primaryKey" json:"id"`
	SubscriptionNo  string             `gorm:"type:text;not null;uniqueIndex" json:"subscription_no"`
	UserID          snowflake.ID       `gorm:"not null;index" json:"user_id"`
	RecurringPlanID *snowflake.ID      `gorm:"index" json:"recurring_plan_id,omitempty"`
	Status          SubscriptionStatus `gorm:"type:text;not null;index" json:"status"`
	Currency        string             `gorm:"type:text;not null;default:USD" json:"currency"`
	PaymentTermDays *int               `json:"payment_term_days,omitempty"`
	EndDate         *time.Time         `json:"end_date,omitempty"`
	SubtotalAmount  int64              `gorm:"not null;default:0" json:"subtotal_amount"`
	TaxAmount       int64              `gorm:"not null;default:0" json:"tax_amount"`
	TotalAmount     int64              `gorm:"not null;default:0" json:"total_amount"`
	Metadata        datatypes.JSONMap  `json:"metadata,omitempty"`
	CreatedAt       time.Time          `gorm:"not null;index" json:"created_at"`
	UpdatedAt       time.Time          `gorm:"not null" json:"updated_at"`
}

func (Subscription) TableName() string { return "subscriptions" }

// SubscriptionLine amounts are integer minor units; TaxRate is a percentage.
type SubscriptionLine struct {
	ID             snowflake.ID    `gorm:"primaryKey" json:"id"`
	SubscriptionID snowflake.ID    `gorm:"not null;index" json:"subscription_id"`
	ProductID      snowflake.ID    `gorm:"not null" json:"product_id"`
	Position       int             `gorm:"not null;default:0" json:"position"`
	Quantity       int64           `gorm:"not null" json:"quantity"`
	UnitPrice      int64           `gorm:"not null" json:"unit_price"`
	TaxRate        decimal.Decimal `gorm:"type:numeric(7,4);not null;default:0" json:"tax_rate"`
	Amount         int64           `gorm:"not null" json:"amount"`
	CreatedAt      time.Time       `gorm:"not null" json:"created_at"`
}

func (SubscriptionLine) TableName() string { return "subscription_lines" }
