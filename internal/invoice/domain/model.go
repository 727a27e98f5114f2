package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "DRAFT"
	InvoiceStatusConfirmed InvoiceStatus = "CONFIRMED"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

// BillingPeriodLayout formats the calendar month an invoice bills for.
const BillingPeriodLayout = "2006-01"

// Invoice amounts are integer minor units. TotalAmount always equals the sum
// of line amounts, which is SubtotalAmount plus TaxAmount.
type Invoice struct {
	ID             snowflake.ID      `gorm:"primaryKey" json:"id"`
	InvoiceNo      string            `gorm:"type:text;not null;uniqueIndex" json:"invoice_no"`
	SubscriptionID snowflake.ID      `gorm:"not null;index;uniqueIndex:ux_invoices_subscription_period" json:"subscription_id"`
	UserID         snowflake.ID      `gorm:"not null;index" json:"user_id"`
	BillingPeriod  string            `gorm:"type:text;not null;uniqueIndex:ux_invoices_subscription_period" json:"billing_period"`
	Status         InvoiceStatus     `gorm:"type:text;not null" json:"status"`
	Currency       string            `gorm:"type:text;not null" json:"currency"`
	IssueDate      time.Time         `gorm:"not null;index" json:"issue_date"`
	DueDate        time.Time         `gorm:"not null" json:"due_date"`
	SubtotalAmount int64             `gorm:"not null" json:"subtotal_amount"`
	TaxAmount      int64             `gorm:"not null" json:"tax_amount"`
	TotalAmount    int64             `gorm:"not null" json:"total_amount"`
	Metadata       datatypes.JSONMap `json:"metadata,omitempty"`
	CreatedAt      time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"not null" json:"updated_at"`
}

func (Invoice) TableName() string { return "invoices" }

type InvoiceLine struct {
	ID          snowflake.ID    `gorm:"primaryKey" json:"id"`
	InvoiceID   snowflake.ID    `gorm:"not null;index" json:"invoice_id"`
	ProductID   snowflake.ID    `gorm:"not null" json:"product_id"`
	Position    int             `gorm:"not null;default:0" json:"position"`
	Quantity    int64           `gorm:"not null" json:"quantity"`
	UnitPrice   int64           `gorm:"not null" json:"unit_price"`
	TaxRate     decimal.Decimal `gorm:"type:numeric(7,4);not null;default:0" json:"tax_rate"`
	TaxAmount   int64           `gorm:"not null" json:"tax_amount"`
	Amount      int64           `gorm:"not null" json:"amount"`
	CreatedAt   time.Time       `gorm:"not null" json:"created_at"`
}

func (InvoiceLine) TableName() string { return "invoice_lines" }
