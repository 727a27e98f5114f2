package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Product is a sellable catalog item. Prices are integer minor units.
type Product struct {
	ID        snowflake.ID    `gorm:"primaryKey" json:"id"`
	Code      string          `gorm:"type:text;not null;uniqueIndex" json:"code"`
	Name      string          `gorm:"type:text;not null" json:"name"`
	Currency  string          `gorm:"type:text;not null;default:USD" json:"currency"`
	UnitPrice int64           `gorm:"not null" json:"unit_price"`
	TaxRate   decimal.Decimal `gorm:"type:numeric(7,4);not null;default:0" json:"tax_rate"`
	Active    bool            `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null" json:"updated_at"`
}

func (Product) TableName() string { return "products" }

var (
	ErrNotFound    = errors.New("product_not_found")
	ErrInvalidCode = errors.New("invalid_code")
)
