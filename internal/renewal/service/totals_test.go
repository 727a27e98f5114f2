package service

import (
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	invoicedomain "github.com/railzwaylabs/subcommerce/internal/invoice/domain"
	"github.com/railzwaylabs/subcommerce/internal/renewal/domain"
	subscriptiondomain "github.com/railzwaylabs/subcommerce/internal/subscription/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineTax(t *testing.T) {
	assert.Equal(t, int64(0), lineTax(1, 1000, decimal.Zero))
	assert.Equal(t, int64(100), lineTax(1, 1000, decimal.NewFromInt(10)))
	// 5 * 0.075 * 1 = 0.375 rounds down, 7 * 0.075 * 1 = 0.525 rounds up
	assert.Equal(t, int64(0), lineTax(1, 5, decimal.RequireFromString("7.5")))
	assert.Equal(t, int64(1), lineTax(1, 7, decimal.RequireFromString("7.5")))
	assert.Equal(t, int64(660), lineTax(3, 1999, decimal.NewFromInt(11)))
}

func TestBuildInvoiceLinesIgnoresCachedAmounts(t *testing.T) {
	node, _ := snowflake.NewNode(1)
	now := time.Date(2026, time.February, 8, 0, 0, 0, 0, time.UTC)
	invoiceID := node.Generate()

	lines := []subscriptiondomain.SubscriptionLine{
		{ID: node.Generate(), ProductID: node.Generate(), Quantity: 2, UnitPrice: 1250, TaxRate: decimal.NewFromInt(20), Amount: 1},
		{ID: node.Generate(), ProductID: node.Generate(), Quantity: 1, UnitPrice: 99, TaxRate: decimal.Zero, Amount: 5000},
	}

	out := buildInvoiceLines(node, invoiceID, lines, now)
	require.Len(t, out, 2)
	assert.Equal(t, invoiceID, out[0].InvoiceID)
	assert.Equal(t, int64(500), out[0].TaxAmount)
	assert.Equal(t, int64(3000), out[0].Amount)
	assert.Equal(t, int64(99), out[1].Amount)
	assert.Equal(t, 1, out[1].Position)

	totals := sumTotals(out)
	assert.Equal(t, invoiceTotals{Subtotal: 2599, Tax: 500, Total: 3099}, totals)
	assert.NoError(t, totals.check())
}

func TestTotalsCheckRejectsMismatch(t *testing.T) {
	bad := sumTotals([]invoicedomain.InvoiceLine{{Quantity: 1, UnitPrice: 100, TaxAmount: 10, Amount: 100}})
	assert.ErrorIs(t, bad.check(), domain.ErrTotalsMismatch)
}

func TestDueDate(t *testing.T) {
	issue := time.Date(2026, time.January, 25, 0, 0, 0, 0, time.UTC)
	terms := 30
	zero := 0

	assert.True(t, dueDate(issue, nil).Equal(issue))
	assert.True(t, dueDate(issue, &zero).Equal(issue))
	assert.True(t, dueDate(issue, &terms).Equal(time.Date(2026, time.February, 24, 0, 0, 0, 0, time.UTC)))
}
