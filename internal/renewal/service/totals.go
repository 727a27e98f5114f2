package service

import (
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	invoicedomain "github.com/railzwaylabs/subcommerce/internal/invoice/domain"
	"github.com/railzwaylabs/subcommerce/internal/renewal/domain"
	subscriptiondomain "github.com/railzwaylabs/subcommerce/internal/subscription/domain"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type invoiceTotals struct {
	Subtotal int64
	Tax      int64
	Total    int64
}

// lineTax is the tax on qty*unitPrice at a percentage rate, rounded half away from zero.
func lineTax(quantity, unitPrice int64, rate decimal.Decimal) int64 {
	net := decimal.NewFromInt(quantity).Mul(decimal.NewFromInt(unitPrice))
	return net.Mul(rate).Div(hundred).Round(0).IntPart()
}

// buildInvoiceLines copies subscription lines onto a new invoice, re-deriving
// every amount from quantity, unit price and tax rate.
func buildInvoiceLines(node *snowflake.Node, invoiceID snowflake.ID, lines []subscriptiondomain.SubscriptionLine, now time.Time) []invoicedomain.InvoiceLine {
	return lo.Map(lines, func(line subscriptiondomain.SubscriptionLine, i int) invoicedomain.InvoiceLine {
		tax := lineTax(line.Quantity, line.UnitPrice, line.TaxRate)
		return invoicedomain.InvoiceLine{
			ID:        node.Generate(),
			InvoiceID: invoiceID,
			ProductID: line.ProductID,
			Position:  i,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			TaxRate:   line.TaxRate,
			TaxAmount: tax,
			Amount:    line.Quantity*line.UnitPrice + tax,
			CreatedAt: now,
		}
	})
}

func sumTotals(lines []invoicedomain.InvoiceLine) invoiceTotals {
	return invoiceTotals{
		Subtotal: lo.SumBy(lines, func(l invoicedomain.InvoiceLine) int64 { return l.Quantity * l.UnitPrice }),
		Tax:      lo.SumBy(lines, func(l invoicedomain.InvoiceLine) int64 { return l.TaxAmount }),
		Total:    lo.SumBy(lines, func(l invoicedomain.InvoiceLine) int64 { return l.Amount }),
	}
}

func (t invoiceTotals) check() error {
	if t.Subtotal+t.Tax != t.Total {
		return fmt.Errorf("%w: subtotal %d + tax %d != total %d", domain.ErrTotalsMismatch, t.Subtotal, t.Tax, t.Total)
	}
	if t.Subtotal < 0 || t.Tax < 0 {
		return fmt.Errorf("%w: negative amounts", domain.ErrTotalsMismatch)
	}
	return nil
}

func dueDate(issue time.Time, paymentTermDays *int) time.Time {
	if paymentTermDays == nil || *paymentTermDays <= 0 {
		return issue
	}
	return issue.AddDate(0, 0, *paymentTermDays)
}

func invoiceNumber(issue time.Time, id snowflake.ID) string {
	return fmt.Sprintf("INV-%s-%s", issue.Format("200601"), id.String())
}
