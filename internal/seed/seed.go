package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	productdomain "github.com/railzwaylabs/subcommerce/internal/product/domain"
	productrepository "github.com/railzwaylabs/subcommerce/internal/product/repository"
	subscriptiondomain "github.com/railzwaylabs/subcommerce/internal/subscription/domain"
	subscriptionrepository "github.com/railzwaylabs/subcommerce/internal/subscription/repository"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const demoPlanName = "Monthly"

type productSeed struct {
	Name      string
	UnitPrice int64
	TaxRate   string
}

var demoProducts = []productSeed{
	{Name: "Starter Seat", UnitPrice: 1500, TaxRate: "11"},
	{Name: "Priority Support", UnitPrice: 4900, TaxRate: "11"},
	{Name: "Storage 100 GB", UnitPrice: 299, TaxRate: "0"},
}

type subscriptionSeed struct {
	No        string
	AnchorDay int
	Lines     map[string]int64
}

var demoSubscriptions = []subscriptionSeed{
	{No: "SUB-DEMO-0001", AnchorDay: 8, Lines: map[string]int64{"Starter Seat": 5, "Storage 100 GB": 2}},
	{No: "SUB-DEMO-0002", AnchorDay: 31, Lines: map[string]int64{"Priority Support": 1}},
	{No: "SUB-DEMO-0003", AnchorDay: 15, Lines: map[string]int64{}},
}

// Result counts what a seed pass created; zero values mean everything already existed.
type Result struct {
	Products      int
	Plans         int
	Subscriptions int
}

// EnsureDemoData creates a small catalog, a MONTHLY plan and active
// subscriptions anchored on different days. Existing rows are left alone.
func EnsureDemoData(ctx context.Context, db *gorm.DB, node *snowflake.Node, now time.Time) (Result, error) {
	if db == nil || node == nil {
		return Result{}, errors.New("seed requires database handle and id node")
	}

	products := productrepository.Provide()
	subscriptions := subscriptionrepository.Provide()
	var res Result

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		byName := make(map[string]productdomain.Product, len(demoProducts))
		for _, p := range demoProducts {
			product, created, err := ensureProduct(ctx, tx, products, node, p, now)
			if err != nil {
				return err
			}
			if created {
				res.Products++
			}
			byName[p.Name] = product
		}

		plan, created, err := ensureMonthlyPlan(ctx, tx, node, now)
		if err != nil {
			return err
		}
		if created {
			res.Plans++
		}

		for i, s := range demoSubscriptions {
			existing, err := subscriptions.FindBySubscriptionNo(ctx, tx, s.No)
			if err != nil {
				return err
			}
			if existing != nil {
				continue
			}
			if err := createSubscription(ctx, tx, subscriptions, node, plan, s, byName, snowflake.ID(1000+i), now); err != nil {
				return err
			}
			res.Subscriptions++
		}
		return nil
	})
	return res, err
}

func ensureProduct(ctx context.Context, tx *gorm.DB, repo productdomain.Repository, node *snowflake.Node, p productSeed, now time.Time) (productdomain.Product, bool, error) {
	code := slug.Make(p.Name)
	existing, err := repo.FindByCode(ctx, tx, code)
	if err != nil {
		return productdomain.Product{}, false, err
	}
	if existing != nil {
		return *existing, false, nil
	}

	product := productdomain.Product{
		ID:        node.Generate(),
		Code:      code,
		Name:      p.Name,
		Currency:  "USD",
		UnitPrice: p.UnitPrice,
		TaxRate:   decimal.RequireFromString(p.TaxRate),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repo.Insert(ctx, tx, &product); err != nil {
		return productdomain.Product{}, false, fmt.Errorf("seed product %s: %w", code, err)
	}
	return product, true, nil
}

func ensureMonthlyPlan(ctx context.Context, tx *gorm.DB, node *snowflake.Node, now time.Time) (subscriptiondomain.RecurringPlan, bool, error) {
	var plan subscriptiondomain.RecurringPlan
	err := tx.WithContext(ctx).
		Where("name = ? AND billing_period = ?", demoPlanName, subscriptiondomain.BillingPeriodMonthly).
		Limit(1).
		Find(&plan).Error
	if err != nil {
		return plan, false, err
	}
	if plan.ID != 0 {
		return plan, false, nil
	}

	plan = subscriptiondomain.RecurringPlan{
		ID:            node.Generate(),
		Name:          demoPlanName,
		BillingPeriod: subscriptiondomain.BillingPeriodMonthly,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := subscriptionrepository.Provide().InsertPlan(ctx, tx, &plan); err != nil {
		return plan, false, fmt.Errorf("seed plan: %w", err)
	}
	return plan, true, nil
}

// createSubscription backdates the subscription to its anchor day in the previous month.
func createSubscription(ctx context.Context, tx *gorm.DB, repo subscriptiondomain.Repository, node *snowflake.Node, plan subscriptiondomain.RecurringPlan, s subscriptionSeed, products map[string]productdomain.Product, userID snowflake.ID, now time.Time) error {
	prev := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	day := min(s.AnchorDay, time.Date(prev.Year(), prev.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day())
	createdAt := time.Date(prev.Year(), prev.Month(), day, 9, 0, 0, 0, time.UTC)

	sub := subscriptiondomain.Subscription{
		ID:              node.Generate(),
		SubscriptionNo:  s.No,
		UserID:          userID,
		RecurringPlanID: &plan.ID,
		Status:          subscriptiondomain.SubscriptionStatusActive,
		Currency:        "USD",
		Metadata:        datatypes.JSONMap{"seed": true},
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}

	lines := make([]subscriptiondomain.SubscriptionLine, 0, len(s.Lines))
	position := 0
	for _, p := range demoProducts {
		qty, ok := s.Lines[p.Name]
		if !ok {
			continue
		}
		product := products[p.Name]
		net := qty * product.UnitPrice
		tax := decimal.NewFromInt(net).Mul(product.TaxRate).Div(decimal.NewFromInt(100)).Round(0).IntPart()
		lines = append(lines, subscriptiondomain.SubscriptionLine{
			ID:             node.Generate(),
			SubscriptionID: sub.ID,
			ProductID:      product.ID,
			Position:       position,
			Quantity:       qty,
			UnitPrice:      product.UnitPrice,
			TaxRate:        product.TaxRate,
			Amount:         net + tax,
			CreatedAt:      createdAt,
		})
		sub.SubtotalAmount += net
		sub.TaxAmount += tax
		position++
	}
	sub.TotalAmount = sub.SubtotalAmount + sub.TaxAmount

	if err := repo.Insert(ctx, tx, &sub); err != nil {
		return fmt.Errorf("seed subscription %s: %w", s.No, err)
	}
	return repo.InsertLines(ctx, tx, lines)
}
