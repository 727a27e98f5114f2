package repository

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/railzwaylabs/subcommerce/internal/subscription/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestListRenewalCandidatesFiltersSelection(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.RecurringPlan{}, &domain.Subscription{}, &domain.SubscriptionLine{}))

	ctx := context.Background()
	repo := Provide()
	node, _ := snowflake.NewNode(1)
	now := time.Date(2024, time.March, 12, 9, 0, 0, 0, time.UTC)

	monthly := domain.RecurringPlan{ID: node.Generate(), Name: "monthly", BillingPeriod: domain.BillingPeriodMonthly, CreatedAt: now, UpdatedAt: now}
	yearly := domain.RecurringPlan{ID: node.Generate(), Name: "yearly", BillingPeriod: domain.BillingPeriodYearly, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.InsertPlan(ctx, db, &monthly))
	require.NoError(t, repo.InsertPlan(ctx, db, &yearly))

	past := now.AddDate(0, 0, -1)
	future := now.AddDate(0, 1, 0)
	mk := func(no string, plan *snowflake.ID, status domain.SubscriptionStatus, end *time.Time, created time.Time) domain.Subscription {
		s := domain.Subscription{
			ID:              node.Generate(),
			SubscriptionNo:  no,
			UserID:          node.Generate(),
			RecurringPlanID: plan,
			Status:          status,
			Currency:        "USD",
			EndDate:         end,
			CreatedAt:       created,
			UpdatedAt:       created,
		}
		require.NoError(t, repo.Insert(ctx, db, &s))
		return s
	}

	second := mk("SUB-2", &monthly.ID, domain.SubscriptionStatusActive, &future, now.AddDate(0, -1, 0))
	first := mk("SUB-1", &monthly.ID, domain.SubscriptionStatusActive, nil, now.AddDate(0, -2, 0))
	ended := mk("SUB-3", &monthly.ID, domain.SubscriptionStatusActive, &past, now.AddDate(0, -2, 0))
	mk("SUB-4", &monthly.ID, domain.SubscriptionStatusCancelled, nil, now.AddDate(0, -2, 0))
	mk("SUB-5", &yearly.ID, domain.SubscriptionStatusActive, nil, now.AddDate(0, -2, 0))
	mk("SUB-6", nil, domain.SubscriptionStatusActive, nil, now.AddDate(0, -2, 0))

	items, err := repo.ListRenewalCandidates(ctx, db, domain.BillingPeriodMonthly, now)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, first.ID, items[0].ID)
	require.Equal(t, second.ID, items[1].ID)

	all, err := repo.ListActiveByPeriod(ctx, db, domain.BillingPeriodMonthly)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.ElementsMatch(t, []snowflake.ID{first.ID, second.ID, ended.ID}, []snowflake.ID{all[0].ID, all[1].ID, all[2].ID})
}

func TestFindByIDMissingReturnsNil(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Subscription{}))

	item, err := Provide().FindByID(context.Background(), db, 42)
	require.NoError(t, err)
	require.Nil(t, item)
}
