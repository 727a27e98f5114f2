package seed

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	productdomain "github.com/railzwaylabs/subcommerce/internal/product/domain"
	subscriptiondomain "github.com/railzwaylabs/subcommerce/internal/subscription/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestEnsureDemoDataIsIdempotent(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&productdomain.Product{},
		&subscriptiondomain.RecurringPlan{},
		&subscriptiondomain.Subscription{},
		&subscriptiondomain.SubscriptionLine{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	now := time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC)
	ctx := context.Background()

	first, err := EnsureDemoData(ctx, db, node, now)
	require.NoError(t, err)
	assert.Equal(t, Result{Products: 3, Plans: 1, Subscriptions: 3}, first)

	second, err := EnsureDemoData(ctx, db, node, now)
	require.NoError(t, err)
	assert.Equal(t, Result{}, second)

	var product productdomain.Product
	require.NoError(t, db.Where("code = ?", "starter-seat").First(&product).Error)
	assert.Equal(t, int64(1500), product.UnitPrice)

	var sub subscriptiondomain.Subscription
	require.NoError(t, db.Where("subscription_no = ?", "SUB-DEMO-0002").First(&sub).Error)
	// anchor 31 clamps to february 28
	assert.Equal(t, 28, sub.CreatedAt.Day())
	assert.Equal(t, time.February, sub.CreatedAt.Month())

	var lines int64
	require.NoError(t, db.Model(&subscriptiondomain.SubscriptionLine{}).Count(&lines).Error)
	assert.EqualValues(t, 3, lines)
}
