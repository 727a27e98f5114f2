package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/railzwaylabs/subcommerce/internal/auth"
	"github.com/railzwaylabs/subcommerce/internal/clock"
	"github.com/railzwaylabs/subcommerce/internal/config"
	"github.com/railzwaylabs/subcommerce/internal/invoice"
	"github.com/railzwaylabs/subcommerce/internal/migration"
	"github.com/railzwaylabs/subcommerce/internal/observability"
	"github.com/railzwaylabs/subcommerce/internal/product"
	"github.com/railzwaylabs/subcommerce/internal/redis"
	"github.com/railzwaylabs/subcommerce/internal/renewal"
	"github.com/railzwaylabs/subcommerce/internal/server"
	"github.com/railzwaylabs/subcommerce/internal/subscription"
	"github.com/railzwaylabs/subcommerce/pkg/db"
	"go.uber.org/fx"
)

// API only; renewals run on demand through POST /api/admin/renewals/run.
func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.GateModule,
		clock.Module,
		redis.Module,
		product.Module,
		subscription.Module,
		invoice.Module,
		renewal.Module,
		auth.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
