package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

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
	renewaldomain "github.com/railzwaylabs/subcommerce/internal/renewal/domain"
	"github.com/railzwaylabs/subcommerce/internal/scheduler"
	"github.com/railzwaylabs/subcommerce/internal/seed"
	"github.com/railzwaylabs/subcommerce/internal/server"
	"github.com/railzwaylabs/subcommerce/internal/subscription"
	"github.com/railzwaylabs/subcommerce/pkg/db"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "subcommerce",
		Short:   "Subcommerce CLI",
		Version: readVersionFromEnv(),
	}
	root.AddCommand(
		newMigrateCmd(),
		newServeCmd(),
		newSchedulerCmd(),
		newAllCmd(),
		newRenewCmd(),
		newSeedCmd(),
		newTokenCmd(),
	)
	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations and record schema state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate()
		},
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API without the renewal scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			fx.New(coreModules(), server.Module).Run()
			return nil
		},
	}
}

func newSchedulerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scheduler",
		Short: "Run the renewal scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			fx.New(coreModules(), scheduler.Module, fx.Invoke(scheduler.Register)).Run()
			return nil
		},
	}
}

func newAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Run migrations, then start the HTTP API and the renewal scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runMigrate(); err != nil {
				return err
			}
			fx.New(
				coreModules(),
				server.Module,
				scheduler.Module,
				fx.Invoke(scheduler.Register),
			).Run()
			return nil
		},
	}
}

func newRenewCmd() *cobra.Command {
	var asOf string
	cmd := &cobra.Command{
		Use:   "renew",
		Short: "Run the renewal job once and print the run record",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if asOf != "" {
				t, err := time.Parse(time.RFC3339, asOf)
				if err != nil {
					return fmt.Errorf("invalid --as-of: %w", err)
				}
				ctx = clock.WithTime(ctx, t.UTC())
			}

			var svc renewaldomain.Service
			app := fx.New(coreModules(), fx.Populate(&svc), fx.NopLogger)
			if err := startApp(app); err != nil {
				return err
			}
			defer func() { _ = app.Stop(context.Background()) }()

			run, err := svc.Run(ctx, renewaldomain.TriggerManual)
			if err != nil && !errors.Is(err, renewaldomain.ErrCandidateScan) {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if encErr := enc.Encode(run); encErr != nil {
				return encErr
			}
			return err
		},
	}
	cmd.Flags().StringVar(&asOf, "as-of", "", "evaluate the run at this RFC3339 instant")
	return cmd
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create demo products, a monthly plan and subscriptions",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				conn *gorm.DB
				node *snowflake.Node
			)
			app := fx.New(
				config.Module,
				observability.Module,
				fx.Provide(registerSnowflake),
				db.Module,
				migration.GateModule,
				fx.Populate(&conn, &node),
				fx.NopLogger,
			)
			if err := startApp(app); err != nil {
				return err
			}
			defer func() { _ = app.Stop(context.Background()) }()

			res, err := seed.EnsureDemoData(cmd.Context(), conn, node, time.Now().UTC())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "products=%d plans=%d subscriptions=%d\n", res.Products, res.Plans, res.Subscriptions)
			return nil
		},
	}
}

func newTokenCmd() *cobra.Command {
	var (
		userID int64
		role   string
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a development bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			r := auth.Role(strings.ToLower(strings.TrimSpace(role)))
			if !r.Valid() {
				return auth.ErrInvalidRole
			}
			if userID <= 0 {
				return errors.New("--user-id must be positive")
			}
			token, err := auth.NewTokens(cfg).Issue(snowflake.ID(userID), r)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().Int64Var(&userID, "user-id", 0, "subject user id")
	cmd.Flags().StringVar(&role, "role", string(auth.RoleAdmin), "admin or customer")
	return cmd
}

// coreModules is everything a process needs to serve or run renewals.
func coreModules() fx.Option {
	return fx.Options(
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		migration.GateModule,
		clock.Module,
		redis.Module,
		product.Module,
		subscription.Module,
		invoice.Module,
		renewal.Module,
		auth.Module,
	)
}

func runMigrate() error {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		migration.Module,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("migrate failed: %w", err)
	}
	_ = app.Stop(context.Background())
	return nil
}

func startApp(app *fx.App) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	return app.Start(ctx)
}

func registerSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}

func readVersionFromEnv() string {
	if v := strings.TrimSpace(os.Getenv("APP_VERSION")); v != "" {
		return v
	}
	return "dev"
}
