package migration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	invoicedomain "github.com/railzwaylabs/subcommerce/internal/invoice/domain"
	productdomain "github.com/railzwaylabs/subcommerce/internal/product/domain"
	subscriptiondomain "github.com/railzwaylabs/subcommerce/internal/subscription/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Models are the tables AutoMigrate keeps in step with the embedded SQL.
func Models() []any {
	return []any{
		&productdomain.Product{},
		&subscriptiondomain.RecurringPlan{},
		&subscriptiondomain.Subscription{},
		&subscriptiondomain.SubscriptionLine{},
		&invoicedomain.Invoice{},
		&invoicedomain.InvoiceLine{},
		&SchemaState{},
	}
}

// Run migrates the schema. Postgres applies the embedded SQL under an advisory
// lock; other dialects use gorm AutoMigrate.
func Run(db *gorm.DB, log *zap.Logger) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}

	manifest, err := EmbeddedManifest()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dialect := db.Dialector.Name()
	switch dialect {
	case "postgres":
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		if err := runPostgres(ctx, sqlDB, manifest.Version, log); err != nil {
			return err
		}
	default:
		if err := db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
	}

	if err := recordSchemaState(ctx, db, manifest); err != nil {
		return err
	}
	log.Info("schema migrated",
		zap.String("dialect", dialect),
		zap.Uint("version", manifest.Version),
	)
	return nil
}

func runPostgres(ctx context.Context, db *sql.DB, latestVersion uint, log *zap.Logger) error {
	unlock, err := acquireAdvisoryLock(ctx, db)
	if err != nil {
		return err
	}
	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			log.Warn("release migration advisory lock", zap.Error(err))
		}
	}()

	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if _, err := ensureNotDirty(migrator); err != nil {
		return err
	}

	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	current, err := ensureNotDirty(migrator)
	if err != nil {
		return err
	}
	if current != latestVersion {
		return fmt.Errorf("schema version mismatch after migrate: got %d want %d", current, latestVersion)
	}
	return nil
}

func ensureNotDirty(migrator *migrate.Migrate) (uint, error) {
	version, dirty, err := migrator.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return 0, nil
		}
		return 0, fmt.Errorf("read migration version: %w", err)
	}
	if dirty {
		return 0, fmt.Errorf("database migrations are dirty at version %d", version)
	}
	return version, nil
}
