package migration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const schemaStateID = 1

var ErrSchemaNotReady = errors.New("schema_not_ready")

// SchemaState records which embedded schema the database was last migrated to.
type SchemaState struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false"`
	Version   uint      `gorm:"not null"`
	Checksum  string    `gorm:"type:text;not null"`
	AppliedAt time.Time `gorm:"not null"`
}

func (SchemaState) TableName() string { return "schema_state" }

func recordSchemaState(ctx context.Context, db *gorm.DB, m Manifest) error {
	state := SchemaState{
		ID:        schemaStateID,
		Version:   m.Version,
		Checksum:  m.Checksum,
		AppliedAt: time.Now().UTC(),
	}
	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"version", "checksum", "applied_at"}),
	}).Create(&state).Error
	if err != nil {
		return fmt.Errorf("record schema state: %w", err)
	}
	return nil
}

// EnforceSchemaGate refuses to continue unless the database carries the embedded schema.
func EnforceSchemaGate(db *gorm.DB) error {
	want, err := EmbeddedManifest()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if !db.WithContext(ctx).Migrator().HasTable(&SchemaState{}) {
		return fmt.Errorf("%w: database is not migrated, run `subcommerce migrate`", ErrSchemaNotReady)
	}

	var state SchemaState
	if err := db.WithContext(ctx).Where("id = ?", schemaStateID).Limit(1).Find(&state).Error; err != nil {
		return fmt.Errorf("read schema state: %w", err)
	}
	if state.ID == 0 {
		return fmt.Errorf("%w: schema state missing, run `subcommerce migrate`", ErrSchemaNotReady)
	}
	if state.Version != want.Version || state.Checksum != want.Checksum {
		return fmt.Errorf("%w: database at version %d, binary expects %d", ErrSchemaNotReady, state.Version, want.Version)
	}
	return nil
}
