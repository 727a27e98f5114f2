package migration

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, log *zap.Logger) error {
		return Run(conn, log.Named("migration"))
	}),
)

// GateModule stops the app from starting against an unmigrated database.
var GateModule = fx.Module("migrations.gate",
	fx.Invoke(EnforceSchemaGate),
)
