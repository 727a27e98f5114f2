package renewal

import (
	"github.com/railzwaylabs/subcommerce/internal/renewal/runlock"
	"github.com/railzwaylabs/subcommerce/internal/renewal/runlog"
	"github.com/railzwaylabs/subcommerce/internal/renewal/service"
	"go.uber.org/fx"
)

var Module = fx.Module("renewal.service",
	fx.Provide(runlog.Provide),
	fx.Provide(runlock.Provide),
	fx.Provide(service.NewMetrics),
	fx.Provide(service.New),
)
