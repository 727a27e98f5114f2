package invoice

import (
	"github.com/railzwaylabs/subcommerce/internal/invoice/repository"
	"github.com/railzwaylabs/subcommerce/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
