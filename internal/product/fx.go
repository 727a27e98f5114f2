package product

import (
	"github.com/railzwaylabs/subcommerce/internal/product/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("product.repository",
	fx.Provide(repository.Provide),
)
