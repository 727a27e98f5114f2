package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	fx.Provide(NewLogger),
	fx.Provide(prometheus.NewRegistry),
	fx.Provide(
		func(r *prometheus.Registry) prometheus.Registerer { return r },
		// Go runtime and process collectors live on the default registry.
		func(r *prometheus.Registry) prometheus.Gatherer {
			return prometheus.Gatherers{r, prometheus.DefaultGatherer}
		},
	),
	fx.Invoke(RegisterTracing),
)
