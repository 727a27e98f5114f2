package clock

import (
	"context"
	"time"

	"go.uber.org/fx"
)

var Module = fx.Module("clock",
	fx.Provide(New),
)

type Clock interface {
	Now(ctx context.Context) time.Time
}

func New() Clock {
	return SystemClock{}
}

type nowKey struct{}

// WithTime returns a context whose clock reading is pinned to t.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, nowKey{}, t.UTC())
}

// FromContext returns the pinned time carried by ctx, if any.
func FromContext(ctx context.Context) (time.Time, bool) {
	t, ok := ctx.Value(nowKey{}).(time.Time)
	return t, ok
}
