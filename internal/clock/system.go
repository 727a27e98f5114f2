package clock

import (
	"context"
	"time"
)

type SystemClock struct{}

func (SystemClock) Now(ctx context.Context) time.Time {
	if t, ok := FromContext(ctx); ok {
		return t
	}
	return time.Now().UTC()
}

// Fixed always reports the same instant unless the context pins another one.
type Fixed struct {
	T time.Time
}

func NewFixed(t time.Time) Fixed {
	return Fixed{T: t.UTC()}
}

func (f Fixed) Now(ctx context.Context) time.Time {
	if t, ok := FromContext(ctx); ok {
		return t
	}
	return f.T
}
