package clock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSystemClockUsesContextOverride(t *testing.T) {
	pinned := time.Date(2026, 2, 8, 9, 30, 0, 0, time.FixedZone("WIB", 7*3600))
	ctx := WithTime(context.Background(), pinned)

	got := SystemClock{}.Now(ctx)
	require.True(t, got.Equal(pinned))
	require.Equal(t, time.UTC, got.Location())
}

func TestSystemClockDefaultsToUTCNow(t *testing.T) {
	before := time.Now().UTC()
	got := New().Now(context.Background())
	require.Equal(t, time.UTC, got.Location())
	require.False(t, got.Before(before))
}

func TestFixedClock(t *testing.T) {
	at := time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC)
	c := NewFixed(at)
	require.True(t, c.Now(context.Background()).Equal(at))

	other := at.AddDate(0, 1, 0)
	require.True(t, c.Now(WithTime(context.Background(), other)).Equal(other))
}
