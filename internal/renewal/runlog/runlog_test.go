package runlog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/railzwaylabs/subcommerce/internal/renewal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRun(id string, at time.Time) domain.Run {
	return domain.Run{
		RunID:     id,
		Timestamp: at,
		Trigger:   domain.TriggerManual,
		Scanned:   2,
		Renewed:   1,
		Renewals:  []domain.Renewed{{ID: "1", InvoiceID: "10", InvoiceNo: "INV-1", TotalAmount: 1100}},
		Skipped:   []domain.Skipped{{ID: "2", Reasons: []domain.Reason{domain.ReasonNoLines}}},
		Failed:    []domain.Failed{},
	}
}

func TestFileMissingIsEmpty(t *testing.T) {
	sink := NewFile(filepath.Join(t.TempDir(), "none.jsonl"))

	history, err := sink.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, history.Runs)
	assert.NotNil(t, history.Runs)
	assert.Zero(t, history.Malformed)
}

func TestFileAppendAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "var", "runs.jsonl")
	sink := NewFile(path)
	ctx := context.Background()
	base := time.Date(2026, time.February, 8, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, sink.Append(ctx, sampleRun(id, base.Add(time.Duration(i)*time.Minute))))
	}

	history, err := sink.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, history.Runs, 2)
	assert.Equal(t, "c", history.Runs[0].RunID)
	assert.Equal(t, "b", history.Runs[1].RunID)
	assert.Equal(t, []domain.Reason{domain.ReasonNoLines}, history.Runs[0].Skipped[0].Reasons)
}

func TestFileSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.jsonl")
	sink := NewFile(path)
	ctx := context.Background()

	require.NoError(t, sink.Append(ctx, sampleRun("a", time.Now().UTC())))
	fh, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = fh.WriteString("{not json\n\n[1,2]\n")
	require.NoError(t, err)
	require.NoError(t, fh.Close())
	require.NoError(t, sink.Append(ctx, sampleRun("b", time.Now().UTC())))

	history, err := sink.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, history.Runs, 2)
	assert.Equal(t, "b", history.Runs[0].RunID)
	assert.Equal(t, 2, history.Malformed)
}

func TestFileAppendFailsOnUnwritablePath(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	sink := NewFile(filepath.Join(blocker, "runs.jsonl"))
	require.Error(t, sink.Append(context.Background(), sampleRun("a", time.Now().UTC())))
}

func TestRedisCapsEntries(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	sink := NewRedis(client, "subcommerce:renewal:runs", 2)
	ctx := context.Background()
	base := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, sink.Append(ctx, sampleRun(id, base.Add(time.Duration(i)*time.Hour))))
	}

	stored, err := mr.List("subcommerce:renewal:runs")
	require.NoError(t, err)
	assert.Len(t, stored, 2)

	_, err = mr.Push("subcommerce:renewal:runs", "garbage")
	require.NoError(t, err)

	history, err := sink.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, history.Runs, 2)
	assert.Equal(t, "c", history.Runs[0].RunID)
	assert.Equal(t, "b", history.Runs[1].RunID)
	assert.Equal(t, 1, history.Malformed)
}

func TestRedisEmptyKey(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	history, err := NewRedis(client, "missing", 10).Recent(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, history.Runs)
}
