package runlog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/railzwaylabs/subcommerce/internal/renewal/domain"
	"github.com/redis/go-redis/v9"
)

// Redis keeps run records in a capped list, oldest at the head.
type Redis struct {
	client     *redis.Client
	key        string
	maxEntries int64
}

func NewRedis(client *redis.Client, key string, maxEntries int64) *Redis {
	return &Redis{client: client, key: key, maxEntries: maxEntries}
}

func (r *Redis) Append(ctx context.Context, run domain.Run) error {
	payload, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("encode run: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.RPush(ctx, r.key, payload)
	if r.maxEntries > 0 {
		pipe.LTrim(ctx, r.key, -r.maxEntries, -1)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (r *Redis) Recent(ctx context.Context, limit int) (domain.History, error) {
	if limit <= 0 {
		return domain.History{Runs: []domain.Run{}}, nil
	}

	items, err := r.client.LRange(ctx, r.key, int64(-limit), -1).Result()
	if err != nil {
		return domain.History{}, err
	}

	var (
		runs      []domain.Run
		malformed int
	)
	for _, item := range items {
		run, ok := decode([]byte(item))
		if !ok {
			malformed++
			continue
		}
		runs = append(runs, run)
	}
	return domain.History{Runs: newestFirst(runs, limit), Malformed: malformed}, nil
}
