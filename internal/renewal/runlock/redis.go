package runlock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const releaseTimeout = 5 * time.Second

// compare-and-delete so a holder whose ttl lapsed never frees another holder's lock
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// extends the lease only while this holder still owns it
var extendScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// Redis is a lease shared by every process using the same key. The holder
// renews it every ttl/3 until release, so a run may outlast the ttl.
type Redis struct {
	client  *redis.Client
	key     string
	ttl     time.Duration
	refresh time.Duration
	log     *zap.Logger
}

func NewRedis(client *redis.Client, key string, ttl time.Duration, log *zap.Logger) (*Redis, error) {
	if client == nil {
		return nil, errors.New("runlock: redis client is required")
	}
	if key == "" || ttl <= 0 {
		return nil, errors.New("runlock: key and ttl are required")
	}
	return &Redis{
		client:  client,
		key:     key,
		ttl:     ttl,
		refresh: ttl / 3,
		log:     log.Named("renewal.runlock"),
	}, nil
}

func (r *Redis) TryAcquire(ctx context.Context) (func(), bool, error) {
	token := uuid.NewString()
	ok, err := r.client.SetNX(ctx, r.key, token, r.ttl).Result()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		r.keepAlive(context.WithoutCancel(ctx), token, stop)
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			wg.Wait()

			releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
			defer cancel()
			if err := releaseScript.Run(releaseCtx, r.client, []string{r.key}, token).Err(); err != nil {
				r.log.Warn("release renewal lock failed", zap.String("key", r.key), zap.Error(err))
			}
		})
	}, true, nil
}

func (r *Redis) keepAlive(ctx context.Context, token string, stop <-chan struct{}) {
	ticker := time.NewTicker(r.refresh)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		extendCtx, cancel := context.WithTimeout(ctx, releaseTimeout)
		extended, err := extendScript.Run(extendCtx, r.client, []string{r.key}, token, r.ttl.Milliseconds()).Int()
		cancel()
		switch {
		case err != nil:
			// transient; the next tick retries while the lease is still live
			r.log.Warn("extend renewal lock failed", zap.String("key", r.key), zap.Error(err))
		case extended == 0:
			r.log.Warn("renewal lock lease lost", zap.String("key", r.key))
			return
		}
	}
}
