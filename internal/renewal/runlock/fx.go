package runlock

import (
	"github.com/railzwaylabs/subcommerce/internal/config"
	"github.com/railzwaylabs/subcommerce/internal/renewal/domain"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Config config.Config
	Log    *zap.Logger
	Redis  *redis.Client `optional:"true"`
}

// Provide always guards the process; with distributed_lock it also takes the redis lease.
func Provide(p Params) (domain.Locker, error) {
	local := NewLocal()
	if !p.Config.Renewal.DistributedLock {
		return local, nil
	}

	distributed, err := NewRedis(p.Redis, p.Config.Renewal.LockKey, p.Config.Renewal.LockTTL, p.Log)
	if err != nil {
		return nil, err
	}
	return Chain{local, distributed}, nil
}
