package runlog

import (
	"errors"

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

func Provide(p Params) (domain.RunLog, error) {
	cfg := p.Config.Renewal
	log := p.Log.Named("renewal.runlog")

	switch cfg.LogSink {
	case "redis":
		if p.Redis == nil {
			return nil, errors.New("renewal.log_sink redis requires redis.enabled")
		}
		log.Info("renewal run log in redis", zap.String("key", cfg.LogRedisKey), zap.Int64("max_entries", cfg.LogMaxEntries))
		return NewRedis(p.Redis, cfg.LogRedisKey, cfg.LogMaxEntries), nil
	default:
		log.Info("renewal run log on disk", zap.String("path", cfg.LogPath))
		return NewFile(cfg.LogPath), nil
	}
}
