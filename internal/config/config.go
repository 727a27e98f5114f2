package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "SUBCOMMERCE"

type Config struct {
	App           AppConfig           `mapstructure:"app" validate:"required"`
	HTTP          HTTPConfig          `mapstructure:"http" validate:"required"`
	Database      DatabaseConfig      `mapstructure:"database" validate:"required"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Auth          AuthConfig          `mapstructure:"auth" validate:"required"`
	Renewal       RenewalConfig       `mapstructure:"renewal" validate:"required"`
	Observability ObservabilityConfig `mapstructure:"observability" validate:"required"`
}

type AppConfig struct {
	Name    string `mapstructure:"name" validate:"required"`
	Env     string `mapstructure:"env" validate:"required,oneof=local development staging production test"`
	Version string `mapstructure:"version"`
}

type HTTPConfig struct {
	Addr         string        `mapstructure:"addr" validate:"required"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
}

type DatabaseConfig struct {
	Driver         string `mapstructure:"driver" validate:"required,oneof=postgres mysql sqlite"`
	DSN            string `mapstructure:"dsn" validate:"required"`
	MaxOpenConns   int    `mapstructure:"max_open_conns" validate:"gte=0"`
	MaxIdleConns   int    `mapstructure:"max_idle_conns" validate:"gte=0"`
	TracingEnabled bool   `mapstructure:"tracing_enabled"`
	MetricsEnabled bool   `mapstructure:"metrics_enabled"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr" validate:"required_if=Enabled true"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"gte=0"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret" validate:"required,min=16"`
	Issuer    string        `mapstructure:"issuer" validate:"required"`
	TokenTTL  time.Duration `mapstructure:"token_ttl" validate:"gt=0"`
}

type RenewalConfig struct {
	Interval          time.Duration `mapstructure:"interval" validate:"gt=0"`
	RunOnStart        bool          `mapstructure:"run_on_start"`
	AllowTimeOverride bool          `mapstructure:"allow_time_override"`
	LogSink           string        `mapstructure:"log_sink" validate:"oneof=file redis"`
	LogPath           string        `mapstructure:"log_path" validate:"required_if=LogSink file"`
	LogRedisKey       string        `mapstructure:"log_redis_key" validate:"required_if=LogSink redis"`
	LogMaxEntries     int64         `mapstructure:"log_max_entries" validate:"gt=0"`
	DistributedLock   bool          `mapstructure:"distributed_lock"`
	LockKey           string        `mapstructure:"lock_key" validate:"required"`
	LockTTL           time.Duration `mapstructure:"lock_ttl" validate:"gt=0"`
}

type ObservabilityConfig struct {
	ServiceName  string `mapstructure:"service_name" validate:"required"`
	LogLevel     string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogFormat    string `mapstructure:"log_format" validate:"oneof=json console"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
}

// Load reads configuration from a .env file (optional), config.yaml (optional)
// and SUBCOMMERCE_* environment variables, in increasing precedence.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/subcommerce")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Renewal.LogSink == "redis" && !c.Redis.Enabled {
		return errors.New("invalid config: renewal.log_sink=redis requires redis.enabled")
	}
	if c.Renewal.DistributedLock && !c.Redis.Enabled {
		return errors.New("invalid config: renewal.distributed_lock requires redis.enabled")
	}
	return nil
}

func (c Config) IsProduction() bool {
	return c.App.Env == "production"
}

// setDefaults registers every key so AutomaticEnv can resolve it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "subcommerce")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.version", "dev")

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 30*time.Second)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "file:subcommerce.db")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.tracing_enabled", true)
	v.SetDefault("database.metrics_enabled", false)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.jwt_secret", "change-me-local-secret")
	v.SetDefault("auth.issuer", "subcommerce")
	v.SetDefault("auth.token_ttl", 24*time.Hour)

	v.SetDefault("renewal.interval", 5*time.Minute)
	v.SetDefault("renewal.run_on_start", true)
	v.SetDefault("renewal.allow_time_override", false)
	v.SetDefault("renewal.log_sink", "file")
	v.SetDefault("renewal.log_path", "./var/renewal-runs.jsonl")
	v.SetDefault("renewal.log_redis_key", "subcommerce:renewal:runs")
	v.SetDefault("renewal.log_max_entries", 500)
	v.SetDefault("renewal.distributed_lock", false)
	v.SetDefault("renewal.lock_key", "subcommerce:renewal:lock")
	v.SetDefault("renewal.lock_ttl", 10*time.Minute)

	v.SetDefault("observability.service_name", "subcommerce")
	v.SetDefault("observability.log_level", "info")
	v.SetDefault("observability.log_format", "json")
	v.SetDefault("observability.otlp_endpoint", "")
}
