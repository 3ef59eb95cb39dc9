package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App        AppConfig
	Upstream   UpstreamConfig
	LocalStore LocalStoreConfig
	Redis      RedisConfig
	Delivery   DeliveryConfig
	CORS       CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BOUTIQA_APP_ENV" required:"true"`
	Port         string `envconfig:"BOUTIQA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BOUTIQA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BOUTIQA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// UpstreamConfig points at the boutique REST API that owns products,
// delivery rates, promo validation and order creation.
type UpstreamConfig struct {
	BaseURL string        `envconfig:"BOUTIQA_UPSTREAM_BASE_URL" required:"true"`
	Timeout time.Duration `envconfig:"BOUTIQA_UPSTREAM_TIMEOUT" default:"10s"`
}

// LocalStoreConfig configures the durable client-state store that
// replaces the browser's localStorage.
type LocalStoreConfig struct {
	Path     string `envconfig:"BOUTIQA_LOCAL_STORE_PATH" default:"boutiqa-state.db"`
	InMemory bool   `envconfig:"BOUTIQA_LOCAL_STORE_IN_MEMORY" default:"false"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BOUTIQA_REDIS_URL"`
	Address      string        `envconfig:"BOUTIQA_REDIS_ADDR"`
	Password     string        `envconfig:"BOUTIQA_REDIS_PASSWORD"`
	DB           int           `envconfig:"BOUTIQA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BOUTIQA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BOUTIQA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BOUTIQA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BOUTIQA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BOUTIQA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis endpoint was configured at all; the
// delivery-rate cache degrades to upstream reads without one.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type DeliveryConfig struct {
	CacheTTL time.Duration `envconfig:"BOUTIQA_DELIVERY_CACHE_TTL" default:"5m"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"BOUTIQA_CORS_ALLOWED_ORIGINS" default:"*"`
}
