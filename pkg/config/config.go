package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every terminal environment variable.
const EnvPrefix = "EASYPOS"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App        AppConfig
	Backend    BackendConfig
	LocalStore LocalStoreConfig
	Redis      RedisConfig
	CORS       CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Backend.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"EASYPOS_APP_ENV" default:"dev"`
	Port         string `envconfig:"EASYPOS_APP_PORT" default:"7340"`
	LogLevel     string `envconfig:"EASYPOS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"EASYPOS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// BackendConfig points the terminal at the authoritative POS backend.
type BackendConfig struct {
	BaseURL string        `envconfig:"EASYPOS_BACKEND_BASE_URL" required:"true"`
	Timeout time.Duration `envconfig:"EASYPOS_BACKEND_TIMEOUT" default:"15s"`
}

func (b BackendConfig) validate() error {
	if !strings.HasPrefix(b.BaseURL, "http://") && !strings.HasPrefix(b.BaseURL, "https://") {
		return fmt.Errorf("backend base url must be http(s), got %q", b.BaseURL)
	}
	return nil
}

// LocalStoreConfig locates the disposable SQLite snapshot cache.
type LocalStoreConfig struct {
	Path string `envconfig:"EASYPOS_LOCALSTORE_PATH" default:"easy-pos.db"`
}

type RedisConfig struct {
	URL          string        `envconfig:"EASYPOS_REDIS_URL"`
	Address      string        `envconfig:"EASYPOS_REDIS_ADDR" default:"localhost:6379"`
	Password     string        `envconfig:"EASYPOS_REDIS_PASSWORD"`
	DB           int           `envconfig:"EASYPOS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"EASYPOS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"EASYPOS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"EASYPOS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"EASYPOS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"EASYPOS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// CORSConfig lists the cashier UI origins allowed to call the gateway.
type CORSConfig struct {
	Origins []string `envconfig:"EASYPOS_CORS_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}
