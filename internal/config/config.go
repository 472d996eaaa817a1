package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Advisor  AdvisorConfig
}

type AppConfig struct {
	AppName     string `env:"APP_NAME" envDefault:"fin-advisor"`
	Environment string `env:"APP_ENV" envDefault:"development"`
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
}

type DatabaseConfig struct {
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBName     string `env:"DB_NAME" envDefault:"fin_advisor"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD"`
	DBSSLMode  string `env:"DB_SSL_MODE" envDefault:"disable"`

	ConnectTimeout        time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"5s"`
	PoolMaxConns          int32         `env:"DB_POOL_MAX_CONNS" envDefault:"20"`
	PoolMinConns          int32         `env:"DB_POOL_MIN_CONNS" envDefault:"2"`
	PoolMaxConnLifetime   time.Duration `env:"DB_POOL_MAX_CONN_LIFETIME"`
	PoolMaxConnIdleTime   time.Duration `env:"DB_POOL_MAX_CONN_IDLE_TIME"`
	PoolHealthCheckPeriod time.Duration `env:"DB_POOL_HEALTH_CHECK_PERIOD"`

	RunMigrations bool `env:"DB_RUN_MIGRATIONS" envDefault:"true"`
	SeedDemo      bool `env:"DB_SEED_DEMO" envDefault:"false"`
}

type RedisConfig struct {
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     string `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD"`
}

type AuthConfig struct {
	AccessSecret     string        `env:"JWT_ACCESS_SECRET,required"`
	RefreshSecret    string        `env:"JWT_REFRESH_SECRET,required"`
	AccessExpiresIn  time.Duration `env:"JWT_ACCESS_EXPIRES_IN" envDefault:"15m"`
	RefreshExpiresIn time.Duration `env:"JWT_REFRESH_EXPIRES_IN" envDefault:"168h"`
}

// AdvisorConfig selects and configures the chat backend variant.
// Variant is one of "primary", "legacy", "demo".
type AdvisorConfig struct {
	Variant string `env:"ADVISOR_VARIANT" envDefault:"demo"`

	PrimaryBaseURL string        `env:"ADVISOR_PRIMARY_BASE_URL"`
	LegacyBaseURL  string        `env:"ADVISOR_LEGACY_BASE_URL"`
	LegacyToken    string        `env:"ADVISOR_LEGACY_TOKEN"`
	RequestTimeout time.Duration `env:"ADVISOR_REQUEST_TIMEOUT" envDefault:"60s"`

	StatusCacheTTL time.Duration `env:"ADVISOR_STATUS_CACHE_TTL" envDefault:"30s"`
}

func (d DatabaseConfig) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		strings.TrimSpace(d.DBUser),
		d.DBPassword,
		strings.TrimSpace(d.DBHost),
		strings.TrimSpace(d.DBPort),
		strings.TrimSpace(d.DBName),
		strings.TrimSpace(d.DBSSLMode),
	)
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", strings.TrimSpace(r.Host), strings.TrimSpace(r.Port))
}

func Load() (Config, error) {
	// A missing .env is fine; deployments set the environment directly.
	_ = godotenv.Load()

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	switch strings.TrimSpace(cfg.Advisor.Variant) {
	case "primary":
		if strings.TrimSpace(cfg.Advisor.PrimaryBaseURL) == "" {
			return Config{}, fmt.Errorf("ADVISOR_PRIMARY_BASE_URL required for primary variant")
		}
	case "legacy":
		if strings.TrimSpace(cfg.Advisor.LegacyBaseURL) == "" {
			return Config{}, fmt.Errorf("ADVISOR_LEGACY_BASE_URL required for legacy variant")
		}
	case "demo":
	default:
		return Config{}, fmt.Errorf("unknown advisor variant %q", cfg.Advisor.Variant)
	}

	return cfg, nil
}
