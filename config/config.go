package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App AppConfig `mapstructure:"app"`

	// PostgreSQL
	Postgres PostgresConfig `mapstructure:"postgres"`

	// Redis
	Redis RedisConfig `mapstructure:"redis"`

	// NATS
	NATS NATSConfig `mapstructure:"nats"`

	// Prometheus
	Prometheus PrometheusConfig `mapstructure:"prometheus"`

	Auth AuthConfig `mapstructure:"auth"`

	Links LinksConfig `mapstructure:"links"`
}

type AppConfig struct {
	Env      string `mapstructure:"env"`
	Port     int    `mapstructure:"port"`
	BaseURL  string `mapstructure:"base_url"`
	LogLevel string `mapstructure:"log_level"`
}

// IsProduction reports whether the service runs with production defaults.
func (c AppConfig) IsProduction() bool {
	return c.Env == "production"
}

type PostgresConfig struct {
	Host              string `mapstructure:"host"`
	User              string `mapstructure:"user"`
	Password          string `mapstructure:"password"`
	Database          string `mapstructure:"database"`
	Port              int    `mapstructure:"port"`
	SSLMode           string `mapstructure:"sslmode"`
	MaxConns          int32  `mapstructure:"max_conns"`
	MaxIdleConns      int32  `mapstructure:"max_idle_conns"`
	MaxConnLifetime   string `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime   string `mapstructure:"max_conn_idle_time"`
	HealthCheckPeriod string `mapstructure:"health_check_period"`
}

type RedisConfig struct {
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type NATSConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

type PrometheusConfig struct {
	Port int `mapstructure:"port"`
}

// AuthConfig describes how session tokens from the identity provider are verified.
type AuthConfig struct {
	JWTSecret  string `mapstructure:"jwt_secret"`
	Issuer     string `mapstructure:"issuer"`
	CookieName string `mapstructure:"cookie_name"`
	SignInURL  string `mapstructure:"sign_in_url"`
}

type LinksConfig struct {
	CodeLength              int     `mapstructure:"code_length"`
	MaxAttempts             int     `mapstructure:"max_attempts"`
	FilterCapacity          uint    `mapstructure:"filter_capacity"`
	FilterFalsePositiveRate float64 `mapstructure:"filter_fp_rate"`
}

func Load() (*Config, error) {
	// Load local .env for development (ignored when missing).
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	// Search for config/config.yaml (plus root for overrides).
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Allow environment variables to override YAML entries.
	v.SetEnvPrefix("")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Preserve legacy env variable names.
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("config: app.port %d out of range", c.App.Port)
	}
	if c.App.BaseURL != "" {
		u, err := url.Parse(c.App.BaseURL)
		if err != nil || u.Host == "" {
			return fmt.Errorf("config: app.base_url %q is not an absolute URL", c.App.BaseURL)
		}
	}
	if c.Links.MaxAttempts < 1 {
		return fmt.Errorf("config: links.max_attempts must be at least 1")
	}
	if c.Links.FilterFalsePositiveRate <= 0 || c.Links.FilterFalsePositiveRate >= 1 {
		return fmt.Errorf("config: links.filter_fp_rate must be in (0, 1)")
	}
	if c.App.IsProduction() && c.Auth.JWTSecret == "" {
		return fmt.Errorf("config: auth.jwt_secret is required in production")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.base_url", "http://localhost:8080")

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.sslmode", "disable")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.cache_ttl", 24*time.Hour)

	v.SetDefault("nats.enabled", true)
	v.SetDefault("nats.host", "localhost")
	v.SetDefault("nats.port", 4222)

	v.SetDefault("prometheus.port", 9090)

	v.SetDefault("auth.cookie_name", "__session")
	v.SetDefault("auth.sign_in_url", "/")

	v.SetDefault("links.code_length", 7)
	v.SetDefault("links.max_attempts", 5)
	v.SetDefault("links.filter_capacity", 1_000_000)
	v.SetDefault("links.filter_fp_rate", 0.001)
}

func bindEnvVars(v *viper.Viper) {
	v.BindEnv("app.env", "APP_ENV")
	v.BindEnv("app.port", "PORT")
	v.BindEnv("app.base_url", "BASE_URL")
	v.BindEnv("app.log_level", "LOG_LEVEL")

	// PostgreSQL
	v.BindEnv("postgres.host", "PG_HOST")
	v.BindEnv("postgres.user", "PG_USER")
	v.BindEnv("postgres.password", "PG_PASSWORD")
	v.BindEnv("postgres.database", "PG_DB")
	v.BindEnv("postgres.port", "PG_PORT")
	v.BindEnv("postgres.sslmode", "PG_SSLMODE")
	v.BindEnv("postgres.max_conns", "PG_MAX_CONNS")
	v.BindEnv("postgres.max_idle_conns", "PG_MAX_IDLE_CONNS")

	// Redis
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("redis.db", "REDIS_DB")
	v.BindEnv("redis.cache_ttl", "REDIS_CACHE_TTL")

	// NATS
	v.BindEnv("nats.enabled", "NATS_ENABLED")
	v.BindEnv("nats.host", "NATS_HOST")
	v.BindEnv("nats.port", "NATS_PORT")
	v.BindEnv("nats.user", "NATS_USER")
	v.BindEnv("nats.password", "NATS_PASSWORD")

	// Prometheus
	v.BindEnv("prometheus.port", "PROM_PORT")

	// Auth
	v.BindEnv("auth.jwt_secret", "JWT_SECRET")
	v.BindEnv("auth.issuer", "JWT_ISSUER")
	v.BindEnv("auth.cookie_name", "AUTH_COOKIE_NAME")
	v.BindEnv("auth.sign_in_url", "SIGN_IN_URL")

	// Links
	v.BindEnv("links.code_length", "LINK_CODE_LENGTH")
	v.BindEnv("links.max_attempts", "LINK_MAX_ATTEMPTS")
}
