// Package config loads runtime settings from the process environment.
package config

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// MinSigningKeyBytes is the shortest decoded JWT_SECRET accepted for HS256.
const MinSigningKeyBytes = 32

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	JWTSecret string `env:"JWT_SECRET"`

	Auth     AuthConfig
	Storage  StorageConfig
	Mongo    MongoConfig
	Postgres PostgresConfig
	Redis    RedisConfig

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=15s"`
}

type AuthConfig struct {
	TokenTTL     time.Duration `env:"JWT_TTL,            default=24h"`
	BcryptCost   int           `env:"BCRYPT_COST,        default=10"`
	StrictTokens bool          `env:"AUTH_STRICT_TOKENS, default=false"`
}

type StorageConfig struct {
	Driver string `env:"STORAGE_DRIVER, default=mongo"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=todo_api"`
}

type PostgresConfig struct {
	URL string `env:"DATABASE_URL"`
}

type RedisConfig struct {
	// Addr empty disables the identity cache.
	Addr     string        `env:"REDIS_ADDR"`
	DB       int           `env:"REDIS_DB,           default=0"`
	CacheTTL time.Duration `env:"IDENTITY_CACHE_TTL, default=5m"`
}

// Load reads configuration from environment variables using go-envconfig
// and validates the result.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith is Load with an explicit variable source.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: process environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if _, err := c.SigningKey(); err != nil {
		errs = append(errs, err)
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("config: JWT_TTL must be positive"))
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		errs = append(errs, fmt.Errorf("config: BCRYPT_COST must be between 4 and 31, got %d", c.Auth.BcryptCost))
	}
	if c.Redis.CacheTTL < 0 {
		errs = append(errs, errors.New("config: IDENTITY_CACHE_TTL must not be negative"))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("config: SHUTDOWN_TIMEOUT must be positive"))
	}

	switch c.Storage.Driver {
	case DriverMongo:
		if c.Mongo.URI == "" {
			errs = append(errs, errors.New("config: MONGO_URI is required for the mongo driver"))
		}
	case DriverPostgres:
		if c.Postgres.URL == "" {
			errs = append(errs, errors.New("config: DATABASE_URL is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("config: unknown STORAGE_DRIVER %q", c.Storage.Driver))
	}

	return errors.Join(errs...)
}

// SigningKey decodes JWT_SECRET. The value never appears in returned errors.
func (c *Config) SigningKey() ([]byte, error) {
	secret := strings.TrimSpace(c.JWTSecret)
	if secret == "" {
		return nil, errors.New("config: JWT_SECRET is required")
	}
	key, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return nil, errors.New("config: JWT_SECRET must be standard base64")
	}
	if len(key) < MinSigningKeyBytes {
		return nil, fmt.Errorf("config: JWT_SECRET must decode to at least %d bytes, got %d", MinSigningKeyBytes, len(key))
	}
	return key, nil
}

// IsDevelopment reports whether pretty console logging should be used.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// CacheEnabled reports whether the Redis identity cache should be wired.
func (c *Config) CacheEnabled() bool {
	return c.Redis.Addr != "" && c.Redis.CacheTTL > 0
}
