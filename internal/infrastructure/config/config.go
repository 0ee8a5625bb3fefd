package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Store StoreConfig
	Mongo MongoConfig
	Redis RedisConfig
	Auth  AuthConfig
	Seed  SeedConfig
}

// Store drivers accepted by STORE_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

type StoreConfig struct {
	Driver string `env:"STORE_DRIVER, default=sqlite"`
	DSN    string `env:"DATABASE_DSN, default=file:provisioning.db"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=server_provisioning"`
}

type RedisConfig struct {
	Enabled bool          `env:"REDIS_ENABLED,  default=false"`
	Addr    string        `env:"REDIS_ADDR,     default=localhost:6379"`
	DB      int           `env:"REDIS_DB,       default=0"`
	LockTTL time.Duration `env:"REDIS_LOCK_TTL, default=10s"`
}

type AuthConfig struct {
	JWTSecret   string        `env:"JWT_SECRET, required"`
	Issuer      string        `env:"JWT_ISSUER, default=Polstat"`
	TokenTTL    time.Duration `env:"JWT_TTL,    default=24h"`
	EmailDomain string        `env:"ALLOWED_EMAIL_DOMAIN, default=stis.ac.id"`
}

// SeedConfig describes the administrator created at startup when missing.
type SeedConfig struct {
	AdminName     string `env:"SEED_ADMIN_NAME,     default=UNIT TI"`
	AdminEmail    string `env:"SEED_ADMIN_EMAIL,    default=unit-ti@stis.ac.id"`
	AdminPassword string `env:"SEED_ADMIN_PASSWORD, default=unit-ti-stis"`
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// LogFormat is "console" in development and "json" everywhere else.
func (c *Config) LogFormat() string {
	if c.IsDevelopment() {
		return "console"
	}
	return "json"
}

// Load reads configuration from environment variables using go-envconfig.
// It panics when a required variable is missing or malformed.
func Load(ctx context.Context) *Config {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
