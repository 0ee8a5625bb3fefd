package config

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg := Load(context.Background())

	if cfg.Port != "8080" || cfg.Store.Driver != DriverSQLite || cfg.Store.DSN != "file:provisioning.db" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Auth.Issuer != "Polstat" || cfg.Auth.TokenTTL != 24*time.Hour || cfg.Auth.EmailDomain != "stis.ac.id" {
		t.Fatalf("unexpected auth defaults: %+v", cfg.Auth)
	}
	if cfg.Redis.Enabled || cfg.Redis.LockTTL != 10*time.Second {
		t.Fatalf("unexpected redis defaults: %+v", cfg.Redis)
	}
	if cfg.Seed.AdminEmail != "unit-ti@stis.ac.id" {
		t.Fatalf("unexpected seed defaults: %+v", cfg.Seed)
	}
	if !cfg.IsDevelopment() || cfg.LogFormat() != "console" {
		t.Fatalf("expected development console logging by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE_DRIVER", DriverPostgres)
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("ENV", "production")

	cfg := Load(context.Background())

	if cfg.Store.Driver != DriverPostgres || !cfg.Redis.Enabled || cfg.Auth.TokenTTL != 2*time.Hour || cfg.LogFormat() != "json" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoad_PanicsWithoutSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	os.Unsetenv("JWT_SECRET")

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	Load(context.Background())
}
