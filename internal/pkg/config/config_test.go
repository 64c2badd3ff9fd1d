package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	lookuper := envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":     "jwt",
		"SESSION_SECRET": "0123456789abcdef0123456789abcdef",
	})

	var cfg Config
	if err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %q", cfg.Port)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("expected 24h token ttl, got %v", cfg.TokenTTL)
	}
	if cfg.Mongo.Database != "gharun" {
		t.Errorf("expected database gharun, got %q", cfg.Mongo.Database)
	}
	if cfg.Notify.Workers != 4 {
		t.Errorf("expected 4 workers, got %d", cfg.Notify.Workers)
	}
	if cfg.OpsKey != "" {
		t.Errorf("expected empty ops key, got %q", cfg.OpsKey)
	}
	if cfg.IsProduction() {
		t.Error("development default must not be production")
	}
}

func TestLoad_RequiresSecrets(t *testing.T) {
	var cfg Config
	err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:   &cfg,
		Lookuper: envconfig.MapLookuper(map[string]string{}),
	})
	if err == nil {
		t.Fatal("expected error when JWT_SECRET is missing")
	}
}
