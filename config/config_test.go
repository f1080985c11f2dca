package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.App.Port != 8080 || cfg.App.BaseURL != "http://localhost:8080" {
		t.Errorf("app = %+v", cfg.App)
	}
	if cfg.Links.CodeLength != 7 || cfg.Links.MaxAttempts != 5 {
		t.Errorf("links = %+v", cfg.Links)
	}
	if cfg.Redis.CacheTTL != 24*time.Hour {
		t.Errorf("redis.cache_ttl = %v, want 24h", cfg.Redis.CacheTTL)
	}
	if cfg.Auth.CookieName != "__session" || cfg.Auth.SignInURL != "/" {
		t.Errorf("auth = %+v", cfg.Auth)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PG_HOST", "db.internal")
	t.Setenv("PG_PORT", "6543")
	t.Setenv("LINK_MAX_ATTEMPTS", "3")
	t.Setenv("REDIS_CACHE_TTL", "90s")
	t.Setenv("BASE_URL", "https://sho.rt")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Postgres.Host != "db.internal" || cfg.Postgres.Port != 6543 {
		t.Errorf("postgres = %+v", cfg.Postgres)
	}
	if cfg.Links.MaxAttempts != 3 {
		t.Errorf("links.max_attempts = %d, want 3", cfg.Links.MaxAttempts)
	}
	if cfg.Redis.CacheTTL != 90*time.Second {
		t.Errorf("redis.cache_ttl = %v, want 90s", cfg.Redis.CacheTTL)
	}
	if cfg.App.BaseURL != "https://sho.rt" {
		t.Errorf("app.base_url = %q", cfg.App.BaseURL)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	yaml := "app:\n  port: 9000\nlinks:\n  code_length: 9\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.App.Port != 9000 || cfg.Links.CodeLength != 9 {
		t.Errorf("cfg = %+v / %+v", cfg.App, cfg.Links)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			App:   AppConfig{Port: 8080, BaseURL: "http://localhost:8080"},
			Links: LinksConfig{MaxAttempts: 5, FilterFalsePositiveRate: 0.01},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"bad port", func(c *Config) { c.App.Port = 0 }, "app.port"},
		{"relative base url", func(c *Config) { c.App.BaseURL = "/short" }, "app.base_url"},
		{"zero attempts", func(c *Config) { c.Links.MaxAttempts = 0 }, "max_attempts"},
		{"fp rate out of range", func(c *Config) { c.Links.FilterFalsePositiveRate = 1 }, "filter_fp_rate"},
		{"production without secret", func(c *Config) { c.App.Env = "production" }, "jwt_secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}
