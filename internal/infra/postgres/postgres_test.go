package postgres

import (
	"testing"

	"github.com/sifan077/shortlink/config"
)

func TestConnString(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.PostgresConfig
		want string
	}{
		{
			name: "defaults",
			cfg:  config.PostgresConfig{User: "app", Database: "links"},
			want: "postgres://app@localhost:5432/links?sslmode=disable",
		},
		{
			name: "password is escaped",
			cfg:  config.PostgresConfig{Host: "db", Port: 6543, User: "app", Password: "p@ss/word", Database: "links", SSLMode: "require"},
			want: "postgres://app:p%40ss%2Fword@db:6543/links?sslmode=require",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ConnString(tt.cfg); got != tt.want {
				t.Errorf("ConnString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPoolLimits(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.PostgresConfig
		wantOpen int
		wantIdle int
	}{
		{"driver defaults", config.PostgresConfig{}, 0, 0},
		{"explicit", config.PostgresConfig{MaxConns: 20, MaxIdleConns: 5}, 20, 5},
		{"idle capped by open", config.PostgresConfig{MaxConns: 4, MaxIdleConns: 10}, 4, 4},
		{"idle without open cap", config.PostgresConfig{MaxIdleConns: 3}, 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			open, idle := poolLimits(tt.cfg)
			if open != tt.wantOpen || idle != tt.wantIdle {
				t.Errorf("poolLimits() = (%d, %d), want (%d, %d)", open, idle, tt.wantOpen, tt.wantIdle)
			}
		})
	}
}
