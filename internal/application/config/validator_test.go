package config

import (
	"testing"
	"time"

	"github.com/doeshing/foodscan/internal/domain"
)

func validConfig() domain.Config {
	return domain.Config{
		Lookup:  domain.LookupSettings{BaseURL: "https://world.openfoodfacts.org", Timeout: "5s", CacheTTL: "1m", CacheSize: 10},
		History: domain.HistorySettings{MaxItems: 50, RecentLimit: 5},
		Reviews: domain.ReviewSettings{Driver: "sqlite", Path: "/tmp/reviews.db"},
		Server:  domain.ServerSettings{Addr: "127.0.0.1:8080"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*domain.Config)
		wantError bool
	}{
		{name: "valid", mutate: func(*domain.Config) {}},
		{name: "relative base url", mutate: func(c *domain.Config) { c.Lookup.BaseURL = "openfoodfacts.org" }, wantError: true},
		{name: "bad timeout", mutate: func(c *domain.Config) { c.Lookup.Timeout = "soon" }, wantError: true},
		{name: "negative ttl", mutate: func(c *domain.Config) { c.Lookup.CacheTTL = "-1m" }, wantError: true},
		{name: "zero history", mutate: func(c *domain.Config) { c.History.MaxItems = 0 }, wantError: true},
		{name: "unknown driver", mutate: func(c *domain.Config) { c.Reviews.Driver = "mysql" }, wantError: true},
		{name: "postgres without dsn", mutate: func(c *domain.Config) { c.Reviews.Driver = "postgres" }, wantError: true},
		{name: "postgres with dsn", mutate: func(c *domain.Config) {
			c.Reviews.Driver = "postgres"
			c.Reviews.DSN = "postgres://localhost/reviews"
		}},
		{name: "empty addr", mutate: func(c *domain.Config) { c.Server.Addr = " " }, wantError: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := Validate(cfg)
			if tt.wantError && err == nil {
				t.Fatal("expected error but got none")
			}
			if !tt.wantError && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestParseDurationFallback(t *testing.T) {
	d, err := ParseDuration("", time.Second)
	if err != nil || d != time.Second {
		t.Fatalf("ParseDuration fallback = %v, %v", d, err)
	}
}
