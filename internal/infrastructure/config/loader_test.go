package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/doeshing/foodscan/internal/domain"
)

func TestLoadWritesDefaultsWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "config.yaml")
	loader := NewFileLoader(path)

	cfg, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config not written: %v", err)
	}
	if cfg.History.MaxItems != domain.MaxHistoryItems || cfg.History.RecentLimit != domain.DefaultRecentLimit {
		t.Fatalf("unexpected history settings %+v", cfg.History)
	}
	if cfg.Lookup.BaseURL != domain.DefaultLookupBaseURL {
		t.Fatalf("unexpected base url %q", cfg.Lookup.BaseURL)
	}
	if cfg.Reviews.Driver != domain.ReviewDriverSQLite || !filepath.IsAbs(cfg.Reviews.Path) {
		t.Fatalf("unexpected review settings %+v", cfg.Reviews)
	}
}

func TestLoadHydratesPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := "history:\n  max_items: 10\nreviews:\n  driver: postgres\n  dsn: postgres://localhost/reviews\n"
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewFileLoader(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.History.MaxItems != 10 || cfg.History.RecentLimit != domain.DefaultRecentLimit {
		t.Fatalf("unexpected history settings %+v", cfg.History)
	}
	if cfg.Reviews.Driver != domain.ReviewDriverPostgres || cfg.Reviews.DSN == "" {
		t.Fatalf("unexpected review settings %+v", cfg.Reviews)
	}
	if cfg.Server.Addr != domain.DefaultServerAddr {
		t.Fatalf("unexpected server addr %q", cfg.Server.Addr)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("history: [\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileLoader(path).Load(context.Background()); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestResolvePathFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.yaml")
	t.Setenv(EnvConfigPath, path)
	if got := NewFileLoader("").Path(); got != path {
		t.Fatalf("Path() = %q, want %q", got, path)
	}
}

func TestSaveAndBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	loader := NewFileLoader(path)
	cfg := DefaultConfig()
	cfg.Server.Addr = "0.0.0.0:9999"
	if err := loader.Save(cfg); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	backup, err := loader.Backup()
	if err != nil {
		t.Fatalf("Backup error: %v", err)
	}
	if _, err := os.Stat(backup); err != nil {
		t.Fatalf("backup missing: %v", err)
	}
	loaded, err := loader.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Server.Addr != "0.0.0.0:9999" {
		t.Fatalf("saved value lost: %q", loaded.Server.Addr)
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("history:\n  max_items: 3\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	loader := NewFileLoader(path)
	if _, err := loader.Reset(); err != nil {
		t.Fatalf("Reset error: %v", err)
	}
	cfg, err := loader.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.History.MaxItems != domain.MaxHistoryItems {
		t.Fatalf("expected default max items, got %d", cfg.History.MaxItems)
	}
}
