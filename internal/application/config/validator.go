package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/doeshing/foodscan/internal/domain"
)

// Validate ensures config structure is consistent.
func Validate(cfg domain.Config) error {
	if err := validateLookup(cfg.Lookup); err != nil {
		return err
	}
	if err := validateHistory(cfg.History); err != nil {
		return err
	}
	if err := validateReviews(cfg.Reviews); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.Server.Addr) == "" {
		return errors.New("server.addr must be set")
	}
	return nil
}

func validateLookup(lookup domain.LookupSettings) error {
	u, err := url.Parse(lookup.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("lookup.base_url must be an absolute URL, got %q", lookup.BaseURL)
	}
	if _, err := ParseDuration(lookup.Timeout, domain.DefaultLookupTimeout); err != nil {
		return fmt.Errorf("lookup.timeout invalid: %w", err)
	}
	if _, err := ParseDuration(lookup.CacheTTL, domain.DefaultLookupCacheTTL); err != nil {
		return fmt.Errorf("lookup.cache_ttl invalid: %w", err)
	}
	if lookup.CacheSize < 0 {
		return fmt.Errorf("lookup.cache_size must be >= 0")
	}
	return nil
}

func validateHistory(history domain.HistorySettings) error {
	if history.MaxItems <= 0 {
		return fmt.Errorf("history.max_items must be > 0")
	}
	if history.RecentLimit < 0 {
		return fmt.Errorf("history.recent_limit must be >= 0")
	}
	return nil
}

func validateReviews(reviews domain.ReviewSettings) error {
	switch strings.ToLower(reviews.Driver) {
	case domain.ReviewDriverSQLite:
		if reviews.Path == "" {
			return fmt.Errorf("reviews.path must be set for the sqlite driver")
		}
	case domain.ReviewDriverPostgres:
		if reviews.DSN == "" {
			return fmt.Errorf("reviews.dsn must be set for the postgres driver")
		}
	default:
		return fmt.Errorf("reviews.driver must be sqlite|postgres, got %s", reviews.Driver)
	}
	return nil
}

// ParseDuration parses a config duration, returning fallback for empty values.
func ParseDuration(raw string, fallback time.Duration) (time.Duration, error) {
	if strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", raw)
	}
	return d, nil
}
