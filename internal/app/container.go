package app

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	appconfig "github.com/doeshing/foodscan/internal/application/config"
	"github.com/doeshing/foodscan/internal/application/doctor"
	"github.com/doeshing/foodscan/internal/application/review"
	"github.com/doeshing/foodscan/internal/application/scan"
	"github.com/doeshing/foodscan/internal/domain"
	"github.com/doeshing/foodscan/internal/infrastructure/config"
	"github.com/doeshing/foodscan/internal/infrastructure/device"
	"github.com/doeshing/foodscan/internal/infrastructure/history"
	"github.com/doeshing/foodscan/internal/infrastructure/metrics"
	"github.com/doeshing/foodscan/internal/infrastructure/openfoodfacts"
	"github.com/doeshing/foodscan/internal/infrastructure/productcache"
	"github.com/doeshing/foodscan/internal/infrastructure/reviews"
	"github.com/doeshing/foodscan/internal/pkg/filesystem"
	"github.com/doeshing/foodscan/internal/pkg/logger"
	"github.com/doeshing/foodscan/internal/ports"
)

// doctorProbeBarcode is a long-lived product used to check the lookup backend.
const doctorProbeBarcode = "3017620422003"

// Options controls container construction. Metrics enables the prometheus
// registry; without it every counter goes to metrics.Noop.
type Options struct {
	Verbose    bool
	ConfigPath string
	Metrics    bool
}

// Container wires up application services with infrastructure adapters.
type Container struct {
	Config         domain.Config
	ConfigProvider ports.ConfigProvider
	ConfigLoader   *config.FileLoader
	Logger         ports.Logger
	Metrics        ports.Metrics
	MetricsHandler http.Handler
	HistoryStore   *history.MemoryStore
	Reviews        ports.ReviewRepository
	Devices        ports.DeviceIDProvider
	Prompter       ports.ConfirmationPrompter
	ScanService    *scan.Service
	ReviewService  *review.Service
	DoctorService  *doctor.Service

	closers []func() error
}

// BuildContainer constructs the dependency graph.
func BuildContainer(ctx context.Context, opts Options) (*Container, error) {
	cfgLoader := config.NewFileLoader(opts.ConfigPath)
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := appconfig.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration %s: %w", cfgLoader.Path(), err)
	}

	log := logger.NewStd(opts.Verbose)
	var (
		recorder ports.Metrics = metrics.Noop{}
		handler  http.Handler
	)
	if opts.Metrics {
		registry := metrics.New()
		recorder = registry
		handler = registry.Handler()
	}

	timeout, _ := appconfig.ParseDuration(cfg.Lookup.Timeout, domain.DefaultLookupTimeout)
	ttl, _ := appconfig.ParseDuration(cfg.Lookup.CacheTTL, domain.DefaultLookupCacheTTL)
	lookup := productcache.New(
		openfoodfacts.NewClient(cfg.Lookup.BaseURL, cfg.Lookup.UserAgent, timeout, nil),
		cfg.Lookup.CacheSize,
		ttl,
		recorder,
	)

	c := &Container{
		Config:         cfg,
		ConfigProvider: cfgLoader,
		ConfigLoader:   cfgLoader,
		Logger:         log,
		Metrics:        recorder,
		MetricsHandler: handler,
		HistoryStore:   history.NewMemoryStore(cfg.History.MaxItems),
		Devices:        device.NewFileProvider(cfg.Device.ID, filepath.Join(filesystem.AppDir(), "device_id"), log),
	}

	repo, err := c.openReviews(ctx, cfg.Reviews)
	if err != nil {
		return nil, err
	}
	c.Reviews = repo

	c.ScanService = &scan.Service{
		Lookup:       lookup,
		HistoryStore: c.HistoryStore,
		Logger:       log,
		Metrics:      recorder,
	}
	c.ReviewService = &review.Service{
		Repository: repo,
		Devices:    c.Devices,
		Logger:     log,
		Metrics:    recorder,
	}
	c.DoctorService = &doctor.Service{
		ConfigProvider: cfgLoader,
		Reviews:        repo,
		Devices:        c.Devices,
		Lookup:         lookup,
		ProbeBarcode:   doctorProbeBarcode,
	}
	return c, nil
}

func (c *Container) openReviews(ctx context.Context, settings domain.ReviewSettings) (ports.ReviewRepository, error) {
	switch strings.ToLower(settings.Driver) {
	case domain.ReviewDriverPostgres:
		pool, err := reviews.NewPool(ctx, settings.DSN)
		if err != nil {
			return nil, err
		}
		if err := reviews.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		store := reviews.NewPostgresStore(pool)
		c.closers = append(c.closers, store.Close)
		return store, nil
	default:
		store, err := reviews.NewSQLiteStore(settings.Path)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, store.Close)
		return store, nil
	}
}

// Close releases storage handles.
func (c *Container) Close() error {
	var first error
	for _, closeFn := range c.closers {
		if err := closeFn(); err != nil && first == nil {
			first = err
		}
	}
	c.closers = nil
	return first
}
