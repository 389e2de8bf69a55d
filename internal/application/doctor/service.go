package doctor

import (
	"context"
	"errors"
	"fmt"

	appconfig "github.com/doeshing/foodscan/internal/application/config"
	"github.com/doeshing/foodscan/internal/domain"
	"github.com/doeshing/foodscan/internal/ports"
)

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider ports.ConfigProvider
	Reviews        ports.ReviewRepository
	Devices        ports.DeviceIDProvider
	Lookup         ports.ProductLookup
	// ProbeBarcode, when set, is looked up to check the product database is reachable.
	ProbeBarcode string
}

// Run executes checks and returns a report.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	if s.ConfigProvider == nil {
		return domain.HealthReport{}, errors.New("doctor.Service dependencies not satisfied")
	}
	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	if err := appconfig.Validate(cfg); err != nil {
		checks = append(checks, fail("Config file", err.Error()))
	} else {
		checks = append(checks, ok("Config file", fmt.Sprintf("loaded %s", cfg.ConfigFormatVersion)))
	}

	if s.Reviews != nil {
		if err := s.Reviews.Ping(ctx); err != nil {
			checks = append(checks, fail("Review storage", err.Error()))
		} else {
			checks = append(checks, ok("Review storage", fmt.Sprintf("%s reachable", cfg.Reviews.Driver)))
		}
	} else {
		checks = append(checks, warn("Review storage", "review repository not initialized"))
	}

	if s.Devices != nil {
		if id, err := s.Devices.DeviceID(ctx); err != nil {
			checks = append(checks, fail("Device ID", err.Error()))
		} else {
			checks = append(checks, ok("Device ID", id))
		}
	}

	checks = append(checks, s.lookupCheck(ctx, cfg))

	return domain.HealthReport{Checks: checks}, nil
}

func (s *Service) lookupCheck(ctx context.Context, cfg domain.Config) domain.HealthCheck {
	if s.Lookup == nil || s.ProbeBarcode == "" {
		return warn("Product lookup", fmt.Sprintf("%s not probed", cfg.Lookup.BaseURL))
	}
	_, err := s.Lookup.Lookup(ctx, s.ProbeBarcode)
	switch {
	case err == nil, errors.Is(err, domain.ErrProductNotFound):
		return ok("Product lookup", fmt.Sprintf("%s reachable", cfg.Lookup.BaseURL))
	default:
		return fail("Product lookup", err.Error())
	}
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
