package doctor

import (
	"context"
	"errors"
	"testing"

	"github.com/doeshing/foodscan/internal/domain"
	"github.com/doeshing/foodscan/internal/infrastructure/config"
)

func TestRunReportsEveryCheck(t *testing.T) {
	svc := &Service{
		ConfigProvider: staticConfig{cfg: config.DefaultConfig()},
		Reviews:        pinger{},
		Devices:        device("device-1"),
		Lookup:         lookup{err: domain.ErrProductNotFound},
		ProbeBarcode:   "73513537",
	}
	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := map[string]domain.HealthStatus{
		"Config file":    domain.HealthOK,
		"Review storage": domain.HealthOK,
		"Device ID":      domain.HealthOK,
		"Product lookup": domain.HealthOK,
	}
	if len(report.Checks) != len(want) {
		t.Fatalf("unexpected checks %+v", report.Checks)
	}
	for _, c := range report.Checks {
		if want[c.Name] != c.Status {
			t.Fatalf("check %s = %s, want %s", c.Name, c.Status, want[c.Name])
		}
	}
	if !report.Healthy() {
		t.Fatal("expected healthy report")
	}
}

func TestRunFlagsFailures(t *testing.T) {
	svc := &Service{
		ConfigProvider: staticConfig{cfg: config.DefaultConfig()},
		Reviews:        pinger{err: errors.New("database is locked")},
		Lookup:         lookup{err: errors.New("dial tcp: timeout")},
		ProbeBarcode:   "73513537",
	}
	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if report.Healthy() {
		t.Fatalf("expected unhealthy report: %+v", report.Checks)
	}
}

func TestRunStopsOnConfigError(t *testing.T) {
	svc := &Service{ConfigProvider: staticConfig{err: errors.New("bad yaml")}}
	report, err := svc.Run(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if len(report.Checks) != 1 || report.Checks[0].Status != domain.HealthError {
		t.Fatalf("unexpected report %+v", report)
	}
}

type staticConfig struct {
	cfg domain.Config
	err error
}

func (s staticConfig) Load(context.Context) (domain.Config, error) { return s.cfg, s.err }

type pinger struct {
	err error
}

func (p pinger) ListByBarcode(context.Context, string) ([]domain.Review, error) { return nil, nil }
func (p pinger) ListByDevice(context.Context, string) ([]domain.Review, error)  { return nil, nil }
func (p pinger) FindByDeviceAndBarcode(context.Context, string, string) (*domain.Review, error) {
	return nil, nil
}
func (p pinger) Insert(context.Context, domain.Review) (domain.Review, error) {
	return domain.Review{}, nil
}
func (p pinger) Update(context.Context, string, string, domain.ReviewUpdate) (domain.Review, error) {
	return domain.Review{}, nil
}
func (p pinger) Delete(context.Context, string, string) error { return nil }
func (p pinger) Ping(context.Context) error                   { return p.err }

type device string

func (d device) DeviceID(context.Context) (string, error) { return string(d), nil }

type lookup struct{ err error }

func (l lookup) Lookup(context.Context, string) (domain.Product, error) {
	return domain.Product{}, l.err
}
