// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and external
// adapters (infrastructure). Following the Ports and Adapters (Hexagonal) pattern,
// these interfaces allow the application to remain independent of specific
// implementations like databases, HTTP clients, or CLI frameworks.
//
// Key architectural concepts:
//   - Ports: Interfaces defined here (e.g., ProductLookup, ReviewRepository)
//   - Adapters: Concrete implementations in the infrastructure layer
//   - Dependency inversion: Application depends on abstractions, not implementations
package ports

import (
	"context"
	"time"

	"github.com/doeshing/foodscan/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.foodscan/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// HistoryStore keeps the bounded, most-recently-used list of scans.
// Every operation is total; none of them can fail.
type HistoryStore interface {
	Record(item domain.ScanRecord)
	Recent(limit int) []domain.ScanRecord
	All() []domain.ScanRecord
	Remove(code string)
	Clear()
	Len() int
	Capacity() int
}

// ProductLookup fetches nutrition data for a validated barcode.
// A barcode unknown to the database yields domain.ErrProductNotFound.
type ProductLookup interface {
	Lookup(ctx context.Context, code string) (domain.Product, error)
}

// ReviewRepository persists reviews. Mutations are scoped to the owning device.
type ReviewRepository interface {
	ListByBarcode(ctx context.Context, barcode string) ([]domain.Review, error)
	ListByDevice(ctx context.Context, deviceID string) ([]domain.Review, error)
	FindByDeviceAndBarcode(ctx context.Context, deviceID, barcode string) (*domain.Review, error)
	Insert(ctx context.Context, review domain.Review) (domain.Review, error)
	Update(ctx context.Context, id, deviceID string, update domain.ReviewUpdate) (domain.Review, error)
	Delete(ctx context.Context, id, deviceID string) error
	Ping(ctx context.Context) error
}

// DeviceIDProvider resolves the opaque per-installation identifier used to
// scope review ownership.
type DeviceIDProvider interface {
	DeviceID(ctx context.Context) (string, error)
}

// Clock abstracts time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// ConfirmationPrompter asks the user before destructive actions such as
// clearing the scan history.
type ConfirmationPrompter interface {
	Confirm(question string) (bool, error)
	Enabled() bool
}

// Metrics records operational counters. Implementations must be safe for
// concurrent use.
type Metrics interface {
	ScanCompleted(outcome string)
	LookupObserved(duration time.Duration)
	CacheResult(hit bool)
	HistorySize(n int)
	ReviewMutated(action string)
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
