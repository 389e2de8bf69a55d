package scan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/doeshing/foodscan/internal/domain"
	"github.com/doeshing/foodscan/internal/ports"
)

// Service turns a barcode into a product and keeps the recent-scan history.
// Lookup, HistoryStore and Logger are required. Without a HistoryStore the
// history accessors report an empty history and mutations do nothing.
type Service struct {
	Lookup       ports.ProductLookup
	HistoryStore ports.HistoryStore
	Logger       ports.Logger
	Metrics      ports.Metrics
	Clock        ports.Clock
}

// Verify normalizes and validates raw, looks the product up and, on success
// only, records it at the front of the history.
func (s *Service) Verify(ctx context.Context, raw string) (domain.Product, error) {
	if s.Lookup == nil || s.HistoryStore == nil || s.Logger == nil {
		return domain.Product{}, errors.New("scan.Service dependencies not satisfied")
	}

	code := domain.NormalizeBarcode(raw)
	if err := domain.ValidateBarcode(code); err != nil {
		s.count(domain.ScanOutcomeInvalidBarcode)
		return domain.Product{}, err
	}
	if !domain.BarcodeChecksumValid(code) {
		s.Logger.Debug("barcode check digit mismatch", map[string]interface{}{"code": code})
	}

	start := s.now()
	product, err := s.Lookup.Lookup(ctx, code)
	if s.Metrics != nil {
		s.Metrics.LookupObserved(s.now().Sub(start))
	}
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			s.count(domain.ScanOutcomeNotFound)
			return domain.Product{}, fmt.Errorf("barcode %s: %w", code, err)
		}
		s.count(domain.ScanOutcomeLookupError)
		s.Logger.Error("product lookup failed", err, map[string]interface{}{"code": code})
		return domain.Product{}, fmt.Errorf("%w for %s: %w", domain.ErrLookupFailed, code, err)
	}
	if product.Code == "" {
		product.Code = code
	}

	s.HistoryStore.Record(product.ScanRecord(s.now()))
	s.count(domain.ScanOutcomeOK)
	s.observeHistory()
	s.Logger.Info("scan recorded", map[string]interface{}{
		"code": product.Code,
		"name": product.Name,
	})
	return product, nil
}

// Recent returns the newest limit scans.
func (s *Service) Recent(limit int) []domain.ScanRecord {
	if s.HistoryStore == nil {
		return nil
	}
	return s.HistoryStore.Recent(limit)
}

// History returns every scan, newest first.
func (s *Service) History() []domain.ScanRecord {
	if s.HistoryStore == nil {
		return nil
	}
	return s.HistoryStore.All()
}

// HistoryUsage reports how many scans are held and the most the history keeps.
func (s *Service) HistoryUsage() (size, capacity int) {
	if s.HistoryStore == nil {
		return 0, 0
	}
	return s.HistoryStore.Len(), s.HistoryStore.Capacity()
}

// Forget drops one product from the history.
func (s *Service) Forget(code string) {
	if s.HistoryStore == nil {
		return
	}
	s.HistoryStore.Remove(domain.NormalizeBarcode(code))
	s.observeHistory()
}

// ClearHistory empties the history.
func (s *Service) ClearHistory() {
	if s.HistoryStore == nil {
		return
	}
	s.HistoryStore.Clear()
	s.observeHistory()
}

func (s *Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now()
	}
	return time.Now()
}

func (s *Service) count(outcome string) {
	if s.Metrics != nil {
		s.Metrics.ScanCompleted(outcome)
	}
}

func (s *Service) observeHistory() {
	if s.Metrics != nil {
		s.Metrics.HistorySize(s.HistoryStore.Len())
	}
}
