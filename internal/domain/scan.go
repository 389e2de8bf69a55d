package domain

import "time"

// ScanRecord is one completed, successful barcode lookup as kept in the
// recent-scan history.
type ScanRecord struct {
	Code       string    `json:"code"`
	Name       string    `json:"name,omitempty"`
	Brand      string    `json:"brand,omitempty"`
	ImageURL   string    `json:"image_url,omitempty"`
	NutriScore Grade     `json:"nutri_score,omitempty"`
	ScannedAt  time.Time `json:"scanned_at"`
}

// Key identifies a record for list rendering. Code alone is unique inside
// the store, the timestamp keeps keys distinct across re-scans.
func (r ScanRecord) Key() string {
	return r.Code + "|" + r.ScannedAt.Format(TimestampFormat)
}

// Scan outcomes reported to metrics.
const (
	ScanOutcomeOK             = "ok"
	ScanOutcomeInvalidBarcode = "invalid_barcode"
	ScanOutcomeNotFound       = "not_found"
	ScanOutcomeLookupError    = "lookup_error"
)
