package medscan

import (
	"context"
	"time"
)

// Scan is one journaled lookup: what the database returned for a code at a
// point in time.
type Scan struct {
	ID          string         `json:"id"`
	SourceURL   string         `json:"sourceUrl"`
	Record      MedicineRecord `json:"record"`
	Fingerprint string         `json:"fingerprint"`
	ScannedAt   time.Time      `json:"scannedAt"`
}

// Validate returns an error if the scan contains invalid fields.
func (s *Scan) Validate() error {
	if s.Record.Code == "" {
		return Errorf(EINVALID, "scan code required")
	}
	if s.SourceURL == "" {
		return Errorf(EINVALID, "scan source URL required")
	}
	return nil
}

// ScanService represents a journal of lookups.
type ScanService interface {
	// CreateScan records a lookup result.
	CreateScan(ctx context.Context, scan *Scan) error

	// FindScans retrieves scans matching the filter, newest first.
	FindScans(ctx context.Context, filter ScanFilter) ([]*Scan, error)
}

// ScanFilter represents a filter for FindScans.
type ScanFilter struct {
	Code *string `json:"code"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
