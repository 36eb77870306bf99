package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/medscan"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ medscan.ScanService = (*ScanService)(nil)

// ScanService implements medscan.ScanService using SQLite.
type ScanService struct {
	db *DB
}

// NewScanService creates a new ScanService.
func NewScanService(db *DB) *ScanService {
	return &ScanService{db: db}
}

// Fingerprint hashes the record fields so that scans of an unchanged page
// compare equal.
func Fingerprint(r medscan.MedicineRecord) string {
	h := xxhash.New()
	for _, field := range []string{r.Code, r.CommercialName, r.Composition, r.Dosage, r.Form} {
		_, _ = h.WriteString(field)
		_, _ = h.Write([]byte{0x1f})
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

// CreateScan records a lookup result. ID, Fingerprint and ScannedAt are set
// on the scan.
func (s *ScanService) CreateScan(ctx context.Context, scan *medscan.Scan) error {
	if err := scan.Validate(); err != nil {
		return err
	}

	scan.ID = uuid.New().String()
	scan.ScannedAt = time.Now().UTC()
	scan.Fingerprint = Fingerprint(scan.Record)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO scans (id, code, source_url, commercial_name, composition, dosage, form, fingerprint, scanned_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, scan.ID, scan.Record.Code, scan.SourceURL, scan.Record.CommercialName, scan.Record.Composition,
		scan.Record.Dosage, scan.Record.Form, scan.Fingerprint, scan.ScannedAt.Format(timeLayout))

	return err
}

// FindScans retrieves scans matching the filter, newest first.
func (s *ScanService) FindScans(ctx context.Context, filter medscan.ScanFilter) ([]*medscan.Scan, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, code, source_url, commercial_name, composition, dosage, form, fingerprint, scanned_at FROM scans WHERE 1=1")

	if filter.Code != nil {
		query.WriteString(" AND code = ?")
		args = append(args, *filter.Code)
	}

	query.WriteString(" ORDER BY scanned_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scans := []*medscan.Scan{}
	for rows.Next() {
		var scan medscan.Scan
		var scannedAt string

		if err := rows.Scan(&scan.ID, &scan.Record.Code, &scan.SourceURL, &scan.Record.CommercialName,
			&scan.Record.Composition, &scan.Record.Dosage, &scan.Record.Form, &scan.Fingerprint, &scannedAt); err != nil {
			return nil, err
		}

		if scan.ScannedAt, err = parseTime(scannedAt, "scanned_at"); err != nil {
			return nil, err
		}
		scans = append(scans, &scan)
	}

	return scans, rows.Err()
}
