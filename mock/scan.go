package mock

import (
	"context"

	"github.com/fwojciec/medscan"
)

var _ medscan.ScanService = (*ScanService)(nil)

// ScanService is a mock implementation of medscan.ScanService.
type ScanService struct {
	CreateScanFn func(ctx context.Context, scan *medscan.Scan) error
	FindScansFn  func(ctx context.Context, filter medscan.ScanFilter) ([]*medscan.Scan, error)
}

func (s *ScanService) CreateScan(ctx context.Context, scan *medscan.Scan) error {
	return s.CreateScanFn(ctx, scan)
}

func (s *ScanService) FindScans(ctx context.Context, filter medscan.ScanFilter) ([]*medscan.Scan, error) {
	return s.FindScansFn(ctx, filter)
}
