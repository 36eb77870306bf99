package prometheus

import (
	"context"

	"github.com/fwojciec/medscan"
)

// Ensure MetricsService implements medscan.MedicineService.
var _ medscan.MedicineService = (*MetricsService)(nil)

// MetricsService wraps a MedicineService and counts every operation by
// outcome.
type MetricsService struct {
	next    medscan.MedicineService
	metrics *Metrics
}

// NewMetricsService creates a new MetricsService.
func NewMetricsService(next medscan.MedicineService, metrics *Metrics) *MetricsService {
	return &MetricsService{next: next, metrics: metrics}
}

func (s *MetricsService) Lookup(ctx context.Context, code string) (record *medscan.MedicineRecord, err error) {
	defer func() { s.count("lookup", err) }()
	return s.next.Lookup(ctx, code)
}

func (s *MetricsService) LookupURL(ctx context.Context, detailURL string) (record *medscan.MedicineRecord, err error) {
	defer func() { s.count("lookup_url", err) }()
	return s.next.LookupURL(ctx, detailURL)
}

func (s *MetricsService) Search(ctx context.Context, name string) (entries []*medscan.ListingEntry, err error) {
	defer func() { s.count("search", err) }()
	return s.next.Search(ctx, name)
}

func (s *MetricsService) SearchDetails(ctx context.Context, name string, limit int) (details []*medscan.ListingDetail, err error) {
	defer func() { s.count("search_details", err) }()
	return s.next.SearchDetails(ctx, name, limit)
}

func (s *MetricsService) count(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = medscan.ErrorCode(err)
	}
	s.metrics.LookupTotals.WithLabelValues(operation, outcome).Inc()
}
