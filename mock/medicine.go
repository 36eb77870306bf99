package mock

import (
	"context"

	"github.com/fwojciec/medscan"
)

var _ medscan.MedicineService = (*MedicineService)(nil)

// MedicineService is a mock implementation of medscan.MedicineService.
type MedicineService struct {
	LookupFn        func(ctx context.Context, code string) (*medscan.MedicineRecord, error)
	LookupURLFn     func(ctx context.Context, url string) (*medscan.MedicineRecord, error)
	SearchFn        func(ctx context.Context, name string) ([]*medscan.ListingEntry, error)
	SearchDetailsFn func(ctx context.Context, name string, limit int) ([]*medscan.ListingDetail, error)
}

func (s *MedicineService) Lookup(ctx context.Context, code string) (*medscan.MedicineRecord, error) {
	return s.LookupFn(ctx, code)
}

func (s *MedicineService) LookupURL(ctx context.Context, url string) (*medscan.MedicineRecord, error) {
	return s.LookupURLFn(ctx, url)
}

func (s *MedicineService) Search(ctx context.Context, name string) ([]*medscan.ListingEntry, error) {
	return s.SearchFn(ctx, name)
}

func (s *MedicineService) SearchDetails(ctx context.Context, name string, limit int) ([]*medscan.ListingDetail, error) {
	return s.SearchDetailsFn(ctx, name, limit)
}
