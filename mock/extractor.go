package mock

import "github.com/fwojciec/medscan"

var (
	_ medscan.PageExtractor    = (*PageExtractor)(nil)
	_ medscan.ListingExtractor = (*ListingExtractor)(nil)
	_ medscan.LayoutDetector   = (*LayoutDetector)(nil)
)

// PageExtractor is a mock implementation of medscan.PageExtractor.
type PageExtractor struct {
	ExtractRecordFn func(html string, code string) (*medscan.MedicineRecord, error)
}

func (e *PageExtractor) ExtractRecord(html string, code string) (*medscan.MedicineRecord, error) {
	return e.ExtractRecordFn(html, code)
}

// ListingExtractor is a mock implementation of medscan.ListingExtractor.
type ListingExtractor struct {
	ExtractListingFn func(html string) ([]*medscan.ListingEntry, error)
}

func (e *ListingExtractor) ExtractListing(html string) ([]*medscan.ListingEntry, error) {
	return e.ExtractListingFn(html)
}

// LayoutDetector is a mock implementation of medscan.LayoutDetector.
type LayoutDetector struct {
	DetectFn func(html string) medscan.Layout
}

func (d *LayoutDetector) Detect(html string) medscan.Layout {
	return d.DetectFn(html)
}
