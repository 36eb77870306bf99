// Package lookup implements medscan.MedicineService on top of a Fetcher and
// the page and listing extractors.
package lookup

import (
	"context"
	"strings"

	"github.com/fwojciec/medscan"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of detail pages fetched at once by
// SearchDetails when no limit is given.
const DefaultConcurrency = 4

var _ medscan.MedicineService = (*Service)(nil)

// Service looks medicines up on the remote database.
type Service struct {
	Fetcher  medscan.Fetcher
	Pages    medscan.PageExtractor
	Listings medscan.ListingExtractor
	Site     *medscan.Site
}

// Lookup fetches and extracts the detail page of a barcode.
func (s *Service) Lookup(ctx context.Context, code string) (*medscan.MedicineRecord, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, medscan.Errorf(medscan.EINVALID, "code required")
	}
	if !medscan.IsDigits(code) {
		return nil, medscan.Errorf(medscan.EINVALID, "code must contain only digits: %q", code)
	}

	html, err := s.Fetcher.Fetch(ctx, s.site().BarcodeURL(code))
	if err != nil {
		return nil, err
	}
	return s.Pages.ExtractRecord(html, code)
}

// LookupURL fetches and extracts a detail page by URL. Relative URLs are
// resolved against the site root. The code is resolved from the page and,
// failing that, from the URL itself.
func (s *Service) LookupURL(ctx context.Context, detailURL string) (*medscan.MedicineRecord, error) {
	detailURL = strings.TrimSpace(detailURL)
	if detailURL == "" {
		return nil, medscan.Errorf(medscan.EINVALID, "detail URL required")
	}
	site := s.site()
	resolved := site.Resolve(detailURL)
	if resolved == "" {
		return nil, medscan.Errorf(medscan.EINVALID, "invalid detail URL: %q", detailURL)
	}

	html, err := s.Fetcher.Fetch(ctx, resolved)
	if err != nil {
		return nil, err
	}
	record, err := s.Pages.ExtractRecord(html, "")
	if err != nil {
		return nil, err
	}
	if record.Code == "" {
		if code, ok := site.CodeFromURL(resolved); ok {
			record.Code = code
		}
	}
	return record, nil
}

// Search fetches and extracts the search-results page of a name.
func (s *Service) Search(ctx context.Context, name string) ([]*medscan.ListingEntry, error) {
	name = medscan.CollapseSpace(name)
	if name == "" {
		return nil, medscan.Errorf(medscan.EINVALID, "name required")
	}

	html, err := s.Fetcher.Fetch(ctx, s.site().SearchURL(name))
	if err != nil {
		return nil, err
	}
	return s.Listings.ExtractListing(html)
}

// SearchDetails searches by name and looks up the detail page of every
// entry, at most limit at a time. A failed detail lookup does not fail the
// search; the entry keeps a nil record and the error message.
func (s *Service) SearchDetails(ctx context.Context, name string, limit int) ([]*medscan.ListingDetail, error) {
	entries, err := s.Search(ctx, name)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	details := make([]*medscan.ListingDetail, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, entry := range entries {
		g.Go(func() error {
			details[i] = s.detail(gctx, entry)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, medscan.Errorf(medscan.EUNAVAILABLE, "search canceled: %v", err)
	}
	return details, nil
}

func (s *Service) detail(ctx context.Context, entry *medscan.ListingEntry) *medscan.ListingDetail {
	d := &medscan.ListingDetail{Entry: entry}
	if entry.DetailURL == "" {
		d.Error = "entry has no detail URL"
		return d
	}
	record, err := s.LookupURL(ctx, entry.DetailURL)
	if err != nil {
		d.Error = medscan.ErrorMessage(err)
		return d
	}
	if record.Code == "" {
		record.Code = entry.Code
	}
	d.Record = record
	return d
}

func (s *Service) site() *medscan.Site {
	if s.Site == nil {
		return medscan.DefaultSite()
	}
	return s.Site
}
