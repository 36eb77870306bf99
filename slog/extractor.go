package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/medscan"
)

var (
	_ medscan.PageExtractor    = (*LoggingPageExtractor)(nil)
	_ medscan.ListingExtractor = (*LoggingListingExtractor)(nil)
)

// LoggingPageExtractor wraps a PageExtractor and logs the detected layout
// and the fields that came back empty, so that markup changes on the site
// show up before users report them. Failures other than not-found are
// logged at Warn, everything else at Info.
type LoggingPageExtractor struct {
	next     medscan.PageExtractor
	detector medscan.LayoutDetector
	logger   *slog.Logger
}

// NewLoggingPageExtractor creates a new LoggingPageExtractor.
func NewLoggingPageExtractor(next medscan.PageExtractor, detector medscan.LayoutDetector, logger *slog.Logger) *LoggingPageExtractor {
	return &LoggingPageExtractor{next: next, detector: detector, logger: logger}
}

// ExtractRecord delegates to the wrapped extractor and logs the outcome.
func (e *LoggingPageExtractor) ExtractRecord(html string, code string) (record *medscan.MedicineRecord, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"layout", layoutName(e.detector.Detect(html)),
			"code", code,
			"duration", time.Since(begin),
		}
		if record != nil {
			attrs = append(attrs, "resolved", record.Code, "empty", emptyFields(record))
		}
		if err != nil {
			attrs = append(attrs, "err", err)
		}
		e.logger.Log(context.Background(), levelFor(err), "extract record", attrs...)
	}(time.Now())
	return e.next.ExtractRecord(html, code)
}

// LoggingListingExtractor wraps a ListingExtractor and logs the layout and
// entry count at Info, or the failure at Warn.
type LoggingListingExtractor struct {
	next     medscan.ListingExtractor
	detector medscan.LayoutDetector
	logger   *slog.Logger
}

// NewLoggingListingExtractor creates a new LoggingListingExtractor.
func NewLoggingListingExtractor(next medscan.ListingExtractor, detector medscan.LayoutDetector, logger *slog.Logger) *LoggingListingExtractor {
	return &LoggingListingExtractor{next: next, detector: detector, logger: logger}
}

// ExtractListing delegates to the wrapped extractor and logs the entry count.
func (e *LoggingListingExtractor) ExtractListing(html string) (entries []*medscan.ListingEntry, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"layout", layoutName(e.detector.Detect(html)),
			"count", len(entries),
			"duration", time.Since(begin),
		}
		if err != nil {
			attrs = append(attrs, "err", err)
		}
		e.logger.Log(context.Background(), levelFor(err), "extract listing", attrs...)
	}(time.Now())
	return e.next.ExtractListing(html)
}

func layoutName(l medscan.Layout) string {
	if l == medscan.LayoutUnknown {
		return "(unknown)"
	}
	return string(l)
}

// emptyFields lists the record fields that could not be determined.
func emptyFields(r *medscan.MedicineRecord) []string {
	var empty []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"code", r.Code},
		{"name", r.CommercialName},
		{"composition", r.Composition},
		{"dosage", r.Dosage},
		{"form", r.Form},
	} {
		if f.value == "" {
			empty = append(empty, f.name)
		}
	}
	return empty
}
