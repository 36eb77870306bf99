package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/medscan"
)

var _ medscan.LayoutDetector = (*Detector)(nil)

// Detector identifies which markup generation a page uses. Extraction does
// not depend on it; it exists so that layout changes on the site show up in
// logs and metrics.
type Detector struct {
	cfg      config
	listings *ListingExtractor
}

// NewDetector creates a new Detector.
func NewDetector(opts ...Option) *Detector {
	return &Detector{
		cfg:      newConfig(opts),
		listings: NewListingExtractor(opts...),
	}
}

// Detect analyzes HTML and returns the identified layout.
// Returns LayoutUnknown if the layout cannot be determined.
func (d *Detector) Detect(html string) medscan.Layout {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return medscan.LayoutUnknown
	}
	return d.DetectDocument(doc)
}

// DetectDocument identifies the layout of a parsed page.
func (d *Detector) DetectDocument(doc *goquery.Document) medscan.Layout {
	// Structured listing items are the most specific marker; listing pages
	// may carry an h1 of their own.
	if len(d.listings.structuredListing(doc)) > 0 {
		return medscan.LayoutListing
	}

	if d.hasNotFoundMarker(doc) {
		return medscan.LayoutNotFound
	}

	if d.hasSelector(doc, d.cfg.vocab.Heading) {
		for _, layout := range d.cfg.vocab.Blocks {
			if d.hasSelector(doc, layout.Container) {
				return medscan.LayoutStructured
			}
		}
		return medscan.LayoutLegacy
	}

	if len(d.listings.bareLinks(doc)) > 0 {
		return medscan.LayoutListing
	}

	return medscan.LayoutUnknown
}

// hasSelector checks if the document contains at least one element matching the selector.
func (d *Detector) hasSelector(doc *goquery.Document, selector string) bool {
	return selector != "" && doc.Find(selector).Length() > 0
}

func (d *Detector) hasNotFoundMarker(doc *goquery.Document) bool {
	text := visibleText(doc)
	for _, marker := range d.cfg.vocab.NotFoundMarkers {
		if containsFold(text, marker) {
			return true
		}
	}
	return false
}
