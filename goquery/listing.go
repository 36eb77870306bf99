package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/medscan"
)

var _ medscan.ListingExtractor = (*ListingExtractor)(nil)

// Listing strategy names, in the order they are tried.
const (
	StrategyStructuredListing = "structured-listing"
	StrategyProductBlock      = "product-block"
	StrategyBareLink          = "bare-link"
)

// listingStrategy turns a search-results page into candidate entries.
type listingStrategy struct {
	name    string
	extract func(doc *goquery.Document) []*medscan.ListingEntry
}

// ListingExtractor turns a search-results page into listing entries.
//
// The first strategy that yields entries wins; results of different
// strategies are never mixed. Entries are then deduplicated by code,
// the later entry replacing the earlier one in place.
//
// ListingExtractor is safe for concurrent use.
type ListingExtractor struct {
	cfg        config
	strategies []listingStrategy
}

// NewListingExtractor creates a new ListingExtractor.
func NewListingExtractor(opts ...Option) *ListingExtractor {
	e := &ListingExtractor{cfg: newConfig(opts)}
	e.strategies = []listingStrategy{
		{name: StrategyStructuredListing, extract: e.structuredListing},
		{name: StrategyProductBlock, extract: e.productBlocks},
		{name: StrategyBareLink, extract: e.bareLinks},
	}
	return e
}

// Strategies returns the strategy names in priority order.
func (e *ListingExtractor) Strategies() []string {
	names := make([]string, len(e.strategies))
	for i, s := range e.strategies {
		names[i] = s.name
	}
	return names
}

// ExtractListing parses HTML and returns its entries.
func (e *ListingExtractor) ExtractListing(html string) ([]*medscan.ListingEntry, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, medscan.Errorf(medscan.EINVALID, "failed to parse HTML: %v", err)
	}
	entries, _ := e.ExtractDocument(doc)
	return entries, nil
}

// ExtractDocument returns the entries of a parsed search-results page and
// the name of the strategy that produced them. A page without results
// yields an empty slice and an empty strategy name.
func (e *ListingExtractor) ExtractDocument(doc *goquery.Document) ([]*medscan.ListingEntry, string) {
	for _, s := range e.strategies {
		if entries := s.extract(doc); len(entries) > 0 {
			return dedupe(entries), s.name
		}
	}
	return []*medscan.ListingEntry{}, ""
}

// structuredListing reads items of the first configured listing layout
// present on the page.
func (e *ListingExtractor) structuredListing(doc *goquery.Document) []*medscan.ListingEntry {
	for _, layout := range e.cfg.vocab.Listings {
		items := doc.Find(layout.Item)
		if items.Length() == 0 {
			continue
		}

		var entries []*medscan.ListingEntry
		items.Each(func(_ int, item *goquery.Selection) {
			anchor := item
			if goquery.NodeName(item) != "a" {
				anchor = item.Find("a[href]").First()
			}
			href, ok := anchor.Attr("href")
			if !ok || isNonHTTPLink(href) {
				return
			}

			name := spacedText(item.Find(layout.Primary).First())
			if strings.TrimSpace(name) == "" {
				name = spacedText(anchor)
			}

			entry := e.newEntry(href, name)
			if entry == nil {
				return
			}
			e.parseDetails(entry, spacedText(item.Find(layout.Secondary).First()))
			entries = append(entries, entry)
		})
		return entries
	}
	return nil
}

// productBlocks reads loosely classed product blocks that link to the
// barcode lookup. A block owns its barcode unless an enclosing block owns
// the same one; a block holding several barcodes is a results wrapper and
// its inner blocks are used instead.
func (e *ListingExtractor) productBlocks(doc *goquery.Document) []*medscan.ListingEntry {
	selector := e.productSelector()
	if selector == "" {
		return nil
	}

	var entries []*medscan.ListingEntry
	doc.Find(selector).Each(func(_ int, block *goquery.Selection) {
		if e.countCodes(block) != 1 {
			return
		}
		owned := false
		block.ParentsFiltered(selector).EachWithBreak(func(_ int, outer *goquery.Selection) bool {
			owned = e.countCodes(outer) == 1
			return !owned
		})
		if owned {
			return
		}

		anchor := e.barcodeAnchor(block)
		href, _ := anchor.Attr("href")
		if entry := e.newEntry(href, e.entryName(anchor, block)); entry != nil {
			e.parseDetails(entry, spacedText(block))
			entries = append(entries, entry)
		}
	})
	return entries
}

// bareLinks reads every anchor targeting the barcode lookup.
func (e *ListingExtractor) bareLinks(doc *goquery.Document) []*medscan.ListingEntry {
	var entries []*medscan.ListingEntry
	doc.Find("a[href]").Each(func(_ int, anchor *goquery.Selection) {
		href, _ := anchor.Attr("href")
		if _, ok := e.cfg.site.CodeFromURL(href); !ok {
			return
		}

		block := anchor.ParentsFiltered("li, tr, article, section, div").First()
		if block.Length() == 0 {
			block = anchor.Parent()
		}

		entry := e.newEntry(href, e.entryName(anchor, block))
		if entry == nil {
			return
		}
		e.parseDetails(entry, spacedText(block))
		entries = append(entries, entry)
	})
	return entries
}

// newEntry builds an entry with an absolute detail URL and the barcode the
// URL carries, if any. It returns nil when href cannot be resolved.
func (e *ListingExtractor) newEntry(href, name string) *medscan.ListingEntry {
	detailURL := e.cfg.site.Resolve(href)
	if detailURL == "" {
		return nil
	}
	code, _ := e.cfg.site.CodeFromURL(href)
	return &medscan.ListingEntry{
		Code:      code,
		Name:      medscan.CollapseSpace(name),
		DetailURL: detailURL,
	}
}

// entryName prefers the anchor text and falls back to a heading of the block.
func (e *ListingExtractor) entryName(anchor, block *goquery.Selection) string {
	if name := medscan.CollapseSpace(spacedText(anchor)); name != "" {
		return name
	}
	return medscan.CollapseSpace(spacedText(block.Find(e.cfg.vocab.BlockHeading).First()))
}

// parseDetails fills laboratory, price and presentation from free text.
func (e *ListingExtractor) parseDetails(entry *medscan.ListingEntry, text string) {
	text = medscan.CollapseSpace(text)
	entry.Price = e.price(text)
	entry.Presentation = e.presentation(text)
	entry.Laboratory = e.laboratory(text)
	*entry = entry.Normalize()
}

// price returns the amount before the currency marker as "<digits>.<digits> <suffix>".
func (e *ListingExtractor) price(text string) string {
	if e.cfg.vocab.Price == nil {
		return ""
	}
	m := e.cfg.vocab.Price.FindStringSubmatch(text)
	if len(m) < 2 {
		return ""
	}
	amount := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '\t':
			return -1
		case ',':
			return '.'
		}
		return r
	}, m[1])
	if !strings.Contains(amount, ".") {
		amount += ".00"
	}
	return amount + " " + e.cfg.vocab.CurrencySuffix
}

func (e *ListingExtractor) presentation(text string) string {
	if e.cfg.vocab.Presentation == nil {
		return ""
	}
	return strings.TrimSpace(e.cfg.vocab.Presentation.FindString(text))
}

// laboratory returns the text after the trailing hyphen separator. Segments
// holding the price or the presentation are skipped; the segment before the
// first separator is the product name and never the laboratory.
func (e *ListingExtractor) laboratory(text string) string {
	if e.cfg.vocab.Separator == nil {
		return ""
	}
	segments := e.cfg.vocab.Separator.Split(text, -1)
	for i := len(segments) - 1; i > 0; i-- {
		segment := strings.TrimSpace(segments[i])
		if segment == "" || e.price(segment) != "" || e.presentation(segment) != "" {
			continue
		}
		return segment
	}
	return ""
}

// barcodeAnchor returns the first anchor in block targeting the barcode lookup.
func (e *ListingExtractor) barcodeAnchor(block *goquery.Selection) *goquery.Selection {
	var found *goquery.Selection
	block.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if _, ok := e.cfg.site.CodeFromURL(href); ok {
			found = a
			return false
		}
		return true
	})
	return found
}

// countCodes returns the number of distinct barcodes linked from block.
func (e *ListingExtractor) countCodes(block *goquery.Selection) int {
	codes := make(map[string]struct{})
	block.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if code, ok := e.cfg.site.CodeFromURL(href); ok {
			codes[code] = struct{}{}
		}
	})
	return len(codes)
}

// productSelector builds a class-substring selector from the vocabulary.
func (e *ListingExtractor) productSelector() string {
	parts := make([]string, 0, len(e.cfg.vocab.ProductClasses))
	for _, class := range e.cfg.vocab.ProductClasses {
		parts = append(parts, "[class*='"+class+"']")
	}
	return strings.Join(parts, ", ")
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:") ||
		strings.HasPrefix(href, "#")
}

// dedupe keeps one entry per non-empty code. A later entry replaces the
// earlier one at the earlier position; entries without code are all kept.
func dedupe(entries []*medscan.ListingEntry) []*medscan.ListingEntry {
	index := make(map[string]int)
	out := make([]*medscan.ListingEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.Code == "" {
			out = append(out, entry)
			continue
		}
		if i, ok := index[entry.Code]; ok {
			out[i] = entry
			continue
		}
		index[entry.Code] = len(out)
		out = append(out, entry)
	}
	return out
}
