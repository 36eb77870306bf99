package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/medscan"
)

var _ medscan.PageExtractor = (*PageExtractor)(nil)

// PageExtractor builds a MedicineRecord from a detail page.
//
// Each field has its own strategy chain. Composition and dosage read the
// structured block when the page has one and fall back to labeled
// paragraphs and emphasized labels otherwise. Form additionally derives
// from the commercial name and the presentation text, so it is extracted
// last.
//
// PageExtractor holds only immutable configuration and is safe for
// concurrent use.
type PageExtractor struct {
	cfg      config
	resolver *BarcodeResolver
	chains   map[Field]chain
}

// NewPageExtractor creates a new PageExtractor.
func NewPageExtractor(opts ...Option) *PageExtractor {
	c := newConfig(opts)
	text := chain{structuredBlock, labeledParagraph, labeledEmphasis}
	return &PageExtractor{
		cfg:      c,
		resolver: newBarcodeResolver(c),
		chains: map[Field]chain{
			FieldComposition:  text,
			FieldDosage:       text,
			FieldPresentation: text,
			FieldForm: {
				structuredBlock,
				labeledParagraph,
				labeledEmphasis,
				nameDerived,
				presentationKeyword,
				nameDerivedLastResort,
			},
		},
	}
}

// Strategies returns the names of a field's strategies in priority order.
func (e *PageExtractor) Strategies(f Field) []string {
	return e.chains[f].names()
}

// ExtractRecord parses HTML and returns the record it describes.
func (e *PageExtractor) ExtractRecord(html string, code string) (*medscan.MedicineRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, medscan.Errorf(medscan.EINVALID, "failed to parse HTML: %v", err)
	}
	return e.ExtractDocument(doc, code)
}

// ExtractDocument returns the record described by a parsed detail page.
// If code is empty the barcode is resolved from the page.
// Returns ENOTFOUND when the page has no primary heading or reports that
// no medicine was found.
func (e *PageExtractor) ExtractDocument(doc *goquery.Document, code string) (*medscan.MedicineRecord, error) {
	heading := doc.Find(e.cfg.vocab.Heading).First()
	if heading.Length() == 0 {
		return nil, medscan.Errorf(medscan.ENOTFOUND, "page has no medicine heading")
	}
	if marker := e.notFoundMarker(doc); marker != "" {
		return nil, medscan.Errorf(medscan.ENOTFOUND, "page reports %q", marker)
	}

	p := newPage(doc, &e.cfg.vocab, medscan.CollapseSpace(heading.Text()))

	code = strings.TrimSpace(code)
	if code == "" {
		code = e.resolver.Resolve(doc)
	}

	record := medscan.MedicineRecord{
		Code:           code,
		CommercialName: p.name,
		Composition:    e.field(p, FieldComposition).value,
		Dosage:         e.field(p, FieldDosage).value,
		Form:           e.field(p, FieldForm).value,
	}.Normalize()
	return &record, nil
}

// ExtractField returns one field of a parsed detail page, or "" when every
// strategy of its chain comes up empty.
func (e *PageExtractor) ExtractField(doc *goquery.Document, f Field) string {
	name := medscan.CollapseSpace(doc.Find(e.cfg.vocab.Heading).First().Text())
	return e.field(newPage(doc, &e.cfg.vocab, name), f).value
}

// Source returns the name of the strategy that produced a field of a parsed
// detail page, or "" when no strategy matched.
func (e *PageExtractor) Source(doc *goquery.Document, f Field) string {
	name := medscan.CollapseSpace(doc.Find(e.cfg.vocab.Heading).First().Text())
	p := newPage(doc, &e.cfg.vocab, name)
	e.field(p, f)
	return p.source[f]
}

// field runs the chain of f once per page and remembers the result.
// Form depends on the presentation captured in the same pass.
func (e *PageExtractor) field(p *page, f Field) match {
	if m, ok := p.values[f]; ok {
		return m
	}
	if f == FieldForm {
		e.field(p, FieldPresentation)
	}
	m, source := e.chains[f].run(p, f)
	p.values[f] = m
	p.source[f] = source
	return m
}

// notFoundMarker returns the first no-result marker present in the page text.
func (e *PageExtractor) notFoundMarker(doc *goquery.Document) string {
	text := visibleText(doc)
	for _, marker := range e.cfg.vocab.NotFoundMarkers {
		if containsFold(text, marker) {
			return marker
		}
	}
	return ""
}
