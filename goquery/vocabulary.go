package goquery

import (
	"regexp"
	"slices"
)

// Field identifies a semantic field of a detail page.
type Field string

// Fields recovered by the strategy chains.
const (
	FieldComposition  Field = "composition"
	FieldDosage       Field = "dosage"
	FieldPresentation Field = "presentation"
	FieldForm         Field = "form"
)

// MatchMode controls how a paragraph is matched against a field label.
type MatchMode int

// Paragraph match modes.
const (
	MatchPrefix MatchMode = iota
	MatchContains
)

// FieldRule describes how a field is labeled on detail pages.
type FieldRule struct {
	// Labels are tried in order; put longer labels before their prefixes.
	Labels []string

	// Match applies to labeled paragraphs only. Block headers and
	// emphasized labels use containment and equality respectively.
	Match MatchMode

	// BlockAuthoritative disables the text heuristics for the field
	// whenever a structured block is present.
	BlockAuthoritative bool
}

// BlockLayout locates a structured detail block: a container holding header
// elements, each followed by a sibling content element.
type BlockLayout struct {
	Container string
	Header    string
	Content   string
}

// ListingLayout locates items of a structured search-results page.
type ListingLayout struct {
	Item      string
	Primary   string
	Secondary string
}

// Vocabulary is the keyword, selector and pattern data the extractors work
// from. Extractors copy it at construction, so a caller can build variants
// (another locale, a new layout) without touching extraction logic.
type Vocabulary struct {
	Fields map[Field]FieldRule

	// Detail pages.
	Heading         string
	Blocks          []BlockLayout
	Paragraph       string
	Emphasis        string
	NotFoundMarkers []string
	FormWords       []string

	// Barcodes found in free text: 13 digits, or 12 digits starting with
	// BarcodePrefix.
	BarcodePrefix string

	// Search-results pages.
	Listings       []ListingLayout
	ProductClasses []string
	BlockHeading   string
	Price          *regexp.Regexp // first group holds the amount
	CurrencySuffix string
	Presentation   *regexp.Regexp
	Separator      *regexp.Regexp
}

// DefaultVocabulary returns the French vocabulary of medicament.ma.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Fields: map[Field]FieldRule{
			FieldComposition: {
				Labels:             []string{"composition", "principes actifs", "principe actif", "substance active"},
				Match:              MatchContains,
				BlockAuthoritative: true,
			},
			FieldDosage: {
				Labels:             []string{"dosage"},
				Match:              MatchPrefix,
				BlockAuthoritative: true,
			},
			FieldPresentation: {
				Labels: []string{"présentation", "conditionnement"},
				Match:  MatchPrefix,
			},
			FieldForm: {
				Labels: []string{"forme pharmaceutique", "forme galénique", "forme"},
				Match:  MatchPrefix,
			},
		},
		Heading: "h1",
		Blocks: []BlockLayout{
			{Container: "table.table-details", Header: "td.field, th", Content: "td.value, td"},
			{Container: "dl.medicament-details", Header: "dt", Content: "dd"},
			{Container: ".product-details", Header: ".detail-header", Content: ".detail-content"},
		},
		Paragraph:       "p",
		Emphasis:        "strong, b, em",
		NotFoundMarkers: []string{"Aucun médicament trouvé"},
		FormWords: []string{
			"comprimé", "gélule", "capsule", "sirop", "sachet", "pommade", "crème",
			"suppositoire", "ovule", "collyre", "ampoule", "stylo", "patch",
			"dispositif transdermique", "inhalateur", "aérosol",
		},
		BarcodePrefix: "611",
		Listings: []ListingLayout{
			{Item: ".search-results .medicament-item", Primary: ".details .name, .primary", Secondary: ".details .small, .secondary"},
			{Item: "table.table-search tbody tr", Primary: "td.name, td:first-child", Secondary: "td.details, td:nth-child(2)"},
		},
		ProductClasses: []string{"product", "item", "result", "card"},
		BlockHeading:   "h1, h2, h3, h4, h5, h6, .title, .name, strong",
		Price:          regexp.MustCompile(`(?i)(\d[\d \x{00a0}]*(?:[.,]\d+)?)\s*(?:dhs|dh|mad)\b`),
		CurrencySuffix: "dhs",
		Presentation:   regexp.MustCompile(`(?i)(?:bo[iî]te|box)\s+(?:de|of)\s+\d+(?:[ \t]*\pL+\.?)?`),
		Separator:      regexp.MustCompile(`\s+[-–]\s*|\s*[-–]\s+`),
	}
}

// clone returns a deep copy so that later changes to the caller's
// vocabulary do not reach an extractor.
func (v Vocabulary) clone() Vocabulary {
	c := v
	c.Fields = make(map[Field]FieldRule, len(v.Fields))
	for f, rule := range v.Fields {
		rule.Labels = slices.Clone(rule.Labels)
		c.Fields[f] = rule
	}
	c.Blocks = slices.Clone(v.Blocks)
	c.NotFoundMarkers = slices.Clone(v.NotFoundMarkers)
	c.FormWords = slices.Clone(v.FormWords)
	c.Listings = slices.Clone(v.Listings)
	c.ProductClasses = slices.Clone(v.ProductClasses)
	return c
}
