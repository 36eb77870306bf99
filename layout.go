package medscan

// Layout identifies which markup generation a page of the database uses.
type Layout string

// Known page layouts.
const (
	LayoutUnknown    Layout = ""
	LayoutStructured Layout = "structured" // detail page with header/content pairs
	LayoutLegacy     Layout = "legacy"     // detail page with labeled paragraphs
	LayoutListing    Layout = "listing"    // search-results page
	LayoutNotFound   Layout = "not-found"  // no-result page
)

// LayoutDetector identifies the layout of a page from its HTML.
type LayoutDetector interface {
	// Detect returns LayoutUnknown if the layout cannot be determined.
	Detect(html string) Layout
}
