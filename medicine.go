package medscan

import (
	"context"
	"strings"
)

// MedicineRecord is the canonical representation of one detail page.
// Every field is a string; an empty string means the value could not be
// determined. JSON keys follow the wire format clients already consume.
type MedicineRecord struct {
	Code           string `json:"Code CIP"`
	CommercialName string `json:"Nom commercial"`
	Composition    string `json:"DCI"`
	Dosage         string `json:"Dosage"`
	Form           string `json:"Forme"`
}

// Normalize returns a copy of the record with whitespace collapsed in every field.
func (r MedicineRecord) Normalize() MedicineRecord {
	return MedicineRecord{
		Code:           CollapseSpace(r.Code),
		CommercialName: CollapseSpace(r.CommercialName),
		Composition:    CollapseSpace(r.Composition),
		Dosage:         CollapseSpace(r.Dosage),
		Form:           CollapseSpace(r.Form),
	}
}

// ListingEntry is one row of a search-results page.
type ListingEntry struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	Laboratory   string `json:"laboratory"`
	Price        string `json:"price"`
	Presentation string `json:"presentation"`
	DetailURL    string `json:"detailUrl"`
}

// Normalize returns a copy of the entry with whitespace collapsed in every field.
func (e ListingEntry) Normalize() ListingEntry {
	return ListingEntry{
		Code:         CollapseSpace(e.Code),
		Name:         CollapseSpace(e.Name),
		Laboratory:   CollapseSpace(e.Laboratory),
		Price:        CollapseSpace(e.Price),
		Presentation: CollapseSpace(e.Presentation),
		DetailURL:    strings.TrimSpace(e.DetailURL),
	}
}

// ListingDetail pairs a listing entry with the record of its detail page.
// Record is nil when the detail page could not be fetched or extracted,
// in which case Error holds the reason.
type ListingDetail struct {
	Entry  *ListingEntry   `json:"entry"`
	Record *MedicineRecord `json:"record"`
	Error  string          `json:"error,omitempty"`
}

// CollapseSpace replaces every run of whitespace (including non-breaking
// spaces) with a single space and trims the result.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// PageExtractor turns a detail page into a MedicineRecord.
type PageExtractor interface {
	// ExtractRecord parses HTML and returns the record it describes.
	// If code is non-empty it is used as the record code; otherwise the
	// code is resolved from the page.
	// Returns ENOTFOUND if the page does not describe a medicine.
	ExtractRecord(html string, code string) (*MedicineRecord, error)
}

// ListingExtractor turns a search-results page into listing entries.
type ListingExtractor interface {
	// ExtractListing parses HTML and returns its entries, deduplicated by code.
	// A page without results yields an empty slice, not an error.
	ExtractListing(html string) ([]*ListingEntry, error)
}

// MedicineService looks medicines up on the remote database.
type MedicineService interface {
	// Lookup fetches the detail page for a barcode.
	// Returns EINVALID for malformed codes and ENOTFOUND for unknown ones.
	Lookup(ctx context.Context, code string) (*MedicineRecord, error)

	// LookupURL fetches a detail page by URL and resolves its code from the page.
	LookupURL(ctx context.Context, detailURL string) (*MedicineRecord, error)

	// Search fetches the search-results page for a name.
	Search(ctx context.Context, name string) ([]*ListingEntry, error)

	// SearchDetails searches by name and then looks up every entry's
	// detail page, at most limit at a time.
	SearchDetails(ctx context.Context, name string, limit int) ([]*ListingDetail, error)
}
