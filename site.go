package medscan

import (
	"net/url"
	"strings"
)

// DefaultSiteRoot is the root of the pharmaceutical database.
const DefaultSiteRoot = "https://medicament.ma/"

// Query parameters of the site's lookup schemes.
const (
	choiceParam   = "choice"
	queryParam    = "s"
	keywordParam  = "keyword"
	choiceBarcode = "barcode"
	choiceName    = "speciality"
)

// Site describes the remote database: its root and the query schemes used
// to look medicines up by barcode and by name.
type Site struct {
	root *url.URL
}

// NewSite returns a Site rooted at the given absolute URL.
func NewSite(root string) (*Site, error) {
	u, err := url.Parse(root)
	if err != nil {
		return nil, Errorf(EINVALID, "invalid site root: %v", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, Errorf(EINVALID, "site root must be absolute: %q", root)
	}
	if u.Path == "" {
		u.Path = "/"
	}
	return &Site{root: u}, nil
}

// DefaultSite returns the Site for DefaultSiteRoot.
func DefaultSite() *Site {
	s, err := NewSite(DefaultSiteRoot)
	if err != nil {
		panic(err)
	}
	return s
}

// Root returns the site root URL.
func (s *Site) Root() string {
	return s.root.String()
}

// BarcodeURL returns the detail page URL for a barcode.
func (s *Site) BarcodeURL(code string) string {
	u := *s.root
	q := url.Values{}
	q.Set(choiceParam, choiceBarcode)
	q.Set(queryParam, code)
	u.RawQuery = q.Encode()
	return u.String()
}

// SearchURL returns the search-results page URL for a medicine name.
func (s *Site) SearchURL(name string) string {
	u := *s.root
	q := url.Values{}
	q.Set(choiceParam, choiceName)
	q.Set(keywordParam, name)
	u.RawQuery = q.Encode()
	return u.String()
}

// Resolve resolves href against the site root.
// Returns an empty string if href cannot be parsed.
func (s *Site) Resolve(href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	resolved := s.root.ResolveReference(ref)
	resolved.Fragment = ""
	return resolved.String()
}

// CodeFromURL extracts the barcode from a link that targets the site's
// barcode lookup. It reports false for any other link.
func (s *Site) CodeFromURL(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	u := s.root.ResolveReference(ref)
	if !sameHost(u.Host, s.root.Host) {
		return "", false
	}
	q := u.Query()
	if !strings.EqualFold(q.Get(choiceParam), choiceBarcode) {
		return "", false
	}
	code := strings.TrimSpace(q.Get(queryParam))
	if !IsDigits(code) {
		return "", false
	}
	return code, true
}

// IsDigits reports whether s is a non-empty run of ASCII digits.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// sameHost compares hosts ignoring case and a leading "www.".
func sameHost(a, b string) bool {
	a = strings.TrimPrefix(strings.ToLower(a), "www.")
	b = strings.TrimPrefix(strings.ToLower(b), "www.")
	return a == b
}
