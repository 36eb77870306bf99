package goquery

import (
	"fmt"
	"regexp"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/medscan"
)

// BarcodeResolver recovers the barcode of a detail page from its content.
// Sources are tried from most to least authoritative:
//  1. an anchor targeting the site's barcode lookup
//  2. the canonical link (or og:url) targeting the barcode lookup
//  3. the first 13-digit token, or 12-digit token with the national
//     prefix, in the visible text
//
// BarcodeResolver is safe for concurrent use.
type BarcodeResolver struct {
	site    *medscan.Site
	tokenRe *regexp.Regexp
}

// NewBarcodeResolver creates a new BarcodeResolver.
func NewBarcodeResolver(opts ...Option) *BarcodeResolver {
	c := newConfig(opts)
	return newBarcodeResolver(c)
}

func newBarcodeResolver(c config) *BarcodeResolver {
	pattern := `\b\d{13}\b`
	if prefix := c.vocab.BarcodePrefix; prefix != "" && len(prefix) < 12 && medscan.IsDigits(prefix) {
		pattern = fmt.Sprintf(`\b(?:\d{13}|%s\d{%d})\b`, prefix, 12-len(prefix))
	}
	return &BarcodeResolver{
		site:    c.site,
		tokenRe: regexp.MustCompile(pattern),
	}
}

// Resolve returns the page's barcode, or "" when none can be found.
func (r *BarcodeResolver) Resolve(doc *goquery.Document) string {
	if code := r.fromAnchors(doc); code != "" {
		return code
	}
	if code := r.fromCanonical(doc); code != "" {
		return code
	}
	return r.fromText(doc)
}

func (r *BarcodeResolver) fromAnchors(doc *goquery.Document) string {
	var code string
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if c, ok := r.site.CodeFromURL(href); ok {
			code = c
			return false
		}
		return true
	})
	return code
}

func (r *BarcodeResolver) fromCanonical(doc *goquery.Document) string {
	if href, ok := doc.Find("link[rel='canonical']").First().Attr("href"); ok {
		if code, ok := r.site.CodeFromURL(href); ok {
			return code
		}
	}
	if content, ok := doc.Find("meta[property='og:url']").First().Attr("content"); ok {
		if code, ok := r.site.CodeFromURL(content); ok {
			return code
		}
	}
	return ""
}

func (r *BarcodeResolver) fromText(doc *goquery.Document) string {
	return r.tokenRe.FindString(visibleText(doc))
}

// visibleText returns the text of the body, scripts and styles excluded.
func visibleText(doc *goquery.Document) string {
	body := doc.Find("body").First()
	if body.Length() == 0 {
		body = doc.Selection
	}
	return spacedText(body)
}
