// Package goquery implements the medscan extractors on top of
// github.com/PuerkitoBio/goquery. Detail pages go through ordered strategy
// chains, one per field, so that the same extractor handles the site's
// structured layout and its older free-text layout.
package goquery

import "github.com/fwojciec/medscan"

// config is shared by every extractor in the package.
type config struct {
	site  *medscan.Site
	vocab Vocabulary
}

// Option configures an extractor.
type Option func(*config)

// WithSite sets the site used to resolve links and recognise barcode lookups.
// Defaults to medscan.DefaultSite().
func WithSite(site *medscan.Site) Option {
	return func(c *config) {
		c.site = site
	}
}

// WithVocabulary replaces the keyword, selector and pattern tables.
// Defaults to DefaultVocabulary().
func WithVocabulary(v Vocabulary) Option {
	return func(c *config) {
		c.vocab = v
	}
}

func newConfig(opts []Option) config {
	c := config{
		site:  medscan.DefaultSite(),
		vocab: DefaultVocabulary(),
	}
	for _, opt := range opts {
		opt(&c)
	}
	c.vocab = c.vocab.clone()
	return c
}
