package goquery

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/medscan"
)

// match is the outcome of a strategy. ok is false when the strategy did not
// find the field; the empty string stands for "absent" only once the record
// is built.
type match struct {
	value string
	ok    bool
}

// some wraps a captured value. Text that collapses to nothing is not a match,
// so the chain moves on to the next strategy.
func some(v string) match {
	v = medscan.CollapseSpace(v)
	return match{value: v, ok: v != ""}
}

// strategy is one heuristic of a field chain.
type strategy struct {
	name string

	// applies is the precondition; a nil applies always holds.
	applies func(p *page, f Field) bool

	extract func(p *page, f Field) match
}

// chain is an ordered list of strategies; the first match wins.
type chain []strategy

// run returns the first match and the name of the strategy that produced it.
func (c chain) run(p *page, f Field) (match, string) {
	for _, s := range c {
		if s.applies != nil && !s.applies(p, f) {
			continue
		}
		if m := s.extract(p, f); m.ok {
			return m, s.name
		}
	}
	return match{}, ""
}

// names lists the strategies in priority order.
func (c chain) names() []string {
	names := make([]string, len(c))
	for i, s := range c {
		names[i] = s.name
	}
	return names
}

// page is the per-call state of one detail-page extraction. It is never
// shared between calls.
type page struct {
	doc    *goquery.Document
	vocab  *Vocabulary
	name   string
	block  *goquery.Selection
	layout BlockLayout
	values map[Field]match
	source map[Field]string
}

func newPage(doc *goquery.Document, vocab *Vocabulary, name string) *page {
	p := &page{
		doc:    doc,
		vocab:  vocab,
		name:   name,
		values: make(map[Field]match),
		source: make(map[Field]string),
	}
	for _, layout := range vocab.Blocks {
		if block := doc.Find(layout.Container).First(); block.Length() > 0 {
			p.block = block
			p.layout = layout
			break
		}
	}
	return p
}

// rule returns the labeling rule of a field.
func (p *page) rule(f Field) FieldRule {
	return p.vocab.Fields[f]
}
