package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Strategy names, in the order the chains try them.
const (
	StrategyStructuredBlock       = "structured-block"
	StrategyLabeledParagraph      = "labeled-paragraph"
	StrategyLabeledEmphasis       = "labeled-emphasis"
	StrategyNameDerived           = "name-derived"
	StrategyPresentationKeyword   = "presentation-keyword"
	StrategyNameDerivedLastResort = "name-derived-last-resort"
)

// structuredBlock reads the content paired with the first block header that
// contains one of the field labels.
// Precondition: the page has a structured block.
var structuredBlock = strategy{
	name: StrategyStructuredBlock,
	applies: func(p *page, _ Field) bool {
		return p.block != nil
	},
	extract: func(p *page, f Field) match {
		var m match
		p.block.Find(p.layout.Header).EachWithBreak(func(_ int, header *goquery.Selection) bool {
			if !containsAnyLabel(header.Text(), p.rule(f).Labels) {
				return true
			}
			content := header.NextAllFiltered(p.layout.Content).First()
			if content.Length() == 0 {
				return true
			}
			m = some(spacedText(content))
			return false
		})
		return m
	},
}

// textFallback is the precondition of the text heuristics: they only run
// when no structured block speaks for the field.
func textFallback(p *page, f Field) bool {
	return p.block == nil || !p.rule(f).BlockAuthoritative
}

// labeledParagraph reads the last paragraph labeled with the field that
// carries a value; later paragraphs override earlier ones.
// Precondition: textFallback.
var labeledParagraph = strategy{
	name:    StrategyLabeledParagraph,
	applies: textFallback,
	extract: func(p *page, f Field) match {
		rule := p.rule(f)
		var m match
		p.doc.Find(p.vocab.Paragraph).Each(func(_ int, para *goquery.Selection) {
			text := spacedText(para)
			for _, label := range rule.Labels {
				if !paragraphMatches(text, label, rule.Match) {
					continue
				}
				if v := some(stripLabel(text, label)); v.ok {
					m = v
					return
				}
			}
		})
		return m
	},
}

// labeledEmphasis reads the value around a bold or emphasized label.
// Precondition: textFallback.
var labeledEmphasis = strategy{
	name:    StrategyLabeledEmphasis,
	applies: textFallback,
	extract: func(p *page, f Field) match {
		var m match
		p.doc.Find(p.vocab.Emphasis).EachWithBreak(func(_ int, em *goquery.Selection) bool {
			for _, label := range p.rule(f).Labels {
				if !equalFold(em.Text(), label) {
					continue
				}
				if para := em.Closest(p.vocab.Paragraph); para.Length() > 0 {
					m = some(stripLabel(spacedText(para), label))
				} else {
					m = some(trimColons(nextTextSibling(em)))
				}
				if m.ok {
					return false
				}
			}
			return true
		})
		return m
	},
}

// paragraphMatches applies a field's match mode to paragraph text.
func paragraphMatches(text, label string, mode MatchMode) bool {
	if mode == MatchContains {
		return containsFold(text, label)
	}
	return hasPrefixFold(text, label)
}

// containsAnyLabel reports whether text contains one of the labels.
func containsAnyLabel(text string, labels []string) bool {
	for _, label := range labels {
		if containsFold(text, label) {
			return true
		}
	}
	return false
}

// nextTextSibling returns the text node immediately after the selection's
// first node, or "" when the next sibling is not text.
func nextTextSibling(s *goquery.Selection) string {
	if s.Length() == 0 {
		return ""
	}
	next := s.Nodes[0].NextSibling
	if next == nil || next.Type != html.TextNode {
		return ""
	}
	return strings.TrimSpace(next.Data)
}
