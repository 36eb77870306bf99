package goquery

import (
	"strings"
	"unicode"
)

// nameDerived takes the part of the commercial name after its last comma,
// unless it starts with a digit (a dosage fragment such as "500 mg").
// Precondition: the name contains a comma.
var nameDerived = strategy{
	name:    StrategyNameDerived,
	applies: nameHasComma,
	extract: func(p *page, _ Field) match {
		candidate := nameCandidate(p.name)
		if startsWithDigit(candidate) {
			return match{}
		}
		return some(candidate)
	},
}

// presentationKeyword uses the whole presentation text as the form when it
// mentions a known form word.
// Precondition: a presentation was captured earlier in the same pass.
var presentationKeyword = strategy{
	name: StrategyPresentationKeyword,
	applies: func(p *page, _ Field) bool {
		return p.values[FieldPresentation].ok
	},
	extract: func(p *page, _ Field) match {
		presentation := p.values[FieldPresentation].value
		for _, word := range p.vocab.FormWords {
			if containsFold(presentation, word) {
				return some(presentation)
			}
		}
		return match{}
	},
}

// nameDerivedLastResort accepts the name candidate even when it starts with
// a digit. It runs only after every other form strategy came up empty.
// Precondition: the name contains a comma.
var nameDerivedLastResort = strategy{
	name:    StrategyNameDerivedLastResort,
	applies: nameHasComma,
	extract: func(p *page, _ Field) match {
		return some(nameCandidate(p.name))
	},
}

func nameHasComma(p *page, _ Field) bool {
	return strings.Contains(p.name, ",")
}

// nameCandidate returns the trimmed text after the last comma of name.
func nameCandidate(name string) string {
	i := strings.LastIndex(name, ",")
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(name[i+1:])
}

func startsWithDigit(s string) bool {
	for _, r := range s {
		return unicode.IsDigit(r)
	}
	return false
}
