package goquery

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fold lowercases s and strips diacritics so that "Présentation",
// "PRESENTATION" and "présentation" compare equal.
// Transformers are stateful, so each call builds its own.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return cases.Fold().String(out)
}

// foldRune folds a single rune, with a fast path for ASCII.
func foldRune(r rune) string {
	if r < utf8.RuneSelf {
		if 'A' <= r && r <= 'Z' {
			r += 'a' - 'A'
		}
		return string(r)
	}
	return fold(string(r))
}

// indexFold returns the byte span of the first folded occurrence of sub in s,
// or -1, -1 if there is none. Offsets refer to s, not to its folded form.
func indexFold(s, sub string) (start, end int) {
	needle := fold(sub)
	if needle == "" {
		return -1, -1
	}

	var folded strings.Builder
	var starts, ends []int
	for i, r := range s {
		piece := foldRune(r)
		size := utf8.RuneLen(r)
		if r == utf8.RuneError {
			size = 1
		}
		for range len(piece) {
			starts = append(starts, i)
			ends = append(ends, i+size)
		}
		folded.WriteString(piece)
	}

	idx := strings.Index(folded.String(), needle)
	if idx < 0 {
		return -1, -1
	}
	return starts[idx], ends[idx+len(needle)-1]
}

// containsFold reports whether sub occurs in s, ignoring case and accents.
func containsFold(s, sub string) bool {
	return strings.Contains(fold(s), fold(sub))
}

// hasPrefixFold reports whether s starts with the word prefix, ignoring
// case, accents and leading whitespace. "Forme" is a prefix of "Forme :"
// but not of "Formes".
func hasPrefixFold(s, prefix string) bool {
	p := fold(prefix)
	folded := fold(strings.TrimSpace(s))
	if p == "" || !strings.HasPrefix(folded, p) {
		return false
	}
	next, _ := utf8.DecodeRuneInString(folded[len(p):])
	return next == utf8.RuneError || !unicode.IsLetter(next)
}

// equalFold reports whether s equals label, ignoring case, accents,
// surrounding whitespace and a trailing colon.
func equalFold(s, label string) bool {
	s = strings.TrimRightFunc(strings.TrimSpace(s), func(r rune) bool {
		return r == ':' || unicode.IsSpace(r)
	})
	return s != "" && fold(s) == fold(label)
}

// stripLabel returns the text that follows label in s, with leading colons
// and whitespace removed.
func stripLabel(s, label string) string {
	_, end := indexFold(s, label)
	if end < 0 {
		return strings.TrimSpace(s)
	}
	return trimColons(s[end:])
}

// trimColons trims whitespace and leading colons.
func trimColons(s string) string {
	return strings.TrimSpace(strings.TrimLeftFunc(s, func(r rune) bool {
		return r == ':' || unicode.IsSpace(r)
	}))
}
