package search

import (
	"strings"

	"golang.org/x/text/cases"
)

// Matcher tests records against a fixed list of terms. A record matches when
// every term is a case-folded substring of at least one of its fields.
//
// A Matcher keeps a cases.Caser, which is stateful, so it must not be shared
// between goroutines. Build one per request.
type Matcher struct {
	caser cases.Caser
	terms []string
}

// NewMatcher folds the terms once so Match only folds the field values.
func NewMatcher(terms []string) *Matcher {
	m := &Matcher{caser: cases.Fold(), terms: make([]string, 0, len(terms))}
	for _, t := range terms {
		if t == "" {
			continue
		}
		m.terms = append(m.terms, m.fold(t))
	}
	return m
}

// Match reports whether all terms occur in at least one of fields.
// With no terms every record matches.
func (m *Matcher) Match(fields ...string) bool {
	folded := make([]string, len(fields))
	for i, f := range fields {
		folded[i] = m.fold(f)
	}
	for _, t := range m.terms {
		found := false
		for _, f := range folded {
			if strings.Contains(f, t) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (m *Matcher) fold(s string) string {
	m.caser.Reset()
	return m.caser.String(s)
}

// Candidate is an id with the text fields a query is matched against.
type Candidate struct {
	ID     uint64
	Fields []string
}

// Filter returns the ids of the candidates that match terms, in input order.
func Filter(candidates []Candidate, terms []string) []uint64 {
	m := NewMatcher(terms)
	ids := make([]uint64, 0)
	for _, c := range candidates {
		if m.Match(c.Fields...) {
			ids = append(ids, c.ID)
		}
	}
	return ids
}
