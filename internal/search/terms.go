package search

import "strings"

// Terms splits a raw query into whitespace separated terms. Empty tokens are
// dropped and order is preserved. No stemming or punctuation stripping is
// applied; every term is matched as a literal substring.
func Terms(q string) []string {
	return strings.Fields(q)
}
