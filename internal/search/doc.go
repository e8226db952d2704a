// Package search implements the movie and cinema search pipeline: query
// normalization, case-folded substring matching, ranking by upcoming
// sessions and fixed-size pagination.
//
// The package is storage agnostic. Repositories feed it candidate rows and
// the service layer decides whether matching is pushed down to the database
// or performed here.
package search
