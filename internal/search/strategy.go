package search

import "strings"

// Strategy selects where multi-term matching is evaluated.
type Strategy string

const (
	// StrategyNative pushes the conjunction of LIKE disjunctions down to the
	// database. Only correct when the engine folds non-ASCII case.
	StrategyNative Strategy = "native"
	// StrategyMemory loads the searchable projections and filters them with
	// a Matcher.
	StrategyMemory Strategy = "memory"
)

// ChooseStrategy resolves the configured strategy. "native" and "memory"
// force a strategy; anything else (including "auto" and "") picks native only
// when the engine folds Unicode case itself.
func ChooseStrategy(configured string, engineFoldsUnicode bool) Strategy {
	switch Strategy(strings.ToLower(strings.TrimSpace(configured))) {
	case StrategyNative:
		return StrategyNative
	case StrategyMemory:
		return StrategyMemory
	}
	if engineFoldsUnicode {
		return StrategyNative
	}
	return StrategyMemory
}
