// Package pattern normalizes video titles and scores them against taxonomy rules.
package pattern

import (
	"github.com/Veraticus/taxonomist/internal/model"
)

// Scorer maps a normalized title to its best taxonomy match.
type Scorer interface {
	// Score returns the winning match, or the zero Match when no rule applies.
	Score(normalizedTitle string) model.Match
}

// Candidate is a rule whose pattern occurs in a title, with its computed score.
type Candidate struct {
	Rule          model.TaxonomyRule
	Score         float64
	PatternLength int
}
