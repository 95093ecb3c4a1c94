package pattern

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/Veraticus/taxonomist/internal/model"
)

// Ensure Matcher implements Scorer.
var _ Scorer = (*Matcher)(nil)

// Matcher scores normalized titles against a fixed rule set.
//
// A rule is a candidate when its normalized pattern occurs as a substring of the
// title. A candidate scores its weight clamped to [0,1]. The winner is the highest
// score, then the longest pattern, then the lowest rule ID. Confidence is the
// winner's score alone; co-matching rules do not add to it.
type Matcher struct {
	rules []compiledRule
}

type compiledRule struct {
	needle string
	rule   model.TaxonomyRule
	length int
	score  float64
}

// NewMatcher creates a matcher for the given rules. Inactive rules, rules without
// a category and rules whose pattern normalizes to nothing are dropped.
func NewMatcher(rules []model.TaxonomyRule) *Matcher {
	m := &Matcher{rules: make([]compiledRule, 0, len(rules))}

	// Pre-normalize patterns
	for _, rule := range rules {
		if !rule.IsActive || rule.CategoryID <= 0 {
			continue
		}
		needle := NormalizeTitle(rule.Pattern)
		if needle == "" {
			continue
		}
		m.rules = append(m.rules, compiledRule{
			rule:   rule,
			needle: needle,
			length: utf8.RuneCountInString(needle),
			score:  clampWeight(rule.Weight),
		})
	}

	return m
}

// Len returns the number of usable rules.
func (m *Matcher) Len() int {
	return len(m.rules)
}

// Candidates returns every rule matching the title, best first.
func (m *Matcher) Candidates(normalizedTitle string) []Candidate {
	if normalizedTitle == "" {
		return nil
	}

	var candidates []Candidate
	for _, cr := range m.rules {
		if !strings.Contains(normalizedTitle, cr.needle) {
			continue
		}
		candidates = append(candidates, Candidate{
			Rule:          cr.rule,
			Score:         cr.score,
			PatternLength: cr.length,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return better(candidates[i], candidates[j])
	})

	return candidates
}

// Score returns the best match for the title, or the zero Match.
func (m *Matcher) Score(normalizedTitle string) model.Match {
	if normalizedTitle == "" {
		return model.Match{}
	}

	var (
		best  Candidate
		found bool
	)
	for _, cr := range m.rules {
		if !strings.Contains(normalizedTitle, cr.needle) {
			continue
		}
		c := Candidate{Rule: cr.rule, Score: cr.score, PatternLength: cr.length}
		if !found || better(c, best) {
			best = c
			found = true
		}
	}

	if !found {
		return model.Match{}
	}

	sub := best.Rule.SubcategoryID
	if sub < 0 {
		sub = 0
	}

	return model.Match{
		RuleID:        best.Rule.ID,
		CategoryID:    best.Rule.CategoryID,
		SubcategoryID: sub,
		Confidence:    best.Score,
	}
}

// ScoreMatch scores a normalized title against rules in one call.
func ScoreMatch(normalizedTitle string, rules []model.TaxonomyRule) model.Match {
	return NewMatcher(rules).Score(normalizedTitle)
}

// MatchTitle normalizes a raw title and scores it.
func (m *Matcher) MatchTitle(rawTitle string) model.Match {
	return m.Score(NormalizeTitle(rawTitle))
}

// better reports whether a outranks b.
func better(a, b Candidate) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.PatternLength != b.PatternLength {
		return a.PatternLength > b.PatternLength
	}
	return a.Rule.ID < b.Rule.ID
}

func clampWeight(w float64) float64 {
	switch {
	case math.IsNaN(w), w <= 0:
		return 0
	case w >= 1:
		return 1
	}
	return w
}
