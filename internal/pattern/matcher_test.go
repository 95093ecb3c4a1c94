package pattern

import (
	"testing"

	"github.com/Veraticus/taxonomist/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rule(id int64, pattern string, cat, sub int64, weight float64) model.TaxonomyRule {
	return model.TaxonomyRule{
		ID:            id,
		Pattern:       pattern,
		CategoryID:    cat,
		SubcategoryID: sub,
		Weight:        weight,
		IsActive:      true,
	}
}

func TestMatcher_Score(t *testing.T) {
	tests := []struct {
		name  string
		title string
		rules []model.TaxonomyRule
		want  model.Match
	}{
		{
			name:  "no rules",
			title: "μαθημα οδηγησης",
			want:  model.Match{},
		},
		{
			name:  "empty title",
			title: "",
			rules: []model.TaxonomyRule{rule(1, "μαθημα", 5, 12, 0.9)},
			want:  model.Match{},
		},
		{
			name:  "no substring match",
			title: "ειδησεις αθλητικα",
			rules: []model.TaxonomyRule{rule(1, "μαθημα", 5, 12, 0.9)},
			want:  model.Match{},
		},
		{
			name:  "single match",
			title: "μαθημα οδηγησης",
			rules: []model.TaxonomyRule{rule(1, "μαθημα οδηγησης", 5, 12, 0.9)},
			want:  model.Match{RuleID: 1, CategoryID: 5, SubcategoryID: 12, Confidence: 0.9},
		},
		{
			name:  "pattern is normalized before matching",
			title: "μαθημα οδηγησης",
			rules: []model.TaxonomyRule{rule(1, "  Μάθημα   Οδήγησης ", 5, 12, 0.9)},
			want:  model.Match{RuleID: 1, CategoryID: 5, SubcategoryID: 12, Confidence: 0.9},
		},
		{
			name:  "highest weight wins",
			title: "μαθημα οδηγησης για αρχαριους",
			rules: []model.TaxonomyRule{
				rule(1, "οδηγησης", 5, 12, 0.6),
				rule(2, "μαθημα", 7, 20, 0.8),
			},
			want: model.Match{RuleID: 2, CategoryID: 7, SubcategoryID: 20, Confidence: 0.8},
		},
		{
			name:  "equal weight prefers longer pattern",
			title: "μαθημα οδηγησης",
			rules: []model.TaxonomyRule{
				rule(1, "μαθημα", 7, 20, 0.8),
				rule(2, "μαθημα οδηγησης", 5, 12, 0.8),
			},
			want: model.Match{RuleID: 2, CategoryID: 5, SubcategoryID: 12, Confidence: 0.8},
		},
		{
			name:  "equal weight and length prefers lowest id",
			title: "μαθημα ζωγραφικης",
			rules: []model.TaxonomyRule{
				rule(9, "μαθημα", 7, 20, 0.5),
				rule(3, "μαθημα", 5, 12, 0.5),
			},
			want: model.Match{RuleID: 3, CategoryID: 5, SubcategoryID: 12, Confidence: 0.5},
		},
		{
			name:  "co-matching rules do not sum",
			title: "ποδοσφαιρο τελικος",
			rules: []model.TaxonomyRule{
				rule(1, "ποδοσφαιρο", 2, 4, 0.5),
				rule(2, "τελικος", 2, 4, 0.4),
			},
			want: model.Match{RuleID: 1, CategoryID: 2, SubcategoryID: 4, Confidence: 0.5},
		},
		{
			name:  "category only rule",
			title: "συνταγη για κεικ",
			rules: []model.TaxonomyRule{rule(1, "συνταγη", 3, 0, 0.7)},
			want:  model.Match{RuleID: 1, CategoryID: 3, SubcategoryID: 0, Confidence: 0.7},
		},
		{
			name:  "weight above one is clamped",
			title: "κωμωδια",
			rules: []model.TaxonomyRule{rule(1, "κωμωδια", 3, 8, 4)},
			want:  model.Match{RuleID: 1, CategoryID: 3, SubcategoryID: 8, Confidence: 1},
		},
		{
			name:  "inactive and category-less rules are ignored",
			title: "κωμωδια",
			rules: []model.TaxonomyRule{
				{ID: 1, Pattern: "κωμωδια", CategoryID: 3, Weight: 0.9, IsActive: false},
				rule(2, "κωμωδια", 0, 8, 0.9),
				rule(3, "   ", 4, 9, 0.9),
			},
			want: model.Match{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreMatch(tt.title, tt.rules)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatcher_Deterministic(t *testing.T) {
	rules := []model.TaxonomyRule{
		rule(4, "μαθημα", 7, 20, 0.5),
		rule(2, "μαθημα", 5, 12, 0.5),
		rule(8, "οδηγησης", 6, 15, 0.5),
		rule(1, "μαθημ", 9, 30, 0.5),
	}
	m := NewMatcher(rules)
	first := m.Score("μαθημα οδηγησης")
	require.True(t, first.Found())

	for i := 0; i < 50; i++ {
		assert.Equal(t, first, m.Score("μαθημα οδηγησης"))
		assert.Equal(t, first, ScoreMatch("μαθημα οδηγησης", rules))
	}
	// "οδηγησης" is the longest of the equally weighted candidates.
	assert.Equal(t, int64(8), first.RuleID)
}

func TestMatcher_Candidates(t *testing.T) {
	m := NewMatcher([]model.TaxonomyRule{
		rule(1, "μαθημα", 7, 20, 0.5),
		rule(2, "οδηγησης", 5, 12, 0.9),
		rule(3, "ψαρεμα", 5, 13, 1),
	})

	candidates := m.Candidates("μαθημα οδηγησης")
	require.Len(t, candidates, 2)
	assert.Equal(t, int64(2), candidates[0].Rule.ID)
	assert.Equal(t, int64(1), candidates[1].Rule.ID)
	assert.Equal(t, 8, candidates[0].PatternLength)

	assert.Empty(t, m.Candidates(""))
	assert.Equal(t, 3, m.Len())
}

func TestMatcher_MatchTitle(t *testing.T) {
	m := NewMatcher([]model.TaxonomyRule{rule(1, "μαθημα οδηγησης", 5, 12, 0.9)})
	got := m.MatchTitle("  Μάθημα   Οδήγησης ")
	assert.Equal(t, model.Match{RuleID: 1, CategoryID: 5, SubcategoryID: 12, Confidence: 0.9}, got)
}
