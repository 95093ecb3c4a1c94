package classification

import (
	"context"
	"testing"

	"github.com/Veraticus/taxonomist/internal/pattern"
	"github.com/Veraticus/taxonomist/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func taxonomySize(taxonomy []SeedCategory) (categories, subcategories, rules int) {
	for _, c := range taxonomy {
		categories++
		rules += len(c.Rules)
		for _, s := range c.Subcategories {
			subcategories++
			rules += len(s.Rules)
		}
	}
	return categories, subcategories, rules
}

func TestSeed_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	taxonomy := DefaultTaxonomy()
	wantCats, wantSubs, wantRules := taxonomySize(taxonomy)

	first, err := Seed(ctx, db.Storage, taxonomy)
	require.NoError(t, err)
	assert.Equal(t, wantCats, first.Categories)
	assert.Equal(t, wantSubs, first.Subcategories)
	assert.Equal(t, wantRules, first.Rules)
	assert.Zero(t, first.Existing)

	second, err := Seed(ctx, db.Storage, taxonomy)
	require.NoError(t, err)
	assert.Zero(t, second.Categories)
	assert.Zero(t, second.Subcategories)
	assert.Zero(t, second.Rules)
	assert.Equal(t, wantCats+wantSubs+wantRules, second.Existing)

	rules, err := db.Storage.GetAllTaxonomyRules(ctx)
	require.NoError(t, err)
	assert.Len(t, rules, wantRules)
}

func TestSeed_ExtendsExistingCategory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	catID := db.MustCategory("Μαγειρική")

	result, err := Seed(ctx, db.Storage, []SeedCategory{{
		Name:  "Μαγειρική",
		Rules: []SeedRule{{Pattern: "μαγειρική", Weight: 0.7}},
		Subcategories: []SeedSubcategory{{
			Name:  "Συνταγές",
			Rules: []SeedRule{{Pattern: "συνταγή", Weight: 0.9}},
		}},
	}})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Existing)
	assert.Equal(t, 1, result.Subcategories)
	assert.Equal(t, 2, result.Rules)

	subs, err := db.Storage.GetSubcategories(ctx, catID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "Συνταγές", subs[0].Name)
}

func TestDefaultTaxonomy_Classifies(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	_, err := Seed(ctx, db.Storage, DefaultTaxonomy())
	require.NoError(t, err)

	rules, err := db.Storage.GetActiveTaxonomyRules(ctx)
	require.NoError(t, err)
	matcher := pattern.NewMatcher(rules)
	assert.Equal(t, len(rules), matcher.Len())

	driving, err := db.Storage.GetCategoryByName(ctx, "Εκπαίδευση")
	require.NoError(t, err)
	lessons, err := db.Storage.GetSubcategoryByName(ctx, driving.ID, "Μαθήματα Οδήγησης")
	require.NoError(t, err)

	tests := []struct {
		name     string
		title    string
		wantCat  int64
		wantSub  int64
		wantConf float64
	}{
		{"driving lesson", "Μάθημα Οδήγησης στην Αθήνα", driving.ID, lessons.ID, 0.9},
		{"generic lesson", "ΜΑΘΗΜΑ ΙΣΤΟΡΙΑΣ", driving.ID, 0, 0.5},
		{"no match", "Ταξίδι στην Κρήτη", 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matcher.MatchTitle(tt.title)
			assert.Equal(t, tt.wantCat, got.CategoryID)
			assert.Equal(t, tt.wantSub, got.SubcategoryID)
			assert.InDelta(t, tt.wantConf, got.Confidence, 1e-9)
		})
	}
}

func TestDefaultTaxonomy_Valid(t *testing.T) {
	for _, c := range DefaultTaxonomy() {
		assert.NotEmpty(t, c.Name)
		all := append([]SeedRule(nil), c.Rules...)
		for _, s := range c.Subcategories {
			assert.NotEmpty(t, s.Name)
			assert.NotEmpty(t, s.Rules, "subcategory %s has no rules", s.Name)
			all = append(all, s.Rules...)
		}
		for _, r := range all {
			assert.NotEmpty(t, pattern.NormalizeTitle(r.Pattern))
			assert.Greater(t, r.Weight, 0.0)
			assert.LessOrEqual(t, r.Weight, 1.0)
		}
	}
}
