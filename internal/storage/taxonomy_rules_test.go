package storage

import (
	"context"
	"testing"
	"time"

	"github.com/Veraticus/taxonomist/internal/common"
	"github.com/Veraticus/taxonomist/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaxonomyRules_CRUD(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	catID, subID := seedTaxonomy(t, store, "Εκπαίδευση", "Οδήγηση")

	rule := &model.TaxonomyRule{
		Pattern:       "μαθημα οδηγησης",
		CategoryID:    catID,
		SubcategoryID: subID,
		Weight:        0.9,
		IsActive:      true,
	}
	require.NoError(t, store.CreateTaxonomyRule(ctx, rule))
	assert.Positive(t, rule.ID)

	got, err := store.GetTaxonomyRule(ctx, rule.ID)
	require.NoError(t, err)
	assert.Equal(t, rule.Pattern, got.Pattern)
	assert.Equal(t, subID, got.SubcategoryID)
	assert.InDelta(t, 0.9, got.Weight, 1e-9)
	assert.True(t, got.IsActive)

	got.IsActive = false
	require.NoError(t, store.UpdateTaxonomyRule(ctx, got))

	active, err := store.GetActiveTaxonomyRules(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := store.GetAllTaxonomyRules(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, store.DeleteTaxonomyRule(ctx, rule.ID))
	_, err = store.GetTaxonomyRule(ctx, rule.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.ErrorIs(t, store.DeleteTaxonomyRule(ctx, rule.ID), common.ErrNotFound)
}

func TestTaxonomyRules_Validation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	catID, subID := seedTaxonomy(t, store, "Αθλητικά", "Ποδόσφαιρο")
	otherCat, _ := seedTaxonomy(t, store, "Μαγειρική", "Γλυκά")

	tests := []struct {
		name string
		rule model.TaxonomyRule
	}{
		{name: "missing category", rule: model.TaxonomyRule{Pattern: "goal", Weight: 0.5}},
		{name: "empty pattern", rule: model.TaxonomyRule{Pattern: " ", CategoryID: catID, Weight: 0.5}},
		{name: "weight too high", rule: model.TaxonomyRule{Pattern: "goal", CategoryID: catID, Weight: 1.5}},
		{name: "negative weight", rule: model.TaxonomyRule{Pattern: "goal", CategoryID: catID, Weight: -0.1}},
		{name: "unknown category", rule: model.TaxonomyRule{Pattern: "goal", CategoryID: 9999, Weight: 0.5}},
		{
			name: "subcategory from another category",
			rule: model.TaxonomyRule{Pattern: "goal", CategoryID: otherCat, SubcategoryID: subID, Weight: 0.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := tt.rule
			err := store.CreateTaxonomyRule(ctx, &rule)
			assert.ErrorIs(t, err, ErrInvalidRule)
		})
	}

	dup := model.TaxonomyRule{Pattern: "γκολ", CategoryID: catID, SubcategoryID: subID, Weight: 0.5, IsActive: true}
	require.NoError(t, store.CreateTaxonomyRule(ctx, &dup))
	again := dup
	assert.ErrorIs(t, store.CreateTaxonomyRule(ctx, &again), common.ErrDuplicateEntry)
}

func TestTaxonomyRules_Cache(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	catID, subID := seedTaxonomy(t, store, "Αθλητικά", "Μπάσκετ")
	store.SetRuleCacheTTL(time.Hour)

	first := model.TaxonomyRule{Pattern: "μπασκετ", CategoryID: catID, SubcategoryID: subID, Weight: 0.8, IsActive: true}
	require.NoError(t, store.CreateTaxonomyRule(ctx, &first))

	rules, err := store.GetActiveTaxonomyRules(ctx)
	require.NoError(t, err)
	require.Len(t, rules, 1)

	// A write behind the cache's back is not visible while the cache is fresh.
	_, err = store.db.Exec(
		"INSERT INTO taxonomy_rules (pattern, category_id, weight, is_active) VALUES ('euroleague', ?, 0.7, 1)", catID)
	require.NoError(t, err)
	rules, err = store.GetActiveTaxonomyRules(ctx)
	require.NoError(t, err)
	assert.Len(t, rules, 1)

	// Writes through the store invalidate it.
	second := model.TaxonomyRule{Pattern: "nba", CategoryID: catID, Weight: 0.6, IsActive: true}
	require.NoError(t, store.CreateTaxonomyRule(ctx, &second))
	rules, err = store.GetActiveTaxonomyRules(ctx)
	require.NoError(t, err)
	assert.Len(t, rules, 3)

	// Callers get copies.
	rules[0].Pattern = "mutated"
	again, err := store.GetActiveTaxonomyRules(ctx)
	require.NoError(t, err)
	assert.Equal(t, "μπασκετ", again[0].Pattern)
}
