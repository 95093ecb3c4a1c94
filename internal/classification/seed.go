// Package classification provides the starter taxonomy and seeds it into storage.
package classification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/taxonomist/internal/common"
	"github.com/Veraticus/taxonomist/internal/model"
)

// SeedRule is a pattern and its weight.
type SeedRule struct {
	Pattern string
	Weight  float64
}

// SeedSubcategory is a subcategory with the rules that target it.
type SeedSubcategory struct {
	Name  string
	Rules []SeedRule
}

// SeedCategory is a category, its category-only rules and its subcategories.
type SeedCategory struct {
	Name          string
	Rules         []SeedRule
	Subcategories []SeedSubcategory
}

// TaxonomyStore is the storage needed for seeding.
type TaxonomyStore interface {
	CreateCategory(ctx context.Context, name string) (*model.Category, error)
	GetCategoryByName(ctx context.Context, name string) (*model.Category, error)
	CreateSubcategory(ctx context.Context, categoryID int64, name string) (*model.Subcategory, error)
	GetSubcategoryByName(ctx context.Context, categoryID int64, name string) (*model.Subcategory, error)
	CreateTaxonomyRule(ctx context.Context, rule *model.TaxonomyRule) error
}

// SeedResult counts what a seed run created.
type SeedResult struct {
	Categories    int
	Subcategories int
	Rules         int
	// Existing counts entries that were already present.
	Existing int
}

// Seed creates the taxonomy in store. Existing categories, subcategories and
// rules are reused, so seeding twice is harmless.
func Seed(ctx context.Context, store TaxonomyStore, taxonomy []SeedCategory) (SeedResult, error) {
	var result SeedResult

	for _, sc := range taxonomy {
		cat, created, err := ensureCategory(ctx, store, sc.Name)
		if err != nil {
			return result, err
		}
		result.count(created, &result.Categories)

		if err := seedRules(ctx, store, cat.ID, 0, sc.Rules, &result); err != nil {
			return result, err
		}

		for _, ss := range sc.Subcategories {
			sub, created, err := ensureSubcategory(ctx, store, cat.ID, ss.Name)
			if err != nil {
				return result, err
			}
			result.count(created, &result.Subcategories)

			if err := seedRules(ctx, store, cat.ID, sub.ID, ss.Rules, &result); err != nil {
				return result, err
			}
		}
	}

	slog.Info("Seeded taxonomy",
		"categories", result.Categories,
		"subcategories", result.Subcategories,
		"rules", result.Rules,
		"existing", result.Existing)
	return result, nil
}

func (r *SeedResult) count(created bool, n *int) {
	if created {
		*n++
		return
	}
	r.Existing++
}

func ensureCategory(ctx context.Context, store TaxonomyStore, name string) (*model.Category, bool, error) {
	cat, err := store.CreateCategory(ctx, name)
	if err == nil {
		return cat, true, nil
	}
	if !errors.Is(err, common.ErrDuplicateEntry) {
		return nil, false, fmt.Errorf("failed to create category %q: %w", name, err)
	}
	cat, err = store.GetCategoryByName(ctx, name)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load category %q: %w", name, err)
	}
	return cat, false, nil
}

func ensureSubcategory(ctx context.Context, store TaxonomyStore, categoryID int64, name string) (*model.Subcategory, bool, error) {
	sub, err := store.CreateSubcategory(ctx, categoryID, name)
	if err == nil {
		return sub, true, nil
	}
	if !errors.Is(err, common.ErrDuplicateEntry) {
		return nil, false, fmt.Errorf("failed to create subcategory %q: %w", name, err)
	}
	sub, err = store.GetSubcategoryByName(ctx, categoryID, name)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load subcategory %q: %w", name, err)
	}
	return sub, false, nil
}

func seedRules(ctx context.Context, store TaxonomyStore, categoryID, subcategoryID int64, rules []SeedRule, result *SeedResult) error {
	for _, sr := range rules {
		rule := &model.TaxonomyRule{
			Pattern:       sr.Pattern,
			CategoryID:    categoryID,
			SubcategoryID: subcategoryID,
			Weight:        sr.Weight,
			IsActive:      true,
		}
		err := store.CreateTaxonomyRule(ctx, rule)
		switch {
		case err == nil:
			result.Rules++
		case errors.Is(err, common.ErrDuplicateEntry):
			result.Existing++
		default:
			return fmt.Errorf("failed to create rule %q: %w", sr.Pattern, err)
		}
	}
	return nil
}
