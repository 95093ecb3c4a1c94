package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/taxonomist/internal/common"
	"github.com/Veraticus/taxonomist/internal/model"
)

const ruleColumns = `id, pattern, category_id, COALESCE(subcategory_id, 0), weight, is_active, created_at`

func scanRule(row rowScanner) (model.TaxonomyRule, error) {
	var r model.TaxonomyRule
	err := row.Scan(&r.ID, &r.Pattern, &r.CategoryID, &r.SubcategoryID, &r.Weight, &r.IsActive, &r.CreatedAt)
	return r, err
}

// CreateTaxonomyRule creates a new taxonomy rule.
func (s *SQLiteStorage) CreateTaxonomyRule(ctx context.Context, rule *model.TaxonomyRule) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTaxonomyRule(rule); err != nil {
		return err
	}
	if err := s.verifyRuleTarget(ctx, rule); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO taxonomy_rules (pattern, category_id, subcategory_id, weight, is_active)
		VALUES (?, ?, ?, ?, ?)`,
		rule.Pattern, rule.CategoryID, nullInt(rule.SubcategoryID), rule.Weight, rule.IsActive,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("rule %q: %w", rule.Pattern, common.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to create taxonomy rule: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get taxonomy rule ID: %w", err)
	}

	rule.ID = id
	rule.CreatedAt = time.Now()
	s.invalidateRuleCache()

	return nil
}

// GetTaxonomyRule retrieves a taxonomy rule by ID.
func (s *SQLiteStorage) GetTaxonomyRule(ctx context.Context, id int64) (*model.TaxonomyRule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rule, err := scanRule(s.db.QueryRowContext(ctx,
		"SELECT "+ruleColumns+" FROM taxonomy_rules WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("taxonomy rule %d: %w", id, common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get taxonomy rule: %w", err)
	}
	return &rule, nil
}

// GetActiveTaxonomyRules retrieves all active rules ordered by id. Results are
// served from the rule cache while it is fresh.
func (s *SQLiteStorage) GetActiveTaxonomyRules(ctx context.Context) ([]model.TaxonomyRule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	s.cacheMutex.RLock()
	if s.ruleCacheTTL > 0 && s.ruleCache != nil && time.Now().Before(s.ruleCacheExpiry) {
		rules := make([]model.TaxonomyRule, len(s.ruleCache))
		copy(rules, s.ruleCache)
		s.cacheMutex.RUnlock()
		return rules, nil
	}
	s.cacheMutex.RUnlock()

	rules, err := s.queryRules(ctx, "WHERE is_active = 1")
	if err != nil {
		return nil, fmt.Errorf("failed to get active taxonomy rules: %w", err)
	}

	s.cacheMutex.Lock()
	if s.ruleCacheTTL > 0 {
		s.ruleCache = make([]model.TaxonomyRule, len(rules))
		copy(s.ruleCache, rules)
		s.ruleCacheExpiry = time.Now().Add(s.ruleCacheTTL)
	}
	s.cacheMutex.Unlock()

	return rules, nil
}

// GetAllTaxonomyRules retrieves every rule, active or not.
func (s *SQLiteStorage) GetAllTaxonomyRules(ctx context.Context) ([]model.TaxonomyRule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	rules, err := s.queryRules(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to get taxonomy rules: %w", err)
	}
	return rules, nil
}

func (s *SQLiteStorage) queryRules(ctx context.Context, where string) ([]model.TaxonomyRule, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+ruleColumns+" FROM taxonomy_rules "+where+" ORDER BY id ASC")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var rules []model.TaxonomyRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan taxonomy rule: %w", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating taxonomy rules: %w", err)
	}
	return rules, nil
}

// UpdateTaxonomyRule updates an existing taxonomy rule.
func (s *SQLiteStorage) UpdateTaxonomyRule(ctx context.Context, rule *model.TaxonomyRule) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTaxonomyRule(rule); err != nil {
		return err
	}
	if err := s.verifyRuleTarget(ctx, rule); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE taxonomy_rules SET
			pattern = ?, category_id = ?, subcategory_id = ?, weight = ?, is_active = ?
		WHERE id = ?`,
		rule.Pattern, rule.CategoryID, nullInt(rule.SubcategoryID), rule.Weight, rule.IsActive, rule.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update taxonomy rule: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("taxonomy rule %d: %w", rule.ID, common.ErrNotFound)
	}

	s.invalidateRuleCache()
	return nil
}

// DeleteTaxonomyRule deletes a taxonomy rule.
func (s *SQLiteStorage) DeleteTaxonomyRule(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, "DELETE FROM taxonomy_rules WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete taxonomy rule: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("taxonomy rule %d: %w", id, common.ErrNotFound)
	}

	s.invalidateRuleCache()
	return nil
}

// verifyRuleTarget checks that the category exists and that the subcategory,
// when set, belongs to it.
func (s *SQLiteStorage) verifyRuleTarget(ctx context.Context, rule *model.TaxonomyRule) error {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM categories WHERE id = ?", rule.CategoryID).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to verify category: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("%w: category %d does not exist", ErrInvalidRule, rule.CategoryID)
	}

	if rule.SubcategoryID <= 0 {
		return nil
	}
	err = s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM subcategories WHERE id = ? AND category_id = ?",
		rule.SubcategoryID, rule.CategoryID).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to verify subcategory: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("%w: subcategory %d does not belong to category %d",
			ErrInvalidRule, rule.SubcategoryID, rule.CategoryID)
	}
	return nil
}

func (s *SQLiteStorage) invalidateRuleCache() {
	s.cacheMutex.Lock()
	s.ruleCache = nil
	s.ruleCacheExpiry = time.Time{}
	s.cacheMutex.Unlock()
}
