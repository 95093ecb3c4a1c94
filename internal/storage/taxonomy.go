package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/taxonomist/internal/common"
	"github.com/Veraticus/taxonomist/internal/model"
)

// CreateCategory creates a new top-level category.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, name string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	result, err := s.db.ExecContext(ctx, "INSERT INTO categories (name) VALUES (?)", name)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("category %q: %w", name, common.ErrDuplicateEntry)
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get category ID: %w", err)
	}

	return &model.Category{ID: id, Name: name, CreatedAt: time.Now()}, nil
}

// GetCategories returns all categories ordered by id.
func (s *SQLiteStorage) GetCategories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, "SELECT id, name, created_at FROM categories ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []model.Category
	for rows.Next() {
		var cat model.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	slog.Debug("retrieved categories", "count", len(categories))
	return categories, nil
}

// GetCategoryByName returns a category by its name.
func (s *SQLiteStorage) GetCategoryByName(ctx context.Context, name string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	var cat model.Category
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM categories WHERE name = ?", strings.TrimSpace(name),
	).Scan(&cat.ID, &cat.Name, &cat.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("category %q: %w", name, common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &cat, nil
}

// CreateSubcategory creates a subcategory under categoryID.
func (s *SQLiteStorage) CreateSubcategory(ctx context.Context, categoryID int64, name string) (*model.Subcategory, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(categoryID, "category_id"); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	var count int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM categories WHERE id = ?", categoryID).Scan(&count); err != nil {
		return nil, fmt.Errorf("failed to verify category: %w", err)
	}
	if count == 0 {
		return nil, fmt.Errorf("category %d: %w", categoryID, common.ErrNotFound)
	}

	result, err := s.db.ExecContext(ctx,
		"INSERT INTO subcategories (category_id, name) VALUES (?, ?)", categoryID, name)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("subcategory %q: %w", name, common.ErrDuplicateEntry)
		}
		return nil, fmt.Errorf("failed to create subcategory: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get subcategory ID: %w", err)
	}

	return &model.Subcategory{ID: id, CategoryID: categoryID, Name: name, CreatedAt: time.Now()}, nil
}

// GetSubcategories returns the subcategories of a category, or all of them when
// categoryID is zero.
func (s *SQLiteStorage) GetSubcategories(ctx context.Context, categoryID int64) ([]model.Subcategory, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := "SELECT id, category_id, name, created_at FROM subcategories"
	var args []any
	if categoryID > 0 {
		query += " WHERE category_id = ?"
		args = append(args, categoryID)
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query subcategories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var subs []model.Subcategory
	for rows.Next() {
		var sub model.Subcategory
		if err := rows.Scan(&sub.ID, &sub.CategoryID, &sub.Name, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan subcategory: %w", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subcategories: %w", err)
	}
	return subs, nil
}

// GetSubcategoryByName returns the named subcategory of a category.
func (s *SQLiteStorage) GetSubcategoryByName(ctx context.Context, categoryID int64, name string) (*model.Subcategory, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var sub model.Subcategory
	err := s.db.QueryRowContext(ctx,
		"SELECT id, category_id, name, created_at FROM subcategories WHERE category_id = ? AND name = ?",
		categoryID, strings.TrimSpace(name),
	).Scan(&sub.ID, &sub.CategoryID, &sub.Name, &sub.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("subcategory %q: %w", name, common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get subcategory: %w", err)
	}
	return &sub, nil
}
