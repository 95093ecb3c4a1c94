// Package testutil provides test utilities for the taxonomist project.
// It opens isolated in-memory catalogs and seeds them with taxonomy fixtures.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/taxonomist/internal/model"
	"github.com/Veraticus/taxonomist/internal/storage"
)

// TestDB represents a test database with associated test utilities.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates a new in-memory test database.
// It automatically handles migrations and cleanup.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{Storage: store, t: t}
}

// MustCategory creates a category and returns its ID.
func (db *TestDB) MustCategory(name string) int64 {
	db.t.Helper()
	cat, err := db.Storage.CreateCategory(context.Background(), name)
	if err != nil {
		db.t.Fatalf("failed to seed category %q: %v", name, err)
	}
	return cat.ID
}

// MustSubcategory creates a subcategory and returns its ID.
func (db *TestDB) MustSubcategory(categoryID int64, name string) int64 {
	db.t.Helper()
	sub, err := db.Storage.CreateSubcategory(context.Background(), categoryID, name)
	if err != nil {
		db.t.Fatalf("failed to seed subcategory %q: %v", name, err)
	}
	return sub.ID
}

// MustRule creates an active taxonomy rule and returns it.
func (db *TestDB) MustRule(pattern string, categoryID, subcategoryID int64, weight float64) model.TaxonomyRule {
	db.t.Helper()
	rule := model.TaxonomyRule{
		Pattern:       pattern,
		CategoryID:    categoryID,
		SubcategoryID: subcategoryID,
		Weight:        weight,
		IsActive:      true,
	}
	if err := db.Storage.CreateTaxonomyRule(context.Background(), &rule); err != nil {
		db.t.Fatalf("failed to seed rule %q: %v", pattern, err)
	}
	return rule
}

// MustVideo inserts a video and returns its ID.
func (db *TestDB) MustVideo(video model.Video) int64 {
	db.t.Helper()
	if err := db.Storage.CreateVideo(context.Background(), &video); err != nil {
		db.t.Fatalf("failed to seed video %q: %v", video.TitleRaw, err)
	}
	return video.ID
}

// MustGetVideo reads a video back or fails the test.
func (db *TestDB) MustGetVideo(id int64) model.Video {
	db.t.Helper()
	v, err := db.Storage.GetVideo(context.Background(), id)
	if err != nil {
		db.t.Fatalf("failed to get video %d: %v", id, err)
	}
	return *v
}

// MustChannel registers an active channel and returns its ID.
func (db *TestDB) MustChannel(name, sourceURL string) int64 {
	db.t.Helper()
	ch := model.Channel{Name: name, SourceURL: sourceURL, IsActive: true}
	if err := db.Storage.CreateChannel(context.Background(), &ch); err != nil {
		db.t.Fatalf("failed to seed channel %q: %v", name, err)
	}
	return ch.ID
}
