// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/Veraticus/taxonomist/internal/model"
)

// Ordering constants for video queries.
const (
	OrderIDDesc = "id_desc"
	OrderIDAsc  = "id_asc"
)

// VideoFilter narrows a video query.
type VideoFilter struct {
	Order    string
	Statuses []model.VideoStatus
	Limit    int
	// MissingSubcategoryOnly restricts results to rows that have a category
	// but no subcategory.
	MissingSubcategoryOnly bool
}

// VideoStore is the narrow read/update contract the batch procedures depend on.
type VideoStore interface {
	ListVideos(ctx context.Context, filter VideoFilter) ([]model.Video, error)
	UpdateVideo(ctx context.Context, id int64, update model.VideoUpdate) error
}

// RuleSource provides the current taxonomy rules.
type RuleSource interface {
	GetActiveTaxonomyRules(ctx context.Context) ([]model.TaxonomyRule, error)
}

// CatalogStore is what classification and backfill runs need.
type CatalogStore interface {
	VideoStore
	RuleSource
}

// VideoLookup fetches single videos, used by the watch redirect.
type VideoLookup interface {
	GetVideo(ctx context.Context, id int64) (*model.Video, error)
}

// IngestStore is what feed ingestion needs.
type IngestStore interface {
	GetActiveChannels(ctx context.Context) ([]model.Channel, error)
	// UpsertFeedVideo inserts a new video for (channel, media id) or fills empty
	// watch fields on an existing one. It reports whether a row was inserted
	// and the number of rows changed.
	UpsertFeedVideo(ctx context.Context, video *model.Video) (inserted bool, changed int64, err error)
}

// Storage is the full persistence layer.
type Storage interface {
	CatalogStore
	VideoLookup
	IngestStore

	// Video operations
	CreateVideo(ctx context.Context, video *model.Video) error
	CountVideosByStatus(ctx context.Context) (map[model.VideoStatus]int, error)

	// Taxonomy rule operations
	CreateTaxonomyRule(ctx context.Context, rule *model.TaxonomyRule) error
	GetTaxonomyRule(ctx context.Context, id int64) (*model.TaxonomyRule, error)
	GetAllTaxonomyRules(ctx context.Context) ([]model.TaxonomyRule, error)
	UpdateTaxonomyRule(ctx context.Context, rule *model.TaxonomyRule) error
	DeleteTaxonomyRule(ctx context.Context, id int64) error

	// Taxonomy operations
	CreateCategory(ctx context.Context, name string) (*model.Category, error)
	GetCategories(ctx context.Context) ([]model.Category, error)
	CreateSubcategory(ctx context.Context, categoryID int64, name string) (*model.Subcategory, error)
	GetSubcategories(ctx context.Context, categoryID int64) ([]model.Subcategory, error)

	// Channel operations
	CreateChannel(ctx context.Context, channel *model.Channel) error
	GetChannels(ctx context.Context) ([]model.Channel, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}
