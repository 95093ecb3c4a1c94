// Package model defines the core data structures for the taxonomist application.
package model

import "time"

// VideoStatus indicates how a video's taxonomy was assigned.
type VideoStatus string

// Video status constants.
const (
	StatusNeedsReview VideoStatus = "needs_review"
	StatusManual      VideoStatus = "manual"
	StatusAuto        VideoStatus = "auto"
)

// AllStatuses lists every valid video status in display order.
var AllStatuses = []VideoStatus{StatusManual, StatusAuto, StatusNeedsReview}

// Valid reports whether s is a known status.
func (s VideoStatus) Valid() bool {
	switch s {
	case StatusNeedsReview, StatusManual, StatusAuto:
		return true
	}
	return false
}

// Video is a catalog entry harvested from a channel feed.
type Video struct {
	CreatedAt      time.Time   `json:"created_at"`
	TitleRaw       string      `json:"title_raw"`
	DescriptionRaw string      `json:"description_raw,omitempty"`
	MediaID        string      `json:"media_id,omitempty"`
	VideoURL       string      `json:"video_url,omitempty"`
	PageURL        string      `json:"page_url,omitempty"`
	Thumbnail      string      `json:"thumbnail,omitempty"`
	Status         VideoStatus `json:"status"`
	ID             int64       `json:"id"`
	ChannelID      int64       `json:"channel_id,omitempty"`
	CategoryID     int64       `json:"category_id"`
	SubcategoryID  int64       `json:"subcategory_id"`
	Duration       int         `json:"duration,omitempty"`
	Confidence     float64     `json:"confidence"`
}

// HasCategory reports whether a category is assigned. Zero means absent.
func (v Video) HasCategory() bool {
	return v.CategoryID > 0
}

// HasSubcategory reports whether a subcategory is assigned. Zero means absent.
func (v Video) HasSubcategory() bool {
	return v.SubcategoryID > 0
}

// WatchURL returns the preferred URL to watch the video, or "" when none is stored.
func (v Video) WatchURL() string {
	if v.PageURL != "" {
		return v.PageURL
	}
	return v.VideoURL
}

// VideoUpdate is a partial update applied to a single video row.
// Nil fields are left untouched.
type VideoUpdate struct {
	CategoryID    *int64       `json:"category_id,omitempty"`
	SubcategoryID *int64       `json:"subcategory_id,omitempty"`
	Confidence    *float64     `json:"confidence,omitempty"`
	Status        *VideoStatus `json:"status,omitempty"`
}

// IsEmpty reports whether the update would change nothing.
func (u VideoUpdate) IsEmpty() bool {
	return u.CategoryID == nil && u.SubcategoryID == nil && u.Confidence == nil && u.Status == nil
}

// WatchFields holds feed-sourced fields that are only filled when empty.
type WatchFields struct {
	VideoURL       string
	PageURL        string
	Thumbnail      string
	DescriptionRaw string
	Duration       int
}

// IsEmpty reports whether there is nothing to fill.
func (w WatchFields) IsEmpty() bool {
	return w.VideoURL == "" && w.PageURL == "" && w.Thumbnail == "" && w.DescriptionRaw == "" && w.Duration <= 0
}
