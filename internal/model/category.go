package model

import "time"

// Category is a top-level node of the video taxonomy.
type Category struct {
	CreatedAt time.Time `json:"created_at"`
	Name      string    `json:"name"`
	ID        int64     `json:"id"`
}

// Subcategory is a leaf of the video taxonomy and belongs to exactly one category.
type Subcategory struct {
	CreatedAt  time.Time `json:"created_at"`
	Name       string    `json:"name"`
	ID         int64     `json:"id"`
	CategoryID int64     `json:"category_id"`
}
