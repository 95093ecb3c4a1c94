package model

import "time"

// Channel is an MRSS feed that videos are harvested from.
type Channel struct {
	CreatedAt time.Time `json:"created_at"`
	Name      string    `json:"name"`
	SourceURL string    `json:"source_url"`
	ID        int64     `json:"id"`
	IsActive  bool      `json:"is_active"`
}
