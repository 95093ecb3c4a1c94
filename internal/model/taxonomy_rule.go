package model

import (
	"time"
)

// TaxonomyRule maps a keyword or phrase found in a video title to a category and,
// optionally, a subcategory.
type TaxonomyRule struct {
	CreatedAt     time.Time `json:"created_at"`
	Pattern       string    `json:"pattern"`
	ID            int64     `json:"id"`
	CategoryID    int64     `json:"category_id"`
	SubcategoryID int64     `json:"subcategory_id,omitempty"`
	Weight        float64   `json:"weight"`
	IsActive      bool      `json:"is_active"`
}

// IsCategoryOnly reports whether the rule assigns no subcategory.
func (r TaxonomyRule) IsCategoryOnly() bool {
	return r.SubcategoryID <= 0
}

// Match is the outcome of scoring a title against a rule set.
// The zero value means no rule matched.
type Match struct {
	RuleID        int64   `json:"rule_id,omitempty"`
	CategoryID    int64   `json:"category_id"`
	SubcategoryID int64   `json:"subcategory_id"`
	Confidence    float64 `json:"confidence"`
}

// Found reports whether the match names a category.
func (m Match) Found() bool {
	return m.CategoryID > 0
}
