package engine

import (
	"math"

	"github.com/Veraticus/taxonomist/internal/model"
)

// MaxLimit caps the number of rows a single run loads.
const MaxLimit = 20000

// Defaults for the two procedures.
const (
	DefaultClassifyLimit     = 500
	DefaultClassifyThreshold = 0.85
	DefaultBackfillLimit     = 2000
	DefaultBackfillThreshold = 0.75
)

// DefaultClassifyStatuses are the statuses a classification run loads by default.
var DefaultClassifyStatuses = []model.VideoStatus{model.StatusNeedsReview}

// DefaultBackfillStatuses are the statuses a backfill run loads by default.
var DefaultBackfillStatuses = []model.VideoStatus{model.StatusManual, model.StatusAuto, model.StatusNeedsReview}

// ClassifyOptions configures a classification run.
type ClassifyOptions struct {
	Statuses  []model.VideoStatus
	Limit     int
	Threshold float64
	// Overwrite allows replacing a category or subcategory that is already set.
	Overwrite bool
}

// DefaultClassifyOptions returns the options used when nothing is configured.
func DefaultClassifyOptions() ClassifyOptions {
	return ClassifyOptions{
		Statuses:  append([]model.VideoStatus(nil), DefaultClassifyStatuses...),
		Limit:     DefaultClassifyLimit,
		Threshold: DefaultClassifyThreshold,
	}
}

// Normalized returns a copy with the limit and threshold clamped and the status
// list defaulted and de-duplicated.
func (o ClassifyOptions) Normalized() ClassifyOptions {
	o.Limit = ClampLimit(o.Limit)
	o.Threshold = ClampThreshold(o.Threshold)
	o.Statuses = normalizeStatuses(o.Statuses, DefaultClassifyStatuses)
	return o
}

// BackfillOptions configures a subcategory backfill run.
type BackfillOptions struct {
	Statuses  []model.VideoStatus
	Limit     int
	Threshold float64
	// DryRun computes and counts eligible updates without writing them.
	DryRun bool
}

// DefaultBackfillOptions returns the options used when nothing is configured.
func DefaultBackfillOptions() BackfillOptions {
	return BackfillOptions{
		Statuses:  append([]model.VideoStatus(nil), DefaultBackfillStatuses...),
		Limit:     DefaultBackfillLimit,
		Threshold: DefaultBackfillThreshold,
	}
}

// Normalized returns a copy with the limit and threshold clamped and the status
// list defaulted and de-duplicated.
func (o BackfillOptions) Normalized() BackfillOptions {
	o.Limit = ClampLimit(o.Limit)
	o.Threshold = ClampThreshold(o.Threshold)
	o.Statuses = normalizeStatuses(o.Statuses, DefaultBackfillStatuses)
	return o
}

// ClampLimit forces a limit into 1..MaxLimit.
func ClampLimit(limit int) int {
	switch {
	case limit < 1:
		return 1
	case limit > MaxLimit:
		return MaxLimit
	}
	return limit
}

// ClampThreshold forces a threshold into 0..1. NaN becomes 1 so that nothing
// is auto-approved by accident.
func ClampThreshold(threshold float64) float64 {
	switch {
	case math.IsNaN(threshold):
		return 1
	case threshold < 0:
		return 0
	case threshold > 1:
		return 1
	}
	return threshold
}

func normalizeStatuses(statuses, fallback []model.VideoStatus) []model.VideoStatus {
	seen := make(map[model.VideoStatus]bool, len(statuses))
	out := make([]model.VideoStatus, 0, len(statuses))
	for _, st := range statuses {
		if !st.Valid() || seen[st] {
			continue
		}
		seen[st] = true
		out = append(out, st)
	}
	if len(out) == 0 {
		return append([]model.VideoStatus(nil), fallback...)
	}
	return out
}
