package engine

import (
	"time"

	"github.com/Veraticus/taxonomist/internal/model"
)

// Procedure names a batch procedure.
type Procedure string

// Procedures.
const (
	ProcedureClassify = Procedure("classify")
	ProcedureBackfill = Procedure("backfill_subcategories")
)

// Outcome is the bucket a row falls into during a run.
type Outcome string

// Outcomes. Every loaded row ends in exactly one of these.
const (
	OutcomeUpdated     Outcome = "updated"
	OutcomeUpdatedAuto Outcome = "updated_auto"
	OutcomeSkipped     Outcome = "skipped"
)

// SkipReason explains why a row was skipped.
type SkipReason string

// Skip reasons.
const (
	SkipNone              SkipReason = ""
	SkipInvalidInput      SkipReason = "invalid_input"
	SkipAlreadyClassified SkipReason = "already_classified"
	SkipNoMatch           SkipReason = "no_match"
	SkipNoSubcategory     SkipReason = "no_subcategory"
	SkipCategoryMismatch  SkipReason = "category_mismatch"
	SkipBelowThreshold    SkipReason = "below_threshold"
	SkipNothingToUpdate   SkipReason = "nothing_to_update"
)

// RowResult is the decision taken for one video.
type RowResult struct {
	Update  model.VideoUpdate `json:"update"`
	Outcome Outcome           `json:"outcome"`
	Reason  SkipReason        `json:"reason,omitempty"`
	Match   model.Match       `json:"match"`
	VideoID int64             `json:"video_id"`
}

func skipped(id int64, reason SkipReason, match model.Match) RowResult {
	return RowResult{VideoID: id, Outcome: OutcomeSkipped, Reason: reason, Match: match}
}

// Report summarizes a run. After a storage failure it holds the counts
// accumulated before the failure and Err holds the message.
type Report struct {
	StartedAt    time.Time           `json:"started_at"`
	SkipReasons  map[SkipReason]int  `json:"skip_reasons"`
	RunID        string              `json:"run_id"`
	Procedure    Procedure           `json:"procedure"`
	Err          string              `json:"error,omitempty"`
	Statuses     []model.VideoStatus `json:"statuses"`
	Duration     time.Duration       `json:"duration"`
	Threshold    float64             `json:"threshold"`
	Limit        int                 `json:"limit"`
	Loaded       int                 `json:"loaded"`
	Updated      int                 `json:"updated"`
	AutoApproved int                 `json:"auto_approved"`
	Skipped      int                 `json:"skipped"`
	Rules        int                 `json:"rules"`
	Overwrite    bool                `json:"overwrite,omitempty"`
	DryRun       bool                `json:"dry_run,omitempty"`
}

// TotalUpdated counts rows that were (or, in a dry run, would be) written.
func (r *Report) TotalUpdated() int {
	return r.Updated + r.AutoApproved
}

// Processed counts rows that reached a bucket.
func (r *Report) Processed() int {
	return r.Updated + r.AutoApproved + r.Skipped
}

// Failed reports whether the run aborted.
func (r *Report) Failed() bool {
	return r.Err != ""
}

func (r *Report) record(res RowResult) {
	switch res.Outcome {
	case OutcomeUpdated:
		r.Updated++
	case OutcomeUpdatedAuto:
		r.AutoApproved++
	default:
		r.Skipped++
		r.SkipReasons[res.Reason]++
	}
}
