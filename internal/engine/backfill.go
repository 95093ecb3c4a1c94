package engine

import (
	"context"

	"github.com/Veraticus/taxonomist/internal/model"
	"github.com/Veraticus/taxonomist/internal/pattern"
	"github.com/Veraticus/taxonomist/internal/service"
)

// BackfillSubcategories fills the subcategory of videos that already have a
// category, when the best rule agrees with that category and is confident
// enough. It never changes category or status.
func (e *Engine) BackfillSubcategories(ctx context.Context, opts BackfillOptions) (*Report, error) {
	opts = opts.Normalized()

	report := e.newReport(ProcedureBackfill)
	report.Limit = opts.Limit
	report.Threshold = opts.Threshold
	report.Statuses = opts.Statuses
	report.DryRun = opts.DryRun

	return e.run(ctx, runPlan{
		report: report,
		write:  !opts.DryRun,
		filter: service.VideoFilter{
			Statuses:               opts.Statuses,
			Limit:                  opts.Limit,
			Order:                  service.OrderIDDesc,
			MissingSubcategoryOnly: true,
		},
		decide: func(video model.Video, scorer pattern.Scorer) RowResult {
			return DecideBackfill(video, scorer, opts)
		},
	})
}

// DecideBackfill computes the subcategory update for one video without
// touching storage.
func DecideBackfill(video model.Video, scorer pattern.Scorer, opts BackfillOptions) RowResult {
	if video.ID <= 0 || !video.HasCategory() || video.TitleRaw == "" {
		return skipped(video.ID, SkipInvalidInput, model.Match{})
	}
	if video.HasSubcategory() {
		return skipped(video.ID, SkipAlreadyClassified, model.Match{})
	}

	match := scorer.Score(pattern.NormalizeTitle(video.TitleRaw))
	switch {
	case !match.Found():
		return skipped(video.ID, SkipNoMatch, match)
	case match.SubcategoryID <= 0:
		return skipped(video.ID, SkipNoSubcategory, match)
	case match.CategoryID != video.CategoryID:
		return skipped(video.ID, SkipCategoryMismatch, match)
	case match.Confidence < opts.Threshold:
		return skipped(video.ID, SkipBelowThreshold, match)
	}

	subcategoryID := match.SubcategoryID
	update := model.VideoUpdate{SubcategoryID: &subcategoryID}
	if match.Confidence > video.Confidence {
		confidence := match.Confidence
		update.Confidence = &confidence
	}

	return RowResult{
		VideoID: video.ID,
		Outcome: OutcomeUpdated,
		Match:   match,
		Update:  update,
	}
}
