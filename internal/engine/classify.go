package engine

import (
	"context"

	"github.com/Veraticus/taxonomist/internal/model"
	"github.com/Veraticus/taxonomist/internal/pattern"
	"github.com/Veraticus/taxonomist/internal/service"
)

// Classify assigns categories and subcategories to the most recent videos in
// the configured statuses, and auto-approves confident, complete results.
func (e *Engine) Classify(ctx context.Context, opts ClassifyOptions) (*Report, error) {
	opts = opts.Normalized()

	report := e.newReport(ProcedureClassify)
	report.Limit = opts.Limit
	report.Threshold = opts.Threshold
	report.Statuses = opts.Statuses
	report.Overwrite = opts.Overwrite

	return e.run(ctx, runPlan{
		report: report,
		write:  true,
		filter: service.VideoFilter{
			Statuses: opts.Statuses,
			Limit:    opts.Limit,
			Order:    service.OrderIDDesc,
		},
		decide: func(video model.Video, scorer pattern.Scorer) RowResult {
			return DecideClassification(video, scorer, opts)
		},
	})
}

// DecideClassification computes the update for one video without touching storage.
//
// Category and subcategory are each written only when absent unless Overwrite
// is set. Confidence never decreases. Status moves to auto only when the row
// ends up with a subcategory and the new confidence reaches the threshold;
// manually curated rows keep their status.
func DecideClassification(video model.Video, scorer pattern.Scorer, opts ClassifyOptions) RowResult {
	if video.ID <= 0 || video.TitleRaw == "" {
		return skipped(video.ID, SkipInvalidInput, model.Match{})
	}

	hasCat := video.HasCategory()
	hasSub := video.HasSubcategory()
	if hasCat && hasSub && !opts.Overwrite {
		return skipped(video.ID, SkipAlreadyClassified, model.Match{})
	}

	match := scorer.Score(pattern.NormalizeTitle(video.TitleRaw))
	if !match.Found() {
		return skipped(video.ID, SkipNoMatch, match)
	}

	var update model.VideoUpdate
	if opts.Overwrite || !hasCat {
		categoryID := match.CategoryID
		update.CategoryID = &categoryID
	}

	setSub := match.SubcategoryID > 0 && (opts.Overwrite || !hasSub)
	if setSub {
		subcategoryID := match.SubcategoryID
		update.SubcategoryID = &subcategoryID
	}

	confidence := max(video.Confidence, match.Confidence)
	if confidence != video.Confidence {
		update.Confidence = &confidence
	}

	outcome := OutcomeUpdated
	if (hasSub || setSub) && match.Confidence >= opts.Threshold && video.Status != model.StatusManual {
		if video.Status != model.StatusAuto {
			status := model.StatusAuto
			update.Status = &status
		}
		outcome = OutcomeUpdatedAuto
	}

	if update.IsEmpty() {
		return skipped(video.ID, SkipNothingToUpdate, match)
	}

	return RowResult{
		VideoID: video.ID,
		Outcome: outcome,
		Match:   match,
		Update:  update,
	}
}
