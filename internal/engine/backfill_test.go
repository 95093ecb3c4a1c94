package engine

import (
	"context"
	"testing"

	"github.com/Veraticus/taxonomist/internal/common"
	"github.com/Veraticus/taxonomist/internal/model"
	"github.com/Veraticus/taxonomist/internal/pattern"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecideBackfill(t *testing.T) {
	matcher := pattern.NewMatcher(drivingRules)
	opts := BackfillOptions{Threshold: 0.75}

	tests := []struct {
		name        string
		video       model.Video
		opts        BackfillOptions
		wantOutcome Outcome
		wantReason  SkipReason
		wantSub     *int64
		wantConf    *float64
	}{
		{
			name:        "missing category",
			video:       model.Video{ID: 1, TitleRaw: "Μάθημα οδήγησης"},
			opts:        opts,
			wantOutcome: OutcomeSkipped,
			wantReason:  SkipInvalidInput,
		},
		{
			name:        "empty title",
			video:       model.Video{ID: 1, CategoryID: 5},
			opts:        opts,
			wantOutcome: OutcomeSkipped,
			wantReason:  SkipInvalidInput,
		},
		{
			name:        "already has subcategory",
			video:       model.Video{ID: 1, TitleRaw: "Μάθημα οδήγησης", CategoryID: 5, SubcategoryID: 3},
			opts:        opts,
			wantOutcome: OutcomeSkipped,
			wantReason:  SkipAlreadyClassified,
		},
		{
			name:        "no match",
			video:       model.Video{ID: 1, TitleRaw: "Ταξίδια", CategoryID: 5},
			opts:        opts,
			wantOutcome: OutcomeSkipped,
			wantReason:  SkipNoMatch,
		},
		{
			name:        "category only match",
			video:       model.Video{ID: 1, TitleRaw: "Οδήγηση", CategoryID: 5},
			opts:        BackfillOptions{Threshold: 0.1},
			wantOutcome: OutcomeSkipped,
			wantReason:  SkipNoSubcategory,
		},
		{
			name:        "cross category match rejected",
			video:       model.Video{ID: 1, TitleRaw: "Μαγειρική", CategoryID: 5},
			opts:        opts,
			wantOutcome: OutcomeSkipped,
			wantReason:  SkipCategoryMismatch,
		},
		{
			name:        "below threshold",
			video:       model.Video{ID: 1, TitleRaw: "Μάθημα οδήγησης", CategoryID: 5},
			opts:        BackfillOptions{Threshold: 0.95},
			wantOutcome: OutcomeSkipped,
			wantReason:  SkipBelowThreshold,
		},
		{
			name:        "fills subcategory and raises confidence",
			video:       model.Video{ID: 1, TitleRaw: "Μάθημα οδήγησης", CategoryID: 5, Confidence: 0.4},
			opts:        opts,
			wantOutcome: OutcomeUpdated,
			wantSub:     ptr(int64(12)),
			wantConf:    ptr(0.9),
		},
		{
			name:        "keeps higher confidence",
			video:       model.Video{ID: 1, TitleRaw: "Μάθημα οδήγησης", CategoryID: 5, Confidence: 0.97},
			opts:        opts,
			wantOutcome: OutcomeUpdated,
			wantSub:     ptr(int64(12)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := DecideBackfill(tt.video, matcher, tt.opts)
			assert.Equal(t, tt.wantOutcome, res.Outcome)
			assert.Equal(t, tt.wantReason, res.Reason)
			assert.Equal(t, tt.wantSub, res.Update.SubcategoryID)
			assert.Nil(t, res.Update.CategoryID)
			assert.Nil(t, res.Update.Status)
			if tt.wantConf == nil {
				assert.Nil(t, res.Update.Confidence)
			} else {
				require.NotNil(t, res.Update.Confidence)
				assert.InDelta(t, *tt.wantConf, *res.Update.Confidence, 1e-9)
			}
		})
	}
}

func backfillVideos() []model.Video {
	return []model.Video{
		{ID: 1, TitleRaw: "Μάθημα Οδήγησης", CategoryID: 5, Status: model.StatusManual},
		{ID: 2, TitleRaw: "Μαγειρική", CategoryID: 5, Status: model.StatusNeedsReview},
		{ID: 3, TitleRaw: "Μαγειρική", CategoryID: 7, Status: model.StatusAuto, Confidence: 0.95},
		{ID: 4, TitleRaw: "Μάθημα Οδήγησης", CategoryID: 5, SubcategoryID: 13, Status: model.StatusManual},
		{ID: 5, TitleRaw: "Μάθημα Οδήγησης", Status: model.StatusNeedsReview},
	}
}

func TestBackfillSubcategories(t *testing.T) {
	store := newFakeStore(drivingRules, backfillVideos()...)

	report, err := New(store).BackfillSubcategories(context.Background(), DefaultBackfillOptions())
	require.NoError(t, err)

	// Videos 4 and 5 are filtered out by the query.
	assert.Equal(t, 3, report.Loaded)
	assert.Equal(t, 2, report.Updated)
	assert.Equal(t, 0, report.AutoApproved)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 1, report.SkipReasons[SkipCategoryMismatch])
	assert.True(t, store.lastFilter.MissingSubcategoryOnly)
	assert.Equal(t, ProcedureBackfill, report.Procedure)

	got := store.video(1)
	assert.Equal(t, int64(12), got.SubcategoryID)
	assert.InDelta(t, 0.9, got.Confidence, 1e-9)
	assert.Equal(t, model.StatusManual, got.Status)

	got = store.video(2)
	assert.Zero(t, got.SubcategoryID)
	assert.Equal(t, int64(5), got.CategoryID)

	got = store.video(3)
	assert.Equal(t, int64(20), got.SubcategoryID)
	assert.InDelta(t, 0.95, got.Confidence, 1e-9)
	assert.Equal(t, model.StatusAuto, got.Status)

	assert.Equal(t, int64(13), store.video(4).SubcategoryID)
	assert.Zero(t, store.video(5).SubcategoryID)
}

func TestBackfillDryRunMatchesRealRun(t *testing.T) {
	dryStore := newFakeStore(drivingRules, backfillVideos()...)
	opts := DefaultBackfillOptions()
	opts.DryRun = true

	dry, err := New(dryStore).BackfillSubcategories(context.Background(), opts)
	require.NoError(t, err)
	assert.Zero(t, dryStore.writes)
	assert.True(t, dry.DryRun)
	for _, v := range backfillVideos() {
		assert.Equal(t, v, dryStore.video(v.ID))
	}

	realStore := newFakeStore(drivingRules, backfillVideos()...)
	live, err := New(realStore).BackfillSubcategories(context.Background(), DefaultBackfillOptions())
	require.NoError(t, err)

	assert.Equal(t, live.Loaded, dry.Loaded)
	assert.Equal(t, live.Updated, dry.Updated)
	assert.Equal(t, live.Skipped, dry.Skipped)
	assert.Equal(t, live.SkipReasons, dry.SkipReasons)
	assert.Equal(t, live.Updated, realStore.writes)
}

func TestBackfillUpdateFailure(t *testing.T) {
	store := newFakeStore(drivingRules, backfillVideos()...)
	store.updateErr = errBoom
	store.failAfter = 0

	report, err := New(store).BackfillSubcategories(context.Background(), DefaultBackfillOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrStorage)
	assert.True(t, report.Failed())
	assert.Zero(t, report.Updated)

	// A dry run never writes, so the broken store does not matter.
	opts := DefaultBackfillOptions()
	opts.DryRun = true
	report, err = New(store).BackfillSubcategories(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Updated)
}
