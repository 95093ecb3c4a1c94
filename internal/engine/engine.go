// Package engine runs the batch classification and subcategory backfill procedures.
package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/Veraticus/taxonomist/internal/common"
	"github.com/Veraticus/taxonomist/internal/model"
	"github.com/Veraticus/taxonomist/internal/pattern"
	"github.com/Veraticus/taxonomist/internal/service"
	"github.com/google/uuid"
)

// Engine applies taxonomy rules to stored videos.
type Engine struct {
	store     service.CatalogStore
	now       func() time.Time
	newRunID  func() string
	observers observers
}

// Option configures an Engine.
type Option func(*Engine)

// WithObserver registers an observer for run progress.
func WithObserver(obs Observer) Option {
	return func(e *Engine) {
		if obs != nil {
			e.observers = append(e.observers, obs)
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// New creates an engine over the given store.
func New(store service.CatalogStore, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		now:      time.Now,
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// decideFunc turns one loaded video into a row decision.
type decideFunc func(video model.Video, scorer pattern.Scorer) RowResult

// runPlan is the procedure-specific part of a batch run.
type runPlan struct {
	decide decideFunc
	filter service.VideoFilter
	report *Report
	// write is false for dry runs.
	write bool
}

// run loads rules and videos, decides each row, and applies updates in order.
// A storage failure stops the run; the partial report is returned with the error.
func (e *Engine) run(ctx context.Context, plan runPlan) (*Report, error) {
	report := plan.report
	procedure := report.Procedure

	slog.Info("Starting batch run",
		"procedure", procedure,
		"run_id", report.RunID,
		"limit", report.Limit,
		"threshold", report.Threshold,
		"statuses", report.Statuses,
		"dry_run", report.DryRun)

	rules, err := e.store.GetActiveTaxonomyRules(ctx)
	if err != nil {
		return e.fail(report, common.StorageError("load taxonomy rules", err))
	}
	matcher := pattern.NewMatcher(rules)
	report.Rules = matcher.Len()

	videos, err := e.store.ListVideos(ctx, plan.filter)
	if err != nil {
		return e.fail(report, common.StorageError("load videos", err))
	}
	report.Loaded = len(videos)
	e.observers.RunStarted(procedure, report.Loaded)

	for _, video := range videos {
		res := plan.decide(video, matcher)
		if res.Outcome != OutcomeSkipped && plan.write {
			if err := e.store.UpdateVideo(ctx, video.ID, res.Update); err != nil {
				return e.fail(report, common.StorageError("update video", err))
			}
		}
		if res.Outcome == OutcomeSkipped {
			slog.Debug("Skipped video",
				"procedure", procedure,
				"video_id", video.ID,
				"reason", res.Reason)
		}
		report.record(res)
		e.observers.RowProcessed(procedure, res)
	}

	report.Duration = e.now().Sub(report.StartedAt)
	slog.Info("Batch run complete",
		"procedure", procedure,
		"run_id", report.RunID,
		"loaded", report.Loaded,
		"updated", report.Updated,
		"auto_approved", report.AutoApproved,
		"skipped", report.Skipped,
		"duration", report.Duration)
	e.observers.RunFinished(report)
	return report, nil
}

func (e *Engine) fail(report *Report, err error) (*Report, error) {
	report.Err = err.Error()
	report.Duration = e.now().Sub(report.StartedAt)
	slog.Error("Batch run aborted",
		"procedure", report.Procedure,
		"run_id", report.RunID,
		"processed", report.Processed(),
		"error", err)
	e.observers.RunFinished(report)
	return report, err
}

func (e *Engine) newReport(procedure Procedure) *Report {
	return &Report{
		RunID:       e.newRunID(),
		Procedure:   procedure,
		StartedAt:   e.now(),
		SkipReasons: make(map[SkipReason]int),
	}
}
