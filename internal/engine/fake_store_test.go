package engine

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Veraticus/taxonomist/internal/model"
	"github.com/Veraticus/taxonomist/internal/service"
)

var errBoom = errors.New("boom")

// fakeStore is an in-memory CatalogStore that records writes.
type fakeStore struct {
	videos     map[int64]model.Video
	listErr    error
	rulesErr   error
	updateErr  error
	rules      []model.TaxonomyRule
	lastFilter service.VideoFilter
	writes     int
	failAfter  int
	mu         sync.Mutex
}

func newFakeStore(rules []model.TaxonomyRule, videos ...model.Video) *fakeStore {
	s := &fakeStore{
		videos:    make(map[int64]model.Video, len(videos)),
		rules:     rules,
		failAfter: -1,
	}
	for _, v := range videos {
		s.videos[v.ID] = v
	}
	return s
}

func (s *fakeStore) GetActiveTaxonomyRules(_ context.Context) ([]model.TaxonomyRule, error) {
	if s.rulesErr != nil {
		return nil, s.rulesErr
	}
	return s.rules, nil
}

func (s *fakeStore) ListVideos(_ context.Context, filter service.VideoFilter) ([]model.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastFilter = filter
	if s.listErr != nil {
		return nil, s.listErr
	}

	allowed := make(map[model.VideoStatus]bool, len(filter.Statuses))
	for _, st := range filter.Statuses {
		allowed[st] = true
	}

	out := make([]model.Video, 0, len(s.videos))
	for _, v := range s.videos {
		if len(allowed) > 0 && !allowed[v.Status] {
			continue
		}
		if filter.MissingSubcategoryOnly && (v.CategoryID <= 0 || v.SubcategoryID > 0) {
			continue
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *fakeStore) UpdateVideo(_ context.Context, id int64, update model.VideoUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil && s.failAfter >= 0 && s.writes >= s.failAfter {
		return s.updateErr
	}
	v, ok := s.videos[id]
	if !ok {
		return errors.New("missing video")
	}
	if update.CategoryID != nil {
		v.CategoryID = *update.CategoryID
	}
	if update.SubcategoryID != nil {
		v.SubcategoryID = *update.SubcategoryID
	}
	if update.Confidence != nil {
		v.Confidence = *update.Confidence
	}
	if update.Status != nil {
		v.Status = *update.Status
	}
	s.videos[id] = v
	s.writes++
	return nil
}

func (s *fakeStore) video(id int64) model.Video {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.videos[id]
}

// recordingObserver captures observer callbacks.
type recordingObserver struct {
	finished *Report
	rows     []RowResult
	started  int
}

func (o *recordingObserver) RunStarted(_ Procedure, loaded int) { o.started = loaded }

func (o *recordingObserver) RowProcessed(_ Procedure, result RowResult) {
	o.rows = append(o.rows, result)
}

func (o *recordingObserver) RunFinished(report *Report) { o.finished = report }
