package storage

import (
	"context"
	"testing"

	"github.com/Veraticus/taxonomist/internal/common"
	"github.com/Veraticus/taxonomist/internal/model"
	"github.com/Veraticus/taxonomist/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestVideos_CreateGetUpdate(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	video := &model.Video{TitleRaw: "Μάθημα Οδήγησης"}
	require.NoError(t, store.CreateVideo(ctx, video))
	assert.Positive(t, video.ID)

	got, err := store.GetVideo(ctx, video.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusNeedsReview, got.Status)
	assert.False(t, got.HasCategory())
	assert.False(t, got.HasSubcategory())

	err = store.UpdateVideo(ctx, video.ID, model.VideoUpdate{
		CategoryID:    ptr(int64(5)),
		SubcategoryID: ptr(int64(12)),
		Confidence:    ptr(0.9),
		Status:        ptr(model.StatusAuto),
	})
	require.NoError(t, err)

	got, err = store.GetVideo(ctx, video.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.CategoryID)
	assert.Equal(t, int64(12), got.SubcategoryID)
	assert.InDelta(t, 0.9, got.Confidence, 1e-9)
	assert.Equal(t, model.StatusAuto, got.Status)

	// Partial updates leave other fields alone.
	require.NoError(t, store.UpdateVideo(ctx, video.ID, model.VideoUpdate{Confidence: ptr(0.95)}))
	got, err = store.GetVideo(ctx, video.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(12), got.SubcategoryID)
	assert.Equal(t, model.StatusAuto, got.Status)

	require.NoError(t, store.UpdateVideo(ctx, video.ID, model.VideoUpdate{}))
	assert.ErrorIs(t, store.UpdateVideo(ctx, 9999, model.VideoUpdate{Confidence: ptr(0.1)}), common.ErrNotFound)
	assert.ErrorIs(t, store.UpdateVideo(ctx, 0, model.VideoUpdate{Confidence: ptr(0.1)}), ErrInvalidID)
	assert.ErrorIs(t, store.UpdateVideo(ctx, video.ID, model.VideoUpdate{Confidence: ptr(1.5)}), ErrInvalidVideo)
	assert.ErrorIs(t, store.UpdateVideo(ctx, video.ID, model.VideoUpdate{Status: ptr(model.VideoStatus("done"))}), ErrInvalidStatus)

	_, err = store.GetVideo(ctx, 9999)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestVideos_List(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	fixtures := []model.Video{
		{TitleRaw: "a", Status: model.StatusNeedsReview},
		{TitleRaw: "b", Status: model.StatusManual, CategoryID: 3},
		{TitleRaw: "c", Status: model.StatusAuto, CategoryID: 3, SubcategoryID: 7},
		{TitleRaw: "d", Status: model.StatusNeedsReview, CategoryID: 4},
	}
	for i := range fixtures {
		require.NoError(t, store.CreateVideo(ctx, &fixtures[i]))
	}

	tests := []struct {
		name   string
		filter service.VideoFilter
		want   []string
	}{
		{
			name:   "needs review newest first",
			filter: service.VideoFilter{Statuses: []model.VideoStatus{model.StatusNeedsReview}},
			want:   []string{"d", "a"},
		},
		{
			name:   "ascending order",
			filter: service.VideoFilter{Statuses: []model.VideoStatus{model.StatusNeedsReview}, Order: service.OrderIDAsc},
			want:   []string{"a", "d"},
		},
		{
			name: "missing subcategory only",
			filter: service.VideoFilter{
				Statuses:               []model.VideoStatus{model.StatusManual, model.StatusAuto, model.StatusNeedsReview},
				MissingSubcategoryOnly: true,
			},
			want: []string{"d", "b"},
		},
		{
			name:   "limit",
			filter: service.VideoFilter{Limit: 1},
			want:   []string{"d"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			videos, err := store.ListVideos(ctx, tt.filter)
			require.NoError(t, err)
			titles := make([]string, 0, len(videos))
			for _, v := range videos {
				titles = append(titles, v.TitleRaw)
			}
			assert.Equal(t, tt.want, titles)
		})
	}

	_, err := store.ListVideos(ctx, service.VideoFilter{Statuses: []model.VideoStatus{"bogus"}})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	counts, err := store.CountVideosByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts[model.StatusNeedsReview])
	assert.Equal(t, 1, counts[model.StatusManual])
}

func TestVideos_UpsertFeedVideo(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	ch := &model.Channel{Name: "ERT", SourceURL: "https://example.com/mrss.xml", IsActive: true}
	require.NoError(t, store.CreateChannel(ctx, ch))

	first := &model.Video{ChannelID: ch.ID, MediaID: "m-1", TitleRaw: "Ειδήσεις"}
	inserted, n, err := store.UpsertFeedVideo(ctx, first)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.Equal(t, int64(1), n)

	// Same media id fills only empty fields.
	again := &model.Video{
		ChannelID: ch.ID, MediaID: "m-1", TitleRaw: "ignored",
		PageURL: "https://example.com/watch/1", Duration: 120,
	}
	inserted, n, err = store.UpsertFeedVideo(ctx, again)
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Equal(t, int64(1), n)

	got, err := store.GetVideo(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ειδήσεις", got.TitleRaw)
	assert.Equal(t, "https://example.com/watch/1", got.PageURL)
	assert.Equal(t, 120, got.Duration)

	// Stored values are never replaced.
	replace := &model.Video{ChannelID: ch.ID, MediaID: "m-1", PageURL: "https://example.com/other"}
	_, n, err = store.UpsertFeedVideo(ctx, replace)
	require.NoError(t, err)
	assert.Zero(t, n)

	got, err = store.GetVideo(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/watch/1", got.WatchURL())

	_, _, err = store.UpsertFeedVideo(ctx, &model.Video{ChannelID: ch.ID})
	assert.ErrorIs(t, err, ErrEmptyString)

	active, err := store.GetActiveChannels(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}
