package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/taxonomist/internal/common"
	"github.com/Veraticus/taxonomist/internal/model"
	"github.com/Veraticus/taxonomist/internal/service"
)

// MaxVideoListLimit caps how many rows a single query may return.
const MaxVideoListLimit = 20000

const videoColumns = `
	id, COALESCE(channel_id, 0), COALESCE(media_id, ''), COALESCE(title_raw, ''),
	COALESCE(description_raw, ''), COALESCE(video_url, ''), COALESCE(page_url, ''),
	COALESCE(thumbnail, ''), COALESCE(duration, 0),
	COALESCE(category_id, 0), COALESCE(subcategory_id, 0),
	COALESCE(confidence, 0), status, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVideo(row rowScanner) (model.Video, error) {
	var v model.Video
	err := row.Scan(
		&v.ID, &v.ChannelID, &v.MediaID, &v.TitleRaw,
		&v.DescriptionRaw, &v.VideoURL, &v.PageURL,
		&v.Thumbnail, &v.Duration,
		&v.CategoryID, &v.SubcategoryID,
		&v.Confidence, &v.Status, &v.CreatedAt,
	)
	return v, err
}

// ListVideos returns videos matching the filter.
func (s *SQLiteStorage) ListVideos(ctx context.Context, filter service.VideoFilter) ([]model.Video, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateStatuses(filter.Statuses); err != nil {
		return nil, err
	}

	var (
		where []string
		args  []any
	)
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, st := range filter.Statuses {
			placeholders[i] = "?"
			args = append(args, string(st))
		}
		where = append(where, "status IN ("+strings.Join(placeholders, ",")+")")
	}
	if filter.MissingSubcategoryOnly {
		where = append(where,
			"category_id IS NOT NULL AND category_id != 0",
			"(subcategory_id IS NULL OR subcategory_id = 0)")
	}

	query := "SELECT " + videoColumns + " FROM videos"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	switch filter.Order {
	case service.OrderIDAsc:
		query += " ORDER BY id ASC"
	default:
		query += " ORDER BY id DESC"
	}

	limit := filter.Limit
	if limit <= 0 || limit > MaxVideoListLimit {
		limit = MaxVideoListLimit
	}
	query += " LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query videos: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var videos []model.Video
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		videos = append(videos, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating videos: %w", err)
	}

	return videos, nil
}

// GetVideo retrieves a single video by id.
func (s *SQLiteStorage) GetVideo(ctx context.Context, id int64) (*model.Video, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, "SELECT "+videoColumns+" FROM videos WHERE id = ?", id)
	v, err := scanVideo(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("video %d: %w", id, common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get video: %w", err)
	}
	return &v, nil
}

// CreateVideo inserts a video and sets its ID.
func (s *SQLiteStorage) CreateVideo(ctx context.Context, video *model.Video) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateVideo(video); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO videos (
			channel_id, media_id, title_raw, description_raw, video_url, page_url,
			thumbnail, duration, category_id, subcategory_id, confidence, status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		nullInt(video.ChannelID), nullString(video.MediaID), video.TitleRaw,
		nullString(video.DescriptionRaw), nullString(video.VideoURL), nullString(video.PageURL),
		nullString(video.Thumbnail), video.Duration,
		nullInt(video.CategoryID), nullInt(video.SubcategoryID),
		video.Confidence, string(video.Status),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("video %d/%s: %w", video.ChannelID, video.MediaID, common.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to create video: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get video ID: %w", err)
	}
	video.ID = id
	return nil
}

// UpdateVideo applies a partial update to one video. An empty update is a no-op.
func (s *SQLiteStorage) UpdateVideo(ctx context.Context, id int64, update model.VideoUpdate) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id, "id"); err != nil {
		return err
	}
	if err := validateVideoUpdate(update); err != nil {
		return err
	}
	if update.IsEmpty() {
		return nil
	}

	var (
		sets []string
		args []any
	)
	if update.CategoryID != nil {
		sets = append(sets, "category_id = ?")
		args = append(args, nullInt(*update.CategoryID))
	}
	if update.SubcategoryID != nil {
		sets = append(sets, "subcategory_id = ?")
		args = append(args, nullInt(*update.SubcategoryID))
	}
	if update.Confidence != nil {
		sets = append(sets, "confidence = ?")
		args = append(args, *update.Confidence)
	}
	if update.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, string(*update.Status))
	}
	args = append(args, id)

	result, err := s.db.ExecContext(ctx,
		"UPDATE videos SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("failed to update video %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("video %d: %w", id, common.ErrNotFound)
	}
	return nil
}

// CountVideosByStatus returns the number of videos per status.
func (s *SQLiteStorage) CountVideosByStatus(ctx context.Context) (map[model.VideoStatus]int, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, "SELECT status, COUNT(*) FROM videos GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("failed to count videos: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[model.VideoStatus]int)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan video count: %w", err)
		}
		counts[model.VideoStatus(status)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating video counts: %w", err)
	}
	return counts, nil
}

// UpsertFeedVideo inserts a video harvested from a feed, or fills the empty watch
// fields of the existing row with the same channel and media id.
func (s *SQLiteStorage) UpsertFeedVideo(ctx context.Context, video *model.Video) (bool, int64, error) {
	if err := validateContext(ctx); err != nil {
		return false, 0, err
	}
	if video == nil {
		return false, 0, fmt.Errorf("%w: video", ErrNilParameter)
	}
	if err := validateID(video.ChannelID, "channel_id"); err != nil {
		return false, 0, err
	}
	if err := validateString(video.MediaID, "media_id"); err != nil {
		return false, 0, err
	}
	if err := validateVideo(video); err != nil {
		return false, 0, err
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO videos (
			channel_id, media_id, title_raw, description_raw, video_url, page_url,
			thumbnail, duration, confidence, status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, ?)
		ON CONFLICT (channel_id, media_id) DO NOTHING`,
		video.ChannelID, video.MediaID, video.TitleRaw,
		nullString(video.DescriptionRaw), nullString(video.VideoURL), nullString(video.PageURL),
		nullString(video.Thumbnail), video.Duration, string(video.Status),
	)
	if err != nil {
		return false, 0, fmt.Errorf("failed to insert feed video: %w", err)
	}
	if n, _ := result.RowsAffected(); n > 0 {
		if id, idErr := result.LastInsertId(); idErr == nil {
			video.ID = id
		}
		return true, n, nil
	}

	w := model.WatchFields{
		VideoURL:       video.VideoURL,
		PageURL:        video.PageURL,
		Thumbnail:      video.Thumbnail,
		DescriptionRaw: video.DescriptionRaw,
		Duration:       video.Duration,
	}
	changed, err := s.fillWatchFields(ctx, video.ChannelID, video.MediaID, w)
	return false, changed, err
}

// fillWatchFields sets watch fields only where the stored value is empty.
func (s *SQLiteStorage) fillWatchFields(ctx context.Context, channelID int64, mediaID string, w model.WatchFields) (int64, error) {
	if w.IsEmpty() {
		return 0, nil
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE videos SET
			video_url = CASE WHEN COALESCE(video_url, '') = '' THEN ? ELSE video_url END,
			page_url = CASE WHEN COALESCE(page_url, '') = '' THEN ? ELSE page_url END,
			thumbnail = CASE WHEN COALESCE(thumbnail, '') = '' THEN ? ELSE thumbnail END,
			duration = CASE WHEN COALESCE(duration, 0) = 0 THEN ? ELSE duration END,
			description_raw = CASE WHEN COALESCE(description_raw, '') = '' THEN ? ELSE description_raw END
		WHERE channel_id = ? AND media_id = ?
			AND ((COALESCE(video_url, '') = '' AND ? != '')
				OR (COALESCE(page_url, '') = '' AND ? != '')
				OR (COALESCE(thumbnail, '') = '' AND ? != '')
				OR (COALESCE(duration, 0) = 0 AND ? > 0)
				OR (COALESCE(description_raw, '') = '' AND ? != ''))`,
		w.VideoURL, w.PageURL, w.Thumbnail, w.Duration, w.DescriptionRaw,
		channelID, mediaID,
		w.VideoURL, w.PageURL, w.Thumbnail, w.Duration, w.DescriptionRaw,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to fill watch fields: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

func nullInt(v int64) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: v > 0}
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
