package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/taxonomist/internal/model"
)

// CreateChannel registers a feed channel and sets its ID.
func (s *SQLiteStorage) CreateChannel(ctx context.Context, channel *model.Channel) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if channel == nil {
		return fmt.Errorf("%w: channel", ErrNilParameter)
	}
	if err := validateString(channel.Name, "name"); err != nil {
		return err
	}
	if err := validateString(channel.SourceURL, "source_url"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		"INSERT INTO channels (name, source_url, is_active) VALUES (?, ?, ?)",
		strings.TrimSpace(channel.Name), strings.TrimSpace(channel.SourceURL), channel.IsActive)
	if err != nil {
		return fmt.Errorf("failed to create channel: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get channel ID: %w", err)
	}
	channel.ID = id
	channel.CreatedAt = time.Now()
	return nil
}

// GetChannels returns every channel.
func (s *SQLiteStorage) GetChannels(ctx context.Context) ([]model.Channel, error) {
	return s.queryChannels(ctx, "")
}

// GetActiveChannels returns channels whose feeds should be fetched.
func (s *SQLiteStorage) GetActiveChannels(ctx context.Context) ([]model.Channel, error) {
	return s.queryChannels(ctx, "WHERE is_active = 1")
}

func (s *SQLiteStorage) queryChannels(ctx context.Context, where string) ([]model.Channel, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, source_url, is_active, created_at FROM channels "+where+" ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query channels: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var channels []model.Channel
	for rows.Next() {
		var c model.Channel
		if err := rows.Scan(&c.ID, &c.Name, &c.SourceURL, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan channel: %w", err)
		}
		channels = append(channels, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating channels: %w", err)
	}
	return channels, nil
}
