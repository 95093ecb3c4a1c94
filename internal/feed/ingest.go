package feed

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Veraticus/taxonomist/internal/common"
	"github.com/Veraticus/taxonomist/internal/model"
	"github.com/Veraticus/taxonomist/internal/service"
	"github.com/mmcdole/gofeed"
)

// DefaultTimeout bounds a single feed fetch.
const DefaultTimeout = 30 * time.Second

// Fetcher retrieves and parses a feed.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]Item, error)
}

// HTTPFetcher fetches feeds over HTTP with gofeed.
type HTTPFetcher struct {
	parser  *gofeed.Parser
	timeout time.Duration
}

// NewHTTPFetcher creates a fetcher. A nil client uses a default one.
func NewHTTPFetcher(client *http.Client, timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	parser := gofeed.NewParser()
	parser.UserAgent = "taxonomist/1.0"
	if client != nil {
		parser.Client = client
	}
	return &HTTPFetcher{parser: parser, timeout: timeout}
}

// Fetch downloads url and extracts its items.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]Item, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	parsed, err := f.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed %s: %w", url, err)
	}
	return Items(parsed), nil
}

// ChannelResult summarizes one channel's ingestion.
type ChannelResult struct {
	Name      string `json:"name"`
	Error     string `json:"error,omitempty"`
	ChannelID int64  `json:"channel_id"`
	Items     int    `json:"items"`
	Inserted  int    `json:"inserted"`
	Filled    int64  `json:"filled"`
}

// Report summarizes an ingestion run.
type Report struct {
	Channels []ChannelResult `json:"channels"`
	Items    int             `json:"items"`
	Inserted int             `json:"inserted"`
	Filled   int64           `json:"filled"`
	Failed   int             `json:"failed"`
}

// Ingester pulls every active channel's feed into storage.
type Ingester struct {
	store   service.IngestStore
	fetcher Fetcher
}

// NewIngester creates an ingester.
func NewIngester(store service.IngestStore, fetcher Fetcher) *Ingester {
	return &Ingester{store: store, fetcher: fetcher}
}

// Run ingests all active channels. A channel whose feed cannot be fetched is
// recorded and skipped; a storage failure stops the run.
func (i *Ingester) Run(ctx context.Context) (*Report, error) {
	channels, err := i.store.GetActiveChannels(ctx)
	if err != nil {
		return nil, common.StorageError("load channels", err)
	}

	report := &Report{Channels: make([]ChannelResult, 0, len(channels))}
	for _, ch := range channels {
		result, err := i.ingestChannel(ctx, ch)
		report.Channels = append(report.Channels, result)
		report.Items += result.Items
		report.Inserted += result.Inserted
		report.Filled += result.Filled
		if err != nil {
			return report, err
		}
		if result.Error != "" {
			report.Failed++
		}
	}

	slog.Info("Feed ingestion complete",
		"channels", len(channels),
		"items", report.Items,
		"inserted", report.Inserted,
		"filled", report.Filled,
		"failed", report.Failed)
	return report, nil
}

func (i *Ingester) ingestChannel(ctx context.Context, ch model.Channel) (ChannelResult, error) {
	result := ChannelResult{ChannelID: ch.ID, Name: ch.Name}
	if ch.ID <= 0 || ch.SourceURL == "" {
		result.Error = "channel has no source url"
		return result, nil
	}

	items, err := i.fetcher.Fetch(ctx, ch.SourceURL)
	if err != nil {
		slog.Warn("Skipping channel", "channel_id", ch.ID, "name", ch.Name, "error", err)
		result.Error = err.Error()
		return result, nil
	}
	result.Items = len(items)

	for _, item := range items {
		video := &model.Video{
			ChannelID:      ch.ID,
			MediaID:        item.MediaID,
			TitleRaw:       item.Title,
			DescriptionRaw: item.Description,
			VideoURL:       item.VideoURL,
			PageURL:        item.PageURL,
			Thumbnail:      item.Thumbnail,
			Duration:       item.Duration,
			Status:         model.StatusNeedsReview,
		}
		inserted, changed, err := i.store.UpsertFeedVideo(ctx, video)
		if err != nil {
			return result, common.StorageError("upsert feed video", err)
		}
		if inserted {
			result.Inserted++
			continue
		}
		result.Filled += changed
	}

	slog.Debug("Ingested channel",
		"channel_id", ch.ID,
		"items", result.Items,
		"inserted", result.Inserted,
		"filled", result.Filled)
	return result, nil
}
