package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/taxonomist/internal/config"
	"github.com/Veraticus/taxonomist/internal/feed"
	"github.com/Veraticus/taxonomist/internal/metrics"
	"github.com/Veraticus/taxonomist/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the cron endpoints and the watch redirect",
		Long: `Start the HTTP server used by cron jobs.

Endpoints:
  GET /auto_classify?key=...           run classification (limit, threshold, overwrite, status)
  GET /backfill_subcategories?key=...  run subcategory backfill (limit, threshold, status, dry_run)
  GET /ingest?key=...                  harvest channel feeds
  GET /watch?id=N                      redirect to a video's page or media URL
  GET /healthcheck, GET /metrics

The key may also be sent in the X-Cron-Key header. Query parameters fall back to
the configured defaults.`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", ":8080", "Listen address")
	cmd.Flags().String("cron-key", "", "Key required by the cron endpoints")
	_ = viper.BindPFlag(config.KeyServerAddr, cmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag(config.KeyServerCronKey, cmd.Flags().Lookup("cron-key"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cronKey := viper.GetString(config.KeyServerCronKey)
	if cronKey == "" {
		slog.Warn("No cron key configured; cron endpoints will reject every request")
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	if viper.GetString(config.KeyLogLevel) != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := server.New(server.Config{
		Store:    store,
		Metrics:  metrics.NewCollector(),
		Fetcher:  feed.NewHTTPFetcher(nil, viper.GetDuration(config.KeyFeedTimeout)),
		Defaults: viper.GetViper(),
		CronKey:  cronKey,
	})
	return srv.ListenAndServe(ctx, viper.GetString(config.KeyServerAddr))
}
