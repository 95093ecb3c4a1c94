package main

import (
	"fmt"

	"github.com/Veraticus/taxonomist/internal/cli"
	"github.com/Veraticus/taxonomist/internal/common"
	"github.com/Veraticus/taxonomist/internal/config"
	"github.com/Veraticus/taxonomist/internal/feed"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func ingestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Harvest videos from channel feeds",
		Long: `Fetch every active channel's MRSS feed. New items are stored for review;
known items only get their empty watch fields (URLs, thumbnail, duration) filled.

A channel whose feed cannot be fetched is reported and skipped.`,
		RunE: runIngest,
	}

	cmd.Flags().Duration("timeout", feed.DefaultTimeout, "Timeout for a single feed fetch")
	cmd.Flags().Bool("json", false, "Print the ingestion report as JSON")
	_ = viper.BindPFlag(config.KeyFeedTimeout, cmd.Flags().Lookup("timeout"))

	return cmd
}

func runIngest(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	fetcher := feed.NewHTTPFetcher(nil, viper.GetDuration(config.KeyFeedTimeout))
	report, runErr := feed.NewIngester(store, fetcher).Run(ctx)

	if report != nil {
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			if err := writeJSON(cmd.OutOrStdout(), report); err != nil {
				return err
			}
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderIngestReport(report))
		}
	}
	if runErr != nil {
		return common.NewUserError("feed ingestion aborted", runErr)
	}
	return nil
}
