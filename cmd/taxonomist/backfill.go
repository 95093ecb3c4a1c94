package main

import (
	"fmt"

	"github.com/Veraticus/taxonomist/internal/common"
	"github.com/Veraticus/taxonomist/internal/config"
	"github.com/Veraticus/taxonomist/internal/engine"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func backfillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "backfill-subcategories",
		Aliases: []string{"backfill"},
		Short:   "Fill missing subcategories of categorized videos",
		Long: `Find videos that have a category but no subcategory and fill the subcategory
when the best matching rule points at the same category with enough confidence.

Category and status are never changed. Use --dry-run to count what would be
updated without writing anything.`,
		RunE: runBackfill,
	}

	cmd.Flags().Int("limit", engine.DefaultBackfillLimit, "Maximum videos to load (1-20000)")
	cmd.Flags().Float64("threshold", engine.DefaultBackfillThreshold, "Confidence needed to accept a subcategory (0-1)")
	cmd.Flags().String("status", "manual,auto,needs_review", "Comma separated statuses to load")
	cmd.Flags().Bool("dry-run", false, "Count eligible updates without writing")
	cmd.Flags().Bool("json", false, "Print the run report as JSON")
	cmd.Flags().Bool("no-progress", false, "Disable the progress bar")

	_ = viper.BindPFlag(config.KeyBackfillLimit, cmd.Flags().Lookup("limit"))
	_ = viper.BindPFlag(config.KeyBackfillThreshold, cmd.Flags().Lookup("threshold"))
	_ = viper.BindPFlag(config.KeyBackfillStatus, cmd.Flags().Lookup("status"))
	_ = viper.BindPFlag(config.KeyBackfillDryRun, cmd.Flags().Lookup("dry-run"))

	return cmd
}

func runBackfill(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	opts, err := config.BackfillOptionsFrom(viper.GetViper())
	if err != nil {
		return common.NewUserError("invalid backfill options", err)
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	eng := engine.New(store, runObservers(cmd)...)
	report, runErr := eng.BackfillSubcategories(ctx, opts)
	if err := printReport(cmd, report); err != nil {
		return err
	}
	if runErr != nil {
		return common.NewUserError("subcategory backfill aborted", runErr)
	}
	return nil
}
