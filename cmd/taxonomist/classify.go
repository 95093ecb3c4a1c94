package main

import (
	"fmt"
	"os"

	"github.com/Veraticus/taxonomist/internal/cli"
	"github.com/Veraticus/taxonomist/internal/common"
	"github.com/Veraticus/taxonomist/internal/config"
	"github.com/Veraticus/taxonomist/internal/engine"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Auto-classify videos with taxonomy rules",
		Long: `Match the titles of the most recent videos against the active taxonomy rules.

Category and subcategory are only filled where empty unless --overwrite is set.
Confidence never goes down. A video is auto-approved when it ends up with both a
category and a subcategory and the match confidence reaches --threshold.

Examples:
  taxonomist classify                       # 500 newest needs_review videos
  taxonomist classify --threshold 0.9       # stricter auto-approval
  taxonomist classify --status needs_review,auto --overwrite`,
		RunE: runClassify,
	}

	cmd.Flags().Int("limit", engine.DefaultClassifyLimit, "Maximum videos to load (1-20000)")
	cmd.Flags().Float64("threshold", engine.DefaultClassifyThreshold, "Confidence needed for auto-approval (0-1)")
	cmd.Flags().Bool("overwrite", false, "Replace categories and subcategories that are already set")
	cmd.Flags().String("status", "needs_review", "Comma separated statuses to load")
	cmd.Flags().Bool("json", false, "Print the run report as JSON")
	cmd.Flags().Bool("no-progress", false, "Disable the progress bar")

	// Bind to viper (errors are rare and can be ignored in practice)
	_ = viper.BindPFlag(config.KeyClassifyLimit, cmd.Flags().Lookup("limit"))
	_ = viper.BindPFlag(config.KeyClassifyThreshold, cmd.Flags().Lookup("threshold"))
	_ = viper.BindPFlag(config.KeyClassifyOverwrite, cmd.Flags().Lookup("overwrite"))
	_ = viper.BindPFlag(config.KeyClassifyStatus, cmd.Flags().Lookup("status"))

	return cmd
}

func runClassify(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	opts, err := config.ClassifyOptionsFrom(viper.GetViper())
	if err != nil {
		return common.NewUserError("invalid classification options", err)
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	eng := engine.New(store, runObservers(cmd)...)
	report, runErr := eng.Classify(ctx, opts)
	if err := printReport(cmd, report); err != nil {
		return err
	}
	if runErr != nil {
		return common.NewUserError("classification aborted", runErr)
	}
	return nil
}

// runObservers returns the progress bar observer unless it is disabled.
func runObservers(cmd *cobra.Command) []engine.Option {
	noProgress, _ := cmd.Flags().GetBool("no-progress")
	asJSON, _ := cmd.Flags().GetBool("json")
	if noProgress || asJSON {
		return nil
	}
	return []engine.Option{engine.WithObserver(cli.NewProgressObserver(os.Stderr))}
}

func printReport(cmd *cobra.Command, report *engine.Report) error {
	if report == nil {
		return nil
	}
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(cmd.OutOrStdout(), report)
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), cli.RenderReport(report))
	return err
}
