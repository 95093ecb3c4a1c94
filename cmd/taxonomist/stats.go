package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/Veraticus/taxonomist/internal/cli"
	"github.com/Veraticus/taxonomist/internal/model"
	"github.com/spf13/cobra"
)

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show how many videos are in each review status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer closeStorage(store)

			counts, err := store.CountVideosByStatus(ctx)
			if err != nil {
				return fmt.Errorf("failed to count videos: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatTitle("Videos by status"))
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			total := 0
			for _, st := range model.AllStatuses {
				fmt.Fprintf(w, "%s\t%d\n", st, counts[st])
				total += counts[st]
			}
			fmt.Fprintf(w, "%s\t%d\n", cli.BoldStyle.Render("total"), total)
			return w.Flush()
		},
	}
}
