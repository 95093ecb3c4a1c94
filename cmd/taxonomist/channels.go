package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/Veraticus/taxonomist/internal/cli"
	"github.com/Veraticus/taxonomist/internal/model"
	"github.com/spf13/cobra"
)

func channelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "channels",
		Short: "Manage feed channels",
		Long:  `List and register the MRSS feeds videos are harvested from.`,
	}

	cmd.AddCommand(channelsListCmd())
	cmd.AddCommand(channelsAddCmd())

	return cmd
}

func channelsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List channels",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer closeStorage(store)

			channels, err := store.GetChannels(ctx)
			if err != nil {
				return fmt.Errorf("failed to get channels: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(channels) == 0 {
				fmt.Fprintln(out, cli.InfoStyle.Render("No channels found. Use 'taxonomist channels add' to register a feed."))
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				cli.TableHeaderStyle.Render("ID"),
				cli.TableHeaderStyle.Render("NAME"),
				cli.TableHeaderStyle.Render("FEED"),
				cli.TableHeaderStyle.Render("ACTIVE"))
			for _, ch := range channels {
				active := cli.SuccessIcon
				if !ch.IsActive {
					active = cli.SubtleStyle.Render("no")
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", ch.ID, ch.Name, ch.SourceURL, active)
			}
			return w.Flush()
		},
	}
}

func channelsAddCmd() *cobra.Command {
	var inactive bool

	cmd := &cobra.Command{
		Use:   "add <name> <feed-url>",
		Short: "Register a channel feed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer closeStorage(store)

			ch := &model.Channel{Name: args[0], SourceURL: args[1], IsActive: !inactive}
			if err := store.CreateChannel(ctx, ch); err != nil {
				return fmt.Errorf("failed to create channel: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Registered channel %d: %s", ch.ID, ch.Name)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&inactive, "inactive", false, "Register the channel without fetching it")
	return cmd
}
