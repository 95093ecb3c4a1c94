package main

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/Veraticus/taxonomist/internal/cli"
	"github.com/Veraticus/taxonomist/internal/model"
	"github.com/Veraticus/taxonomist/internal/pattern"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage taxonomy rules",
		Long:  `List, add, delete and try out the keyword rules used to classify video titles.`,
	}

	cmd.AddCommand(rulesListCmd())
	cmd.AddCommand(rulesAddCmd())
	cmd.AddCommand(rulesDeleteCmd())
	cmd.AddCommand(rulesTestCmd())

	return cmd
}

func rulesListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List taxonomy rules",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			all, _ := cmd.Flags().GetBool("all")

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer closeStorage(store)

			var rules []model.TaxonomyRule
			if all {
				rules, err = store.GetAllTaxonomyRules(ctx)
			} else {
				rules, err = store.GetActiveTaxonomyRules(ctx)
			}
			if err != nil {
				return fmt.Errorf("failed to get taxonomy rules: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(rules) == 0 {
				fmt.Fprintln(out, cli.InfoStyle.Render("No taxonomy rules found. Use 'taxonomist rules add' or 'taxonomist migrate --seed'."))
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			defer func() {
				if flushErr := w.Flush(); flushErr != nil {
					slog.Error("failed to flush table writer", "error", flushErr)
				}
			}()

			headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				headerStyle.Render("ID"),
				headerStyle.Render("Pattern"),
				headerStyle.Render("Category"),
				headerStyle.Render("Subcategory"),
				headerStyle.Render("Weight"),
				headerStyle.Render("Active"))

			for _, r := range rules {
				sub := "-"
				if !r.IsCategoryOnly() {
					sub = strconv.FormatInt(r.SubcategoryID, 10)
				}
				active := cli.SuccessIcon
				if !r.IsActive {
					active = cli.SubtleStyle.Render("no")
				}
				fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%.2f\t%s\n",
					r.ID, r.Pattern, r.CategoryID, sub, r.Weight, active)
			}
			return nil
		},
	}

	cmd.Flags().Bool("all", false, "Include inactive rules")
	return cmd
}

func rulesAddCmd() *cobra.Command {
	var (
		categoryID    int64
		subcategoryID int64
		weight        float64
		inactive      bool
	)

	cmd := &cobra.Command{
		Use:   "add <pattern>",
		Short: "Add a taxonomy rule",
		Long: `Create a rule mapping a keyword or phrase to a category and, optionally, a
subcategory. The pattern is matched against normalized titles, so case and Greek
accents do not matter.

Example:
  taxonomist rules add "μάθημα οδήγησης" --category 5 --subcategory 12 --weight 0.9`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer closeStorage(store)

			rule := &model.TaxonomyRule{
				Pattern:       strings.TrimSpace(args[0]),
				CategoryID:    categoryID,
				SubcategoryID: subcategoryID,
				Weight:        weight,
				IsActive:      !inactive,
			}
			if err := store.CreateTaxonomyRule(ctx, rule); err != nil {
				return fmt.Errorf("failed to create rule: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Created rule %d: %q", rule.ID, rule.Pattern)))
			return nil
		},
	}

	cmd.Flags().Int64Var(&categoryID, "category", 0, "Target category ID (required)")
	cmd.Flags().Int64Var(&subcategoryID, "subcategory", 0, "Target subcategory ID (0 for a category-only rule)")
	cmd.Flags().Float64Var(&weight, "weight", 0.5, "Rule weight between 0 and 1")
	cmd.Flags().BoolVar(&inactive, "inactive", false, "Create the rule disabled")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func rulesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a taxonomy rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid rule ID %q", args[0])
			}

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer closeStorage(store)

			if err := store.DeleteTaxonomyRule(ctx, id); err != nil {
				return fmt.Errorf("failed to delete rule: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Deleted rule %d", id)))
			return nil
		},
	}
}

func rulesTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test <title>",
		Short: "Show which rules match a title",
		Long: `Normalize a title and list every active rule that matches it, best first.
The first row is the match classification would use.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer closeStorage(store)

			rules, err := store.GetActiveTaxonomyRules(ctx)
			if err != nil {
				return fmt.Errorf("failed to get taxonomy rules: %w", err)
			}

			title := pattern.NormalizeTitle(strings.Join(args, " "))
			return renderCandidates(cmd, title, pattern.NewMatcher(rules))
		},
	}
}

func renderCandidates(cmd *cobra.Command, title string, matcher *pattern.Matcher) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cli.FormatTitle("Normalized: "+title))

	candidates := matcher.Candidates(title)
	if len(candidates) == 0 {
		fmt.Fprintln(out, cli.FormatWarning("No rule matches this title"))
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
		cli.TableHeaderStyle.Render("RULE"),
		cli.TableHeaderStyle.Render("PATTERN"),
		cli.TableHeaderStyle.Render("CATEGORY"),
		cli.TableHeaderStyle.Render("SUBCATEGORY"),
		cli.TableHeaderStyle.Render("SCORE"))
	for i, c := range candidates {
		marker := ""
		if i == 0 {
			marker = " " + cli.SuccessIcon
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%.2f%s\n",
			c.Rule.ID, c.Rule.Pattern, c.Rule.CategoryID, c.Rule.SubcategoryID, c.Score, marker)
	}
	return w.Flush()
}
