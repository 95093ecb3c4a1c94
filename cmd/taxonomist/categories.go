package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Veraticus/taxonomist/internal/cli"
	"github.com/Veraticus/taxonomist/internal/model"
	"github.com/spf13/cobra"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage the video taxonomy",
		Long:  `List the category/subcategory tree and add new nodes to it.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(addSubcategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the taxonomy tree",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer closeStorage(store)

			categories, err := store.GetCategories(ctx)
			if err != nil {
				return fmt.Errorf("failed to get categories: %w", err)
			}
			subcategories, err := store.GetSubcategories(ctx, 0)
			if err != nil {
				return fmt.Errorf("failed to get subcategories: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(categories) == 0 {
				fmt.Fprintln(out, cli.InfoStyle.Render("No categories found. Use 'taxonomist categories add' or 'taxonomist migrate --seed'."))
				return nil
			}

			fmt.Fprint(out, renderTaxonomyTree(categories, subcategories))
			return nil
		},
	}
}

func renderTaxonomyTree(categories []model.Category, subcategories []model.Subcategory) string {
	byCategory := make(map[int64][]model.Subcategory)
	for _, sub := range subcategories {
		byCategory[sub.CategoryID] = append(byCategory[sub.CategoryID], sub)
	}

	var b strings.Builder
	for _, cat := range categories {
		fmt.Fprintf(&b, "%s %s\n", cli.BoldStyle.Render(fmt.Sprintf("[%d]", cat.ID)), cat.Name)
		subs := byCategory[cat.ID]
		for i, sub := range subs {
			branch := "├─"
			if i == len(subs)-1 {
				branch = "└─"
			}
			fmt.Fprintf(&b, "  %s %s %s\n", branch, cli.SubtleStyle.Render(fmt.Sprintf("[%d]", sub.ID)), sub.Name)
		}
	}
	return b.String()
}

func addCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer closeStorage(store)

			cat, err := store.CreateCategory(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to create category: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Created category %d: %s", cat.ID, cat.Name)))
			return nil
		},
	}
}

func addSubcategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-sub <category-id> <name>",
		Short: "Add a subcategory under a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			categoryID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || categoryID <= 0 {
				return fmt.Errorf("invalid category ID %q", args[0])
			}

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer closeStorage(store)

			sub, err := store.CreateSubcategory(ctx, categoryID, args[1])
			if err != nil {
				return fmt.Errorf("failed to create subcategory: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Created subcategory %d: %s", sub.ID, sub.Name)))
			return nil
		},
	}
}
