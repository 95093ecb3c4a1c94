package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/taxonomist/internal/classification"
	"github.com/Veraticus/taxonomist/internal/cli"
	"github.com/Veraticus/taxonomist/internal/config"
	"github.com/Veraticus/taxonomist/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Initialize or update the database schema to the latest version.

With --seed the starter taxonomy and its rules are loaded as well. Seeding is
safe to repeat: entries that already exist are left alone.`,
		RunE: runMigrate,
	}

	cmd.Flags().Bool("seed", false, "Load the starter taxonomy and rules")
	cmd.Flags().Bool("status", false, "Show current migration status without applying changes")

	return cmd
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	seed, _ := cmd.Flags().GetBool("seed")
	status, _ := cmd.Flags().GetBool("status")

	dbPath := config.ExpandPath(viper.GetString(config.KeyDatabasePath))
	if dbPath == "" {
		dbPath = config.ExpandPath(config.DefaultDatabasePath)
	}

	slog.Info("Starting database migration",
		"database", dbPath,
		"seed", seed,
		"status_only", status)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer closeStorage(store)

	out := cmd.OutOrStdout()
	if status {
		current, err := store.SchemaVersion(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, cli.FormatTitle("Database Migration Status"))
		fmt.Fprintf(out, "Database: %s\nCurrent version: %d\nLatest version: %d\n",
			dbPath, current, storage.ExpectedSchemaVersion)
		if current < storage.ExpectedSchemaVersion {
			fmt.Fprintln(out, cli.FormatWarning("Pending migrations; run 'taxonomist migrate'"))
		}
		return nil
	}

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	fmt.Fprintln(out, cli.FormatSuccess("Database migrations completed successfully"))

	if !seed {
		return nil
	}

	result, err := classification.Seed(ctx, store, classification.DefaultTaxonomy())
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf(
		"Seeded %d categories, %d subcategories, %d rules (%d already present)",
		result.Categories, result.Subcategories, result.Rules, result.Existing)))
	return nil
}
