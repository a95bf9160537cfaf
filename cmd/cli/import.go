package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cartwise/companion-service/config"
	"github.com/cartwise/companion-service/internal/catalog"
	"github.com/cartwise/companion-service/internal/database"
)

var importDryRun bool

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a store catalog export into the database",
	Long: `Import supermarket records from a catalog export (CSV or XLSX) into the
database. Rows with missing columns or invalid coordinates are skipped and
reported. With --dry-run the file is parsed and validated without writing.`,
	Example: `  companion-service import ./stores.csv
  companion-service import ./stores.xlsx --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Parse and validate without writing")
}

func runImport(cmd *cobra.Command, args []string) error {
	result, err := parseCatalogFile(args[0])
	if err != nil {
		return err
	}

	for _, skipped := range result.Skipped {
		logger.Warn().Int("row", skipped.Row).Str("reason", skipped.Reason).Msg("Skipped row")
	}
	logger.Info().
		Int("parsed", len(result.Records)).
		Int("skipped", len(result.Skipped)).
		Msg("Catalog file parsed")

	if importDryRun {
		logger.Info().Msg("Dry run, nothing written")
		return nil
	}

	if cfg == nil {
		return fmt.Errorf("config required for import but not loaded")
	}
	dbURL := config.GetDatabaseURL()
	if dbURL == "" {
		return fmt.Errorf("DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := database.NewPool(ctx, database.PoolConfig{
		URL:             dbURL,
		MaxConnections:  cfg.Database.MaxConnections,
		MinConnections:  cfg.Database.MinConnections,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	written, err := catalog.NewPostgresCatalog(pool).UpsertStores(ctx, result.Records)
	if err != nil {
		return fmt.Errorf("import failed after %d records: %w", written, err)
	}

	logger.Info().Int("written", written).Msg("Catalog import complete")
	return nil
}
