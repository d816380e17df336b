package cmd

import (
	"fmt"

	"github.com/modelbay/templatrend/internal/contract"
	"github.com/modelbay/templatrend/internal/iostore"
	"github.com/modelbay/templatrend/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeSetup loads minimal configuration needed for store operations.
// This is used by commands that need store access without full shared setup.
func storeSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.StoreBackend(viper.GetString("store-backend"))
	connStr := viper.GetString("store-db-connect")

	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")

	return iostore.InitStores(cfg)
}

// storeSetupWrapper wraps storeSetup to provide PreRunE for store commands.
func storeSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeSetup()
}

// storeMigrateSetup loads minimal configuration for the migrate command.
// It deliberately does NOT initialize stores or create tables, so
// migrations can run against a fresh database.
func storeMigrateSetup(_ *cobra.Command, _ []string) error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.StoreBackend(viper.GetString("store-backend"))
	connStr := viper.GetString("store-db-connect")

	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr

	return nil
}

// storeCmd groups the store management subcommands.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage engine storage, exports and migrations",
	Long: `Manage the persistent stores behind the ranking engine.

Templatrend keeps usage logs, ranking records, promotion requests and
author credits in a SQL store.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (in-memory)

Subcommands:
  status  - Show row counts and the ranking period range
  export  - Export ranking records to Parquet for analytics
  clear   - Remove all engine data
  migrate - Run database schema migrations

Examples:
  # Check store health
  templatrend store status

  # Export for analysis in pandas/DuckDB
  templatrend store export --output-file rankings.parquet`,
}

// storeStatusCmd shows store status.
var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display store statistics and connection details",
	Long: `Show row counts for every engine table and the range of ranking
periods currently stored.

Use this to:
- Verify the store backend is reachable
- Monitor data accumulation over time
- Estimate storage requirements

Examples:
  templatrend store status`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iostore.Status(rootCtx)
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		iostore.PrintStoreStatus(status)
	},
}

// storeExportCmd exports rankings to a Parquet file.
var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export ranking records to Parquet for BI tools and analytics",
	Long: `Export all stored ranking records to Parquet format.

Parquet format enables:
- Fast querying with DuckDB, Apache Spark, pandas
- Efficient storage with columnar compression
- Direct import into BI tools

Requires: --output-file parameter

Examples:
  # Export all ranking data
  templatrend store export --output-file rankings.parquet

  # Use with DuckDB for analysis
  duckdb -c "SELECT * FROM read_parquet('rankings.parquet') LIMIT 10"`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iostore.ExecuteRankingExport(rootCtx, cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export ranking data", err)
		}
	},
}

// storeClearCmd clears all engine data.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all engine data",
	Long: `Delete all stored usage logs, rankings, promotion requests and
author credits.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  templatrend store export --output-file backup.parquet
  templatrend store clear`,
	PreRunE: storeMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iostore.ClearStores(cfg.StoreBackend, iostore.GetStoreDBFilePath(), cfg.StoreDBConnect); err != nil {
			contract.LogFatal("Failed to clear store data", err)
		}
		fmt.Println("Store data cleared successfully.")
	},
}

// storeMigrateCmd runs database migrations for the engine stores.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the engine stores.

By default, migrates to the latest version. Use --target-version for
specific versions.

Examples:
  # Migrate to latest version (default)
  templatrend store migrate

  # Migrate to specific version
  templatrend store migrate --target-version 1

  # Rollback to initial state
  templatrend store migrate --target-version 0`,
	PreRunE: storeMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iostore.MigrateStores(cfg.StoreBackend, cfg.StoreDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
