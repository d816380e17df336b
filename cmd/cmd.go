// Package cmd defines the command-line interface for templatrend.
package cmd

import (
	"github.com/modelbay/templatrend/internal/contract"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(recomputeCmd)
	rootCmd.AddCommand(trendingCmd)
	rootCmd.AddCommand(competeCmd)
	rootCmd.AddCommand(promoteCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the promote subcommands to the parent promote command
	promoteCmd.AddCommand(promoteCreateCmd)
	promoteCmd.AddCommand(promoteReviewCmd)
	promoteCmd.AddCommand(promoteImplementCmd)
	promoteCmd.AddCommand(promoteListCmd)

	// Add the store subcommands to the parent store command
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeExportCmd)
	storeCmd.AddCommand(storeClearCmd)
	storeCmd.AddCommand(storeMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("period", "p", "weekly", "Aggregation period: daily, weekly, monthly, yearly")
	rootCmd.PersistentFlags().String("period-start", "", "Period start date in YYYY-MM-DD (default: current period)")
	rootCmd.PersistentFlags().StringP("type", "t", "", "Template type filter: personal or verified (default: both)")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("timeout", "", "Overall operation timeout as a Go duration (default 10m)")
	rootCmd.PersistentFlags().StringP("output", "o", "text", "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("store-backend", "sqlite", "Store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("emoji", "no", "Enable emojis in output headers (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// The actor identity flags apply to every promote subcommand, so they
	// live on the parent as persistent flags and bind to Viper exactly once.
	promoteCmd.PersistentFlags().String("actor-id", "", "Identifier of the acting user")
	promoteCmd.PersistentFlags().String("actor-role", "member", "Role of the acting user: member or admin")
	if err := viper.BindPFlags(promoteCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding promote flags", err)
	}

	// Bind all flags of promoteCreateCmd to Viper
	promoteCreateCmd.Flags().String("reason", "", "Short reason for the promotion request")
	promoteCreateCmd.Flags().String("justification", "", "Longer justification for the promotion request")
	promoteCreateCmd.Flags().String("priority", "medium", "Request priority: low, medium, high, urgent")
	promoteCreateCmd.Flags().Bool("credit-to-author", true, "Issue an author credit when the promotion is implemented")
	if err := viper.BindPFlags(promoteCreateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding promote create flags", err)
	}

	// Bind all flags of promoteReviewCmd to Viper
	promoteReviewCmd.Flags().String("action", "", "Review decision: approve, reject, request_changes")
	promoteReviewCmd.Flags().String("comments", "", "Review comments (mandatory)")
	promoteReviewCmd.Flags().String("reviewer-id", "", "Identifier of the reviewing admin")
	if err := viper.BindPFlags(promoteReviewCmd.Flags()); err != nil {
		contract.LogFatal("Error binding promote review flags", err)
	}

	// Bind all flags of promoteImplementCmd to Viper
	promoteImplementCmd.Flags().String("verified-template-id", "", "Identifier of the verified template that was created")
	promoteImplementCmd.Flags().String("notes", "", "Implementation notes")
	if err := viper.BindPFlags(promoteImplementCmd.Flags()); err != nil {
		contract.LogFatal("Error binding promote implement flags", err)
	}

	// Bind all flags of promoteListCmd to Viper
	promoteListCmd.Flags().Bool("high-priority", false, "Show only high and urgent priority requests")
	if err := viper.BindPFlags(promoteListCmd.Flags()); err != nil {
		contract.LogFatal("Error binding promote list flags", err)
	}

	// Bind all flags of storeMigrateCmd to Viper
	storeMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(storeMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding store migrate flags", err)
	}
}
