package main

import (
	"os"

	"content-engine-be/internal/config"
	"content-engine-be/internal/pkg/logger"
	"content-engine-be/pkg/database"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	verbose bool
	cfg     *config.Config
	sysLog  logger.ILogger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "contentctl",
	Short:         "Operator tooling for the content engine",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		sysLog = logger.NewZapLogger(cfg.App.LogFilePath, !verbose)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log SQL and debug output")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(backfillCmd)
	rootCmd.AddCommand(seedVoiceCmd)
	rootCmd.AddCommand(eventsCmd)
}

func openDB() (*gorm.DB, error) {
	return database.NewGormDBFromDSN(cfg.Database.Connection, !verbose)
}
