// Package root contains the root command for the application
package root

import (
	"dkhurana/bankledger/internal/config"
	"dkhurana/bankledger/internal/logging"
	"dkhurana/bankledger/internal/pipeline"
	"dkhurana/bankledger/internal/statement"
	"dkhurana/bankledger/internal/store"

	"github.com/spf13/cobra"
)

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// Cfg is the loaded configuration, available after PersistentPreRunE
	Cfg *config.Config

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "bankledger",
		Short: "A CLI tool to extract transactions from bank statements and categorize them.",
		Long: `bankledger parses bank statement PDFs and CSV exports into a local
transaction store and applies rule-based categorization to them.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to bankledger!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv()

			cfg, err := config.InitializeConfig()
			if err != nil {
				return err
			}
			Cfg = cfg
			Log = logging.NewLogrusAdapterFromLogger(config.ConfigureLoggingFromConfig(cfg))
			return nil
		},
	}
)

// OpenStore opens the configured database.
func OpenStore() (*store.Store, error) {
	return store.Open(Cfg.Database.Path, Log)
}

// NewPipeline builds the processing pipeline over an open store.
func NewPipeline(st *store.Store) *pipeline.Pipeline {
	parser := statement.NewParser(statement.NewPDFTextExtractor(), Log)
	return pipeline.New(Cfg, st, parser, Log)
}
