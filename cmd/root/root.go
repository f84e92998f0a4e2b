// Package root contains the root command for the application
package root

import (
	"csvofx/internal/config"
	"csvofx/internal/exporter"
	"csvofx/internal/institutions"
	"csvofx/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cfg is the loaded application configuration
	Cfg *config.Config

	// Accounts is the loaded account registry
	Accounts *store.AccountStore

	// BaseKey overrides the batch group key derived from file names
	BaseKey string

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "csvofx",
		Short: "Convert institution CSV exports into OFX statement files.",
		Long: `csvofx recognizes bank, credit-card and brokerage CSV exports,
normalizes their transactions and writes OFX 2.x statement files,
reconciling account balances against a persistent history.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to csvofx!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv(Log)

			cfg, err := config.InitializeConfig()
			if err != nil {
				Log.Fatalf("Failed to load configuration: %v", err)
			}
			Cfg = cfg

			Log = config.ConfigureLogging(cfg)
			exporter.SetLogger(Log)

			accounts, err := store.OpenAccounts(cfg.Accounts.File)
			if err != nil {
				Log.Fatalf("Failed to load account registry: %v", err)
			}
			Accounts = accounts
		},
	}
)

// Init initializes the root command, its flags and the filter registry
func Init() {
	institutions.RegisterAll()
	Cmd.PersistentFlags().StringVarP(&BaseKey, "base", "b", "", "Batch key overriding the one derived from file names")
}

// NewExporter builds an exporter over the loaded configuration and
// account registry, syncing every account's balance history first.
func NewExporter() *exporter.Exporter {
	e, err := exporter.New(Cfg, Accounts)
	if err != nil {
		Log.Fatalf("Failed to initialize exporter: %v", err)
	}
	return e
}
