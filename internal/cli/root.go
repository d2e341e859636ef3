package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tally/config"
	"tally/pkg/logger"
)

// RootConfig carries the global flags and the resolved runtime pieces every
// subcommand needs.
type RootConfig struct {
	ConfigPath string
	DBPath     string
	LogLevel   string
	Pretty     bool

	Cfg *config.Config
	Log zerolog.Logger
}

func NewRootCmd() *cobra.Command {
	rc := &RootConfig{}

	cmd := &cobra.Command{
		Use:           "tally",
		Short:         "Tally — realized P&L attribution for futures fill ledgers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global / persistent flags
	cmd.PersistentFlags().StringVar(&rc.ConfigPath, "config", "", "Path to config file (optional)")
	cmd.PersistentFlags().StringVar(&rc.DBPath, "db", "", "SQLite ledger database (overrides config)")
	cmd.PersistentFlags().StringVar(&rc.LogLevel, "log-level", "", "Log level: debug|info|warn|error (overrides config)")
	cmd.PersistentFlags().BoolVar(&rc.Pretty, "pretty", false, "Human-formatted log output")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg := config.Default()
		if rc.ConfigPath != "" {
			loaded, err := config.LoadFromFile(rc.ConfigPath)
			if err != nil {
				return err
			}
			cfg = loaded
		}
		if rc.DBPath != "" {
			cfg.Ledger.Store = "sqlite"
			cfg.Ledger.DBPath = rc.DBPath
		}
		if rc.LogLevel != "" {
			cfg.Logging.Level = rc.LogLevel
		}
		if rc.Pretty {
			cfg.Logging.Pretty = true
		}

		rc.Cfg = cfg
		rc.Log = logger.New(logger.Config{Level: cfg.Logging.Level, Pretty: cfg.Logging.Pretty})
		return nil
	}

	// Subcommands
	cmd.AddCommand(
		newIngestCmd(rc),
		newReportCmd(rc),
		newIntentCmd(rc),
	)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("tally (dev)")
		},
	})

	return cmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
