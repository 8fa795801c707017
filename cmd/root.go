package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/abhisek/parley/internal/config"
	"github.com/abhisek/parley/internal/logging"
	"github.com/abhisek/parley/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "parley",
	Short: "Spoken English conversation practice",
	Long:  "Parley is a terminal conversation partner for practicing English by typing or speaking.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides PARLEY_DB env var)")
	rootCmd.PersistentFlags().String("config", config.DefaultFile, "Path to the JSON configuration file")
	rootCmd.Flags().Bool("resume", false, "Continue the saved conversation")

	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(topicsCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then PARLEY_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// loadConfig reads .env and the configuration file. A broken config file
// is reported and the defaults are used.
func loadConfig(cmd *cobra.Command, logger zerolog.Logger) config.Config {
	if err := config.LoadEnv(); err != nil {
		logger.Warn().Err(err).Msg("could not load .env")
	}
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		logger.Error().Err(err).Str("path", path).Msg("error loading config, using defaults")
	}
	return cfg
}

// cliLogger logs to stderr for the inspection subcommands.
func cliLogger() zerolog.Logger {
	l, err := logging.New(logging.Options{Console: os.Stderr, Level: zerolog.WarnLevel})
	if err != nil {
		return zerolog.Nop()
	}
	return l.Logger
}
