package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/journal/config"
	"github.com/rustyeddy/journal/journal"
)

var rootCmd = &cobra.Command{
	Use:   "journal",
	Short: "A personal trading journal with rule and risk enforcement",
	Long: `Journal is a terminal-first personal trading journal.

Every trade is checked against your own safety rules before it is recorded:
risk caps, trade-count limits, trading hours, sessions, cooldowns, loss
streaks, drawdown responses, and binding goals. Critical violations block the
trade and can trigger a temporary lockout.

Common workflows:
  journal check -i EURUSD -e 1.085 -s 1.080 -q 1000   # pre-trade check
  journal status                                      # overall risk status
  journal simulate -i EURUSD -e 1.085 -s 1.080 -q 1000
  journal log open ... / journal log close <id> ...
  journal unblock                                     # manual lockout override`,
}

var (
	dbPath  string
	cfgPath string
	verbose bool

	log zerolog.Logger
)

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// A .env next to the binary can set JOURNAL_DB and JOURNAL_CONFIG.
	_ = godotenv.Load()

	defaultDB := os.Getenv("JOURNAL_DB")
	if defaultDB == "" {
		defaultDB = "./journal.sqlite"
	}
	defaultCfg := os.Getenv("JOURNAL_CONFIG")
	if defaultCfg == "" {
		defaultCfg = "./journal.yaml"
	}

	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", defaultDB, "path to SQLite journal DB")
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", defaultCfg, "path to settings file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	cobra.OnInitialize(func() {
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(level).
			With().Timestamp().Logger()
	})
}

func openStore() (*journal.SQLite, error) {
	j, err := journal.NewSQLite(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	log.Debug().Str("db", dbPath).Msg("journal store opened")
	return j, nil
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFromFile(cfgPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Warn().Str("config", cfgPath).Msg("no settings file, using defaults")
			return config.Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

func saveConfig(cfg *config.Config) error {
	if err := cfg.SaveToFile(cfgPath); err != nil {
		return err
	}
	log.Debug().Str("config", cfgPath).Msg("settings saved")
	return nil
}
