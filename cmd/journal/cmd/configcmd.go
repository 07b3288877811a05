package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/journal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate or inspect the settings file",
	Long: `Manage the journal settings file.

Subcommands:
  init  - write a default settings file
  show  - print the loaded (normalized) settings

Examples:
  journal config init
  journal config show`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default settings file",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the loaded settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if err := cfg.SaveToFile(cfgPath); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Printf("✓ created default settings: %s\n", cfgPath)
	fmt.Println("\nEdit the file, then run:")
	fmt.Println("  journal status")
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Printf("base capital: %.2f\n", cfg.Account.BaseCapital())
	fmt.Printf("risk: %.2f%% per trade, %.2f%% per day, %.2f%% per week\n",
		cfg.Risk.MaxRiskPerTradePct, cfg.Risk.MaxDailyRiskPct, cfg.Risk.MaxWeeklyRiskPct)
	fmt.Printf("drawdown: max %.2f%%, mode %s\n", cfg.Risk.MaxDrawdownPct, cfg.Risk.DrawdownMode)
	fmt.Printf("trades: %d/day, %d/week\n", cfg.Rules.MaxTradesPerDay, cfg.Rules.MaxTradesPerWeek)
	if cfg.Rules.HoursEnabled {
		fmt.Printf("hours: %02d:00-%02d:59\n", cfg.Rules.StartHour, cfg.Rules.EndHour)
	}
	fmt.Printf("discipline: %dm cooldown, %d loss streak max\n",
		cfg.Discipline.CooldownMinutes, cfg.Discipline.MaxConsecutiveLosses)
	fmt.Printf("timezone: %s\n", cfg.Sessions.Timezone)
	if cfg.Lockout.BlockedUntil != nil {
		fmt.Printf("lockout until: %s\n", cfg.Lockout.BlockedUntil.Format("2006-01-02 15:04"))
	}
	return nil
}
