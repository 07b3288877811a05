package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/journal/journal"
	"github.com/rustyeddy/journal/pkg/id"
	"github.com/rustyeddy/journal/risk"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Record trades in the journal",
	Long: `Record trades after they pass the rule check.

Subcommands:
  open   - record a new position (runs the rule check first)
  close  - close an open position with its realized P/L

Examples:
  journal log open -i EURUSD -e 1.0850 -s 1.0800 -q 1000
  journal log close 01HQZX... --pl -42.50`,
}

var logOpenCmd = &cobra.Command{
	Use:   "open",
	Short: "Record a new position",
	RunE:  runLogOpen,
}

var logCloseCmd = &cobra.Command{
	Use:   "close <trade-id> --pl <realized-pl>",
	Short: "Close an open position",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogClose,
}

var (
	logOverride bool
	logClosePL  float64
	logSession  string
)

func init() {
	rootCmd.AddCommand(logCmd)
	logCmd.AddCommand(logOpenCmd)
	logCmd.AddCommand(logCloseCmd)

	candidateFlags(logOpenCmd)
	logOpenCmd.Flags().BoolVar(&logOverride, "override", false, "record despite warnings")
	logOpenCmd.Flags().StringVar(&logSession, "session", "", "session tag (default: derived from the clock)")

	logCloseCmd.Flags().Float64Var(&logClosePL, "pl", 0, "realized profit or loss (required)")
	logCloseCmd.MarkFlagRequired("pl")
}

func runLogOpen(cmd *cobra.Command, args []string) error {
	engine, j, cfg, err := buildEngine()
	if err != nil {
		return err
	}
	defer j.Close()

	c := candidate()
	violations := engine.Evaluate(c)
	risk.SortBySeverity(violations)
	printViolations(violations)

	if risk.HasErrors(violations) {
		if risk.ShouldTriggerLockout(cfg.Lockout, violations) {
			cfg.Lockout = risk.TriggerLockout(cfg.Lockout, engine.Now())
			if err := saveConfig(cfg); err != nil {
				return err
			}
			log.Warn().Time("until", *cfg.Lockout.BlockedUntil).Msg("lockout triggered")
		}
		if size, ok := engine.SuggestSafeSize(c, violations); ok {
			fmt.Printf("suggested safe size: %.4f\n", size)
		}
		return fmt.Errorf("trade blocked by %d rule violation(s)", countErrors(violations))
	}

	warned := false
	for _, v := range violations {
		if v.Severity == risk.SeverityWarning {
			warned = true
			break
		}
	}
	if warned && !logOverride {
		return fmt.Errorf("trade has warnings; pass --override to record anyway")
	}

	now := engine.Now()
	session := logSession
	if session == "" {
		session = string(risk.SessionAt(now))
	}

	rec := journal.TradeRecord{
		TradeID:    id.New(),
		Instrument: c.Instrument,
		Direction:  c.Direction,
		EntryPrice: c.Entry,
		StopLoss:   c.Stop,
		Size:       c.Size,
		Leverage:   c.Leverage,
		OpenTime:   now,
		Status:     journal.Open,
		Session:    session,
		Violations: journal.JoinViolationCodes(risk.Codes(violations)),
	}

	if err := j.RecordTrade(rec); err != nil {
		return fmt.Errorf("record trade: %w", err)
	}

	log.Info().Str("trade", rec.TradeID).Str("instrument", rec.Instrument).Msg("trade recorded")
	fmt.Printf("recorded %s\n", rec.TradeID)
	return nil
}

func runLogClose(cmd *cobra.Command, args []string) error {
	j, err := openStore()
	if err != nil {
		return err
	}
	defer j.Close()

	tradeID := args[0]
	if err := j.CloseTrade(tradeID, time.Now(), logClosePL); err != nil {
		return fmt.Errorf("close trade: %w", err)
	}

	log.Info().Str("trade", tradeID).Float64("pl", logClosePL).Msg("trade closed")
	fmt.Printf("closed %s (P/L %.2f)\n", tradeID, logClosePL)
	return nil
}
