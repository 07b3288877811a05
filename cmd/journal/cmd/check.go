package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/journal/config"
	"github.com/rustyeddy/journal/journal"
	"github.com/rustyeddy/journal/risk"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check a candidate trade against your rules",
	Long: `Evaluate a proposed trade against every configured rule without
recording anything.

Errors block the trade, warnings need an explicit override when logging, info
lines are advisory. When ultra-discipline mode is armed, a blocked check also
starts the temporary lockout.

Example:
  journal check -i EURUSD --dir long -e 1.0850 -s 1.0800 -q 1000`,
	RunE: runCheck,
}

var (
	candInstrument string
	candDirection  string
	candEntry      float64
	candStop       float64
	candSize       float64
	candLeverage   float64
)

func candidateFlags(c *cobra.Command) {
	c.Flags().StringVarP(&candInstrument, "instrument", "i", "", "instrument, e.g. EURUSD (required)")
	c.Flags().StringVar(&candDirection, "dir", "long", "direction: long or short")
	c.Flags().Float64VarP(&candEntry, "entry", "e", 0, "entry price (required)")
	c.Flags().Float64VarP(&candStop, "stop", "s", 0, "stop-loss price")
	c.Flags().Float64VarP(&candSize, "size", "q", 0, "position size (required)")
	c.Flags().Float64VarP(&candLeverage, "leverage", "l", 0, "leverage (default 1)")
	c.MarkFlagRequired("instrument")
	c.MarkFlagRequired("entry")
	c.MarkFlagRequired("size")
}

func candidate() risk.Candidate {
	dir := journal.Long
	if strings.EqualFold(candDirection, string(journal.Short)) {
		dir = journal.Short
	}
	return risk.Candidate{
		Instrument: candInstrument,
		Direction:  dir,
		Entry:      candEntry,
		Stop:       candStop,
		Size:       candSize,
		Leverage:   candLeverage,
	}
}

func init() {
	rootCmd.AddCommand(checkCmd)
	candidateFlags(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	engine, j, cfg, err := buildEngine()
	if err != nil {
		return err
	}
	defer j.Close()

	c := candidate()
	violations := engine.Evaluate(c)
	risk.SortBySeverity(violations)

	printViolations(violations)

	if !risk.HasErrors(violations) {
		fmt.Println("✓ trade allowed")
		return nil
	}

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

func printViolations(violations []risk.Violation) {
	for _, v := range violations {
		switch v.Severity {
		case risk.SeverityError:
			fmt.Printf("✗ [%s] %s\n", v.Code, v.Msg)
		case risk.SeverityWarning:
			fmt.Printf("! [%s] %s\n", v.Code, v.Msg)
		default:
			fmt.Printf("· [%s] %s\n", v.Code, v.Msg)
		}
	}
}

func countErrors(violations []risk.Violation) int {
	n := 0
	for _, v := range violations {
		if v.Severity == risk.SeverityError {
			n++
		}
	}
	return n
}

// buildEngine loads all engine inputs as snapshots: the trade history, the
// settings bundle, and the goals.
func buildEngine() (*risk.Engine, *journal.SQLite, *config.Config, error) {
	j, err := openStore()
	if err != nil {
		return nil, nil, nil, err
	}

	cfg, err := loadConfig()
	if err != nil {
		j.Close()
		return nil, nil, nil, err
	}

	trades, err := j.ListTrades()
	if err != nil {
		j.Close()
		return nil, nil, nil, fmt.Errorf("load trades: %w", err)
	}

	gs, err := j.ListGoals()
	if err != nil {
		j.Close()
		return nil, nil, nil, fmt.Errorf("load goals: %w", err)
	}

	return risk.NewEngine(trades, cfg, gs), j, cfg, nil
}
