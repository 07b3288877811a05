package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Preview a trade without recording anything",
	Long: `Run the full rule evaluation as if the candidate were already in the
journal. Shows daily risk before and after, the rules the trade would newly
trigger, and the resulting status. Nothing is written.

Example:
  journal simulate -i EURUSD -e 1.0850 -s 1.0800 -q 1000`,
	RunE: runSimulate,
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	candidateFlags(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	engine, j, _, err := buildEngine()
	if err != nil {
		return err
	}
	defer j.Close()

	res := engine.Simulate(candidate())

	fmt.Printf("daily risk: %.2f%% -> %.2f%% of capital\n",
		res.BeforeDailyRiskPct, res.AfterDailyRiskPct)

	if len(res.WouldTrigger) == 0 {
		fmt.Println("no new rules triggered")
	} else {
		fmt.Println("would trigger:")
		printViolations(res.WouldTrigger)
	}

	fmt.Printf("resulting status: %s\n", res.FinalStatus)
	return nil
}
