package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/journal/risk"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the overall risk status",
	Long: `Combine lockout state, rule violations and drawdown response into one
overall status: operable, warning or blocked. Reasons are listed most severe
first.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	engine, j, _, err := buildEngine()
	if err != nil {
		return err
	}
	defer j.Close()

	st := engine.GlobalRiskStatus()

	switch st.Overall {
	case risk.StatusBlocked:
		fmt.Println("status: BLOCKED")
	case risk.StatusWarning:
		fmt.Println("status: warning")
	default:
		fmt.Println("status: operable")
	}

	fmt.Printf("caps: %.2f%% per trade, %.2f%% per day, %.2f%% max drawdown\n",
		st.MaxRiskPerTradePct, st.MaxDailyRiskPct, st.MaxDrawdownPct)

	for _, r := range st.Reasons {
		fmt.Printf("  - %s\n", r)
	}
	return nil
}
