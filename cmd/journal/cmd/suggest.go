package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/journal/risk"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest the largest rule-compliant position size",
	Long: `Evaluate a candidate and, if it breaks a size-relevant cap, print the
largest position size that would satisfy every violated cap.

Example:
  journal suggest -i EURUSD -e 100 -s 95 -q 50`,
	RunE: runSuggest,
}

func init() {
	rootCmd.AddCommand(suggestCmd)
	candidateFlags(suggestCmd)
}

func runSuggest(cmd *cobra.Command, args []string) error {
	engine, j, _, err := buildEngine()
	if err != nil {
		return err
	}
	defer j.Close()

	c := candidate()
	violations := engine.Evaluate(c)

	size, ok := engine.SuggestSafeSize(c, violations)
	if !ok {
		fmt.Println("no size-relevant violation; requested size is fine")
		return nil
	}

	risk.SortBySeverity(violations)
	printViolations(violations)
	fmt.Printf("suggested safe size: %.4f (requested %.4f)\n", size, c.Size)
	return nil
}
