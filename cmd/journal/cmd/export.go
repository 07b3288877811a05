package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/journal/journal"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the journal to CSV",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

var exportOutput string

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "./trades.csv", "output CSV path")
}

func runExport(cmd *cobra.Command, args []string) error {
	j, err := openStore()
	if err != nil {
		return err
	}
	defer j.Close()

	recs, err := j.ListTrades()
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}

	if err := journal.ExportCSV(exportOutput, recs); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	log.Info().Int("trades", len(recs)).Str("path", exportOutput).Msg("journal exported")
	fmt.Printf("exported %d trade(s) to %s\n", len(recs), exportOutput)
	return nil
}
