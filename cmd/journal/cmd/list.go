package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/journal/journal"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List journaled trades",
	Long: `List trades from the journal.

Subcommands:
  all    - every trade, oldest first
  today  - trades closed today
  day    - trades closed on a specific day

Pass --opened to today/day to select by open time instead, which includes
positions that are still open.

Examples:
  journal list all
  journal list today
  journal list day 2026-03-02 --opened`,
}

var listAllCmd = &cobra.Command{
	Use:   "all",
	Short: "List every trade",
	Args:  cobra.NoArgs,
	RunE:  runListAll,
}

var listTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "List trades closed today",
	Args:  cobra.NoArgs,
	RunE:  runListToday,
}

var listDayCmd = &cobra.Command{
	Use:   "day <YYYY-MM-DD>",
	Short: "List trades closed on a specific day",
	Args:  cobra.ExactArgs(1),
	RunE:  runListDay,
}

var listByOpen bool

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.AddCommand(listAllCmd)
	listCmd.AddCommand(listTodayCmd)
	listCmd.AddCommand(listDayCmd)

	listTodayCmd.Flags().BoolVar(&listByOpen, "opened", false, "select by open time instead of close time")
	listDayCmd.Flags().BoolVar(&listByOpen, "opened", false, "select by open time instead of close time")
}

func runListAll(cmd *cobra.Command, args []string) error {
	j, err := openStore()
	if err != nil {
		return err
	}
	defer j.Close()

	recs, err := j.ListTrades()
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}
	printTrades(recs)
	return nil
}

func runListToday(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	loc := cfg.Sessions.Location()
	return listDay(time.Now().In(loc).Format("2006-01-02"), loc)
}

func runListDay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return listDay(args[0], cfg.Sessions.Location())
}

func listDay(day string, loc *time.Location) error {
	j, err := openStore()
	if err != nil {
		return err
	}
	defer j.Close()

	start, end, err := dayBounds(loc, day)
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}

	var recs []journal.TradeRecord
	if listByOpen {
		recs, err = j.ListTradesOpenedBetween(start, end)
	} else {
		recs, err = j.ListTradesClosedBetween(start, end)
	}
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}
	printTrades(recs)
	return nil
}

func dayBounds(loc *time.Location, day string) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1), nil
}

func printTrades(recs []journal.TradeRecord) {
	if len(recs) == 0 {
		fmt.Println("no trades")
		return
	}
	for _, t := range recs {
		line := fmt.Sprintf("%s  %-10s %-5s size %.4f @ %.5f", t.TradeID, t.Instrument, t.Direction, t.Size, t.EntryPrice)
		if t.IsClosed() {
			line += fmt.Sprintf("  closed %s  P/L %.2f", t.CloseTime.Format("2006-01-02 15:04"), t.RealizedPL)
		} else {
			line += "  open"
		}
		if t.Violations != "" {
			line += "  [" + t.Violations + "]"
		}
		fmt.Println(line)
	}
}
