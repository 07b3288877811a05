package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

var csvHeader = []string{
	"trade_id", "instrument", "direction", "entry_price", "stop_loss", "size",
	"leverage", "open_time", "close_time", "realized_pl", "status", "session",
	"violations",
}

// ExportCSV writes the given trades to a CSV file, header first.
func ExportCSV(path string, recs []TradeRecord) error {
	fd, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fd.Close()

	w := csv.NewWriter(fd)
	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, t := range recs {
		closeTime := ""
		if !t.CloseTime.IsZero() {
			closeTime = t.CloseTime.Format(time.RFC3339)
		}
		row := []string{
			t.TradeID,
			t.Instrument,
			string(t.Direction),
			f(t.EntryPrice),
			f(t.StopLoss),
			f(t.Size),
			f(t.Leverage),
			t.OpenTime.Format(time.RFC3339),
			closeTime,
			f(t.RealizedPL),
			string(t.Status),
			t.Session,
			t.Violations,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func f(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
