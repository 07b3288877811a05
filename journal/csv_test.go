package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportCSV(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "trades.csv")

	open := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	recs := []TradeRecord{
		{
			TradeID: "T1", Instrument: "EURUSD", Direction: Long,
			EntryPrice: 1.085, StopLoss: 1.08, Size: 1000,
			OpenTime: open, CloseTime: open.Add(time.Hour),
			RealizedPL: 50, Status: Closed, Session: "london",
		},
		{
			TradeID: "T2", Instrument: "GBPUSD", Direction: Short,
			EntryPrice: 1.27, Size: 500, OpenTime: open.Add(2 * time.Hour),
			Status: Open, Violations: "REMINDER",
		},
	}

	require.NoError(t, ExportCSV(path, recs))

	fd, err := os.Open(path)
	require.NoError(t, err)
	defer fd.Close()

	rows, err := csv.NewReader(fd).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, "T1", rows[1][0])
	assert.Equal(t, "closed", rows[1][10])
	assert.Equal(t, "T2", rows[2][0])
	assert.Equal(t, "", rows[2][8]) // open trade has no close time
	assert.Equal(t, "REMINDER", rows[2][12])
}
