package journal

import (
	"database/sql"
	"fmt"
	"time"
)

const tradeColumns = `trade_id, instrument, direction, entry_price, stop_loss, size, leverage,
	open_time, close_time, realized_pl, status, session, violations`

func scanTrade(scan func(dest ...any) error) (TradeRecord, error) {
	var rec TradeRecord
	var direction, status string
	var closeTime sql.NullTime

	err := scan(
		&rec.TradeID,
		&rec.Instrument,
		&direction,
		&rec.EntryPrice,
		&rec.StopLoss,
		&rec.Size,
		&rec.Leverage,
		&rec.OpenTime,
		&closeTime,
		&rec.RealizedPL,
		&status,
		&rec.Session,
		&rec.Violations,
	)
	if err != nil {
		return TradeRecord{}, err
	}

	rec.Direction = Direction(direction)
	rec.Status = Status(status)
	if closeTime.Valid {
		rec.CloseTime = closeTime.Time
	}
	return rec, nil
}

// GetTrade returns a single trade record by ID.
func (j *SQLite) GetTrade(tradeID string) (TradeRecord, error) {
	row := j.db.QueryRow(`
		SELECT `+tradeColumns+`
		FROM trades
		WHERE trade_id = ?`, tradeID)

	rec, err := scanTrade(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return TradeRecord{}, fmt.Errorf("trade %q not found", tradeID)
		}
		return TradeRecord{}, err
	}
	return rec, nil
}

// ListTrades returns all trades ordered by open time, oldest first. This is
// the snapshot the risk engine aggregates over.
func (j *SQLite) ListTrades() ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT ` + tradeColumns + `
		FROM trades
		ORDER BY open_time ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTrades(rows)
}

// ListTradesOpenedBetween returns trades whose open_time is within [start, end).
func (j *SQLite) ListTradesOpenedBetween(start, end time.Time) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT `+tradeColumns+`
		FROM trades
		WHERE open_time >= ? AND open_time < ?
		ORDER BY open_time ASC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTrades(rows)
}

// ListTradesClosedBetween returns closed trades whose close_time is within
// [start, end).
func (j *SQLite) ListTradesClosedBetween(start, end time.Time) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT `+tradeColumns+`
		FROM trades
		WHERE status = ? AND close_time >= ? AND close_time < ?
		ORDER BY close_time ASC`, string(Closed), start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTrades(rows)
}

func collectTrades(rows *sql.Rows) ([]TradeRecord, error) {
	var out []TradeRecord
	for rows.Next() {
		rec, err := scanTrade(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
