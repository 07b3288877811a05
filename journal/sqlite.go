package journal

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/journal/goals"
)

// SQLite is the on-disk store for trades, goals and the goal-consequence log.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordTrade(t TradeRecord) error {
	var closeTime interface{}
	if !t.CloseTime.IsZero() {
		closeTime = t.CloseTime
	}
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, instrument, direction, entry_price, stop_loss, size, leverage,
		 open_time, close_time, realized_pl, status, session, violations)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.Instrument, string(t.Direction), t.EntryPrice, t.StopLoss,
		t.Size, t.Leverage, t.OpenTime, closeTime, t.RealizedPL,
		string(t.Status), t.Session, t.Violations,
	)
	return err
}

// CloseTrade marks an open trade closed with its realized P/L.
func (j *SQLite) CloseTrade(tradeID string, closeTime time.Time, realizedPL float64) error {
	res, err := j.db.Exec(`
		UPDATE trades
		SET close_time = ?, realized_pl = ?, status = ?
		WHERE trade_id = ? AND status = ?`,
		closeTime, realizedPL, string(Closed), tradeID, string(Open),
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("trade %q not found or already closed", tradeID)
	}
	return nil
}

// SaveGoal inserts or replaces a goal.
func (j *SQLite) SaveGoal(g goals.Goal) error {
	constraintJSON, consequenceJSON := "", ""
	if g.Constraint != nil {
		b, err := json.Marshal(g.Constraint)
		if err != nil {
			return fmt.Errorf("marshal constraint: %w", err)
		}
		constraintJSON = string(b)
	}
	if g.Consequence != nil {
		b, err := json.Marshal(g.Consequence)
		if err != nil {
			return fmt.Errorf("marshal consequence: %w", err)
		}
		consequenceJSON = string(b)
	}

	_, err := j.db.Exec(`
		INSERT OR REPLACE INTO goals
		(goal_id, name, period, metric, target, current, is_primary, is_binding,
		 constraint_json, consequence_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.Name, string(g.Period), string(g.Metric), g.Target, g.Current,
		g.Primary, g.Binding, constraintJSON, consequenceJSON,
	)
	return err
}

// ListGoals returns all stored goals.
func (j *SQLite) ListGoals() ([]goals.Goal, error) {
	rows, err := j.db.Query(`
		SELECT goal_id, name, period, metric, target, current, is_primary, is_binding,
		       constraint_json, consequence_json
		FROM goals
		ORDER BY goal_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []goals.Goal
	for rows.Next() {
		var g goals.Goal
		var period, metric, constraintJSON, consequenceJSON string
		if err := rows.Scan(
			&g.ID, &g.Name, &period, &metric, &g.Target, &g.Current,
			&g.Primary, &g.Binding, &constraintJSON, &consequenceJSON,
		); err != nil {
			return nil, err
		}
		g.Period = goals.Period(period)
		g.Metric = goals.Metric(metric)
		if constraintJSON != "" {
			g.Constraint = &goals.Constraint{}
			if err := json.Unmarshal([]byte(constraintJSON), g.Constraint); err != nil {
				return nil, fmt.Errorf("goal %s: bad constraint: %w", g.ID, err)
			}
		}
		if consequenceJSON != "" {
			g.Consequence = &goals.Consequence{}
			if err := json.Unmarshal([]byte(consequenceJSON), g.Consequence); err != nil {
				return nil, fmt.Errorf("goal %s: bad consequence: %w", g.ID, err)
			}
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ConsequenceApplied reports whether consequences were already applied for
// (goalID, failureDate).
func (j *SQLite) ConsequenceApplied(goalID, failureDate string) (bool, error) {
	var n int
	err := j.db.QueryRow(`
		SELECT COUNT(*) FROM goal_consequences
		WHERE goal_id = ? AND failure_date = ?`, goalID, failureDate).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MarkConsequenceApplied records that consequences were applied. Re-marking
// the same key is a no-op, so repeated evaluation stays idempotent.
func (j *SQLite) MarkConsequenceApplied(goalID, failureDate string, at time.Time) error {
	_, err := j.db.Exec(`
		INSERT OR IGNORE INTO goal_consequences (goal_id, failure_date, applied_at)
		VALUES (?, ?, ?)`, goalID, failureDate, at)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
