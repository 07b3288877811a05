package goals

import "time"

// Period is the calendar window a goal is measured over.
type Period string

const (
	Daily   Period = "daily"
	Weekly  Period = "weekly"
	Monthly Period = "monthly"
	Yearly  Period = "yearly"
)

// Metric is what a goal measures.
type Metric string

const (
	MetricPnL        Metric = "pnl"
	MetricWinRate    Metric = "win_rate"
	MetricTradeCount Metric = "trade_count"
)

// Constraint is a transient trading restriction derived from a binding goal.
// Exactly one kind is active per constraint.
type Constraint struct {
	Kind string `json:"kind"` // "session", "hours", "max_trades", "max_loss"

	Session   string  `json:"session,omitempty"`
	StartHour int     `json:"start_hour,omitempty"`
	EndHour   int     `json:"end_hour,omitempty"`
	MaxTrades int     `json:"max_trades,omitempty"`
	MaxLoss   float64 `json:"max_loss,omitempty"`
}

const (
	ConstraintSession   = "session"
	ConstraintHours     = "hours"
	ConstraintMaxTrades = "max_trades"
	ConstraintMaxLoss   = "max_loss"
)

// Consequence describes what happens to the settings when a binding goal's
// period ends short of its target.
type Consequence struct {
	CooldownHours int     `json:"cooldown_hours,omitempty"`
	ReduceRiskPct float64 `json:"reduce_risk_pct,omitempty"`
	PartialBlock  bool    `json:"partial_block,omitempty"`
	FullBlock     bool    `json:"full_block,omitempty"`
}

// Goal is one trading goal. Current is maintained by the surrounding
// goal-tracking layer; the risk engine only reads it.
type Goal struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Period      Period       `json:"period"`
	Metric      Metric       `json:"metric"`
	Target      float64      `json:"target"`
	Current     float64      `json:"current"`
	Primary     bool         `json:"primary"`
	Binding     bool         `json:"binding"`
	Constraint  *Constraint  `json:"constraint,omitempty"`
	Consequence *Consequence `json:"consequence,omitempty"`
}

// PeriodBounds returns the [start, end) window of the goal's current period
// at the given instant, in the trader's zone. Weeks start on Monday.
func (g Goal) PeriodBounds(now time.Time, loc *time.Location) (time.Time, time.Time) {
	local := now.In(loc)
	y, m, d := local.Date()

	switch g.Period {
	case Weekly:
		day := time.Date(y, m, d, 0, 0, 0, 0, loc)
		offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
		start := day.AddDate(0, 0, -offset)
		return start, start.AddDate(0, 0, 7)
	case Monthly:
		start := time.Date(y, m, 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 1, 0)
	case Yearly:
		start := time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(1, 0, 0)
	default: // Daily
		start := time.Date(y, m, d, 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 0, 1)
	}
}

// Active reports whether the goal should currently constrain trading: it is
// binding and carries a constraint descriptor.
func (g Goal) Active() bool {
	return g.Binding && g.Constraint != nil
}

// Reached reports whether the goal's running progress meets its target.
func (g Goal) Reached() bool {
	return g.Current >= g.Target
}

// FailureKey returns the dedup key for consequence application on the given
// local day. Consequences for one failed goal are applied at most once per
// (goal, failure date).
func (g Goal) FailureKey(now time.Time, loc *time.Location) (goalID, failureDate string) {
	return g.ID, now.In(loc).Format("2006-01-02")
}
