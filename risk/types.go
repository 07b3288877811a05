package risk

import (
	"math"
	"sort"
	"time"

	"github.com/rustyeddy/journal/config"
	"github.com/rustyeddy/journal/goals"
	"github.com/rustyeddy/journal/journal"
)

// Severity of a violation. Errors block the action, warnings surface but can
// be overridden, info is advisory only.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

func (s Severity) rank() int {
	switch s {
	case SeverityError:
		return 2
	case SeverityWarning:
		return 1
	default:
		return 0
	}
}

// Violation is one broken rule, modeled as data rather than an error value.
type Violation struct {
	Code     string
	Msg      string
	Severity Severity
}

// Candidate is a proposed trade that has not been committed to the journal.
type Candidate struct {
	Instrument string
	Direction  journal.Direction
	Entry      float64
	Stop       float64 // 0 = no stop
	Size       float64
	Leverage   float64 // 0 = 1x
}

// OverallStatus is the combined trading status.
type OverallStatus string

const (
	StatusOperable OverallStatus = "operable"
	StatusWarning  OverallStatus = "warning"
	StatusBlocked  OverallStatus = "blocked"
)

// RiskStatus is the aggregate answer to "may I trade right now, and why not".
type RiskStatus struct {
	Overall OverallStatus

	// Caps echoed from configuration for display.
	MaxRiskPerTradePct float64
	MaxDailyRiskPct    float64
	MaxDrawdownPct     float64

	// Reasons ordered most severe first, duplicates collapsed.
	Reasons []string
}

// Input is the full snapshot one evaluation runs against. Everything is
// supplied by the caller; no rule performs I/O.
type Input struct {
	Candidate   Candidate
	Agg         Aggregates
	Cfg         *config.Config
	Goals       []goals.Goal
	DrawdownPct float64
	Now         time.Time
	Loc         *time.Location
}

// HasErrors reports whether any violation carries error severity.
func HasErrors(vs []Violation) bool {
	for _, v := range vs {
		if v.Severity == SeverityError {
			return true
		}
	}
	return false
}

// SortBySeverity orders violations most severe first, stable within a level,
// for display. Evaluation order itself never affects the result set.
func SortBySeverity(vs []Violation) {
	sort.SliceStable(vs, func(i, k int) bool {
		return vs[i].Severity.rank() > vs[k].Severity.rank()
	})
}

// Codes extracts the rule codes, in order.
func Codes(vs []Violation) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.Code)
	}
	return out
}

// finite reports whether v is usable in rule math. NaN or infinite values
// mean the rule is not evaluable, never that it triggered.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
