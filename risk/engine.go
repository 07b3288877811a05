package risk

import (
	"time"

	"github.com/rustyeddy/journal/config"
	"github.com/rustyeddy/journal/goals"
	"github.com/rustyeddy/journal/journal"
)

// ConsequenceLog is the append-only record of applied goal consequences,
// keyed by (goal, failure date). The journal store implements it.
type ConsequenceLog interface {
	ConsequenceApplied(goalID, failureDate string) (bool, error)
	MarkConsequenceApplied(goalID, failureDate string, at time.Time) error
}

// ConfigPatch is the settings change a failed binding goal demands. The
// caller persists the mutated configuration.
type ConfigPatch struct {
	GoalID         string
	FailureDate    string
	Cooldown       time.Duration
	RiskMultiplier float64 // applied to max risk per trade; 1 = unchanged
	PartialBlock   bool
	FullBlock      bool
}

// Engine evaluates rules against in-memory snapshots. It performs no I/O and
// keeps no hidden state; re-running any operation with identical inputs gives
// identical answers.
type Engine struct {
	Trades []journal.TradeRecord
	Cfg    *config.Config
	Goals  []goals.Goal

	// Now is swappable for tests and simulations.
	Now func() time.Time
}

func NewEngine(trades []journal.TradeRecord, cfg *config.Config, gs []goals.Goal) *Engine {
	return &Engine{
		Trades: trades,
		Cfg:    cfg,
		Goals:  gs,
		Now:    time.Now,
	}
}

func (e *Engine) loc() *time.Location {
	return e.Cfg.Sessions.Location()
}

// DrawdownPct derives the current drawdown from the capital base: how far the
// manually tracked capital sits below the configured account size, as a
// percentage. Without manual tracking there is no measurable drawdown.
func (e *Engine) DrawdownPct() float64 {
	a := e.Cfg.Account
	if !a.ManualCapital || a.AccountSize <= 0 || a.CurrentCapital >= a.AccountSize {
		return 0
	}
	return (a.AccountSize - a.CurrentCapital) / a.AccountSize * 100
}

func (e *Engine) input(c Candidate) Input {
	now := e.Now()
	loc := e.loc()
	return Input{
		Candidate:   c,
		Agg:         Aggregate(e.Trades, now, loc),
		Cfg:         e.Cfg,
		Goals:       e.Goals,
		DrawdownPct: e.DrawdownPct(),
		Now:         now,
		Loc:         loc,
	}
}

// Evaluate runs the full rule catalog against the candidate.
func (e *Engine) Evaluate(c Candidate) []Violation {
	return Evaluate(e.input(c))
}

// GlobalRiskStatus answers "may I trade right now" independent of any
// candidate. Candidate-shaped rules skip on the empty candidate; history and
// configuration rules still apply, and a live lockout wins over everything.
func (e *Engine) GlobalRiskStatus() RiskStatus {
	in := e.input(Candidate{})
	return GlobalStatus(in, Evaluate(in))
}

// SuggestSafeSize derives the largest size satisfying the violated caps.
func (e *Engine) SuggestSafeSize(c Candidate, violations []Violation) (float64, bool) {
	return SuggestSafeSize(e.input(c), violations)
}

// SimulationResult is the what-if answer for a hypothetical candidate.
type SimulationResult struct {
	BeforeDailyRiskPct float64
	AfterDailyRiskPct  float64
	WouldTrigger       []Violation
	FinalStatus        OverallStatus
}

// Simulate evaluates the candidate as if it were already journaled, without
// touching history, settings or lockout state. WouldTrigger lists only the
// rules the candidate newly breaks compared to the current baseline.
func (e *Engine) Simulate(c Candidate) SimulationResult {
	now := e.Now()
	loc := e.loc()
	base := e.Cfg.Account.BaseCapital()

	baseline := e.input(Candidate{})
	baselineViolations := Evaluate(baseline)

	// The catalog's checks already reason "count so far + 1" and
	// "risk so far + candidate", so evaluating the candidate against the
	// current aggregates is exactly the world with it included.
	in := e.input(c)
	violations := Evaluate(in)

	// The after figure recomputes aggregates with the candidate journaled
	// as an open trade.
	hypothetical := append(append([]journal.TradeRecord{}, e.Trades...), journal.TradeRecord{
		TradeID:    "hypothetical",
		Instrument: c.Instrument,
		Direction:  c.Direction,
		EntryPrice: c.Entry,
		StopLoss:   c.Stop,
		Size:       c.Size,
		Leverage:   c.Leverage,
		OpenTime:   now,
		Status:     journal.Open,
		Session:    string(SessionAt(now)),
	})
	after := Aggregate(hypothetical, now, loc)

	res := SimulationResult{FinalStatus: GlobalStatus(in, violations).Overall}
	if base > 0 {
		res.BeforeDailyRiskPct = baseline.Agg.RiskToday / base * 100
		res.AfterDailyRiskPct = after.RiskToday / base * 100
	}

	existing := map[string]bool{}
	for _, v := range baselineViolations {
		existing[v.Code+"|"+v.Msg] = true
	}
	for _, v := range violations {
		if !existing[v.Code+"|"+v.Msg] {
			res.WouldTrigger = append(res.WouldTrigger, v)
		}
	}
	SortBySeverity(res.WouldTrigger)

	return res
}

// ApplyGoalConsequences applies a failed binding goal's consequence set
// exactly once per (goal, failure date). The first call on a given day
// mutates the engine's configuration (risk reduction, blocks, cooldown
// lockout), records the dedup key, and returns the patch; repeats return nil.
// Non-binding goals are informational and never touch the settings.
func (e *Engine) ApplyGoalConsequences(g goals.Goal, log ConsequenceLog) (*ConfigPatch, error) {
	if !g.Binding || g.Consequence == nil {
		return nil, nil
	}

	now := e.Now()
	goalID, failureDate := g.FailureKey(now, e.loc())

	applied, err := log.ConsequenceApplied(goalID, failureDate)
	if err != nil {
		return nil, err
	}
	if applied {
		return nil, nil
	}

	c := g.Consequence
	patch := &ConfigPatch{
		GoalID:         goalID,
		FailureDate:    failureDate,
		Cooldown:       time.Duration(c.CooldownHours) * time.Hour,
		RiskMultiplier: 1,
		PartialBlock:   c.PartialBlock,
		FullBlock:      c.FullBlock,
	}
	if c.ReduceRiskPct > 0 && c.ReduceRiskPct < 100 {
		patch.RiskMultiplier = 1 - c.ReduceRiskPct/100
	}

	e.Cfg.Risk.MaxRiskPerTradePct *= patch.RiskMultiplier
	if patch.PartialBlock {
		e.Cfg.Discipline.PartialBlock = true
	}
	if patch.FullBlock {
		e.Cfg.Discipline.FullBlock = true
	}
	if patch.Cooldown > 0 {
		e.Cfg.Lockout = TriggerLockoutFor(e.Cfg.Lockout, now, patch.Cooldown)
	}

	if err := log.MarkConsequenceApplied(goalID, failureDate, now); err != nil {
		return nil, err
	}
	return patch, nil
}
