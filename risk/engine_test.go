package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/journal/config"
	"github.com/rustyeddy/journal/goals"
	"github.com/rustyeddy/journal/journal"
)

// memLog is an in-memory ConsequenceLog for engine tests.
type memLog struct {
	applied map[string]bool
}

func newMemLog() *memLog { return &memLog{applied: map[string]bool{}} }

func (m *memLog) ConsequenceApplied(goalID, failureDate string) (bool, error) {
	return m.applied[goalID+"|"+failureDate], nil
}

func (m *memLog) MarkConsequenceApplied(goalID, failureDate string, _ time.Time) error {
	m.applied[goalID+"|"+failureDate] = true
	return nil
}

func testEngine(trades []journal.TradeRecord, cfg *config.Config, gs []goals.Goal) *Engine {
	e := NewEngine(trades, cfg, gs)
	e.Now = func() time.Time { return time.Date(2026, 3, 4, 14, 0, 0, 0, time.UTC) }
	return e
}

func TestEngineEvaluateUsesHistory(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Rules.MaxTradesPerDay = 3

	now := time.Date(2026, 3, 4, 14, 0, 0, 0, time.UTC)
	trades := []journal.TradeRecord{
		openTrade(now.Add(-1*time.Hour), 1.1, 1.09, 100, 0),
		openTrade(now.Add(-2*time.Hour), 1.1, 1.09, 100, 0),
		openTrade(now.Add(-3*time.Hour), 1.1, 1.09, 100, 0),
	}

	e := testEngine(trades, cfg, nil)
	violations := e.Evaluate(Candidate{Instrument: "EURUSD", Entry: 1.1, Size: 100})
	assert.Contains(t, Codes(violations), RuleMaxTradesDay)
	assert.True(t, HasErrors(violations))
}

func TestEngineGlobalRiskStatusSkipsCandidateRules(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Risk.MaxRiskPerTradePct = 2
	cfg.Rules.MaxPositionSize = 10

	// Candidate-shaped caps are configured but no candidate exists, so the
	// global answer is operable.
	e := testEngine(nil, cfg, nil)
	st := e.GlobalRiskStatus()
	assert.Equal(t, StatusOperable, st.Overall)
}

func TestEngineGlobalRiskStatusBlockedByLockout(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	e := testEngine(nil, cfg, nil)
	until := e.Now().Add(time.Hour)
	cfg.Lockout.BlockedUntil = &until

	st := e.GlobalRiskStatus()
	assert.Equal(t, StatusBlocked, st.Overall)
}

func TestEngineDrawdownPct(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Account.ManualCapital = true
	cfg.Account.CurrentCapital = 8_800

	e := testEngine(nil, cfg, nil)
	assert.InDelta(t, 12, e.DrawdownPct(), 1e-9)

	cfg.Account.CurrentCapital = 11_000 // above water
	assert.Zero(t, e.DrawdownPct())

	cfg.Account.ManualCapital = false
	assert.Zero(t, e.DrawdownPct())
}

func TestEngineWarnOnlyDrawdownYieldsWarning(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Risk.MaxDrawdownPct = 10
	cfg.Account.ManualCapital = true
	cfg.Account.CurrentCapital = 8_800 // 12% down

	e := testEngine(nil, cfg, nil)
	st := e.GlobalRiskStatus()
	assert.Equal(t, StatusWarning, st.Overall)
	require.NotEmpty(t, st.Reasons)
	assert.Contains(t, st.Reasons[0], "drawdown")
}

func TestEngineSimulateRiskFigures(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	now := time.Date(2026, 3, 4, 14, 0, 0, 0, time.UTC)
	trades := []journal.TradeRecord{
		openTrade(now.Add(-time.Hour), 100, 95, 40, 0), // 200 at risk, 2%
	}

	e := testEngine(trades, cfg, nil)
	res := e.Simulate(Candidate{Instrument: "EURUSD", Entry: 100, Stop: 95, Size: 60})

	assert.InDelta(t, 2, res.BeforeDailyRiskPct, 1e-9)
	assert.InDelta(t, 5, res.AfterDailyRiskPct, 1e-9)
	assert.Equal(t, StatusOperable, res.FinalStatus)
	assert.Empty(t, res.WouldTrigger)
}

func TestEngineSimulateReportsOnlyNewViolations(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Risk.MaxRiskPerTradePct = 2
	cfg.Rules.Reminders = []string{"breathe"} // fires with and without a candidate

	e := testEngine(nil, cfg, nil)
	res := e.Simulate(Candidate{Instrument: "EURUSD", Entry: 100, Stop: 95, Size: 60})

	require.Len(t, res.WouldTrigger, 1)
	assert.Equal(t, RuleRiskPerTrade, res.WouldTrigger[0].Code)
	assert.Equal(t, StatusBlocked, res.FinalStatus)
}

func TestEngineSimulateDoesNotMutate(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Rules.MaxTradesPerDay = 1

	e := testEngine(nil, cfg, nil)
	e.Simulate(Candidate{Instrument: "EURUSD", Entry: 100, Stop: 95, Size: 60})

	assert.Empty(t, e.Trades)
	assert.Nil(t, cfg.Lockout.BlockedUntil)
}

func TestApplyGoalConsequencesOnce(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Risk.MaxRiskPerTradePct = 2

	g := goals.Goal{
		ID: "G1", Name: "green week", Binding: true,
		Consequence: &goals.Consequence{
			CooldownHours: 12,
			ReduceRiskPct: 50,
			PartialBlock:  true,
		},
	}

	e := testEngine(nil, cfg, []goals.Goal{g})
	log := newMemLog()

	patch, err := e.ApplyGoalConsequences(g, log)
	require.NoError(t, err)
	require.NotNil(t, patch)
	assert.Equal(t, "G1", patch.GoalID)
	assert.Equal(t, "2026-03-04", patch.FailureDate)
	assert.InDelta(t, 0.5, patch.RiskMultiplier, 1e-9)
	assert.True(t, patch.PartialBlock)

	assert.InDelta(t, 1, cfg.Risk.MaxRiskPerTradePct, 1e-9)
	assert.True(t, cfg.Discipline.PartialBlock)
	require.NotNil(t, cfg.Lockout.BlockedUntil)
	assert.True(t, cfg.Lockout.BlockedUntil.Equal(e.Now().Add(12*time.Hour)))

	// The same failure on the same day is a no-op.
	patch, err = e.ApplyGoalConsequences(g, log)
	require.NoError(t, err)
	assert.Nil(t, patch)
	assert.InDelta(t, 1, cfg.Risk.MaxRiskPerTradePct, 1e-9, "risk reduction must not compound")
}

func TestApplyGoalConsequencesFreshDay(t *testing.T) {
	t.Parallel()

	g := goals.Goal{
		ID: "G1", Name: "daily cap", Binding: true,
		Consequence: &goals.Consequence{FullBlock: true},
	}

	e := testEngine(nil, testConfig(), []goals.Goal{g})
	log := newMemLog()

	patch, err := e.ApplyGoalConsequences(g, log)
	require.NoError(t, err)
	require.NotNil(t, patch)

	// A failure detected the next day applies again.
	e.Now = func() time.Time { return time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC) }
	patch, err = e.ApplyGoalConsequences(g, log)
	require.NoError(t, err)
	assert.NotNil(t, patch)
}

func TestApplyGoalConsequencesIgnoresNonBinding(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Risk.MaxRiskPerTradePct = 2

	// Non-binding goals are informational: a consequence descriptor on one
	// must never touch the settings.
	g := goals.Goal{
		ID: "G1", Name: "soft target",
		Consequence: &goals.Consequence{ReduceRiskPct: 50, FullBlock: true},
	}

	e := testEngine(nil, cfg, []goals.Goal{g})
	log := newMemLog()

	patch, err := e.ApplyGoalConsequences(g, log)
	require.NoError(t, err)
	assert.Nil(t, patch)
	assert.InDelta(t, 2, cfg.Risk.MaxRiskPerTradePct, 1e-9)
	assert.False(t, cfg.Discipline.FullBlock)
	assert.Empty(t, log.applied)
}

func TestApplyGoalConsequencesWithoutConsequence(t *testing.T) {
	t.Parallel()

	g := goals.Goal{ID: "G1", Name: "aspirational"}
	e := testEngine(nil, testConfig(), []goals.Goal{g})

	patch, err := e.ApplyGoalConsequences(g, newMemLog())
	require.NoError(t, err)
	assert.Nil(t, patch)
}
