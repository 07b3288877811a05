package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobalStatusOperable(t *testing.T) {
	t.Parallel()

	st := GlobalStatus(testInput(testConfig()), nil)
	assert.Equal(t, StatusOperable, st.Overall)
	assert.Empty(t, st.Reasons)
}

func TestGlobalStatusEchoesCaps(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Risk.MaxRiskPerTradePct = 2
	cfg.Risk.MaxDailyRiskPct = 6
	cfg.Risk.MaxDrawdownPct = 10

	st := GlobalStatus(testInput(cfg), nil)
	assert.InDelta(t, 2, st.MaxRiskPerTradePct, 1e-9)
	assert.InDelta(t, 6, st.MaxDailyRiskPct, 1e-9)
	assert.InDelta(t, 10, st.MaxDrawdownPct, 1e-9)
}

func TestGlobalStatusErrorBlocks(t *testing.T) {
	t.Parallel()

	violations := []Violation{
		{Code: RuleReminder, Msg: "note", Severity: SeverityInfo},
		{Code: RuleMaxTradesDay, Msg: "too many trades", Severity: SeverityError},
	}

	st := GlobalStatus(testInput(testConfig()), violations)
	assert.Equal(t, StatusBlocked, st.Overall)
	// Most severe reason first.
	require.NotEmpty(t, st.Reasons)
	assert.Equal(t, "too many trades", st.Reasons[0])
}

func TestGlobalStatusWarningDegrades(t *testing.T) {
	t.Parallel()

	violations := []Violation{{Code: RuleDrawdown, Msg: "drawdown", Severity: SeverityWarning}}
	st := GlobalStatus(testInput(testConfig()), violations)
	assert.Equal(t, StatusWarning, st.Overall)
}

func TestGlobalStatusWarnOnlyDrawdownStillDegrades(t *testing.T) {
	t.Parallel()

	// In warn-only mode the drawdown violation is advisory, but the overall
	// status still reads warning.
	violations := []Violation{{Code: RuleDrawdown, Msg: "drawdown 12% over 10%", Severity: SeverityInfo}}
	st := GlobalStatus(testInput(testConfig()), violations)
	assert.Equal(t, StatusWarning, st.Overall)
}

func TestGlobalStatusPlainInfoStaysOperable(t *testing.T) {
	t.Parallel()

	violations := []Violation{{Code: RuleDailyProfitHit, Msg: "target reached", Severity: SeverityInfo}}
	st := GlobalStatus(testInput(testConfig()), violations)
	assert.Equal(t, StatusOperable, st.Overall)
	assert.Equal(t, []string{"target reached"}, st.Reasons)
}

func TestGlobalStatusLockoutWins(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	in := testInput(cfg)
	until := in.Now.Add(time.Hour)
	cfg.Lockout.BlockedUntil = &until

	st := GlobalStatus(in, nil)
	assert.Equal(t, StatusBlocked, st.Overall)
	require.Len(t, st.Reasons, 1)
	assert.Contains(t, st.Reasons[0], "temporary lockout until")
}

func TestGlobalStatusFullBlock(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Discipline.FullBlock = true

	st := GlobalStatus(testInput(cfg), nil)
	assert.Equal(t, StatusBlocked, st.Overall)
	assert.Contains(t, st.Reasons, "trading fully blocked by a goal consequence")
}

func TestGlobalStatusDedupesReasons(t *testing.T) {
	t.Parallel()

	violations := []Violation{
		{Code: RuleGoalConstraint, Msg: "same reason", Severity: SeverityError},
		{Code: RuleMaxTradesDay, Msg: "same reason", Severity: SeverityError},
	}

	st := GlobalStatus(testInput(testConfig()), violations)
	assert.Equal(t, []string{"same reason"}, st.Reasons)
}

func TestSortBySeverityStable(t *testing.T) {
	t.Parallel()

	vs := []Violation{
		{Code: "A", Severity: SeverityInfo},
		{Code: "B", Severity: SeverityError},
		{Code: "C", Severity: SeverityWarning},
		{Code: "D", Severity: SeverityError},
	}
	SortBySeverity(vs)
	assert.Equal(t, []string{"B", "D", "C", "A"}, Codes(vs))
}
