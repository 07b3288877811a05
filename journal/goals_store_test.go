package journal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/journal/goals"
)

func TestSQLiteSaveAndListGoals(t *testing.T) {
	t.Parallel()

	j := newTestSQLite(t)

	g := goals.Goal{
		ID:      "G1",
		Name:    "green week",
		Period:  goals.Weekly,
		Metric:  goals.MetricPnL,
		Target:  500,
		Current: 120,
		Binding: true,
		Constraint: &goals.Constraint{
			Kind:      goals.ConstraintMaxTrades,
			MaxTrades: 3,
		},
		Consequence: &goals.Consequence{
			CooldownHours: 12,
			ReduceRiskPct: 25,
		},
	}

	require.NoError(t, j.SaveGoal(g))

	gs, err := j.ListGoals()
	require.NoError(t, err)
	require.Len(t, gs, 1)

	got := gs[0]
	assert.Equal(t, "green week", got.Name)
	assert.Equal(t, goals.Weekly, got.Period)
	assert.True(t, got.Binding)
	require.NotNil(t, got.Constraint)
	assert.Equal(t, goals.ConstraintMaxTrades, got.Constraint.Kind)
	assert.Equal(t, 3, got.Constraint.MaxTrades)
	require.NotNil(t, got.Consequence)
	assert.Equal(t, 12, got.Consequence.CooldownHours)
	assert.InDelta(t, 25, got.Consequence.ReduceRiskPct, 1e-9)
}

func TestSQLiteGoalWithoutDescriptors(t *testing.T) {
	t.Parallel()

	j := newTestSQLite(t)

	require.NoError(t, j.SaveGoal(goals.Goal{
		ID: "G1", Name: "journal every day", Period: goals.Daily,
		Metric: goals.MetricTradeCount, Target: 1,
	}))

	gs, err := j.ListGoals()
	require.NoError(t, err)
	require.Len(t, gs, 1)
	assert.Nil(t, gs[0].Constraint)
	assert.Nil(t, gs[0].Consequence)
}

func TestSQLiteConsequenceLogDedup(t *testing.T) {
	t.Parallel()

	j := newTestSQLite(t)

	applied, err := j.ConsequenceApplied("G1", "2026-03-02")
	require.NoError(t, err)
	assert.False(t, applied)

	at := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	require.NoError(t, j.MarkConsequenceApplied("G1", "2026-03-02", at))

	applied, err = j.ConsequenceApplied("G1", "2026-03-02")
	require.NoError(t, err)
	assert.True(t, applied)

	// Marking twice is a no-op, not an error.
	require.NoError(t, j.MarkConsequenceApplied("G1", "2026-03-02", at.Add(time.Hour)))

	// A different day is a fresh key.
	applied, err = j.ConsequenceApplied("G1", "2026-03-03")
	require.NoError(t, err)
	assert.False(t, applied)
}
