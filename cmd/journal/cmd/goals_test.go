package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/journal/goals"
)

func resetConstraintFlags() {
	goalConstrainSession = ""
	goalConstrainHours = ""
	goalConstrainMaxTrades = 0
	goalConstrainMaxLoss = 0
}

func TestBuildGoalConstraint(t *testing.T) {
	tests := []struct {
		name string
		set  func()
		want *goals.Constraint
	}{
		{"none", func() {}, nil},
		{"session", func() { goalConstrainSession = "london" },
			&goals.Constraint{Kind: goals.ConstraintSession, Session: "london"}},
		{"hours", func() { goalConstrainHours = "8-17" },
			&goals.Constraint{Kind: goals.ConstraintHours, StartHour: 8, EndHour: 17}},
		{"max trades", func() { goalConstrainMaxTrades = 3 },
			&goals.Constraint{Kind: goals.ConstraintMaxTrades, MaxTrades: 3}},
		{"max loss", func() { goalConstrainMaxLoss = 150 },
			&goals.Constraint{Kind: goals.ConstraintMaxLoss, MaxLoss: 150}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			resetConstraintFlags()
			tt.set()

			got, err := buildGoalConstraint()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildGoalConstraintRejectsCombinations(t *testing.T) {
	resetConstraintFlags()
	goalConstrainSession = "london"
	goalConstrainMaxTrades = 3

	_, err := buildGoalConstraint()
	assert.Error(t, err)

	resetConstraintFlags()
}

func TestParseHourWindow(t *testing.T) {
	t.Parallel()

	start, end, err := parseHourWindow("8-17")
	require.NoError(t, err)
	assert.Equal(t, 8, start)
	assert.Equal(t, 17, end)

	_, _, err = parseHourWindow("evening")
	assert.Error(t, err)

	_, _, err = parseHourWindow("8-25")
	assert.Error(t, err)
}
