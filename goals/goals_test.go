package goals

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPeriodBounds(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("JST", 9*3600)
	// Wednesday, 2026-03-04 10:00 local.
	now := time.Date(2026, 3, 4, 10, 0, 0, 0, loc)

	tests := []struct {
		name   string
		period Period
		start  time.Time
		end    time.Time
	}{
		{"daily", Daily,
			time.Date(2026, 3, 4, 0, 0, 0, 0, loc),
			time.Date(2026, 3, 5, 0, 0, 0, 0, loc)},
		{"weekly starts monday", Weekly,
			time.Date(2026, 3, 2, 0, 0, 0, 0, loc),
			time.Date(2026, 3, 9, 0, 0, 0, 0, loc)},
		{"monthly", Monthly,
			time.Date(2026, 3, 1, 0, 0, 0, 0, loc),
			time.Date(2026, 4, 1, 0, 0, 0, 0, loc)},
		{"yearly", Yearly,
			time.Date(2026, 1, 1, 0, 0, 0, 0, loc),
			time.Date(2027, 1, 1, 0, 0, 0, 0, loc)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := Goal{Period: tt.period}
			start, end := g.PeriodBounds(now, loc)
			assert.True(t, start.Equal(tt.start), "start: got %v want %v", start, tt.start)
			assert.True(t, end.Equal(tt.end), "end: got %v want %v", end, tt.end)
		})
	}
}

func TestWeeklyBoundsOnSunday(t *testing.T) {
	t.Parallel()

	// Sunday still belongs to the week that started the previous Monday.
	now := time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)
	g := Goal{Period: Weekly}
	start, _ := g.PeriodBounds(now, time.UTC)
	assert.Equal(t, time.Monday, start.Weekday())
	assert.Equal(t, 2, start.Day())
}

func TestActive(t *testing.T) {
	t.Parallel()

	binding := Goal{Binding: true, Constraint: &Constraint{Kind: ConstraintMaxTrades, MaxTrades: 3}}
	assert.True(t, binding.Active())

	assert.False(t, Goal{Binding: true}.Active())
	assert.False(t, Goal{Constraint: &Constraint{Kind: ConstraintMaxTrades}}.Active())
}

func TestReached(t *testing.T) {
	t.Parallel()

	assert.True(t, Goal{Target: 100, Current: 100}.Reached())
	assert.False(t, Goal{Target: 100, Current: 99.9}.Reached())
}

func TestFailureKeyUsesLocalDate(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC+10", 10*3600)
	// 23:00 UTC on March 2 is already March 3 locally.
	now := time.Date(2026, 3, 2, 23, 0, 0, 0, time.UTC)

	g := Goal{ID: "G1"}
	goalID, date := g.FailureKey(now, loc)
	assert.Equal(t, "G1", goalID)
	assert.Equal(t, "2026-03-03", date)
}
