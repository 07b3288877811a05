package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Normalize()
	assert.NoError(t, cfg.Validate())
}

func TestSaveLoadRoundTripYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")

	cfg := Default()
	cfg.Risk.MaxRiskPerTradePct = 1.5
	cfg.Rules.Reminders = []string{"stick to the plan"}
	until := time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)
	cfg.Lockout.BlockedUntil = &until

	require.NoError(t, cfg.SaveToFile(path))

	got, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.InDelta(t, 1.5, got.Risk.MaxRiskPerTradePct, 1e-9)
	assert.Equal(t, []string{"stick to the plan"}, got.Rules.Reminders)
	require.NotNil(t, got.Lockout.BlockedUntil)
	assert.True(t, got.Lockout.BlockedUntil.Equal(until))
}

func TestSaveLoadRoundTripJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.json")

	cfg := Default()
	cfg.Rules.MaxTradesPerDay = 3
	require.NoError(t, cfg.SaveToFile(path))

	got, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Rules.MaxTradesPerDay)
}

func TestNormalizeClampsNegativeCaps(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Risk.MaxRiskPerTradePct = -2
	cfg.Rules.MaxTradesPerDay = -5
	cfg.Rules.DailyLossLimit = -100
	cfg.Risk.DrawdownMode = ""
	cfg.Lockout.Hours = 0

	cfg.Normalize()

	assert.Zero(t, cfg.Risk.MaxRiskPerTradePct)
	assert.Zero(t, cfg.Rules.MaxTradesPerDay)
	assert.Zero(t, cfg.Rules.DailyLossLimit)
	assert.Equal(t, DrawdownWarn, cfg.Risk.DrawdownMode)
	assert.Equal(t, 24, cfg.Lockout.Hours)
}

func TestValidateRejectsBadDrawdownMode(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Risk.DrawdownMode = "explode"
	assert.Error(t, cfg.Validate())
}

func TestBaseCapital(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		acct AccountConfig
		want float64
	}{
		{"account size", AccountConfig{AccountSize: 10000}, 10000},
		{"manual override", AccountConfig{AccountSize: 10000, ManualCapital: true, CurrentCapital: 8000}, 8000},
		{"manual without value falls back", AccountConfig{AccountSize: 10000, ManualCapital: true}, 10000},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, tt.acct.BaseCapital(), 1e-9)
		})
	}
}

func TestSessionAllowed(t *testing.T) {
	t.Parallel()

	s := SessionsConfig{AllowedSessions: []string{"london", "overlap"}}
	assert.True(t, s.SessionAllowed("london"))
	assert.True(t, s.SessionAllowed("London"))
	assert.False(t, s.SessionAllowed("asian"))

	empty := SessionsConfig{}
	assert.True(t, empty.SessionAllowed("asian"))
}

func TestWeekdayAllowed(t *testing.T) {
	t.Parallel()

	s := SessionsConfig{AllowedWeekdays: []string{"Mon", "tuesday"}}
	assert.True(t, s.WeekdayAllowed(time.Monday))
	assert.True(t, s.WeekdayAllowed(time.Tuesday))
	assert.False(t, s.WeekdayAllowed(time.Saturday))
}

func TestLocationFallsBackToUTC(t *testing.T) {
	t.Parallel()

	s := SessionsConfig{Timezone: "Not/AZone"}
	assert.Equal(t, time.UTC, s.Location())
}
