package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DrawdownMode selects how the engine reacts once maximum drawdown is breached.
type DrawdownMode string

const (
	DrawdownWarn    DrawdownMode = "warn"    // surface only
	DrawdownPartial DrawdownMode = "partial" // surface as a warning
	DrawdownHard    DrawdownMode = "hard"    // block new trades
)

// Config is the complete persisted settings bundle for the journal.
type Config struct {
	Account    AccountConfig    `json:"account" yaml:"account"`
	Risk       RiskConfig       `json:"risk" yaml:"risk"`
	Rules      RulesConfig      `json:"rules" yaml:"rules"`
	Discipline DisciplineConfig `json:"discipline" yaml:"discipline"`
	Sessions   SessionsConfig   `json:"sessions" yaml:"sessions"`
	Lockout    LockoutState     `json:"lockout" yaml:"lockout"`
}

// AccountConfig holds the capital base every percentage rule is computed from.
type AccountConfig struct {
	AccountSize    float64 `json:"account_size" yaml:"account_size"`
	ManualCapital  bool    `json:"manual_capital" yaml:"manual_capital"`
	CurrentCapital float64 `json:"current_capital" yaml:"current_capital"`
}

// BaseCapital returns the single canonical capital figure: the manually
// maintained current capital when enabled, otherwise the configured account
// size. All percentage math in the risk engine goes through this.
func (a AccountConfig) BaseCapital() float64 {
	if a.ManualCapital && a.CurrentCapital > 0 {
		return a.CurrentCapital
	}
	return a.AccountSize
}

// RiskConfig caps risk as a percentage of base capital. A zero cap means
// unlimited.
type RiskConfig struct {
	MaxRiskPerTradePct float64      `json:"max_risk_per_trade_pct" yaml:"max_risk_per_trade_pct"`
	MaxDailyRiskPct    float64      `json:"max_daily_risk_pct" yaml:"max_daily_risk_pct"`
	MaxWeeklyRiskPct   float64      `json:"max_weekly_risk_pct" yaml:"max_weekly_risk_pct"`
	MaxDrawdownPct     float64      `json:"max_drawdown_pct" yaml:"max_drawdown_pct"`
	DrawdownMode       DrawdownMode `json:"drawdown_mode" yaml:"drawdown_mode"`
}

// RulesConfig holds the trading-rules settings. Zero values mean the rule is
// inactive.
type RulesConfig struct {
	MaxTradesPerDay  int `json:"max_trades_per_day" yaml:"max_trades_per_day"`
	MaxTradesPerWeek int `json:"max_trades_per_week" yaml:"max_trades_per_week"`

	HoursEnabled bool `json:"hours_enabled" yaml:"hours_enabled"`
	StartHour    int  `json:"start_hour" yaml:"start_hour"`
	EndHour      int  `json:"end_hour" yaml:"end_hour"`

	MaxPositionSize   float64 `json:"max_position_size" yaml:"max_position_size"`
	DailyProfitTarget float64 `json:"daily_profit_target" yaml:"daily_profit_target"`
	DailyLossLimit    float64 `json:"daily_loss_limit" yaml:"daily_loss_limit"`

	// Reminders are informational only. They never block a trade.
	Reminders []string `json:"reminders,omitempty" yaml:"reminders,omitempty"`
}

// DisciplineConfig holds self-imposed behavioral constraints.
type DisciplineConfig struct {
	CooldownMinutes      int  `json:"cooldown_minutes" yaml:"cooldown_minutes"`
	MaxConsecutiveLosses int  `json:"max_consecutive_losses" yaml:"max_consecutive_losses"`
	ForceSessionClose    bool `json:"force_session_close" yaml:"force_session_close"`
	PersistWarnings      bool `json:"persist_warnings" yaml:"persist_warnings"`

	// Set by goal consequences, not by hand.
	PartialBlock bool `json:"partial_block" yaml:"partial_block"`
	FullBlock    bool `json:"full_block" yaml:"full_block"`
}

// Cooldown returns the configured post-loss cooldown as a duration.
func (d DisciplineConfig) Cooldown() time.Duration {
	return time.Duration(d.CooldownMinutes) * time.Minute
}

// SessionsConfig restricts trading to particular sessions and weekdays,
// anchored to the trader's time zone.
type SessionsConfig struct {
	Timezone        string   `json:"timezone" yaml:"timezone"`
	AllowedSessions []string `json:"allowed_sessions,omitempty" yaml:"allowed_sessions,omitempty"`
	AllowedWeekdays []string `json:"allowed_weekdays,omitempty" yaml:"allowed_weekdays,omitempty"`
	BlockOutside    bool     `json:"block_outside" yaml:"block_outside"`
}

// Location resolves the configured time zone, falling back to UTC so a bad
// zone name never breaks evaluation.
func (s SessionsConfig) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil || loc == nil {
		return time.UTC
	}
	return loc
}

// SessionAllowed reports whether the named session is in the allow-list.
// An empty allow-list permits everything.
func (s SessionsConfig) SessionAllowed(name string) bool {
	if len(s.AllowedSessions) == 0 {
		return true
	}
	for _, a := range s.AllowedSessions {
		if strings.EqualFold(a, name) {
			return true
		}
	}
	return false
}

// WeekdayAllowed reports whether the weekday is in the allow-list.
// An empty allow-list permits everything. Both full names and three-letter
// abbreviations are accepted.
func (s SessionsConfig) WeekdayAllowed(d time.Weekday) bool {
	if len(s.AllowedWeekdays) == 0 {
		return true
	}
	for _, a := range s.AllowedWeekdays {
		if strings.EqualFold(a, d.String()) || strings.EqualFold(a, d.String()[:3]) {
			return true
		}
	}
	return false
}

// LockoutState is the persisted temporary-lockout state. The risk engine
// computes transitions; this struct only stores them.
type LockoutState struct {
	Enabled          bool       `json:"enabled" yaml:"enabled"`
	BlockOnRuleBreak bool       `json:"block_on_rule_break" yaml:"block_on_rule_break"`
	Hours            int        `json:"hours" yaml:"hours"`
	BlockedUntil     *time.Time `json:"blocked_until,omitempty" yaml:"blocked_until,omitempty"`
}

// LoadFromFile loads settings from a file (YAML first, JSON fallback).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	cfg.Normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves settings to a file (JSON or YAML based on extension).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Normalize clamps inconsistent settings to safe values instead of failing:
// negative caps become zero (rule inactive), a missing drawdown mode becomes
// warn-only, hour windows are folded into 0-23, and the lockout duration gets
// a sane default. Evaluation must always be able to proceed.
func (c *Config) Normalize() {
	clamp := func(v *float64) {
		if *v < 0 {
			*v = 0
		}
	}
	clampInt := func(v *int) {
		if *v < 0 {
			*v = 0
		}
	}

	clamp(&c.Account.AccountSize)
	clamp(&c.Account.CurrentCapital)
	clamp(&c.Risk.MaxRiskPerTradePct)
	clamp(&c.Risk.MaxDailyRiskPct)
	clamp(&c.Risk.MaxWeeklyRiskPct)
	clamp(&c.Risk.MaxDrawdownPct)
	clamp(&c.Rules.MaxPositionSize)
	clamp(&c.Rules.DailyProfitTarget)
	clamp(&c.Rules.DailyLossLimit)
	clampInt(&c.Rules.MaxTradesPerDay)
	clampInt(&c.Rules.MaxTradesPerWeek)
	clampInt(&c.Discipline.CooldownMinutes)
	clampInt(&c.Discipline.MaxConsecutiveLosses)

	if c.Risk.DrawdownMode == "" {
		c.Risk.DrawdownMode = DrawdownWarn
	}
	if c.Rules.StartHour < 0 || c.Rules.StartHour > 23 {
		c.Rules.StartHour = 0
	}
	if c.Rules.EndHour < 0 || c.Rules.EndHour > 23 {
		c.Rules.EndHour = 23
	}
	if c.Lockout.Hours <= 0 {
		c.Lockout.Hours = 24
	}
	if c.Sessions.Timezone == "" {
		c.Sessions.Timezone = "UTC"
	}
}

// Validate checks for settings that cannot be clamped into something usable.
func (c *Config) Validate() error {
	if c.Account.AccountSize <= 0 && !(c.Account.ManualCapital && c.Account.CurrentCapital > 0) {
		return fmt.Errorf("account.account_size must be positive")
	}
	switch c.Risk.DrawdownMode {
	case DrawdownWarn, DrawdownPartial, DrawdownHard:
	default:
		return fmt.Errorf("risk.drawdown_mode must be one of warn, partial, hard")
	}
	if _, err := time.LoadLocation(c.Sessions.Timezone); err != nil {
		return fmt.Errorf("sessions.timezone: unknown zone %q", c.Sessions.Timezone)
	}
	return nil
}

// Default returns settings with conservative but usable defaults.
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			AccountSize: 10_000,
		},
		Risk: RiskConfig{
			MaxRiskPerTradePct: 2,
			MaxDailyRiskPct:    6,
			MaxWeeklyRiskPct:   10,
			MaxDrawdownPct:     10,
			DrawdownMode:       DrawdownWarn,
		},
		Rules: RulesConfig{
			MaxTradesPerDay:  5,
			MaxTradesPerWeek: 20,
			StartHour:        0,
			EndHour:          23,
		},
		Discipline: DisciplineConfig{
			CooldownMinutes:      30,
			MaxConsecutiveLosses: 3,
		},
		Sessions: SessionsConfig{
			Timezone: "UTC",
		},
		Lockout: LockoutState{
			Hours: 24,
		},
	}
}
