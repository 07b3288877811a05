package risk

import (
	"fmt"
	"time"

	"github.com/rustyeddy/journal/config"
	"github.com/rustyeddy/journal/goals"
)

// Rule codes. Stable identifiers for display, journaling and tests.
const (
	RuleMaxTradesDay    = "MAX_TRADES_DAY"
	RuleMaxTradesWeek   = "MAX_TRADES_WEEK"
	RuleMaxPositionSize = "MAX_POSITION_SIZE"
	RuleDailyLossLimit  = "DAILY_LOSS_LIMIT"
	RuleDailyProfitHit  = "DAILY_PROFIT_TARGET"
	RuleOutsideHours    = "OUTSIDE_HOURS"
	RuleOutsideSession  = "OUTSIDE_SESSION"
	RuleRiskPerTrade    = "RISK_PER_TRADE"
	RuleDailyRiskCap    = "DAILY_RISK_CAP"
	RuleWeeklyRiskCap   = "WEEKLY_RISK_CAP"
	RuleDrawdown        = "DRAWDOWN"
	RuleCooldownActive  = "COOLDOWN_ACTIVE"
	RuleLossStreak      = "LOSS_STREAK"
	RulePartialBlock    = "PARTIAL_BLOCK"
	RuleGoalConstraint  = "GOAL_CONSTRAINT"
	RuleReminder        = "REMINDER"
)

// A rule is a tagged pure check: given the snapshot it yields at most one
// violation. Rules with missing or non-finite inputs skip rather than fire.
type rule struct {
	code string
	eval func(in Input) *Violation
}

// The ordered catalog. Order only affects display grouping, never the
// result set.
var catalog = []rule{
	{RuleMaxTradesDay, checkMaxTradesDay},
	{RuleMaxTradesWeek, checkMaxTradesWeek},
	{RuleMaxPositionSize, checkMaxPositionSize},
	{RuleDailyLossLimit, checkDailyLossLimit},
	{RuleDailyProfitHit, checkDailyProfitTarget},
	{RuleOutsideHours, checkTradingHours},
	{RuleOutsideSession, checkSessionAllowed},
	{RuleRiskPerTrade, checkRiskPerTrade},
	{RuleDailyRiskCap, checkDailyRiskCap},
	{RuleWeeklyRiskCap, checkWeeklyRiskCap},
	{RuleDrawdown, checkDrawdown},
	{RuleCooldownActive, checkCooldown},
	{RuleLossStreak, checkLossStreak},
	{RulePartialBlock, checkPartialBlock},
}

// Evaluate runs the whole catalog plus goal-derived constraints and reminders
// against the snapshot. It is pure: identical inputs always yield identical
// violation sets.
func Evaluate(in Input) []Violation {
	var out []Violation

	for _, r := range catalog {
		if v := r.eval(in); v != nil {
			out = append(out, *v)
		}
	}

	out = append(out, evalGoalConstraints(in)...)

	for _, msg := range in.Cfg.Rules.Reminders {
		out = append(out, Violation{
			Code:     RuleReminder,
			Msg:      msg,
			Severity: SeverityInfo,
		})
	}

	return out
}

func errorV(code, format string, args ...any) *Violation {
	return &Violation{Code: code, Msg: fmt.Sprintf(format, args...), Severity: SeverityError}
}

// candidateRisk returns the candidate's risk contribution and whether the
// candidate carries enough well-formed data to price it.
func candidateRisk(c Candidate) (float64, bool) {
	if !finite(c.Entry) || !finite(c.Stop) || !finite(c.Size) {
		return 0, false
	}
	if c.Entry <= 0 || c.Stop <= 0 || c.Size <= 0 {
		return 0, false
	}
	return TradeRisk(c.Entry, c.Stop, c.Size, c.Leverage), true
}

// candidateContribution returns the risk the candidate adds to a windowed
// sum. Unlike candidateRisk, a missing stop is well-formed here and simply
// contributes zero, so an already-breached window cap still fires on a
// stop-less candidate. Only malformed inputs make the rule inapplicable.
func candidateContribution(c Candidate) (float64, bool) {
	if !finite(c.Entry) || !finite(c.Stop) || !finite(c.Size) || !finite(c.Leverage) {
		return 0, false
	}
	if c.Entry < 0 || c.Stop < 0 || c.Size < 0 {
		return 0, false
	}
	return TradeRisk(c.Entry, c.Stop, c.Size, c.Leverage), true
}

func checkMaxTradesDay(in Input) *Violation {
	max := in.Cfg.Rules.MaxTradesPerDay
	if max <= 0 || in.Agg.TradesToday+1 <= max {
		return nil
	}
	return errorV(RuleMaxTradesDay,
		"max trades per day reached: %d of %d already taken", in.Agg.TradesToday, max)
}

func checkMaxTradesWeek(in Input) *Violation {
	max := in.Cfg.Rules.MaxTradesPerWeek
	if max <= 0 || in.Agg.TradesWeek+1 <= max {
		return nil
	}
	return errorV(RuleMaxTradesWeek,
		"max trades per week reached: %d of %d already taken", in.Agg.TradesWeek, max)
}

func checkMaxPositionSize(in Input) *Violation {
	max := in.Cfg.Rules.MaxPositionSize
	size := in.Candidate.Size
	if max <= 0 || !finite(size) || size <= 0 || size <= max {
		return nil
	}
	return errorV(RuleMaxPositionSize,
		"position size %.4f exceeds max %.4f", size, max)
}

func checkDailyLossLimit(in Input) *Violation {
	limit := in.Cfg.Rules.DailyLossLimit
	if limit <= 0 || in.Agg.LossToday < limit {
		return nil
	}
	return errorV(RuleDailyLossLimit,
		"daily loss limit reached: %.2f lost of %.2f allowed", in.Agg.LossToday, limit)
}

func checkDailyProfitTarget(in Input) *Violation {
	target := in.Cfg.Rules.DailyProfitTarget
	if target <= 0 || in.Agg.ProfitToday < target {
		return nil
	}
	return &Violation{
		Code:     RuleDailyProfitHit,
		Msg:      fmt.Sprintf("daily profit target reached: %.2f of %.2f", in.Agg.ProfitToday, target),
		Severity: SeverityInfo,
	}
}

func checkTradingHours(in Input) *Violation {
	rules := in.Cfg.Rules
	if !rules.HoursEnabled {
		return nil
	}
	h := in.Now.In(in.Loc).Hour()
	inside := false
	if rules.StartHour <= rules.EndHour {
		inside = h >= rules.StartHour && h <= rules.EndHour
	} else {
		// Window wraps midnight, e.g. 22 -> 6.
		inside = h >= rules.StartHour || h <= rules.EndHour
	}
	if inside {
		return nil
	}
	return errorV(RuleOutsideHours,
		"outside allowed trading hours %02d:00-%02d:59 (now %02d:00)",
		rules.StartHour, rules.EndHour, h)
}

func checkSessionAllowed(in Input) *Violation {
	sessions := in.Cfg.Sessions
	if !sessions.BlockOutside {
		return nil
	}
	local := in.Now.In(in.Loc)
	if !sessions.WeekdayAllowed(local.Weekday()) {
		return errorV(RuleOutsideSession,
			"trading not allowed on %s", local.Weekday())
	}
	sess := SessionAt(in.Now)
	if !sessions.SessionAllowed(string(sess)) {
		return errorV(RuleOutsideSession,
			"current session %q not in allow-list", sess)
	}
	return nil
}

func checkRiskPerTrade(in Input) *Violation {
	cap := in.Cfg.Risk.MaxRiskPerTradePct
	base := in.Cfg.Account.BaseCapital()
	if cap <= 0 || base <= 0 {
		return nil
	}
	riskAmt, ok := candidateRisk(in.Candidate)
	if !ok || riskAmt == 0 {
		return nil
	}
	pct := riskAmt / base * 100
	if pct <= cap {
		return nil
	}
	return errorV(RuleRiskPerTrade,
		"trade risks %.2f%% of capital, max %.2f%%", pct, cap)
}

func checkDailyRiskCap(in Input) *Violation {
	cap := in.Cfg.Risk.MaxDailyRiskPct
	base := in.Cfg.Account.BaseCapital()
	if cap <= 0 || base <= 0 {
		return nil
	}
	riskAmt, ok := candidateContribution(in.Candidate)
	if !ok {
		return nil
	}
	pct := (in.Agg.RiskToday + riskAmt) / base * 100
	if pct <= cap {
		return nil
	}
	return errorV(RuleDailyRiskCap,
		"daily risk would reach %.2f%% of capital, max %.2f%%", pct, cap)
}

func checkWeeklyRiskCap(in Input) *Violation {
	cap := in.Cfg.Risk.MaxWeeklyRiskPct
	base := in.Cfg.Account.BaseCapital()
	if cap <= 0 || base <= 0 {
		return nil
	}
	riskAmt, ok := candidateContribution(in.Candidate)
	if !ok {
		return nil
	}
	pct := (in.Agg.RiskWeek + riskAmt) / base * 100
	if pct <= cap {
		return nil
	}
	return errorV(RuleWeeklyRiskCap,
		"weekly risk would reach %.2f%% of capital, max %.2f%%", pct, cap)
}

func checkDrawdown(in Input) *Violation {
	max := in.Cfg.Risk.MaxDrawdownPct
	if max <= 0 || !finite(in.DrawdownPct) || in.DrawdownPct < max {
		return nil
	}
	msg := fmt.Sprintf("drawdown %.2f%% breaches max %.2f%%", in.DrawdownPct, max)
	switch in.Cfg.Risk.DrawdownMode {
	case config.DrawdownHard:
		return &Violation{Code: RuleDrawdown, Msg: msg, Severity: SeverityError}
	case config.DrawdownPartial:
		return &Violation{Code: RuleDrawdown, Msg: msg, Severity: SeverityWarning}
	default:
		return &Violation{Code: RuleDrawdown, Msg: msg, Severity: SeverityInfo}
	}
}

func checkCooldown(in Input) *Violation {
	cooldown := in.Cfg.Discipline.Cooldown()
	if cooldown <= 0 || in.Agg.LastLossClose.IsZero() {
		return nil
	}
	since := in.Now.Sub(in.Agg.LastLossClose)
	if since >= cooldown {
		return nil
	}
	return errorV(RuleCooldownActive,
		"cooldown after loss active for another %s", (cooldown - since).Round(time.Second))
}

func checkLossStreak(in Input) *Violation {
	max := in.Cfg.Discipline.MaxConsecutiveLosses
	if max <= 0 || in.Agg.ConsecutiveLosses < max {
		return nil
	}
	return errorV(RuleLossStreak,
		"%d consecutive losing trades, pause required after %d",
		in.Agg.ConsecutiveLosses, max)
}

func checkPartialBlock(in Input) *Violation {
	if !in.Cfg.Discipline.PartialBlock {
		return nil
	}
	return errorV(RulePartialBlock, "new trade creation is disabled by a goal consequence")
}

// evalGoalConstraints derives a check from each active binding goal and
// evaluates it like any other rule. Breaking a binding constraint is always
// an error.
func evalGoalConstraints(in Input) []Violation {
	var out []Violation
	for _, g := range in.Goals {
		if !g.Active() {
			continue
		}
		c := g.Constraint
		switch c.Kind {
		case goals.ConstraintSession:
			if sess := SessionAt(in.Now); string(sess) != c.Session {
				out = append(out, *errorV(RuleGoalConstraint,
					"goal %q restricts trading to the %s session (now %s)", g.Name, c.Session, sess))
			}
		case goals.ConstraintHours:
			h := in.Now.In(in.Loc).Hour()
			if h < c.StartHour || h > c.EndHour {
				out = append(out, *errorV(RuleGoalConstraint,
					"goal %q restricts trading to %02d:00-%02d:59", g.Name, c.StartHour, c.EndHour))
			}
		case goals.ConstraintMaxTrades:
			if c.MaxTrades > 0 && in.Agg.TradesToday+1 > c.MaxTrades {
				out = append(out, *errorV(RuleGoalConstraint,
					"goal %q caps trades at %d per day", g.Name, c.MaxTrades))
			}
		case goals.ConstraintMaxLoss:
			if c.MaxLoss > 0 && in.Agg.LossToday >= c.MaxLoss {
				out = append(out, *errorV(RuleGoalConstraint,
					"goal %q caps daily loss at %.2f (lost %.2f)", g.Name, c.MaxLoss, in.Agg.LossToday))
			}
		}
	}
	return out
}
