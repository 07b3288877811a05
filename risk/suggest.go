package risk

import "math"

// sizeRelevant are the caps a smaller position could satisfy.
var sizeRelevant = map[string]bool{
	RuleRiskPerTrade:    true,
	RuleDailyRiskCap:    true,
	RuleWeeklyRiskCap:   true,
	RuleMaxPositionSize: true,
}

// SuggestSafeSize computes the largest position size that would satisfy every
// violated size-relevant cap: for each cap riskAmount = cap% * baseCapital,
// size = riskAmount / (|entry - stop| * leverage), take the minimum, then
// clamp to the configured max position size. Returns false when no
// size-relevant violation exists or entry and stop coincide.
func SuggestSafeSize(in Input, violations []Violation) (float64, bool) {
	violated := map[string]bool{}
	for _, v := range violations {
		if sizeRelevant[v.Code] {
			violated[v.Code] = true
		}
	}
	if len(violated) == 0 {
		return 0, false
	}

	c := in.Candidate
	dist := math.Abs(c.Entry - c.Stop)
	if dist == 0 || !finite(dist) {
		return 0, false
	}
	lev := c.Leverage
	if lev <= 0 || !finite(lev) {
		lev = 1
	}

	base := in.Cfg.Account.BaseCapital()
	suggested := math.Inf(1)

	sizeFor := func(riskAmount float64) float64 {
		return riskAmount / (dist * lev)
	}

	if violated[RuleRiskPerTrade] {
		suggested = math.Min(suggested, sizeFor(in.Cfg.Risk.MaxRiskPerTradePct/100*base))
	}
	if violated[RuleDailyRiskCap] {
		headroom := in.Cfg.Risk.MaxDailyRiskPct/100*base - in.Agg.RiskToday
		suggested = math.Min(suggested, sizeFor(math.Max(0, headroom)))
	}
	if violated[RuleWeeklyRiskCap] {
		headroom := in.Cfg.Risk.MaxWeeklyRiskPct/100*base - in.Agg.RiskWeek
		suggested = math.Min(suggested, sizeFor(math.Max(0, headroom)))
	}
	if max := in.Cfg.Rules.MaxPositionSize; max > 0 {
		suggested = math.Min(suggested, max)
	}

	if math.IsInf(suggested, 1) || suggested < 0 {
		return 0, false
	}
	return suggested, true
}
