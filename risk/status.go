package risk

import (
	"fmt"
	"time"
)

// GlobalStatus combines violations, drawdown response and lockout state into
// one overall status with ordered reasons. Precedence: a live lockout or
// full block short-circuits to blocked; any error violation blocks; warnings
// (including a drawdown partial block) degrade to warning; otherwise
// operable.
func GlobalStatus(in Input, violations []Violation) RiskStatus {
	st := RiskStatus{
		Overall:            StatusOperable,
		MaxRiskPerTradePct: in.Cfg.Risk.MaxRiskPerTradePct,
		MaxDailyRiskPct:    in.Cfg.Risk.MaxDailyRiskPct,
		MaxDrawdownPct:     in.Cfg.Risk.MaxDrawdownPct,
	}

	if LockedOut(in.Cfg.Lockout, in.Now) {
		st.Overall = StatusBlocked
		st.Reasons = []string{fmt.Sprintf("temporary lockout until %s",
			in.Cfg.Lockout.BlockedUntil.In(in.Loc).Format(time.RFC1123))}
		return st
	}

	if in.Cfg.Discipline.FullBlock {
		st.Overall = StatusBlocked
		st.Reasons = append(st.Reasons, "trading fully blocked by a goal consequence")
	}

	sorted := make([]Violation, len(violations))
	copy(sorted, violations)
	SortBySeverity(sorted)

	seen := map[string]bool{}
	for _, v := range sorted {
		switch v.Severity {
		case SeverityError:
			st.Overall = StatusBlocked
		case SeverityWarning:
			if st.Overall == StatusOperable {
				st.Overall = StatusWarning
			}
		default:
			// A breached drawdown threshold degrades the overall status
			// even in warn-only mode, where the violation itself is
			// advisory.
			if v.Code == RuleDrawdown && st.Overall == StatusOperable {
				st.Overall = StatusWarning
			}
		}
		if !seen[v.Msg] {
			seen[v.Msg] = true
			st.Reasons = append(st.Reasons, v.Msg)
		}
	}

	return st
}
