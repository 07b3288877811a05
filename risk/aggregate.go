package risk

import (
	"math"
	"sort"
	"time"

	"github.com/rustyeddy/journal/journal"
)

// Aggregates are the windowed trade-history figures every rule reads.
// All calendar windows are anchored to the trader's configured zone so a
// trade entered at 23:50 local time never slips into the next server-side
// day.
type Aggregates struct {
	TradesToday   int
	TradesWeek    int
	TradesSession int

	RiskToday float64 // sum of risk contributions of trades opened today
	RiskWeek  float64

	ProfitToday float64 // realized profit of trades closed today (>= 0)
	LossToday   float64 // realized loss of trades closed today, as a positive magnitude
	NetToday    float64 // realized P/L of trades closed today

	ConsecutiveLosses int       // losing closes ending at the most recent close
	LastLossClose     time.Time // zero when no closed loss exists
}

// DayStart returns local midnight for the instant, in the trader's zone.
func DayStart(now time.Time, loc *time.Location) time.Time {
	y, m, d := now.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// WeekStart returns the most recent Monday midnight, in the trader's zone.
func WeekStart(now time.Time, loc *time.Location) time.Time {
	day := DayStart(now, loc)
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	return day.AddDate(0, 0, -offset)
}

// TradeRisk is the risk contribution of one position:
// |entry - stop| * size * leverage. No stop means no measurable risk;
// missing leverage counts as 1x.
func TradeRisk(entry, stop, size, leverage float64) float64 {
	if stop == 0 || !finite(entry) || !finite(stop) || !finite(size) {
		return 0
	}
	lev := leverage
	if lev <= 0 || !finite(lev) {
		lev = 1
	}
	return math.Abs(entry-stop) * size * lev
}

// Aggregate folds the full trade history into windowed figures at the given
// instant.
func Aggregate(trades []journal.TradeRecord, now time.Time, loc *time.Location) Aggregates {
	var agg Aggregates

	dayStart := DayStart(now, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)
	weekStart := WeekStart(now, loc)
	weekEnd := weekStart.AddDate(0, 0, 7)
	sessStart, sessEnd := SessionBounds(now)

	var closed []journal.TradeRecord

	for _, t := range trades {
		open := t.OpenTime
		if !open.Before(dayStart) && open.Before(dayEnd) {
			agg.TradesToday++
			agg.RiskToday += TradeRisk(t.EntryPrice, t.StopLoss, t.Size, t.Leverage)
		}
		if !open.Before(weekStart) && open.Before(weekEnd) {
			agg.TradesWeek++
			agg.RiskWeek += TradeRisk(t.EntryPrice, t.StopLoss, t.Size, t.Leverage)
		}
		if !open.Before(sessStart) && open.Before(sessEnd) {
			agg.TradesSession++
		}

		if t.IsClosed() {
			closed = append(closed, t)
			if !t.CloseTime.Before(dayStart) && t.CloseTime.Before(dayEnd) {
				agg.NetToday += t.RealizedPL
				if t.RealizedPL >= 0 {
					agg.ProfitToday += t.RealizedPL
				} else {
					agg.LossToday += -t.RealizedPL
				}
			}
		}
	}

	// Loss streak ends at the most recent close and resets on any
	// non-losing close.
	sort.Slice(closed, func(i, k int) bool {
		return closed[i].CloseTime.Before(closed[k].CloseTime)
	})
	for i := len(closed) - 1; i >= 0; i-- {
		if !closed[i].IsLoss() {
			break
		}
		agg.ConsecutiveLosses++
		if agg.LastLossClose.IsZero() || closed[i].CloseTime.After(agg.LastLossClose) {
			agg.LastLossClose = closed[i].CloseTime
		}
	}
	if agg.LastLossClose.IsZero() {
		// The streak may be zero while an older loss still matters for
		// the cooldown rule.
		for _, t := range closed {
			if t.IsLoss() && t.CloseTime.After(agg.LastLossClose) {
				agg.LastLossClose = t.CloseTime
			}
		}
	}

	return agg
}
