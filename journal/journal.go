package journal

import (
	"strings"
	"time"
)

// Direction of a position.
type Direction string

const (
	Long  Direction = "long"
	Short Direction = "short"
)

// Status of a recorded trade.
type Status string

const (
	Open   Status = "open"
	Closed Status = "closed"
)

// TradeRecord is one journaled position. Records are immutable once closed;
// corrective edits go through the CRUD layer, never through the risk engine.
type TradeRecord struct {
	TradeID    string
	Instrument string
	Direction  Direction
	EntryPrice float64
	StopLoss   float64 // 0 = no stop set
	Size       float64
	Leverage   float64 // 0 = spot (treated as 1x)
	OpenTime   time.Time
	CloseTime  time.Time // zero until closed
	RealizedPL float64   // meaningful only when Status == Closed
	Status     Status
	Session    string // session tag at entry, optional
	Violations string // semicolon-joined rule codes noted at creation
}

// IsClosed reports whether the trade has been closed out.
func (t TradeRecord) IsClosed() bool {
	return t.Status == Closed
}

// IsLoss reports whether the trade closed at a loss.
func (t TradeRecord) IsLoss() bool {
	return t.IsClosed() && t.RealizedPL < 0
}

// ViolationCodes splits the stored violation tags.
func (t TradeRecord) ViolationCodes() []string {
	if t.Violations == "" {
		return nil
	}
	return strings.Split(t.Violations, ";")
}

// JoinViolationCodes builds the stored form of violation tags.
func JoinViolationCodes(codes []string) string {
	return strings.Join(codes, ";")
}
