package risk

import "time"

// Session is a named market-session band.
type Session string

const (
	SessionAsian   Session = "asian"
	SessionLondon  Session = "london"
	SessionOverlap Session = "overlap" // London/New-York overlap
	SessionNewYork Session = "newyork"
	SessionOther   Session = "other"
)

// Session bands by UTC hour. Day and week windows follow the trader's zone,
// but market sessions are fixed on the clock the markets trade on.
var sessionBands = []struct {
	name       Session
	start, end int // [start, end) UTC hour
}{
	{SessionAsian, 0, 8},
	{SessionLondon, 8, 13},
	{SessionOverlap, 13, 17},
	{SessionNewYork, 17, 22},
}

// SessionAt returns the session band the instant falls into.
func SessionAt(t time.Time) Session {
	h := t.UTC().Hour()
	for _, b := range sessionBands {
		if h >= b.start && h < b.end {
			return b.name
		}
	}
	return SessionOther
}

// SessionBounds returns the [start, end) window of the session containing t,
// in UTC. For the late-evening gap the window runs to next midnight.
func SessionBounds(t time.Time) (time.Time, time.Time) {
	u := t.UTC()
	day := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	h := u.Hour()
	for _, b := range sessionBands {
		if h >= b.start && h < b.end {
			return day.Add(time.Duration(b.start) * time.Hour),
				day.Add(time.Duration(b.end) * time.Hour)
		}
	}
	return day.Add(22 * time.Hour), day.Add(24 * time.Hour)
}
