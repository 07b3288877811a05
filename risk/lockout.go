package risk

import (
	"time"

	"github.com/rustyeddy/journal/config"
)

// The lockout is a two-state machine, Unblocked and Blocked(until), with pure
// transition functions. The settings store persists the state; nothing here
// holds it.

// LockedOut reports whether the state blocks trading at the given instant.
func LockedOut(s config.LockoutState, now time.Time) bool {
	return s.BlockedUntil != nil && now.Before(*s.BlockedUntil)
}

// ShouldTriggerLockout reports whether a fresh violation set fires the
// Unblocked -> Blocked transition: ultra-discipline is on, block-on-rule-break
// is set, and at least one violation carries error severity.
func ShouldTriggerLockout(s config.LockoutState, violations []Violation) bool {
	return s.Enabled && s.BlockOnRuleBreak && HasErrors(violations)
}

// TriggerLockout moves to Blocked(now + N hours). Triggering while already
// blocked overwrites the deadline; lockouts never stack.
func TriggerLockout(s config.LockoutState, now time.Time) config.LockoutState {
	hours := s.Hours
	if hours <= 0 {
		hours = 24
	}
	until := now.Add(time.Duration(hours) * time.Hour)
	s.BlockedUntil = &until
	return s
}

// TriggerLockoutFor moves to Blocked(now + d), used by goal-consequence
// cooldowns with their own duration.
func TriggerLockoutFor(s config.LockoutState, now time.Time, d time.Duration) config.LockoutState {
	until := now.Add(d)
	s.BlockedUntil = &until
	return s
}

// ClearLockout is the manual unblock: the deadline is dropped immediately.
func ClearLockout(s config.LockoutState) config.LockoutState {
	s.BlockedUntil = nil
	return s
}

// ExpireLockout drops a deadline that has passed. Reads already treat an
// expired deadline as unblocked; this just tidies the persisted state.
func ExpireLockout(s config.LockoutState, now time.Time) config.LockoutState {
	if s.BlockedUntil != nil && !now.Before(*s.BlockedUntil) {
		s.BlockedUntil = nil
	}
	return s
}
