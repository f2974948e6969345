// Package streak tracks consecutive-day study habits at calendar-day
// granularity, with a grace period for missed days and a short recovery
// window before a broken streak is zeroed.
package streak

import "time"

// DefaultGracePeriodDays is how many missed days are tolerated before a
// streak counts as broken.
const DefaultGracePeriodDays = 1

// recoveryWindowDays bounds how long after a break a recovery offer stays
// open.
const recoveryWindowDays = 3

// Streak is the per-learner streak state. All transitions go through the
// methods below; callers are expected to serialize writes per learner.
type Streak struct {
	Current         int
	Longest         int
	LastStudyDate   time.Time // civil date (midnight), zero = never studied
	GracePeriodDays int
}

// New creates a Streak with the given grace period (days).
func New(gracePeriodDays int) *Streak {
	if gracePeriodDays < 0 {
		gracePeriodDays = DefaultGracePeriodDays
	}
	return &Streak{GracePeriodDays: gracePeriodDays}
}

// RecordCompletion applies the goal-achieved transition for today.
// Calling it more than once on the same day is a no-op, so double counting
// cannot happen.
//
// A consecutive day (gap of exactly 1) always increments, even when the
// grace period would also cover it; the grace-period branch only applies to
// larger gaps. A gap beyond the grace period starts a fresh streak at 1,
// because today's completion itself is day one.
func (s *Streak) RecordCompletion(today time.Time) {
	today = CivilDate(today)

	switch {
	case s.LastStudyDate.IsZero():
		s.Current = 1
	case s.gap(today) == 0:
		// Same day (or clock moved backward): already counted.
	case s.gap(today) == 1:
		s.Current++
	case s.gap(today) <= s.GracePeriodDays:
		// Within grace, streak survives unchanged.
	default:
		s.Current = 1
	}

	if s.Current > s.Longest {
		s.Longest = s.Current
	}
	s.LastStudyDate = today
}

// Rollover is the periodic day-rollover check. It recomputes from
// LastStudyDate and now, never from accumulated deltas, so running it twice
// in an hour or across a clock change cannot double-reset. It is the only
// transition that can take Current to 0.
func (s *Streak) Rollover(today time.Time) {
	if s.LastStudyDate.IsZero() {
		return
	}
	if s.gap(CivilDate(today)) > s.GracePeriodDays {
		s.Current = 0
	}
}

// ShouldOfferRecovery reports whether the learner should be offered a
// streak recovery: the streak is past its grace period but the break is
// recent enough (within 3 days) and there is still a streak to save.
func (s *Streak) ShouldOfferRecovery(today time.Time) bool {
	if s.LastStudyDate.IsZero() || s.Current == 0 {
		return false
	}
	gap := s.gap(CivilDate(today))
	return gap > s.GracePeriodDays && gap <= recoveryWindowDays
}

// AcceptRecovery short-circuits the pending reset by treating today as a
// study day without changing the streak count. The external recovery flow
// calls this once the learner accepts the offer.
func (s *Streak) AcceptRecovery(today time.Time) {
	if !s.ShouldOfferRecovery(today) {
		return
	}
	s.LastStudyDate = CivilDate(today)
}

// IsActive reports whether the streak is still alive as of today.
func (s *Streak) IsActive(today time.Time) bool {
	if s.LastStudyDate.IsZero() {
		return false
	}
	return s.gap(CivilDate(today)) <= s.GracePeriodDays
}

// gap returns whole calendar days between LastStudyDate and today, clamped
// at 0 so a backward clock jump reads as "same day" instead of a negative
// gap.
func (s *Streak) gap(today time.Time) int {
	g := GapDays(s.LastStudyDate, today)
	if g < 0 {
		return 0
	}
	return g
}

// CivilDate truncates a time to its calendar date in its own location.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// GapDays counts whole calendar days from one date to another. Both times
// are reduced to civil dates first, and the difference is computed in UTC so
// DST transitions cannot yield fractional days.
func GapDays(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	f := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	t := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}
