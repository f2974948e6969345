package streak_test

import (
	"testing"
	"time"

	"github.com/quizhabit/backend/internal/domain/streak"
)

func day(n int) time.Time {
	return time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC).AddDate(0, 0, n-1)
}

func TestRecordCompletion_FirstEver(t *testing.T) {
	s := streak.New(1)
	s.RecordCompletion(day(1))

	if s.Current != 1 {
		t.Errorf("expected current 1, got %d", s.Current)
	}
	if s.Longest != 1 {
		t.Errorf("expected longest 1, got %d", s.Longest)
	}
}

func TestRecordCompletion_SameDayIdempotent(t *testing.T) {
	s := streak.New(1)
	s.RecordCompletion(day(1))
	s.RecordCompletion(day(1))
	s.RecordCompletion(day(1))

	if s.Current != 1 {
		t.Errorf("same-day completions must not double count, got %d", s.Current)
	}
}

func TestRecordCompletion_GapTransitionTable(t *testing.T) {
	cases := []struct {
		name        string
		grace       int
		gap         int
		wantCurrent int
	}{
		{"gap 0 no change", 1, 0, 3},
		{"gap 1 increments", 1, 1, 4},
		{"gap 2 beyond grace resets", 1, 2, 1},
		{"gap 2 within grace 2 no change", 2, 2, 3},
		{"gap 3 beyond grace 2 resets", 2, 3, 1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := streak.New(c.grace)
			s.RecordCompletion(day(8))
			s.Current = 3
			s.Longest = 3

			s.RecordCompletion(day(8 + c.gap))
			if s.Current != c.wantCurrent {
				t.Errorf("gap %d with grace %d: current = %d, want %d", c.gap, c.grace, s.Current, c.wantCurrent)
			}
		})
	}
}

func TestRecordCompletion_ThreeDayScenario(t *testing.T) {
	s := streak.New(1)
	s.RecordCompletion(day(1))
	s.RecordCompletion(day(2))
	s.RecordCompletion(day(3))

	if s.Current != 3 || s.Longest != 3 {
		t.Fatalf("after days 1-3: current=%d longest=%d, want 3/3", s.Current, s.Longest)
	}

	// Skip day 4, study day 5: gap of 2 beyond grace resets to 1.
	s.RecordCompletion(day(5))

	if s.Current != 1 {
		t.Errorf("expected reset to 1, got %d", s.Current)
	}
	if s.Longest != 3 {
		t.Errorf("longest must survive the reset, got %d", s.Longest)
	}
}

func TestRecordCompletion_LongestInvariant(t *testing.T) {
	s := streak.New(1)
	days := []int{1, 2, 3, 5, 6, 7, 8, 12, 13}
	for _, d := range days {
		s.RecordCompletion(day(d))
		if s.Longest < s.Current {
			t.Fatalf("after day %d: longest %d < current %d", d, s.Longest, s.Current)
		}
	}
}

func TestRecordCompletion_ClockMovedBackward(t *testing.T) {
	s := streak.New(1)
	s.RecordCompletion(day(5))
	s.Current = 4
	s.Longest = 4

	// Records arriving "yesterday" read as same-day: no transition.
	s.RecordCompletion(day(4))

	if s.Current != 4 {
		t.Errorf("negative gap must not change the streak, got %d", s.Current)
	}
}

func TestRollover(t *testing.T) {
	s := streak.New(1)
	s.RecordCompletion(day(1))
	s.Current = 5
	s.Longest = 5

	// Next day is within grace: nothing happens.
	s.Rollover(day(2))
	if s.Current != 5 {
		t.Errorf("rollover within grace must not reset, got %d", s.Current)
	}

	// Two missed days: reset to zero.
	s.Rollover(day(6))
	if s.Current != 0 {
		t.Errorf("rollover beyond grace must zero the streak, got %d", s.Current)
	}
	if s.Longest != 5 {
		t.Errorf("longest must survive, got %d", s.Longest)
	}
}

func TestRollover_Idempotent(t *testing.T) {
	s := streak.New(1)
	s.RecordCompletion(day(1))
	s.Current = 5

	s.Rollover(day(6))
	s.Rollover(day(6))
	s.Rollover(day(6))

	if s.Current != 0 {
		t.Errorf("repeated rollover must stay at 0, got %d", s.Current)
	}
}

func TestShouldOfferRecovery(t *testing.T) {
	cases := []struct {
		name    string
		gap     int
		current int
		want    bool
	}{
		{"gap 1 still active", 1, 3, false},
		{"gap 2 offers recovery", 2, 3, true},
		{"gap 3 offers recovery", 3, 3, true},
		{"gap 4 too late", 4, 3, false},
		{"gap 2 but no streak", 2, 0, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := streak.New(1)
			s.RecordCompletion(day(1))
			s.Current = c.current

			if got := s.ShouldOfferRecovery(day(1 + c.gap)); got != c.want {
				t.Errorf("gap %d current %d: got %v, want %v", c.gap, c.current, got, c.want)
			}
		})
	}
}

func TestAcceptRecovery(t *testing.T) {
	s := streak.New(1)
	s.RecordCompletion(day(1))
	s.Current = 3
	s.Longest = 3

	s.AcceptRecovery(day(3)) // gap 2, inside the window

	// The accepted recovery moves the anchor forward, so rollover no longer
	// resets and the streak stays alive.
	s.Rollover(day(3))
	if s.Current != 3 {
		t.Errorf("accepted recovery must preserve the streak, got %d", s.Current)
	}
	if !s.IsActive(day(3)) {
		t.Error("streak must be active after recovery")
	}
}

func TestAcceptRecovery_OutsideWindowIgnored(t *testing.T) {
	s := streak.New(1)
	s.RecordCompletion(day(1))
	s.Current = 3

	s.AcceptRecovery(day(6)) // gap 5, offer expired

	s.Rollover(day(6))
	if s.Current != 0 {
		t.Errorf("expired recovery must not block the reset, got %d", s.Current)
	}
}

func TestIsActive(t *testing.T) {
	s := streak.New(1)
	if s.IsActive(day(1)) {
		t.Error("never-studied streak must not be active")
	}

	s.RecordCompletion(day(1))
	if !s.IsActive(day(1)) {
		t.Error("streak must be active on the study day")
	}
	if !s.IsActive(day(2)) {
		t.Error("streak must be active the next day (within grace)")
	}
	if s.IsActive(day(3)) {
		t.Error("streak must not be active after the grace period")
	}
}

func TestGapDays_DSTSafe(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata unavailable")
	}

	// Spring-forward night: the calendar gap is still exactly 1 day.
	before := time.Date(2024, 3, 9, 22, 0, 0, 0, loc)
	after := time.Date(2024, 3, 10, 8, 0, 0, 0, loc)

	if got := streak.GapDays(before, after); got != 1 {
		t.Errorf("expected gap 1 across DST change, got %d", got)
	}
}
