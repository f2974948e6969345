package insight

import (
	"fmt"
	"time"

	"github.com/quizhabit/backend/internal/domain/dailygoal"
	"github.com/quizhabit/backend/internal/domain/proficiency"
	"github.com/quizhabit/backend/internal/id"
)

// Engine tuning. Trend rules need a few days of history before they say
// anything, repeats of a type are suppressed for a short window, and
// everything ages out after two weeks.
const (
	DefaultMinSessions     = 3
	DefaultDedupWindowDays = 3
	DefaultRetentionDays   = 14

	strongAccuracy    = 0.8
	declineDrop       = 0.15
	improvementRise   = 0.15
	weakCategoryLevel = 0.5
	trendWindow       = 7
)

// Engine runs the insight rules. The read phase is pure; callers own the
// returned list and its persistence.
type Engine struct {
	MinSessions     int
	DedupWindowDays int
	RetentionDays   int
	Now             func() time.Time
}

// NewEngine returns an Engine with default tuning on the real clock.
func NewEngine() *Engine {
	return &Engine{
		MinSessions:     DefaultMinSessions,
		DedupWindowDays: DefaultDedupWindowDays,
		RetentionDays:   DefaultRetentionDays,
		Now:             time.Now,
	}
}

// Generate runs one pass over recent history and returns the updated
// insight list, newest first. sessions must be ordered oldest to newest.
// existing is the previously generated list (newest first); it is the dedup
// source and is carried through retention filtering.
func (e *Engine) Generate(existing []Insight, sessions []dailygoal.Session, perf []proficiency.CategoryPerformance) []Insight {
	now := e.Now()
	out := append([]Insight(nil), existing...)

	if len(sessions) >= e.MinSessions {
		for _, rule := range []func([]Insight, []dailygoal.Session, []proficiency.CategoryPerformance, time.Time) *Insight{
			e.strongPerformance,
			e.performanceDecline,
			e.weakArea,
			e.categoryImprovement,
		} {
			if ins := rule(out, sessions, perf, now); ins != nil {
				out = append([]Insight{*ins}, out...)
			}
		}
	}

	return e.retain(out, now)
}

// strongPerformance fires when mean accuracy over the last 7 sessions
// clears 0.8.
func (e *Engine) strongPerformance(existing []Insight, sessions []dailygoal.Session, _ []proficiency.CategoryPerformance, now time.Time) *Insight {
	if e.hasRecent(existing, TypeConsistencyTrend, "", now) {
		return nil
	}
	recent := lastN(sessions, trendWindow)
	if meanAccuracy(recent) <= strongAccuracy {
		return nil
	}
	return &Insight{
		ID:          id.GenerateID(),
		Type:        TypeConsistencyTrend,
		Title:       "Strong performance",
		Description: fmt.Sprintf("Your accuracy over the last %d study days is above %.0f%%.", len(recent), strongAccuracy*100),
		CreatedAt:   now,
	}
}

// performanceDecline compares the last 3 sessions against the 4 before
// them and fires when accuracy fell noticeably.
func (e *Engine) performanceDecline(existing []Insight, sessions []dailygoal.Session, _ []proficiency.CategoryPerformance, now time.Time) *Insight {
	if e.hasRecent(existing, TypePerformanceDecline, "", now) {
		return nil
	}
	window := lastN(sessions, trendWindow)
	if len(window) < 6 {
		return nil
	}
	recent := window[len(window)-3:]
	earlier := window[:len(window)-3]
	if meanAccuracy(earlier)-meanAccuracy(recent) < declineDrop {
		return nil
	}
	return &Insight{
		ID:          id.GenerateID(),
		Type:        TypePerformanceDecline,
		Title:       "Accuracy is slipping",
		Description: "Your recent accuracy dropped compared to earlier this week. A shorter, focused session might help.",
		Actionable:  true,
		CreatedAt:   now,
	}
}

// weakArea flags the worst category once it dips below 0.5 with enough
// attempts to mean something.
func (e *Engine) weakArea(existing []Insight, _ []dailygoal.Session, perf []proficiency.CategoryPerformance, now time.Time) *Insight {
	var worst *proficiency.CategoryPerformance
	for i := range perf {
		p := &perf[i]
		if p.QuestionsAttempted < 2 || p.OverallLevel >= weakCategoryLevel {
			continue
		}
		if worst == nil || p.OverallLevel < worst.OverallLevel {
			worst = p
		}
	}
	if worst == nil || e.hasRecent(existing, TypeWeakArea, worst.CategoryID, now) {
		return nil
	}
	return &Insight{
		ID:          id.GenerateID(),
		Type:        TypeWeakArea,
		Title:       "A category needs attention",
		Description: fmt.Sprintf("Proficiency in one of your categories is at %.0f%%. Some targeted practice would pay off.", worst.OverallLevel*100),
		Actionable:  true,
		TargetID:    worst.CategoryID,
		CreatedAt:   now,
	}
}

// categoryImprovement fires when a category previously flagged as a weak
// area has climbed back above the threshold.
func (e *Engine) categoryImprovement(existing []Insight, _ []dailygoal.Session, perf []proficiency.CategoryPerformance, now time.Time) *Insight {
	levels := make(map[string]float64, len(perf))
	for _, p := range perf {
		levels[p.CategoryID] = p.OverallLevel
	}
	for _, ins := range existing {
		if ins.Type != TypeWeakArea || ins.TargetID == "" {
			continue
		}
		level, ok := levels[ins.TargetID]
		if !ok || level < weakCategoryLevel+improvementRise {
			continue
		}
		if e.hasRecent(existing, TypeCategoryImprovement, ins.TargetID, now) {
			return nil
		}
		return &Insight{
			ID:          id.GenerateID(),
			Type:        TypeCategoryImprovement,
			Title:       "A weak spot turned around",
			Description: fmt.Sprintf("A category you were struggling with is now at %.0f%%. Nice recovery.", level*100),
			TargetID:    ins.TargetID,
			CreatedAt:   now,
		}
	}
	return nil
}

// hasRecent reports whether a same-type insight (for the same target, when
// one is set) already exists within the dedup window.
func (e *Engine) hasRecent(existing []Insight, t Type, targetID string, now time.Time) bool {
	cutoff := now.AddDate(0, 0, -e.DedupWindowDays)
	for _, ins := range existing {
		if ins.Type != t {
			continue
		}
		if targetID != "" && ins.TargetID != targetID {
			continue
		}
		if ins.CreatedAt.After(cutoff) {
			return true
		}
	}
	return false
}

// retain drops insights older than the retention window.
func (e *Engine) retain(list []Insight, now time.Time) []Insight {
	cutoff := now.AddDate(0, 0, -e.RetentionDays)
	out := make([]Insight, 0, len(list))
	for _, ins := range list {
		if ins.CreatedAt.After(cutoff) {
			out = append(out, ins)
		}
	}
	return out
}

func lastN(sessions []dailygoal.Session, n int) []dailygoal.Session {
	if len(sessions) > n {
		return sessions[len(sessions)-n:]
	}
	return sessions
}

func meanAccuracy(sessions []dailygoal.Session) float64 {
	if len(sessions) == 0 {
		return 0
	}
	sum := 0.0
	for i := range sessions {
		sum += sessions[i].Accuracy()
	}
	return sum / float64(len(sessions))
}
