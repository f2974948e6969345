// Package insight derives short human-readable observations from recent
// study history. Rules are independent; each new insight is inserted at the
// front of the list, duplicates of a recent insight type are suppressed, and
// old insights age out after a retention window.
package insight

import (
	"fmt"
	"time"

	"github.com/quizhabit/backend/internal/id"
)

// Type classifies an insight.
type Type string

const (
	TypeStreakMilestone     Type = "streak_milestone"
	TypeCategoryImprovement Type = "category_improvement"
	TypeConsistencyTrend    Type = "consistency_trend"
	TypeWeakArea            Type = "weak_area"
	TypePerformanceDecline  Type = "performance_decline"
	TypeOptimalTime         Type = "optimal_time"
)

// Insight is one generated observation. TargetID optionally names the
// category or topic the insight is about.
type Insight struct {
	ID          string
	Type        Type
	Title       string
	Description string
	Actionable  bool
	TargetID    string
	CreatedAt   time.Time
}

// StreakMilestone celebrates a continued streak. Emitted by the daily-goal
// flow the moment the goal completes, not by the trend rules.
func StreakMilestone(current int, now time.Time) Insight {
	return Insight{
		ID:          id.GenerateID(),
		Type:        TypeStreakMilestone,
		Title:       fmt.Sprintf("%d-day streak!", current),
		Description: fmt.Sprintf("You've hit your daily goal %d days in a row. Keep it going.", current),
		CreatedAt:   now,
	}
}
