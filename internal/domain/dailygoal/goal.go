// Package dailygoal models the learner's per-day study target and the
// running daily session that is measured against it.
package dailygoal

// GoalKind tags the goal variant.
type GoalKind string

const (
	GoalQuestionCount GoalKind = "question_count"
	GoalTimeMinutes   GoalKind = "time_minutes"
	GoalCategoryFocus GoalKind = "category_focus"
)

// Goal is the learner-configured daily target. Exactly one variant applies;
// every switch over Kind below covers all three.
type Goal struct {
	Kind       GoalKind
	Target     int
	Categories []string // only for GoalCategoryFocus
}

// QuestionCountGoal targets answering n questions per day.
func QuestionCountGoal(n int) Goal {
	return Goal{Kind: GoalQuestionCount, Target: n}
}

// TimeGoal targets n minutes of study per day.
func TimeGoal(minutes int) Goal {
	return Goal{Kind: GoalTimeMinutes, Target: minutes}
}

// CategoryFocusGoal targets n questions per day within the given categories.
func CategoryFocusGoal(categories []string, n int) Goal {
	return Goal{Kind: GoalCategoryFocus, Target: n, Categories: categories}
}

// TargetValue returns the numeric target of the active variant.
func (g Goal) TargetValue() int {
	return g.Target
}

// CurrentProgress extracts the goal-relevant progress value from a session.
func (g Goal) CurrentProgress(s *Session) int {
	if s == nil {
		return 0
	}
	switch g.Kind {
	case GoalQuestionCount:
		return s.QuestionsCompleted
	case GoalTimeMinutes:
		return int(s.TimeSpent.Minutes())
	case GoalCategoryFocus:
		return s.QuestionsCompleted
	default:
		return 0
	}
}

// Progress is the collaborator-facing snapshot of today's goal state.
type Progress struct {
	Current    int     `json:"current"`
	Target     int     `json:"target"`
	Percentage float64 `json:"percentage"`
	Completed  bool    `json:"completed"`
}

// Evaluate measures a session against the goal. A non-positive target reads
// as 0% and never completes.
func (g Goal) Evaluate(s *Session) Progress {
	p := Progress{
		Current: g.CurrentProgress(s),
		Target:  g.TargetValue(),
	}
	if p.Target <= 0 {
		return p
	}
	p.Percentage = float64(p.Current) / float64(p.Target)
	if p.Percentage > 1 {
		p.Percentage = 1
	}
	p.Completed = p.Current >= p.Target
	return p
}
