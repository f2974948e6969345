package dailygoal

import (
	"time"

	"github.com/quizhabit/backend/internal/domain/history"
)

// Session accumulates one calendar day of study activity. It is created
// lazily the first time progress is recorded for a day and superseded (not
// deleted) at day rollover.
type Session struct {
	Day                string // YYYY-MM-DD in the learner's calendar
	QuestionsCompleted int
	TimeSpent          time.Duration
	CategoriesStudied  []string
	AverageScore       float64 // running average in [0,1], weighted by question count
	CorrectAnswers     int
	TotalQuestions     int
	GoalAchieved       bool
	StreakDay          int // streak count snapshot taken when the goal was achieved
	QuizIDs            []string
}

// DayFormat is the layout of Session.Day.
const DayFormat = "2006-01-02"

// NewSession starts an empty session for a day.
func NewSession(day string) *Session {
	return &Session{Day: day}
}

// DayOf renders a time as a session day key in its own location.
func DayOf(t time.Time) string {
	return t.Format(DayFormat)
}

// Merge folds a completed quiz into the day's totals. The running average
// score is weighted by question count; a quiz with no questions contributes
// nothing to it.
func (s *Session) Merge(r history.QuizResult) {
	n := r.TotalQuestions()

	if n > 0 {
		oldTotal := s.TotalQuestions
		s.AverageScore = (s.AverageScore*float64(oldTotal) + r.Score*float64(n)) / float64(oldTotal+n)
	}

	s.QuestionsCompleted += n
	s.TimeSpent += r.Duration()
	s.CorrectAnswers += r.CorrectAnswers()
	s.TotalQuestions += n
	for _, cat := range r.CategoryIDs() {
		s.addCategory(cat)
	}
	if r.QuizID != "" {
		s.QuizIDs = append(s.QuizIDs, r.QuizID)
	}
}

// Accuracy is the day's correct/total ratio, 0 when nothing was answered.
func (s *Session) Accuracy() float64 {
	if s.TotalQuestions == 0 {
		return 0
	}
	return float64(s.CorrectAnswers) / float64(s.TotalQuestions)
}

func (s *Session) addCategory(categoryID string) {
	for _, c := range s.CategoriesStudied {
		if c == categoryID {
			return
		}
	}
	s.CategoriesStudied = append(s.CategoriesStudied, categoryID)
}
