package store

import (
	"errors"

	"github.com/quizhabit/backend/internal/domain/dailygoal"
	"github.com/quizhabit/backend/internal/domain/history"
	"github.com/quizhabit/backend/internal/domain/insight"
	"github.com/quizhabit/backend/internal/domain/streak"
	"github.com/quizhabit/backend/internal/domain/taxonomy"
)

var (
	ErrNotFound = errors.New("not found")
)

// Store is the persistence collaborator the learning core reads history and
// taxonomy from and writes its aggregates through. Implementations may be
// backed by SQLite (production) or memory (tests).
type Store interface {
	// Taxonomy, read-mostly.
	Categories() ([]taxonomy.Category, error)
	SaveCategory(*taxonomy.Category) error
	Topics() ([]taxonomy.Topic, error)
	SaveTopic(*taxonomy.Topic) error
	Questions() ([]taxonomy.Question, error)
	SaveQuestion(*taxonomy.Question) error

	// Answer history, append-only.
	AnswersByTopic(topicID string) ([]history.AnswerRecord, error)
	LatestAnswers() (map[string]history.AnswerRecord, error)
	SaveAnswers([]history.AnswerRecord) error

	// Daily sessions, keyed by civil day (YYYY-MM-DD).
	DailySession(day string) (*dailygoal.Session, error)
	SaveDailySession(*dailygoal.Session) error
	RecentSessions(limit int) ([]dailygoal.Session, error)

	// Streak singleton.
	LoadStreak() (*streak.Streak, error)
	SaveStreak(*streak.Streak) error

	// Insights, newest first.
	Insights() ([]insight.Insight, error)
	AddInsight(insight.Insight) error
	ReplaceInsights([]insight.Insight) error
}
