package selection

import (
	"errors"
	"log/slog"
	"math/rand"
	"time"

	"github.com/quizhabit/backend/internal/domain/history"
	"github.com/quizhabit/backend/internal/domain/taxonomy"
)

// ErrNoQuestionsAvailable means the filtered question pool is empty.
// It is a legitimate "nothing to study" state, not a fault.
var ErrNoQuestionsAvailable = errors.New("no questions available")

const (
	// DefaultQuestionCount is used when the caller requests zero questions.
	DefaultQuestionCount = 5
	// MaxQuestions caps how many questions a single quiz may contain.
	MaxQuestions = 10
)

// Selector builds quiz question sets, preferring questions that are
// currently eligible for spaced repetition.
type Selector struct {
	Window time.Duration // retry window, DefaultRetryWindow if zero
	Rand   *rand.Rand    // injectable for deterministic tests
	Now    func() time.Time
	Logger *slog.Logger
}

// NewSelector creates a Selector with production defaults.
func NewSelector(window time.Duration, logger *slog.Logger) *Selector {
	if window <= 0 {
		window = DefaultRetryWindow
	}
	return &Selector{
		Window: window,
		Rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
		Now:    time.Now,
		Logger: logger,
	}
}

// Select picks up to count question IDs for a new quiz.
//
// lastAnswers maps question ID to its most recent answer; questions without
// an entry have never been answered. enabled is the set of active category
// IDs; an empty set means all categories (logged as degraded selection).
func (s *Selector) Select(questions []taxonomy.Question, lastAnswers map[string]history.AnswerRecord, enabled map[string]bool, count int) ([]string, error) {
	count = clampCount(count)

	if len(enabled) == 0 && s.Logger != nil {
		s.Logger.Warn("no categories enabled, selecting from all categories")
	}

	filtered := make([]taxonomy.Question, 0, len(questions))
	for _, q := range questions {
		if len(enabled) > 0 && !enabled[q.CategoryID] {
			continue
		}
		filtered = append(filtered, q)
	}
	if len(filtered) == 0 {
		return nil, ErrNoQuestionsAvailable
	}

	now := s.Now()
	var eligible, ineligible []taxonomy.Question
	for _, q := range filtered {
		var last *history.AnswerRecord
		if rec, ok := lastAnswers[q.ID]; ok {
			last = &rec
		}
		if Eligible(last, s.Window, now) {
			eligible = append(eligible, q)
		} else {
			ineligible = append(ineligible, q)
		}
	}

	// Fall back to the full filtered set when too few questions are
	// eligible, so a quiz can still be produced.
	pool := eligible
	if len(pool) < count {
		pool = filtered
	}

	shuffled := make([]taxonomy.Question, len(pool))
	copy(shuffled, pool)
	s.Rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	if count > len(shuffled) {
		count = len(shuffled)
	}
	ids := make([]string, 0, count)
	for _, q := range shuffled[:count] {
		ids = append(ids, q.ID)
	}
	return ids, nil
}

// clampCount normalizes the requested quiz size to [1, MaxQuestions],
// defaulting when the caller passes zero or less.
func clampCount(count int) int {
	if count <= 0 {
		return DefaultQuestionCount
	}
	if count > MaxQuestions {
		return MaxQuestions
	}
	return count
}
