package selection

import (
	"time"

	"github.com/quizhabit/backend/internal/domain/history"
)

// DefaultRetryWindow is how long a correctly-answered question stays out of
// the pool before it may be shown again.
const DefaultRetryWindow = 48 * time.Hour

// Eligible decides whether a question may be re-selected for a new quiz
// given its most recent answer. Questions are held back only while they sit
// inside the retry window after a fully correct answer; everything else is
// fair game, including answers with no timestamp (treated as available).
//
// The window boundary is exclusive: at exactly `window` hours the question
// becomes eligible again.
func Eligible(last *history.AnswerRecord, window time.Duration, now time.Time) bool {
	if last == nil {
		return true
	}
	if last.AnsweredAt.IsZero() {
		return true
	}
	since := now.Sub(last.AnsweredAt)
	if since < window && last.Correct && !last.Partial {
		return false
	}
	return true
}
