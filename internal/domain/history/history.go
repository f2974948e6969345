// Package history holds the read-only inputs the learning core consumes:
// graded answers and completed-quiz results. The core never writes these
// back; they are owned by the persistence and grading collaborators.
package history

import "time"

// AnswerRecord is one graded answer to one question.
// AnsweredAt may be the zero time when the source did not record it.
type AnswerRecord struct {
	QuestionID string
	TopicID    string
	CategoryID string
	Correct    bool
	Skipped    bool
	Partial    bool
	AnsweredAt time.Time
	TimeSpent  time.Duration
}

// QuestionResult is the per-question outcome inside a QuizResult.
type QuestionResult struct {
	QuestionID string
	TopicID    string
	CategoryID string
	Correct    bool
	Skipped    bool
	Partial    bool
	TimeSpent  time.Duration
}

// QuizResult is the already-graded outcome of a quiz session, supplied by
// the grading collaborator after the session ends.
type QuizResult struct {
	QuizID      string
	CompletedAt time.Time
	Score       float64 // overall score in [0,1]
	Questions   []QuestionResult
}

// TotalQuestions returns the number of questions in the quiz.
func (r QuizResult) TotalQuestions() int {
	return len(r.Questions)
}

// CorrectAnswers counts fully correct, non-skipped answers.
func (r QuizResult) CorrectAnswers() int {
	n := 0
	for _, q := range r.Questions {
		if q.Correct && !q.Skipped {
			n++
		}
	}
	return n
}

// Duration sums the time spent across all questions.
func (r QuizResult) Duration() time.Duration {
	var d time.Duration
	for _, q := range r.Questions {
		d += q.TimeSpent
	}
	return d
}

// CategoryIDs returns the distinct categories touched by the quiz.
func (r QuizResult) CategoryIDs() []string {
	seen := make(map[string]bool)
	var out []string
	for _, q := range r.Questions {
		if q.CategoryID == "" || seen[q.CategoryID] {
			continue
		}
		seen[q.CategoryID] = true
		out = append(out, q.CategoryID)
	}
	return out
}

// Records converts the quiz outcome into answer records stamped with the
// quiz completion time.
func (r QuizResult) Records() []AnswerRecord {
	out := make([]AnswerRecord, 0, len(r.Questions))
	for _, q := range r.Questions {
		out = append(out, AnswerRecord{
			QuestionID: q.QuestionID,
			TopicID:    q.TopicID,
			CategoryID: q.CategoryID,
			Correct:    q.Correct,
			Skipped:    q.Skipped,
			Partial:    q.Partial,
			AnsweredAt: r.CompletedAt,
			TimeSpent:  q.TimeSpent,
		})
	}
	return out
}
