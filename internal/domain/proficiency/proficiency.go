package proficiency

import (
	"time"

	"github.com/quizhabit/backend/internal/domain/history"
)

// Weights for the proficiency blend: accuracy dominates, coverage and
// recency keep the score honest for barely-touched or stale topics.
const (
	accuracyWeight   = 0.6
	completionWeight = 0.3
	recencyWeight    = 0.1

	reviewAccuracyFloor = 0.7
	reviewStaleDays     = 7
)

// TopicProficiency is the derived mastery estimate for one topic.
// Recomputed on demand, never persisted.
type TopicProficiency struct {
	TopicID            string
	Level              float64 // in [0,1]
	QuestionsAttempted int
	CorrectAnswers     int
	AverageTime        time.Duration
	LastAttempt        time.Time // zero = never attempted
	NeedsReview        bool
}

// CategoryPerformance rolls topic proficiencies up to their category.
type CategoryPerformance struct {
	CategoryID         string
	Topics             []TopicProficiency
	OverallLevel       float64
	QuestionsAttempted int
	CorrectAnswers     int
	LastActivity       time.Time
}

// Calculator derives proficiency from answer history. It holds no state
// beyond the clock, so a single instance is safe for concurrent use.
type Calculator struct {
	Now func() time.Time
}

// NewCalculator returns a Calculator on the real clock.
func NewCalculator() *Calculator {
	return &Calculator{Now: time.Now}
}

// Topic computes the proficiency estimate for one topic from its full
// answer history and the topic's total question count.
func (c *Calculator) Topic(topicID string, records []history.AnswerRecord, totalQuestions int) TopicProficiency {
	p := TopicProficiency{TopicID: topicID}

	var totalTime time.Duration
	for _, r := range records {
		p.QuestionsAttempted++
		if r.Correct && !r.Skipped {
			p.CorrectAnswers++
		}
		totalTime += r.TimeSpent
		if r.AnsweredAt.After(p.LastAttempt) {
			p.LastAttempt = r.AnsweredAt
		}
	}
	if p.QuestionsAttempted > 0 {
		p.AverageTime = totalTime / time.Duration(p.QuestionsAttempted)
	}

	accuracy := 0.0
	if p.QuestionsAttempted > 0 {
		accuracy = float64(p.CorrectAnswers) / float64(p.QuestionsAttempted)
	}

	completion := 0.0
	if totalQuestions > 0 {
		completion = float64(p.QuestionsAttempted) / float64(totalQuestions)
	}

	recency := 0.0
	if !p.LastAttempt.IsZero() {
		days := c.Now().Sub(p.LastAttempt).Hours() / 24
		recency = RecencyFactor(days)
		p.NeedsReview = accuracy < reviewAccuracyFloor || days > reviewStaleDays
	}

	p.Level = clamp01(accuracyWeight*accuracy + completionWeight*completion + recencyWeight*recency)
	return p
}

// Category averages topic levels into a category rollup. An empty category
// scores 0.
func (c *Calculator) Category(categoryID string, topics []TopicProficiency) CategoryPerformance {
	perf := CategoryPerformance{
		CategoryID: categoryID,
		Topics:     topics,
	}

	sum := 0.0
	for _, t := range topics {
		sum += t.Level
		perf.QuestionsAttempted += t.QuestionsAttempted
		perf.CorrectAnswers += t.CorrectAnswers
		if t.LastAttempt.After(perf.LastActivity) {
			perf.LastActivity = t.LastAttempt
		}
	}
	if len(topics) > 0 {
		perf.OverallLevel = sum / float64(len(topics))
	}
	return perf
}

// RecencyFactor is the decay step function over days since last attempt.
func RecencyFactor(days float64) float64 {
	switch {
	case days <= 1:
		return 1.0
	case days <= 3:
		return 0.8
	case days <= 7:
		return 0.6
	case days <= 14:
		return 0.4
	case days <= 30:
		return 0.2
	default:
		return 0.1
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
