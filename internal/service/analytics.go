// internal/service/analytics.go
package service

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/quizhabit/backend/internal/domain/proficiency"
	"github.com/quizhabit/backend/internal/domain/recommend"
	"github.com/quizhabit/backend/internal/domain/taxonomy"
	"github.com/quizhabit/backend/internal/store"
	"github.com/quizhabit/backend/internal/worker"
)

const analyticsWorkers = 4

// Analytics computes derived views (proficiency, performance rollups,
// recommendations) over a snapshot of history. Everything here is read-only
// and safe to run concurrently with profile writes.
type Analytics struct {
	store     store.Store
	calc      *proficiency.Calculator
	recommend *recommend.Engine
	logger    *slog.Logger
}

// NewAnalytics creates the analytics read side.
func NewAnalytics(s store.Store, logger *slog.Logger) *Analytics {
	return &Analytics{
		store:     s,
		calc:      proficiency.NewCalculator(),
		recommend: recommend.NewEngine(),
		logger:    logger,
	}
}

// TopicProficiencies recomputes the proficiency of every topic, fanning the
// per-topic calculations out over a worker pool.
func (a *Analytics) TopicProficiencies() (map[string]proficiency.TopicProficiency, error) {
	topics, err := a.store.Topics()
	if err != nil {
		return nil, fmt.Errorf("load topics: %w", err)
	}

	// Histories are fetched up front; only the pure math runs on the pool.
	pool := worker.NewPool[proficiency.TopicProficiency](analyticsWorkers, len(topics))

	submitted := 0
	for _, t := range topics {
		records, err := a.store.AnswersByTopic(t.ID)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("load answers for topic: %w", err)
		}
		topic := t
		pool.Submit(topic.ID, func() proficiency.TopicProficiency {
			return a.calc.Topic(topic.ID, records, topic.TotalQuestions)
		})
		submitted++
	}
	pool.Close()

	out := make(map[string]proficiency.TopicProficiency, submitted)
	for i := 0; i < submitted; i++ {
		res := <-pool.Results()
		out[res.JobID] = res.Output
	}
	return out, nil
}

// CategoryPerformance rolls topic proficiencies up per category, ordered by
// category ID for stable output.
func (a *Analytics) CategoryPerformance() ([]proficiency.CategoryPerformance, error) {
	categories, err := a.store.Categories()
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	topics, err := a.store.Topics()
	if err != nil {
		return nil, fmt.Errorf("load topics: %w", err)
	}
	profs, err := a.TopicProficiencies()
	if err != nil {
		return nil, err
	}

	byCategory := make(map[string][]proficiency.TopicProficiency)
	for _, t := range topics {
		byCategory[t.CategoryID] = append(byCategory[t.CategoryID], profs[t.ID])
	}

	out := make([]proficiency.CategoryPerformance, 0, len(categories))
	for _, c := range categories {
		out = append(out, a.calc.Category(c.ID, byCategory[c.ID]))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CategoryID < out[j].CategoryID })
	return out, nil
}

// Recommendations runs the recommendation rules over fresh proficiency data
// and the prerequisite graph.
func (a *Analytics) Recommendations() ([]recommend.Recommendation, error) {
	perf, err := a.CategoryPerformance()
	if err != nil {
		return nil, err
	}
	topics, err := a.store.Topics()
	if err != nil {
		return nil, fmt.Errorf("load topics: %w", err)
	}
	return a.recommend.Generate(perf, taxonomy.NewGraph(topics)), nil
}
