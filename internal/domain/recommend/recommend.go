// Package recommend turns proficiency rollups and the prerequisite graph
// into a short ranked list of study suggestions.
package recommend

import (
	"fmt"
	"sort"
	"time"

	"github.com/quizhabit/backend/internal/domain/proficiency"
	"github.com/quizhabit/backend/internal/domain/taxonomy"
	"github.com/quizhabit/backend/internal/id"
)

// Priority orders recommendations for display.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Recommendation is one suggestion for what to study next.
type Recommendation struct {
	ID               string
	Priority         Priority
	Title            string
	Description      string
	CategoryIDs      []string
	TopicIDs         []string
	EstimatedMinutes int
	CreatedAt        time.Time
}

// Rule thresholds.
const (
	weakLevel         = 0.5
	weakMinAttempts   = 2
	strongLevel       = 0.8
	strongMinAttempts = 3
	expertLevel       = 0.9
	maxNewTopics      = 2
	weakTopicCount    = 3
)

// Engine generates recommendations. Pure over its inputs; safe for
// concurrent use.
type Engine struct {
	MaxDepth int // prerequisite traversal bound
	Now      func() time.Time
}

// NewEngine returns an Engine with default tuning.
func NewEngine() *Engine {
	return &Engine{
		MaxDepth: taxonomy.DefaultMaxDepth,
		Now:      time.Now,
	}
}

// Generate runs all rules and returns recommendations ordered high to low
// priority.
func (e *Engine) Generate(perf []proficiency.CategoryPerformance, graph *taxonomy.Graph) []Recommendation {
	now := e.Now()
	var out []Recommendation

	if r := e.weakestCategory(perf, now); r != nil {
		out = append(out, *r)
	}
	if r := e.reviewBacklog(perf, now); r != nil {
		out = append(out, *r)
	}
	out = append(out, e.newTopics(perf, graph, now)...)
	out = append(out, e.strongCategories(perf, now)...)

	sort.SliceStable(out, func(i, j int) bool {
		return priorityRank(out[i].Priority) < priorityRank(out[j].Priority)
	})
	return out
}

// weakestCategory picks the single worst category below the weakness
// threshold and points at its 3 weakest topics.
func (e *Engine) weakestCategory(perf []proficiency.CategoryPerformance, now time.Time) *Recommendation {
	var worst *proficiency.CategoryPerformance
	for i := range perf {
		p := &perf[i]
		if p.OverallLevel >= weakLevel || p.QuestionsAttempted < weakMinAttempts {
			continue
		}
		if worst == nil || p.OverallLevel < worst.OverallLevel {
			worst = p
		}
	}
	if worst == nil {
		return nil
	}

	topics := append([]proficiency.TopicProficiency(nil), worst.Topics...)
	sort.Slice(topics, func(i, j int) bool { return topics[i].Level < topics[j].Level })
	if len(topics) > weakTopicCount {
		topics = topics[:weakTopicCount]
	}
	topicIDs := make([]string, 0, len(topics))
	for _, t := range topics {
		topicIDs = append(topicIDs, t.TopicID)
	}

	return &Recommendation{
		ID:               id.GenerateID(),
		Priority:         PriorityHigh,
		Title:            "Focus on your weakest category",
		Description:      fmt.Sprintf("Proficiency here is at %.0f%%. Start with its weakest topics.", worst.OverallLevel*100),
		CategoryIDs:      []string{worst.CategoryID},
		TopicIDs:         topicIDs,
		EstimatedMinutes: 15,
		CreatedAt:        now,
	}
}

// strongCategories acknowledges categories going well.
func (e *Engine) strongCategories(perf []proficiency.CategoryPerformance, now time.Time) []Recommendation {
	var out []Recommendation
	for _, p := range perf {
		if p.OverallLevel < strongLevel || p.QuestionsAttempted < strongMinAttempts {
			continue
		}
		out = append(out, Recommendation{
			ID:               id.GenerateID(),
			Priority:         PriorityLow,
			Title:            "Keep up the good work",
			Description:      fmt.Sprintf("You're at %.0f%% in one of your categories. A light refresher keeps it sharp.", p.OverallLevel*100),
			CategoryIDs:      []string{p.CategoryID},
			EstimatedMinutes: 5,
			CreatedAt:        now,
		})
	}
	return out
}

// reviewBacklog rolls every needs-review topic into one medium-priority
// entry.
func (e *Engine) reviewBacklog(perf []proficiency.CategoryPerformance, now time.Time) *Recommendation {
	var topicIDs []string
	for _, p := range perf {
		for _, t := range p.Topics {
			if t.NeedsReview {
				topicIDs = append(topicIDs, t.TopicID)
			}
		}
	}
	if len(topicIDs) == 0 {
		return nil
	}
	return &Recommendation{
		ID:               id.GenerateID(),
		Priority:         PriorityMedium,
		Title:            "Review time",
		Description:      fmt.Sprintf("%d topics are due for reinforcement.", len(topicIDs)),
		TopicIDs:         topicIDs,
		EstimatedMinutes: 5 * len(topicIDs),
		CreatedAt:        now,
	}
}

// newTopics suggests untried topics whose entire prerequisite set has been
// mastered to the expert threshold. A cycle or over-deep prerequisite chain
// makes a topic ineligible rather than looping. At most 2 per run.
func (e *Engine) newTopics(perf []proficiency.CategoryPerformance, graph *taxonomy.Graph, now time.Time) []Recommendation {
	if graph == nil {
		return nil
	}

	levels := make(map[string]proficiency.TopicProficiency)
	for _, p := range perf {
		for _, t := range p.Topics {
			levels[t.TopicID] = t
		}
	}

	topics := graph.Topics()
	sort.Slice(topics, func(i, j int) bool { return topics[i].ID < topics[j].ID })

	var out []Recommendation
	for _, t := range topics {
		if len(out) >= maxNewTopics {
			break
		}
		if levels[t.ID].QuestionsAttempted > 0 {
			continue
		}
		prereqs, ok := graph.PrerequisiteClosure(t.ID, e.MaxDepth)
		if !ok {
			continue
		}
		ready := true
		for _, pre := range prereqs {
			if levels[pre].Level < expertLevel {
				ready = false
				break
			}
		}
		if !ready {
			continue
		}
		out = append(out, Recommendation{
			ID:               id.GenerateID(),
			Priority:         PriorityMedium,
			Title:            "Ready for something new",
			Description:      fmt.Sprintf("You've mastered everything %s builds on.", t.Name),
			CategoryIDs:      []string{t.CategoryID},
			TopicIDs:         []string{t.ID},
			EstimatedMinutes: 20,
			CreatedAt:        now,
		})
	}
	return out
}

func priorityRank(p Priority) int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}
