// internal/api/insight_handler.go
package api

import (
	"net/http"
	"time"

	"github.com/quizhabit/backend/internal/domain/insight"
	"github.com/quizhabit/backend/internal/domain/recommend"
)

type InsightPayload struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Actionable  bool   `json:"actionable"`
	TargetID    string `json:"target_id,omitempty"`
	CreatedAt   string `json:"created_at"`
}

type RecommendationPayload struct {
	ID               string   `json:"id"`
	Priority         string   `json:"priority"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	CategoryIDs      []string `json:"category_ids,omitempty"`
	TopicIDs         []string `json:"topic_ids,omitempty"`
	EstimatedMinutes int      `json:"estimated_minutes"`
}

type CategoryPerformancePayload struct {
	CategoryID         string  `json:"category_id"`
	OverallLevel       float64 `json:"overall_level"`
	QuestionsAttempted int     `json:"questions_attempted"`
	CorrectAnswers     int     `json:"correct_answers"`
	LastActivity       string  `json:"last_activity,omitempty"`
	TopicsNeedsReview  int     `json:"topics_needing_review"`
}

// GET /insights
func (h *Handler) listInsights(w http.ResponseWriter, r *http.Request) {
	insights, err := h.profile.RefreshInsights(h.analytics)
	if err != nil {
		h.logger.Error("insight generation failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	out := make([]InsightPayload, 0, len(insights))
	for _, ins := range insights {
		out = append(out, toInsightPayload(ins))
	}
	respondJSON(w, http.StatusOK, map[string]any{"insights": out})
}

// GET /recommendations
func (h *Handler) listRecommendations(w http.ResponseWriter, r *http.Request) {
	recs, err := h.analytics.Recommendations()
	if err != nil {
		h.logger.Error("recommendation generation failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	out := make([]RecommendationPayload, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toRecommendationPayload(rec))
	}
	respondJSON(w, http.StatusOK, map[string]any{"recommendations": out})
}

// GET /performance
func (h *Handler) categoryPerformance(w http.ResponseWriter, r *http.Request) {
	perf, err := h.analytics.CategoryPerformance()
	if err != nil {
		h.logger.Error("performance rollup failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	out := make([]CategoryPerformancePayload, 0, len(perf))
	for _, p := range perf {
		payload := CategoryPerformancePayload{
			CategoryID:         p.CategoryID,
			OverallLevel:       p.OverallLevel,
			QuestionsAttempted: p.QuestionsAttempted,
			CorrectAnswers:     p.CorrectAnswers,
		}
		if !p.LastActivity.IsZero() {
			payload.LastActivity = p.LastActivity.Format(time.RFC3339)
		}
		for _, t := range p.Topics {
			if t.NeedsReview {
				payload.TopicsNeedsReview++
			}
		}
		out = append(out, payload)
	}
	respondJSON(w, http.StatusOK, map[string]any{"categories": out})
}

func toInsightPayload(ins insight.Insight) InsightPayload {
	return InsightPayload{
		ID:          ins.ID,
		Type:        string(ins.Type),
		Title:       ins.Title,
		Description: ins.Description,
		Actionable:  ins.Actionable,
		TargetID:    ins.TargetID,
		CreatedAt:   ins.CreatedAt.Format(time.RFC3339),
	}
}

func toRecommendationPayload(rec recommend.Recommendation) RecommendationPayload {
	return RecommendationPayload{
		ID:               rec.ID,
		Priority:         string(rec.Priority),
		Title:            rec.Title,
		Description:      rec.Description,
		CategoryIDs:      rec.CategoryIDs,
		TopicIDs:         rec.TopicIDs,
		EstimatedMinutes: rec.EstimatedMinutes,
	}
}
