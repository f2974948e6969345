// internal/api/quiz_handler.go
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/quizhabit/backend/internal/domain/dailygoal"
	"github.com/quizhabit/backend/internal/domain/history"
	"github.com/quizhabit/backend/internal/domain/selection"
)

// ── Request / Response types ────────────────────────────────────────────────

type SelectQuizRequest struct {
	Count      int      `json:"count"`
	Categories []string `json:"categories,omitempty"`
}

type SelectQuizResponse struct {
	QuizID      string   `json:"quiz_id"`
	QuestionIDs []string `json:"question_ids"`
}

type QuestionResultPayload struct {
	QuestionID  string `json:"question_id"`
	TopicID     string `json:"topic_id"`
	CategoryID  string `json:"category_id"`
	Correct     bool   `json:"correct"`
	Skipped     bool   `json:"skipped"`
	Partial     bool   `json:"partial"`
	TimeSpentMs int64  `json:"time_spent_ms"`
}

type CompleteQuizRequest struct {
	QuizID    string                  `json:"quiz_id"`
	Score     float64                 `json:"score"`
	Questions []QuestionResultPayload `json:"questions"`
}

type CompleteQuizResponse struct {
	Progress     dailygoal.Progress `json:"progress"`
	StreakDay    int                `json:"streak_day"`
	StreakActive bool               `json:"streak_active"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// POST /quiz/select
func (h *Handler) selectQuiz(w http.ResponseWriter, r *http.Request) {
	var req SelectQuizRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	quizID, questionIDs, err := h.profile.SelectQuiz(req.Count, req.Categories)
	if errors.Is(err, selection.ErrNoQuestionsAvailable) {
		http.Error(w, "no questions available to study", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("quiz selection failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, SelectQuizResponse{
		QuizID:      quizID,
		QuestionIDs: questionIDs,
	})
}

// POST /quiz/complete
func (h *Handler) completeQuiz(w http.ResponseWriter, r *http.Request) {
	var req CompleteQuizRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Questions) == 0 {
		http.Error(w, "quiz result has no questions", http.StatusBadRequest)
		return
	}

	result := history.QuizResult{
		QuizID:      req.QuizID,
		CompletedAt: time.Now(),
		Score:       req.Score,
		Questions:   make([]history.QuestionResult, 0, len(req.Questions)),
	}
	for _, q := range req.Questions {
		result.Questions = append(result.Questions, history.QuestionResult{
			QuestionID: q.QuestionID,
			TopicID:    q.TopicID,
			CategoryID: q.CategoryID,
			Correct:    q.Correct,
			Skipped:    q.Skipped,
			Partial:    q.Partial,
			TimeSpent:  time.Duration(q.TimeSpentMs) * time.Millisecond,
		})
	}

	prog, err := h.profile.RecordQuizResult(result)
	if err != nil {
		h.logger.Error("failed to record quiz result", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	st, _ := h.profile.Streak()
	respondJSON(w, http.StatusOK, CompleteQuizResponse{
		Progress:     prog,
		StreakDay:    st.Current,
		StreakActive: st.IsActive(time.Now()),
	})
}
