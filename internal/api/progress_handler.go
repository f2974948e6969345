// internal/api/progress_handler.go
package api

import (
	"net/http"
	"time"

	"github.com/quizhabit/backend/internal/domain/dailygoal"
)

type TodayProgressResponse struct {
	Progress dailygoal.Progress `json:"progress"`
	Session  *SessionSnapshot   `json:"session,omitempty"`
}

type SessionSnapshot struct {
	Day                string   `json:"day"`
	QuestionsCompleted int      `json:"questions_completed"`
	TimeSpentMin       int      `json:"time_spent_min"`
	CategoriesStudied  []string `json:"categories_studied"`
	AverageScore       float64  `json:"average_score"`
	GoalAchieved       bool     `json:"goal_achieved"`
	StreakDay          int      `json:"streak_day"`
}

type StreakResponse struct {
	Current       int    `json:"current"`
	Longest       int    `json:"longest"`
	LastStudyDate string `json:"last_study_date,omitempty"`
	Active        bool   `json:"active"`
	RecoveryOffer bool   `json:"recovery_offer"`
}

// GET /progress/today
func (h *Handler) todayProgress(w http.ResponseWriter, r *http.Request) {
	prog, sess, err := h.profile.TodayProgress()
	if err != nil {
		h.logger.Error("failed to load today's progress", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp := TodayProgressResponse{Progress: prog}
	if sess != nil {
		resp.Session = &SessionSnapshot{
			Day:                sess.Day,
			QuestionsCompleted: sess.QuestionsCompleted,
			TimeSpentMin:       int(sess.TimeSpent.Minutes()),
			CategoriesStudied:  sess.CategoriesStudied,
			AverageScore:       sess.AverageScore,
			GoalAchieved:       sess.GoalAchieved,
			StreakDay:          sess.StreakDay,
		}
	}
	respondJSON(w, http.StatusOK, resp)
}

// GET /streak
func (h *Handler) getStreak(w http.ResponseWriter, r *http.Request) {
	st, recovery := h.profile.Streak()

	resp := StreakResponse{
		Current:       st.Current,
		Longest:       st.Longest,
		Active:        st.IsActive(time.Now()),
		RecoveryOffer: recovery,
	}
	if !st.LastStudyDate.IsZero() {
		resp.LastStudyDate = st.LastStudyDate.Format(dailygoal.DayFormat)
	}
	respondJSON(w, http.StatusOK, resp)
}

// POST /streak/recover
func (h *Handler) recoverStreak(w http.ResponseWriter, r *http.Request) {
	if err := h.profile.AcceptRecovery(); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	st, _ := h.profile.Streak()
	respondJSON(w, http.StatusOK, map[string]any{
		"status": "recovered",
		"streak": st.Current,
	})
}
