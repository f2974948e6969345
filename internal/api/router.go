// internal/api/router.go
package api

import "net/http"

// RegisterRoutes wires every handler onto the mux.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Study material
	mux.HandleFunc("POST /categories", h.createCategory)
	mux.HandleFunc("GET /categories", h.listCategories)
	mux.HandleFunc("POST /topics", h.createTopic)
	mux.HandleFunc("GET /topics", h.listTopics)
	mux.HandleFunc("POST /questions", h.createQuestion)

	// Quiz lifecycle
	mux.HandleFunc("POST /quiz/select", h.selectQuiz)
	mux.HandleFunc("POST /quiz/complete", h.completeQuiz)

	// Daily goal & streak
	mux.HandleFunc("GET /progress/today", h.todayProgress)
	mux.HandleFunc("GET /streak", h.getStreak)
	mux.HandleFunc("POST /streak/recover", h.recoverStreak)

	// Derived views
	mux.HandleFunc("GET /insights", h.listInsights)
	mux.HandleFunc("GET /recommendations", h.listRecommendations)
	mux.HandleFunc("GET /performance", h.categoryPerformance)
}
