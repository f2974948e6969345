// internal/api/taxonomy_handler.go
package api

import (
	"errors"
	"net/http"

	"github.com/quizhabit/backend/internal/domain/taxonomy"
)

// ── Request / Response types ────────────────────────────────────────────────

type CreateCategoryRequest struct {
	Name string `json:"name"`
}

func (r *CreateCategoryRequest) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CreateTopicRequest struct {
	CategoryID    string   `json:"category_id"`
	Name          string   `json:"name"`
	Prerequisites []string `json:"prerequisites,omitempty"`
}

func (r *CreateTopicRequest) Validate() error {
	if r.CategoryID == "" {
		return errors.New("category_id is required")
	}
	if r.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

type TopicResponse struct {
	ID             string   `json:"id"`
	CategoryID     string   `json:"category_id"`
	Name           string   `json:"name"`
	Prerequisites  []string `json:"prerequisites,omitempty"`
	TotalQuestions int      `json:"total_questions"`
}

type CreateQuestionRequest struct {
	TopicID    string `json:"topic_id"`
	CategoryID string `json:"category_id"`
	Prompt     string `json:"prompt"`
}

func (r *CreateQuestionRequest) Validate() error {
	if r.TopicID == "" {
		return errors.New("topic_id is required")
	}
	if r.CategoryID == "" {
		return errors.New("category_id is required")
	}
	if r.Prompt == "" {
		return errors.New("prompt is required")
	}
	return nil
}

type QuestionResponse struct {
	ID         string `json:"id"`
	TopicID    string `json:"topic_id"`
	CategoryID string `json:"category_id"`
	Prompt     string `json:"prompt"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// POST /categories
func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cat := taxonomy.NewCategory(req.Name)
	if h.handleStoreError(w, h.store.SaveCategory(cat), "category") {
		return
	}
	respondJSON(w, http.StatusCreated, CategoryResponse{ID: cat.ID, Name: cat.Name})
}

// GET /categories
func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.Categories()
	if h.handleStoreError(w, err, "categories") {
		return
	}

	out := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, CategoryResponse{ID: c.ID, Name: c.Name})
	}
	respondJSON(w, http.StatusOK, map[string]any{"categories": out})
}

// POST /topics
func (h *Handler) createTopic(w http.ResponseWriter, r *http.Request) {
	var req CreateTopicRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	topic := taxonomy.NewTopic(req.CategoryID, req.Name)
	if len(req.Prerequisites) > 0 {
		topic.Prerequisites = req.Prerequisites
	}
	if h.handleStoreError(w, h.store.SaveTopic(topic), "topic") {
		return
	}
	respondJSON(w, http.StatusCreated, toTopicResponse(*topic))
}

// GET /topics
func (h *Handler) listTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := h.store.Topics()
	if h.handleStoreError(w, err, "topics") {
		return
	}

	out := make([]TopicResponse, 0, len(topics))
	for _, t := range topics {
		out = append(out, toTopicResponse(t))
	}
	respondJSON(w, http.StatusOK, map[string]any{"topics": out})
}

// POST /questions
func (h *Handler) createQuestion(w http.ResponseWriter, r *http.Request) {
	var req CreateQuestionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	q := taxonomy.NewQuestion(req.TopicID, req.CategoryID, req.Prompt)
	if h.handleStoreError(w, h.store.SaveQuestion(q), "question") {
		return
	}
	respondJSON(w, http.StatusCreated, QuestionResponse{
		ID:         q.ID,
		TopicID:    q.TopicID,
		CategoryID: q.CategoryID,
		Prompt:     q.Prompt,
	})
}

func toTopicResponse(t taxonomy.Topic) TopicResponse {
	return TopicResponse{
		ID:             t.ID,
		CategoryID:     t.CategoryID,
		Name:           t.Name,
		Prerequisites:  t.Prerequisites,
		TotalQuestions: t.TotalQuestions,
	}
}
