package taxonomy

import "github.com/quizhabit/backend/internal/id"

// Category groups related topics together.
// Hierarchy: Category → Topics → Questions.
type Category struct {
	ID   string
	Name string
}

// NewCategory creates a Category with a generated ID.
func NewCategory(name string) *Category {
	return &Category{
		ID:   id.GenerateID(),
		Name: name,
	}
}

// Topic is a unit of study inside a category. Prerequisites reference
// other topic IDs that should be learned first.
type Topic struct {
	ID             string
	CategoryID     string
	Name           string
	Prerequisites  []string
	TotalQuestions int
}

// NewTopic creates a Topic with a generated ID.
func NewTopic(categoryID, name string) *Topic {
	return &Topic{
		ID:            id.GenerateID(),
		CategoryID:    categoryID,
		Name:          name,
		Prerequisites: []string{},
	}
}

// Question belongs to exactly one topic.
type Question struct {
	ID         string
	TopicID    string
	CategoryID string
	Prompt     string
}

// NewQuestion creates a Question with a generated ID.
func NewQuestion(topicID, categoryID, prompt string) *Question {
	return &Question{
		ID:         id.GenerateID(),
		TopicID:    topicID,
		CategoryID: categoryID,
		Prompt:     prompt,
	}
}
