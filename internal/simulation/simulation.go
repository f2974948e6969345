// simulation/simulation.go
package simulation

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/quizhabit/backend/internal/domain/dailygoal"
	"github.com/quizhabit/backend/internal/domain/history"
	"github.com/quizhabit/backend/internal/domain/streak"
	"github.com/quizhabit/backend/internal/domain/taxonomy"
	"github.com/quizhabit/backend/internal/service"
	"github.com/quizhabit/backend/internal/store"
)

// SimulateStudyDay walks one full day of the learning loop against a scratch
// database: seed a small taxonomy, select a quiz, hand back a graded result,
// and print the derived progress, streak, insights, and recommendations.
func SimulateStudyDay() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	db, err := store.NewSQLite(":memory:")
	if err != nil {
		fmt.Println("failed to open database:", err)
		return
	}
	defer db.Close()

	seedTaxonomy(db)

	profile, err := service.NewLearnerProfile(
		db,
		dailygoal.QuestionCountGoal(5),
		streak.DefaultGracePeriodDays,
		time.Local,
		0, // default retry window
		logger,
	)
	if err != nil {
		fmt.Println("failed to build profile:", err)
		return
	}
	analytics := service.NewAnalytics(db, logger)

	// Start a quiz.
	quizID, questionIDs, err := profile.SelectQuiz(5, nil)
	if err != nil {
		fmt.Println("selection failed:", err)
		return
	}
	fmt.Printf("Quiz %s started with %d questions\n", quizID, len(questionIDs))

	// The grading collaborator would produce this after the session ends.
	result := gradeAll(db, quizID, questionIDs)

	prog, err := profile.RecordQuizResult(result)
	if err != nil {
		fmt.Println("recording failed:", err)
		return
	}
	fmt.Printf("Daily progress: %d/%d (completed=%v)\n", prog.Current, prog.Target, prog.Completed)

	st, _ := profile.Streak()
	fmt.Printf("Streak: current=%d longest=%d\n", st.Current, st.Longest)

	insights, err := profile.RefreshInsights(analytics)
	if err != nil {
		fmt.Println("insight pass failed:", err)
		return
	}
	for _, ins := range insights {
		fmt.Printf("Insight: [%s] %s\n", ins.Type, ins.Title)
	}

	recs, err := analytics.Recommendations()
	if err != nil {
		fmt.Println("recommendations failed:", err)
		return
	}
	for _, rec := range recs {
		fmt.Printf("Recommendation (%s): %s\n", rec.Priority, rec.Title)
	}
}

func seedTaxonomy(db *store.SQLiteStore) {
	cat := taxonomy.NewCategory("Go Fundamentals")
	db.SaveCategory(cat)

	basics := taxonomy.NewTopic(cat.ID, "Goroutines")
	db.SaveTopic(basics)

	channels := taxonomy.NewTopic(cat.ID, "Channels")
	channels.Prerequisites = []string{basics.ID}
	db.SaveTopic(channels)

	prompts := []string{
		"What is a goroutine?",
		"How do you start a goroutine?",
		"What happens when main returns with goroutines still running?",
		"What is a channel?",
		"What does closing a channel do?",
		"What is a buffered channel?",
	}
	for i, prompt := range prompts {
		topic := basics
		if i >= 3 {
			topic = channels
		}
		db.SaveQuestion(taxonomy.NewQuestion(topic.ID, cat.ID, prompt))
	}
}

// gradeAll pretends every selected question was answered correctly in 30s.
func gradeAll(db *store.SQLiteStore, quizID string, questionIDs []string) history.QuizResult {
	byID := make(map[string]taxonomy.Question)
	if questions, err := db.Questions(); err == nil {
		for _, q := range questions {
			byID[q.ID] = q
		}
	}

	result := history.QuizResult{
		QuizID:      quizID,
		CompletedAt: time.Now(),
		Score:       1.0,
	}
	for _, qid := range questionIDs {
		q := byID[qid]
		result.Questions = append(result.Questions, history.QuestionResult{
			QuestionID: qid,
			TopicID:    q.TopicID,
			CategoryID: q.CategoryID,
			Correct:    true,
			TimeSpent:  30 * time.Second,
		})
	}
	return result
}
