// internal/store/sqlite.go
package store

import (
	"database/sql"
	"encoding/json"
	"time"

	_ "modernc.org/sqlite"

	"github.com/quizhabit/backend/internal/domain/dailygoal"
	"github.com/quizhabit/backend/internal/domain/history"
	"github.com/quizhabit/backend/internal/domain/insight"
	"github.com/quizhabit/backend/internal/domain/streak"
	"github.com/quizhabit/backend/internal/domain/taxonomy"
)

const schema = `
CREATE TABLE IF NOT EXISTS categories (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS topics (
    id TEXT PRIMARY KEY,
    category_id TEXT NOT NULL,
    name TEXT NOT NULL,
    FOREIGN KEY (category_id) REFERENCES categories(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS topic_prerequisites (
    topic_id TEXT NOT NULL,
    prerequisite_id TEXT NOT NULL,
    PRIMARY KEY (topic_id, prerequisite_id),
    FOREIGN KEY (topic_id) REFERENCES topics(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS questions (
    id TEXT PRIMARY KEY,
    topic_id TEXT NOT NULL,
    category_id TEXT NOT NULL,
    prompt TEXT NOT NULL,
    FOREIGN KEY (topic_id) REFERENCES topics(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS answer_records (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    question_id TEXT NOT NULL,
    topic_id TEXT NOT NULL,
    category_id TEXT NOT NULL,
    correct INTEGER NOT NULL,
    skipped INTEGER NOT NULL,
    partial INTEGER NOT NULL,
    answered_at TEXT NOT NULL,
    time_spent_ms INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS daily_sessions (
    day TEXT PRIMARY KEY,
    questions_completed INTEGER NOT NULL,
    time_spent_ms INTEGER NOT NULL,
    categories TEXT NOT NULL,
    average_score REAL NOT NULL,
    correct_answers INTEGER NOT NULL,
    total_questions INTEGER NOT NULL,
    goal_achieved INTEGER NOT NULL,
    streak_day INTEGER NOT NULL,
    quiz_ids TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS study_streak (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    current INTEGER NOT NULL,
    longest INTEGER NOT NULL,
    last_study_date TEXT NOT NULL,
    grace_days INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS insights (
    id TEXT PRIMARY KEY,
    type TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    actionable INTEGER NOT NULL,
    target_id TEXT NOT NULL,
    created_at TEXT NOT NULL
);
`

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// Taxonomy
// ============================================================================

func (s *SQLiteStore) SaveCategory(cat *taxonomy.Category) error {
	_, err := s.db.Exec("INSERT INTO categories (id, name) VALUES (?, ?)", cat.ID, cat.Name)
	return err
}

func (s *SQLiteStore) Categories() ([]taxonomy.Category, error) {
	rows, err := s.db.Query("SELECT id, name FROM categories")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []taxonomy.Category
	for rows.Next() {
		var cat taxonomy.Category
		if err := rows.Scan(&cat.ID, &cat.Name); err != nil {
			return nil, err
		}
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}

func (s *SQLiteStore) SaveTopic(t *taxonomy.Topic) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("INSERT INTO topics (id, category_id, name) VALUES (?, ?, ?)", t.ID, t.CategoryID, t.Name); err != nil {
		return err
	}
	for _, pre := range t.Prerequisites {
		if _, err := tx.Exec("INSERT INTO topic_prerequisites (topic_id, prerequisite_id) VALUES (?, ?)", t.ID, pre); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Topics() ([]taxonomy.Topic, error) {
	rows, err := s.db.Query(`
		SELECT t.id, t.category_id, t.name, COUNT(q.id)
		FROM topics t
		LEFT JOIN questions q ON q.topic_id = t.id
		GROUP BY t.id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var topics []taxonomy.Topic
	index := make(map[string]int)
	for rows.Next() {
		var t taxonomy.Topic
		if err := rows.Scan(&t.ID, &t.CategoryID, &t.Name, &t.TotalQuestions); err != nil {
			return nil, err
		}
		index[t.ID] = len(topics)
		topics = append(topics, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	preRows, err := s.db.Query("SELECT topic_id, prerequisite_id FROM topic_prerequisites")
	if err != nil {
		return nil, err
	}
	defer preRows.Close()

	for preRows.Next() {
		var topicID, preID string
		if err := preRows.Scan(&topicID, &preID); err != nil {
			return nil, err
		}
		if i, ok := index[topicID]; ok {
			topics[i].Prerequisites = append(topics[i].Prerequisites, preID)
		}
	}
	return topics, preRows.Err()
}

func (s *SQLiteStore) SaveQuestion(q *taxonomy.Question) error {
	_, err := s.db.Exec(
		"INSERT INTO questions (id, topic_id, category_id, prompt) VALUES (?, ?, ?, ?)",
		q.ID, q.TopicID, q.CategoryID, q.Prompt,
	)
	return err
}

func (s *SQLiteStore) Questions() ([]taxonomy.Question, error) {
	rows, err := s.db.Query("SELECT id, topic_id, category_id, prompt FROM questions")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []taxonomy.Question
	for rows.Next() {
		var q taxonomy.Question
		if err := rows.Scan(&q.ID, &q.TopicID, &q.CategoryID, &q.Prompt); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// ============================================================================
// Answer history
// ============================================================================

func (s *SQLiteStore) SaveAnswers(records []history.AnswerRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, r := range records {
		answeredAt := ""
		if !r.AnsweredAt.IsZero() {
			answeredAt = r.AnsweredAt.Format(time.RFC3339)
		}
		_, err := tx.Exec(
			`INSERT INTO answer_records
			 (question_id, topic_id, category_id, correct, skipped, partial, answered_at, time_spent_ms)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			r.QuestionID, r.TopicID, r.CategoryID,
			boolInt(r.Correct), boolInt(r.Skipped), boolInt(r.Partial),
			answeredAt, r.TimeSpent.Milliseconds(),
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) AnswersByTopic(topicID string) ([]history.AnswerRecord, error) {
	rows, err := s.db.Query(
		`SELECT question_id, topic_id, category_id, correct, skipped, partial, answered_at, time_spent_ms
		 FROM answer_records WHERE topic_id = ? ORDER BY id`,
		topicID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAnswers(rows)
}

// LatestAnswers returns the most recent answer per question.
func (s *SQLiteStore) LatestAnswers() (map[string]history.AnswerRecord, error) {
	rows, err := s.db.Query(
		`SELECT question_id, topic_id, category_id, correct, skipped, partial, answered_at, time_spent_ms
		 FROM answer_records ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records, err := scanAnswers(rows)
	if err != nil {
		return nil, err
	}
	latest := make(map[string]history.AnswerRecord, len(records))
	for _, r := range records {
		latest[r.QuestionID] = r // rows ordered oldest to newest
	}
	return latest, nil
}

func scanAnswers(rows *sql.Rows) ([]history.AnswerRecord, error) {
	var records []history.AnswerRecord
	for rows.Next() {
		var r history.AnswerRecord
		var correct, skipped, partial int
		var answeredAt string
		var timeSpentMs int64
		if err := rows.Scan(&r.QuestionID, &r.TopicID, &r.CategoryID, &correct, &skipped, &partial, &answeredAt, &timeSpentMs); err != nil {
			return nil, err
		}
		r.Correct = correct != 0
		r.Skipped = skipped != 0
		r.Partial = partial != 0
		if answeredAt != "" {
			t, err := time.Parse(time.RFC3339, answeredAt)
			if err == nil {
				r.AnsweredAt = t
			}
		}
		r.TimeSpent = time.Duration(timeSpentMs) * time.Millisecond
		records = append(records, r)
	}
	return records, rows.Err()
}

// ============================================================================
// Daily sessions
// ============================================================================

func (s *SQLiteStore) SaveDailySession(sess *dailygoal.Session) error {
	categoriesJSON, _ := json.Marshal(sess.CategoriesStudied)
	quizIDsJSON, _ := json.Marshal(sess.QuizIDs)

	_, err := s.db.Exec(
		`INSERT INTO daily_sessions
		 (day, questions_completed, time_spent_ms, categories, average_score, correct_answers, total_questions, goal_achieved, streak_day, quiz_ids)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(day) DO UPDATE SET
		   questions_completed = excluded.questions_completed,
		   time_spent_ms = excluded.time_spent_ms,
		   categories = excluded.categories,
		   average_score = excluded.average_score,
		   correct_answers = excluded.correct_answers,
		   total_questions = excluded.total_questions,
		   goal_achieved = excluded.goal_achieved,
		   streak_day = excluded.streak_day,
		   quiz_ids = excluded.quiz_ids`,
		sess.Day, sess.QuestionsCompleted, sess.TimeSpent.Milliseconds(),
		string(categoriesJSON), sess.AverageScore, sess.CorrectAnswers, sess.TotalQuestions,
		boolInt(sess.GoalAchieved), sess.StreakDay, string(quizIDsJSON),
	)
	return err
}

func (s *SQLiteStore) DailySession(day string) (*dailygoal.Session, error) {
	row := s.db.QueryRow(
		`SELECT day, questions_completed, time_spent_ms, categories, average_score, correct_answers, total_questions, goal_achieved, streak_day, quiz_ids
		 FROM daily_sessions WHERE day = ?`,
		day,
	)
	sess, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return sess, err
}

// RecentSessions returns up to limit sessions ordered oldest to newest.
func (s *SQLiteStore) RecentSessions(limit int) ([]dailygoal.Session, error) {
	rows, err := s.db.Query(
		`SELECT day, questions_completed, time_spent_ms, categories, average_score, correct_answers, total_questions, goal_achieved, streak_day, quiz_ids
		 FROM daily_sessions ORDER BY day DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []dailygoal.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		// prepend to flip DESC rows into oldest-first order
		sessions = append([]dailygoal.Session{*sess}, sessions...)
	}
	return sessions, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*dailygoal.Session, error) {
	var sess dailygoal.Session
	var timeSpentMs int64
	var categoriesJSON, quizIDsJSON string
	var goalAchieved int
	err := row.Scan(
		&sess.Day, &sess.QuestionsCompleted, &timeSpentMs, &categoriesJSON,
		&sess.AverageScore, &sess.CorrectAnswers, &sess.TotalQuestions,
		&goalAchieved, &sess.StreakDay, &quizIDsJSON,
	)
	if err != nil {
		return nil, err
	}
	sess.TimeSpent = time.Duration(timeSpentMs) * time.Millisecond
	sess.GoalAchieved = goalAchieved != 0
	json.Unmarshal([]byte(categoriesJSON), &sess.CategoriesStudied)
	json.Unmarshal([]byte(quizIDsJSON), &sess.QuizIDs)
	return &sess, nil
}

// ============================================================================
// Streak
// ============================================================================

func (s *SQLiteStore) SaveStreak(st *streak.Streak) error {
	lastStudy := ""
	if !st.LastStudyDate.IsZero() {
		lastStudy = st.LastStudyDate.Format(time.RFC3339)
	}
	_, err := s.db.Exec(
		`INSERT INTO study_streak (id, current, longest, last_study_date, grace_days)
		 VALUES (1, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   current = excluded.current,
		   longest = excluded.longest,
		   last_study_date = excluded.last_study_date,
		   grace_days = excluded.grace_days`,
		st.Current, st.Longest, lastStudy, st.GracePeriodDays,
	)
	return err
}

func (s *SQLiteStore) LoadStreak() (*streak.Streak, error) {
	var st streak.Streak
	var lastStudy string
	err := s.db.QueryRow("SELECT current, longest, last_study_date, grace_days FROM study_streak WHERE id = 1").
		Scan(&st.Current, &st.Longest, &lastStudy, &st.GracePeriodDays)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if lastStudy != "" {
		t, err := time.Parse(time.RFC3339, lastStudy)
		if err == nil {
			st.LastStudyDate = t
		}
	}
	return &st, nil
}

// ============================================================================
// Insights
// ============================================================================

func (s *SQLiteStore) AddInsight(ins insight.Insight) error {
	_, err := s.db.Exec(
		`INSERT INTO insights (id, type, title, description, actionable, target_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ins.ID, string(ins.Type), ins.Title, ins.Description,
		boolInt(ins.Actionable), ins.TargetID, ins.CreatedAt.Format(time.RFC3339),
	)
	return err
}

func (s *SQLiteStore) Insights() ([]insight.Insight, error) {
	rows, err := s.db.Query(
		`SELECT id, type, title, description, actionable, target_id, created_at
		 FROM insights ORDER BY created_at DESC, rowid DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var insights []insight.Insight
	for rows.Next() {
		var ins insight.Insight
		var typ, createdAt string
		var actionable int
		if err := rows.Scan(&ins.ID, &typ, &ins.Title, &ins.Description, &actionable, &ins.TargetID, &createdAt); err != nil {
			return nil, err
		}
		ins.Type = insight.Type(typ)
		ins.Actionable = actionable != 0
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			ins.CreatedAt = t
		}
		insights = append(insights, ins)
	}
	return insights, rows.Err()
}

// ReplaceInsights rewrites the full insight list after a generation pass.
func (s *SQLiteStore) ReplaceInsights(insights []insight.Insight) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM insights"); err != nil {
		return err
	}
	for _, ins := range insights {
		_, err := tx.Exec(
			`INSERT INTO insights (id, type, title, description, actionable, target_id, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			ins.ID, string(ins.Type), ins.Title, ins.Description,
			boolInt(ins.Actionable), ins.TargetID, ins.CreatedAt.Format(time.RFC3339),
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
