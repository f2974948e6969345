package service

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/quizhabit/backend/internal/domain/dailygoal"
	"github.com/quizhabit/backend/internal/domain/history"
	"github.com/quizhabit/backend/internal/domain/insight"
	"github.com/quizhabit/backend/internal/domain/selection"
	"github.com/quizhabit/backend/internal/domain/streak"
	"github.com/quizhabit/backend/internal/domain/taxonomy"
	"github.com/quizhabit/backend/internal/store"
)

// memStore is an in-memory Store for exercising the profile without SQLite.
type memStore struct {
	categories []taxonomy.Category
	topics     []taxonomy.Topic
	questions  []taxonomy.Question
	answers    []history.AnswerRecord
	sessions   map[string]dailygoal.Session
	streak     *streak.Streak
	insights   []insight.Insight

	streakSaves int
}

func newMemStore() *memStore {
	return &memStore{sessions: make(map[string]dailygoal.Session)}
}

func (m *memStore) Categories() ([]taxonomy.Category, error) { return m.categories, nil }
func (m *memStore) SaveCategory(c *taxonomy.Category) error {
	m.categories = append(m.categories, *c)
	return nil
}

func (m *memStore) Topics() ([]taxonomy.Topic, error) { return m.topics, nil }
func (m *memStore) SaveTopic(t *taxonomy.Topic) error {
	m.topics = append(m.topics, *t)
	return nil
}

func (m *memStore) Questions() ([]taxonomy.Question, error) { return m.questions, nil }
func (m *memStore) SaveQuestion(q *taxonomy.Question) error {
	m.questions = append(m.questions, *q)
	return nil
}

func (m *memStore) AnswersByTopic(topicID string) ([]history.AnswerRecord, error) {
	var out []history.AnswerRecord
	for _, r := range m.answers {
		if r.TopicID == topicID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) LatestAnswers() (map[string]history.AnswerRecord, error) {
	out := make(map[string]history.AnswerRecord)
	for _, r := range m.answers {
		last, ok := out[r.QuestionID]
		if !ok || r.AnsweredAt.After(last.AnsweredAt) {
			out[r.QuestionID] = r
		}
	}
	return out, nil
}

func (m *memStore) SaveAnswers(records []history.AnswerRecord) error {
	m.answers = append(m.answers, records...)
	return nil
}

func (m *memStore) DailySession(day string) (*dailygoal.Session, error) {
	s, ok := m.sessions[day]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &s, nil
}

func (m *memStore) SaveDailySession(s *dailygoal.Session) error {
	m.sessions[s.Day] = *s
	return nil
}

func (m *memStore) RecentSessions(limit int) ([]dailygoal.Session, error) {
	var out []dailygoal.Session
	for _, s := range m.sessions {
		out = append(out, s)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) LoadStreak() (*streak.Streak, error) {
	if m.streak == nil {
		return nil, store.ErrNotFound
	}
	cp := *m.streak
	return &cp, nil
}

func (m *memStore) SaveStreak(s *streak.Streak) error {
	cp := *s
	m.streak = &cp
	m.streakSaves++
	return nil
}

func (m *memStore) Insights() ([]insight.Insight, error) { return m.insights, nil }
func (m *memStore) AddInsight(i insight.Insight) error {
	m.insights = append([]insight.Insight{i}, m.insights...)
	return nil
}
func (m *memStore) ReplaceInsights(list []insight.Insight) error {
	m.insights = list
	return nil
}

var _ store.Store = (*memStore)(nil)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestProfile(t *testing.T, ms *memStore) *LearnerProfile {
	t.Helper()
	p, err := NewLearnerProfile(ms, dailygoal.QuestionCountGoal(3), 1, time.UTC, selection.DefaultRetryWindow, discard())
	if err != nil {
		t.Fatalf("NewLearnerProfile: %v", err)
	}
	return p
}

func quizOf(n int, score float64, completedAt time.Time) history.QuizResult {
	r := history.QuizResult{QuizID: "quiz", Score: score, CompletedAt: completedAt}
	for i := 0; i < n; i++ {
		r.Questions = append(r.Questions, history.QuestionResult{
			QuestionID: string(rune('a' + i)),
			TopicID:    "topic",
			CategoryID: "cat",
			Correct:    score >= 1,
			TimeSpent:  30 * time.Second,
		})
	}
	return r
}

func TestRecordQuizResult_AccumulatesProgress(t *testing.T) {
	ms := newMemStore()
	p := newTestProfile(t, ms)
	base := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return base }

	prog, err := p.RecordQuizResult(quizOf(2, 1.0, base))
	if err != nil {
		t.Fatalf("RecordQuizResult: %v", err)
	}
	if prog.Current != 2 || prog.Completed {
		t.Errorf("after 2 of 3 questions: got %+v", prog)
	}
	if len(ms.answers) != 2 {
		t.Errorf("expected 2 answer records persisted, got %d", len(ms.answers))
	}

	prog, err = p.RecordQuizResult(quizOf(2, 1.0, base))
	if err != nil {
		t.Fatalf("RecordQuizResult: %v", err)
	}
	if !prog.Completed {
		t.Errorf("goal should be met at 4 of 3: %+v", prog)
	}
}

func TestRecordQuizResult_FirstCompletionStartsStreak(t *testing.T) {
	ms := newMemStore()
	p := newTestProfile(t, ms)
	base := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return base }

	if _, err := p.RecordQuizResult(quizOf(3, 1.0, base)); err != nil {
		t.Fatalf("RecordQuizResult: %v", err)
	}

	st, _ := p.Streak()
	if st.Current != 1 {
		t.Errorf("first ever completion: streak = %d, want 1", st.Current)
	}
	if len(ms.insights) != 0 {
		t.Errorf("a streak of 1 must not produce a milestone insight: %v", ms.insights)
	}
	sess := ms.sessions[dailygoal.DayOf(base)]
	if !sess.GoalAchieved || sess.StreakDay != 1 {
		t.Errorf("session snapshot: %+v", sess)
	}
}

func TestRecordQuizResult_ConsecutiveDayMilestone(t *testing.T) {
	ms := newMemStore()
	p := newTestProfile(t, ms)
	day1 := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return day1 }

	if _, err := p.RecordQuizResult(quizOf(3, 1.0, day1)); err != nil {
		t.Fatal(err)
	}

	day2 := day1.AddDate(0, 0, 1)
	p.now = func() time.Time { return day2 }
	if _, err := p.RecordQuizResult(quizOf(3, 1.0, day2)); err != nil {
		t.Fatal(err)
	}

	st, _ := p.Streak()
	if st.Current != 2 {
		t.Errorf("streak = %d, want 2", st.Current)
	}
	if len(ms.insights) != 1 || ms.insights[0].Type != insight.TypeStreakMilestone {
		t.Errorf("expected one milestone insight, got %v", ms.insights)
	}
}

func TestRecordQuizResult_SameDayCompletionCountedOnce(t *testing.T) {
	ms := newMemStore()
	p := newTestProfile(t, ms)
	base := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return base }

	for i := 0; i < 3; i++ {
		if _, err := p.RecordQuizResult(quizOf(3, 1.0, base)); err != nil {
			t.Fatal(err)
		}
	}

	st, _ := p.Streak()
	if st.Current != 1 {
		t.Errorf("repeated same-day completions: streak = %d, want 1", st.Current)
	}
	if ms.streakSaves != 1 {
		t.Errorf("streak persisted %d times, want once", ms.streakSaves)
	}
}

func TestTick_RecoveryWindowHoldsReset(t *testing.T) {
	ms := newMemStore()
	lastStudy := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	ms.streak = &streak.Streak{Current: 5, Longest: 5, LastStudyDate: lastStudy, GracePeriodDays: 1}
	p := newTestProfile(t, ms)

	if err := p.Tick(lastStudy.AddDate(0, 0, 2)); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	st, _ := p.Streak()
	if st.Current != 5 {
		t.Errorf("reset must be held during the recovery window, streak = %d", st.Current)
	}
}

func TestTick_ResetsAfterRecoveryWindow(t *testing.T) {
	ms := newMemStore()
	lastStudy := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	ms.streak = &streak.Streak{Current: 5, Longest: 5, LastStudyDate: lastStudy, GracePeriodDays: 1}
	p := newTestProfile(t, ms)

	if err := p.Tick(lastStudy.AddDate(0, 0, 5)); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	st, _ := p.Streak()
	if st.Current != 0 {
		t.Errorf("streak = %d, want 0 after the recovery window closed", st.Current)
	}
	if ms.streak.Current != 0 {
		t.Error("reset streak was not persisted")
	}
	if st.Longest != 5 {
		t.Errorf("longest = %d, must survive the reset", st.Longest)
	}
}

func TestTick_NoChangeNoSave(t *testing.T) {
	ms := newMemStore()
	lastStudy := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	ms.streak = &streak.Streak{Current: 5, Longest: 5, LastStudyDate: lastStudy, GracePeriodDays: 1}
	p := newTestProfile(t, ms)
	saves := ms.streakSaves

	if err := p.Tick(lastStudy.AddDate(0, 0, 1)); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if ms.streakSaves != saves {
		t.Error("an intact streak must not be rewritten on every tick")
	}
}

func TestAcceptRecovery(t *testing.T) {
	ms := newMemStore()
	lastStudy := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	ms.streak = &streak.Streak{Current: 5, Longest: 5, LastStudyDate: lastStudy, GracePeriodDays: 1}
	p := newTestProfile(t, ms)
	now := lastStudy.Add(48*time.Hour + 9*time.Hour)
	p.now = func() time.Time { return now }

	if err := p.AcceptRecovery(); err != nil {
		t.Fatalf("AcceptRecovery: %v", err)
	}
	st, offer := p.Streak()
	if st.Current != 5 {
		t.Errorf("streak = %d, recovery must preserve it", st.Current)
	}
	if offer {
		t.Error("offer must close once accepted")
	}
	if ms.streak == nil || !ms.streak.LastStudyDate.Equal(streak.CivilDate(now)) {
		t.Errorf("recovered streak not persisted: %+v", ms.streak)
	}
}

func TestAcceptRecovery_NoOfferOpen(t *testing.T) {
	ms := newMemStore()
	lastStudy := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	ms.streak = &streak.Streak{Current: 5, Longest: 5, LastStudyDate: lastStudy, GracePeriodDays: 1}
	p := newTestProfile(t, ms)
	p.now = func() time.Time { return lastStudy.AddDate(0, 0, 1) }

	if err := p.AcceptRecovery(); err == nil {
		t.Error("expected an error when no recovery offer is open")
	}
}

func TestSelectQuiz(t *testing.T) {
	ms := newMemStore()
	for _, id := range []string{"q1", "q2", "q3"} {
		ms.questions = append(ms.questions, taxonomy.Question{ID: id, TopicID: "t", CategoryID: "cat"})
	}
	p := newTestProfile(t, ms)

	quizID, ids, err := p.SelectQuiz(2, nil)
	if err != nil {
		t.Fatalf("SelectQuiz: %v", err)
	}
	if quizID == "" {
		t.Error("expected a quiz ID")
	}
	if len(ids) != 2 {
		t.Errorf("expected 2 questions, got %v", ids)
	}
}

func TestSelectQuiz_EmptyPool(t *testing.T) {
	ms := newMemStore()
	p := newTestProfile(t, ms)

	if _, _, err := p.SelectQuiz(5, nil); err != selection.ErrNoQuestionsAvailable {
		t.Errorf("err = %v, want ErrNoQuestionsAvailable", err)
	}
}

func TestTodayProgress_NothingStudied(t *testing.T) {
	ms := newMemStore()
	p := newTestProfile(t, ms)

	prog, sess, err := p.TodayProgress()
	if err != nil {
		t.Fatalf("TodayProgress: %v", err)
	}
	if sess != nil {
		t.Errorf("expected no session, got %+v", sess)
	}
	if prog.Current != 0 || prog.Completed {
		t.Errorf("empty day progress: %+v", prog)
	}
}
