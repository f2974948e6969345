// internal/service/profile.go
package service

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/quizhabit/backend/internal/domain/dailygoal"
	"github.com/quizhabit/backend/internal/domain/history"
	"github.com/quizhabit/backend/internal/domain/insight"
	"github.com/quizhabit/backend/internal/domain/selection"
	"github.com/quizhabit/backend/internal/domain/streak"
	"github.com/quizhabit/backend/internal/id"
	"github.com/quizhabit/backend/internal/store"
)

// LearnerProfile is the single writer over the learner's mutable aggregates:
// today's session and the streak. There is one active learner per running
// instance, so one mutex serializes every goal-completion transition and
// rollover check.
type LearnerProfile struct {
	store    store.Store
	selector *selection.Selector
	engine   *insight.Engine
	logger   *slog.Logger

	goal dailygoal.Goal
	loc  *time.Location
	now  func() time.Time

	mu     sync.Mutex
	streak *streak.Streak
}

// NewLearnerProfile loads (or initializes) the learner's streak and returns
// a ready profile.
func NewLearnerProfile(s store.Store, goal dailygoal.Goal, gracePeriodDays int, loc *time.Location, retryWindow time.Duration, logger *slog.Logger) (*LearnerProfile, error) {
	if loc == nil {
		loc = time.Local
	}

	st, err := s.LoadStreak()
	if err == store.ErrNotFound {
		st = streak.New(gracePeriodDays)
	} else if err != nil {
		return nil, fmt.Errorf("load streak: %w", err)
	}

	return &LearnerProfile{
		store:    s,
		selector: selection.NewSelector(retryWindow, logger),
		engine:   insight.NewEngine(),
		logger:   logger,
		goal:     goal,
		loc:      loc,
		now:      time.Now,
		streak:   st,
	}, nil
}

// Goal returns the active daily goal.
func (p *LearnerProfile) Goal() dailygoal.Goal {
	return p.goal
}

// SelectQuiz builds a new quiz from the current question pool. categories
// narrows the pool; an empty list selects from everything.
func (p *LearnerProfile) SelectQuiz(count int, categories []string) (quizID string, questionIDs []string, err error) {
	questions, err := p.store.Questions()
	if err != nil {
		return "", nil, fmt.Errorf("load questions: %w", err)
	}
	latest, err := p.store.LatestAnswers()
	if err != nil {
		return "", nil, fmt.Errorf("load answer history: %w", err)
	}

	enabled := make(map[string]bool, len(categories))
	for _, c := range categories {
		enabled[c] = true
	}

	ids, err := p.selector.Select(questions, latest, enabled, count)
	if err != nil {
		return "", nil, err
	}
	return id.GenerateID(), ids, nil
}

// RecordQuizResult folds an already-graded quiz into today's session,
// persists the answer records, and drives the streak on the day's first
// goal completion. Returns the resulting daily progress.
func (p *LearnerProfile) RecordQuizResult(r history.QuizResult) (dailygoal.Progress, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now().In(p.loc)
	day := dailygoal.DayOf(now)

	sess, err := p.store.DailySession(day)
	if err == store.ErrNotFound {
		sess = dailygoal.NewSession(day)
	} else if err != nil {
		return dailygoal.Progress{}, fmt.Errorf("load daily session: %w", err)
	}

	wasCompleted := p.goal.Evaluate(sess).Completed

	sess.Merge(r)
	if err := p.store.SaveAnswers(r.Records()); err != nil {
		return dailygoal.Progress{}, fmt.Errorf("save answers: %w", err)
	}

	prog := p.goal.Evaluate(sess)
	if prog.Completed && !wasCompleted {
		p.onGoalAchieved(sess, now)
	}

	if err := p.store.SaveDailySession(sess); err != nil {
		return dailygoal.Progress{}, fmt.Errorf("save daily session: %w", err)
	}
	return prog, nil
}

// onGoalAchieved runs the first not-completed → completed transition of the
// day: streak update, then a milestone insight when the streak continued.
func (p *LearnerProfile) onGoalAchieved(sess *dailygoal.Session, now time.Time) {
	sess.GoalAchieved = true

	p.streak.RecordCompletion(now)
	sess.StreakDay = p.streak.Current

	if err := p.store.SaveStreak(p.streak); err != nil {
		p.logger.Error("failed to save streak", "error", err)
	}

	if p.streak.Current > 1 {
		ins := insight.StreakMilestone(p.streak.Current, now)
		if err := p.store.AddInsight(ins); err != nil {
			p.logger.Error("failed to save milestone insight", "error", err)
		}
	}

	p.logger.Info("daily goal achieved",
		"day", sess.Day,
		"streak", p.streak.Current,
	)
}

// TodayProgress returns the goal progress and session snapshot for today.
// The session is nil when nothing was studied yet.
func (p *LearnerProfile) TodayProgress() (dailygoal.Progress, *dailygoal.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	day := dailygoal.DayOf(p.now().In(p.loc))
	sess, err := p.store.DailySession(day)
	if err == store.ErrNotFound {
		return p.goal.Evaluate(nil), nil, nil
	}
	if err != nil {
		return dailygoal.Progress{}, nil, fmt.Errorf("load daily session: %w", err)
	}
	return p.goal.Evaluate(sess), sess, nil
}

// Streak returns a snapshot of the streak state plus whether a recovery
// offer is currently open.
func (p *LearnerProfile) Streak() (streak.Streak, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now().In(p.loc)
	return *p.streak, p.streak.ShouldOfferRecovery(now)
}

// AcceptRecovery applies the learner's accepted streak recovery.
func (p *LearnerProfile) AcceptRecovery() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now().In(p.loc)
	if !p.streak.ShouldOfferRecovery(now) {
		return fmt.Errorf("no recovery offer open")
	}
	p.streak.AcceptRecovery(now)
	if err := p.store.SaveStreak(p.streak); err != nil {
		return fmt.Errorf("save streak: %w", err)
	}
	p.logger.Info("streak recovery accepted", "streak", p.streak.Current)
	return nil
}

// Tick is the periodic day-rollover check, invoked hourly by the external
// scheduler. It recomputes from the stored last-study date and now, so
// running it twice within the same hour or across a clock change cannot
// double-reset. While a recovery offer is open the reset is held back so
// the external recovery flow can still short-circuit it.
func (p *LearnerProfile) Tick(now time.Time) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	now = now.In(p.loc)

	if p.streak.ShouldOfferRecovery(now) {
		p.logger.Info("streak recovery window open",
			"streak", p.streak.Current,
			"last_study", p.streak.LastStudyDate.Format(dailygoal.DayFormat),
		)
		return nil
	}

	before := p.streak.Current
	p.streak.Rollover(now)
	if p.streak.Current == before {
		return nil
	}

	p.logger.Info("streak reset by day rollover", "previous", before)
	if err := p.store.SaveStreak(p.streak); err != nil {
		return fmt.Errorf("save streak: %w", err)
	}
	return nil
}

// RefreshInsights runs one insight-generation pass over recent history and
// persists the updated list.
func (p *LearnerProfile) RefreshInsights(analytics *Analytics) ([]insight.Insight, error) {
	sessions, err := p.store.RecentSessions(30)
	if err != nil {
		return nil, fmt.Errorf("load recent sessions: %w", err)
	}
	existing, err := p.store.Insights()
	if err != nil {
		return nil, fmt.Errorf("load insights: %w", err)
	}
	perf, err := analytics.CategoryPerformance()
	if err != nil {
		return nil, fmt.Errorf("compute performance: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	updated := p.engine.Generate(existing, sessions, perf)
	if err := p.store.ReplaceInsights(updated); err != nil {
		return nil, fmt.Errorf("save insights: %w", err)
	}
	return updated, nil
}
