package scheduler

import (
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/quizhabit/backend/internal/service"
)

// Scheduler drives the periodic day-rollover check. An hourly tick is
// enough: the rollover recomputes from the stored state and "now", so extra
// or missed ticks never corrupt the streak.
type Scheduler struct {
	scheduler *gocron.Scheduler
	profile   *service.LearnerProfile
	logger    *slog.Logger
}

// New creates a scheduler bound to a learner profile.
func New(profile *service.LearnerProfile, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		profile:   profile,
		logger:    logger,
	}
}

// Start begins the hourly rollover tick in the background. It also runs one
// check immediately so a restart after downtime catches up right away.
func (s *Scheduler) Start() {
	s.runRollover()
	s.scheduler.Every(1).Hour().Do(s.runRollover)
	s.scheduler.StartAsync()
}

// Stop terminates the tick loop.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) runRollover() {
	if err := s.profile.Tick(time.Now()); err != nil {
		s.logger.Error("day rollover check failed", "error", err)
	}
}
