package scheduler

import (
	"career_compass_backend/pkg/logger"
	"career_compass_backend/pkg/monitoring"
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// StatsSource reports completed test counts keyed by assessment type name.
type StatsSource interface {
	CountCompletedByType(ctx context.Context) (map[string]int64, error)
}

// Scheduler runs periodic background jobs.
type Scheduler struct {
	scheduler *gocron.Scheduler
	stats     StatsSource
	interval  time.Duration
}

func New(stats StatsSource, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		stats:     stats,
		interval:  interval,
	}
}

// Start registers the jobs and runs them asynchronously; the first run
// happens immediately.
func (s *Scheduler) Start() error {
	if _, err := s.scheduler.Every(s.interval).Do(s.RefreshStats); err != nil {
		return err
	}
	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// RefreshStats updates the completed-tests gauge.
func (s *Scheduler) RefreshStats() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	counts, err := s.stats.CountCompletedByType(ctx)
	if err != nil {
		logger.Log.Warn("refresh assessment stats failed", zap.Error(err))
		return
	}
	for category, n := range counts {
		monitoring.SetTestsCompleted(category, n)
	}
	logger.Log.Debug("assessment stats refreshed", zap.Int("types", len(counts)))
}
