package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Sweeper finalizes sessions whose deadline has passed.
type Sweeper interface {
	SweepExpired(ctx context.Context) (int, error)
}

// SweepJob runs a Sweeper on a cron schedule. It backs up the in-process
// timers, which do not survive restarts and are not shared between replicas.
type SweepJob struct {
	sweeper  Sweeper
	schedule string
	timeout  time.Duration
	logger   *zap.Logger
	cron     *cron.Cron

	// serializes runs so a slow sweep never overlaps the next tick
	mu sync.Mutex
}

func NewSweepJob(sweeper Sweeper, schedule string, logger *zap.Logger) *SweepJob {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SweepJob{
		sweeper:  sweeper,
		schedule: schedule,
		timeout:  time.Minute,
		logger:   logger,
		cron:     cron.New(),
	}
}

// Start schedules the sweep. An empty schedule disables it.
func (j *SweepJob) Start() error {
	if j.schedule == "" {
		j.logger.Info("session sweeper disabled")
		return nil
	}

	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
		defer cancel()
		if _, err := j.RunOnce(ctx); err != nil {
			j.logger.Error("session sweep failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule session sweep: %w", err)
	}

	j.cron.Start()
	j.logger.Info("session sweeper started", zap.String("schedule", j.schedule))
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (j *SweepJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("session sweeper stopped")
}

// RunOnce performs a single sweep.
func (j *SweepJob) RunOnce(ctx context.Context) (int, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	n, err := j.sweeper.SweepExpired(ctx)
	if err != nil {
		return n, fmt.Errorf("sweep expired sessions: %w", err)
	}
	if n > 0 {
		j.logger.Info("finalized overdue sessions", zap.Int("count", n))
	}
	return n, nil
}
