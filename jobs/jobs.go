package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Refresher reloads cached content from its source.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Scheduler runs the background jobs. A run still in progress when the
// next one is due is skipped.
type Scheduler struct {
	sched *cron.Cron
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		sched: cron.New(
			cron.WithParser(cronParser),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
	}
}

// AddRefresh schedules r on spec. An empty spec schedules nothing.
// Each run is bounded by timeout.
func (s *Scheduler) AddRefresh(name, spec string, r Refresher, timeout time.Duration) error {
	if spec == "" {
		zap.L().Info("job disabled", zap.String("job", name))
		return nil
	}
	_, err := s.sched.AddFunc(spec, func() {
		runRefresh(name, r, timeout)
	})
	if err != nil {
		return err
	}
	zap.L().Info("job scheduled", zap.String("job", name), zap.String("schedule", spec))
	return nil
}

func (s *Scheduler) Start() {
	s.sched.Start()
}

// Stop stops scheduling and waits for running jobs, or for ctx to end.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.sched.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func runRefresh(name string, r Refresher, timeout time.Duration) {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Errorf("job %s panic: %v", name, err)
		}
	}()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	if err := r.Refresh(ctx); err != nil {
		zap.L().Warn("job failed", zap.String("job", name), zap.Error(err))
		return
	}
	zap.L().Debug("job done", zap.String("job", name), zap.Duration("took", time.Since(start)))
}
