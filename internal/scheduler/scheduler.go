package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/i474232898/skypulse/internal/weather"
)

// Refresher refreshes the snapshot for one location.
type Refresher interface {
	Fallback() weather.Location
	Refresh(ctx context.Context, loc weather.Location) (weather.Snapshot, error)
}

// Pruner drops sessions older than maxAge and reports how many went.
type Pruner interface {
	Prune(maxAge time.Duration) int
}

// Config holds job intervals. A non-positive interval disables its job.
type Config struct {
	RefreshInterval time.Duration
	RefreshTimeout  time.Duration
	SessionTTL      time.Duration
}

// Scheduler keeps the fallback snapshot warm and expires quiz sessions.
type Scheduler struct {
	scheduler *gocron.Scheduler
	refresher Refresher
	sessions  Pruner
	cfg       Config
	logger    *slog.Logger
}

// New creates a new Scheduler. sessions may be nil.
func New(refresher Refresher, sessions Pruner, cfg Config, logger *slog.Logger) *Scheduler {
	if cfg.RefreshTimeout <= 0 {
		cfg.RefreshTimeout = 30 * time.Second
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		refresher: refresher,
		sessions:  sessions,
		cfg:       cfg,
		logger:    logger.With("component", "scheduler"),
	}
}

// Start schedules the periodic jobs and starts the underlying scheduler.
// The refresh job also runs once immediately.
func (s *Scheduler) Start() error {
	if s.cfg.RefreshInterval > 0 && s.refresher != nil {
		if _, err := s.scheduler.Every(s.cfg.RefreshInterval).Do(s.refreshFallback); err != nil {
			return err
		}
	} else {
		s.logger.Info("fallback refresh disabled")
	}

	if s.cfg.SessionTTL > 0 && s.sessions != nil {
		// Prune at a quarter of the TTL, at most once a minute.
		every := s.cfg.SessionTTL / 4
		if every < time.Minute {
			every = time.Minute
		}
		if _, err := s.scheduler.Every(every).WaitForSchedule().Do(s.pruneSessions); err != nil {
			return err
		}
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) refreshFallback() {
	loc := s.refresher.Fallback()

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.RefreshTimeout)
	defer cancel()

	start := time.Now()
	if _, err := s.refresher.Refresh(ctx, loc); err != nil {
		s.logger.Error("fallback refresh failed", "location", loc.Key(), "error", err)
		return
	}
	s.logger.Info("fallback refreshed", "location", loc.Key(), "took", time.Since(start))
}

func (s *Scheduler) pruneSessions() {
	if n := s.sessions.Prune(s.cfg.SessionTTL); n > 0 {
		s.logger.Info("expired quiz sessions pruned", "count", n)
	}
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
