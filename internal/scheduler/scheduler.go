package scheduler

import (
	"context"
	"log/slog"
	"time"

	"gamecatalog/internal/domain"
)

// Populator is the operation run on every tick.
type Populator interface {
	Populate(ctx context.Context) (*domain.PopulateResult, error)
}

// Scheduler periodically repopulates the catalog.
type Scheduler struct {
	populator  Populator
	interval   time.Duration
	runTimeout time.Duration
	logger     *slog.Logger
}

func NewScheduler(populator Populator, interval, runTimeout time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		populator:  populator,
		interval:   interval,
		runTimeout: runTimeout,
		logger:     logger.With("component", "scheduler"),
	}
}

// Start blocks until ctx is cancelled. The first run happens after one interval,
// not immediately, so a restart does not duplicate the catalog.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runPopulate(ctx)
		}
	}
}

func (s *Scheduler) runPopulate(ctx context.Context) {
	runCtx := ctx
	if s.runTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.runTimeout)
		defer cancel()
	}

	result, err := s.populator.Populate(runCtx)
	if err != nil {
		s.logger.Error("scheduled populate failed", "error", err)
		return
	}

	s.logger.Info("scheduled populate finished",
		"games", result.GamesCount,
		"elapsed", result.TimeElapsed,
	)
}
