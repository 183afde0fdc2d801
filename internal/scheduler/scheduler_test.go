package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"gamecatalog/internal/domain"
)

type populatorFunc func(ctx context.Context) (*domain.PopulateResult, error)

func (f populatorFunc) Populate(ctx context.Context) (*domain.PopulateResult, error) {
	return f(ctx)
}

func TestScheduler_RunsOnEveryTickUntilCancelled(t *testing.T) {
	var calls atomic.Int32
	populator := populatorFunc(func(ctx context.Context) (*domain.PopulateResult, error) {
		n := calls.Add(1)
		if n%2 == 0 {
			return nil, errors.New("upstream down")
		}
		return &domain.PopulateResult{GamesCount: 1, TimeElapsed: "1ms"}, nil
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sched := NewScheduler(populator, 10*time.Millisecond, time.Second, logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sched.Start(ctx) }()

	assert.Eventually(t, func() bool { return calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestScheduler_AppliesRunTimeout(t *testing.T) {
	deadlines := make(chan bool, 1)
	populator := populatorFunc(func(ctx context.Context) (*domain.PopulateResult, error) {
		_, ok := ctx.Deadline()
		select {
		case deadlines <- ok:
		default:
		}
		return &domain.PopulateResult{}, nil
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sched := NewScheduler(populator, 5*time.Millisecond, time.Minute, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = sched.Start(ctx) }()

	select {
	case ok := <-deadlines:
		assert.True(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("populate was not called")
	}
}
