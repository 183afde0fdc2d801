package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"gamecatalog/internal/domain"
	"gamecatalog/internal/metrics"
	"gamecatalog/internal/source/store"
)

// IngestService populates the catalog from the Android and iOS store endpoints.
type IngestService struct {
	android   ListingSource
	ios       ListingSource
	games     GameStore
	runs      RunStore
	publisher Publisher
	logger    *slog.Logger
}

func NewIngestService(
	android ListingSource,
	ios ListingSource,
	games GameStore,
	runs RunStore,
	publisher Publisher,
	logger *slog.Logger,
) *IngestService {
	return &IngestService{
		android:   android,
		ios:       ios,
		games:     games,
		runs:      runs,
		publisher: publisher,
		logger:    logger.With("component", "ingest"),
	}
}

// Populate fetches both stores concurrently, maps every listing and inserts the
// result with a single bulk insert. Android games come first. Any fetch failure
// aborts the run before anything is inserted. Failures are returned as
// *domain.PopulateError.
func (s *IngestService) Populate(ctx context.Context) (*domain.PopulateResult, error) {
	startTime := time.Now()
	s.logger.Info("starting populate")

	inserted, err := s.populate(ctx)
	elapsed := time.Since(startTime)

	s.recordRun(ctx, startTime, elapsed, len(inserted), err)

	if err != nil {
		metrics.RecordPopulate(string(domain.RunFailed), 0, elapsed)
		s.logger.Error("populate failed", "error", err, "duration", elapsed)
		return nil, &domain.PopulateError{Err: err, Elapsed: elapsed}
	}

	metrics.RecordPopulate(string(domain.RunSucceeded), len(inserted), elapsed)

	if s.publisher != nil {
		event := domain.CatalogEvent{Type: domain.EventCatalogPopulated, GamesCount: len(inserted)}
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish populate event", "error", err)
		}
	}

	s.logger.Info("populate completed",
		"games", len(inserted),
		"duration", elapsed,
	)

	return &domain.PopulateResult{
		Message:     domain.PopulateSuccessMessage,
		GamesCount:  len(inserted),
		TimeElapsed: domain.FormatElapsed(elapsed),
	}, nil
}

func (s *IngestService) populate(ctx context.Context) ([]domain.Game, error) {
	games, err := s.collect(ctx)
	if err != nil {
		return nil, err
	}

	inserted, err := s.games.BulkInsert(ctx, games)
	if err != nil {
		return nil, fmt.Errorf("bulk insert games: %w", err)
	}

	return inserted, nil
}

func (s *IngestService) collect(ctx context.Context) ([]domain.Game, error) {
	var androidBody, iosBody []byte

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		body, err := s.fetch(gctx, s.android)
		androidBody = body
		return err
	})
	g.Go(func() error {
		body, err := s.fetch(gctx, s.ios)
		iosBody = body
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	android := store.Transform(androidBody, domain.PlatformAndroid)
	ios := store.Transform(iosBody, domain.PlatformIOS)

	s.logger.Debug("mapped listings",
		"android", len(android),
		"ios", len(ios),
	)

	games := make([]domain.Game, 0, len(android)+len(ios))
	games = append(games, android...)
	games = append(games, ios...)

	return games, nil
}

func (s *IngestService) fetch(ctx context.Context, src ListingSource) ([]byte, error) {
	start := time.Now()
	platform := string(src.Platform())

	body, err := src.Fetch(ctx)
	if err != nil {
		metrics.RecordUpstreamFetch(platform, "error", time.Since(start))
		return nil, err
	}

	metrics.RecordUpstreamFetch(platform, "ok", time.Since(start))
	return body, nil
}

func (s *IngestService) recordRun(ctx context.Context, startedAt time.Time, elapsed time.Duration, count int, runErr error) {
	if s.runs == nil {
		return
	}

	run := &domain.PopulationRun{
		Status:     domain.RunSucceeded,
		GamesCount: count,
		DurationMs: elapsed.Milliseconds(),
		StartedAt:  startedAt,
	}
	if runErr != nil {
		msg := runErr.Error()
		run.Status = domain.RunFailed
		run.GamesCount = 0
		run.Error = &msg
	}

	if err := s.runs.Record(context.WithoutCancel(ctx), run); err != nil {
		s.logger.Warn("failed to record population run", "error", err)
	}
}
