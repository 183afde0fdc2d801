package service

import (
	"context"
	"fmt"
	"log/slog"

	"gamecatalog/internal/domain"
)

// CatalogService implements the create/list/search/update/delete operations.
type CatalogService struct {
	games     GameStore
	publisher Publisher
	logger    *slog.Logger
}

func NewCatalogService(games GameStore, publisher Publisher, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		games:     games,
		publisher: publisher,
		logger:    logger.With("component", "catalog"),
	}
}

func (s *CatalogService) List(ctx context.Context) ([]domain.Game, error) {
	games, err := s.games.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return games, nil
}

func (s *CatalogService) Search(ctx context.Context, filter domain.SearchFilter) ([]domain.Game, error) {
	games, err := s.games.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search games: %w", err)
	}
	return games, nil
}

func (s *CatalogService) Create(ctx context.Context, in domain.GameInput) (*domain.Game, error) {
	game := in.Game()
	if err := validate(game); err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}
	if game.AppVersion == "" {
		game.AppVersion = domain.DefaultAppVersion
	}

	if err := s.games.Create(ctx, &game); err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}

	s.logger.Debug("game created", "id", game.ID)
	s.publish(ctx, domain.CatalogEvent{Type: domain.EventGameCreated, GameID: game.ID, Game: &game})

	return &game, nil
}

func (s *CatalogService) Update(ctx context.Context, id int64, in domain.GameInput) (*domain.Game, error) {
	game := in.Game()
	if err := validate(game); err != nil {
		return nil, fmt.Errorf("update game %d: %w", id, err)
	}

	if err := s.games.Update(ctx, id, &game); err != nil {
		return nil, fmt.Errorf("update game %d: %w", id, err)
	}

	s.logger.Debug("game updated", "id", id)
	s.publish(ctx, domain.CatalogEvent{Type: domain.EventGameUpdated, GameID: id, Game: &game})

	return &game, nil
}

// Delete removes the game permanently.
func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	if err := s.games.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete game %d: %w", id, err)
	}

	s.logger.Debug("game deleted", "id", id)
	s.publish(ctx, domain.CatalogEvent{Type: domain.EventGameDeleted, GameID: id})

	return nil
}

func validate(game domain.Game) error {
	if !game.Platform.Valid() {
		return fmt.Errorf("%w: platform must be %q or %q, got %q",
			domain.ErrInvalidGame, domain.PlatformAndroid, domain.PlatformIOS, game.Platform)
	}
	return nil
}

func (s *CatalogService) publish(ctx context.Context, event domain.CatalogEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish catalog event",
			"type", event.Type,
			"error", err,
		)
	}
}
