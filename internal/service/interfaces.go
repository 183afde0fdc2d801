package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"gamecatalog/internal/domain"
)

type GameStore interface {
	List(ctx context.Context) ([]domain.Game, error)
	Search(ctx context.Context, filter domain.SearchFilter) ([]domain.Game, error)
	Create(ctx context.Context, game *domain.Game) error
	Update(ctx context.Context, id int64, game *domain.Game) error
	Delete(ctx context.Context, id int64) error
	BulkInsert(ctx context.Context, games []domain.Game) ([]domain.Game, error)
}

type RunStore interface {
	Record(ctx context.Context, run *domain.PopulationRun) error
}

type ListingSource interface {
	Platform() domain.Platform
	Fetch(ctx context.Context) ([]byte, error)
}

type Publisher interface {
	Publish(ctx context.Context, event domain.CatalogEvent) error
	Close() error
}
