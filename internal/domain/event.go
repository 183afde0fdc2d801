package domain

import "time"

type EventType string

const (
	EventGameCreated      EventType = "game.created"
	EventGameUpdated      EventType = "game.updated"
	EventGameDeleted      EventType = "game.deleted"
	EventCatalogPopulated EventType = "catalog.populated"
)

// CatalogEvent is published after every successful catalog mutation.
type CatalogEvent struct {
	Type       EventType `json:"type"`
	GameID     int64     `json:"gameId,omitempty"`
	Game       *Game     `json:"game,omitempty"`
	GamesCount int       `json:"gamesCount,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
