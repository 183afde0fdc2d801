package domain

import (
	"errors"
	"time"
)

type Platform string

const (
	PlatformAndroid Platform = "android"
	PlatformIOS     Platform = "ios"
)

// Valid reports whether p is a platform the catalog accepts.
func (p Platform) Valid() bool {
	return p == PlatformAndroid || p == PlatformIOS
}

// DefaultAppVersion is used when a listing carries no version.
const DefaultAppVersion = "1.0"

var (
	ErrGameNotFound = errors.New("game not found")
	ErrInvalidGame  = errors.New("invalid game")
)

type Game struct {
	ID          int64     `db:"id" json:"id"`
	PublisherID *string   `db:"publisher_id" json:"publisherId"`
	Name        *string   `db:"name" json:"name"`
	Platform    Platform  `db:"platform" json:"platform"`
	StoreID     *string   `db:"store_id" json:"storeId"`
	BundleID    *string   `db:"bundle_id" json:"bundleId"`
	AppVersion  string    `db:"app_version" json:"appVersion"`
	IsPublished bool      `db:"is_published" json:"isPublished"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// GameInput is the caller-supplied field set for create and update.
type GameInput struct {
	PublisherID *string  `json:"publisherId"`
	Name        *string  `json:"name"`
	Platform    Platform `json:"platform"`
	StoreID     *string  `json:"storeId"`
	BundleID    *string  `json:"bundleId"`
	AppVersion  string   `json:"appVersion"`
	IsPublished bool     `json:"isPublished"`
}

func (in GameInput) Game() Game {
	return Game{
		PublisherID: in.PublisherID,
		Name:        in.Name,
		Platform:    in.Platform,
		StoreID:     in.StoreID,
		BundleID:    in.BundleID,
		AppVersion:  in.AppVersion,
		IsPublished: in.IsPublished,
	}
}

type SearchFilter struct {
	Name     string   `json:"name"`
	Platform Platform `json:"platform"`
}
