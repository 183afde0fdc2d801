package store

import "gamecatalog/internal/domain"

// MapListing converts an upstream listing into the catalog's game shape. The
// platform always comes from the caller, never from the listing.
func MapListing(l RawListing, platform domain.Platform) domain.Game {
	game := domain.Game{
		PublisherID: l.PublisherID,
		Name:        l.Name,
		Platform:    platform,
		BundleID:    l.BundleID,
		AppVersion:  domain.DefaultAppVersion,
		IsPublished: true,
	}

	if l.AppID != nil && *l.AppID != "" {
		storeID := *l.AppID
		game.StoreID = &storeID
	}

	if l.Version != nil && *l.Version != "" {
		game.AppVersion = *l.Version
	}

	return game
}

// Transform flattens a raw store response and maps every leaf for platform.
func Transform(body []byte, platform domain.Platform) []domain.Game {
	leaves := Flatten(body)
	games := make([]domain.Game, 0, len(leaves))

	for _, leaf := range leaves {
		games = append(games, MapListing(ParseListing(leaf), platform))
	}

	return games
}
