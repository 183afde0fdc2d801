package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"gamecatalog/internal/domain"
)

const (
	gameColumns = "id, publisher_id, name, platform, store_id, bundle_id, app_version, is_published, created_at, updated_at"

	// bulkInsertChunk keeps each statement well under the 65535 bind parameter limit.
	bulkInsertChunk = 1000
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type GameStore struct {
	db        *sqlx.DB
	txManager *TransactionManager
}

func NewGameStore(db *sqlx.DB, txManager *TransactionManager) *GameStore {
	return &GameStore{db: db, txManager: txManager}
}

func (s *GameStore) List(ctx context.Context) ([]domain.Game, error) {
	games := make([]domain.Game, 0)
	query := "SELECT " + gameColumns + " FROM games ORDER BY id"

	if err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &games, query); err != nil {
		return nil, err
	}
	return games, nil
}

// Search matches name as a case-insensitive substring and platform exactly.
// Empty criteria are ignored.
func (s *GameStore) Search(ctx context.Context, filter domain.SearchFilter) ([]domain.Game, error) {
	var (
		conds []string
		args  []interface{}
	)

	if filter.Name != "" {
		args = append(args, "%"+likeEscaper.Replace(strings.ToLower(filter.Name))+"%")
		conds = append(conds, `LOWER(name) LIKE $`+strconv.Itoa(len(args))+` ESCAPE '\'`)
	}
	if filter.Platform != "" {
		args = append(args, string(filter.Platform))
		conds = append(conds, "platform = $"+strconv.Itoa(len(args)))
	}

	var sb strings.Builder
	sb.WriteString("SELECT " + gameColumns + " FROM games")
	if len(conds) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conds, " AND "))
	}
	sb.WriteString(" ORDER BY id")

	games := make([]domain.Game, 0)
	if err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &games, sb.String(), args...); err != nil {
		return nil, err
	}
	return games, nil
}

// Create inserts game and refreshes it with the stored row.
func (s *GameStore) Create(ctx context.Context, game *domain.Game) error {
	query := `
		INSERT INTO games (
			publisher_id, name, platform, store_id, bundle_id, app_version, is_published
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
		RETURNING ` + gameColumns

	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), game, query,
		game.PublisherID,
		game.Name,
		game.Platform,
		game.StoreID,
		game.BundleID,
		game.AppVersion,
		game.IsPublished,
	)
	return translateError(err)
}

// Update overwrites the game's fields. An empty AppVersion keeps the stored one.
func (s *GameStore) Update(ctx context.Context, id int64, game *domain.Game) error {
	query := `
		UPDATE games SET
			publisher_id = $1,
			name = $2,
			platform = $3,
			store_id = $4,
			bundle_id = $5,
			app_version = COALESCE(NULLIF($6::text, ''), app_version),
			is_published = $7,
			updated_at = NOW()
		WHERE id = $8
		RETURNING ` + gameColumns

	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), game, query,
		game.PublisherID,
		game.Name,
		game.Platform,
		game.StoreID,
		game.BundleID,
		game.AppVersion,
		game.IsPublished,
		id,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrGameNotFound
	}
	return translateError(err)
}

func (s *GameStore) Delete(ctx context.Context, id int64) error {
	res, err := GetExecutor(ctx, s.db).ExecContext(ctx, "DELETE FROM games WHERE id = $1", id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrGameNotFound
	}
	return nil
}

// BulkInsert stores all games in one transaction and returns the stored rows.
func (s *GameStore) BulkInsert(ctx context.Context, games []domain.Game) ([]domain.Game, error) {
	inserted := make([]domain.Game, 0, len(games))
	if len(games) == 0 {
		return inserted, nil
	}

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		exec := GetExecutor(txCtx, s.db)

		for start := 0; start < len(games); start += bulkInsertChunk {
			end := start + bulkInsertChunk
			if end > len(games) {
				end = len(games)
			}

			query, args := buildBulkInsert(games[start:end])

			var rows []domain.Game
			if err := sqlx.SelectContext(txCtx, exec, &rows, query, args...); err != nil {
				return translateError(err)
			}
			inserted = append(inserted, rows...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return inserted, nil
}

func buildBulkInsert(games []domain.Game) (string, []interface{}) {
	const fields = 7

	var sb strings.Builder
	sb.WriteString("INSERT INTO games (publisher_id, name, platform, store_id, bundle_id, app_version, is_published) VALUES ")
	args := make([]interface{}, 0, len(games)*fields)

	for i, g := range games {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for f := 1; f <= fields; f++ {
			if f > 1 {
				sb.WriteString(", ")
			}
			sb.WriteString("$")
			sb.WriteString(strconv.Itoa(i*fields + f))
		}
		sb.WriteString(")")
		args = append(args, g.PublisherID, g.Name, g.Platform, g.StoreID, g.BundleID, g.AppVersion, g.IsPublished)
	}
	sb.WriteString(" RETURNING " + gameColumns)

	return sb.String(), args
}
