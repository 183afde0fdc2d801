package postgres

import (
	"errors"
	"fmt"

	"github.com/lib/pq"

	"gamecatalog/internal/domain"
)

// translateError maps data and integrity violations to domain.ErrInvalidGame,
// keeping the database message.
func translateError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch pqErr.Code.Class() {
	case "22", "23":
		return fmt.Errorf("%w: %s", domain.ErrInvalidGame, pqErr.Message)
	}
	return err
}
