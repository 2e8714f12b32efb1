package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
)

// isNoRows reporta si la consulta no devolvió filas.
func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
