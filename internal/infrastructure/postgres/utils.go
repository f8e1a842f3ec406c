package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único.
func isUniqueViolation(err error) bool {
	return pgCode(err) == uniqueViolation
}

// isForeignKeyViolation verifica si el error viene de una FK (fila aún referenciada o padre inexistente).
func isForeignKeyViolation(err error) bool {
	return pgCode(err) == foreignKeyViolation
}
