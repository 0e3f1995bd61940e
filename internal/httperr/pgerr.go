package httperr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Códigos de erro do Postgres traduzidos para erro de negócio em vez de 500.
const (
	pgUniqueViolation = "23505"
	pgFKViolation     = "23503"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func IsUniqueViolation(err error) bool {
	return pgCode(err) == pgUniqueViolation
}

func IsFKViolation(err error) bool {
	return pgCode(err) == pgFKViolation
}
