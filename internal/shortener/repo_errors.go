package shortener

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sundayezeilo/toolbench/internal/errx"
)

const shortCodeConstraint = "links_short_code_unique"

func isCodeUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "23505" &&
		pgErr.ConstraintName == shortCodeConstraint
}

func mapRepoError(op string, err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return errx.E(op, errx.NotFound, errors.New("link not found"))

	case isCodeUniqueViolation(err):
		return errx.E(op, errx.Conflict, errors.New("short code already exists"))

	default:
		return errx.E(op, errx.Unavailable, err)
	}
}
