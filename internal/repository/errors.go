package repository

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound: no company, or no employee within the given company.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists: a company name or id is already taken.
	ErrAlreadyExists = errors.New("already exists")
	// ErrConflict: an employee write referenced a company that does not exist.
	ErrConflict = errors.New("conflict")
)

// pgCodes maps the SQLSTATEs the companies/employees schema can raise.
var pgCodes = map[string]error{
	pgerrcode.UniqueViolation:     ErrAlreadyExists, // companies.name, primary keys
	pgerrcode.ForeignKeyViolation: ErrConflict,      // employees.company_id
	// a malformed uuid can never name a stored row
	pgerrcode.InvalidTextRepresentation: ErrNotFound,
}

// MapPgError turns Postgres errors into the sentinels above so the service
// layer never inspects driver types. Unmapped errors pass through unchanged.
func MapPgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	if mapped, ok := pgCodes[pgErr.Code]; ok {
		return mapped
	}
	return err
}
