package store

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// Kind classifies a database failure.
type Kind int

const (
	// KindQuery is any statement failure not covered by another kind.
	KindQuery Kind = iota
	// KindConnection means the database could not be reached or bootstrapped.
	KindConnection
	// KindConstraint means the database rejected a row (check, not-null, overflow).
	KindConstraint
)

func (k Kind) String() string {
	switch k {
	case KindConnection:
		return "connection"
	case KindConstraint:
		return "constraint violation"
	default:
		return "query"
	}
}

// Error is returned by every Store operation that fails in the database.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsConstraint reports whether err is a database-rejected row.
func IsConstraint(err error) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == KindConstraint
}

// IsConnection reports whether err means the database is unavailable.
func IsConnection(err error) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == KindConnection
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: classify(err), Op: op, Err: err}
}

func classify(err error) Kind {
	code := sqlState(err)
	switch {
	case strings.HasPrefix(code, "23"), code == "22003":
		// integrity_constraint_violation, numeric_value_out_of_range
		return KindConstraint
	case strings.HasPrefix(code, "08"), strings.HasPrefix(code, "57P"), code == "3D000", code == "28P01":
		return KindConnection
	}

	if errors.Is(err, driver.ErrBadConn) {
		return KindConnection
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindConnection
	}
	return KindQuery
}

// sqlState extracts the SQLSTATE code from either driver's error type.
func sqlState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}
