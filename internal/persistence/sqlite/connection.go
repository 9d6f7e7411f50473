package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sqlitedriver "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/example/fates/internal/persistence"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// QueryHelper runs single statements under the guard.
type QueryHelper struct {
	guard  *Guard
	mapper *ErrorMapper
}

// NewQueryHelper creates a query helper over guard.
func NewQueryHelper(guard *Guard) *QueryHelper {
	return &QueryHelper{guard: guard, mapper: NewErrorMapper()}
}

// Exec runs a mutating statement under exclusive acquisition and returns the
// number of affected rows.
func (qh *QueryHelper) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	var affected int64
	err := qh.guard.Write(ctx, func(db DBTX) error {
		result, err := db.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		affected, err = result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		return nil
	})
	return affected, qh.mapper.MapError(err)
}

// QueryRow runs a single-row query under shared acquisition. It reports false
// when the query matched nothing.
func (qh *QueryHelper) QueryRow(ctx context.Context, query string, args []any, scan func(rowScanner) error) (bool, error) {
	found := true
	err := qh.guard.Read(ctx, func(db DBTX) error {
		err := scan(db.QueryRowContext(ctx, query, args...))
		if errors.Is(err, sql.ErrNoRows) {
			found = false
			return nil
		}
		return err
	})
	if err != nil {
		return false, qh.mapper.MapError(err)
	}
	return found, nil
}

// Query runs a multi-row query under shared acquisition, calling each for
// every row. Rows are fully drained before the lock is released.
func (qh *QueryHelper) Query(ctx context.Context, query string, args []any, each func(rowScanner) error) error {
	err := qh.guard.Read(ctx, func(db DBTX) error {
		rows, err := db.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			if err := each(rows); err != nil {
				return err
			}
		}
		return rows.Err()
	})
	return qh.mapper.MapError(err)
}

// queryAll collects every row of query through scan.
func queryAll[T any](ctx context.Context, qh *QueryHelper, query string, scan func(rowScanner) (T, error), args ...any) ([]T, error) {
	items := []T{}
	err := qh.Query(ctx, query, args, func(row rowScanner) error {
		item, err := scan(row)
		if err != nil {
			return err
		}
		items = append(items, item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// queryOne fetches a single row through scan.
func queryOne[T any](ctx context.Context, qh *QueryHelper, query string, scan func(rowScanner) (T, error), args ...any) (T, bool, error) {
	var item T
	found, err := qh.QueryRow(ctx, query, args, func(row rowScanner) error {
		var err error
		item, err = scan(row)
		return err
	})
	if err != nil || !found {
		var zero T
		return zero, false, err
	}
	return item, true, nil
}

// ErrorMapper maps SQLite errors to persistence layer errors
type ErrorMapper struct{}

// NewErrorMapper creates a new error mapper
func NewErrorMapper() *ErrorMapper {
	return &ErrorMapper{}
}

// MapError classifies driver errors. Constraint failures become
// persistence.ErrConstraintViolation; everything else is returned unchanged.
func (em *ErrorMapper) MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, persistence.ErrConstraintViolation) {
		return err
	}

	var driverErr *sqlitedriver.Error
	if errors.As(err, &driverErr) {
		if driverErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
			return fmt.Errorf("%w: %w", persistence.ErrConstraintViolation, err)
		}
		return err
	}

	if containsAny(err.Error(), []string{"UNIQUE constraint failed", "PRIMARY KEY", "constraint failed"}) {
		return fmt.Errorf("%w: %w", persistence.ErrConstraintViolation, err)
	}
	return err
}

func containsAny(s string, substrings []string) bool {
	for _, substr := range substrings {
		if strings.Contains(s, substr) {
			return true
		}
	}
	return false
}
