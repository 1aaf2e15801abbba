package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/hybrid-blog-api/internal/database"
	"github.com/hybrid-blog-api/internal/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const (
	sqlStateUniqueViolation     = "23505"
	sqlStateForeignKeyViolation = "23503"
)

// runner is the parameterised-query escape hatch of one store. Statements are
// constant strings; every value travels as a bound argument.
type runner struct {
	db *database.DB
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func (r runner) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, r.unavailable(err)
	}
	return rows, nil
}

func (r runner) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return r.db.QueryRowContext(ctx, query, args...)
}

func (r runner) exec(ctx context.Context, kind models.EntityKind, query string, args ...any) (sql.Result, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, r.classify(kind, err)
	}
	return res, nil
}

// affected runs a statement and returns the number of rows it touched
func (r runner) affected(ctx context.Context, kind models.EntityKind, query string, args ...any) (int64, error) {
	res, err := r.exec(ctx, kind, query, args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, r.unavailable(err)
	}
	return n, nil
}

func (r runner) count(ctx context.Context, query string, args ...any) (int, error) {
	var count int
	if err := r.queryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, r.unavailable(err)
	}
	return count, nil
}

func (r runner) ids(ctx context.Context, query string, args ...any) ([]int64, error) {
	rows, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, r.unavailable(err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, r.unavailable(err)
	}
	return ids, nil
}

// exists looks up the primary-key existence query registered for kind
func (r runner) exists(ctx context.Context, queries map[models.EntityKind]string, kind models.EntityKind, id int64) (bool, error) {
	query, ok := queries[kind]
	if !ok {
		return false, fmt.Errorf("store %s does not own %s rows", r.db.Store(), kind)
	}

	var exists bool
	if err := r.queryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, r.unavailable(err)
	}
	return exists, nil
}

func (r runner) ping(ctx context.Context) error {
	if err := r.db.HealthCheck(ctx); err != nil {
		return r.unavailable(err)
	}
	return nil
}

func (r runner) unavailable(err error) error {
	return models.NewStoreUnavailable(r.db.Store(), err)
}

// classify maps constraint violations to conflicts; anything else means the
// store could not serve the request.
func (r runner) classify(kind models.EntityKind, err error) error {
	state, constraint := sqlState(err)
	switch state {
	case sqlStateUniqueViolation:
		return &models.ConflictError{Kind: kind, Reason: fmt.Sprintf("unique constraint %q violated", constraint)}
	case sqlStateForeignKeyViolation:
		return &models.ConflictError{Kind: kind, Reason: fmt.Sprintf("foreign key %q violated", constraint)}
	}
	return r.unavailable(err)
}

// sqlState extracts the SQLSTATE from either driver's error type
func sqlState(err error) (string, string) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr.Constraint
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}
	return "", ""
}

// placeholders renders "($1, $2), ($3, $4)" for a multi-row insert
func placeholders(rows, cols int) string {
	var b strings.Builder
	n := 1
	for i := 0; i < rows; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for j := 0; j < cols; j++ {
			if j > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "$%d", n)
			n++
		}
		b.WriteByte(')')
	}
	return b.String()
}
