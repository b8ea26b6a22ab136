// Package postgres provides a pgx-backed storage implementation of the
// repository and writer interfaces used by the services.
//
// Report and list statements come from the query package; this package runs
// them, scans the rows into ledger types and wraps writes in transactions.
// The schema lives in the embedded migrations directory.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tinoosan/hacc/internal/errs"
	"github.com/tinoosan/hacc/internal/ledger"
	"github.com/tinoosan/hacc/internal/query"
)

// Postgres error codes the store maps to domain errors.
const (
	codeForeignKey = "23503"
	codeUnique     = "23505"
)

// dbtx is satisfied by both the pool and a transaction.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store holds a pgx connection pool. All methods are safe for concurrent use.
type Store struct {
	pool *pgxpool.Pool
}

// Open establishes a pgx pool using the provided connection string.
func Open(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the underlying pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ready pings the pool to verify connectivity.
func (s *Store) Ready(ctx context.Context) error { return s.pool.Ping(ctx) }

// withTx runs fn in a transaction that commits only when fn succeeds.
func (s *Store) withTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func run(ctx context.Context, db dbtx, f query.Fragment) (pgx.Rows, error) {
	sql, args := f.Build()
	return db.Query(ctx, sql, args...)
}

// collect scans every row of f with scan.
func collect[T any](ctx context.Context, db dbtx, f query.Fragment, scan func(pgx.Rows) (T, error)) ([]T, error) {
	rows, err := run(ctx, db, f)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]T, 0)
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// refDest returns scan targets in query.AccountColumns order.
func refDest(a *ledger.AccountRef) []any {
	return []any{
		&a.Description, &a.ID, &a.Name,
		&a.TypeID, &a.TypeName, &a.TypeSort, &a.DebitAccount,
		&a.JournalID, &a.JournalName,
	}
}

// pgCode returns the SQLSTATE of a Postgres error, or "".
func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// writeErr maps constraint violations raised by inserts and updates.
func writeErr(err error) error {
	switch pgCode(err) {
	case codeForeignKey:
		return errs.Invalid(errs.CodeInvalidInput, "A referenced row does not exist.")
	case codeUnique:
		return errs.Integrity("A row with this value already exists.")
	}
	return err
}

// deleteErr maps a foreign key violation raised by a delete.
func deleteErr(err error) error {
	if pgCode(err) == codeForeignKey {
		return errs.ErrReferenced
	}
	return err
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return errs.ErrNotFound
	}
	return err
}
