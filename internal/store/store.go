// Package store persists documents, parties and settings in SQLite.
//
// Each table keeps the columns it is queried or adjusted by, plus a JSON body
// holding the full document.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Simplici0/glassworks/internal/debt"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store is the SQLite-backed persistence layer.
type Store struct {
	db *sql.DB
}

// New wraps an open, migrated database.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// withTx runs fn in a transaction, committing only when fn succeeds.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// queryBodies runs query and decodes the first column of each row with decode.
func queryBodies[T any](ctx context.Context, q queryer, decode func([]byte) (T, error), query string, args ...any) ([]T, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		v, err := decode(body)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// queryBody decodes a single body, returning ErrNotFound when no row matches.
func queryBody[T any](ctx context.Context, q queryer, decode func([]byte) (T, error), query string, args ...any) (T, error) {
	var zero T
	var body []byte
	if err := q.QueryRowContext(ctx, query, args...).Scan(&body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return zero, ErrNotFound
		}
		return zero, err
	}
	return decode(body)
}

func decodeJSON[T any](body []byte) (T, error) {
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return v, fmt.Errorf("decode body: %w", err)
	}
	return v, nil
}

func encodeBody(v any) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}
	return body, nil
}

func queryStrings(ctx context.Context, q queryer, query string, args ...any) ([]string, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func deleteByID(ctx context.Context, q queryer, table, id string) error {
	result, err := q.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// applyDebt adds each change to the current_debt column of table.
// Parties that no longer exist are skipped.
func applyDebt(ctx context.Context, tx *sql.Tx, table string, changes []debt.Change) error {
	for _, c := range changes {
		if _, err := tx.ExecContext(ctx, `
			UPDATE `+table+`
			SET current_debt = current_debt + ?, updated_at = CURRENT_TIMESTAMP
			WHERE id = ?
		`, c.Amount, c.PartyID); err != nil {
			return fmt.Errorf("adjust %s debt: %w", table, err)
		}
	}
	return nil
}
