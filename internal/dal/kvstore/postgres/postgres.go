package postgreskv

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mlylp/Catlogodeprodutospeixaria/internal/dal/interfaces/ikvstore"
)

const tableName = "kv_store"

// querier is the subset of pgxpool.Pool the store needs.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements ikvstore.IKVStore on a Postgres table of JSONB documents.
type Store struct {
	conn querier
}

// NewStore creates a store over a pool or transaction.
func NewStore(conn querier) *Store {
	return &Store{conn: conn}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	query, args, err := buildGetQuery(key)
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var value []byte
	if err := s.conn.QueryRow(ctx, query, args...).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ikvstore.ErrNotFound
		}

		return nil, fmt.Errorf("failed to get %q: %w", key, err)
	}

	return value, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	query, args, err := buildSetQuery(key, value)
	if err != nil {
		return fmt.Errorf("failed to build upsert query: %w", err)
	}

	if _, err := s.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to set %q: %w", key, err)
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	query, args, err := sq.Delete(tableName).
		Where(sq.Eq{"key": key}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	if _, err := s.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}

	return nil
}

func (s *Store) ScanPrefix(ctx context.Context, prefix string) ([]ikvstore.Entry, error) {
	query, args, err := buildScanPrefixQuery(prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to build scan query: %w", err)
	}

	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to scan prefix %q: %w", prefix, err)
	}
	defer rows.Close()

	entries := make([]ikvstore.Entry, 0)
	for rows.Next() {
		var e ikvstore.Entry
		if err := rows.Scan(&e.Key, &e.Value); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return entries, nil
}

func buildGetQuery(key string) (string, []any, error) {
	return sq.Select("value").
		From(tableName).
		Where(sq.Eq{"key": key}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
}

func buildSetQuery(key string, value []byte) (string, []any, error) {
	return sq.Insert(tableName).
		Columns("key", "value").
		Values(key, value).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value").
		PlaceholderFormat(sq.Dollar).
		ToSql()
}

func buildScanPrefixQuery(prefix string) (string, []any, error) {
	return sq.Select("key", "value").
		From(tableName).
		Where(sq.Like{"key": escapeLike(prefix) + "%"}).
		OrderBy("key ASC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
}

// escapeLike escapes LIKE wildcards so the prefix matches literally.
// Key families such as customer_orders contain underscores.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
