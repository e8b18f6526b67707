package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hamed0406/uptimemon/internal/repo"
)

var _ repo.RecordStore = (*Store)(nil)

// Store keeps all records in a single table keyed by (kind, id), with the
// serialized record in a jsonb column.
type Store struct {
	pool *pgxpool.Pool
}

const schema = `
CREATE TABLE IF NOT EXISTS records (
    kind       text        NOT NULL,
    id         text        NOT NULL,
    data       jsonb       NOT NULL,
    updated_at timestamptz NOT NULL DEFAULT now(),
    PRIMARY KEY (kind, id)
)`

func New(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctxPing); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) Create(ctx context.Context, kind repo.Kind, id string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s/%s: %w", kind, id, err)
	}
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO records (kind, id, data) VALUES ($1,$2,$3)
		 ON CONFLICT (kind, id) DO NOTHING`,
		string(kind), id, data)
	if err != nil {
		return fmt.Errorf("insert %s/%s: %w", kind, id, err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrExists
	}
	return nil
}

func (s *Store) Read(ctx context.Context, kind repo.Kind, id string, v any) error {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM records WHERE kind=$1 AND id=$2`,
		string(kind), id).Scan(&data)
	if err != nil {
		if err == pgx.ErrNoRows {
			return repo.ErrNotFound
		}
		return fmt.Errorf("select %s/%s: %w", kind, id, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s/%s: %v", repo.ErrCorrupt, kind, id, err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, kind repo.Kind, id string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s/%s: %w", kind, id, err)
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE records SET data=$3, updated_at=now() WHERE kind=$1 AND id=$2`,
		string(kind), id, data)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", kind, id, err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, kind repo.Kind, id string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM records WHERE kind=$1 AND id=$2`, string(kind), id)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", kind, id, err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (s *Store) List(ctx context.Context, kind repo.Kind) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id FROM records WHERE kind=$1 ORDER BY id`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
