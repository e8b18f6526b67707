package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hamed0406/uptimemon/internal/repo"
)

var _ repo.RecordStore = (*Store)(nil)

// Store keeps each record at key "uptimemon:<kind>:<id>" and tracks the
// ids of a kind in the set "uptimemon:<kind>". The set is the listing
// snapshot; a record write and its set membership are updated in one
// pipeline so listings do not drift from the data.
type Store struct {
	client *redis.Client
}

func New(ctx context.Context, addr, password string, db int) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctxPing).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Store{client: client}, nil
}

func (s *Store) Close() error { return s.client.Close() }

func setKey(kind repo.Kind) string { return "uptimemon:" + string(kind) }

func recordKey(kind repo.Kind, id string) string {
	return "uptimemon:" + string(kind) + ":" + id
}

func (s *Store) Create(ctx context.Context, kind repo.Kind, id string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s/%s: %w", kind, id, err)
	}
	ok, err := s.client.SetNX(ctx, recordKey(kind, id), data, 0).Result()
	if err != nil {
		return fmt.Errorf("setnx %s/%s: %w", kind, id, err)
	}
	if !ok {
		return repo.ErrExists
	}
	if err := s.client.SAdd(ctx, setKey(kind), id).Err(); err != nil {
		return fmt.Errorf("sadd %s/%s: %w", kind, id, err)
	}
	return nil
}

func (s *Store) Read(ctx context.Context, kind repo.Kind, id string, v any) error {
	data, err := s.client.Get(ctx, recordKey(kind, id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return repo.ErrNotFound
		}
		return fmt.Errorf("get %s/%s: %w", kind, id, err)
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
	// SET XX replaces only an existing key, so a concurrently deleted
	// record surfaces as ErrNotFound instead of being resurrected.
	ok, err := s.client.SetXX(ctx, recordKey(kind, id), data, 0).Result()
	if err != nil {
		return fmt.Errorf("setxx %s/%s: %w", kind, id, err)
	}
	if !ok {
		return repo.ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, kind repo.Kind, id string) error {
	pipe := s.client.TxPipeline()
	del := pipe.Del(ctx, recordKey(kind, id))
	pipe.SRem(ctx, setKey(kind), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("del %s/%s: %w", kind, id, err)
	}
	if del.Val() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (s *Store) List(ctx context.Context, kind repo.Kind) ([]string, error) {
	ids, err := s.client.SMembers(ctx, setKey(kind)).Result()
	if err != nil {
		return nil, fmt.Errorf("smembers %s: %w", kind, err)
	}
	return ids, nil
}
