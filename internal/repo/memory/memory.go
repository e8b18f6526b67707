package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/hamed0406/uptimemon/internal/repo"
)

var _ repo.RecordStore = (*Store)(nil)

// Store holds serialized records in memory. It mirrors the file adapter's
// semantics (records stored as JSON bytes) so it can stand in for it in
// tests and local development.
type Store struct {
	mu      sync.RWMutex
	records map[repo.Kind]map[string][]byte
}

func New() *Store {
	return &Store{records: map[repo.Kind]map[string][]byte{}}
}

func (m *Store) bucket(kind repo.Kind) map[string][]byte {
	b, ok := m.records[kind]
	if !ok {
		b = map[string][]byte{}
		m.records[kind] = b
	}
	return b
}

func (m *Store) Create(ctx context.Context, kind repo.Kind, id string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s/%s: %w", kind, id, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b := m.bucket(kind)
	if _, ok := b[id]; ok {
		return repo.ErrExists
	}
	b[id] = data
	return nil
}

func (m *Store) Read(ctx context.Context, kind repo.Kind, id string, v any) error {
	m.mu.RLock()
	data, ok := m.records[kind][id]
	m.mu.RUnlock()
	if !ok {
		return repo.ErrNotFound
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s/%s: %v", repo.ErrCorrupt, kind, id, err)
	}
	return nil
}

func (m *Store) Update(ctx context.Context, kind repo.Kind, id string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s/%s: %w", kind, id, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b := m.bucket(kind)
	if _, ok := b[id]; !ok {
		return repo.ErrNotFound
	}
	b[id] = data
	return nil
}

func (m *Store) Delete(ctx context.Context, kind repo.Kind, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := m.bucket(kind)
	if _, ok := b[id]; !ok {
		return repo.ErrNotFound
	}
	delete(b, id)
	return nil
}

func (m *Store) List(ctx context.Context, kind repo.Kind) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b := m.records[kind]
	ids := make([]string, 0, len(b))
	for id := range b {
		ids = append(ids, id)
	}
	return ids, nil
}

// PutRaw stores bytes verbatim, bypassing serialization. Tests use it to
// plant records that will not parse.
func (m *Store) PutRaw(kind repo.Kind, id string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bucket(kind)[id] = data
}
