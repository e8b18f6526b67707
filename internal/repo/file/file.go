package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hamed0406/uptimemon/internal/repo"
)

var _ repo.RecordStore = (*Store)(nil)

// Store keeps one JSON file per record under baseDir/<kind>/<id>.json.
type Store struct {
	baseDir string
}

// New creates the per-kind directories under baseDir.
func New(baseDir string) (*Store, error) {
	for _, k := range []repo.Kind{repo.Accounts, repo.Tokens, repo.Checks} {
		if err := os.MkdirAll(filepath.Join(baseDir, string(k)), 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", k, err)
		}
	}
	return &Store{baseDir: baseDir}, nil
}

func (s *Store) path(kind repo.Kind, id string) string {
	return filepath.Join(s.baseDir, string(kind), id+".json")
}

func (s *Store) Create(ctx context.Context, kind repo.Kind, id string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s/%s: %w", kind, id, err)
	}
	f, err := os.OpenFile(s.path(kind, id), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return repo.ErrExists
		}
		return fmt.Errorf("create %s/%s: %w", kind, id, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write %s/%s: %w", kind, id, err)
	}
	return f.Close()
}

func (s *Store) Read(ctx context.Context, kind repo.Kind, id string, v any) error {
	data, err := os.ReadFile(s.path(kind, id))
	if err != nil {
		if os.IsNotExist(err) {
			return repo.ErrNotFound
		}
		return fmt.Errorf("read %s/%s: %w", kind, id, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s/%s: %v", repo.ErrCorrupt, kind, id, err)
	}
	return nil
}

// Update replaces the record atomically: the new bytes go to a temp file
// in the same directory and are renamed over the old one, so a concurrent
// Read sees either the old record or the new one, never a torn write.
func (s *Store) Update(ctx context.Context, kind repo.Kind, id string, v any) error {
	dst := s.path(kind, id)
	if _, err := os.Stat(dst); err != nil {
		if os.IsNotExist(err) {
			return repo.ErrNotFound
		}
		return fmt.Errorf("stat %s/%s: %w", kind, id, err)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s/%s: %w", kind, id, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), id+"-*.json.tmp")
	if err != nil {
		return fmt.Errorf("tempfile %s/%s: %w", kind, id, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s/%s: %w", kind, id, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s/%s: %w", kind, id, err)
	}
	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s/%s: %w", kind, id, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, kind repo.Kind, id string) error {
	if err := os.Remove(s.path(kind, id)); err != nil {
		if os.IsNotExist(err) {
			return repo.ErrNotFound
		}
		return fmt.Errorf("delete %s/%s: %w", kind, id, err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, kind repo.Kind) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.baseDir, string(kind)))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	return ids, nil
}
