package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hamed0406/uptimemon/internal/domain"
	"github.com/hamed0406/uptimemon/internal/repo"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func sampleCheck(id string) domain.Check {
	return domain.Check{
		ID:             id,
		Phone:          "5551234567",
		Protocol:       "https",
		URL:            "example.com",
		Method:         "get",
		SuccessCodes:   []int{200},
		TimeoutSeconds: 2,
	}
}

func TestFileStore_CRUDRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	id := domain.NewID(domain.IDLength)

	want := sampleCheck(id)
	if err := s.Create(ctx, repo.Checks, id, &want); err != nil {
		t.Fatalf("Create: %v", err)
	}

	var got domain.Check
	if err := s.Read(ctx, repo.Checks, id, &got); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.ID != id || got.URL != "example.com" {
		t.Fatalf("unexpected record: %+v", got)
	}

	got.State = domain.StateUp
	if err := s.Update(ctx, repo.Checks, id, &got); err != nil {
		t.Fatalf("Update: %v", err)
	}
	var after domain.Check
	if err := s.Read(ctx, repo.Checks, id, &after); err != nil {
		t.Fatalf("Read after update: %v", err)
	}
	if after.State != domain.StateUp {
		t.Fatalf("update not persisted: %+v", after)
	}

	ids, err := s.List(ctx, repo.Checks)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(ids) != 1 || ids[0] != id {
		t.Fatalf("unexpected ids: %v", ids)
	}

	if err := s.Delete(ctx, repo.Checks, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Read(ctx, repo.Checks, id, &after); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("want ErrNotFound after delete, got %v", err)
	}
}

func TestFileStore_CreateTwiceFails(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	id := domain.NewID(domain.IDLength)

	c := sampleCheck(id)
	if err := s.Create(ctx, repo.Checks, id, &c); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	if err := s.Create(ctx, repo.Checks, id, &c); !errors.Is(err, repo.ErrExists) {
		t.Fatalf("want ErrExists, got %v", err)
	}
}

func TestFileStore_UpdateMissingIsNotFound(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	c := sampleCheck(domain.NewID(domain.IDLength))
	if err := s.Update(ctx, repo.Checks, c.ID, &c); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if err := s.Delete(ctx, repo.Checks, c.ID); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("want ErrNotFound on delete, got %v", err)
	}
}

func TestFileStore_CorruptRecordIsErrCorrupt(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	id := domain.NewID(domain.IDLength)
	bad := filepath.Join(dir, "checks", id+".json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt: %v", err)
	}

	var c domain.Check
	if err := s.Read(ctx, repo.Checks, id, &c); !errors.Is(err, repo.ErrCorrupt) {
		t.Fatalf("want ErrCorrupt, got %v", err)
	}
	// the corrupt file must still be listed so the next sweep retries it
	ids, err := s.List(ctx, repo.Checks)
	if err != nil || len(ids) != 1 {
		t.Fatalf("corrupt record missing from listing: ids=%v err=%v", ids, err)
	}
}

func TestFileStore_ListIgnoresStrayFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "checks", "README.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write stray: %v", err)
	}
	ids, err := s.List(ctx, repo.Checks)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("stray file leaked into listing: %v", ids)
	}
}
