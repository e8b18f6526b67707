package repo

import (
	"context"
	"errors"
)

// Kind names a record collection.
type Kind string

const (
	Accounts Kind = "accounts"
	Tokens   Kind = "tokens"
	Checks   Kind = "checks"
)

var (
	// ErrExists is returned by Create when the key is already occupied.
	ErrExists = errors.New("record already exists")
	// ErrNotFound is returned when no record lives at (kind, id).
	ErrNotFound = errors.New("record not found")
	// ErrCorrupt is returned by Read when the stored bytes do not parse.
	// Callers must treat it as "skip this record", never as fatal.
	ErrCorrupt = errors.New("record is corrupt")
)

// RecordStore is durable keyed storage for serialized records, one per
// (kind, id). No cross-record transactions: every operation touches a
// single record and adapters only guarantee that readers never observe a
// half-written one. List returns a snapshot, not a live view; ids added
// or removed while a caller iterates may or may not appear.
type RecordStore interface {
	Create(ctx context.Context, kind Kind, id string, v any) error
	Read(ctx context.Context, kind Kind, id string, v any) error
	Update(ctx context.Context, kind Kind, id string, v any) error
	Delete(ctx context.Context, kind Kind, id string) error
	List(ctx context.Context, kind Kind) ([]string, error)
}
