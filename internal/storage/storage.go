// Package storage defines the backend-agnostic repository interface used to
// persist sniffed tables, plus the factory registry the backends plug into.
package storage

import (
	"context"
	"fmt"
	"sync"

	"csvsniff/internal/schema"
)

// Config is the minimal configuration needed to create a repository.
//
// Edge cases:
//   - Kind must be non-empty and must match a registered backend kind.
//   - DSN is passed through to the backend factory; validation is
//     backend-specific.
type Config struct {
	Kind string
	DSN  string
}

// TableSpec describes the destination table for a sniffed dataset. Field
// types are the backend-neutral contract types ("bigint", "float", "text");
// each backend maps them onto its own column types.
type TableSpec struct {
	Name   string
	Fields []schema.Field
}

// Repository is a backend-agnostic interface for loading sniffed rows.
//
// IMPORTANT: This interface is intentionally minimal and focused on the
// operations the loader needs. Each backend implements these semantics in
// its own idiomatic way (pgx batches, multi-row VALUES, etc).
type Repository interface {
	// Close releases any backend resources (connections, prepared
	// statements, etc). Callers should treat Close as "call once".
	Close()

	// EnsureTable creates the destination table if it does not exist.
	// Idempotent and safe to run on every invocation.
	EnsureTable(ctx context.Context, spec TableSpec) error

	// InsertRows bulk-inserts rows into table. Every row must have one
	// value per column. Returns the number of rows written.
	InsertRows(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)
}

// ---- factories ----

type factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]factory{}
)

// Register registers a backend under a kind (e.g. "postgres", "sqlite").
//
// When to use:
//   - Call Register from an init() function in a backend package.
//   - The `kind` string becomes the lookup key used by New.
//
// Panics:
//   - If kind is empty.
//   - If f is nil.
//   - If kind is already registered. This is intentional to fail fast and
//     avoid ambiguous backend selection.
func Register(kind string, f factory) {
	mu.Lock()
	defer mu.Unlock()

	if kind == "" {
		panic("storage: Register called with empty kind")
	}
	if f == nil {
		panic("storage: Register called with nil factory")
	}
	if _, exists := factories[kind]; exists {
		panic(fmt.Sprintf("storage: factory already registered for kind=%q", kind))
	}

	factories[kind] = f
}

// New constructs a Repository using the registered backend factory.
//
// Concurrency:
//   - Safe for concurrent use with Register. New takes a read lock while
//     selecting the factory.
//
// Errors:
//   - Returns an error if cfg.Kind is empty or unsupported.
//   - Returns whatever error the registered factory returns.
func New(ctx context.Context, cfg Config) (Repository, error) {
	if cfg.Kind == "" {
		return nil, fmt.Errorf("storage: missing Kind")
	}

	mu.RLock()
	f := factories[cfg.Kind]
	mu.RUnlock()

	if f == nil {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}
