// Package settings persists the client's local configuration slots, most
// importantly the base server path the game client talks to.
package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// BaseServerPathKey is the slot holding the game server base path.
const BaseServerPathKey = "base_server_path"

// Backend names accepted by Open.
const (
	BackendSQLite  = "sqlite"
	BackendKeyring = "keyring"
)

// ErrNotFound is returned by Get when the slot has never been set.
var ErrNotFound = errors.New("settings: not found")

// Store is a string key/value slot store.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open returns the store for backend. For sqlite, path is the database
// file; for keyring, path is the JSON fallback file and service names the
// keyring entry.
func Open(backend, path, service string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendSQLite:
		s, err := NewSQLiteStore(path)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil
	case BackendKeyring:
		return NewKeyringStore(service, path), nil
	default:
		return nil, fmt.Errorf("settings: unknown backend %q", backend)
	}
}

// BaseServerPath reads the base server path slot. An unset slot is not an
// error: it yields "" and the client built from it fails at request time.
func BaseServerPath(ctx context.Context, s Store) (string, error) {
	v, err := s.Get(ctx, BaseServerPathKey)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return v, err
}
