// Package store provides versioned key/value persistence slots.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// AnyVersion makes Put unconditional (last writer wins).
const AnyVersion int64 = -1

// ErrVersionConflict is returned when Put's expected version is stale.
var ErrVersionConflict = errors.New("version conflict")

// Entry is the value stored under a key. Version is 0 when the key is absent.
type Entry struct {
	Value   string
	Version int64
}

// Exists reports whether the key had a value.
func (e Entry) Exists() bool {
	return e.Version > 0
}

// Slot is a named-slot store holding opaque string blobs.
type Slot interface {
	// Get returns the current entry. A missing key is not an error.
	Get(ctx context.Context, key string) (Entry, error)
	// Put writes value when the stored version equals expect (0 for a new key)
	// or unconditionally with AnyVersion. It returns the new version.
	Put(ctx context.Context, key, value string, expect int64) (int64, error)
	Close() error
}

// Backend names a Slot implementation.
type Backend string

// Supported backends.
const (
	BackendSQLite Backend = "sqlite"
	BackendRedis  Backend = "redis"
	BackendMemory Backend = "memory"
)

// Options selects and configures a backend.
type Options struct {
	Backend     Backend
	Path        string
	RedisAddr   string
	RedisPrefix string
}

// Open creates the Slot described by opts.
func Open(ctx context.Context, opts Options) (Slot, error) {
	switch Backend(strings.ToLower(string(opts.Backend))) {
	case "", BackendSQLite:
		if opts.Path == "" {
			return nil, errors.New("sqlite backend requires a path")
		}
		return OpenSQLite(opts.Path)
	case BackendRedis:
		return OpenRedis(ctx, opts.RedisAddr, opts.RedisPrefix)
	case BackendMemory:
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
}

// NamespacedKey scopes key to a namespace such as a learner e-mail.
func NamespacedKey(namespace, key string) string {
	namespace = strings.TrimSpace(strings.ToLower(namespace))
	if namespace == "" {
		return key
	}
	return namespace + "/" + key
}
