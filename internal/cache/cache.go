// Package cache provides the local persistence capability for the session
// manager: a small key-value store with pluggable backends, plus a snapshot
// codec that serializes the conversation set and identity marker so a restart
// can restore the last known state before any remote fetch completes.
package cache

import (
	"fmt"

	"github.com/momai/momai/internal/logging"
)

// KV is the persistence capability injected into the session manager.
// Implementations must be safe for concurrent use.
type KV interface {
	// Get returns the value for key. The second result reports presence;
	// a missing key is not an error.
	Get(key string) ([]byte, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(key string, value []byte) error

	// Remove deletes key. Removing a missing key is a no-op.
	Remove(key string) error

	// Clear deletes every key.
	Clear() error

	// Close releases backend resources.
	Close() error
}

// Backend names accepted in config.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
)

// Open creates a KV store for the named backend. path is ignored for the
// memory backend; for sqlite it is the database file, for badger the value
// directory.
func Open(backend, path string, log *logging.Logger) (KV, error) {
	switch backend {
	case BackendMemory, "":
		return NewMemoryKV(), nil
	case BackendSQLite:
		return OpenSQLiteKV(path, log)
	case BackendBadger:
		return OpenBadgerKV(path, log)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", backend)
	}
}
