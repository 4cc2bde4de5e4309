package storage

import "context"

// Well-known storage keys. Per-user state lives under UserKeyPrefix + id;
// the offer ledger is a single record shared by every user on the store.
const (
	UserKeyPrefix = "user:"
	OffersKey     = "offers"
)

// Store is the persistence capability injected into the engine: a flat
// byte-valued key space. Absent keys are not errors; callers substitute the
// empty-default state. Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores the value under key, overwriting any previous value.
	Set(ctx context.Context, key string, value []byte) error
	// Close releases the backing resources.
	Close() error
}

// Pinger is implemented by stores that can verify backend connectivity.
// Readiness checks use it when available.
type Pinger interface {
	Ping(ctx context.Context) error
}
