package domain

import "context"

// KeyValueStore is string-serialized storage: the durable per-tenant store
// and the session-scoped store share this port.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
