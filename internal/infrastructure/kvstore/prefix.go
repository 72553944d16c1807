package kvstore

import (
	"context"

	"github.com/LavaJover/voltz-checkout-service/internal/domain"
)

type prefixed struct {
	inner  domain.KeyValueStore
	prefix string
}

// WithPrefix namespaces every key, e.g. per store or per browsing session.
func WithPrefix(inner domain.KeyValueStore, prefix string) domain.KeyValueStore {
	return &prefixed{inner: inner, prefix: prefix + ":"}
}

func (p *prefixed) Get(ctx context.Context, key string) (string, bool, error) {
	return p.inner.Get(ctx, p.prefix+key)
}

func (p *prefixed) Set(ctx context.Context, key, value string) error {
	return p.inner.Set(ctx, p.prefix+key, value)
}

func (p *prefixed) Delete(ctx context.Context, key string) error {
	return p.inner.Delete(ctx, p.prefix+key)
}
