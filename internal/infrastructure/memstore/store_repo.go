package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/LavaJover/voltz-checkout-service/internal/domain"
)

// StoreRepository keeps stores in memory. It backs dev mode when no database
// DSN is configured.
type StoreRepository struct {
	mu     sync.RWMutex
	stores map[string]domain.Store
}

func NewStoreRepository() *StoreRepository {
	return &StoreRepository{stores: make(map[string]domain.Store)}
}

func copyStore(s domain.Store) *domain.Store {
	if s.Settings.LastAccessedAt != nil {
		t := *s.Settings.LastAccessedAt
		s.Settings.LastAccessedAt = &t
	}
	return &s
}

func (r *StoreRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Store, 0)
	for _, s := range r.stores {
		if s.OwnerID == ownerID {
			out = append(out, copyStore(s))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *StoreRepository) GetByID(ctx context.Context, id string) (*domain.Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.stores[id]
	if !ok {
		return nil, fmt.Errorf("store %s: %w", id, domain.ErrNotFound)
	}
	return copyStore(s), nil
}

func (r *StoreRepository) Create(ctx context.Context, store *domain.Store) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.stores[store.ID]; ok {
		return fmt.Errorf("store %s: %w", store.ID, domain.ErrConflict)
	}
	r.stores[store.ID] = *copyStore(*store)
	return nil
}

func (r *StoreRepository) Update(ctx context.Context, store *domain.Store) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.stores[store.ID]
	if !ok {
		return fmt.Errorf("store %s: %w", store.ID, domain.ErrNotFound)
	}
	updated := *copyStore(*store)
	updated.OwnerID = existing.OwnerID
	updated.CreatedAt = existing.CreatedAt
	updated.Settings.Steps = existing.Settings.Steps
	r.stores[store.ID] = updated
	return nil
}

func (r *StoreRepository) UpdateStep(ctx context.Context, id string, step domain.StepID, done bool, at time.Time) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.stores[id]
	if !ok {
		return "", fmt.Errorf("store %s: %w", id, domain.ErrNotFound)
	}
	s.Settings.Steps.Set(step, done)
	s.UpdatedAt = at
	r.stores[id] = s
	return s.OwnerID, nil
}

func (r *StoreRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.stores[id]; !ok {
		return fmt.Errorf("store %s: %w", id, domain.ErrNotFound)
	}
	delete(r.stores, id)
	return nil
}
