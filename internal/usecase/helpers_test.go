package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/LavaJover/voltz-checkout-service/internal/domain"
	"github.com/LavaJover/voltz-checkout-service/internal/infrastructure/memstore"
)

var errUnreachable = errors.New("connection refused")

// flakyStoreRepo counts list calls on the in-memory repository and can make
// them fail.
type flakyStoreRepo struct {
	*memstore.StoreRepository

	mu       sync.Mutex
	failList bool
	lists    int
}

func newFlakyStoreRepo() *flakyStoreRepo {
	return &flakyStoreRepo{StoreRepository: memstore.NewStoreRepository()}
}

func (r *flakyStoreRepo) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Store, error) {
	r.mu.Lock()
	r.lists++
	fail := r.failList
	r.mu.Unlock()

	if fail {
		return nil, errUnreachable
	}
	return r.StoreRepository.ListByOwner(ctx, ownerID)
}

func (r *flakyStoreRepo) setFailList(v bool) {
	r.mu.Lock()
	r.failList = v
	r.mu.Unlock()
}

func (r *flakyStoreRepo) listCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lists
}

type recordingNotifier struct {
	mu    sync.Mutex
	notes []domain.Notification
}

func (n *recordingNotifier) Notify(ctx context.Context, note domain.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, note)
}

func (n *recordingNotifier) levels() []domain.NotificationLevel {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]domain.NotificationLevel, len(n.notes))
	for i, note := range n.notes {
		out[i] = note.Level
	}
	return out
}

// tickingClock advances one second per call so created_at ordering is stable.
type tickingClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTickingClock() *tickingClock {
	return &tickingClock{t: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

// manualClock only moves when told to.
type manualClock struct {
	mu sync.Mutex
	t  time.Time
}

func newManualClock() *manualClock {
	return &manualClock{t: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}
