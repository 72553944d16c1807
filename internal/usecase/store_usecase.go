package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/LavaJover/voltz-checkout-service/internal/domain"
	"github.com/LavaJover/voltz-checkout-service/internal/infrastructure/kvstore"
	"github.com/LavaJover/voltz-checkout-service/internal/infrastructure/metrics"
)

const CurrentStoreKey = "current-store"

type StoreOptions struct {
	SeedDemo    bool
	ProtectDemo bool
}

// StoreDeps are shared by every owner's StoreContext.
type StoreDeps struct {
	Repo     domain.StoreRepository
	KV       domain.KeyValueStore
	Notifier domain.Notifier
	Metrics  *metrics.CheckoutMetrics
	Log      *zap.Logger
	Options  StoreOptions
	Now      func() time.Time
}

func (d *StoreDeps) withDefaults() {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.KV == nil {
		d.KV = kvstore.NewMemoryStore()
	}
}

// StoreContext is the store list of one owner plus the current selection.
// Every mutation re-reads the full list from the repository.
type StoreContext struct {
	ownerID string
	deps    StoreDeps
	kv      domain.KeyValueStore

	mu      sync.RWMutex
	stores  []*domain.Store
	current *domain.Store
	loaded  bool

	subsMu  sync.Mutex
	subs    map[int]func(domain.StoreEvent)
	nextSub int
}

func NewStoreContext(ownerID string, deps StoreDeps) *StoreContext {
	deps.withDefaults()
	return &StoreContext{
		ownerID: ownerID,
		deps:    deps,
		kv:      kvstore.WithPrefix(deps.KV, "owner:"+ownerID),
		subs:    make(map[int]func(domain.StoreEvent)),
	}
}

func (c *StoreContext) OwnerID() string {
	return c.ownerID
}

// Subscribe registers fn for store events and returns its unsubscribe func.
func (c *StoreContext) Subscribe(fn func(domain.StoreEvent)) func() {
	c.subsMu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.subsMu.Unlock()

	return func() {
		c.subsMu.Lock()
		delete(c.subs, id)
		c.subsMu.Unlock()
	}
}

func (c *StoreContext) publish(t domain.StoreEventType, storeID string) {
	ev := domain.StoreEvent{Type: t, OwnerID: c.ownerID, StoreID: storeID, At: c.deps.Now()}

	c.subsMu.Lock()
	fns := make([]func(domain.StoreEvent), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.subsMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

func (c *StoreContext) notify(ctx context.Context, level domain.NotificationLevel, title, message string) {
	if c.deps.Notifier == nil {
		return
	}
	c.deps.Notifier.Notify(ctx, domain.Notification{
		OwnerID: c.ownerID,
		Level:   level,
		Title:   title,
		Message: message,
	})
}

// List reloads the owner's stores, newest first. On failure the previous list
// is kept and an ErrFetch error is returned.
func (c *StoreContext) List(ctx context.Context) ([]*domain.Store, error) {
	err := c.refresh(ctx)
	c.deps.Metrics.RecordStoreOperation("list", err)
	if err != nil {
		return c.Stores(), err
	}
	c.publish(domain.StoresReloaded, "")
	return c.Stores(), nil
}

func (c *StoreContext) refresh(ctx context.Context) error {
	stores, err := c.deps.Repo.ListByOwner(ctx, c.ownerID)
	if err != nil {
		c.deps.Log.Warn("failed to load stores", zap.String("owner_id", c.ownerID), zap.Error(err))
		return fmt.Errorf("%w: list stores: %v", domain.ErrFetch, err)
	}

	persistedID, _, kvErr := c.kv.Get(ctx, CurrentStoreKey)
	if kvErr != nil {
		c.deps.Log.Warn("failed to read current store", zap.String("owner_id", c.ownerID), zap.Error(kvErr))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.stores = stores
	c.loaded = true

	currentID := persistedID
	if c.current != nil {
		currentID = c.current.ID
	}
	c.current = nil
	if s := findStore(stores, currentID); s != nil {
		c.current = s
	} else if len(stores) > 0 {
		c.current = stores[0]
	}
	return nil
}

func (c *StoreContext) ensureLoaded(ctx context.Context) error {
	c.mu.RLock()
	loaded := c.loaded
	c.mu.RUnlock()
	if loaded {
		return nil
	}
	return c.refresh(ctx)
}

// Invalidate forces the next access to reload from the repository.
func (c *StoreContext) Invalidate() {
	c.mu.Lock()
	c.loaded = false
	c.mu.Unlock()
}

// Stores returns the in-memory list without touching the repository.
func (c *StoreContext) Stores() []*domain.Store {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*domain.Store, len(c.stores))
	for i, s := range c.stores {
		out[i] = cloneStore(s)
	}
	return out
}

func (c *StoreContext) Current() *domain.Store {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.current == nil {
		return nil
	}
	return cloneStore(c.current)
}

// Find returns one of the owner's stores, loading the list if needed.
func (c *StoreContext) Find(ctx context.Context, id string) (*domain.Store, error) {
	if err := c.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	store := findStore(c.stores, id)
	if store == nil {
		return nil, fmt.Errorf("store %s: %w", id, domain.ErrNotFound)
	}
	return cloneStore(store), nil
}

func (c *StoreContext) Create(ctx context.Context, name string) (*domain.Store, error) {
	store, err := c.create(ctx, strings.TrimSpace(name), false)
	c.deps.Metrics.RecordStoreOperation("create", err)
	return store, err
}

func (c *StoreContext) create(ctx context.Context, name string, demo bool) (*domain.Store, error) {
	if name == "" {
		c.notify(ctx, domain.NotifyError, "Erro", "O nome da loja é obrigatório")
		return nil, fmt.Errorf("%w: store name is required", domain.ErrValidation)
	}
	if err := c.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	now := c.deps.Now()
	store := &domain.Store{
		ID:       uuid.New().String(),
		OwnerID:  c.ownerID,
		Name:     name,
		Status:   domain.StoreStatusActive,
		PlanType: domain.PlanFree,
		Settings: domain.StoreSettings{
			IsDemo:    demo,
			Dashboard: domain.DefaultDashboardSettings(),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if demo {
		store.Description = "Loja de demonstração"
		store.Domain = "demo.voltz.checkout"
		store.CycleLimit = 10000
		store.CurrentCycleRevenue = 2450.90
		store.TotalRevenue = 18320.45
	}

	if err := c.deps.Repo.Create(ctx, store); err != nil {
		c.notify(ctx, domain.NotifyError, "Erro ao criar loja", "Não foi possível criar a loja")
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	c.mu.Lock()
	first := c.current == nil
	c.mu.Unlock()

	if err := c.refresh(ctx); err != nil {
		c.appendLocal(store)
	}
	if first {
		c.selectLocal(ctx, store.ID)
	}

	c.notify(ctx, domain.NotifySuccess, "Loja criada", fmt.Sprintf("A loja %q foi criada", name))
	c.publish(domain.StoreCreated, store.ID)
	return cloneStore(store), nil
}

// EnsureDemo seeds the demo store on first load for owners without stores.
func (c *StoreContext) EnsureDemo(ctx context.Context) (*domain.Store, error) {
	if !c.deps.Options.SeedDemo {
		return nil, nil
	}
	if err := c.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	c.mu.RLock()
	empty := len(c.stores) == 0
	c.mu.RUnlock()
	if !empty {
		return nil, nil
	}
	return c.create(ctx, "Loja Demo", true)
}

func (c *StoreContext) Update(ctx context.Context, id string, patch domain.StorePatch) (*domain.Store, error) {
	store, err := c.update(ctx, id, patch)
	c.deps.Metrics.RecordStoreOperation("update", err)
	return store, err
}

func (c *StoreContext) update(ctx context.Context, id string, patch domain.StorePatch) (*domain.Store, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}
	if err := c.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	c.mu.RLock()
	known := findStore(c.stores, id)
	var store *domain.Store
	if known != nil {
		store = cloneStore(known)
	}
	c.mu.RUnlock()
	if store == nil {
		return nil, fmt.Errorf("store %s: %w", id, domain.ErrNotFound)
	}

	patch.Apply(store)
	store.UpdatedAt = c.deps.Now()

	if err := c.deps.Repo.Update(ctx, store); err != nil {
		c.notify(ctx, domain.NotifyError, "Erro ao salvar", "Não foi possível atualizar a loja")
		return nil, fmt.Errorf("failed to update store: %w", err)
	}

	if err := c.refresh(ctx); err != nil {
		c.replaceLocal(store)
	}

	c.publish(domain.StoreUpdated, store.ID)
	c.mu.RLock()
	defer c.mu.RUnlock()
	if fresh := findStore(c.stores, id); fresh != nil {
		return cloneStore(fresh), nil
	}
	return cloneStore(store), nil
}

func validatePatch(patch domain.StorePatch) error {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return fmt.Errorf("%w: store name cannot be empty", domain.ErrValidation)
	}
	if patch.Status != nil && !patch.Status.IsValid() {
		return fmt.Errorf("%w: unknown store status %q", domain.ErrValidation, *patch.Status)
	}
	if patch.PlanType != nil && !patch.PlanType.IsValid() {
		return fmt.Errorf("%w: unknown plan type %q", domain.ErrValidation, *patch.PlanType)
	}
	if patch.CycleLimit != nil && *patch.CycleLimit < 0 {
		return fmt.Errorf("%w: cycle limit must not be negative", domain.ErrValidation)
	}
	return nil
}

// Delete removes a store. Demo deletion is allowed but irreversible, so it
// only warns, unless the protect-demo policy is on.
func (c *StoreContext) Delete(ctx context.Context, id string) error {
	err := c.delete(ctx, id)
	c.deps.Metrics.RecordStoreOperation("delete", err)
	return err
}

func (c *StoreContext) delete(ctx context.Context, id string) error {
	if err := c.ensureLoaded(ctx); err != nil {
		return err
	}

	c.mu.RLock()
	store := findStore(c.stores, id)
	c.mu.RUnlock()
	if store == nil {
		return fmt.Errorf("store %s: %w", id, domain.ErrNotFound)
	}

	if store.IsDemo() {
		if c.deps.Options.ProtectDemo {
			return fmt.Errorf("%w: demo store %s cannot be deleted", domain.ErrConflict, id)
		}
		c.notify(ctx, domain.NotifyWarning, "Loja demo excluída",
			"A loja de demonstração foi excluída e não pode ser recuperada")
	}

	if err := c.deps.Repo.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		c.notify(ctx, domain.NotifyError, "Erro ao excluir", "Não foi possível excluir a loja")
		return fmt.Errorf("failed to delete store: %w", err)
	}

	c.mu.Lock()
	c.stores = removeStore(c.stores, id)
	wasCurrent := c.current != nil && c.current.ID == id
	if wasCurrent {
		c.current = nil
		if len(c.stores) > 0 {
			c.current = c.stores[0]
		}
	}
	next := c.current
	c.mu.Unlock()

	if wasCurrent {
		c.persistCurrent(ctx, next)
	}
	if err := c.refresh(ctx); err != nil {
		c.deps.Log.Warn("store list stale after delete", zap.String("store_id", id), zap.Error(err))
	}

	c.publish(domain.StoreDeleted, id)
	return nil
}

// SetCurrent selects a known store. It only checks existence.
func (c *StoreContext) SetCurrent(ctx context.Context, id string) (*domain.Store, error) {
	if err := c.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	store, ok := c.selectLocal(ctx, id)
	if !ok {
		return nil, fmt.Errorf("store %s: %w", id, domain.ErrNotFound)
	}
	c.publish(domain.StoreSelected, id)
	return store, nil
}

func (c *StoreContext) selectLocal(ctx context.Context, id string) (*domain.Store, bool) {
	c.mu.Lock()
	store := findStore(c.stores, id)
	if store != nil {
		c.current = store
	}
	c.mu.Unlock()

	if store == nil {
		return nil, false
	}
	c.persistCurrent(ctx, store)
	return cloneStore(store), true
}

func (c *StoreContext) persistCurrent(ctx context.Context, store *domain.Store) {
	var err error
	if store == nil {
		err = c.kv.Delete(ctx, CurrentStoreKey)
	} else {
		err = c.kv.Set(ctx, CurrentStoreKey, store.ID)
	}
	if err != nil {
		c.deps.Log.Warn("failed to persist current store", zap.String("owner_id", c.ownerID), zap.Error(err))
	}
}

func (c *StoreContext) appendLocal(store *domain.Store) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stores = append([]*domain.Store{cloneStore(store)}, c.stores...)
}

func (c *StoreContext) replaceLocal(store *domain.Store) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, s := range c.stores {
		if s.ID == store.ID {
			c.stores[i] = cloneStore(store)
			if c.current != nil && c.current.ID == store.ID {
				c.current = c.stores[i]
			}
		}
	}
}

func findStore(stores []*domain.Store, id string) *domain.Store {
	if id == "" {
		return nil
	}
	for _, s := range stores {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func removeStore(stores []*domain.Store, id string) []*domain.Store {
	out := make([]*domain.Store, 0, len(stores))
	for _, s := range stores {
		if s.ID != id {
			out = append(out, s)
		}
	}
	return out
}

func cloneStore(s *domain.Store) *domain.Store {
	cp := *s
	if s.Settings.LastAccessedAt != nil {
		t := *s.Settings.LastAccessedAt
		cp.Settings.LastAccessedAt = &t
	}
	return &cp
}

// StoreContexts hands out one StoreContext per owner.
type StoreContexts struct {
	deps StoreDeps

	mu       sync.Mutex
	contexts map[string]*StoreContext
	hooks    []func(*StoreContext)
}

func NewStoreContexts(deps StoreDeps) *StoreContexts {
	deps.withDefaults()
	return &StoreContexts{
		deps:     deps,
		contexts: make(map[string]*StoreContext),
	}
}

// OnCreate runs hook for every context created after the call, typically to
// attach event subscribers.
func (r *StoreContexts) OnCreate(hook func(*StoreContext)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = append(r.hooks, hook)
}

func (r *StoreContexts) For(ownerID string) *StoreContext {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.contexts[ownerID]; ok {
		return c
	}
	c := NewStoreContext(ownerID, r.deps)
	for _, hook := range r.hooks {
		hook(c)
	}
	r.contexts[ownerID] = c
	return c
}

// Lookup finds a store by id regardless of owner, for public checkout pages.
func (r *StoreContexts) Lookup(ctx context.Context, id string) (*domain.Store, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("store %s: %w", id, domain.ErrNotFound)
	}
	return r.deps.Repo.GetByID(ctx, id)
}

// Invalidate marks an owner's context stale, e.g. after another instance
// changed the owner's stores.
func (r *StoreContexts) Invalidate(ownerID string) {
	r.mu.Lock()
	c, ok := r.contexts[ownerID]
	r.mu.Unlock()
	if ok {
		c.Invalidate()
	}
}

// MirrorStep copies an activation step status into the store's step map.
// Only that entry is written, so mirrors of other steps and concurrent store
// updates are left intact.
func (r *StoreContexts) MirrorStep(ctx context.Context, ev domain.StepEvent) error {
	done := ev.Status == domain.StepCompleted
	ownerID, err := r.deps.Repo.UpdateStep(ctx, ev.StoreID, ev.StepID, done, r.deps.Now())
	if err != nil {
		return fmt.Errorf("mirror step %s: %w", ev.StepID, err)
	}

	r.Invalidate(ownerID)
	return nil
}
