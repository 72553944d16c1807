package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/LavaJover/voltz-checkout-service/internal/domain"
	"github.com/LavaJover/voltz-checkout-service/internal/infrastructure/kvstore"
	"github.com/LavaJover/voltz-checkout-service/internal/infrastructure/metrics"
)

const ActivationStepsKey = "activation-steps"

// ActivationTracker is the onboarding checklist of one store. Any status can
// be written at any time; pages that own a step decide when it moves.
type ActivationTracker struct {
	storeID  string
	kv       domain.KeyValueStore
	notifier domain.Notifier
	metrics  *metrics.CheckoutMetrics
	log      *zap.Logger
	now      func() time.Time
	onChange func(domain.StepEvent)

	// writeMu orders persist and dispatch of successive changes.
	writeMu sync.Mutex
	mu      sync.RWMutex
	steps   []domain.ActivationStep
}

// loadSteps reads the persisted checklist. Anything unreadable or not shaped
// like the fixed four steps yields the all-pending default.
func loadSteps(ctx context.Context, kv domain.KeyValueStore, log *zap.Logger) []domain.ActivationStep {
	raw, ok, err := kv.Get(ctx, ActivationStepsKey)
	if err != nil {
		log.Warn("failed to read activation steps", zap.Error(err))
		return domain.DefaultActivationSteps()
	}
	if !ok {
		return domain.DefaultActivationSteps()
	}

	var persisted []domain.ActivationStep
	if err := json.Unmarshal([]byte(raw), &persisted); err != nil {
		log.Warn("corrupt activation steps, using defaults", zap.Error(err))
		return domain.DefaultActivationSteps()
	}

	steps := domain.DefaultActivationSteps()
	if len(persisted) != len(steps) {
		log.Warn("unexpected activation steps shape, using defaults", zap.Int("steps", len(persisted)))
		return steps
	}
	seen := make(map[domain.StepID]domain.StepStatus, len(persisted))
	for _, p := range persisted {
		if !p.ID.IsValid() || !p.Status.IsValid() {
			log.Warn("invalid activation step, using defaults", zap.String("step", string(p.ID)))
			return domain.DefaultActivationSteps()
		}
		seen[p.ID] = p.Status
	}
	for i := range steps {
		status, ok := seen[steps[i].ID]
		if !ok {
			return domain.DefaultActivationSteps()
		}
		steps[i].Status = status
	}
	return steps
}

func (t *ActivationTracker) persist(ctx context.Context, steps []domain.ActivationStep) error {
	body, err := json.Marshal(steps)
	if err != nil {
		return err
	}
	return t.kv.Set(ctx, ActivationStepsKey, string(body))
}

func (t *ActivationTracker) StoreID() string {
	return t.storeID
}

// Steps returns a copy ordered by display order.
func (t *ActivationTracker) Steps() []domain.ActivationStep {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]domain.ActivationStep, len(t.steps))
	copy(out, t.steps)
	return out
}

// UpdateStatus writes the new checklist first; memory and subscribers only
// see the change once it is persisted.
func (t *ActivationTracker) UpdateStatus(ctx context.Context, id domain.StepID, status domain.StepStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: unknown step status %q", domain.ErrValidation, status)
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	next := t.Steps()
	idx := -1
	for i := range next {
		if next[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("activation step %q: %w", id, domain.ErrNotFound)
	}
	next[idx].Status = status

	if err := t.commit(ctx, next); err != nil {
		return err
	}

	t.metrics.RecordStepUpdate(string(id), string(status))
	if t.onChange != nil {
		t.onChange(domain.StepEvent{StoreID: t.storeID, StepID: id, Status: status, At: t.now()})
	}
	return nil
}

// commit persists steps and then swaps them in. Callers hold writeMu.
func (t *ActivationTracker) commit(ctx context.Context, steps []domain.ActivationStep) error {
	if err := t.persist(ctx, steps); err != nil {
		t.log.Warn("failed to persist activation steps", zap.String("store_id", t.storeID), zap.Error(err))
		return fmt.Errorf("persist activation steps: %w", err)
	}

	t.mu.Lock()
	t.steps = steps
	t.mu.Unlock()
	return nil
}

func (t *ActivationTracker) IsAllCompleted() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, s := range t.steps {
		if s.Status != domain.StepCompleted {
			return false
		}
	}
	return true
}

// CheckAccess gates an action on activation. It is advisory: callers that
// skip it are not blocked.
func (t *ActivationTracker) CheckAccess(ctx context.Context, actionLabel string) bool {
	if t.IsAllCompleted() {
		return true
	}
	if t.notifier != nil {
		t.notifier.Notify(ctx, domain.Notification{
			Level:   domain.NotifyWarning,
			Title:   "Ativação pendente",
			Message: fmt.Sprintf("Conclua todas as etapas de ativação antes de %s", actionLabel),
		})
	}
	return false
}

// Reset returns every step to pending.
func (t *ActivationTracker) Reset(ctx context.Context) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	steps := domain.DefaultActivationSteps()
	if err := t.commit(ctx, steps); err != nil {
		return err
	}

	if t.onChange != nil {
		for _, s := range steps {
			t.onChange(domain.StepEvent{StoreID: t.storeID, StepID: s.ID, Status: s.Status, At: t.now()})
		}
	}
	return nil
}

// ActivationService owns one tracker per store.
type ActivationService struct {
	kv       domain.KeyValueStore
	notifier domain.Notifier
	metrics  *metrics.CheckoutMetrics
	log      *zap.Logger
	now      func() time.Time

	mu       sync.Mutex
	trackers map[string]*ActivationTracker
	subs     []func(domain.StepEvent)
}

func NewActivationService(
	kv domain.KeyValueStore,
	notifier domain.Notifier,
	m *metrics.CheckoutMetrics,
	log *zap.Logger,
) *ActivationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ActivationService{
		kv:       kv,
		notifier: notifier,
		metrics:  m,
		log:      log,
		now:      time.Now,
		trackers: make(map[string]*ActivationTracker),
	}
}

// Subscribe registers fn for step changes of every store. Subscribers must be
// registered before trackers start changing.
func (s *ActivationService) Subscribe(fn func(domain.StepEvent)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *ActivationService) dispatch(ev domain.StepEvent) {
	s.mu.Lock()
	subs := make([]func(domain.StepEvent), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(ev)
	}
}

// Tracker returns the store's tracker, rehydrating it on first use.
func (s *ActivationService) Tracker(ctx context.Context, storeID string) *ActivationTracker {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.trackers[storeID]; ok {
		return t
	}

	kv := kvstore.WithPrefix(s.kv, "store:"+storeID)
	log := s.log.With(zap.String("store_id", storeID))
	t := &ActivationTracker{
		storeID:  storeID,
		kv:       kv,
		notifier: s.notifier,
		metrics:  s.metrics,
		log:      log,
		now:      s.now,
		onChange: s.dispatch,
		steps:    loadSteps(ctx, kv, log),
	}
	s.trackers[storeID] = t
	return t
}

// Forget drops the cached tracker and the persisted checklist of a deleted
// store.
func (s *ActivationService) Forget(ctx context.Context, storeID string) error {
	s.mu.Lock()
	delete(s.trackers, storeID)
	s.mu.Unlock()

	if err := kvstore.WithPrefix(s.kv, "store:"+storeID).Delete(ctx, ActivationStepsKey); err != nil {
		return fmt.Errorf("delete activation steps: %w", err)
	}
	return nil
}
