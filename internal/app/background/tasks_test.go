package background

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LavaJover/voltz-checkout-service/internal/domain"
	publisher "github.com/LavaJover/voltz-checkout-service/internal/infrastructure/kafka"
)

type countingWarmer struct {
	mu    sync.Mutex
	bases []string
}

func (w *countingWarmer) FetchExchangeRates(ctx context.Context, base string) domain.ExchangeRates {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.bases = append(w.bases, base)
	return domain.ExchangeRates{Base: base, Rates: map[string]float64{base: 1}}
}

func (w *countingWarmer) count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.bases)
}

type noopPurger struct{}

func (noopPurger) PurgeExpired() int { return 0 }

type recordingInvalidator struct {
	mu     sync.Mutex
	owners []string
}

func (r *recordingInvalidator) Invalidate(ownerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.owners = append(r.owners, ownerID)
}

func (r *recordingInvalidator) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.owners...)
}

type chanSource struct {
	ch      chan domain.Message
	topic   string
	groupID string
}

func (s *chanSource) Subscribe(ctx context.Context, topic, groupID string) (<-chan domain.Message, error) {
	s.topic = topic
	s.groupID = groupID
	return s.ch, nil
}

func storeEventMessage(t *testing.T, owner, origin string) domain.Message {
	t.Helper()
	body, err := json.Marshal(publisher.StoreEvent{Type: "store.updated", OwnerID: owner, Origin: origin})
	require.NoError(t, err)
	return domain.Message{Key: []byte(owner), Value: body}
}

func TestStoreEventsInvalidateOtherInstances(t *testing.T) {
	invalidator := &recordingInvalidator{}
	source := &chanSource{ch: make(chan domain.Message, 4)}
	bt := NewBackgroundTasks(Config{InstanceID: "node-a", GroupID: "checkout"}, &countingWarmer{}, noopPurger{}, invalidator, source, nil)

	source.ch <- storeEventMessage(t, "owner-1", "node-a")
	source.ch <- storeEventMessage(t, "owner-2", "node-b")
	source.ch <- domain.Message{Value: []byte("{broken")}
	close(source.ch)

	bt.startStoreEventsConsumer(context.Background())

	assert.Equal(t, []string{"owner-2"}, invalidator.snapshot())
	assert.Equal(t, publisher.TopicStoreEvents, source.topic)
	assert.Equal(t, "checkout-node-a", source.groupID)
}

func TestStartAllWarmsRatesAndStops(t *testing.T) {
	warmer := &countingWarmer{}
	bt := NewBackgroundTasks(Config{WarmupBase: "BRL", WarmupInterval: time.Hour}, warmer, noopPurger{}, &recordingInvalidator{}, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- bt.StartAll(ctx) }()

	require.Eventually(t, func() bool { return warmer.count() == 1 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("background tasks did not stop")
	}
	assert.Equal(t, []string{"BRL"}, warmer.bases)
}
