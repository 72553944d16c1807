package background

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/LavaJover/voltz-checkout-service/internal/domain"
	publisher "github.com/LavaJover/voltz-checkout-service/internal/infrastructure/kafka"
)

type RateWarmer interface {
	FetchExchangeRates(ctx context.Context, base string) domain.ExchangeRates
}

type CachePurger interface {
	PurgeExpired() int
}

type OwnerInvalidator interface {
	Invalidate(ownerID string)
}

type MessageSource interface {
	Subscribe(ctx context.Context, topic, groupID string) (<-chan domain.Message, error)
}

type Config struct {
	WarmupBase     string
	WarmupInterval time.Duration
	PurgeInterval  time.Duration
	InstanceID     string
	GroupID        string
}

type BackgroundTasks struct {
	cfg    Config
	rates  RateWarmer
	geo    CachePurger
	stores OwnerInvalidator
	events MessageSource
	log    *zap.Logger
}

// NewBackgroundTasks wires the periodic jobs. events may be nil when kafka
// is disabled.
func NewBackgroundTasks(cfg Config, rates RateWarmer, geo CachePurger, stores OwnerInvalidator, events MessageSource, log *zap.Logger) *BackgroundTasks {
	if cfg.WarmupInterval <= 0 {
		cfg.WarmupInterval = 30 * time.Minute
	}
	if cfg.PurgeInterval <= 0 {
		cfg.PurgeInterval = time.Hour
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &BackgroundTasks{cfg: cfg, rates: rates, geo: geo, stores: stores, events: events, log: log}
}

// StartAll blocks until ctx is done.
func (bt *BackgroundTasks) StartAll(ctx context.Context) error {
	done := make(chan struct{}, 3)
	run := func(f func(context.Context)) {
		go func() {
			f(ctx)
			done <- struct{}{}
		}()
	}

	n := 2
	run(bt.startRatesWarmup)
	run(bt.startGeoIPPurge)
	if bt.events != nil {
		n++
		run(bt.startStoreEventsConsumer)
	}
	for i := 0; i < n; i++ {
		<-done
	}
	return nil
}

func (bt *BackgroundTasks) warmRates(ctx context.Context) {
	if bt.cfg.WarmupBase == "" {
		return
	}
	rates := bt.rates.FetchExchangeRates(ctx, bt.cfg.WarmupBase)
	bt.log.Debug("exchange rates refreshed",
		zap.String("base", rates.Base),
		zap.String("source", rates.Source),
		zap.Int("rates", len(rates.Rates)))
}

func (bt *BackgroundTasks) startRatesWarmup(ctx context.Context) {
	ticker := time.NewTicker(bt.cfg.WarmupInterval)
	defer ticker.Stop()

	bt.warmRates(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			bt.warmRates(ctx)
		}
	}
}

func (bt *BackgroundTasks) startGeoIPPurge(ctx context.Context) {
	ticker := time.NewTicker(bt.cfg.PurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := bt.geo.PurgeExpired(); removed > 0 {
				bt.log.Debug("geoip cache purged", zap.Int("removed", removed))
			}
		}
	}
}

// startStoreEventsConsumer drops cached store lists changed by other
// instances. Each instance reads with its own group so every instance sees
// every event.
func (bt *BackgroundTasks) startStoreEventsConsumer(ctx context.Context) {
	groupID := bt.cfg.GroupID + "-" + bt.cfg.InstanceID
	msgs, err := bt.events.Subscribe(ctx, publisher.TopicStoreEvents, groupID)
	if err != nil {
		bt.log.Error("failed to subscribe to store events", zap.Error(err))
		return
	}
	for msg := range msgs {
		bt.handleStoreEvent(msg)
	}
}

func (bt *BackgroundTasks) handleStoreEvent(msg domain.Message) {
	var ev publisher.StoreEvent
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		bt.log.Warn("malformed store event", zap.Error(err))
		return
	}
	if ev.Origin == bt.cfg.InstanceID || ev.OwnerID == "" {
		return
	}
	bt.stores.Invalidate(ev.OwnerID)
}
