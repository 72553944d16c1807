package setup

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/LavaJover/voltz-checkout-service/internal/domain"
	"github.com/LavaJover/voltz-checkout-service/internal/infrastructure/cache"
	infrastructure "github.com/LavaJover/voltz-checkout-service/internal/infrastructure/exchange_providers"
	"github.com/LavaJover/voltz-checkout-service/internal/infrastructure/geoip"
	publisher "github.com/LavaJover/voltz-checkout-service/internal/infrastructure/kafka"
	"github.com/LavaJover/voltz-checkout-service/internal/infrastructure/notifier"
	"github.com/LavaJover/voltz-checkout-service/internal/usecase"
)

type UseCases struct {
	Stores           *usecase.StoreContexts
	Activation       *usecase.ActivationService
	CurrencySettings *usecase.CurrencySettingsService
	ExchangeRates    *usecase.DefaultExchangeRateService
	GeoIP            *usecase.GeoIPService
}

func InitializeUseCases(deps *Dependencies) (*UseCases, error) {
	cfg := deps.Config
	log := deps.Log
	pub := deps.EventPublisher()

	notifiers := notifier.Multi{notifier.NewLogNotifier(log.Named("notifications"))}
	if pub != nil {
		notifiers = append(notifiers, notifier.NewKafkaNotifier(pub, log))
	}

	stores := usecase.NewStoreContexts(usecase.StoreDeps{
		Repo:     deps.StoreRepo,
		KV:       deps.KV,
		Notifier: notifiers,
		Metrics:  deps.Metrics,
		Log:      log.Named("stores"),
		Options: usecase.StoreOptions{
			SeedDemo:    cfg.Stores.SeedDemo,
			ProtectDemo: cfg.Stores.ProtectDemo,
		},
	})
	activation := usecase.NewActivationService(deps.KV, notifiers, deps.Metrics, log.Named("activation"))
	activation.Subscribe(mirrorSteps(stores, pub, log))
	settings := usecase.NewCurrencySettingsService(deps.KV, usecase.StaticGatewayCapability(false), log.Named("currency"))

	stores.OnCreate(func(sc *usecase.StoreContext) {
		sc.Subscribe(forgetDeletedStores(activation, settings, log))
		if pub != nil {
			sc.Subscribe(publishStoreEvents(pub, deps.InstanceID, log))
		}
	})

	httpClient := &http.Client{Timeout: 10 * time.Second}

	providers := []domain.ExchangeRateProvider{infrastructure.NewOpenERProvider(cfg.Currency.RatesURL, httpClient)}
	if cfg.Currency.StaticFallback {
		providers = append(providers, infrastructure.NewStaticProvider())
	}
	rates := usecase.NewDefaultExchangeRateService(
		cache.NewSingle[string, domain.ExchangeRates](cfg.Currency.RatesTTL, nil),
		deps.Metrics,
		log.Named("rates"),
		providers...,
	)

	countries, err := geoip.LoadCountryTable(cfg.GeoIP.DefaultsFile)
	if err != nil {
		return nil, fmt.Errorf("country table: %w", err)
	}
	geo := usecase.NewGeoIPService(
		geoip.NewIPifyClient(cfg.GeoIP.EchoURL, httpClient),
		geoip.NewIPAPIClient(cfg.GeoIP.LookupURL, httpClient),
		countries,
		cache.NewKeyed[string, domain.GeoIPResult](cfg.GeoIP.CacheTTL, nil),
		deps.Metrics,
		log.Named("geoip"),
	)

	return &UseCases{
		Stores:           stores,
		Activation:       activation,
		CurrencySettings: settings,
		ExchangeRates:    rates,
		GeoIP:            geo,
	}, nil
}

func publishStoreEvents(pub domain.EventPublisher, origin string, log *zap.Logger) func(domain.StoreEvent) {
	return func(ev domain.StoreEvent) {
		if ev.Type == domain.StoresReloaded || ev.Type == domain.StoreSelected {
			return
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := publisher.PublishJSON(ctx, pub, publisher.TopicStoreEvents, ev.OwnerID, publisher.NewStoreEvent(ev, origin)); err != nil {
				log.Warn("failed to publish store event", zap.String("type", string(ev.Type)), zap.Error(err))
			}
		}()
	}
}

// forgetDeletedStores drops the activation checklist and currency settings
// kept for a store once it is deleted.
func forgetDeletedStores(activation *usecase.ActivationService, settings *usecase.CurrencySettingsService, log *zap.Logger) func(domain.StoreEvent) {
	return func(ev domain.StoreEvent) {
		if ev.Type != domain.StoreDeleted {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := errors.Join(
			activation.Forget(ctx, ev.StoreID),
			settings.Forget(ctx, ev.StoreID),
		); err != nil {
			log.Warn("failed to clean up deleted store", zap.String("store_id", ev.StoreID), zap.Error(err))
		}
	}
}

// mirrorSteps copies step changes into the store's settings and, when kafka
// is enabled, publishes them. The mirror runs inline: trackers dispatch one
// change at a time, so a store's step writes land in order.
func mirrorSteps(stores *usecase.StoreContexts, pub domain.EventPublisher, log *zap.Logger) func(domain.StepEvent) {
	return func(ev domain.StepEvent) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := stores.MirrorStep(ctx, ev); err != nil {
			log.Warn("failed to mirror activation step",
				zap.String("store_id", ev.StoreID),
				zap.String("step", string(ev.StepID)),
				zap.Error(err))
		}
		if pub == nil {
			return
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := publisher.PublishJSON(ctx, pub, publisher.TopicStepEvents, ev.StoreID, publisher.NewStepEvent(ev)); err != nil {
				log.Warn("failed to publish step event", zap.String("store_id", ev.StoreID), zap.Error(err))
			}
		}()
	}
}
