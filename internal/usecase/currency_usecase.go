package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/LavaJover/voltz-checkout-service/internal/domain"
	"github.com/LavaJover/voltz-checkout-service/internal/infrastructure/kvstore"
)

const CurrencySettingsKey = "currencySettings"

// StaticGatewayCapability answers a fixed value until gateway integrations
// report their own capabilities.
type StaticGatewayCapability bool

func (c StaticGatewayCapability) SupportsMultipleCurrencies(ctx context.Context) bool {
	return bool(c)
}

type CurrencySettingsService struct {
	kv      domain.KeyValueStore
	gateway domain.GatewayCapability
	log     *zap.Logger
	now     func() time.Time
}

func NewCurrencySettingsService(kv domain.KeyValueStore, gateway domain.GatewayCapability, log *zap.Logger) *CurrencySettingsService {
	if gateway == nil {
		gateway = StaticGatewayCapability(false)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &CurrencySettingsService{kv: kv, gateway: gateway, log: log, now: time.Now}
}

func (s *CurrencySettingsService) scope(storeID string) domain.KeyValueStore {
	return kvstore.WithPrefix(s.kv, "store:"+storeID)
}

// GetSettings returns the store's settings, creating and persisting the
// defaults on first access or when the stored value is unreadable.
func (s *CurrencySettingsService) GetSettings(ctx context.Context, storeID string) (domain.CurrencySettings, error) {
	kv := s.scope(storeID)

	raw, ok, err := kv.Get(ctx, CurrencySettingsKey)
	if err != nil {
		return domain.CurrencySettings{}, fmt.Errorf("%w: read currency settings: %v", domain.ErrFetch, err)
	}
	if ok {
		var settings domain.CurrencySettings
		if err := json.Unmarshal([]byte(raw), &settings); err == nil {
			return settings, nil
		}
		s.log.Warn("corrupt currency settings, resetting to defaults", zap.String("store_id", storeID))
	}

	settings := domain.DefaultCurrencySettings(s.now())
	settings.SupportsMultipleCurrencies = s.gateway.SupportsMultipleCurrencies(ctx)
	if err := s.save(ctx, kv, settings); err != nil {
		return domain.CurrencySettings{}, err
	}
	return settings, nil
}

// UpdateSettings replaces the settings wholesale. UpdatedAt and
// SupportsMultipleCurrencies are always set here, whatever the caller sent.
func (s *CurrencySettingsService) UpdateSettings(ctx context.Context, storeID string, settings domain.CurrencySettings) (domain.CurrencySettings, error) {
	settings.FixedCurrency = strings.ToUpper(strings.TrimSpace(settings.FixedCurrency))
	settings.FixedLanguage = strings.TrimSpace(settings.FixedLanguage)
	if len(settings.FixedCurrency) != 3 {
		return domain.CurrencySettings{}, fmt.Errorf("%w: fixed currency must be a 3-letter code", domain.ErrValidation)
	}
	if settings.FixedLanguage == "" {
		return domain.CurrencySettings{}, fmt.Errorf("%w: fixed language is required", domain.ErrValidation)
	}

	settings.UpdatedAt = s.now()
	settings.SupportsMultipleCurrencies = s.gateway.SupportsMultipleCurrencies(ctx)

	if err := s.save(ctx, s.scope(storeID), settings); err != nil {
		return domain.CurrencySettings{}, err
	}
	return settings, nil
}

// Forget removes the settings of a deleted store.
func (s *CurrencySettingsService) Forget(ctx context.Context, storeID string) error {
	if err := s.scope(storeID).Delete(ctx, CurrencySettingsKey); err != nil {
		return fmt.Errorf("delete currency settings: %w", err)
	}
	return nil
}

func (s *CurrencySettingsService) save(ctx context.Context, kv domain.KeyValueStore, settings domain.CurrencySettings) error {
	body, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	if err := kv.Set(ctx, CurrencySettingsKey, string(body)); err != nil {
		return fmt.Errorf("persist currency settings: %w", err)
	}
	return nil
}

// ResolveDisplay picks what the checkout shows. Fixed values win unless
// detection is on and a location was resolved; then each automatic flag
// switches its half to the country's defaults.
func ResolveDisplay(settings domain.CurrencySettings, geo *domain.GeoIPResult, defaults func(code string) domain.CountryDefaults) domain.DisplayLocale {
	display := domain.DisplayLocale{
		Currency: settings.FixedCurrency,
		Language: settings.FixedLanguage,
	}
	if !settings.DetectCountryViaIP || geo == nil || defaults == nil {
		return display
	}

	country := defaults(geo.CountryCode)
	if settings.ConvertCurrencyAutomatically && country.Currency != "" {
		display.Currency = country.Currency
		display.Converted = !strings.EqualFold(country.Currency, settings.FixedCurrency)
	}
	if settings.TranslateLanguageAutomatically && country.Language != "" {
		display.Language = country.Language
	}
	return display
}
