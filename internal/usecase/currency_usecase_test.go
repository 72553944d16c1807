package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LavaJover/voltz-checkout-service/internal/domain"
	"github.com/LavaJover/voltz-checkout-service/internal/infrastructure/kvstore"
)

func newCurrencyFixture(gateway domain.GatewayCapability) (*CurrencySettingsService, *kvstore.MemoryStore, *manualClock) {
	kv := kvstore.NewMemoryStore()
	clock := newManualClock()
	svc := NewCurrencySettingsService(kv, gateway, nil)
	svc.now = clock.Now
	return svc, kv, clock
}

func TestCurrencySettingsDefaults(t *testing.T) {
	ctx := context.Background()
	svc, kv, clock := newCurrencyFixture(nil)

	settings, err := svc.GetSettings(ctx, "store-1")
	require.NoError(t, err)
	assert.False(t, settings.DetectCountryViaIP)
	assert.False(t, settings.ConvertCurrencyAutomatically)
	assert.True(t, settings.ShowConversionNotice)
	assert.Equal(t, "BRL", settings.FixedCurrency)
	assert.Equal(t, "pt-BR", settings.FixedLanguage)

	_, ok, err := kv.Get(ctx, "store:store-1:"+CurrencySettingsKey)
	require.NoError(t, err)
	assert.True(t, ok, "defaults are persisted on first read")

	clock.Advance(time.Hour)
	again, err := svc.GetSettings(ctx, "store-1")
	require.NoError(t, err)
	assert.True(t, settings.UpdatedAt.Equal(again.UpdatedAt), "second read returns the persisted defaults")
}

func TestCurrencySettingsCorrupt(t *testing.T) {
	ctx := context.Background()
	svc, kv, _ := newCurrencyFixture(nil)
	require.NoError(t, kv.Set(ctx, "store:s:"+CurrencySettingsKey, "not-json"))

	settings, err := svc.GetSettings(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, "BRL", settings.FixedCurrency)
}

func TestCurrencySettingsForget(t *testing.T) {
	ctx := context.Background()
	svc, kv, _ := newCurrencyFixture(nil)

	_, err := svc.GetSettings(ctx, "store-1")
	require.NoError(t, err)
	_, err = svc.GetSettings(ctx, "store-2")
	require.NoError(t, err)

	require.NoError(t, svc.Forget(ctx, "store-1"))

	_, ok, err := kv.Get(ctx, "store:store-1:"+CurrencySettingsKey)
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = kv.Get(ctx, "store:store-2:"+CurrencySettingsKey)
	require.NoError(t, err)
	assert.True(t, ok, "other stores keep their settings")
}

func TestCurrencySettingsUpdate(t *testing.T) {
	ctx := context.Background()
	svc, _, clock := newCurrencyFixture(StaticGatewayCapability(false))

	_, err := svc.GetSettings(ctx, "store-1")
	require.NoError(t, err)
	clock.Advance(time.Minute)

	updated, err := svc.UpdateSettings(ctx, "store-1", domain.CurrencySettings{
		DetectCountryViaIP:           true,
		ConvertCurrencyAutomatically: true,
		FixedCurrency:                "usd",
		FixedLanguage:                "en-US",
		SupportsMultipleCurrencies:   true,
		UpdatedAt:                    time.Unix(0, 0),
	})
	require.NoError(t, err)
	assert.Equal(t, "USD", updated.FixedCurrency)
	assert.False(t, updated.SupportsMultipleCurrencies, "capability comes from the gateway")
	assert.True(t, updated.UpdatedAt.Equal(clock.Now()))
	assert.False(t, updated.ShowConversionNotice, "update is a full replace")

	stored, err := svc.GetSettings(ctx, "store-1")
	require.NoError(t, err)
	assert.Equal(t, updated, stored)

	t.Run("capable gateway", func(t *testing.T) {
		svc, _, _ := newCurrencyFixture(StaticGatewayCapability(true))
		got, err := svc.UpdateSettings(ctx, "s", domain.DefaultCurrencySettings(time.Now()))
		require.NoError(t, err)
		assert.True(t, got.SupportsMultipleCurrencies)
	})

	t.Run("validation", func(t *testing.T) {
		_, err := svc.UpdateSettings(ctx, "store-1", domain.CurrencySettings{FixedCurrency: "REAL", FixedLanguage: "pt-BR"})
		assert.ErrorIs(t, err, domain.ErrValidation)
		_, err = svc.UpdateSettings(ctx, "store-1", domain.CurrencySettings{FixedCurrency: "BRL"})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestResolveDisplay(t *testing.T) {
	defaults := func(code string) domain.CountryDefaults {
		if code == "US" {
			return domain.CountryDefaults{Currency: "USD", Language: "en-US"}
		}
		return domain.CountryDefaults{Currency: "BRL", Language: "pt-BR"}
	}
	us := &domain.GeoIPResult{CountryCode: "US"}
	base := domain.DefaultCurrencySettings(time.Now())

	assert.Equal(t, domain.DisplayLocale{Currency: "BRL", Language: "pt-BR"}, ResolveDisplay(base, us, defaults))

	detect := base
	detect.DetectCountryViaIP = true
	assert.Equal(t, domain.DisplayLocale{Currency: "BRL", Language: "pt-BR"}, ResolveDisplay(detect, us, defaults))
	assert.Equal(t, domain.DisplayLocale{Currency: "BRL", Language: "pt-BR"}, ResolveDisplay(detect, nil, defaults))

	auto := detect
	auto.ConvertCurrencyAutomatically = true
	auto.TranslateLanguageAutomatically = true
	assert.Equal(t, domain.DisplayLocale{Currency: "USD", Language: "en-US", Converted: true}, ResolveDisplay(auto, us, defaults))
	assert.Equal(t, domain.DisplayLocale{Currency: "BRL", Language: "pt-BR"}, ResolveDisplay(auto, &domain.GeoIPResult{CountryCode: "BR"}, defaults))
}
