package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LavaJover/voltz-checkout-service/internal/domain"
	"github.com/LavaJover/voltz-checkout-service/internal/infrastructure/cache"
)

type fakeRateProvider struct {
	name   string
	tables map[string]map[string]float64
	fail   bool

	mu    sync.Mutex
	calls []string
}

func (p *fakeRateProvider) GetName() string { return p.name }

func (p *fakeRateProvider) GetRates(ctx context.Context, base string) (map[string]float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, base)
	if p.fail {
		return nil, errUnreachable
	}
	table, ok := p.tables[base]
	if !ok {
		return nil, errors.New("unsupported base")
	}
	out := make(map[string]float64, len(table))
	for k, v := range table {
		out[k] = v
	}
	return out, nil
}

func (p *fakeRateProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

func newExchangeFixture(clock *manualClock, providers ...domain.ExchangeRateProvider) *DefaultExchangeRateService {
	c := cache.NewSingle[string, domain.ExchangeRates](time.Hour, clock.Now)
	svc := NewDefaultExchangeRateService(c, nil, nil, providers...)
	svc.now = clock.Now
	return svc
}

func TestFetchExchangeRatesCache(t *testing.T) {
	ctx := context.Background()
	clock := newManualClock()
	provider := &fakeRateProvider{name: "fake", tables: map[string]map[string]float64{
		"BRL": {"USD": 0.2},
		"USD": {"BRL": 5.0},
	}}
	svc := newExchangeFixture(clock, provider)

	first := svc.FetchExchangeRates(ctx, "BRL")
	clock.Advance(59 * time.Minute)
	second := svc.FetchExchangeRates(ctx, "BRL")
	assert.Equal(t, 1, provider.callCount())
	assert.Equal(t, first, second)
	assert.Equal(t, 1.0, first.Rates["BRL"])
	assert.Equal(t, "fake", first.Source)

	t.Run("different base replaces the entry", func(t *testing.T) {
		svc.FetchExchangeRates(ctx, "USD")
		svc.FetchExchangeRates(ctx, "BRL")
		assert.Equal(t, 3, provider.callCount())
	})

	t.Run("entry expires after an hour", func(t *testing.T) {
		clock.Advance(time.Hour)
		svc.FetchExchangeRates(ctx, "BRL")
		assert.Equal(t, 4, provider.callCount())
	})
}

func TestFetchExchangeRatesFallback(t *testing.T) {
	ctx := context.Background()
	clock := newManualClock()
	primary := &fakeRateProvider{name: "live", fail: true}
	fallback := &fakeRateProvider{name: "static", tables: map[string]map[string]float64{
		"BRL": {"USD": 0.2},
	}}
	svc := newExchangeFixture(clock, primary, fallback)

	rates := svc.FetchExchangeRates(ctx, "BRL")
	assert.Equal(t, "static", rates.Source)
	assert.Equal(t, 0.2, rates.Rates["USD"])

	// fallback answers are not cached
	svc.FetchExchangeRates(ctx, "BRL")
	assert.Equal(t, 2, primary.callCount())

	t.Run("total failure yields identity", func(t *testing.T) {
		svc := newExchangeFixture(clock, &fakeRateProvider{name: "live", fail: true})
		rates := svc.FetchExchangeRates(ctx, "eur")
		assert.Equal(t, "EUR", rates.Base)
		assert.Equal(t, map[string]float64{"EUR": 1}, rates.Rates)
		assert.Equal(t, "identity", rates.Source)
	})
}

func TestConvertCurrency(t *testing.T) {
	ctx := context.Background()

	t.Run("identity performs no fetch", func(t *testing.T) {
		provider := &fakeRateProvider{name: "fake"}
		svc := newExchangeFixture(newManualClock(), provider)
		got, err := svc.ConvertCurrency(ctx, 100, "BRL", "BRL")
		require.NoError(t, err)
		assert.Equal(t, 100.0, got)
		assert.Zero(t, provider.callCount())
	})

	t.Run("direct rate", func(t *testing.T) {
		provider := &fakeRateProvider{name: "fake", tables: map[string]map[string]float64{
			"BRL": {"USD": 0.2},
		}}
		svc := newExchangeFixture(newManualClock(), provider)
		got, err := svc.ConvertCurrency(ctx, 100, "BRL", "USD")
		require.NoError(t, err)
		assert.InDelta(t, 20.0, got, 1e-9)
	})

	t.Run("reciprocal rate", func(t *testing.T) {
		provider := &fakeRateProvider{name: "fake", tables: map[string]map[string]float64{
			"BRL": {"EUR": 0.18},
			"USD": {"BRL": 5.0},
		}}
		svc := newExchangeFixture(newManualClock(), provider)
		got, err := svc.ConvertCurrency(ctx, 100, "BRL", "USD")
		require.NoError(t, err)
		assert.InDelta(t, 20.0, got, 1e-9)
		assert.Equal(t, []string{"BRL", "USD"}, provider.calls)
	})

	t.Run("no rate in either direction", func(t *testing.T) {
		svc := newExchangeFixture(newManualClock(), &fakeRateProvider{name: "fake", fail: true})
		_, err := svc.ConvertCurrency(ctx, 100, "BRL", "USD")
		assert.ErrorIs(t, err, domain.ErrRateUnavailable)
	})

	t.Run("no pre-rounding", func(t *testing.T) {
		provider := &fakeRateProvider{name: "fake", tables: map[string]map[string]float64{
			"BRL": {"USD": 0.123456789},
		}}
		svc := newExchangeFixture(newManualClock(), provider)
		got, err := svc.ConvertCurrency(ctx, 3, "BRL", "USD")
		require.NoError(t, err)
		assert.InDelta(t, 0.370370367, got, 1e-12)
	})
}

func TestFormatCurrency(t *testing.T) {
	brl := FormatCurrency(100, "BRL", "pt-BR")
	assert.Contains(t, brl, "R$")
	assert.Contains(t, brl, "100")

	usd := FormatCurrency(100, "usd", "en-US")
	assert.Contains(t, usd, "$")
	assert.Contains(t, usd, "100")

	assert.Equal(t, "ZZZ 100.00", FormatCurrency(100, "ZZZ", "pt-BR"))
	assert.Contains(t, FormatCurrency(5, "EUR", "not a locale"), "5")
}

func TestExchangeProvidersInfo(t *testing.T) {
	live := &fakeRateProvider{name: "live", fail: true}
	static := &fakeRateProvider{name: "static", tables: map[string]map[string]float64{"USD": {"BRL": 5}}}
	svc := newExchangeFixture(newManualClock(), live, static)

	assert.Equal(t, []string{"live", "static"}, svc.GetAvailableProviders())
	health := svc.HealthCheck(context.Background())
	assert.Len(t, health, 1)
	assert.Contains(t, health, "live")
}

func TestExchangeRatesPing(t *testing.T) {
	ctx := context.Background()
	live := &fakeRateProvider{name: "live", fail: true}
	static := &fakeRateProvider{name: "static", tables: map[string]map[string]float64{"USD": {"BRL": 5}}}

	assert.NoError(t, newExchangeFixture(newManualClock(), live, static).Ping(ctx), "one healthy provider is enough")

	err := newExchangeFixture(newManualClock(), live).Ping(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "live")

	assert.Error(t, newExchangeFixture(newManualClock()).Ping(ctx))
}
