package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/LavaJover/voltz-checkout-service/internal/domain"
	"github.com/LavaJover/voltz-checkout-service/internal/infrastructure/cache"
	"github.com/LavaJover/voltz-checkout-service/internal/infrastructure/metrics"
)

const (
	DefaultRatesTTL = time.Hour
	identitySource  = "identity"
)

type ExchangeRateService interface {
	FetchExchangeRates(ctx context.Context, base string) domain.ExchangeRates
	ConvertCurrency(ctx context.Context, amount float64, from, to string) (float64, error)
	FormatCurrency(amount float64, code, locale string) string
	GetAvailableProviders() []string
	HealthCheck(ctx context.Context) map[string]error
}

// DefaultExchangeRateService asks providers in order. Only the first
// provider's answers are cached, so a recovered primary is picked up on the
// next call instead of after the TTL.
type DefaultExchangeRateService struct {
	providers []domain.ExchangeRateProvider
	cache     *cache.Single[string, domain.ExchangeRates]
	metrics   *metrics.CheckoutMetrics
	log       *zap.Logger
	now       func() time.Time
}

func NewDefaultExchangeRateService(
	rateCache *cache.Single[string, domain.ExchangeRates],
	m *metrics.CheckoutMetrics,
	log *zap.Logger,
	providers ...domain.ExchangeRateProvider,
) *DefaultExchangeRateService {
	if rateCache == nil {
		rateCache = cache.NewSingle[string, domain.ExchangeRates](DefaultRatesTTL, nil)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &DefaultExchangeRateService{
		providers: providers,
		cache:     rateCache,
		metrics:   m,
		log:       log,
		now:       time.Now,
	}
}

// FetchExchangeRates never fails. On total provider failure the table holds
// only the identity rate.
func (s *DefaultExchangeRateService) FetchExchangeRates(ctx context.Context, base string) domain.ExchangeRates {
	base = strings.ToUpper(strings.TrimSpace(base))

	if cached, ok := s.cache.Get(base); ok {
		s.metrics.RecordCacheLookup("exchange_rates", true)
		return cached
	}
	s.metrics.RecordCacheLookup("exchange_rates", false)

	for i, provider := range s.providers {
		start := time.Now()
		rates, err := provider.GetRates(ctx, base)
		s.metrics.RecordRateFetch(provider.GetName(), time.Since(start).Seconds(), err)
		if err != nil {
			s.log.Warn("exchange provider failed",
				zap.String("provider", provider.GetName()),
				zap.String("base", base),
				zap.Error(err))
			continue
		}

		table := make(map[string]float64, len(rates)+1)
		for code, rate := range rates {
			table[strings.ToUpper(code)] = rate
		}
		table[base] = 1

		result := domain.ExchangeRates{
			Base:      base,
			Rates:     table,
			FetchedAt: s.now(),
			Source:    provider.GetName(),
		}
		if i == 0 {
			s.cache.Set(base, result)
		} else {
			s.log.Warn("using fallback exchange provider",
				zap.String("fallback", provider.GetName()),
				zap.String("base", base))
		}
		return result
	}

	return domain.ExchangeRates{
		Base:      base,
		Rates:     map[string]float64{base: 1},
		FetchedAt: s.now(),
		Source:    identitySource,
	}
}

// ConvertCurrency converts without rounding. Callers should show the original
// amount when it returns ErrRateUnavailable.
func (s *DefaultExchangeRateService) ConvertCurrency(ctx context.Context, amount float64, from, to string) (float64, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))

	if from == to {
		s.metrics.RecordConversion("identity")
		return amount, nil
	}

	if rate, ok := s.FetchExchangeRates(ctx, from).Rate(to); ok && rate > 0 {
		s.metrics.RecordConversion("direct")
		return amount * rate, nil
	}

	if inverse, ok := s.FetchExchangeRates(ctx, to).Rate(from); ok && inverse > 0 {
		s.metrics.RecordConversion("inverse")
		return amount / inverse, nil
	}

	s.metrics.RecordConversion("unavailable")
	return 0, fmt.Errorf("%w: %s to %s", domain.ErrRateUnavailable, from, to)
}

// FormatCurrency renders amount with the currency symbol for locale. Codes
// outside ISO 4217 are written as "<code> <amount>".
func (s *DefaultExchangeRateService) FormatCurrency(amount float64, code, locale string) string {
	return FormatCurrency(amount, code, locale)
}

func FormatCurrency(amount float64, code, locale string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	unit, err := currency.ParseISO(code)
	if err != nil {
		return fmt.Sprintf("%s %.2f", code, amount)
	}

	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.BrazilianPortuguese
	}
	return message.NewPrinter(tag).Sprint(currency.Symbol(unit.Amount(amount)))
}

func (s *DefaultExchangeRateService) GetAvailableProviders() []string {
	names := make([]string, 0, len(s.providers))
	for _, p := range s.providers {
		names = append(names, p.GetName())
	}
	return names
}

func (s *DefaultExchangeRateService) HealthCheck(ctx context.Context) map[string]error {
	errs := make(map[string]error)
	for _, p := range s.providers {
		if _, err := p.GetRates(ctx, "USD"); err != nil {
			errs[p.GetName()] = err
		}
	}
	return errs
}

// Ping fails only when no provider answers.
func (s *DefaultExchangeRateService) Ping(ctx context.Context) error {
	if len(s.providers) == 0 {
		return errors.New("no exchange rate providers configured")
	}
	failures := s.HealthCheck(ctx)
	if len(failures) < len(s.providers) {
		return nil
	}
	errs := make([]error, 0, len(failures))
	for name, err := range failures {
		errs = append(errs, fmt.Errorf("%s: %w", name, err))
	}
	return fmt.Errorf("no exchange rate provider available: %w", errors.Join(errs...))
}
