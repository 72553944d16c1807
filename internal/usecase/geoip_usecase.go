package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"golang.org/x/text/message"

	"github.com/LavaJover/voltz-checkout-service/internal/domain"
	"github.com/LavaJover/voltz-checkout-service/internal/infrastructure/cache"
	"github.com/LavaJover/voltz-checkout-service/internal/infrastructure/metrics"
)

const (
	ClientIPKey     = "client_ip"
	DefaultGeoIPTTL = 24 * time.Hour
)

type CountryDefaultsSource interface {
	Defaults(code string) domain.CountryDefaults
}

type GeoIPService struct {
	echo      domain.IPEchoClient
	locator   domain.GeoLocator
	countries CountryDefaultsSource
	cache     *cache.Keyed[string, domain.GeoIPResult]
	metrics   *metrics.CheckoutMetrics
	log       *zap.Logger
}

func NewGeoIPService(
	echo domain.IPEchoClient,
	locator domain.GeoLocator,
	countries CountryDefaultsSource,
	geoCache *cache.Keyed[string, domain.GeoIPResult],
	m *metrics.CheckoutMetrics,
	log *zap.Logger,
) *GeoIPService {
	if geoCache == nil {
		geoCache = cache.NewKeyed[string, domain.GeoIPResult](DefaultGeoIPTTL, nil)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &GeoIPService{
		echo:      echo,
		locator:   locator,
		countries: countries,
		cache:     geoCache,
		metrics:   m,
		log:       log,
	}
}

// DetectClientCountry resolves the visitor's country. session holds the
// visitor's last resolved IP; clientIP is the request's remote address and
// may be empty, in which case the echo endpoint is asked. Any failure
// returns nil and callers fall back to the fixed settings.
func (s *GeoIPService) DetectClientCountry(ctx context.Context, session domain.KeyValueStore, clientIP string) *domain.GeoIPResult {
	clientIP = strings.TrimSpace(clientIP)

	if session != nil {
		if ip, ok, err := session.Get(ctx, ClientIPKey); err == nil && ok && (clientIP == "" || ip == clientIP) {
			if cached, hit := s.cache.Get(ip); hit {
				s.metrics.RecordCacheLookup("geoip", true)
				s.metrics.RecordGeoIPLookup("cached")
				return &cached
			}
		}
	}
	if clientIP != "" {
		if cached, hit := s.cache.Get(clientIP); hit {
			s.metrics.RecordCacheLookup("geoip", true)
			s.metrics.RecordGeoIPLookup("cached")
			s.remember(ctx, session, clientIP)
			return &cached
		}
	}
	s.metrics.RecordCacheLookup("geoip", false)

	result, err := s.lookup(ctx, clientIP)
	if err != nil {
		s.log.Warn("geoip detection failed", zap.String("ip", clientIP), zap.Error(err))
		s.metrics.RecordGeoIPLookup("failed")
		return nil
	}

	s.cache.Set(result.IP, *result)
	s.remember(ctx, session, result.IP)
	s.metrics.RecordGeoIPLookup("resolved")
	return result
}

func (s *GeoIPService) lookup(ctx context.Context, ip string) (*domain.GeoIPResult, error) {
	if ip == "" {
		if s.echo == nil {
			return nil, fmt.Errorf("%w: no client address and no echo endpoint", domain.ErrFetch)
		}
		own, err := s.echo.OwnIP(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: ip echo: %v", domain.ErrFetch, err)
		}
		ip = own
	}

	loc, err := s.locator.Locate(ctx, ip)
	if err != nil {
		return nil, fmt.Errorf("%w: geolocation: %v", domain.ErrFetch, err)
	}
	return s.normalize(ip, loc), nil
}

func (s *GeoIPService) remember(ctx context.Context, session domain.KeyValueStore, ip string) {
	if session == nil {
		return
	}
	if err := session.Set(ctx, ClientIPKey, ip); err != nil {
		s.log.Warn("failed to store session ip", zap.Error(err))
	}
}

// normalize fills gaps in the provider answer from the country table and
// CLDR names.
func (s *GeoIPService) normalize(ip string, loc *domain.GeoLocation) *domain.GeoIPResult {
	code := strings.ToUpper(loc.CountryCode)
	defaults := s.GetCountryDefaults(code)

	result := &domain.GeoIPResult{
		IP:           loc.IP,
		CountryCode:  code,
		CountryName:  loc.CountryName,
		CurrencyCode: strings.ToUpper(loc.Currency),
	}
	if result.IP == "" {
		result.IP = ip
	}
	if result.CountryName == "" {
		if region, err := language.ParseRegion(code); err == nil {
			result.CountryName = display.English.Regions().Name(region)
		}
	}
	if result.CurrencyCode == "" {
		result.CurrencyCode = defaults.Currency
	}
	result.CurrencySymbol = currencySymbol(result.CurrencyCode, defaults.Language)

	langs := loc.Languages
	if len(langs) == 0 {
		langs = []string{defaults.Language}
	}
	for _, l := range langs {
		tag, err := language.Parse(l)
		if err != nil {
			continue
		}
		result.Languages = append(result.Languages, domain.Language{
			Code: tag.String(),
			Name: display.Self.Name(tag),
		})
	}
	return result
}

func currencySymbol(code, locale string) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return code
	}
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return message.NewPrinter(tag).Sprint(currency.NarrowSymbol(unit))
}

// GetCountryDefaults never fails; unknown codes get {BRL, pt-BR}.
func (s *GeoIPService) GetCountryDefaults(code string) domain.CountryDefaults {
	if s.countries == nil {
		return domain.CountryDefaults{Currency: "BRL", Language: "pt-BR"}
	}
	return s.countries.Defaults(code)
}

// PurgeExpired drops stale cache entries. Run periodically.
func (s *GeoIPService) PurgeExpired() int {
	return s.cache.Purge()
}
