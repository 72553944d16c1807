package handlers

import (
	"errors"
	"net/http"
	"net/netip"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/LavaJover/voltz-checkout-service/internal/delivery/http/dto/checkout/request"
	"github.com/LavaJover/voltz-checkout-service/internal/delivery/http/dto/checkout/response"
	"github.com/LavaJover/voltz-checkout-service/internal/domain"
	"github.com/LavaJover/voltz-checkout-service/internal/infrastructure/kvstore"
	"github.com/LavaJover/voltz-checkout-service/internal/usecase"
)

type CurrencyHandler struct {
	stores   *usecase.StoreContexts
	settings *usecase.CurrencySettingsService
	rates    usecase.ExchangeRateService
	geo      *usecase.GeoIPService
	sessions domain.KeyValueStore
}

func NewCurrencyHandler(
	stores *usecase.StoreContexts,
	settings *usecase.CurrencySettingsService,
	rates usecase.ExchangeRateService,
	geo *usecase.GeoIPService,
	sessions domain.KeyValueStore,
) *CurrencyHandler {
	return &CurrencyHandler{stores: stores, settings: settings, rates: rates, geo: geo, sessions: sessions}
}

func (h *CurrencyHandler) ownedStoreID(c *gin.Context) (string, bool) {
	store, err := h.stores.For(ownerID(c)).Find(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return "", false
	}
	return store.ID, true
}

// GET /api/v1/stores/:id/currency-settings
func (h *CurrencyHandler) GetSettings(c *gin.Context) {
	storeID, ok := h.ownedStoreID(c)
	if !ok {
		return
	}
	settings, err := h.settings.GetSettings(c.Request.Context(), storeID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(settings))
}

// PUT /api/v1/stores/:id/currency-settings
func (h *CurrencyHandler) UpdateSettings(c *gin.Context) {
	var req request.CurrencySettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	storeID, ok := h.ownedStoreID(c)
	if !ok {
		return
	}

	settings, err := h.settings.UpdateSettings(c.Request.Context(), storeID, domain.CurrencySettings{
		DetectCountryViaIP:             req.DetectCountryViaIP,
		ConvertCurrencyAutomatically:   req.ConvertCurrencyAutomatically,
		TranslateLanguageAutomatically: req.TranslateLanguageAutomatically,
		ShowConversionNotice:           req.ShowConversionNotice,
		FixedCurrency:                  req.FixedCurrency,
		FixedLanguage:                  req.FixedLanguage,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(settings))
}

// CheckoutLocale tells a checkout page what currency and language to show.
// It is public: the buyer's browser calls it, not the store owner.
// GET /api/v1/checkout/:id/locale
func (h *CurrencyHandler) CheckoutLocale(c *gin.Context) {
	ctx := c.Request.Context()
	store, err := h.stores.Lookup(ctx, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	settings, err := h.settings.GetSettings(ctx, store.ID)
	if err != nil {
		writeError(c, err)
		return
	}

	var location *domain.GeoIPResult
	if settings.DetectCountryViaIP {
		location = h.geo.DetectClientCountry(ctx, sessionStore(c, h.sessions), publicClientIP(c))
	}
	display := usecase.ResolveDisplay(settings, location, h.geo.GetCountryDefaults)

	c.JSON(http.StatusOK, response.Success(response.CheckoutLocaleResponse{
		Display:  display,
		Location: location,
		Notice:   display.Converted && settings.ShowConversionNotice,
	}))
}

// GET /api/v1/exchange-rates?base=BRL
func (h *CurrencyHandler) Rates(c *gin.Context) {
	base := c.DefaultQuery("base", "BRL")
	c.JSON(http.StatusOK, response.Success(h.rates.FetchExchangeRates(c.Request.Context(), base)))
}

// Convert never fails on a missing rate: the original amount comes back
// unconverted so the checkout keeps working.
// GET /api/v1/exchange-rates/convert?amount=100&from=BRL&to=USD
func (h *CurrencyHandler) Convert(c *gin.Context) {
	var q request.ConvertQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	if q.Locale == "" {
		q.Locale = "pt-BR"
	}

	amount, err := h.rates.ConvertCurrency(c.Request.Context(), q.Amount, q.From, q.To)
	if err != nil {
		if !errors.Is(err, domain.ErrRateUnavailable) {
			writeError(c, err)
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusOK, response.Success(response.ConversionResponse{
			Amount:    q.Amount,
			Currency:  strings.ToUpper(q.From),
			Formatted: h.rates.FormatCurrency(q.Amount, q.From, q.Locale),
		}))
		return
	}

	c.JSON(http.StatusOK, response.Success(response.ConversionResponse{
		Amount:    amount,
		Currency:  strings.ToUpper(q.To),
		Formatted: h.rates.FormatCurrency(amount, q.To, q.Locale),
		Converted: !strings.EqualFold(q.From, q.To),
	}))
}

// GET /api/v1/geoip
func (h *CurrencyHandler) DetectCountry(c *gin.Context) {
	location := h.geo.DetectClientCountry(c.Request.Context(), sessionStore(c, h.sessions), publicClientIP(c))
	c.JSON(http.StatusOK, response.Success(response.GeoIPResponse{Location: location}))
}

// GET /api/v1/geoip/countries/:code
func (h *CurrencyHandler) CountryDefaults(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(h.geo.GetCountryDefaults(c.Param("code"))))
}

func sessionStore(c *gin.Context, sessions domain.KeyValueStore) domain.KeyValueStore {
	id := strings.TrimSpace(c.GetHeader(HeaderSessionID))
	if id == "" || sessions == nil {
		return nil
	}
	return kvstore.WithPrefix(sessions, "session:"+id)
}

// publicClientIP returns "" for private or loopback peers so the service
// falls back to the echo endpoint, as in local development.
func publicClientIP(c *gin.Context) string {
	addr, err := netip.ParseAddr(c.ClientIP())
	if err != nil || addr.IsLoopback() || addr.IsPrivate() || addr.IsUnspecified() {
		return ""
	}
	return addr.String()
}
