package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/LavaJover/voltz-checkout-service/internal/domain"
	"github.com/LavaJover/voltz-checkout-service/internal/usecase"
)

type RouterDeps struct {
	Stores     *usecase.StoreContexts
	Activation *usecase.ActivationService
	Settings   *usecase.CurrencySettingsService
	Rates      usecase.ExchangeRateService
	GeoIP      *usecase.GeoIPService
	Sessions   domain.KeyValueStore
	Gatherer   prometheus.Gatherer
	Log        *zap.Logger
}

func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}

	binding.EnableDecoderDisallowUnknownFields = true

	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(deps.Log))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	storeHandler := NewStoreHandler(deps.Stores)
	activationHandler := NewActivationHandler(deps.Stores, deps.Activation)
	currencyHandler := NewCurrencyHandler(deps.Stores, deps.Settings, deps.Rates, deps.GeoIP, deps.Sessions)

	api := r.Group("/api/v1")

	public := api.Group("")
	public.GET("/checkout/:id/locale", currencyHandler.CheckoutLocale)
	public.GET("/exchange-rates", currencyHandler.Rates)
	public.GET("/exchange-rates/convert", currencyHandler.Convert)
	public.GET("/geoip", currencyHandler.DetectCountry)
	public.GET("/geoip/countries/:code", currencyHandler.CountryDefaults)

	owned := api.Group("/stores", OwnerMiddleware())
	owned.GET("", storeHandler.List)
	owned.POST("", storeHandler.Create)
	owned.GET("/current", storeHandler.Current)
	owned.PUT("/current", storeHandler.SetCurrent)
	owned.PATCH("/:id", storeHandler.Update)
	owned.DELETE("/:id", storeHandler.Delete)

	owned.GET("/:id/activation", activationHandler.Get)
	owned.PUT("/:id/activation/:step", activationHandler.UpdateStep)
	owned.POST("/:id/activation/reset", activationHandler.Reset)
	owned.POST("/:id/activation/check", activationHandler.CheckAccess)

	owned.GET("/:id/currency-settings", currencyHandler.GetSettings)
	owned.PUT("/:id/currency-settings", currencyHandler.UpdateSettings)

	return r
}
