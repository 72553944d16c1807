package domain

import (
	"context"
	"time"
)

type CurrencySettings struct {
	DetectCountryViaIP             bool      `json:"detect_country_via_ip"`
	ConvertCurrencyAutomatically   bool      `json:"convert_currency_automatically"`
	TranslateLanguageAutomatically bool      `json:"translate_language_automatically"`
	ShowConversionNotice           bool      `json:"show_conversion_notice"`
	FixedCurrency                  string    `json:"fixed_currency"`
	FixedLanguage                  string    `json:"fixed_language"`
	SupportsMultipleCurrencies     bool      `json:"supports_multiple_currencies"`
	UpdatedAt                      time.Time `json:"updated_at"`
}

func DefaultCurrencySettings(now time.Time) CurrencySettings {
	return CurrencySettings{
		DetectCountryViaIP:             false,
		ConvertCurrencyAutomatically:   false,
		TranslateLanguageAutomatically: false,
		ShowConversionNotice:           true,
		FixedCurrency:                  "BRL",
		FixedLanguage:                  "pt-BR",
		SupportsMultipleCurrencies:     false,
		UpdatedAt:                      now,
	}
}

type ExchangeRates struct {
	Base      string             `json:"base"`
	Rates     map[string]float64 `json:"rates"`
	FetchedAt time.Time          `json:"fetched_at"`
	Source    string             `json:"source"`
}

// Rate returns the multiplier from Base into code.
func (r ExchangeRates) Rate(code string) (float64, bool) {
	rate, ok := r.Rates[code]
	return rate, ok
}

type ExchangeRateProvider interface {
	GetRates(ctx context.Context, base string) (map[string]float64, error)
	GetName() string
}

// GatewayCapability reports whether the active payment gateway settles in
// more than one currency.
type GatewayCapability interface {
	SupportsMultipleCurrencies(ctx context.Context) bool
}

type DisplayLocale struct {
	Currency  string `json:"currency"`
	Language  string `json:"language"`
	Converted bool   `json:"converted"`
}
