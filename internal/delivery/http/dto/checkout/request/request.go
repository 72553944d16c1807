package request

type UpdateStepRequest struct {
	Status string `json:"status" binding:"required"`
}

type CheckAccessRequest struct {
	Action string `json:"action" binding:"required"`
}

type CurrencySettingsRequest struct {
	DetectCountryViaIP             bool   `json:"detect_country_via_ip"`
	ConvertCurrencyAutomatically   bool   `json:"convert_currency_automatically"`
	TranslateLanguageAutomatically bool   `json:"translate_language_automatically"`
	ShowConversionNotice           bool   `json:"show_conversion_notice"`
	FixedCurrency                  string `json:"fixed_currency" binding:"required"`
	FixedLanguage                  string `json:"fixed_language" binding:"required"`
	// Ignored: always taken from the payment gateway.
	SupportsMultipleCurrencies bool `json:"supports_multiple_currencies"`
}

type ConvertQuery struct {
	Amount float64 `form:"amount"`
	From   string  `form:"from" binding:"required"`
	To     string  `form:"to" binding:"required"`
	Locale string  `form:"locale"`
}
