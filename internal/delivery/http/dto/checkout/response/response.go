package response

import (
	"github.com/LavaJover/voltz-checkout-service/internal/domain"
	storedto "github.com/LavaJover/voltz-checkout-service/internal/usecase/dto/store"
)

const (
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeValidation      = "VALIDATION_FAILED"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeConflict        = "CONFLICT"
	ErrCodeUpstream        = "UPSTREAM_UNAVAILABLE"
	ErrCodeRateUnavailable = "RATE_UNAVAILABLE"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

// Envelope wraps every API answer.
type Envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func Success(data any) Envelope {
	return Envelope{Success: true, Data: data}
}

func Error(code, message string) Envelope {
	return Envelope{Error: &ErrorInfo{Code: code, Message: message}}
}

type StoreListResponse struct {
	Stores    []storedto.StoreOutput `json:"stores"`
	CurrentID string                 `json:"current_id,omitempty"`
	Stale     bool                   `json:"stale,omitempty"`
}

type ActivationResponse struct {
	StoreID      string                  `json:"store_id"`
	Steps        []domain.ActivationStep `json:"steps"`
	AllCompleted bool                    `json:"all_completed"`
}

type AccessResponse struct {
	Allowed bool `json:"allowed"`
}

type ConversionResponse struct {
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Formatted string  `json:"formatted"`
	Converted bool    `json:"converted"`
}

type CheckoutLocaleResponse struct {
	Display  domain.DisplayLocale `json:"display"`
	Location *domain.GeoIPResult  `json:"location"`
	Notice   bool                 `json:"notice"`
}

type GeoIPResponse struct {
	Location *domain.GeoIPResult `json:"location"`
}
