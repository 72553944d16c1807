package domain

import "errors"

var (
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrFetch           = errors.New("fetch failed")
	ErrRateUnavailable = errors.New("exchange rate unavailable")
)
