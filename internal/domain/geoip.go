package domain

import "context"

type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type GeoIPResult struct {
	IP             string     `json:"ip"`
	CountryCode    string     `json:"country_code"`
	CountryName    string     `json:"country_name"`
	CurrencyCode   string     `json:"currency_code"`
	CurrencySymbol string     `json:"currency_symbol"`
	Languages      []Language `json:"languages"`
}

type CountryDefaults struct {
	Currency string `json:"currency" yaml:"currency"`
	Language string `json:"language" yaml:"language"`
}

type IPEchoClient interface {
	OwnIP(ctx context.Context) (string, error)
}

// GeoLocation is the raw answer of a geolocation-by-IP endpoint.
type GeoLocation struct {
	IP          string
	CountryCode string
	CountryName string
	Currency    string
	Languages   []string
}

type GeoLocator interface {
	Locate(ctx context.Context, ip string) (*GeoLocation, error)
}
