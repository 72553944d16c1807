package geoip

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/LavaJover/voltz-checkout-service/internal/domain"
)

//go:embed data/country_defaults.yaml
var embeddedCountries []byte

var FallbackDefaults = domain.CountryDefaults{Currency: "BRL", Language: "pt-BR"}

// CountryTable maps country codes to checkout defaults. It is read-only after
// loading.
type CountryTable struct {
	entries map[string]domain.CountryDefaults
}

func ParseCountryTable(data []byte) (*CountryTable, error) {
	raw := make(map[string]domain.CountryDefaults)
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse country table: %w", err)
	}
	entries := make(map[string]domain.CountryDefaults, len(raw))
	for code, d := range raw {
		if d.Currency == "" || d.Language == "" {
			return nil, fmt.Errorf("country %s: currency and language are required", code)
		}
		entries[strings.ToUpper(code)] = domain.CountryDefaults{
			Currency: strings.ToUpper(d.Currency),
			Language: d.Language,
		}
	}
	return &CountryTable{entries: entries}, nil
}

// LoadCountryTable reads the table from path, or the built-in one when path
// is empty.
func LoadCountryTable(path string) (*CountryTable, error) {
	if path == "" {
		return ParseCountryTable(embeddedCountries)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read country table: %w", err)
	}
	return ParseCountryTable(data)
}

// Defaults never fails: unknown codes get the Brazilian defaults.
func (t *CountryTable) Defaults(code string) domain.CountryDefaults {
	if t != nil {
		if d, ok := t.entries[strings.ToUpper(strings.TrimSpace(code))]; ok {
			return d
		}
	}
	return FallbackDefaults
}

func (t *CountryTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}
