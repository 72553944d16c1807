package infrastructure

import (
	"context"
	"fmt"
	"strings"
)

// usdRates are units of each currency per 1 USD. They are demo values used
// when the live provider is down.
var usdRates = map[string]float64{
	"USD": 1.0,
	"BRL": 5.0,
	"EUR": 0.92,
	"GBP": 0.79,
	"ARS": 870.0,
	"CLP": 940.0,
	"COP": 3900.0,
	"MXN": 17.0,
	"PEN": 3.7,
	"UYU": 39.0,
	"PYG": 7300.0,
	"CAD": 1.36,
	"JPY": 150.0,
}

// StaticProvider derives cross rates from a fixed USD table.
type StaticProvider struct {
	table map[string]float64
}

func NewStaticProvider() *StaticProvider {
	return &StaticProvider{table: usdRates}
}

func (p *StaticProvider) GetName() string {
	return "static"
}

func (p *StaticProvider) GetRates(ctx context.Context, base string) (map[string]float64, error) {
	base = strings.ToUpper(base)
	perUSD, ok := p.table[base]
	if !ok {
		return nil, fmt.Errorf("static table has no rate for %s", base)
	}
	rates := make(map[string]float64, len(p.table))
	for code, v := range p.table {
		rates[code] = v / perUSD
	}
	return rates, nil
}
