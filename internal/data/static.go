package data

import "fmt"

// staticProvider serves spot prices from an in-memory table. Useful for
// tests and offline runs.
type staticProvider struct {
	quotes    map[string]float64
	secondary Provider
}

// NewStaticProvider builds a provider over the given symbol->price table,
// consulting secondary for symbols the table does not cover. A nil table
// yields a provider that only delegates to its secondary.
func NewStaticProvider(quotes map[string]float64, secondary Provider) Provider {
	return &staticProvider{quotes: quotes, secondary: secondary}
}

func (staticProv *staticProvider) Secondary() Provider {
	return staticProv.secondary
}

func (staticProv *staticProvider) SpotPrice(symbol string) (float64, error) {
	if px, ok := staticProv.quotes[normalizeSymbol(symbol)]; ok {
		return px, nil
	}
	if staticProv.secondary != nil {
		return staticProv.secondary.SpotPrice(symbol)
	}
	return 0, fmt.Errorf("no quote for %s in static provider", symbol)
}
