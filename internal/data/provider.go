// Package data resolves ticker symbols to spot prices so the CLI can price
// contracts on a live underlying instead of an explicit --spot value.
//
// Providers form a fallback chain: each provider may carry a secondary that
// is consulted when the primary cannot answer.
package data

import (
	"os"
	"strings"

	"github.com/contactkeval/gridpricer/internal/logger"
)

// Provider supplies market data.
type Provider interface {
	Secondary() Provider
	SpotPrice(symbol string) (float64, error)
}

// GetProvider picks the best available provider: Polygon when an API key is
// configured, otherwise the static table.
func GetProvider() Provider {
	if apiKey := os.Getenv("POLYGON_API_KEY"); apiKey != "" {
		logger.Infof("polygon provider enabled")
		return NewPolygonProvider(apiKey, NewStaticProvider(nil, nil))
	}
	logger.Infof("static provider enabled")
	return NewStaticProvider(nil, nil)
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
