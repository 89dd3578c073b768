package data

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/contactkeval/gridpricer/internal/logger"
)

// polygonProvider resolves spot prices from the Polygon.io previous-close
// endpoint via raw HTTP.
type polygonProvider struct {
	apiKey    string
	client    *http.Client
	secondary Provider
}

func NewPolygonProvider(apiKey string, secondary Provider) Provider {
	return &polygonProvider{
		apiKey:    apiKey,
		client:    &http.Client{Timeout: 30 * time.Second},
		secondary: secondary,
	}
}

func (polygonProv *polygonProvider) Secondary() Provider {
	return polygonProv.secondary
}

func (polygonProv *polygonProvider) SpotPrice(symbol string) (float64, error) {
	symbol = normalizeSymbol(symbol)
	url := fmt.Sprintf("https://api.polygon.io/v2/aggs/ticker/%s/prev?adjusted=true&apiKey=%s", symbol, polygonProv.apiKey)

	logger.Debugf("fetching previous close for %s", symbol)
	req, _ := http.NewRequest("GET", url, nil)
	resp, err := polygonProv.client.Do(req)
	if err != nil {
		return polygonProv.fallback(symbol, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return polygonProv.fallback(symbol, fmt.Errorf("polygon prev-close status %d", resp.StatusCode))
	}

	var body struct {
		Results []struct {
			Close float64 `json:"c"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return polygonProv.fallback(symbol, err)
	}
	if len(body.Results) == 0 || body.Results[0].Close <= 0 {
		return polygonProv.fallback(symbol, fmt.Errorf("no usable close for %s", symbol))
	}

	logger.Tracef("%s previous close = %.2f", symbol, body.Results[0].Close)
	return body.Results[0].Close, nil
}

func (polygonProv *polygonProvider) fallback(symbol string, cause error) (float64, error) {
	if polygonProv.secondary != nil {
		logger.Debugf("polygon lookup failed (%v), trying secondary", cause)
		return polygonProv.secondary.SpotPrice(symbol)
	}
	return 0, cause
}
