package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactkeval/gridpricer/internal/pricing"
)

func doRequest(t *testing.T, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	New().Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	rec := doRequest(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestPriceEndpointVanilla(t *testing.T) {
	body := []byte(`{
		"kind": "call",
		"spot": 100, "strike": 100, "rate": 0.05, "vol": 0.2, "maturity": 1,
		"grid": {"space_steps": 200, "time_steps": 200}
	}`)

	rec := doRequest(t, http.MethodPost, "/api/v1/price", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		RequestID      string  `json:"request_id"`
		Price          float64 `json:"price"`
		SanitizedNodes int     `json:"sanitized_nodes"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.NotEmpty(t, resp.RequestID)
	assert.Zero(t, resp.SanitizedNodes)

	closed := pricing.BlackScholesPrice(true, 100, 100, 0.05, 0.2, 1)
	assert.InDelta(t, closed, resp.Price, 5e-2)
}

func TestPriceEndpointBarrier(t *testing.T) {
	body := []byte(`{
		"spot": 100, "strike": 100, "rate": 0.05, "vol": 0.2, "maturity": 1,
		"barrier": {"level": 90, "type": "down-and-out"},
		"grid": {"space_steps": 200, "time_steps": 200}
	}`)

	rec := doRequest(t, http.MethodPost, "/api/v1/price", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Price float64 `json:"price"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	vanilla := pricing.BlackScholesPrice(true, 100, 100, 0.05, 0.2, 1)
	assert.Greater(t, resp.Price, 0.0)
	assert.Less(t, resp.Price, vanilla)
}

func TestPriceEndpointRejectsInvalidParameters(t *testing.T) {
	body := []byte(`{"spot": 100, "strike": -5, "rate": 0.05, "vol": 0.2, "maturity": 1}`)
	rec := doRequest(t, http.MethodPost, "/api/v1/price", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPriceEndpointRejectsMalformedBody(t *testing.T) {
	rec := doRequest(t, http.MethodPost, "/api/v1/price", []byte("{not json"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPriceEndpointMethodNotAllowed(t *testing.T) {
	rec := doRequest(t, http.MethodGet, "/api/v1/price", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
