package pricing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlackScholesReferenceValues(t *testing.T) {
	// S=100 K=100 r=5% sigma=20% T=1
	call := BlackScholesPrice(true, 100, 100, 0.05, 0.2, 1)
	assert.InDelta(t, 10.450583572185565, call, 1e-9)

	put := BlackScholesPrice(false, 100, 100, 0.05, 0.2, 1)
	assert.InDelta(t, 5.573526022256971, put, 1e-9)
}

func TestBlackScholesPutCallParity(t *testing.T) {
	spot, strike, rate, vol, maturity := 105.0, 95.0, 0.03, 0.35, 0.75

	call := BlackScholesPrice(true, spot, strike, rate, vol, maturity)
	put := BlackScholesPrice(false, spot, strike, rate, vol, maturity)

	parity := spot - strike*math.Exp(-rate*maturity)
	assert.InDelta(t, parity, call-put, 1e-10)
}

func TestBlackScholesDegenerateInputs(t *testing.T) {
	// expired: intrinsic
	assert.Equal(t, 10.0, BlackScholesPrice(true, 110, 100, 0.05, 0.2, 0))
	assert.Equal(t, 0.0, BlackScholesPrice(true, 90, 100, 0.05, 0.2, 0))
	assert.Equal(t, 15.0, BlackScholesPrice(false, 85, 100, 0.05, 0.2, -1))

	// zero vol: discounted deterministic payoff
	want := 100 - 100*math.Exp(-0.05)
	assert.InDelta(t, want, BlackScholesPrice(true, 100, 100, 0.05, 0, 1), 1e-12)
	assert.Equal(t, 0.0, BlackScholesPrice(false, 100, 100, 0.05, 0, 1))
}

func TestBlackScholesVega(t *testing.T) {
	vega := BlackScholesVega(100, 100, 0.05, 0.2, 1)
	assert.Greater(t, vega, 0.0)

	assert.Zero(t, BlackScholesVega(100, 100, 0.05, 0.2, 0))
	assert.Zero(t, BlackScholesVega(100, 100, 0.05, 0, 1))
}

func TestImpliedVolRoundTrip(t *testing.T) {
	price := BlackScholesPrice(true, 100, 110, 0.05, 0.25, 0.5)

	vol, err := ImpliedVol(true, 100, 110, 0.05, 0.5, price)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, vol, 1e-4)
}

func TestImpliedVolInvalidExpiry(t *testing.T) {
	_, err := ImpliedVol(true, 100, 100, 0.05, 0, 10)
	require.Error(t, err)
}

func TestNormCDF(t *testing.T) {
	assert.InDelta(t, 0.5, NormCDF(0), 1e-12)
	assert.InDelta(t, 0.9772498680518208, NormCDF(2), 1e-9)
	assert.InDelta(t, 1.0, NormCDF(0)+NormCDF(0), 1e-12)
	assert.InDelta(t, 1.0, NormCDF(1.3)+NormCDF(-1.3), 1e-12)
}

func TestNormInv(t *testing.T) {
	assert.InDelta(t, 1.959964, NormInv(0.975), 1e-4)
	assert.InDelta(t, 0.0, NormInv(0.5), 1e-9)
	assert.InDelta(t, -1.2815515655, NormInv(0.1), 1e-4)

	// NormInv inverts NormCDF across the bulk of the distribution
	for _, x := range []float64{-2.5, -1, -0.25, 0.5, 1.75} {
		assert.InDelta(t, x, NormInv(NormCDF(x)), 1e-6, "x=%f", x)
	}

	assert.Panics(t, func() { NormInv(0) })
	assert.Panics(t, func() { NormInv(1) })
}
