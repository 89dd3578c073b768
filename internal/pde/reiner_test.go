package pde

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactkeval/gridpricer/internal/pricing"
)

func TestDownAndOutCallAnalyticReferenceValue(t *testing.T) {
	// S=100 K=100 B=90 r=5% sigma=20% T=1: vanilla 10.4506 minus the
	// reflection term leaves 8.6655
	price, err := DownAndOutCallAnalytic(100, 100, 90, 0.05, 1, 0.2)
	require.NoError(t, err)
	assert.InDelta(t, 8.665472, price, 1e-5)
}

func TestDownAndOutCallAnalyticBounds(t *testing.T) {
	price, err := DownAndOutCallAnalytic(100, 100, 90, 0.05, 1, 0.2)
	require.NoError(t, err)

	vanilla := pricing.BlackScholesPrice(true, 100, 100, 0.05, 0.2, 1)
	assert.Greater(t, price, 0.0)
	assert.Less(t, price, vanilla)
}

func TestDownAndOutCallAnalyticApproachesVanilla(t *testing.T) {
	// a barrier far below the spot almost never knocks
	price, err := DownAndOutCallAnalytic(100, 100, 20, 0.05, 1, 0.2)
	require.NoError(t, err)

	vanilla := pricing.BlackScholesPrice(true, 100, 100, 0.05, 0.2, 1)
	assert.InDelta(t, vanilla, price, 1e-6)
}

func TestDownAndOutCallAnalyticMonotoneInBarrier(t *testing.T) {
	// raising the barrier can only destroy value
	prev := 1e18
	for _, level := range []float64{50, 70, 85, 95, 99} {
		price, err := DownAndOutCallAnalytic(100, 100, level, 0.05, 1, 0.2)
		require.NoError(t, err)
		assert.LessOrEqual(t, price, prev+1e-12, "barrier %f", level)
		prev = price
	}
}

func TestDownAndOutCallAnalyticRejectsBadInputs(t *testing.T) {
	cases := []struct {
		name                                       string
		spot, strike, barrier, rate, maturity, vol float64
	}{
		{"barrier above spot", 100, 100, 110, 0.05, 1, 0.2},
		{"barrier at spot", 100, 100, 100, 0.05, 1, 0.2},
		{"barrier at zero", 100, 100, 0, 0.05, 1, 0.2},
		{"non-positive strike", 100, 0, 90, 0.05, 1, 0.2},
		{"zero vol", 100, 100, 90, 0.05, 1, 0},
		{"zero maturity", 100, 100, 90, 0.05, 0, 0.2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DownAndOutCallAnalytic(tc.spot, tc.strike, tc.barrier, tc.rate, tc.maturity, tc.vol)
			require.ErrorIs(t, err, ErrInvalidParameter)
		})
	}
}
