package pricing

import (
	"fmt"
	"math"
)

const sqrt2Pi = 2.5066282746310002

// BlackScholesPrice calculates the price of a European option using the
// Black-Scholes model.
//
// Parameters:
//   - isCall: true for call option, false for put option
//   - spot: price of the underlying asset
//   - strike: strike price of the option
//   - rate: risk-free interest rate (annual)
//   - vol: volatility of the underlying asset (annual, as a decimal)
//   - maturity: time to expiry in years
//
// Degenerate inputs are defined results, not failures: zero or negative
// maturity collapses to intrinsic value, zero volatility to the discounted
// deterministic payoff.
func BlackScholesPrice(isCall bool, spot, strike, rate, vol, maturity float64) float64 {
	if maturity <= 0 {
		if isCall {
			return math.Max(spot-strike, 0)
		}
		return math.Max(strike-spot, 0)
	}
	if vol <= 0 {
		disc := strike * math.Exp(-rate*maturity)
		if isCall {
			return math.Max(spot-disc, 0)
		}
		return math.Max(disc-spot, 0)
	}

	d1 := (math.Log(spot/strike) + (rate+0.5*vol*vol)*maturity) / (vol * math.Sqrt(maturity))
	d2 := d1 - vol*math.Sqrt(maturity)

	if isCall {
		return spot*NormCDF(d1) - strike*math.Exp(-rate*maturity)*NormCDF(d2)
	}
	return strike*math.Exp(-rate*maturity)*NormCDF(-d2) - spot*NormCDF(-d1)
}

// BlackScholesVega calculates the vega of a European option: the sensitivity
// of the option price to changes in volatility. Returns 0 if maturity or
// volatility is non-positive.
func BlackScholesVega(spot, strike, rate, vol, maturity float64) float64 {
	if maturity <= 0 || vol <= 0 {
		return 0
	}

	d1 := (math.Log(spot/strike) + (rate+0.5*vol*vol)*maturity) / (vol * math.Sqrt(maturity))
	return spot * NormPDF(d1) * math.Sqrt(maturity)
}

// ImpliedVol solves for the volatility that makes the Black-Scholes price
// match marketPrice, using Newton-Raphson with a vega guardrail. Returns an
// error if the expiry is invalid or the iteration fails to converge.
func ImpliedVol(isCall bool, spot, strike, rate, maturity, marketPrice float64) (float64, error) {
	if maturity <= 0 {
		return 0, fmt.Errorf("invalid expiry")
	}

	// Initial guess: 20%
	vol := 0.20

	const (
		maxIter = 100
		tol     = 1e-6
	)

	for i := 0; i < maxIter; i++ {
		price := BlackScholesPrice(isCall, spot, strike, rate, vol, maturity)
		diff := price - marketPrice

		if math.Abs(diff) < tol {
			return vol, nil
		}

		vega := BlackScholesVega(spot, strike, rate, vol, maturity)
		if vega < 1e-8 {
			break
		}

		vol -= diff / vega

		// Guardrails
		if vol <= 0 {
			vol = 1e-4
		}
		if vol > 5 {
			vol = 5
		}
	}

	return 0, fmt.Errorf("implied vol did not converge")
}

// NormPDF calculates the probability density function of the standard
// normal distribution at x.
func NormPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / sqrt2Pi
}

// NormCDF computes the cumulative distribution function of the standard
// normal distribution at x using the error function.
func NormCDF(x float64) float64 {
	return 0.5 * (1.0 + math.Erf(x/math.Sqrt2))
}

// NormInv computes the inverse of the standard normal cumulative
// distribution function (quantile function) via a rational approximation
// (Wichura-style), accurate across the valid range.
//
// Panics if p is not strictly between 0 and 1.
//
// Example:
//
//	NormInv(0.975) // approximately 1.96 (95% confidence level)
func NormInv(p float64) float64 {
	if p <= 0 || p >= 1 {
		panic("NormInv: p must be in (0,1)")
	}

	// Coefficients
	a := []float64{
		-3.969683028665376e+01,
		2.209460984245205e+02,
		-2.759285104469687e+02,
		1.383577518672690e+02,
		-3.066479806614716e+01,
		2.506628277459239e+00,
	}

	b := []float64{
		-5.447609879822406e+01,
		1.615858368580409e+02,
		-1.556989798598866e+02,
		6.680131188771972e+01,
		-1.328068155288572e+01,
	}

	c := []float64{
		-7.784894002430293e-03,
		-3.223964580411365e-01,
		-2.400758277161838e+00,
		-2.549732539343734e+00,
		4.374664141464968e+00,
		2.938163982698783e+00,
	}

	d := []float64{
		7.784695709041462e-03,
		3.224671290700398e-01,
		2.445134137142996e+00,
		3.754408661907416e+00,
	}

	plow := 0.02425
	phigh := 1 - plow

	var q, r float64

	if p < plow {
		q = math.Sqrt(-2 * math.Log(p))
		return (((((c[0]*q+c[1])*q+c[2])*q+c[3])*q+c[4])*q + c[5]) /
			((((d[0]*q+d[1])*q+d[2])*q+d[3])*q + 1)
	}

	if p > phigh {
		q = math.Sqrt(-2 * math.Log(1-p))
		return -(((((c[0]*q+c[1])*q+c[2])*q+c[3])*q+c[4])*q + c[5]) /
			((((d[0]*q+d[1])*q+d[2])*q+d[3])*q + 1)
	}

	q = p - 0.5
	r = q * q
	return (((((a[0]*r+a[1])*r+a[2])*r+a[3])*r+a[4])*r + a[5]) * q /
		(((((b[0]*r+b[1])*r+b[2])*r+b[3])*r+b[4])*r + 1)
}
