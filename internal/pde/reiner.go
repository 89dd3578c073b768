package pde

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// DownAndOutCallAnalytic prices a down-and-out European call with the
// Reiner-Rubinstein closed form (no rebate term). It is independent of the
// grid and serves as the analytic oracle the finite-difference barrier
// solver converges to.
//
// The formula assumes the contract is alive at inception, so the barrier
// must satisfy 0 < barrier < spot; it also requires positive volatility and
// maturity. Violations return ErrInvalidParameter.
//
// The price is the vanilla call value minus a reflection term scaled by
// (B/S0)^(2*mu), with mu = (r + sigma^2/2) / sigma^2.
func DownAndOutCallAnalytic(spot, strike, barrier, rate, maturity, vol float64) (float64, error) {
	if barrier <= 0 || barrier >= spot {
		return 0, fmt.Errorf("%w: barrier must satisfy 0 < B < spot, got B=%f spot=%f", ErrInvalidParameter, barrier, spot)
	}
	if strike <= 0 {
		return 0, fmt.Errorf("%w: strike must be positive, got %f", ErrInvalidParameter, strike)
	}
	if vol <= 0 {
		return 0, fmt.Errorf("%w: volatility must be positive, got %f", ErrInvalidParameter, vol)
	}
	if maturity <= 0 {
		return 0, fmt.Errorf("%w: maturity must be positive, got %f", ErrInvalidParameter, maturity)
	}

	norm := distuv.UnitNormal

	mu := (rate + 0.5*vol*vol) / (vol * vol)
	sigT := vol * math.Sqrt(maturity)
	disc := strike * math.Exp(-rate*maturity)

	d1 := math.Log(spot/strike)/sigT + mu*sigT
	d2 := d1 - sigT
	y1 := math.Log(barrier*barrier/(spot*strike))/sigT + mu*sigT
	y2 := y1 - sigT

	vanilla := spot*norm.CDF(d1) - disc*norm.CDF(d2)
	reflection := spot*math.Pow(barrier/spot, 2*mu)*norm.CDF(y1) -
		disc*math.Pow(barrier/spot, 2*mu-2)*norm.CDF(y2)

	return vanilla - reflection, nil
}
