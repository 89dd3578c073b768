package pricing

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/montanaflynn/stats"
)

// MonteCarloPricer simulates geometric Brownian motion paths and prices
// European-exercise payoffs off them. Unlike the deterministic pricers, the
// result depends on the random source, so the seed is part of the
// configuration: identical seeds reproduce identical prices.
type MonteCarloPricer struct {
	Spot     float64
	Strike   float64
	Rate     float64
	Vol      float64
	Maturity float64

	Paths int   // number of simulated paths
	Steps int   // time steps per path
	Seed  int64 // random seed, fixed for reproducibility

	rng *rand.Rand
}

// NewMonteCarloPricer builds a seeded pricer with the given resolution.
func NewMonteCarloPricer(spot, strike, rate, vol, maturity float64, paths, steps int, seed int64) (*MonteCarloPricer, error) {
	if paths < 2 {
		return nil, fmt.Errorf("monte carlo needs at least 2 paths, got %d", paths)
	}
	if steps < 1 {
		return nil, fmt.Errorf("monte carlo needs at least 1 step per path, got %d", steps)
	}
	if strike <= 0 {
		return nil, fmt.Errorf("strike must be positive, got %f", strike)
	}
	if vol < 0 || maturity < 0 {
		return nil, fmt.Errorf("volatility and maturity must be non-negative")
	}
	return &MonteCarloPricer{
		Spot:     spot,
		Strike:   strike,
		Rate:     rate,
		Vol:      vol,
		Maturity: maturity,
		Paths:    paths,
		Steps:    steps,
		Seed:     seed,
		rng:      rand.New(rand.NewSource(seed)),
	}, nil
}

// PriceEuropean returns the discounted mean payoff on the terminal prices.
func (mc *MonteCarloPricer) PriceEuropean(isCall bool) (float64, error) {
	payoffs := mc.simulatePayoffs(isCall, false)
	return stats.Mean(payoffs)
}

// PriceAsian returns the discounted mean payoff on the arithmetic path
// average instead of the terminal price.
func (mc *MonteCarloPricer) PriceAsian(isCall bool) (float64, error) {
	payoffs := mc.simulatePayoffs(isCall, true)
	return stats.Mean(payoffs)
}

// PriceWithConfidence returns the European price together with the 95%
// confidence half-width derived from the sample standard deviation.
func (mc *MonteCarloPricer) PriceWithConfidence(isCall bool) (price, halfWidth float64, err error) {
	payoffs := mc.simulatePayoffs(isCall, false)

	price, err = stats.Mean(payoffs)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to calculate mean payoff: %w", err)
	}
	sd, err := stats.StandardDeviation(payoffs)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to calculate payoff standard deviation: %w", err)
	}

	z := NormInv(0.975)
	halfWidth = z * sd / math.Sqrt(float64(mc.Paths))
	return price, halfWidth, nil
}

// simulatePayoffs walks each GBM path step by step and returns the
// discounted payoff per path. With average set, the payoff is taken on the
// arithmetic mean of the path instead of its terminal value.
func (mc *MonteCarloPricer) simulatePayoffs(isCall, average bool) []float64 {
	dt := mc.Maturity / float64(mc.Steps)
	drift := (mc.Rate - 0.5*mc.Vol*mc.Vol) * dt
	diffusion := mc.Vol * math.Sqrt(dt)
	discount := math.Exp(-mc.Rate * mc.Maturity)

	payoffs := make([]float64, mc.Paths)
	for i := range payoffs {
		s := mc.Spot
		sum := s
		for t := 0; t < mc.Steps; t++ {
			s *= math.Exp(drift + diffusion*mc.rng.NormFloat64())
			sum += s
		}

		ref := s
		if average {
			ref = sum / float64(mc.Steps+1)
		}

		payoff := math.Max(ref-mc.Strike, 0)
		if !isCall {
			payoff = math.Max(mc.Strike-ref, 0)
		}
		payoffs[i] = discount * payoff
	}
	return payoffs
}
