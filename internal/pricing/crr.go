package pricing

import (
	"fmt"
	"math"
)

// BinomialCRRPrice prices a European vanilla option with the
// Cox-Ross-Rubinstein binomial tree.
//
// Parameters:
//   - isCall: true for call option, false for put option
//   - spot, strike, rate, vol, maturity: model parameters (annualized)
//   - steps: number of tree steps
//
// Intermediate overflow at extreme parameters is suppressed: NaN/Inf node
// values are reset to zero during the backward recursion, matching the
// degenerate handling of the finite-difference engine.
func BinomialCRRPrice(isCall bool, spot, strike, rate, vol, maturity float64, steps int) (float64, error) {
	if steps < 1 {
		return 0, fmt.Errorf("binomial tree needs at least 1 step, got %d", steps)
	}
	if strike <= 0 {
		return 0, fmt.Errorf("strike must be positive, got %f", strike)
	}
	if maturity <= 0 || vol <= 0 {
		// same degenerate fallbacks as the closed form
		return BlackScholesPrice(isCall, spot, strike, rate, vol, maturity), nil
	}

	dt := maturity / float64(steps)
	up := math.Exp(vol * math.Sqrt(dt))
	down := 1 / up
	p := (math.Exp(rate*dt) - down) / (up - down)
	disc := math.Exp(-rate * dt)

	// terminal payoffs at all steps+1 nodes
	values := make([]float64, steps+1)
	for j := range values {
		terminal := spot * math.Pow(up, float64(steps-j)) * math.Pow(down, float64(j))
		if isCall {
			values[j] = math.Max(terminal-strike, 0)
		} else {
			values[j] = math.Max(strike-terminal, 0)
		}
	}

	// backward induction with overflow suppression
	for step := steps; step > 0; step-- {
		for j := 0; j < step; j++ {
			values[j] = disc * (p*values[j] + (1-p)*values[j+1])
			if math.IsNaN(values[j]) || math.IsInf(values[j], 0) {
				values[j] = 0
			}
		}
	}

	return values[0], nil
}
