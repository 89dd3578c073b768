// Package pde prices European vanilla and knock-out barrier options by
// solving the Black-Scholes PDE with a Crank-Nicolson finite-difference
// scheme on a uniform spatial grid, stepped backward from maturity to the
// valuation date.
//
// One parameterized engine covers both contract families: the barrier is an
// optional configuration, enforced at the terminal slice and after every
// backward step. All state (grid, coefficients, value slice) is created per
// call and threaded through the stepping loop explicitly, so independent
// pricing calls may run in parallel with no synchronization.
package pde

import (
	"fmt"
	"math"

	"github.com/contactkeval/gridpricer/internal/logger"
)

// OptionKind selects the payoff.
type OptionKind string

const (
	Call OptionKind = "call"
	Put  OptionKind = "put"
)

// BarrierType selects the knockout direction.
type BarrierType string

const (
	DownAndOut BarrierType = "down-and-out"
	UpAndOut   BarrierType = "up-and-out"
)

// Market holds the economic parameters of one pricing call. Values are
// treated as immutable for the lifetime of the call.
type Market struct {
	Spot     float64 // current underlying price S0
	Strike   float64 // strike K, must be positive
	Rate     float64 // risk-free rate, continuously compounded
	Vol      float64 // annualized volatility, must be non-negative
	Maturity float64 // time to maturity in years
}

// Barrier describes a continuously monitored knock-out level. Rebate is the
// value paid when the option is knocked out (default 0).
type Barrier struct {
	Level  float64
	Type   BarrierType
	Rebate float64
}

// GridSpec configures the discretization.
//
//   - SMax: domain truncation bound; 0 means the 4*strike default, large
//     enough that boundary truncation error is negligible.
//   - SpaceSteps: N_S, spatial resolution. Accuracy improves with N_S at
//     O(N_S) cost per time step.
//   - TimeSteps: N_t, temporal resolution. Accuracy improves with N_t at a
//     total of N_t backward steps.
type GridSpec struct {
	SMax       float64
	SpaceSteps int
	TimeSteps  int
}

// DefaultGridSpec matches the resolution the scheme was calibrated with.
var DefaultGridSpec = GridSpec{SpaceSteps: 400, TimeSteps: 800}

// Result carries the interpolated price plus solver diagnostics.
type Result struct {
	Price float64

	// Sanitized counts grid nodes that produced NaN or Inf during backward
	// induction and were reset to zero. Non-zero values indicate the grid
	// was too coarse for the volatility/rate combination; the price is
	// still returned, flagged as a quality warning by the callers.
	Sanitized int
}

// PriceVanilla prices a European call or put on the finite-difference grid.
func PriceVanilla(mkt Market, kind OptionKind, spec GridSpec) (float64, error) {
	res, err := Solve(mkt, kind, nil, spec)
	if err != nil {
		return 0, err
	}
	warnSanitized(res)
	return res.Price, nil
}

// PriceBarrier prices a European knock-out option on the grid under
// continuous monitoring: the barrier node is a Dirichlet boundary of the
// solve, pinned at the rebate for every time slice, so a contract touched at
// any point before maturity pays the rebate.
func PriceBarrier(mkt Market, kind OptionKind, bar Barrier, spec GridSpec) (float64, error) {
	res, err := Solve(mkt, kind, &bar, spec)
	if err != nil {
		return 0, err
	}
	warnSanitized(res)
	return res.Price, nil
}

func warnSanitized(res *Result) {
	if res.Sanitized > 0 {
		logger.Warnf("pde: sanitized %d unstable grid nodes; refine the grid for this parameter set", res.Sanitized)
	}
}

// Solve runs the Crank-Nicolson backward induction and returns the price at
// the requested spot together with diagnostics. bar may be nil for vanilla
// contracts.
//
// Degenerate inputs short-circuit deterministically rather than failing:
// zero (or negative) maturity collapses to intrinsic value, zero volatility
// to the discounted payoff of the deterministic forward path.
func Solve(mkt Market, kind OptionKind, bar *Barrier, spec GridSpec) (*Result, error) {
	sMax, err := validate(mkt, kind, bar, spec)
	if err != nil {
		return nil, err
	}

	if mkt.Maturity <= 0 {
		return &Result{Price: expiredValue(mkt, kind, bar)}, nil
	}
	if mkt.Vol == 0 {
		return &Result{Price: deterministicValue(mkt, kind, bar)}, nil
	}

	grid, err := NewGrid(sMax, spec.SpaceSteps)
	if err != nil {
		return nil, err
	}

	dt := mkt.Maturity / float64(spec.TimeSteps)
	coef := newCoefficients(mkt.Rate, mkt.Vol, dt, spec.SpaceSteps)

	// With a barrier, only the alive side of the grid is solved: the barrier
	// node becomes the Dirichlet boundary of the implicit system, pinned at
	// the rebate. Solving across the barrier and masking afterwards would be
	// discrete monitoring, biased O(sqrt(dt)) away from the continuously
	// monitored price.
	lo, hi := aliveWindow(grid, bar, spec.SpaceSteps)
	n := hi - lo - 1
	if n < 1 {
		return nil, fmt.Errorf("%w: barrier level %f leaves no interior nodes on a %d-step grid", ErrInvalidParameter, bar.Level, spec.SpaceSteps)
	}
	sys := newImplicitSystem(coefficients{
		alpha: coef.alpha[lo : hi-1],
		beta:  coef.beta[lo : hi-1],
		gamma: coef.gamma[lo : hi-1],
	})

	// Terminal state: payoff at maturity, with knocked nodes at the rebate.
	v := terminalPayoff(grid, mkt.Strike, kind)
	applyBarrier(v, grid, bar)

	rhs := make([]float64, n)
	sanitized := 0

	// Backward induction from m = N_t (maturity) down to m = 0.
	for m := spec.TimeSteps; m > 0; m-- {
		// Remaining time at the new index m-1.
		tau := mkt.Maturity - float64(m-1)*dt
		low, high := boundaryValues(mkt, kind, bar, sMax, tau)

		// Explicit stencil B applied to the old slice. The old boundary
		// values enter through v[lo] and v[hi] here; the new-time Dirichlet
		// values are injected below, scaled by the off-diagonal weight of
		// the first/last interior row.
		for k := 0; k < n; k++ {
			i := lo + k
			rhs[k] = coef.alpha[i]*v[i] + (1+coef.beta[i])*v[i+1] + coef.gamma[i]*v[i+2]
		}
		rhs[0] += coef.alpha[lo] * low
		rhs[n-1] += coef.gamma[hi-2] * high

		interior, err := sys.solve(rhs)
		if err != nil {
			return nil, fmt.Errorf("pde step %d: %w", m, err)
		}
		copy(v[lo+1:hi], interior)
		v[lo] = low
		v[hi] = high

		// Nodes beyond the window never move; re-masking keeps the whole
		// knocked side at the rebate exactly.
		applyBarrier(v, grid, bar)
		sanitized += sanitizeSlice(v)
	}

	return &Result{
		Price:     interpolate(grid, v, mkt.Spot),
		Sanitized: sanitized,
	}, nil
}

func validate(mkt Market, kind OptionKind, bar *Barrier, spec GridSpec) (float64, error) {
	if kind != Call && kind != Put {
		return 0, fmt.Errorf("%w: unknown option kind %q", ErrInvalidParameter, kind)
	}
	if mkt.Strike <= 0 {
		return 0, fmt.Errorf("%w: strike must be positive, got %f", ErrInvalidParameter, mkt.Strike)
	}
	if mkt.Vol < 0 {
		return 0, fmt.Errorf("%w: volatility must be non-negative, got %f", ErrInvalidParameter, mkt.Vol)
	}
	if mkt.Spot < 0 {
		return 0, fmt.Errorf("%w: spot must be non-negative, got %f", ErrInvalidParameter, mkt.Spot)
	}
	if spec.SpaceSteps < 2 {
		return 0, fmt.Errorf("%w: need at least 2 spatial steps, got %d", ErrInvalidParameter, spec.SpaceSteps)
	}
	if spec.TimeSteps < 1 {
		return 0, fmt.Errorf("%w: need at least 1 time step, got %d", ErrInvalidParameter, spec.TimeSteps)
	}

	sMax := spec.SMax
	if sMax == 0 {
		sMax = 4 * mkt.Strike
	}
	if sMax <= 0 {
		return 0, fmt.Errorf("%w: sMax must be positive, got %f", ErrInvalidParameter, sMax)
	}

	if bar != nil {
		if bar.Type != DownAndOut && bar.Type != UpAndOut {
			return 0, fmt.Errorf("%w: unknown barrier type %q", ErrInvalidParameter, bar.Type)
		}
		// The barrier must sit strictly inside (0, sMax) so both the
		// knocked and alive regions of the grid are non-empty.
		if bar.Level <= 0 || bar.Level >= sMax {
			return 0, fmt.Errorf("%w: barrier level %f outside the open domain (0, %f)", ErrInvalidParameter, bar.Level, sMax)
		}
		if bar.Rebate < 0 {
			return 0, fmt.Errorf("%w: rebate must be non-negative, got %f", ErrInvalidParameter, bar.Rebate)
		}
	}

	return sMax, nil
}

func terminalPayoff(grid Grid, strike float64, kind OptionKind) []float64 {
	v := make([]float64, len(grid.Nodes))
	for j, s := range grid.Nodes {
		v[j] = intrinsic(s, strike, kind)
	}
	return v
}

func intrinsic(spot, strike float64, kind OptionKind) float64 {
	if kind == Call {
		return math.Max(spot-strike, 0)
	}
	return math.Max(strike-spot, 0)
}

// boundaryValues returns the Dirichlet values at S=0 and S=sMax for the
// time slice with tau years remaining. A knocked-out boundary is pinned at
// the rebate; the far boundary keeps its vanilla value.
func boundaryValues(mkt Market, kind OptionKind, bar *Barrier, sMax, tau float64) (low, high float64) {
	disc := mkt.Strike * math.Exp(-mkt.Rate*tau)
	if kind == Call {
		low, high = 0, sMax-disc
	} else {
		low, high = disc, 0
	}
	if bar != nil {
		switch bar.Type {
		case DownAndOut:
			low = bar.Rebate
		case UpAndOut:
			high = bar.Rebate
		}
	}
	return low, high
}

// aliveWindow returns the boundary node indices [lo, hi] of the solved
// region. Without a barrier that is the whole grid. With one, the knocked
// side is cut off: the outermost knocked node is the window boundary, so the
// implicit solve never diffuses value across the barrier.
func aliveWindow(grid Grid, bar *Barrier, spaceSteps int) (lo, hi int) {
	lo, hi = 0, spaceSteps
	if bar == nil {
		return lo, hi
	}
	switch bar.Type {
	case DownAndOut:
		for j, s := range grid.Nodes {
			if s <= bar.Level {
				lo = j
			}
		}
	case UpAndOut:
		for j := len(grid.Nodes) - 1; j >= 0; j-- {
			if grid.Nodes[j] >= bar.Level {
				hi = j
			}
		}
	}
	return lo, hi
}

// applyBarrier sets every node on the knocked side of the barrier to the
// rebate, exactly. No-op without a barrier.
func applyBarrier(v []float64, grid Grid, bar *Barrier) {
	if bar == nil {
		return
	}
	for j, s := range grid.Nodes {
		if (bar.Type == DownAndOut && s <= bar.Level) ||
			(bar.Type == UpAndOut && s >= bar.Level) {
			v[j] = bar.Rebate
		}
	}
}

// sanitizeSlice replaces NaN/Inf nodes with zero and returns how many were
// touched. Extreme volatility/rate combinations on coarse grids can blow up
// single nodes; the rest of the grid stays usable.
func sanitizeSlice(v []float64) int {
	count := 0
	for j, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			v[j] = 0
			count++
		}
	}
	return count
}

// expiredValue handles maturity <= 0: the option is worth its intrinsic
// value, or the rebate if the spot already sits on the knocked side.
func expiredValue(mkt Market, kind OptionKind, bar *Barrier) float64 {
	if bar != nil && knocked(mkt.Spot, bar) {
		return bar.Rebate
	}
	return intrinsic(mkt.Spot, mkt.Strike, kind)
}

// deterministicValue handles vol == 0: the underlying follows the forward
// path S0*e^{rt} exactly, so the price is the discounted payoff at the
// deterministic terminal price. The path is monotone, so its extreme over
// [0, T] is at an endpoint; a barrier knocks out iff that extreme crosses it.
func deterministicValue(mkt Market, kind OptionKind, bar *Barrier) float64 {
	forward := mkt.Spot * math.Exp(mkt.Rate*mkt.Maturity)
	if bar != nil {
		pathLow := math.Min(mkt.Spot, forward)
		pathHigh := math.Max(mkt.Spot, forward)
		if (bar.Type == DownAndOut && pathLow <= bar.Level) ||
			(bar.Type == UpAndOut && pathHigh >= bar.Level) {
			return bar.Rebate
		}
	}
	return math.Exp(-mkt.Rate*mkt.Maturity) * intrinsic(forward, mkt.Strike, kind)
}

func knocked(spot float64, bar *Barrier) bool {
	if bar.Type == DownAndOut {
		return spot <= bar.Level
	}
	return spot >= bar.Level
}
