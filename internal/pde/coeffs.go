package pde

// coefficients holds the three Crank-Nicolson diagonal weight vectors over
// the interior nodes i = 1..spaceSteps-1. Index k corresponds to interior
// node i = k+1. The Black-Scholes operator is expressed in the uniform-grid
// index variable, so the weights depend on i rather than on price.
//
// Rate and volatility are constant, which makes the weights
// time-homogeneous: they are computed once per pricing call and reused for
// every backward step.
type coefficients struct {
	alpha []float64 // sub-diagonal weight
	beta  []float64 // main-diagonal weight
	gamma []float64 // super-diagonal weight
}

// newCoefficients derives the interior-node weights for time step dt:
//
//	alpha_i = 0.25*dt*(sigma^2*i^2 - r*i)
//	beta_i  = -0.5*dt*(sigma^2*i^2 + r)
//	gamma_i = 0.25*dt*(sigma^2*i^2 + r*i)
func newCoefficients(rate, vol, dt float64, spaceSteps int) coefficients {
	n := spaceSteps - 1
	c := coefficients{
		alpha: make([]float64, n),
		beta:  make([]float64, n),
		gamma: make([]float64, n),
	}
	for k := 0; k < n; k++ {
		i := float64(k + 1)
		v2i2 := vol * vol * i * i
		c.alpha[k] = 0.25 * dt * (v2i2 - rate*i)
		c.beta[k] = -0.5 * dt * (v2i2 + rate)
		c.gamma[k] = 0.25 * dt * (v2i2 + rate*i)
	}
	return c
}
