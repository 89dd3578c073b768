package pde

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// implicitSystem is the banded representation of the implicit Crank-Nicolson
// matrix A over the interior nodes:
//
//	main diagonal  1 - beta_i
//	sub-diagonal     -alpha_i
//	super-diagonal   -gamma_i
//
// The matrix is assembled once per pricing call and solved once per time
// step with gonum's tridiagonal solver, keeping each step O(N_S) instead of
// the O(N_S^2) a dense solve would cost. Scratch vectors are owned by the
// pricing call that created the system, so concurrent calls never share
// state.
type implicitSystem struct {
	n   int
	a   *mat.Tridiag
	rhs *mat.VecDense
	sol *mat.VecDense
}

func newImplicitSystem(c coefficients) *implicitSystem {
	n := len(c.beta)
	d := make([]float64, n)
	dl := make([]float64, n-1)
	du := make([]float64, n-1)
	for k := 0; k < n; k++ {
		d[k] = 1 - c.beta[k]
	}
	for k := 0; k < n-1; k++ {
		dl[k] = -c.alpha[k+1] // row k+1, column k
		du[k] = -c.gamma[k]   // row k, column k+1
	}
	return &implicitSystem{
		n:   n,
		a:   mat.NewTridiag(n, dl, d, du),
		rhs: mat.NewVecDense(n, nil),
		sol: mat.NewVecDense(n, nil),
	}
}

// solve computes A*x = rhs and returns the interior slice x. The returned
// slice aliases internal scratch storage and is only valid until the next
// call.
func (s *implicitSystem) solve(rhs []float64) ([]float64, error) {
	copy(s.rhs.RawVector().Data, rhs)
	if err := s.a.SolveVecTo(s.sol, false, s.rhs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingularSystem, err)
	}
	return s.sol.RawVector().Data, nil
}
