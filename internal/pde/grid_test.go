package pde

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGrid(t *testing.T) {
	grid, err := NewGrid(400, 4)
	require.NoError(t, err)

	assert.Len(t, grid.Nodes, 5)
	assert.Equal(t, 100.0, grid.DS)
	assert.Equal(t, []float64{0, 100, 200, 300, 400}, grid.Nodes)
}

func TestNewGridTopNodeHasNoDrift(t *testing.T) {
	// 1/3-ish spacing accumulates float error when built by repeated addition
	grid, err := NewGrid(1, 3)
	require.NoError(t, err)
	assert.Equal(t, 1.0, grid.Nodes[len(grid.Nodes)-1])
}

func TestNewGridRejectsBadInputs(t *testing.T) {
	_, err := NewGrid(0, 100)
	require.ErrorIs(t, err, ErrInvalidParameter)

	_, err = NewGrid(-10, 100)
	require.ErrorIs(t, err, ErrInvalidParameter)

	_, err = NewGrid(400, 1)
	require.ErrorIs(t, err, ErrInvalidParameter)
}
