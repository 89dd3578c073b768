package pde

import "fmt"

// Grid is the uniform spatial price axis [0, SMax] used by one pricing call.
// Nodes holds spaceSteps+1 evenly spaced prices; DS is the node spacing.
// A Grid is never shared across pricing calls.
type Grid struct {
	Nodes []float64
	DS    float64
}

// NewGrid builds a uniform grid of spaceSteps+1 nodes from 0 to sMax.
// At least one interior node is required, so spaceSteps must be >= 2.
func NewGrid(sMax float64, spaceSteps int) (Grid, error) {
	if sMax <= 0 {
		return Grid{}, fmt.Errorf("%w: sMax must be positive, got %f", ErrInvalidParameter, sMax)
	}
	if spaceSteps < 2 {
		return Grid{}, fmt.Errorf("%w: need at least 2 spatial steps, got %d", ErrInvalidParameter, spaceSteps)
	}

	ds := sMax / float64(spaceSteps)
	nodes := make([]float64, spaceSteps+1)
	for j := range nodes {
		nodes[j] = float64(j) * ds
	}
	// avoid float drift at the top node
	nodes[spaceSteps] = sMax

	return Grid{Nodes: nodes, DS: ds}, nil
}
