package pde

import "sort"

// interpolate reads the price at spot s off the final time slice by linear
// interpolation against the grid nodes. Spots outside [0, sMax] clamp to the
// nearest boundary value, consistent with linear interpolation semantics at
// the array ends.
func interpolate(grid Grid, v []float64, s float64) float64 {
	nodes := grid.Nodes
	last := len(nodes) - 1
	if s <= nodes[0] {
		return v[0]
	}
	if s >= nodes[last] {
		return v[last]
	}

	// first node >= s; j >= 1 because s > nodes[0]
	j := sort.SearchFloat64s(nodes, s)
	if nodes[j] == s {
		return v[j]
	}
	w := (s - nodes[j-1]) / (nodes[j] - nodes[j-1])
	return v[j-1] + w*(v[j]-v[j-1])
}
