// Package rope implements a Verlet rope: a single open chain of point masses held
// together by distance constraints and pushed out of circle and box colliders.
//
// The engine is split the same way every step: a collision snapshot is captured
// from a Backend at a fixed sub-rate, then each fixed step integrates the nodes and
// runs the configured number of interleaved constraint and collision passes against
// that snapshot. Nothing in this package reads the wall clock.
package rope

import "github.com/go-gl/mathgl/mgl64"

// Nodes is the rope's point-mass state stored as parallel arrays.
// The index of a node is its identity for the life of the buffer.
//
// Accel and Friction are scratch values. They are consumed and zeroed by Integrate
// and only carry meaning between a collision pass and the next integration.
type Nodes struct {
	Pos      []mgl64.Vec2
	Prev     []mgl64.Vec2
	Accel    []mgl64.Vec2
	Friction []float64
}

// NewNodes lays out count nodes straight down from origin, spacing apart.
// Every node starts at rest (Prev equals Pos).
func NewNodes(count int, origin mgl64.Vec2, spacing float64) *Nodes {
	n := allocNodes(count)
	pos := origin
	for i := 0; i < count; i++ {
		n.Pos[i] = pos
		n.Prev[i] = pos
		pos[1] -= spacing
	}
	return n
}

func allocNodes(count int) *Nodes {
	return &Nodes{
		Pos:      make([]mgl64.Vec2, count),
		Prev:     make([]mgl64.Vec2, count),
		Accel:    make([]mgl64.Vec2, count),
		Friction: make([]float64, count),
	}
}

// Len returns the number of nodes.
func (n *Nodes) Len() int {
	return len(n.Pos)
}

// CopyFrom overwrites n with the contents of src. Both buffers must have the same length.
func (n *Nodes) CopyFrom(src *Nodes) {
	copy(n.Pos, src.Pos)
	copy(n.Prev, src.Prev)
	copy(n.Accel, src.Accel)
	copy(n.Friction, src.Friction)
}
