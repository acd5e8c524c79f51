package rope

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Errors returned by the rope engine.
var (
	ErrTooFewNodes  = errors.New("rope: a rope needs at least 2 nodes")
	ErrStepTime     = errors.New("rope: step time must be positive")
	ErrMaxStep      = errors.New("rope: max step must be at least one step")
	ErrIterations   = errors.New("rope: iterations must not be negative")
	ErrCapacity     = errors.New("rope: collider capacity must be positive")
	ErrNodeIndex    = errors.New("rope: node index out of range")
	ErrTickInFlight = errors.New("rope: a tick is in flight")
	ErrClosed       = errors.New("rope: rope is closed")
	ErrWorkerFailed = errors.New("rope: worker failed")
	ErrPoolClosed   = errors.New("rope: worker pool is closed")
)

// Params is everything needed to build a rope. It cannot be changed afterwards.
type Params struct {
	Nodes        int        // Number of nodes, at least 2
	Origin       mgl64.Vec2 // Position of node 0 at spawn; the rest hang below it
	NodeDistance float64    // Rest length between adjacent nodes
	Gravity      mgl64.Vec2

	Iterations int     // Constraint and collision passes per step
	StepTime   float64 // Fixed step in seconds
	MaxStep    float64 // Cap on accumulated time in seconds
	MaxSimMove float64 // Cap on a node's displacement per step, 0 disables it
	Friction   float64 // Velocity damping applied to nodes touching a collider

	CollisionRadius   float64 // Probe radius around each node when snapshotting
	MaxColliders      int     // Colliders tracked by one snapshot
	MaxColliderBuffer int     // Colliders returned by one backend query
	SnapshotInterval  float64 // Seconds between snapshots, 0 snapshots every tick
}

// DefaultParams returns the reference tuning: a 200-node, 20 unit rope with 80
// solver iterations at 100 steps per second.
func DefaultParams() Params {
	return Params{
		Nodes:             200,
		NodeDistance:      0.1,
		Gravity:           mgl64.Vec2{0, -20},
		Iterations:        80,
		StepTime:          0.01,
		MaxStep:           0.1,
		MaxSimMove:        1,
		Friction:          0.5,
		CollisionRadius:   0.5,
		MaxColliders:      32,
		MaxColliderBuffer: 8,
		SnapshotInterval:  0.02,
	}
}

// Validate reports the first parameter that makes a rope impossible to build.
func (p Params) Validate() error {
	switch {
	case p.Nodes < 2:
		return fmt.Errorf("%w: got %d", ErrTooFewNodes, p.Nodes)
	case p.StepTime <= 0:
		return fmt.Errorf("%w: got %g", ErrStepTime, p.StepTime)
	case p.MaxStep < p.StepTime:
		return fmt.Errorf("%w: max step %g < step %g", ErrMaxStep, p.MaxStep, p.StepTime)
	case p.Iterations < 0:
		return fmt.Errorf("%w: got %d", ErrIterations, p.Iterations)
	case p.MaxColliders < 1:
		return fmt.Errorf("%w: max colliders %d", ErrCapacity, p.MaxColliders)
	case p.MaxColliderBuffer < 1:
		return fmt.Errorf("%w: collider buffer %d", ErrCapacity, p.MaxColliderBuffer)
	}
	return nil
}
