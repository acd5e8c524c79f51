// Package config provides YAML-based rope configuration loading, scene files and
// quality presets.
package config

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/vovakirdan/tui-rope/internal/rope"
)

// ErrInvalidConfig is returned by Validate for out-of-range settings.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// RopeConfig contains everything needed to build and show a rope.
type RopeConfig struct {
	Rope      RopeShape     `yaml:"rope"`
	Physics   RopePhysics   `yaml:"physics"`
	Collision RopeCollision `yaml:"collision"`
	Viewer    ViewerConfig  `yaml:"viewer"`
	Quality   QualityPreset `yaml:"quality"`
}

// RopeShape defines the chain itself.
type RopeShape struct {
	Nodes        int     `yaml:"nodes"`
	NodeDistance float64 `yaml:"node_distance"`
}

// RopePhysics defines integration and solver parameters.
type RopePhysics struct {
	GravityX   float64 `yaml:"gravity_x"`
	GravityY   float64 `yaml:"gravity_y"`
	Iterations int     `yaml:"iterations"`
	StepTime   float64 `yaml:"step_time"`    // Seconds per fixed step
	MaxStep    float64 `yaml:"max_step"`     // Cap on accumulated time
	MaxSimMove float64 `yaml:"max_sim_move"` // Cap on per-step displacement, 0 = off
	Friction   float64 `yaml:"friction"`
}

// RopeCollision defines the snapshot and collision world parameters.
type RopeCollision struct {
	Radius           float64 `yaml:"radius"`
	MaxColliders     int     `yaml:"max_colliders"`
	BufferSize       int     `yaml:"buffer_size"`
	SnapshotInterval float64 `yaml:"snapshot_interval"`
	CellSize         float64 `yaml:"cell_size"` // Spatial hash cell edge
}

// ViewerConfig defines how the terminal viewer draws the world.
type ViewerConfig struct {
	CellAspect      float64 `yaml:"cell_aspect"`       // Terminal cell height over width
	MaxRenderPoints int     `yaml:"max_render_points"` // Nodes drawn at most
	StretchWarn     float64 `yaml:"stretch_warn"`      // Stretch factor drawn as over-stretched
}

// Params converts the configuration into engine parameters with node 0 at origin.
func (c RopeConfig) Params(origin mgl64.Vec2) rope.Params {
	return rope.Params{
		Nodes:             c.Rope.Nodes,
		Origin:            origin,
		NodeDistance:      c.Rope.NodeDistance,
		Gravity:           mgl64.Vec2{c.Physics.GravityX, c.Physics.GravityY},
		Iterations:        c.Physics.Iterations,
		StepTime:          c.Physics.StepTime,
		MaxStep:           c.Physics.MaxStep,
		MaxSimMove:        c.Physics.MaxSimMove,
		Friction:          c.Physics.Friction,
		CollisionRadius:   c.Collision.Radius,
		MaxColliders:      c.Collision.MaxColliders,
		MaxColliderBuffer: c.Collision.BufferSize,
		SnapshotInterval:  c.Collision.SnapshotInterval,
	}
}

// Validate checks the configuration, including everything the engine would reject.
func (c RopeConfig) Validate() error {
	if err := c.Params(mgl64.Vec2{}).Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	switch {
	case c.Rope.NodeDistance <= 0:
		return fmt.Errorf("%w: node_distance must be positive, got %g", ErrInvalidConfig, c.Rope.NodeDistance)
	case c.Physics.Friction < 0 || c.Physics.Friction > 1:
		return fmt.Errorf("%w: friction must be in [0, 1], got %g", ErrInvalidConfig, c.Physics.Friction)
	case c.Collision.Radius < 0:
		return fmt.Errorf("%w: collision radius must not be negative, got %g", ErrInvalidConfig, c.Collision.Radius)
	case c.Viewer.CellAspect <= 0:
		return fmt.Errorf("%w: cell_aspect must be positive, got %g", ErrInvalidConfig, c.Viewer.CellAspect)
	case c.Viewer.MaxRenderPoints < 2:
		return fmt.Errorf("%w: max_render_points must be at least 2, got %d", ErrInvalidConfig, c.Viewer.MaxRenderPoints)
	}
	if _, err := ParseQuality(string(c.Quality)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
