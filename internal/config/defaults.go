package config

import (
	_ "embed"
)

//go:embed defaults/rope.yaml
var defaultRopeYAML []byte

// DefaultRopeConfig returns the reference rope configuration.
func DefaultRopeConfig() RopeConfig {
	return RopeConfig{
		Rope: RopeShape{
			Nodes:        200,
			NodeDistance: 0.1,
		},
		Physics: RopePhysics{
			GravityX:   0,
			GravityY:   -20,
			Iterations: 80,
			StepTime:   0.01,
			MaxStep:    0.1,
			MaxSimMove: 1,
			Friction:   0.5,
		},
		Collision: RopeCollision{
			Radius:           0.5,
			MaxColliders:     32,
			BufferSize:       8,
			SnapshotInterval: 0.02,
			CellSize:         2,
		},
		Viewer: ViewerConfig{
			CellAspect:      2,
			MaxRenderPoints: 256,
			StretchWarn:     1.5,
		},
		Quality: QualityNormal,
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultRopeYAML
}
