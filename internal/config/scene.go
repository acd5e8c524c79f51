package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// SceneFile describes a scene loaded from YAML instead of registered in code.
type SceneFile struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	OriginX     float64    `yaml:"origin_x"` // Where node 0 spawns
	OriginY     float64    `yaml:"origin_y"`
	Pinned      bool       `yaml:"pinned"` // Pin node 0 at the origin on start
	Nodes       int        `yaml:"nodes"`  // Overrides rope.nodes when positive
	Bodies      []BodySpec `yaml:"bodies"`
}

// BodySpec is one obstacle in a scene file.
type BodySpec struct {
	Shape    string      `yaml:"shape"` // "circle" or "box"
	X        float64     `yaml:"x"`
	Y        float64     `yaml:"y"`
	Radius   float64     `yaml:"radius"`
	Width    float64     `yaml:"width"`
	Height   float64     `yaml:"height"`
	Rotation float64     `yaml:"rotation"` // Degrees
	ScaleX   float64     `yaml:"scale_x"`  // 0 means 1
	ScaleY   float64     `yaml:"scale_y"`
	Motion   *MotionSpec `yaml:"motion"`
}

// MotionSpec makes a body kinematic: it oscillates around its spawn point and spins.
type MotionSpec struct {
	DX     float64 `yaml:"dx"`     // Amplitude along x
	DY     float64 `yaml:"dy"`     // Amplitude along y
	Period float64 `yaml:"period"` // Seconds per oscillation
	Spin   float64 `yaml:"spin"`   // Degrees per second
}

// LoadSceneFile reads and validates a scene file.
func LoadSceneFile(path string) (SceneFile, error) {
	var sf SceneFile

	data, err := os.ReadFile(path)
	if err != nil {
		return sf, fmt.Errorf("failed to read scene %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return sf, fmt.Errorf("failed to parse scene %s: %w", path, err)
	}
	if err := sf.Validate(); err != nil {
		return sf, fmt.Errorf("scene %s: %w", path, err)
	}
	return sf, nil
}

// Validate checks names, shapes and sizes.
func (sf SceneFile) Validate() error {
	if strings.TrimSpace(sf.Name) == "" {
		return fmt.Errorf("%w: scene needs a name", ErrInvalidConfig)
	}
	if sf.Nodes == 1 || sf.Nodes < 0 {
		return fmt.Errorf("%w: nodes must be 0 or at least 2, got %d", ErrInvalidConfig, sf.Nodes)
	}
	for i, b := range sf.Bodies {
		switch b.Shape {
		case "circle":
			if b.Radius <= 0 {
				return fmt.Errorf("%w: body %d: radius must be positive", ErrInvalidConfig, i)
			}
		case "box":
			if b.Width <= 0 || b.Height <= 0 {
				return fmt.Errorf("%w: body %d: width and height must be positive", ErrInvalidConfig, i)
			}
		default:
			return fmt.Errorf("%w: body %d: unknown shape %q", ErrInvalidConfig, i, b.Shape)
		}
		if b.ScaleX < 0 || b.ScaleY < 0 {
			return fmt.Errorf("%w: body %d: scale must not be negative", ErrInvalidConfig, i)
		}
		if b.Motion != nil && b.Motion.Period < 0 {
			return fmt.Errorf("%w: body %d: motion period must not be negative", ErrInvalidConfig, i)
		}
	}
	return nil
}
