package scenes

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/vovakirdan/tui-rope/internal/collision"
	"github.com/vovakirdan/tui-rope/internal/config"
	"github.com/vovakirdan/tui-rope/internal/registry"
)

// File is a scene described by a YAML scene file.
type File struct {
	base
	spec config.SceneFile
}

// FromFile wraps a validated scene file.
func FromFile(sf config.SceneFile) *File {
	return &File{
		base: base{id: sf.Name, title: sf.Name, desc: sf.Description},
		spec: sf,
	}
}

// Build adds the file's bodies and registers the ones with motion as kinematic.
func (f *File) Build(w *collision.World, _ int64) (registry.Layout, error) {
	f.movers = f.movers[:0]

	for i, spec := range f.spec.Bodies {
		b := bodyFromSpec(spec)
		id, err := w.Add(b)
		if err != nil {
			return registry.Layout{}, fmt.Errorf("body %d: %w", i, err)
		}
		if m := spec.Motion; m != nil {
			f.movers = append(f.movers, mover{
				id:     id,
				base:   b.Position,
				rot:    b.Rotation,
				amp:    mgl64.Vec2{m.DX, m.DY},
				period: m.Period,
				spin:   mgl64.DegToRad(m.Spin),
			})
		}
	}

	return registry.Layout{
		Origin: mgl64.Vec2{f.spec.OriginX, f.spec.OriginY},
		Pin:    f.spec.Pinned,
		Nodes:  f.spec.Nodes,
	}, nil
}

func bodyFromSpec(s config.BodySpec) collision.Body {
	pos := mgl64.Vec2{s.X, s.Y}

	var b collision.Body
	if s.Shape == "circle" {
		b = collision.Circle(pos, s.Radius)
	} else {
		b = collision.Box(pos, mgl64.Vec2{s.Width, s.Height}, mgl64.DegToRad(s.Rotation))
	}
	if s.ScaleX > 0 {
		b.Scale[0] = s.ScaleX
	}
	if s.ScaleY > 0 {
		b.Scale[1] = s.ScaleY
	}
	return b
}

// IsSceneFile reports whether name looks like a path to a scene file rather than
// a registered scene id.
func IsSceneFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

// Resolve returns the registered scene called name, or loads it from disk when
// name is a YAML path.
func Resolve(name string) (registry.Scene, error) {
	if !IsSceneFile(name) {
		return registry.Create(name)
	}
	if _, err := os.Stat(name); err != nil {
		return nil, fmt.Errorf("scene file: %w", err)
	}
	sf, err := config.LoadSceneFile(name)
	if err != nil {
		return nil, err
	}
	return FromFile(sf), nil
}
