// Package scenes contains the built-in scenes and the adapter for scenes loaded from
// YAML files. Built-in scenes register themselves with the registry in init.
package scenes

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/vovakirdan/tui-rope/internal/collision"
	"github.com/vovakirdan/tui-rope/internal/rope"
)

// mover drives one kinematic body: it oscillates around base along amp and spins at
// a constant rate.
type mover struct {
	id     rope.ColliderID
	base   mgl64.Vec2
	rot    float64 // Rotation at t = 0, radians
	amp    mgl64.Vec2
	period float64 // Seconds per oscillation, 0 disables it
	spin   float64 // Radians per second
}

func (m mover) pose(t float64) (mgl64.Vec2, float64) {
	pos := m.base
	if m.period > 0 {
		pos = pos.Add(m.amp.Mul(math.Sin(2 * math.Pi * t / m.period)))
	}
	return pos, m.rot + m.spin*t
}

// base holds what every scene shares: its listing text and its kinematic bodies.
type base struct {
	id, title, desc string
	movers          []mover
}

func (b *base) ID() string          { return b.id }
func (b *base) Title() string       { return b.title }
func (b *base) Description() string { return b.desc }

// Animate moves every kinematic body to its pose at t.
func (b *base) Animate(w *collision.World, t float64) bool {
	moved := false
	for _, m := range b.movers {
		pos, rot := m.pose(t)
		if err := w.Move(m.id, pos, rot); err != nil {
			// Removed by someone else; nothing to drive.
			continue
		}
		moved = true
	}
	return moved
}

// addAll adds bodies to w in order, stopping at the first invalid one.
func addAll(w *collision.World, bodies ...collision.Body) ([]rope.ColliderID, error) {
	ids := make([]rope.ColliderID, 0, len(bodies))
	for _, b := range bodies {
		id, err := w.Add(b)
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// scaled returns b with a non-uniform scale.
func scaled(b collision.Body, sx, sy float64) collision.Body {
	b.Scale = mgl64.Vec2{sx, sy}
	return b
}
