package scenes

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/vovakirdan/tui-rope/internal/collision"
	"github.com/vovakirdan/tui-rope/internal/registry"
)

// Pegboard grid
const (
	pegRows    = 6
	pegCols    = 7
	pegSpacing = 2.5
	pegRadius  = 0.35
	pegJitter  = 0.4
	pegSkip    = 0.15 // Chance a peg is left out
)

// Drape drops a free rope over three round obstacles onto a floor.
type Drape struct{ base }

// NewDrape creates the drape scene.
func NewDrape() *Drape {
	return &Drape{base{id: "drape", title: "Drape", desc: "A loose rope falls over three circles"}}
}

// Build places the circles and the floor.
func (d *Drape) Build(w *collision.World, _ int64) (registry.Layout, error) {
	_, err := addAll(w,
		collision.Circle(mgl64.Vec2{-4, 2}, 1.5),
		collision.Circle(mgl64.Vec2{1, 0}, 2),
		collision.Circle(mgl64.Vec2{5.5, -3}, 1),
		collision.Box(mgl64.Vec2{0, -10}, mgl64.Vec2{24, 1}, 0),
	)
	if err != nil {
		return registry.Layout{}, err
	}
	return registry.Layout{Origin: mgl64.Vec2{-3, 9}}, nil
}

// Pegboard hangs a pinned rope through a jittered grid of pegs.
// The grid depends only on the seed.
type Pegboard struct{ base }

// NewPegboard creates the pegboard scene.
func NewPegboard() *Pegboard {
	return &Pegboard{base{id: "pegboard", title: "Pegboard", desc: "A pinned rope threads a seeded grid of pegs"}}
}

// Build scatters the pegs.
func (p *Pegboard) Build(w *collision.World, seed int64) (registry.Layout, error) {
	rng := rand.New(rand.NewSource(seed))

	for row := range pegRows {
		// Odd rows are offset by half a column
		shift := float64(row%2) * pegSpacing / 2
		for col := range pegCols {
			if rng.Float64() < pegSkip {
				continue
			}
			x := (float64(col)-float64(pegCols-1)/2)*pegSpacing + shift
			y := 6 - float64(row)*pegSpacing
			jitter := mgl64.Vec2{rng.Float64()*2 - 1, rng.Float64()*2 - 1}.Mul(pegJitter)
			if _, err := w.Add(collision.Circle(mgl64.Vec2{x, y}.Add(jitter), pegRadius)); err != nil {
				return registry.Layout{}, err
			}
		}
	}
	return registry.Layout{Origin: mgl64.Vec2{0.3, 9}, Pin: true}, nil
}

// Ramps drops a rope down a zigzag of tilted, stretched boxes.
type Ramps struct{ base }

// NewRamps creates the ramps scene.
func NewRamps() *Ramps {
	return &Ramps{base{id: "ramps", title: "Ramps", desc: "A rope slides down rotated and stretched boxes"}}
}

// Build places the ramps. Each is a unit box scaled non-uniformly.
func (r *Ramps) Build(w *collision.World, _ int64) (registry.Layout, error) {
	unit := mgl64.Vec2{1, 1}
	_, err := addAll(w,
		scaled(collision.Box(mgl64.Vec2{-2, 5}, unit, -0.35), 9, 0.6),
		scaled(collision.Box(mgl64.Vec2{3, 0}, unit, 0.3), 9, 0.6),
		scaled(collision.Box(mgl64.Vec2{-2, -5}, unit, -0.25), 9, 0.6),
		collision.Box(mgl64.Vec2{0, -10}, mgl64.Vec2{24, 1}, 0),
	)
	if err != nil {
		return registry.Layout{}, err
	}
	return registry.Layout{Origin: mgl64.Vec2{-5, 10}, Nodes: 80}, nil
}

// Swing hangs a pinned rope in the path of a box sliding back and forth.
type Swing struct{ base }

// NewSwing creates the swing scene.
func NewSwing() *Swing {
	return &Swing{base{id: "swing", title: "Swing", desc: "A moving box knocks a pinned rope around"}}
}

// Build places the paddle and records it as kinematic.
func (s *Swing) Build(w *collision.World, _ int64) (registry.Layout, error) {
	paddle := mover{
		base:   mgl64.Vec2{0, -2},
		amp:    mgl64.Vec2{7, 0},
		period: 4,
		spin:   math.Pi / 4,
	}
	id, err := w.Add(collision.Box(paddle.base, mgl64.Vec2{1.5, 3}, 0))
	if err != nil {
		return registry.Layout{}, err
	}
	paddle.id = id
	s.movers = []mover{paddle}

	return registry.Layout{Origin: mgl64.Vec2{0, 9}, Pin: true, Nodes: 120}, nil
}

func init() {
	registry.Register("drape", func() registry.Scene { return NewDrape() })
	registry.Register("pegboard", func() registry.Scene { return NewPegboard() })
	registry.Register("ramps", func() registry.Scene { return NewRamps() })
	registry.Register("swing", func() registry.Scene { return NewSwing() })
}
