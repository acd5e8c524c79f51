// Package core provides fundamental types shared by the simulation and the
// platform layer: screen buffer, colors, input actions and world-to-screen mapping.
// It never imports Bubble Tea.
package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Rect is an axis-aligned rectangle in screen cells.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains returns true if the cell (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Clamp restricts a value to be within [lo, hi].
func Clamp(val, lo, hi int) int {
	return max(lo, min(hi, val))
}

// Bounds is an axis-aligned box in world units.
type Bounds struct {
	Min, Max mgl64.Vec2
}

// EmptyBounds returns bounds that any Extend call replaces.
func EmptyBounds() Bounds {
	inf := math.Inf(1)
	return Bounds{Min: mgl64.Vec2{inf, inf}, Max: mgl64.Vec2{-inf, -inf}}
}

// Empty reports whether nothing has been added to b.
func (b Bounds) Empty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1]
}

// Extend grows b to include p padded by r on every side.
func (b Bounds) Extend(p mgl64.Vec2, r float64) Bounds {
	return Bounds{
		Min: mgl64.Vec2{math.Min(b.Min[0], p[0]-r), math.Min(b.Min[1], p[1]-r)},
		Max: mgl64.Vec2{math.Max(b.Max[0], p[0]+r), math.Max(b.Max[1], p[1]+r)},
	}
}

// Center returns the middle of b.
func (b Bounds) Center() mgl64.Vec2 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the width and height of b.
func (b Bounds) Size() mgl64.Vec2 {
	return b.Max.Sub(b.Min)
}

// Viewport maps world coordinates (y up) to screen cells (y down).
type Viewport struct {
	Center mgl64.Vec2 // World point drawn at the middle of the screen
	Scale  float64    // Cells per world unit along x
	Aspect float64    // Cell height over cell width
	W, H   int        // Screen size in cells
}

// FitViewport returns the viewport that shows all of b on a w×h screen.
func FitViewport(b Bounds, w, h int, aspect float64) Viewport {
	if aspect <= 0 {
		aspect = 1
	}
	v := Viewport{Center: b.Center(), Scale: 1, Aspect: aspect, W: w, H: h}
	if b.Empty() || w <= 0 || h <= 0 {
		v.Center = mgl64.Vec2{}
		return v
	}

	size := b.Size()
	sx := math.Inf(1)
	if size[0] > 0 {
		sx = float64(w-1) / size[0]
	}
	sy := math.Inf(1)
	if size[1] > 0 {
		sy = float64(h-1) * aspect / size[1]
	}
	if s := math.Min(sx, sy); !math.IsInf(s, 1) && s > 0 {
		v.Scale = s
	}
	return v
}

// ToCell returns the screen cell containing world point p. The result may lie
// outside the screen.
func (v Viewport) ToCell(p mgl64.Vec2) (x, y int) {
	d := p.Sub(v.Center)
	fx := float64(v.W)/2 + d[0]*v.Scale
	fy := float64(v.H)/2 - d[1]*v.Scale/v.Aspect
	return int(math.Floor(fx)), int(math.Floor(fy))
}

// ToWorld returns the world point at the center of screen cell (x, y).
func (v Viewport) ToWorld(x, y int) mgl64.Vec2 {
	fx := float64(x) + 0.5 - float64(v.W)/2
	fy := float64(v.H)/2 - float64(y) - 0.5
	return mgl64.Vec2{
		v.Center[0] + fx/v.Scale,
		v.Center[1] + fy*v.Aspect/v.Scale,
	}
}

// CellSize returns the world size of one cell.
func (v Viewport) CellSize() mgl64.Vec2 {
	return mgl64.Vec2{1 / v.Scale, v.Aspect / v.Scale}
}
