// Package collision is the world of static and kinematic obstacles a rope collides
// with. It implements rope.Backend with a spatial-hash broad phase.
package collision

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/vovakirdan/tui-rope/internal/rope"
)

// Errors returned by the collision world.
var (
	ErrInvalidBody = errors.New("collision: invalid body")
	ErrUnknownBody = errors.New("collision: unknown body")
)

// Body is one obstacle. Size is the radius in X for circles and the full width and
// height for boxes, both before Scale is applied.
type Body struct {
	ID       rope.ColliderID
	Shape    rope.Shape
	Size     mgl64.Vec2
	Position mgl64.Vec2
	Rotation float64 // Radians, counter-clockwise
	Scale    mgl64.Vec2
}

// Circle returns an unscaled circle body.
func Circle(pos mgl64.Vec2, radius float64) Body {
	return Body{
		Shape:    rope.ShapeCircle,
		Size:     mgl64.Vec2{radius, radius},
		Position: pos,
		Scale:    mgl64.Vec2{1, 1},
	}
}

// Box returns an unscaled box body of the given full size.
func Box(pos, size mgl64.Vec2, rotation float64) Body {
	return Body{
		Shape:    rope.ShapeBox,
		Size:     size,
		Position: pos,
		Rotation: rotation,
		Scale:    mgl64.Vec2{1, 1},
	}
}

// Validate rejects bodies a rope cannot collide with.
func (b Body) Validate() error {
	switch b.Shape {
	case rope.ShapeCircle:
		if b.Size[0] <= 0 {
			return fmt.Errorf("%w: circle radius %g", ErrInvalidBody, b.Size[0])
		}
	case rope.ShapeBox:
		if b.Size[0] <= 0 || b.Size[1] <= 0 {
			return fmt.Errorf("%w: box size %v", ErrInvalidBody, b.Size)
		}
	default:
		return fmt.Errorf("%w: shape %s", ErrInvalidBody, b.Shape)
	}
	if b.Scale[0] <= 0 || b.Scale[1] <= 0 {
		return fmt.Errorf("%w: scale %v", ErrInvalidBody, b.Scale)
	}
	return nil
}

// Transform returns the body's local-to-world matrix, translate·rotate·scale, and
// its inverse.
func (b Body) Transform() (localToWorld, worldToLocal mgl64.Mat4) {
	localToWorld = mgl64.Translate3D(b.Position[0], b.Position[1], 0).
		Mul4(mgl64.HomogRotate3DZ(b.Rotation)).
		Mul4(mgl64.Scale3D(b.Scale[0], b.Scale[1], 1))
	return localToWorld, localToWorld.Inv()
}

// Collider converts the body into the descriptor a rope snapshot stores.
func (b Body) Collider() rope.Collider {
	ltw, wtl := b.Transform()

	extents := b.Size.Mul(0.5)
	if b.Shape == rope.ShapeCircle {
		extents = mgl64.Vec2{b.Size[0], b.Size[0]}
	}

	return rope.Collider{
		ID:           b.ID,
		Shape:        b.Shape,
		Extents:      extents,
		Position:     b.Position,
		Scale:        b.Scale,
		LocalToWorld: ltw,
		WorldToLocal: wtl,
	}
}

// BoundingRadius returns the radius of a circle around Position that contains the
// whole body.
func (b Body) BoundingRadius() float64 {
	if b.Shape == rope.ShapeCircle {
		return b.Size[0] * math.Max(b.Scale[0], b.Scale[1])
	}
	half := mgl64.Vec2{b.Size[0] * b.Scale[0], b.Size[1] * b.Scale[1]}.Mul(0.5)
	return half.Len()
}

// distance returns how far p is from the surface of the collider c describes, zero
// when p is inside. It uses the transforms cached in c.
func distance(c *rope.Collider, p mgl64.Vec2) float64 {
	if c.Shape == rope.ShapeCircle {
		r := c.Extents[0] * math.Max(c.Scale[0], c.Scale[1])
		return math.Max(0, p.Sub(c.Position).Len()-r)
	}

	local := c.WorldToLocal.Mul4x1(p.Vec4(0, 1))
	closest := mgl64.Vec4{
		mgl64.Clamp(local[0], -c.Extents[0], c.Extents[0]),
		mgl64.Clamp(local[1], -c.Extents[1], c.Extents[1]),
		0, 1,
	}
	w := c.LocalToWorld.Mul4x1(closest)
	return p.Sub(mgl64.Vec2{w[0], w[1]}).Len()
}
