package rope

import "github.com/go-gl/mathgl/mgl64"

// Shape identifies the kind of collision volume a collider has.
type Shape uint8

const (
	ShapeNone   Shape = iota // Not resolved against
	ShapeCircle              // Extents.X is the local radius
	ShapeBox                 // Extents are the local half extents
)

// String returns a human-readable name for the shape.
func (s Shape) String() string {
	switch s {
	case ShapeCircle:
		return "circle"
	case ShapeBox:
		return "box"
	default:
		return "none"
	}
}

// ColliderID is the backend's opaque identity for a collider.
type ColliderID uint64

// Collider describes one collision volume as seen by the rope at snapshot time.
type Collider struct {
	ID           ColliderID
	Shape        Shape
	Extents      mgl64.Vec2
	Position     mgl64.Vec2
	Scale        mgl64.Vec2
	WorldToLocal mgl64.Mat4
	LocalToWorld mgl64.Mat4
}

// WorldScale returns the scale encoded in the collider's local-to-world transform,
// the lengths of its first two basis columns.
func (c *Collider) WorldScale() mgl64.Vec2 {
	return mgl64.Vec2{
		c.LocalToWorld.Col(0).Vec3().Len(),
		c.LocalToWorld.Col(1).Vec3().Len(),
	}
}

// Backend is the broad-phase collision service a rope queries while snapshotting.
//
// QueryNearby writes up to len(dst) colliders overlapping the circle at p with the
// given radius and returns how many it wrote. Matches beyond len(dst) are dropped.
// Implementations must be safe for concurrent use.
type Backend interface {
	QueryNearby(p mgl64.Vec2, radius float64, dst []Collider) int
}

// NoBackend is a Backend with nothing in it.
type NoBackend struct{}

// QueryNearby always reports no colliders.
func (NoBackend) QueryNearby(mgl64.Vec2, float64, []Collider) int {
	return 0
}
