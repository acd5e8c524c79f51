package rope

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// circleAt builds a circle collider with an unscaled, unrotated transform.
func circleAt(id ColliderID, center mgl64.Vec2, radius float64) Collider {
	ltw := mgl64.Translate3D(center[0], center[1], 0)
	return Collider{
		ID:           id,
		Shape:        ShapeCircle,
		Extents:      mgl64.Vec2{radius, radius},
		Position:     center,
		Scale:        mgl64.Vec2{1, 1},
		LocalToWorld: ltw,
		WorldToLocal: ltw.Inv(),
	}
}

// boxAt builds an oriented box collider from half extents, rotation and scale.
func boxAt(id ColliderID, center, half mgl64.Vec2, angle float64, scale mgl64.Vec2) Collider {
	ltw := mgl64.Translate3D(center[0], center[1], 0).
		Mul4(mgl64.HomogRotate3DZ(angle)).
		Mul4(mgl64.Scale3D(scale[0], scale[1], 1))
	return Collider{
		ID:           id,
		Shape:        ShapeBox,
		Extents:      half,
		Position:     center,
		Scale:        scale,
		LocalToWorld: ltw,
		WorldToLocal: ltw.Inv(),
	}
}

// listBackend returns the same colliders for every query, truncated to the buffer.
type listBackend []Collider

func (b listBackend) QueryNearby(_ mgl64.Vec2, _ float64, dst []Collider) int {
	return copy(dst, b)
}

// perNodeBackend hands every query a fresh set of distinct colliders, as if each
// node sat next to its own obstacles.
type perNodeBackend struct {
	perQuery int
	next     ColliderID
}

func (b *perNodeBackend) QueryNearby(p mgl64.Vec2, _ float64, dst []Collider) int {
	n := 0
	for k := 0; k < b.perQuery && n < len(dst); k++ {
		b.next++
		dst[n] = circleAt(b.next, p.Add(mgl64.Vec2{5, 5}), 0.1)
		n++
	}
	return n
}

func near(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func nearVec(a, b mgl64.Vec2, eps float64) bool {
	return near(a[0], b[0], eps) && near(a[1], b[1], eps)
}
