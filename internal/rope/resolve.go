package rope

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ResolveCollisions pushes every node listed in the snapshot out of its collider
// and marks it with the contact friction.
func ResolveCollisions(n *Nodes, s *Snapshot, friction float64) {
	for k := 0; k < s.count; k++ {
		rec := &s.records[k]

		// One switch per collider rather than per node.
		switch rec.Shape {
		case ShapeCircle:
			for _, i := range rec.Nodes {
				if p, hit := ResolveCircle(&rec.Collider, n.Pos[i]); hit {
					n.Pos[i] = p
					n.Friction[i] = friction
				}
			}
		case ShapeBox:
			for _, i := range rec.Nodes {
				if p, hit := ResolveBox(&rec.Collider, n.Pos[i]); hit {
					n.Pos[i] = p
					n.Friction[i] = friction
				}
			}
		}
	}
}

// ResolveCircle projects p onto the boundary of a circle collider if it lies inside.
// The radius is the local radius times the larger scale component. A point exactly
// at the center has no direction to leave by and is reported as no contact.
func ResolveCircle(c *Collider, p mgl64.Vec2) (mgl64.Vec2, bool) {
	radius := c.Extents[0] * math.Max(c.Scale[0], c.Scale[1])

	d := p.Sub(c.Position)
	dist := d.Len()
	if dist > radius || dist == 0 {
		return p, false
	}

	return c.Position.Add(d.Mul(radius / dist)), true
}

// ResolveBox pushes p out of an oriented, possibly non-uniformly scaled box.
//
// The point is taken into the box's local space and moved to the face with the
// least penetration. Penetrations are compared in world units (scaled by the box's
// world scale) so stretched boxes do not favour their long axis.
func ResolveBox(c *Collider, p mgl64.Vec2) (mgl64.Vec2, bool) {
	local := c.WorldToLocal.Mul4x1(p.Vec4(0, 1))
	half := c.Extents

	px := half[0] - math.Abs(local[0])
	if px <= 0 {
		return p, false
	}
	py := half[1] - math.Abs(local[1])
	if py <= 0 {
		return p, false
	}

	if px*c.Scale[0] < py*c.Scale[1] {
		local[0] = half[0] * sign(local[0])
	} else {
		local[1] = half[1] * sign(local[1])
	}

	world := c.LocalToWorld.Mul4x1(local)
	return mgl64.Vec2{world[0], world[1]}, true
}

// sign returns -1 for negative values and 1 otherwise, zero included.
func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
