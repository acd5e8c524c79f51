package rope

import "github.com/go-gl/mathgl/mgl64"

// Integrate advances every node one step of length dt with position Verlet.
//
// The implicit velocity (Pos - Prev) is clamped to maxMove before use, damped by the
// node's friction from the last collision pass, and gravity is added to the node's
// accumulated acceleration. Scratch acceleration and friction are zeroed afterwards.
// A maxMove of zero or less disables the clamp.
func Integrate(n *Nodes, gravity mgl64.Vec2, dt, maxMove float64) {
	dt2 := dt * dt

	for i := range n.Pos {
		accel := n.Accel[i].Add(gravity)

		move := n.Pos[i].Sub(n.Prev[i])
		if maxMove > 0 {
			move = clampLen(move, maxMove)
		}

		prev := n.Pos[i]
		n.Pos[i] = prev.Add(move.Mul(1 - n.Friction[i])).Add(accel.Mul(dt2))
		n.Prev[i] = prev

		n.Accel[i] = mgl64.Vec2{}
		n.Friction[i] = 0
	}
}

// clampLen shortens v to max if it is longer.
func clampLen(v mgl64.Vec2, max float64) mgl64.Vec2 {
	l := v.Len()
	if l <= max {
		return v
	}
	return v.Mul(max / l)
}
