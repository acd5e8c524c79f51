package rope

// SolveConstraints runs one relaxation pass over every adjacent pair of nodes.
//
// Pairs are visited in increasing index order. A pinned endpoint is snapped to its
// target before the pair is measured and is not moved by the correction, so the
// free endpoint takes the whole adjustment toward rest. Coincident nodes are left
// alone.
func SolveConstraints(n *Nodes, pins *Pins, rest float64) {
	for i := 0; i < len(n.Pos)-1; i++ {
		j := i + 1

		m1, m2 := 1.0, 1.0
		// Both ends are checked: the last node is never the first element of a pair.
		if pins.Enabled[i] {
			n.Pos[i] = pins.Target[i]
			m1 = 0
		}
		if pins.Enabled[j] {
			n.Pos[j] = pins.Target[j]
			m2 = 0
		}

		diff := n.Pos[i].Sub(n.Pos[j])
		dist := diff.Len()
		if dist == 0 {
			continue
		}

		corr := diff.Mul(0.5 * (dist - rest) / dist)
		n.Pos[i] = n.Pos[i].Sub(corr.Mul(m1))
		n.Pos[j] = n.Pos[j].Add(corr.Mul(m2))
	}
}
