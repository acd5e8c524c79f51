package rope

// Record is one collider captured by a snapshot together with the indices of the
// nodes that found it during the pass.
type Record struct {
	Collider
	Nodes []int
}

// Snapshot is a bounded table of the colliders near the rope at one point in time.
// All storage is allocated up front; Capture reuses it on every pass.
type Snapshot struct {
	records []Record
	count   int
	buf     []Collider

	partial bool
	dropped int
}

// NewSnapshot allocates a table for at most maxColliders colliders, each able to
// track every one of nodeCount nodes. bufferSize bounds a single backend query.
func NewSnapshot(maxColliders, nodeCount, bufferSize int) *Snapshot {
	s := &Snapshot{
		records: make([]Record, maxColliders),
		buf:     make([]Collider, bufferSize),
	}
	for i := range s.records {
		s.records[i].Nodes = make([]int, 0, nodeCount)
	}
	return s
}

// Len returns the number of colliders captured by the last pass.
func (s *Snapshot) Len() int {
	return s.count
}

// Cap returns the maximum number of colliders a pass can capture.
func (s *Snapshot) Cap() int {
	return len(s.records)
}

// Record returns the i-th captured collider. The pointer is valid until the next Capture.
func (s *Snapshot) Record(i int) *Record {
	return &s.records[i]
}

// Partial reports whether the last pass stopped early because the table was full.
func (s *Snapshot) Partial() bool {
	return s.partial
}

// Dropped returns how many node contacts the last pass discarded because a
// collider's node list was full.
func (s *Snapshot) Dropped() int {
	return s.dropped
}

// Reset empties the table.
func (s *Snapshot) Reset() {
	for i := 0; i < s.count; i++ {
		s.records[i].Nodes = s.records[i].Nodes[:0]
	}
	s.count = 0
	s.partial = false
	s.dropped = 0
}

// Capture rebuilds the table by querying b around every node in index order.
// Colliders are deduplicated by ID within the pass. When a new collider would not
// fit, scanning stops and the table keeps what was found so far.
// It returns false when the result is partial.
func (s *Snapshot) Capture(n *Nodes, b Backend, radius float64) bool {
	s.Reset()

	for i, pos := range n.Pos {
		found := b.QueryNearby(pos, radius, s.buf)
		if found > len(s.buf) {
			found = len(s.buf)
		}

		for j := 0; j < found; j++ {
			col := &s.buf[j]

			idx := s.find(col.ID)
			if idx < 0 {
				if s.count == len(s.records) {
					s.partial = true
					return false
				}
				s.add(col, i)
				continue
			}

			rec := &s.records[idx]
			last := len(rec.Nodes) - 1
			if last >= 0 && rec.Nodes[last] == i {
				continue
			}
			if len(rec.Nodes) == cap(rec.Nodes) {
				s.dropped++
				continue
			}
			rec.Nodes = append(rec.Nodes, i)
		}
	}

	return true
}

// find returns the table index of the collider with the given id, or -1.
func (s *Snapshot) find(id ColliderID) int {
	for k := 0; k < s.count; k++ {
		if s.records[k].ID == id {
			return k
		}
	}
	return -1
}

func (s *Snapshot) add(col *Collider, node int) {
	rec := &s.records[s.count]
	rec.Collider = *col
	rec.Scale = col.WorldScale()
	rec.Nodes = append(rec.Nodes[:0], node)
	s.count++
}

// MarkContacts sets dst[i] for every node listed by a captured collider.
// dst must have one slot per node; it is cleared first.
func (s *Snapshot) MarkContacts(dst []bool) {
	for i := range dst {
		dst[i] = false
	}
	for k := 0; k < s.count; k++ {
		for _, idx := range s.records[k].Nodes {
			if idx < len(dst) {
				dst[idx] = true
			}
		}
	}
}
