package collision

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/vovakirdan/tui-rope/internal/rope"
)

// DefaultCellSize is the spatial hash cell edge used when none is given.
const DefaultCellSize = 2.0

var _ rope.Backend = (*World)(nil)

type cellKey struct {
	X, Y int
}

// World holds bodies in a uniform spatial hash keyed by their bounding circles.
// It is safe for concurrent use; queries take a read lock.
type World struct {
	mu       sync.RWMutex
	cellSize float64
	nextID   rope.ColliderID

	bodies map[rope.ColliderID]*entry
	grid   map[cellKey][]rope.ColliderID
}

type entry struct {
	body     Body
	collider rope.Collider
	cells    []cellKey
}

// NewWorld creates an empty world. A non-positive cellSize uses DefaultCellSize.
func NewWorld(cellSize float64) *World {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	return &World{
		cellSize: cellSize,
		bodies:   make(map[rope.ColliderID]*entry),
		grid:     make(map[cellKey][]rope.ColliderID),
	}
}

// Add inserts b and returns its id. b.ID is ignored; ids are assigned in insertion
// order starting at 1.
func (w *World) Add(b Body) (rope.ColliderID, error) {
	if err := b.Validate(); err != nil {
		return 0, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.nextID++
	b.ID = w.nextID
	e := &entry{}
	w.bodies[b.ID] = e
	w.place(e, b)
	return b.ID, nil
}

// Move repositions and rotates a body, keeping its shape, size and scale.
func (w *World) Move(id rope.ColliderID, pos mgl64.Vec2, rotation float64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	e, ok := w.bodies[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownBody, id)
	}

	b := e.body
	b.Position = pos
	b.Rotation = rotation
	w.unplace(e)
	w.place(e, b)
	return nil
}

// Remove deletes a body.
func (w *World) Remove(id rope.ColliderID) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	e, ok := w.bodies[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownBody, id)
	}
	w.unplace(e)
	delete(w.bodies, id)
	return nil
}

// Len returns the number of bodies.
func (w *World) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.bodies)
}

// Body returns a copy of the body with the given id.
func (w *World) Body(id rope.ColliderID) (Body, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	e, ok := w.bodies[id]
	if !ok {
		return Body{}, false
	}
	return e.body, true
}

// Bodies returns every body ordered by id.
func (w *World) Bodies() []Body {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]Body, 0, len(w.bodies))
	for _, e := range w.bodies {
		out = append(out, e.body)
	}
	slices.SortFunc(out, func(a, b Body) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// QueryNearby writes into dst the colliders whose surface lies within radius of p,
// in ascending id order, and returns how many it wrote. Matches beyond len(dst) are
// dropped.
func (w *World) QueryNearby(p mgl64.Vec2, radius float64, dst []rope.Collider) int {
	if len(dst) == 0 {
		return 0
	}

	w.mu.RLock()
	defer w.mu.RUnlock()

	var hits []rope.ColliderID
	minC := w.cellOf(p.Sub(mgl64.Vec2{radius, radius}))
	maxC := w.cellOf(p.Add(mgl64.Vec2{radius, radius}))
	for x := minC.X; x <= maxC.X; x++ {
		for y := minC.Y; y <= maxC.Y; y++ {
			for _, id := range w.grid[cellKey{x, y}] {
				if slices.Contains(hits, id) {
					continue
				}
				if distance(&w.bodies[id].collider, p) <= radius {
					hits = append(hits, id)
				}
			}
		}
	}

	slices.Sort(hits)

	n := 0
	for _, id := range hits {
		if n == len(dst) {
			break
		}
		dst[n] = w.bodies[id].collider
		n++
	}
	return n
}

// place stores b in e and inserts it into every cell its bounding circle touches.
func (w *World) place(e *entry, b Body) {
	e.body = b
	e.collider = b.Collider()
	e.cells = e.cells[:0]

	r := b.BoundingRadius()
	minC := w.cellOf(b.Position.Sub(mgl64.Vec2{r, r}))
	maxC := w.cellOf(b.Position.Add(mgl64.Vec2{r, r}))
	for x := minC.X; x <= maxC.X; x++ {
		for y := minC.Y; y <= maxC.Y; y++ {
			key := cellKey{x, y}
			w.grid[key] = append(w.grid[key], b.ID)
			e.cells = append(e.cells, key)
		}
	}
}

func (w *World) unplace(e *entry) {
	id := e.body.ID
	for _, key := range e.cells {
		ids := w.grid[key]
		if i := slices.Index(ids, id); i >= 0 {
			ids = slices.Delete(ids, i, i+1)
		}
		if len(ids) == 0 {
			delete(w.grid, key)
			continue
		}
		w.grid[key] = ids
	}
	e.cells = e.cells[:0]
}

func (w *World) cellOf(p mgl64.Vec2) cellKey {
	return cellKey{
		X: int(math.Floor(p[0] / w.cellSize)),
		Y: int(math.Floor(p[1] / w.cellSize)),
	}
}
