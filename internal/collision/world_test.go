package collision

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/vovakirdan/tui-rope/internal/rope"
)

func mustAdd(t *testing.T, w *World, b Body) rope.ColliderID {
	t.Helper()
	id, err := w.Add(b)
	if err != nil {
		t.Fatalf("Add() failed: %v", err)
	}
	return id
}

func query(w *World, p mgl64.Vec2, radius float64, size int) []rope.ColliderID {
	dst := make([]rope.Collider, size)
	n := w.QueryNearby(p, radius, dst)
	ids := make([]rope.ColliderID, n)
	for i := 0; i < n; i++ {
		ids[i] = dst[i].ID
	}
	return ids
}

func equalIDs(a, b []rope.ColliderID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestAddRejectsInvalidBodies(t *testing.T) {
	tests := []struct {
		name string
		body Body
	}{
		{"zero radius", Circle(mgl64.Vec2{}, 0)},
		{"negative box", Box(mgl64.Vec2{}, mgl64.Vec2{-1, 1}, 0)},
		{"no shape", Body{Size: mgl64.Vec2{1, 1}, Scale: mgl64.Vec2{1, 1}}},
		{"zero scale", Body{Shape: rope.ShapeCircle, Size: mgl64.Vec2{1, 1}}},
	}

	w := NewWorld(1)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := w.Add(tc.body); !errors.Is(err, ErrInvalidBody) {
				t.Errorf("Add() error = %v, expected ErrInvalidBody", err)
			}
		})
	}
	if w.Len() != 0 {
		t.Errorf("Len() = %d, expected 0", w.Len())
	}
}

func TestQueryNearbyCircle(t *testing.T) {
	w := NewWorld(1)
	id := mustAdd(t, w, Circle(mgl64.Vec2{3, 0}, 1))

	tests := []struct {
		name   string
		p      mgl64.Vec2
		radius float64
		want   []rope.ColliderID
	}{
		{"inside", mgl64.Vec2{3.2, 0}, 0.1, []rope.ColliderID{id}},
		{"within probe", mgl64.Vec2{1.6, 0}, 0.5, []rope.ColliderID{id}},
		{"beyond probe", mgl64.Vec2{1.4, 0}, 0.5, nil},
		{"far away", mgl64.Vec2{-20, 20}, 0.5, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := query(w, tc.p, tc.radius, 4); !equalIDs(got, tc.want) {
				t.Errorf("QueryNearby(%v) = %v, expected %v", tc.p, got, tc.want)
			}
		})
	}
}

func TestQueryNearbyOrientedBox(t *testing.T) {
	w := NewWorld(1)
	// A 4x1 plank turned to stand upright.
	id := mustAdd(t, w, Box(mgl64.Vec2{0, 0}, mgl64.Vec2{4, 1}, math.Pi/2))

	if got := query(w, mgl64.Vec2{0, 1.9}, 0.1, 4); !equalIDs(got, []rope.ColliderID{id}) {
		t.Errorf("point along the long axis: got %v", got)
	}
	if got := query(w, mgl64.Vec2{1.9, 0}, 0.5, 4); len(got) != 0 {
		t.Errorf("point beside the thin side: got %v, expected none", got)
	}
}

func TestQueryNearbyOrderAndTruncation(t *testing.T) {
	w := NewWorld(0.5)
	var ids []rope.ColliderID
	for i := 0; i < 5; i++ {
		ids = append(ids, mustAdd(t, w, Circle(mgl64.Vec2{float64(i) * 0.1, 0}, 1)))
	}

	if got := query(w, mgl64.Vec2{}, 0.1, 8); !equalIDs(got, ids) {
		t.Errorf("QueryNearby() = %v, expected ascending %v", got, ids)
	}
	if got := query(w, mgl64.Vec2{}, 0.1, 3); !equalIDs(got, ids[:3]) {
		t.Errorf("QueryNearby() with 3 slots = %v, expected %v", got, ids[:3])
	}
	if n := w.QueryNearby(mgl64.Vec2{}, 0.1, nil); n != 0 {
		t.Errorf("QueryNearby(nil) = %d, expected 0", n)
	}
}

func TestMoveAndRemove(t *testing.T) {
	w := NewWorld(1)
	id := mustAdd(t, w, Box(mgl64.Vec2{0, 0}, mgl64.Vec2{1, 1}, 0))

	if err := w.Move(id, mgl64.Vec2{10, -10}, 0.5); err != nil {
		t.Fatalf("Move() failed: %v", err)
	}
	if got := query(w, mgl64.Vec2{}, 0.2, 4); len(got) != 0 {
		t.Errorf("old position still reports %v", got)
	}
	if got := query(w, mgl64.Vec2{10, -10}, 0.2, 4); !equalIDs(got, []rope.ColliderID{id}) {
		t.Errorf("new position reports %v", got)
	}
	if b, _ := w.Body(id); b.Rotation != 0.5 {
		t.Errorf("Rotation = %v, expected 0.5", b.Rotation)
	}

	if err := w.Remove(id); err != nil {
		t.Fatalf("Remove() failed: %v", err)
	}
	if w.Len() != 0 {
		t.Errorf("Len() = %d after Remove, expected 0", w.Len())
	}
	if err := w.Remove(id); !errors.Is(err, ErrUnknownBody) {
		t.Errorf("second Remove() error = %v, expected ErrUnknownBody", err)
	}
	if err := w.Move(id, mgl64.Vec2{}, 0); !errors.Is(err, ErrUnknownBody) {
		t.Errorf("Move() of removed body error = %v, expected ErrUnknownBody", err)
	}
}

func TestColliderDescriptor(t *testing.T) {
	b := Box(mgl64.Vec2{2, 3}, mgl64.Vec2{4, 2}, 0.7)
	b.Scale = mgl64.Vec2{2, 0.5}
	c := b.Collider()

	if c.Extents != (mgl64.Vec2{2, 1}) {
		t.Errorf("Extents = %v, expected half size (2, 1)", c.Extents)
	}
	if got := c.WorldScale(); math.Abs(got[0]-2) > 1e-12 || math.Abs(got[1]-0.5) > 1e-12 {
		t.Errorf("WorldScale() = %v, expected (2, 0.5)", got)
	}

	origin := c.LocalToWorld.Mul4x1(mgl64.Vec4{0, 0, 0, 1})
	if math.Abs(origin[0]-2) > 1e-12 || math.Abs(origin[1]-3) > 1e-12 {
		t.Errorf("local origin maps to %v, expected (2, 3)", origin)
	}
	back := c.WorldToLocal.Mul4x1(origin)
	if math.Abs(back[0]) > 1e-12 || math.Abs(back[1]) > 1e-12 {
		t.Errorf("round trip gave %v, expected the local origin", back)
	}

	circle := Circle(mgl64.Vec2{}, 1.5).Collider()
	if circle.Extents[0] != 1.5 {
		t.Errorf("circle Extents.X = %v, expected the radius", circle.Extents[0])
	}
}

func TestRopeCollidesWithWorld(t *testing.T) {
	w := NewWorld(1)
	mustAdd(t, w, Circle(mgl64.Vec2{0.1, -1}, 0.4))
	mustAdd(t, w, Box(mgl64.Vec2{0, -2.5}, mgl64.Vec2{3, 0.5}, 0.2))

	p := rope.DefaultParams()
	p.Nodes = 30
	p.Iterations = 20
	r, err := rope.New(p, w)
	if err != nil {
		t.Fatalf("rope.New() failed: %v", err)
	}
	defer r.Close()
	r.SetPin(0, mgl64.Vec2{})

	for i := 0; i < 20; i++ {
		if _, err := r.Tick(0.02); err != nil {
			t.Fatalf("Tick() failed: %v", err)
		}
	}

	if r.Stats().Colliders != 2 {
		t.Errorf("Colliders = %d, expected both bodies in the snapshot", r.Stats().Colliders)
	}
	for i, pos := range r.Positions() {
		if d := pos.Sub(mgl64.Vec2{0.1, -1}).Len(); d < 0.4-1e-9 {
			t.Errorf("node %d at %v is inside the circle", i, pos)
		}
	}
}

func TestConcurrentQueries(t *testing.T) {
	w := NewWorld(1)
	id := mustAdd(t, w, Circle(mgl64.Vec2{}, 1))

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			dst := make([]rope.Collider, 2)
			for i := 0; i < 100; i++ {
				w.QueryNearby(mgl64.Vec2{0.5, 0}, 0.1, dst)
			}
		}()
	}
	for i := 0; i < 100; i++ {
		w.Move(id, mgl64.Vec2{float64(i%3) * 0.01, 0}, 0)
	}
	wg.Wait()
}

func TestDistanceUsesDescriptor(t *testing.T) {
	scaled := Circle(mgl64.Vec2{1, 1}, 0.5)
	scaled.Scale = mgl64.Vec2{2, 1}
	box := Box(mgl64.Vec2{}, mgl64.Vec2{2, 1}, math.Pi/2)

	tests := []struct {
		name string
		body Body
		p    mgl64.Vec2
		want float64
	}{
		{"circle outside scaled radius", scaled, mgl64.Vec2{1, 3}, 1},
		{"circle inside", scaled, mgl64.Vec2{1.5, 1}, 0},
		{"rotated box along long axis", box, mgl64.Vec2{0, 2}, 1},
		{"rotated box along short axis", box, mgl64.Vec2{2, 0}, 1.5},
		{"rotated box inside", box, mgl64.Vec2{0.2, 0.5}, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := tc.body.Collider()
			if got := distance(&c, tc.p); math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("distance(%v) = %v, expected %v", tc.p, got, tc.want)
			}
		})
	}
}

func TestQueryAfterMoveUsesNewTransform(t *testing.T) {
	w := NewWorld(1)
	id := mustAdd(t, w, Box(mgl64.Vec2{}, mgl64.Vec2{4, 0.5}, 0))
	dst := make([]rope.Collider, 4)

	// Lying flat the box does not reach (0, 1.5); stood upright it does.
	if n := w.QueryNearby(mgl64.Vec2{0, 1.5}, 0.1, dst); n != 0 {
		t.Fatalf("QueryNearby() = %d before the move, expected 0", n)
	}
	if err := w.Move(id, mgl64.Vec2{}, math.Pi/2); err != nil {
		t.Fatalf("Move() failed: %v", err)
	}
	if n := w.QueryNearby(mgl64.Vec2{0, 1.5}, 0.1, dst); n != 1 {
		t.Errorf("QueryNearby() = %d after the move, expected 1", n)
	}
}
