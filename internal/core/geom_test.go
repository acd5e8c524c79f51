package core

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 15)

	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{"inside", 15, 15, true},
		{"top-left corner", 10, 10, true},
		{"bottom-right edge (exclusive)", 30, 25, false},
		{"outside left", 5, 15, false},
		{"outside bottom", 15, 30, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Contains(tc.x, tc.y); got != tc.expected {
				t.Errorf("Contains(%d, %d) = %v, expected %v", tc.x, tc.y, got, tc.expected)
			}
		})
	}

	if r.Right() != 30 || r.Bottom() != 25 {
		t.Errorf("edges = (%d, %d), expected (30, 25)", r.Right(), r.Bottom())
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, lo, hi, expected int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
		{0, 0, 10, 0},
		{10, 0, 10, 10},
	}

	for _, tc := range tests {
		if got := Clamp(tc.val, tc.lo, tc.hi); got != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.lo, tc.hi, got, tc.expected)
		}
	}
}

func TestBounds(t *testing.T) {
	b := EmptyBounds()
	if !b.Empty() {
		t.Fatal("EmptyBounds() should be empty")
	}

	b = b.Extend(mgl64.Vec2{1, 2}, 0).Extend(mgl64.Vec2{-3, 4}, 1)
	if b.Empty() {
		t.Fatal("bounds with points should not be empty")
	}
	if b.Min != (mgl64.Vec2{-4, 2}) || b.Max != (mgl64.Vec2{1, 5}) {
		t.Errorf("bounds = %+v, expected min (-4, 2) max (1, 5)", b)
	}
	if b.Center() != (mgl64.Vec2{-1.5, 3.5}) {
		t.Errorf("Center() = %v", b.Center())
	}
	if b.Size() != (mgl64.Vec2{5, 3}) {
		t.Errorf("Size() = %v", b.Size())
	}
}

func TestFitViewportShowsBounds(t *testing.T) {
	b := Bounds{Min: mgl64.Vec2{-10, -5}, Max: mgl64.Vec2{10, 5}}

	tests := []struct {
		name   string
		w, h   int
		aspect float64
	}{
		{"wide screen", 81, 21, 2},
		{"tall screen", 21, 81, 2},
		{"square cells", 40, 40, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := FitViewport(b, tc.w, tc.h, tc.aspect)
			for _, p := range []mgl64.Vec2{b.Min, b.Max, {b.Min[0], b.Max[1]}, {b.Max[0], b.Min[1]}} {
				x, y := v.ToCell(p)
				if x < 0 || x > tc.w || y < 0 || y > tc.h {
					t.Errorf("corner %v maps to (%d, %d), outside %dx%d", p, x, y, tc.w, tc.h)
				}
			}
		})
	}
}

func TestViewportOrientation(t *testing.T) {
	v := Viewport{Center: mgl64.Vec2{}, Scale: 2, Aspect: 2, W: 20, H: 10}

	cx, cy := v.ToCell(mgl64.Vec2{})
	if cx != 10 || cy != 5 {
		t.Errorf("center maps to (%d, %d), expected (10, 5)", cx, cy)
	}

	_, upY := v.ToCell(mgl64.Vec2{0, 2})
	if upY >= cy {
		t.Errorf("world up maps to row %d, expected above row %d", upY, cy)
	}
	rightX, _ := v.ToCell(mgl64.Vec2{2, 0})
	if rightX <= cx {
		t.Errorf("world right maps to column %d, expected right of %d", rightX, cx)
	}
}

func TestViewportRoundTrip(t *testing.T) {
	v := FitViewport(Bounds{Min: mgl64.Vec2{-3, -7}, Max: mgl64.Vec2{5, 1}}, 60, 20, 2)

	for _, cell := range [][2]int{{0, 0}, {30, 10}, {59, 19}, {12, 3}} {
		p := v.ToWorld(cell[0], cell[1])
		x, y := v.ToCell(p)
		if x != cell[0] || y != cell[1] {
			t.Errorf("cell %v -> %v -> (%d, %d)", cell, p, x, y)
		}
	}

	size := v.CellSize()
	if math.Abs(size[1]-2*size[0]) > 1e-12 {
		t.Errorf("CellSize() = %v, expected cells twice as tall as wide", size)
	}
}

func TestFitViewportDegenerate(t *testing.T) {
	v := FitViewport(EmptyBounds(), 10, 10, 2)
	if v.Scale != 1 || v.Center != (mgl64.Vec2{}) {
		t.Errorf("empty bounds gave %+v", v)
	}

	point := Bounds{Min: mgl64.Vec2{3, 3}, Max: mgl64.Vec2{3, 3}}
	v = FitViewport(point, 10, 10, 2)
	if v.Scale != 1 || v.Center != (mgl64.Vec2{3, 3}) {
		t.Errorf("point bounds gave %+v", v)
	}
}
