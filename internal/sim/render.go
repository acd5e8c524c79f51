package sim

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/vovakirdan/tui-rope/internal/collision"
	"github.com/vovakirdan/tui-rope/internal/core"
	"github.com/vovakirdan/tui-rope/internal/rope"
)

// Visual characters for rendering
const (
	RopeChar    = '·'
	ContactChar = 'o'
	PinChar     = '@'
	EndChar     = '*'
	CursorChar  = '+'
	CircleChar  = 'O'
	BoxChar     = '#'
)

// Rows reserved at the top of the screen for the status line.
const hudRows = 1

// Segments used to outline a circle.
const circleSegments = 24

// Render draws the world, the rope and the status line into scr.
func (s *Sim) Render(scr *core.Screen) {
	scr.Clear()
	w, h := scr.Width(), scr.Height()
	if w <= 0 || h <= hudRows {
		return
	}

	s.view = core.FitViewport(s.bounds, w, h-hudRows, s.cfg.Viewer.CellAspect)
	if s.follow {
		s.view.Center = s.rope.Node(0)
	}

	for _, b := range s.world.Bodies() {
		s.drawBody(scr, b)
	}
	s.point(scr, s.cursor, CursorChar, core.ColorCursor)
	s.drawRope(scr)
	s.drawHUD(scr)
}

func (s *Sim) toCell(p mgl64.Vec2) (int, int) {
	x, y := s.view.ToCell(p)
	return x, y + hudRows
}

func (s *Sim) toWorld(x, y int) mgl64.Vec2 {
	return s.view.ToWorld(x, y-hudRows)
}

// line draws a world-space segment. Anything it puts on the status row is
// overwritten by drawHUD.
func (s *Sim) line(scr *core.Screen, a, b mgl64.Vec2, r rune, c core.Color) {
	x0, y0 := s.toCell(a)
	x1, y1 := s.toCell(b)
	scr.DrawLine(x0, y0, x1, y1, r, c)
}

func (s *Sim) point(scr *core.Screen, p mgl64.Vec2, r rune, c core.Color) {
	x, y := s.toCell(p)
	scr.SetColor(x, y, r, c)
}

func (s *Sim) drawBody(scr *core.Screen, b collision.Body) {
	c := core.ColorBox
	if b.Shape == rope.ShapeCircle {
		c = core.ColorCircle
	}
	if start, ok := s.initial[b.ID]; ok && (start.Position != b.Position || start.Rotation != b.Rotation) {
		c = core.ColorKinematic
	}

	switch b.Shape {
	case rope.ShapeCircle:
		r := b.BoundingRadius()
		prev := b.Position.Add(mgl64.Vec2{r, 0})
		for i := 1; i <= circleSegments; i++ {
			a := 2 * math.Pi * float64(i) / circleSegments
			next := b.Position.Add(mgl64.Vec2{r * math.Cos(a), r * math.Sin(a)})
			s.line(scr, prev, next, CircleChar, c)
			prev = next
		}
	case rope.ShapeBox:
		ltw, _ := b.Transform()
		half := b.Size.Mul(0.5)
		corners := [4]mgl64.Vec2{}
		for i, sgn := range [4]mgl64.Vec2{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}} {
			p := ltw.Mul4x1(mgl64.Vec2{half[0] * sgn[0], half[1] * sgn[1]}.Vec4(0, 1))
			corners[i] = mgl64.Vec2{p[0], p[1]}
		}
		for i := range corners {
			s.line(scr, corners[i], corners[(i+1)%len(corners)], BoxChar, c)
		}
	}
}

func (s *Sim) drawRope(scr *core.Screen) {
	s.positions = s.rope.PositionsInto(s.positions)
	n := len(s.positions)
	if limit := s.cfg.Viewer.MaxRenderPoints; n > limit {
		if !s.warned {
			s.logger.Warn("rope has more nodes than the viewer draws",
				"nodes", n,
				"limit", limit,
			)
			s.warned = true
		}
		n = limit
	}

	clear(s.contacts)
	s.rope.Contacts(s.contacts)

	for i := 0; i+1 < n; i++ {
		c := core.ColorRope
		if s.rope.Stretch(i) >= s.cfg.Viewer.StretchWarn {
			c = core.ColorRopeTaut
		}
		s.line(scr, s.positions[i], s.positions[i+1], RopeChar, c)
	}

	for i := range n {
		if !s.contacts[i] {
			continue
		}
		s.point(scr, s.positions[i], ContactChar, core.ColorContact)
	}

	if n > 0 {
		s.point(scr, s.positions[n-1], EndChar, core.ColorRope)
	}
	if _, pinned := s.rope.Pinned(0); pinned && n > 0 {
		s.point(scr, s.positions[0], PinChar, core.ColorPin)
	}
}

func (s *Sim) drawHUD(scr *core.Screen) {
	for x := range scr.Width() {
		scr.SetColor(x, 0, ' ', core.ColorHUD)
	}

	st := s.rope.Stats()
	left := fmt.Sprintf(" %s  t=%.2fs  nodes=%d  colliders=%d  steps=%d",
		s.scene.Title(), s.time, s.rope.Len(), st.Colliders, st.Steps)
	scr.DrawText(0, 0, left, core.ColorHUD)

	var flags []string
	if s.slow {
		flags = append(flags, "SLOW")
	}
	if s.follow {
		flags = append(flags, "FOLLOW")
	}
	if s.paused {
		flags = append(flags, "PAUSED")
	}

	warn := ""
	switch {
	case s.err != nil:
		warn = "TICK FAILED"
	case s.rope.Snapshot().Partial():
		warn = "COLLIDERS FULL"
	}

	right := strings.Join(flags, " ")
	if warn != "" {
		scr.DrawTextRight(0, warn+" ", core.ColorWarn)
		if right != "" {
			scr.DrawText(scr.Width()-len(warn)-len(right)-2, 0, right, core.ColorHUD)
		}
		return
	}
	if right != "" {
		scr.DrawTextRight(0, right+" ", core.ColorHUD)
	}
}
