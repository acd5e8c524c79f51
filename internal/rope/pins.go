package rope

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Pins holds one optional positional constraint per node.
// Solving only reads it; callers change it through Set and Clear.
type Pins struct {
	Enabled []bool
	Target  []mgl64.Vec2
}

// NewPins creates a constraint set for count nodes, all disabled.
func NewPins(count int) *Pins {
	return &Pins{
		Enabled: make([]bool, count),
		Target:  make([]mgl64.Vec2, count),
	}
}

// Len returns the number of constraint slots.
func (p *Pins) Len() int {
	return len(p.Enabled)
}

// Set pins node i to the world position target.
func (p *Pins) Set(i int, target mgl64.Vec2) error {
	if err := p.check(i); err != nil {
		return err
	}
	p.Enabled[i] = true
	p.Target[i] = target
	return nil
}

// Clear releases the pin on node i. The last target is kept but ignored.
func (p *Pins) Clear(i int) error {
	if err := p.check(i); err != nil {
		return err
	}
	p.Enabled[i] = false
	return nil
}

// Pinned reports whether node i is pinned and where.
func (p *Pins) Pinned(i int) (mgl64.Vec2, bool) {
	if i < 0 || i >= p.Len() || !p.Enabled[i] {
		return mgl64.Vec2{}, false
	}
	return p.Target[i], true
}

func (p *Pins) check(i int) error {
	if i < 0 || i >= p.Len() {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrNodeIndex, i, p.Len())
	}
	return nil
}
