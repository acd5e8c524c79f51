// Package sim runs one scene: it owns the collision world, the rope and the clock,
// applies viewer input and draws the result into a core.Screen.
package sim

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/vovakirdan/tui-rope/internal/collision"
	"github.com/vovakirdan/tui-rope/internal/config"
	"github.com/vovakirdan/tui-rope/internal/core"
	"github.com/vovakirdan/tui-rope/internal/registry"
	"github.com/vovakirdan/tui-rope/internal/rope"
)

// SlowMotionScale is the time scale applied while slow motion is on.
const SlowMotionScale = 0.1

// NudgeSpeed is the speed, in world units per second, a nudge gives the free end.
const NudgeSpeed = 6.0

// Margin added around the scene when fitting it to the screen, in world units.
const viewMargin = 1.0

// Option configures a Sim.
type Option func(*Sim)

// WithLogger sets the logger shared by the simulation and its rope.
func WithLogger(l *log.Logger) Option {
	return func(s *Sim) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithScheduler runs the rope's fixed steps on sched instead of inline.
func WithScheduler(sched rope.Scheduler) Option {
	return func(s *Sim) {
		s.sched = sched
	}
}

// Sim is a running scene. It is not safe for concurrent use.
type Sim struct {
	scene  registry.Scene
	cfg    config.RopeConfig
	rt     core.RuntimeConfig
	sched  rope.Scheduler
	logger *log.Logger

	world   *collision.World
	rope    *rope.Rope
	layout  registry.Layout
	bounds  core.Bounds
	initial map[rope.ColliderID]collision.Body

	time   float64 // Simulated seconds since the scene was built
	frames int
	paused bool
	slow   bool
	follow bool
	cursor mgl64.Vec2
	view   core.Viewport
	warned bool
	err    error // Last tick failure, shown in the status line

	positions []mgl64.Vec2
	contacts  []bool
}

// New validates cfg and builds scene.
func New(scene registry.Scene, cfg config.RopeConfig, rt core.RuntimeConfig, opts ...Option) (*Sim, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Sim{
		scene:  scene,
		cfg:    cfg,
		rt:     rt,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.Reset(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reset rebuilds the scene and spawns a fresh rope. Viewer toggles survive.
func (s *Sim) Reset() error {
	world := collision.NewWorld(s.cfg.Collision.CellSize)
	layout, err := s.scene.Build(world, s.rt.Seed)
	if err != nil {
		return err
	}

	cfg := s.cfg
	if layout.Nodes > 0 {
		cfg.Rope.Nodes = layout.Nodes
	}
	opts := []rope.Option{rope.WithLogger(s.logger)}
	if s.sched != nil {
		opts = append(opts, rope.WithScheduler(s.sched))
	}
	r, err := rope.New(cfg.Params(layout.Origin), world, opts...)
	if err != nil {
		return err
	}
	if layout.Pin {
		if err := r.SetPin(0, layout.Origin); err != nil {
			return err
		}
	}

	if s.rope != nil {
		if err := s.rope.Close(); err != nil {
			s.logger.Warn("closing previous rope", "error", err)
		}
	}

	s.world = world
	s.rope = r
	s.layout = layout
	s.time = 0
	s.frames = 0
	s.cursor = layout.Origin
	s.err = nil
	s.positions = make([]mgl64.Vec2, 0, r.Len())
	s.contacts = make([]bool, r.Len())

	s.initial = make(map[rope.ColliderID]collision.Body, world.Len())
	for _, b := range world.Bodies() {
		s.initial[b.ID] = b
	}
	s.bounds = sceneBounds(world, layout.Origin, float64(r.Len()-1)*cfg.Rope.NodeDistance)

	s.logger.Debug("scene built",
		"scene", s.scene.ID(),
		"bodies", world.Len(),
		"nodes", r.Len(),
		"seed", s.rt.Seed,
	)
	return nil
}

// sceneBounds covers every body and the rope hanging straight down from origin.
func sceneBounds(w *collision.World, origin mgl64.Vec2, length float64) core.Bounds {
	b := core.EmptyBounds().
		Extend(origin, viewMargin).
		Extend(origin.Sub(mgl64.Vec2{0, length}), viewMargin)
	for _, body := range w.Bodies() {
		b = b.Extend(body.Position, body.BoundingRadius()+viewMargin)
	}
	return b
}

// Step applies input and advances the simulation by elapsed seconds of wall time.
// While paused only ActionStep advances it, by one frame.
func (s *Sim) Step(elapsed float64, in core.InputFrame) error {
	if in.Has(core.ActionRestart) {
		return s.Reset()
	}
	if err := s.applyInput(in); err != nil {
		return err
	}

	if s.paused {
		if !in.Has(core.ActionStep) {
			return nil
		}
		elapsed = s.rt.FrameTime()
	}
	if s.slow {
		elapsed *= SlowMotionScale
	}
	return s.advance(elapsed)
}

func (s *Sim) advance(dt float64) error {
	if dt > 0 {
		s.time += dt
	}

	if err := s.rope.Begin(dt); err != nil {
		return err
	}
	// Kinematic bodies move while the fixed steps run; the rope only reads the
	// snapshot captured by Begin.
	moved := s.scene.Animate(s.world, s.time)
	_, err := s.rope.Wait()
	if moved {
		s.rope.RequestSnapshot()
	}

	s.frames++
	s.err = err
	return err
}

func (s *Sim) applyInput(in core.InputFrame) error {
	if in.Has(core.ActionPause) {
		s.paused = !s.paused
	}
	if in.Has(core.ActionSlowMotion) {
		s.slow = !s.slow
	}
	if in.Has(core.ActionFollow) {
		s.follow = !s.follow
	}

	step := s.view.CellSize()
	if s.view.Scale <= 0 {
		step = mgl64.Vec2{0.25, 0.25}
	}
	moved := false
	for _, d := range []struct {
		action core.Action
		delta  mgl64.Vec2
	}{
		{core.ActionUp, mgl64.Vec2{0, step[1]}},
		{core.ActionDown, mgl64.Vec2{0, -step[1]}},
		{core.ActionLeft, mgl64.Vec2{-step[0], 0}},
		{core.ActionRight, mgl64.Vec2{step[0], 0}},
	} {
		if in.Has(d.action) {
			s.cursor = s.cursor.Add(d.delta)
			moved = true
		}
	}

	if in.Click != nil && s.view.Scale > 0 {
		s.cursor = s.toWorld(in.Click.X, in.Click.Y)
		if err := s.rope.SetPin(0, s.cursor); err != nil {
			return err
		}
	}

	// A pinned end follows the cursor.
	if _, pinned := s.rope.Pinned(0); pinned && moved {
		if err := s.rope.SetPin(0, s.cursor); err != nil {
			return err
		}
	}

	if in.Has(core.ActionPin) {
		if err := s.rope.SetPin(0, s.cursor); err != nil {
			return err
		}
	}
	if in.Has(core.ActionUnpin) {
		if err := s.rope.ClearPin(0); err != nil {
			return err
		}
	}
	if in.Has(core.ActionNudge) {
		if err := s.nudge(); err != nil {
			return err
		}
	}
	return nil
}

// nudge pushes the last node toward the cursor. The acceleration lasts one fixed
// step, which leaves the node moving at NudgeSpeed.
func (s *Sim) nudge() error {
	last := s.rope.Len() - 1
	dir := s.cursor.Sub(s.rope.Node(last))
	if dir.Len() == 0 {
		dir = mgl64.Vec2{1, 0}
	}
	dt := s.rope.Params().StepTime
	return s.rope.ApplyAcceleration(last, dir.Normalize().Mul(NudgeSpeed/dt))
}

// Scene returns the scene being simulated.
func (s *Sim) Scene() registry.Scene {
	return s.scene
}

// Rope returns the current rope. Reset replaces it.
func (s *Sim) Rope() *rope.Rope {
	return s.rope
}

// World returns the current collision world. Reset replaces it.
func (s *Sim) World() *collision.World {
	return s.world
}

// Config returns the configuration the simulation was built with.
func (s *Sim) Config() config.RopeConfig {
	return s.cfg
}

// Time returns the simulated seconds since the scene was built.
func (s *Sim) Time() float64 {
	return s.time
}

// Frames returns the number of frames advanced since the scene was built.
func (s *Sim) Frames() int {
	return s.frames
}

// Cursor returns the pin cursor in world coordinates.
func (s *Sim) Cursor() mgl64.Vec2 {
	return s.cursor
}

// Paused reports whether the simulation is paused.
func (s *Sim) Paused() bool {
	return s.paused
}

// SlowMotion reports whether slow motion is on.
func (s *Sim) SlowMotion() bool {
	return s.slow
}

// Following reports whether the camera follows node 0.
func (s *Sim) Following() bool {
	return s.follow
}

// Close releases the rope.
func (s *Sim) Close() error {
	return s.rope.Close()
}
