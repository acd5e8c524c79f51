package rope

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const testStep = 1.0 / 64

func testParams() Params {
	p := DefaultParams()
	p.Nodes = 16
	p.Iterations = 8
	p.StepTime = testStep
	p.MaxStep = 16 * testStep
	p.SnapshotInterval = 0
	return p
}

func testBackend() listBackend {
	return listBackend{
		circleAt(1, mgl64.Vec2{0.3, -0.8}, 0.4),
		boxAt(2, mgl64.Vec2{-0.2, -1.2}, mgl64.Vec2{0.5, 0.1}, 0.4, mgl64.Vec2{1, 2}),
	}
}

func mustNew(t *testing.T, p Params, b Backend, opts ...Option) *Rope {
	t.Helper()
	r, err := New(p, b, opts...)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestNewValidates(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Params)
		want   error
	}{
		{"one node", func(p *Params) { p.Nodes = 1 }, ErrTooFewNodes},
		{"zero step", func(p *Params) { p.StepTime = 0 }, ErrStepTime},
		{"negative step", func(p *Params) { p.StepTime = -1 }, ErrStepTime},
		{"max below step", func(p *Params) { p.MaxStep = p.StepTime / 2 }, ErrMaxStep},
		{"negative iterations", func(p *Params) { p.Iterations = -1 }, ErrIterations},
		{"no collider slots", func(p *Params) { p.MaxColliders = 0 }, ErrCapacity},
		{"no query buffer", func(p *Params) { p.MaxColliderBuffer = 0 }, ErrCapacity},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := testParams()
			tc.modify(&p)
			if _, err := New(p, nil); !errors.Is(err, tc.want) {
				t.Errorf("New() error = %v, expected %v", err, tc.want)
			}
		})
	}

	if _, err := New(DefaultParams(), nil); err != nil {
		t.Errorf("New(DefaultParams()) failed: %v", err)
	}
}

func TestSpawnLayout(t *testing.T) {
	p := testParams()
	p.Origin = mgl64.Vec2{1, 4}
	p.NodeDistance = 0.25
	r := mustNew(t, p, nil)

	pos := r.Positions()
	if len(pos) != p.Nodes {
		t.Fatalf("len(Positions()) = %d, expected %d", len(pos), p.Nodes)
	}
	for i, got := range pos {
		want := mgl64.Vec2{1, 4 - 0.25*float64(i)}
		if got != want {
			t.Errorf("node %d at %v, expected %v", i, got, want)
		}
	}
	if s := r.Stretch(0); s != 1 {
		t.Errorf("Stretch(0) = %v at spawn, expected 1", s)
	}
}

func TestTickZeroIsIdempotent(t *testing.T) {
	r := mustNew(t, testParams(), testBackend())

	for i := 0; i < 3; i++ {
		if _, err := r.Tick(5 * testStep / 2); err != nil {
			t.Fatalf("Tick() failed: %v", err)
		}
	}

	before := r.Positions()
	remainder := r.Remainder()

	steps, err := r.Tick(0)
	if err != nil {
		t.Fatalf("Tick(0) failed: %v", err)
	}
	if steps != 0 {
		t.Errorf("Tick(0) ran %d steps, expected 0", steps)
	}
	if r.Remainder() != remainder {
		t.Errorf("Remainder() = %v, expected %v", r.Remainder(), remainder)
	}
	for i, p := range r.Positions() {
		if p != before[i] {
			t.Errorf("node %d moved from %v to %v", i, before[i], p)
		}
	}
}

func TestTickStepCounts(t *testing.T) {
	r := mustNew(t, testParams(), nil)

	steps, err := r.Tick(2.5 * testStep)
	if err != nil {
		t.Fatalf("Tick() failed: %v", err)
	}
	if steps != 2 {
		t.Errorf("Tick(2.5 steps) = %d, expected 2", steps)
	}
	if r.Remainder() != 0.5*testStep {
		t.Errorf("Remainder() = %v, expected %v", r.Remainder(), 0.5*testStep)
	}

	steps, _ = r.Tick(0.5 * testStep)
	if steps != 1 {
		t.Errorf("Tick(0.5 step) after remainder = %d, expected 1", steps)
	}

	if st := r.Stats(); st.Steps != 3 || st.Ticks != 2 {
		t.Errorf("Stats() = %+v, expected 3 steps over 2 ticks", st)
	}
}

func TestTickClampsCatchUp(t *testing.T) {
	p := testParams()
	p.MaxStep = p.StepTime
	r := mustNew(t, p, nil)

	steps, err := r.Tick(100 * testStep)
	if err != nil {
		t.Fatalf("Tick() failed: %v", err)
	}
	if steps != 1 {
		t.Errorf("Tick(100 steps) with max one step = %d, expected 1", steps)
	}
}

func TestGravityPullsFreeRope(t *testing.T) {
	r := mustNew(t, testParams(), nil)

	start := r.Node(r.Len() - 1)
	r.Tick(4 * testStep)

	if got := r.Node(r.Len() - 1); got[1] >= start[1] {
		t.Errorf("free end at %v, expected below %v", got, start)
	}
}

func TestPinHoldsNode(t *testing.T) {
	r := mustNew(t, testParams(), testBackend())
	target := mgl64.Vec2{3, 4}

	if err := r.SetPin(0, target); err != nil {
		t.Fatalf("SetPin() failed: %v", err)
	}

	for i := 0; i < 5; i++ {
		r.Tick(3 * testStep)
		if got := r.Node(0); got != target {
			t.Fatalf("tick %d: pinned node at %v, expected exactly %v", i, got, target)
		}
	}

	if p, ok := r.Pinned(0); !ok || p != target {
		t.Errorf("Pinned(0) = %v, %v", p, ok)
	}
}

func TestClearPinResumesMotion(t *testing.T) {
	r := mustNew(t, testParams(), nil)
	target := r.Node(0)

	r.SetPin(0, target)
	r.Tick(testStep)
	r.Tick(testStep)

	if err := r.ClearPin(0); err != nil {
		t.Fatalf("ClearPin() failed: %v", err)
	}
	if _, ok := r.Pinned(0); ok {
		t.Fatal("Pinned(0) should be false after ClearPin")
	}

	r.Tick(testStep)
	if got := r.Node(0); got[1] >= target[1] {
		t.Errorf("released node at %v, expected it to fall below %v", got, target)
	}
}

func TestPinErrors(t *testing.T) {
	r := mustNew(t, testParams(), nil)

	if err := r.SetPin(r.Len(), mgl64.Vec2{}); !errors.Is(err, ErrNodeIndex) {
		t.Errorf("SetPin(out of range) error = %v, expected ErrNodeIndex", err)
	}
	if err := r.ClearPin(-1); !errors.Is(err, ErrNodeIndex) {
		t.Errorf("ClearPin(-1) error = %v, expected ErrNodeIndex", err)
	}
	if err := r.ApplyAcceleration(99, mgl64.Vec2{}); !errors.Is(err, ErrNodeIndex) {
		t.Errorf("ApplyAcceleration(99) error = %v, expected ErrNodeIndex", err)
	}
}

func TestApplyAccelerationLastsOneStep(t *testing.T) {
	p := testParams()
	p.Gravity = mgl64.Vec2{}
	p.Iterations = 0
	p.MaxSimMove = 0
	r := mustNew(t, p, nil)

	r.ApplyAcceleration(3, mgl64.Vec2{64 * 64, 0})
	r.Tick(testStep)
	if got := r.Node(3)[0]; got != 1 {
		t.Fatalf("node 3 x = %v after one step, expected 1", got)
	}

	// Only momentum is left: one more unit per step.
	r.Tick(testStep)
	if got := r.Node(3)[0]; got != 2 {
		t.Errorf("node 3 x = %v after two steps, expected 2", got)
	}
}

func TestCollisionPushesNodesOut(t *testing.T) {
	p := testParams()
	p.Gravity = mgl64.Vec2{}
	circle := circleAt(1, mgl64.Vec2{0.05, -0.75}, 0.3)
	r := mustNew(t, p, listBackend{circle})

	r.Tick(testStep)

	for i, pos := range r.Positions() {
		if d := pos.Sub(circle.Position).Len(); d < 0.3-1e-9 {
			t.Errorf("node %d at distance %v from the circle center, expected >= 0.3", i, d)
		}
	}
	if r.Stats().Colliders != 1 {
		t.Errorf("Stats().Colliders = %d, expected 1", r.Stats().Colliders)
	}

	contacts := make([]bool, r.Len())
	r.Contacts(contacts)
	if !contacts[7] {
		t.Errorf("node 7 should be marked as a contact: %v", contacts)
	}
}

func TestPinnedNodeInsideColliderEndsOnSurface(t *testing.T) {
	p := testParams()
	p.Gravity = mgl64.Vec2{}
	p.Origin = mgl64.Vec2{0.1, 0}
	r := mustNew(t, p, listBackend{circleAt(1, mgl64.Vec2{}, 0.5)})

	target := mgl64.Vec2{0.1, 0}
	if err := r.SetPin(0, target); err != nil {
		t.Fatalf("SetPin() failed: %v", err)
	}
	if _, err := r.Tick(testStep); err != nil {
		t.Fatalf("Tick() failed: %v", err)
	}

	// The collision pass runs after the last constraint pass, so the pinned node
	// is left on the circle rather than at its target.
	if got := r.Node(0); !nearVec(got, mgl64.Vec2{0.5, 0}, 1e-9) {
		t.Errorf("node 0 at %v, expected on the surface at (0.5, 0)", got)
	}
	if pin, ok := r.Pinned(0); !ok || pin != target {
		t.Errorf("Pinned(0) = %v, %v; expected the target to stay set", pin, ok)
	}
}

func TestSnapshotCapacityReported(t *testing.T) {
	p := testParams()
	p.MaxColliders = 4
	r := mustNew(t, p, &perNodeBackend{perQuery: 2})

	if _, err := r.Tick(testStep); err != nil {
		t.Fatalf("Tick() failed: %v", err)
	}

	if got := r.Snapshot().Len(); got != 4 {
		t.Errorf("Snapshot().Len() = %d, expected 4", got)
	}
	st := r.Stats()
	if st.PartialSnapshots != 1 {
		t.Errorf("PartialSnapshots = %d, expected 1", st.PartialSnapshots)
	}
}

func TestSnapshotInterval(t *testing.T) {
	p := testParams()
	p.SnapshotInterval = 4 * testStep
	r := mustNew(t, p, testBackend())

	for i := 0; i < 8; i++ {
		r.Tick(testStep)
	}

	// One on the first tick, then one every four ticks.
	if got := r.Stats().Snapshots; got != 3 {
		t.Errorf("Snapshots = %d, expected 3", got)
	}

	r.RequestSnapshot()
	r.Tick(testStep)
	if got := r.Stats().Snapshots; got != 4 {
		t.Errorf("Snapshots = %d after RequestSnapshot, expected 4", got)
	}
}

func runScript(t *testing.T, r *Rope) []mgl64.Vec2 {
	t.Helper()
	frames := []float64{testStep, 2.5 * testStep, 0.3 * testStep, 4 * testStep, 0, 7 * testStep}
	for i, dt := range frames {
		switch i {
		case 1:
			r.SetPin(0, mgl64.Vec2{0.5, 0.25})
		case 3:
			r.ApplyAcceleration(10, mgl64.Vec2{40, 0})
		case 4:
			r.ClearPin(0)
		}
		if _, err := r.Tick(dt); err != nil {
			t.Fatalf("frame %d: Tick() failed: %v", i, err)
		}
	}
	return r.Positions()
}

func TestDeterminism(t *testing.T) {
	pool := NewWorkerPool(3, nil)
	defer pool.Close()

	tests := []struct {
		name string
		opts []Option
	}{
		{"sequential", nil},
		{"worker pool", []Option{WithScheduler(pool)}},
	}

	want := runScript(t, mustNew(t, testParams(), testBackend()))

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := runScript(t, mustNew(t, testParams(), testBackend(), tc.opts...))
			for i := range want {
				if got[i] != want[i] {
					t.Fatalf("node %d = %v, expected bit-identical %v", i, got[i], want[i])
				}
			}
		})
	}
}

// gateScheduler holds every job until the test releases it.
type gateScheduler struct {
	done chan error
}

func (g *gateScheduler) Submit(j *Job) <-chan error {
	return g.done
}

func TestMutationDuringTickRejected(t *testing.T) {
	gate := &gateScheduler{done: make(chan error, 1)}
	r := mustNew(t, testParams(), nil, WithScheduler(gate))

	if err := r.Begin(testStep); err != nil {
		t.Fatalf("Begin() failed: %v", err)
	}
	if !r.inFlight {
		t.Fatal("tick should be in flight after Begin")
	}

	if err := r.SetPin(0, mgl64.Vec2{}); !errors.Is(err, ErrTickInFlight) {
		t.Errorf("SetPin() error = %v, expected ErrTickInFlight", err)
	}
	if err := r.ClearPin(0); !errors.Is(err, ErrTickInFlight) {
		t.Errorf("ClearPin() error = %v, expected ErrTickInFlight", err)
	}
	if err := r.Begin(testStep); !errors.Is(err, ErrTickInFlight) {
		t.Errorf("second Begin() error = %v, expected ErrTickInFlight", err)
	}

	gate.done <- nil
	if _, err := r.Wait(); err != nil {
		t.Fatalf("Wait() failed: %v", err)
	}
	if err := r.SetPin(0, mgl64.Vec2{}); err != nil {
		t.Errorf("SetPin() after Wait failed: %v", err)
	}
}

// failScheduler runs the job and then reports a failure anyway.
type failScheduler struct{}

func (failScheduler) Submit(j *Job) <-chan error {
	j.Run()
	done := make(chan error, 1)
	done <- errors.New("boom")
	return done
}

func TestFailedTickKeepsState(t *testing.T) {
	r := mustNew(t, testParams(), nil, WithScheduler(failScheduler{}))
	before := r.Positions()

	if _, err := r.Tick(4 * testStep); err == nil {
		t.Fatal("Tick() should report the job failure")
	}

	for i, p := range r.Positions() {
		if p != before[i] {
			t.Fatalf("node %d changed to %v after a failed tick", i, p)
		}
	}
	st := r.Stats()
	if st.Failures != 1 || st.Ticks != 0 {
		t.Errorf("Stats() = %+v, expected 1 failure and no ticks", st)
	}
	if r.inFlight {
		t.Error("tick should not be in flight after a failed Wait")
	}
}

func TestSafeRunRecoversPanic(t *testing.T) {
	p := testParams()
	j := &Job{
		Steps:    1,
		Params:   p,
		Nodes:    NewNodes(p.Nodes, mgl64.Vec2{}, p.NodeDistance),
		Snapshot: NewSnapshot(1, p.Nodes, 1),
		// Pins missing: the solver dereferences nil.
	}

	if err := safeRun(j); !errors.Is(err, ErrWorkerFailed) {
		t.Errorf("safeRun() error = %v, expected ErrWorkerFailed", err)
	}
}

func TestClose(t *testing.T) {
	r, err := New(testParams(), nil)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if err := r.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("second Close() failed: %v", err)
	}

	if _, err := r.Tick(testStep); !errors.Is(err, ErrClosed) {
		t.Errorf("Tick() after Close error = %v, expected ErrClosed", err)
	}
	if err := r.SetPin(0, mgl64.Vec2{}); !errors.Is(err, ErrClosed) {
		t.Errorf("SetPin() after Close error = %v, expected ErrClosed", err)
	}
	if got := r.Positions(); len(got) != 0 {
		t.Errorf("Positions() after Close = %v, expected empty", got)
	}
	if _, ok := r.Pinned(0); ok {
		t.Error("Pinned() after Close should be false")
	}
}
