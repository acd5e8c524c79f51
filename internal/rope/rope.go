package rope

import (
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
)

// Stats counts what a rope has done since it was created.
type Stats struct {
	Ticks            int // Completed ticks
	Steps            int // Fixed steps executed
	Snapshots        int // Collision snapshots captured
	PartialSnapshots int // Snapshots cut short by MaxColliders
	DroppedContacts  int // Node contacts discarded by full collider lists
	Colliders        int // Colliders in the current snapshot
	Failures         int // Ticks whose job failed
}

// Option configures a Rope.
type Option func(*Rope)

// WithLogger sets the logger used for capacity and worker diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(r *Rope) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithScheduler sets where fixed-step jobs run. The default is Sequential.
func WithScheduler(s Scheduler) Option {
	return func(r *Rope) {
		if s != nil {
			r.sched = s
		}
	}
}

// Rope is one simulated chain and everything it owns.
//
// A Rope is not safe for concurrent use. Between Begin and Wait the node and pin
// buffers belong to the scheduler; SetPin and ClearPin fail with ErrTickInFlight.
type Rope struct {
	params  Params
	backend Backend
	sched   Scheduler
	logger  *log.Logger

	nodes *Nodes // published state
	work  *Nodes // private copy handed to the job
	pins  *Pins
	snap  *Snapshot
	acc   *Accumulator
	job   Job

	snapClock float64
	snapDue   bool

	pending  <-chan error
	inFlight bool
	closed   bool

	stats Stats
}

// New builds a rope from p, spawning its nodes straight down from p.Origin.
// A nil backend means the rope never collides.
func New(p Params, backend Backend, opts ...Option) (*Rope, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if backend == nil {
		backend = NoBackend{}
	}

	r := &Rope{
		params:  p,
		backend: backend,
		sched:   Sequential{},
		logger:  log.New(io.Discard),
		nodes:   NewNodes(p.Nodes, p.Origin, p.NodeDistance),
		work:    allocNodes(p.Nodes),
		pins:    NewPins(p.Nodes),
		snap:    NewSnapshot(p.MaxColliders, p.Nodes, p.MaxColliderBuffer),
		acc:     NewAccumulator(p.StepTime, p.MaxStep),
		snapDue: true,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.logger.Debug("rope created",
		"nodes", p.Nodes,
		"iterations", p.Iterations,
		"step", p.StepTime,
	)
	return r, nil
}

// Params returns the parameters the rope was built with.
func (r *Rope) Params() Params {
	return r.params
}

// Len returns the number of nodes.
func (r *Rope) Len() int {
	return r.params.Nodes
}

// SetPin pins node i to a world position from the next tick on.
func (r *Rope) SetPin(i int, p mgl64.Vec2) error {
	if err := r.mutable(); err != nil {
		return err
	}
	return r.pins.Set(i, p)
}

// ClearPin releases node i. It resumes free motion from wherever it is.
func (r *Rope) ClearPin(i int) error {
	if err := r.mutable(); err != nil {
		return err
	}
	return r.pins.Clear(i)
}

// Pinned reports whether node i is pinned and to where.
func (r *Rope) Pinned(i int) (mgl64.Vec2, bool) {
	if r.closed {
		return mgl64.Vec2{}, false
	}
	return r.pins.Pinned(i)
}

// ApplyAcceleration adds a to node i's acceleration for the next integration only.
func (r *Rope) ApplyAcceleration(i int, a mgl64.Vec2) error {
	if err := r.mutable(); err != nil {
		return err
	}
	if i < 0 || i >= r.Len() {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrNodeIndex, i, r.Len())
	}
	r.nodes.Accel[i] = r.nodes.Accel[i].Add(a)
	return nil
}

// RequestSnapshot makes the next tick recapture collisions regardless of the
// snapshot interval. Use it when the caller drives its own physics clock.
func (r *Rope) RequestSnapshot() {
	r.snapDue = true
}

// Tick advances the simulation by elapsed seconds of wall time and returns the
// number of fixed steps it ran.
func (r *Rope) Tick(elapsed float64) (int, error) {
	if err := r.Begin(elapsed); err != nil {
		return 0, err
	}
	return r.Wait()
}

// Begin starts a tick: it snapshots collisions if due, works out how many fixed
// steps elapsed covers and hands them to the scheduler. Wait must be called before
// the rope is touched again.
func (r *Rope) Begin(elapsed float64) error {
	if err := r.mutable(); err != nil {
		return err
	}

	r.advanceSnapshotClock(elapsed)
	if r.snapDue {
		r.snapshot()
	}

	steps := r.acc.Advance(elapsed)
	r.inFlight = true
	if steps == 0 {
		r.pending = nil
		return nil
	}

	r.work.CopyFrom(r.nodes)
	r.job = Job{
		Steps:    steps,
		Params:   r.params,
		Nodes:    r.work,
		Pins:     r.pins,
		Snapshot: r.snap,
	}
	r.pending = r.sched.Submit(&r.job)
	return nil
}

// Wait blocks until the tick started by Begin finishes and publishes its result.
// On failure the published nodes are left as they were before Begin.
func (r *Rope) Wait() (int, error) {
	if !r.inFlight {
		return 0, nil
	}
	r.inFlight = false

	if r.pending == nil {
		r.stats.Ticks++
		return 0, nil
	}

	err := <-r.pending
	r.pending = nil
	if err != nil {
		r.stats.Failures++
		r.logger.Error("tick failed, keeping previous state", "error", err)
		return 0, err
	}

	r.nodes.CopyFrom(r.work)
	r.stats.Ticks++
	r.stats.Steps += r.job.Steps
	return r.job.Steps, nil
}

func (r *Rope) advanceSnapshotClock(elapsed float64) {
	interval := r.params.SnapshotInterval
	if interval <= 0 {
		r.snapDue = true
		return
	}
	if elapsed > 0 {
		r.snapClock += elapsed
	}
	if r.snapClock >= interval {
		r.snapDue = true
		r.snapClock = math.Mod(r.snapClock, interval)
	}
}

func (r *Rope) snapshot() {
	complete := r.snap.Capture(r.nodes, r.backend, r.params.CollisionRadius)

	r.stats.Snapshots++
	r.stats.Colliders = r.snap.Len()

	if d := r.snap.Dropped(); d > 0 {
		r.stats.DroppedContacts += d
		r.logger.Warn("collider node list full, contacts dropped",
			"dropped", d,
			"limit", r.params.Nodes,
		)
	}

	if !complete {
		// Keep the request so the next tick tries again.
		r.stats.PartialSnapshots++
		r.logger.Warn("collision snapshot full, using partial result",
			"colliders", r.snap.Len(),
			"limit", r.params.MaxColliders,
		)
		return
	}
	r.snapDue = false
}

func (r *Rope) mutable() error {
	if r.closed {
		return ErrClosed
	}
	if r.inFlight {
		return ErrTickInFlight
	}
	return nil
}

// Positions returns a copy of the current node positions.
func (r *Rope) Positions() []mgl64.Vec2 {
	return r.PositionsInto(nil)
}

// PositionsInto appends the current node positions to dst[:0] and returns it.
func (r *Rope) PositionsInto(dst []mgl64.Vec2) []mgl64.Vec2 {
	if r.closed {
		return dst[:0]
	}
	return append(dst[:0], r.nodes.Pos...)
}

// Node returns the position of node i.
func (r *Rope) Node(i int) mgl64.Vec2 {
	return r.nodes.Pos[i]
}

// Stretch returns the length of the segment starting at node i divided by the rest
// length. The last node reports the segment that ends at it.
func (r *Rope) Stretch(i int) float64 {
	if i >= r.Len()-1 {
		i = r.Len() - 2
	}
	d := r.nodes.Pos[i].Sub(r.nodes.Pos[i+1]).Len()
	if r.params.NodeDistance == 0 {
		return 1
	}
	return d / r.params.NodeDistance
}

// Contacts marks in dst the nodes listed by the current collision snapshot.
func (r *Rope) Contacts(dst []bool) {
	if r.closed {
		return
	}
	r.snap.MarkContacts(dst)
}

// Snapshot exposes the current collision snapshot for inspection.
func (r *Rope) Snapshot() *Snapshot {
	return r.snap
}

// Remainder returns the time carried over to the next tick.
func (r *Rope) Remainder() float64 {
	return r.acc.Remainder()
}

// Stats returns the rope's counters.
func (r *Rope) Stats() Stats {
	return r.stats
}

// Close finishes any tick in flight and releases the rope's buffers.
// Node, Stretch and Snapshot must not be called afterwards.
func (r *Rope) Close() error {
	if r.closed {
		return nil
	}
	var err error
	if r.inFlight {
		_, err = r.Wait()
	}
	r.closed = true
	r.nodes, r.work, r.pins, r.snap = nil, nil, nil, nil
	return err
}
