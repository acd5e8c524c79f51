package rope

import "fmt"

// Job is one tick's worth of fixed steps. Nodes is private to the job while it
// runs; Pins and Snapshot are shared with the rope and only read.
type Job struct {
	Steps    int
	Params   Params
	Nodes    *Nodes
	Pins     *Pins
	Snapshot *Snapshot
}

// Run executes the steps: integrate once, then alternate constraint and collision
// passes Params.Iterations times.
func (j *Job) Run() {
	p := &j.Params
	for s := 0; s < j.Steps; s++ {
		Integrate(j.Nodes, p.Gravity, p.StepTime, p.MaxSimMove)

		for it := 0; it < p.Iterations; it++ {
			SolveConstraints(j.Nodes, j.Pins, p.NodeDistance)
			ResolveCollisions(j.Nodes, j.Snapshot, p.Friction)
		}
	}
}

// safeRun runs the job and converts a panic into ErrWorkerFailed.
func safeRun(j *Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrWorkerFailed, r)
		}
	}()
	j.Run()
	return nil
}
