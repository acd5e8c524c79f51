package rope

import "math"

// Accumulator converts variable frame time into a whole number of fixed steps.
type Accumulator struct {
	Step float64 // Fixed step duration in seconds
	Max  float64 // Upper bound on accumulated time, caps catch-up after a stall

	acc float64
}

// NewAccumulator creates an empty accumulator.
func NewAccumulator(step, max float64) *Accumulator {
	return &Accumulator{Step: step, Max: max}
}

// Advance adds elapsed seconds and returns how many full steps are now due.
// The accumulated time is clamped to Max before dividing and the time of every
// counted step is subtracted; what is left is kept for the next call. Negative elapsed time counts as zero.
func (a *Accumulator) Advance(elapsed float64) int {
	if elapsed > 0 {
		a.acc += elapsed
	}
	a.acc = math.Min(a.acc, a.Max)

	steps := int(a.acc / a.Step)
	a.acc = math.Max(0, a.acc-float64(steps)*a.Step)
	return steps
}

// Remainder returns the time carried over to the next Advance.
func (a *Accumulator) Remainder() float64 {
	return a.acc
}

// Reset drops any carried-over time.
func (a *Accumulator) Reset() {
	a.acc = 0
}
