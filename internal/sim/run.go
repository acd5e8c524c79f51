package sim

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/vovakirdan/tui-rope/internal/rope"
)

// Result summarizes a headless run.
type Result struct {
	Scene      string
	Frames     int
	SimSeconds float64
	Wall       time.Duration
	Params     rope.Params
	Stats      rope.Stats
	Positions  []mgl64.Vec2 // Final node positions
}

// Run advances the simulation without a screen for seconds of simulated time in
// frames of frame seconds. It stops early when ctx is cancelled.
func (s *Sim) Run(ctx context.Context, seconds, frame float64) (Result, error) {
	if frame <= 0 {
		return Result{}, fmt.Errorf("sim: frame time must be positive, got %g", frame)
	}

	frames := int(math.Ceil(seconds/frame - 1e-9))
	start := time.Now()

	for i := 0; i < frames; i++ {
		if err := ctx.Err(); err != nil {
			return s.result(start), err
		}
		if err := s.advance(frame); err != nil {
			return s.result(start), err
		}
	}

	return s.result(start), nil
}

func (s *Sim) result(start time.Time) Result {
	return Result{
		Scene:      s.scene.ID(),
		Frames:     s.frames,
		SimSeconds: s.time,
		Wall:       time.Since(start),
		Params:     s.rope.Params(),
		Stats:      s.rope.Stats(),
		Positions:  s.rope.Positions(),
	}
}
