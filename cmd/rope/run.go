package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-rope/internal/core"
	"github.com/vovakirdan/tui-rope/internal/rope"
	"github.com/vovakirdan/tui-rope/internal/scenes"
	"github.com/vovakirdan/tui-rope/internal/sim"
	"github.com/vovakirdan/tui-rope/internal/storage"
)

var (
	flagSeconds float64
	flagFrame   float64
	flagOffload bool
	flagWorkers int
	flagDump    bool
	flagNoSave  bool
)

var runCmd = &cobra.Command{
	Use:   "run <scene|file.yaml>",
	Short: "Run a scene headless",
	Long: `Advance a scene without a screen and record the result.

The simulation is driven in fixed frames, so the same scene, seed and
configuration always end in the same positions. Without --seed a seed is
picked from the clock; it is printed and recorded so the run can be replayed. With --offload the fixed
steps run on a worker pool while the scene animates its bodies.

Examples:
  rope run drape
  rope run pegboard --seconds 30 --seed 7
  rope run swing --offload --workers 4
  rope run ./my-scene.yaml --dump --no-save`,
	Args:         cobra.ExactArgs(1),
	RunE:         runRun,
	SilenceUsage: true,
}

func init() {
	runCmd.Flags().Float64Var(&flagSeconds, "seconds", 10, "Simulated seconds to run")
	runCmd.Flags().Float64Var(&flagFrame, "frame", 0, "Seconds per frame (default: 1/fps)")
	runCmd.Flags().BoolVar(&flagOffload, "offload", false, "Run fixed steps on a worker pool")
	runCmd.Flags().IntVar(&flagWorkers, "workers", runtime.NumCPU(), "Worker pool size with --offload")
	runCmd.Flags().BoolVar(&flagDump, "dump", false, "Print final node positions")
	runCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Do not record the run")
}

func runRun(_ *cobra.Command, args []string) error {
	scene, err := scenes.Resolve(args[0])
	if err != nil {
		return err
	}

	ropeCfg, err := loadRopeConfig()
	if err != nil {
		return err
	}

	cfg := core.DefaultConfig()
	cfg.TickRate = flagFPS
	cfg.Seed = resolveSeed(flagSeed, time.Now)

	frame := flagFrame
	if frame == 0 {
		frame = cfg.FrameTime()
	}

	logger := newLogger()
	opts := []sim.Option{sim.WithLogger(logger)}
	if flagOffload {
		pool := rope.NewWorkerPool(flagWorkers, logger)
		defer pool.Close()
		opts = append(opts, sim.WithScheduler(pool))
	}

	s, err := sim.New(scene, ropeCfg, cfg, opts...)
	if err != nil {
		return fmt.Errorf("creating simulation: %w", err)
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Debug("run started", "scene", scene.ID(), "seed", cfg.Seed, "seconds", flagSeconds, "frame", frame, "offload", flagOffload)
	res, runErr := s.Run(ctx, flagSeconds, frame)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		logger.Error("run failed", "scene", scene.ID(), "frame", res.Frames, "error", runErr)
	}

	printResult(res, cfg.Seed)
	if flagDump {
		for i, p := range res.Positions {
			fmt.Printf("%4d  %10.4f  %10.4f\n", i, p[0], p[1])
		}
	}

	if !flagNoSave {
		saveRun(res, string(ropeCfg.Quality), cfg.Seed)
	}

	if runErr != nil {
		return fmt.Errorf("run stopped after %d frames: %w", res.Frames, runErr)
	}
	return nil
}

func printResult(res sim.Result, seed int64) {
	fmt.Printf("Scene:       %s\n", res.Scene)
	fmt.Printf("Seed:        %d\n", seed)
	fmt.Printf("Simulated:   %.2fs in %d frames\n", res.SimSeconds, res.Frames)
	fmt.Printf("Wall time:   %s\n", res.Wall.Round(time.Millisecond))
	fmt.Printf("Nodes:       %d (%d iterations, step %gs)\n", res.Params.Nodes, res.Params.Iterations, res.Params.StepTime)
	fmt.Printf("Steps:       %d over %d ticks\n", res.Stats.Steps, res.Stats.Ticks)
	fmt.Printf("Snapshots:   %d (%d partial, %d contacts dropped)\n",
		res.Stats.Snapshots, res.Stats.PartialSnapshots, res.Stats.DroppedContacts)
	if res.Stats.Failures > 0 {
		fmt.Printf("Failures:    %d\n", res.Stats.Failures)
	}
}

func saveRun(res sim.Result, quality string, seed int64) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open runs database: %v\n", err)
		return
	}
	defer store.Close()

	id, err := store.SaveRun(storage.RunRecord{
		Scene:            res.Scene,
		Quality:          quality,
		Seed:             seed,
		Nodes:            res.Params.Nodes,
		Iterations:       res.Params.Iterations,
		StepTime:         res.Params.StepTime,
		Steps:            res.Stats.Steps,
		Ticks:            res.Stats.Ticks,
		Snapshots:        res.Stats.Snapshots,
		PartialSnapshots: res.Stats.PartialSnapshots,
		Failures:         res.Stats.Failures,
		SimSeconds:       res.SimSeconds,
		Wall:             res.Wall,
		Positions:        res.Positions,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not save run: %v\n", err)
		return
	}
	fmt.Printf("Recorded as run #%d\n", id)
}
