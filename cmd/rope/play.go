package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-rope/internal/platform/tui"
	"github.com/vovakirdan/tui-rope/internal/registry"
	"github.com/vovakirdan/tui-rope/internal/scenes"
	"github.com/vovakirdan/tui-rope/internal/sim"
)

var playCmd = &cobra.Command{
	Use:   "play <scene|file.yaml>",
	Short: "Watch a scene",
	Long: `Start the viewer on a built-in scene or a scene YAML file.

Controls:
  Arrows/hjkl  - Move the pin cursor (drags node 0 while pinned)
  Mouse        - Click or drag to pin node 0, right click to release
  Space        - Pin node 0 at the cursor
  U            - Release node 0
  N            - Nudge the free end toward the cursor
  A            - Toggle slow motion
  F            - Camera follows node 0
  P            - Pause/resume
  .            - Advance one frame while paused
  R            - Rebuild the scene
  Ctrl+S       - Save a screenshot
  Q/Ctrl+C     - Quit

Quality options:
  low    - Fewer solver passes and a longer step
  normal - The configuration as loaded
  high   - Twice the passes at half the step
  exact  - As high, and snapshots every tick

Examples:
  rope play drape
  rope play pegboard --seed 42
  rope play swing --quality high
  rope play ./my-scene.yaml --config ./my-rope.yaml`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func runPlay(_ *cobra.Command, args []string) {
	scene, err := scenes.Resolve(args[0])
	if err != nil {
		if errors.Is(err, registry.ErrUnknownScene) {
			fmt.Fprintf(os.Stderr, "Error: unknown scene %q\n", args[0])
			fmt.Fprintln(os.Stderr, "Run 'rope list' to see available scenes.")
			os.Exit(1)
		}
		exitf("%v", err)
	}

	ropeCfg, err := loadRopeConfig()
	if err != nil {
		exitf("%v", err)
	}

	cfg := runtimeConfig()
	cfg.Seed = resolveSeed(flagSeed, time.Now)

	logger := newLogger()
	s, err := sim.New(scene, ropeCfg, cfg, sim.WithLogger(logger))
	if err != nil {
		exitf("creating simulation: %v", err)
	}

	runErr := tui.Run(s, cfg, logger)

	// Close the sim before potential exit
	s.Close()

	if runErr != nil {
		exitf("running viewer: %v", runErr)
	}
}
