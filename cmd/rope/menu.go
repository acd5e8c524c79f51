package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-rope/internal/platform/tui"
	"github.com/vovakirdan/tui-rope/internal/registry"
	"github.com/vovakirdan/tui-rope/internal/sim"
	"github.com/vovakirdan/tui-rope/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a scene picker menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to open a scene.
Leaving the viewer returns you to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Open scene
  Tab          - Recorded runs
  Q            - Quit

Examples:
  rope menu
  rope menu --fps 30
  rope menu --quality low`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	ropeCfg, err := loadRopeConfig()
	if err != nil {
		exitf("%v", err)
	}

	// Open run storage for the runs board
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open runs database: %v\n", err)
		store = nil
	}

	logger := newLogger()
	cfg := runtimeConfig()

	// Menu loop
	for {
		menuResult, err := tui.RunMenu(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}

		// Update config with any size changes
		cfg = menuResult.Config

		if menuResult.Quit {
			break
		}

		if menuResult.WantsRuns {
			if store == nil {
				fmt.Fprintln(os.Stderr, "Error: runs database unavailable")
				continue
			}
			goBack, rbErr := tui.RunRunsBoard(store, "", cfg.ScreenW, cfg.ScreenH)
			if rbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", rbErr)
			}
			if goBack {
				continue // Back to menu
			}
			break // User quit from the runs board
		}

		if menuResult.SceneID == "" {
			break
		}

		scene, err := registry.Create(menuResult.SceneID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating scene: %v\n", err)
			continue
		}

		// Fresh seed for each scene unless one was given
		cfg.Seed = resolveSeed(flagSeed, time.Now)

		s, err := sim.New(scene, ropeCfg, cfg, sim.WithLogger(logger))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating simulation: %v\n", err)
			continue
		}

		if err := tui.Run(s, cfg, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Error running viewer: %v\n", err)
		}
		s.Close()

		// Loop back to menu
	}

	if store != nil {
		store.Close()
	}
}
