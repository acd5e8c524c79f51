// rope is a terminal Verlet rope simulator.
//
// Usage:
//
//	rope list                  - List built-in scenes
//	rope play <scene|file>     - Watch a scene in the terminal
//	rope menu                  - Pick scenes interactively
//	rope run <scene|file>      - Run a scene headless and record it
//	rope runs [scene]          - Show recorded runs
//	rope serve                 - Start SSH server for remote viewing
//
// Global flags:
//
//	--fps <rate>       - Set tick rate (default: 60)
//	--seed <value>     - Set RNG seed for seeded scenes
//	--db <path>        - Set database path (default: ~/.rope/runs.db)
//	--config <path>    - Rope configuration YAML
//	--quality <name>   - Quality preset: low, normal, high, exact
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-rope/internal/config"
	"github.com/vovakirdan/tui-rope/internal/core"

	// Import scenes to register them
	_ "github.com/vovakirdan/tui-rope/internal/scenes"
)

var (
	// Global flags
	flagFPS     int
	flagSeed    int64
	flagDBPath  string
	flagConfig  string
	flagQuality string
	flagVerbose bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "rope",
	SilenceErrors: true,
	Short:         "Rope - A Verlet rope simulator for your terminal",
	Long: `Rope simulates a chain of point masses joined by distance constraints
and drapes it over circles and boxes, drawn right in your terminal.

Available commands:
  list     - Show all built-in scenes
  play     - Watch a scene directly
  menu     - Interactive scene picker
  run      - Run a scene headless and record the result
  runs     - View recorded runs
  serve    - Start SSH server for remote viewing

Examples:
  rope list
  rope play drape
  rope play ./my-scene.yaml --quality high
  rope run pegboard --seconds 10 --offload
  rope serve --ssh :2222`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.rope/runs.db", "Path to runs database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom rope config YAML")
	rootCmd.PersistentFlags().StringVar(&flagQuality, "quality", "", "Quality preset: low, normal, high, exact")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug output to stderr")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(serveCmd)
}

// newLogger returns the stderr logger shared by every command.
func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "rope",
	})
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// loadRopeConfig loads --config and applies --quality over it. A quality given on
// the command line wins over the one in the file.
func loadRopeConfig() (config.RopeConfig, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}

	name := flagQuality
	if name == "" {
		name = string(cfg.Quality)
	}
	preset, err := config.ParseQuality(name)
	if err != nil {
		return cfg, err
	}
	config.ApplyQualityPreset(&cfg, preset)

	return cfg, cfg.Validate()
}

// resolveSeed returns seed, or a seed taken from now when seed is 0.
func resolveSeed(seed int64, now func() time.Time) int64 {
	if seed != 0 {
		return seed
	}
	return now().UnixNano()
}

// runtimeConfig builds the runtime settings from the terminal size and global flags.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	return cfg
}

func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
