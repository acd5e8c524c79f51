package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-rope/internal/storage"
)

var (
	flagRunsLimit int
	flagRunsClear bool
)

var runsCmd = &cobra.Command{
	Use:   "runs [scene]",
	Short: "Show recorded runs",
	Long: `Display the most recent headless runs, optionally for one scene.

Examples:
  rope runs
  rope runs pegboard --limit 20
  rope runs swing --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&flagRunsLimit, "limit", 10, "Number of runs to show")
	runsCmd.Flags().BoolVar(&flagRunsClear, "clear", false, "Delete the recorded runs instead")
}

func runRuns(_ *cobra.Command, args []string) {
	scene := ""
	if len(args) == 1 {
		scene = args[0]
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		exitf("opening runs database: %v", err)
	}
	defer store.Close()

	if flagRunsClear {
		if err := store.ClearRuns(scene); err != nil {
			store.Close()
			exitf("clearing runs: %v", err)
		}
		fmt.Println("Runs cleared.")
		return
	}

	runs, err := store.RecentRuns(scene, flagRunsLimit)
	if err != nil {
		store.Close()
		exitf("retrieving runs: %v", err)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Use 'rope run <scene>' to record one.")
		return
	}

	// Print header
	fmt.Printf("  %-5s  %-10s  %-7s  %-6s  %-8s  %-9s  %-10s  %s\n",
		"#", "Scene", "Quality", "Nodes", "Steps", "Wall", "Steps/s", "Date")
	fmt.Printf("  %-5s  %-10s  %-7s  %-6s  %-8s  %-9s  %-10s  %s\n",
		"-", "-----", "-------", "-----", "-----", "----", "-------", "----")

	for _, r := range runs {
		fmt.Printf("  %-5d  %-10s  %-7s  %-6d  %-8d  %-9s  %-10.0f  %s\n",
			r.ID, r.Scene, r.Quality, r.Nodes, r.Steps,
			r.Wall.Round(time.Millisecond), r.StepsPerSecond(),
			r.CreatedAt.Format("2006-01-02 15:04"))
	}

	if scene == "" {
		return
	}
	stats, err := store.GetSceneStats(scene)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load scene stats: %v\n", err)
		return
	}
	if stats != nil && stats.Runs > 0 {
		fmt.Println()
		fmt.Printf("  %d runs, %d steps total, average %s, best %s\n",
			stats.Runs, stats.TotalSteps,
			stats.AvgWall.Round(time.Millisecond), stats.BestWall.Round(time.Millisecond))
	}
}
