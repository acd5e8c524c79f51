package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-rope/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List built-in scenes",
	Long:  `Display all registered scenes with their IDs and descriptions.`,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	scenes := registry.List()

	if len(scenes) == 0 {
		fmt.Println("No scenes registered.")
		return
	}

	fmt.Println("Built-in scenes:")
	fmt.Println()
	for _, s := range scenes {
		fmt.Printf("  %-10s  %-10s  %s\n", s.ID, s.Title, s.Description)
	}
	fmt.Println()
	fmt.Println("Use 'rope play <scene>' to watch one, or pass a scene YAML file.")
}
