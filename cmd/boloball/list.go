package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/boloball/internal/games/boloball"
	"github.com/vovakirdan/boloball/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all board variants",
	Long:  `Shows every registered board variant with its size.`,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	games := registry.List()

	if len(games) == 0 {
		fmt.Println("No variants available.")
		return
	}

	fmt.Println("Available variants:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, g := range games {
		if len(g.ID) > maxIDLen {
			maxIDLen = len(g.ID)
		}
	}

	fmt.Printf("  %-*s  %-7s  %s\n", maxIDLen, "ID", "Size", "Title")
	fmt.Printf("  %-*s  %-7s  %s\n", maxIDLen, "--", "----", "-----")

	for _, g := range games {
		size := "?"
		if inst, err := registry.Create(g.ID); err == nil {
			if bg, ok := inst.(*boloball.Game); ok {
				size = fmt.Sprintf("%dx%d", bg.Board().Rows, bg.Board().Cols)
			}
		}
		fmt.Printf("  %-*s  %-7s  %s\n", maxIDLen, g.ID, size, g.Title)
	}

	fmt.Println()
	fmt.Println("Run 'boloball play <id>' to play a variant.")
}
