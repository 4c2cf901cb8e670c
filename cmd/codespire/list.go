package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/codespire/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available starting levels",
	Long:  `Shows every registered game ID. Each ID starts the climb at a different level.`,
	Args:  cobra.NoArgs,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	games := registry.List()
	if len(games) == 0 {
		fmt.Println("No games available.")
		return
	}

	maxIDLen := len("ID")
	for _, g := range games {
		maxIDLen = max(maxIDLen, len(g.ID))
	}

	fmt.Println("Available games:")
	fmt.Println()
	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----")
	for _, g := range games {
		fmt.Printf("  %-*s  %s\n", maxIDLen, g.ID, g.Title)
	}
	fmt.Println()
	fmt.Println("Run 'codespire play <id>' to play.")
}
