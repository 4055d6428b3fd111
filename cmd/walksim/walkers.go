package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/walksim/internal/walker"
)

var walkersCmd = &cobra.Command{
	Use:   "walkers",
	Short: "List all walker types",
	Long:  `Shows the walker types a scenario can list under walker_types.`,
	Run:   runWalkers,
}

func runWalkers(cmd *cobra.Command, args []string) {
	kinds := walker.List()

	if len(kinds) == 0 {
		fmt.Println("No walker types available.")
		return
	}

	fmt.Println("Walker types:")
	fmt.Println()

	maxLen := 4 // "Type" header
	for _, k := range kinds {
		if len(k.Kind) > maxLen {
			maxLen = len(k.Kind)
		}
	}

	fmt.Printf("  %-*s  %s\n", maxLen, "Type", "Movement")
	fmt.Printf("  %-*s  %s\n", maxLen, "----", "--------")

	for _, k := range kinds {
		fmt.Printf("  %-*s  %s\n", maxLen, k.Kind, k.Description)
	}

	fmt.Println()
	fmt.Printf("%s takes weights [down, up, right, left, toward origin].\n", walker.KindDirectionalBias)
}
