package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/walksim/internal/config"
)

var flagPrint bool

var validateCmd = &cobra.Command{
	Use:   "validate [config]",
	Short: "Check a scenario without running it",
	Long: `Load a scenario the way 'walksim run' would and check it: walker types,
bias weights, interaction mode and the layout (nothing blocking the origin,
no overlapping obstacles, gates or terrains, gate exits outside obstacles
and their own entrance).

Examples:
  walksim validate
  walksim validate ./configs/attract.json
  walksim validate --print > my-scenario.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&flagPrint, "print", false, "Print the loaded scenario as YAML")
}

func runValidate(cmd *cobra.Command, args []string) {
	path := ""
	if len(args) == 1 {
		path = args[0]
	}

	sc, src, err := config.Load(path)
	if err != nil {
		fatal("%v", err)
	}
	if err := sc.Validate(); err != nil {
		fatal("invalid scenario %s: %v", src, err)
	}

	if flagPrint {
		out, err := config.Marshal(sc)
		if err != nil {
			fatal("%v", err)
		}
		os.Stdout.Write(out)
		return
	}

	interaction := sc.Interaction
	if interaction == "" {
		interaction = "none"
	}
	fmt.Printf("Scenario %s is valid.\n", src)
	fmt.Println()
	fmt.Printf("  %-12s %d\n", "walkers", len(sc.WalkerTypes))
	fmt.Printf("  %-12s %s\n", "interaction", interaction)
	fmt.Printf("  %-12s %d\n", "obstacles", len(sc.Obstacles))
	fmt.Printf("  %-12s %d\n", "waters", len(sc.Waters))
	fmt.Printf("  %-12s %d\n", "sands", len(sc.Sands))
	fmt.Printf("  %-12s %d\n", "grasses", len(sc.Grasses))
	fmt.Printf("  %-12s %d\n", "gates", len(sc.Gates))
}
