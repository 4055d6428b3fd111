// walksim runs batches of 2D random-walk simulations and reports their statistics.
//
// Usage:
//
//	walksim run <runs> <steps> [config]  - Run a batch and summarize it
//	walksim walkers                      - List walker types
//	walksim validate [config]            - Check a scenario file
//	walksim history                      - Browse saved batches
//	walksim serve                        - Serve the history browser over SSH
//
// Global flags:
//
//	--seed <value>      - Base RNG seed for reproducible batches
//	--workers <n>       - Simulations run concurrently
//	--db <path>         - Set database path (default: ~/.walksim/history.db)
//	--log-level <lvl>   - debug, info, warn or error
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/walksim/internal/storage"
)

var (
	// Global flags
	flagSeed     int64
	flagWorkers  int
	flagDBPath   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "walksim",
	Short: "walksim - 2D random-walk simulator",
	Long: `walksim moves a set of walkers over a plane with terrain, obstacles and
gates, repeats the simulation many times and reports how far the walkers got.

Available commands:
  run       - Run a batch of simulations
  walkers   - Show all walker types
  validate  - Check a scenario file without running it
  history   - Browse previously saved batches
  serve     - Start SSH server for remote history browsing

Examples:
  walksim walkers
  walksim run 100 1000
  walksim run 50 500 ./configs/attract.json --interaction repel
  walksim history
  walksim serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "Base RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().IntVar(&flagWorkers, "workers", 1, "Simulations run concurrently")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", storage.DefaultPath, "Path to history database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(walkersCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
}

// logLevel parses --log-level, falling back to info.
func logLevel() log.Level {
	lvl, err := log.ParseLevel(strings.ToLower(flagLogLevel))
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// newLogger builds the CLI logger.
func newLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "walksim",
		Level:           logLevel(),
	})
}

// fatal prints an error and exits with status 1.
func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
