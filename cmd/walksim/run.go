package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/walksim/internal/batch"
	"github.com/vovakirdan/walksim/internal/config"
	"github.com/vovakirdan/walksim/internal/core"
	"github.com/vovakirdan/walksim/internal/platform/tui"
	"github.com/vovakirdan/walksim/internal/sim"
	"github.com/vovakirdan/walksim/internal/stats"
	"github.com/vovakirdan/walksim/internal/storage"
)

var (
	flagConfig      string
	flagInteraction string
	flagOutDir      string
	flagInteractive bool
	flagNoSave      bool
	flagShow        []string
)

var runCmd = &cobra.Command{
	Use:   "run <runs> <steps> [config]",
	Short: "Run a batch of simulations",
	Long: `Run the scenario <runs> times for <steps> steps each and summarize the
walkers' statistics.

The scenario is loaded from, in order: the [config] argument or --config,
~/.walksim/configs/default.yaml, ./configs/default.yaml, and finally the
built-in default. YAML and JSON files are accepted.

Runs in which a walker gets trapped by obstacles are reported and left out
of the statistics. Every batch is saved to the history database unless
--no-save is given.

Interactive mode (--interactive) shows a progress bar and opens a browser
over the five statistics once the batch is done.

Examples:
  walksim run 100 1000
  walksim run 20 500 ./configs/attract.json
  walksim run 100 1000 --interaction attract --seed 42
  walksim run 1000 200 --workers 8 --out ./statistics
  walksim run 50 300 --interactive
  walksim run 10 20 --show average_walker_distance_origin`,
	Args: cobra.RangeArgs(2, 3),
	Run:  runRun,
}

func init() {
	runCmd.Flags().StringVar(&flagConfig, "config", "", "Path to scenario YAML/JSON")
	runCmd.Flags().StringVar(&flagInteraction, "interaction", "", "Override interaction mode: attract, repel, none")
	runCmd.Flags().StringVar(&flagOutDir, "out", "", "Directory for JSON statistics (not exported if empty)")
	runCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Show progress and browse statistics in a TUI")
	runCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Do not record the batch in the history database")
	runCmd.Flags().StringSliceVar(&flagShow, "show", nil, "Also print per-step tables: metric file names or 'all'")
}

func runRun(cmd *cobra.Command, args []string) {
	runs, err := positiveArg("runs", args[0])
	if err != nil {
		fatal("%v", err)
	}
	steps, err := positiveArg("steps", args[1])
	if err != nil {
		fatal("%v", err)
	}

	path := flagConfig
	if len(args) == 3 {
		path = args[2]
	}
	sc, src, err := config.Load(path)
	if err != nil {
		fatal("%v", err)
	}
	if cmd.Flags().Changed("interaction") {
		sc.Interaction = flagInteraction
		if sc.Interaction == "none" {
			sc.Interaction = string(sim.NoInteraction)
		}
	}
	// Configuration errors are fatal before any run starts.
	if _, err := config.Build(sc, steps); err != nil {
		fatal("invalid scenario %s: %v", src, err)
	}

	metrics, err := shownMetrics(flagShow)
	if err != nil {
		fatal("%v", err)
	}

	interactive := flagInteractive && term.IsTerminal(int(os.Stdout.Fd()))
	logger := newLogger()
	logger.Debug("loaded scenario", "source", src, "walkers", len(sc.WalkerTypes))

	opts := batch.Options{
		Runs:    runs,
		Runtime: core.RuntimeConfig{Seed: flagSeed, Workers: flagWorkers},
		Logger:  logger,
	}
	build := func() (*sim.Simulation, error) {
		return config.Build(sc, steps)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var res *batch.Result
	if interactive {
		// The progress view owns the terminal.
		opts.Logger = log.New(io.Discard)
		res, err = tui.RunWithProgress(ctx, build, opts)
	} else {
		res, err = batch.Run(ctx, build, opts)
	}
	if err != nil {
		fatal("%v", err)
	}

	for _, f := range res.Failures {
		logger.Warn("aborted run", "run", f.Run, "error", f.Err)
	}

	if flagOutDir != "" {
		paths, err := stats.Export(res.Stats, flagOutDir)
		if err != nil {
			fatal("%v", err)
		}
		for _, p := range paths {
			logger.Info("wrote statistics", "path", p)
		}
	}

	if !flagNoSave {
		saveBatch(logger, res, string(src), steps, sc.Interaction)
	}

	if interactive {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width = w
			height = h
		}
		if err := tui.RunReport(res.Stats, width, height); err != nil {
			fatal("%v", err)
		}
		return
	}

	fmt.Println(tui.RenderBatch(res))
	for _, m := range metrics {
		fmt.Println()
		fmt.Println(tui.RenderMetric(res.Stats, m))
	}
}

// shownMetrics resolves --show values against the known metrics.
func shownMetrics(names []string) ([]stats.Metric, error) {
	var out []stats.Metric
	for _, name := range names {
		if name == "all" {
			return stats.Metrics, nil
		}
		found := false
		for _, m := range stats.Metrics {
			if string(m) == name {
				out = append(out, m)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown metric %q", name)
		}
	}
	return out, nil
}

// saveBatch records the batch in the history database. Failures are logged,
// the batch itself already succeeded.
func saveBatch(logger *log.Logger, res *batch.Result, scenario string, steps int, interaction string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open history database", "error", err)
		return
	}
	defer store.Close()

	id, err := store.SaveBatch(storage.Batch{
		Scenario:    scenario,
		Runs:        res.Runs,
		Steps:       steps,
		Seed:        res.Seed,
		Interaction: interaction,
		Workers:     core.RuntimeConfig{Workers: flagWorkers}.WorkerCount(),
		Completed:   res.Completed,
		Aborted:     res.Aborted,
		Elapsed:     res.Elapsed,
	}, res.Stats)
	if err != nil {
		logger.Warn("could not save batch", "error", err)
		return
	}
	logger.Info("saved batch", "id", id, "runs", humanize.Comma(int64(res.Runs)))
}

func positiveArg(name, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", name, s)
	}
	if n < 1 {
		return 0, fmt.Errorf("%s must be positive, got %d", name, n)
	}
	return n, nil
}
