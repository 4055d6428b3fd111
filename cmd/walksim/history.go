package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/walksim/internal/platform/tui"
	"github.com/vovakirdan/walksim/internal/storage"
)

var (
	flagHistoryLimit int
	flagPlain        bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse saved batches",
	Long: `Browse the batches recorded by 'walksim run'.

In a terminal this opens an interactive browser; press enter on a batch to
see its walker summaries. With --plain, or when stdout is not a terminal,
the most recent batches are printed instead.

Examples:
  walksim history
  walksim history --plain --limit 5
  walksim history show 1b4e28ba-2fa1-11d2-883f-0016d3cca427
  walksim history rm 1b4e28ba-2fa1-11d2-883f-0016d3cca427`,
	Args: cobra.NoArgs,
	Run:  runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the walker summaries of a batch",
	Args:  cobra.ExactArgs(1),
	Run:   runHistoryShow,
}

var historyRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a batch from the history",
	Args:  cobra.ExactArgs(1),
	Run:   runHistoryRm,
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 20, "Number of batches to print with --plain")
	historyCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print instead of opening the browser")

	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyRmCmd)
}

func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fatal("opening history database: %v", err)
	}
	return store
}

func runHistory(cmd *cobra.Command, args []string) {
	store := openStore()
	defer store.Close()

	if !flagPlain && term.IsTerminal(int(os.Stdout.Fd())) {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width = w
			height = h
		}
		if err := tui.RunHistory(store, width, height); err != nil {
			fatal("%v", err)
		}
		return
	}

	batches, err := store.RecentBatches(flagHistoryLimit)
	if err != nil {
		fatal("%v", err)
	}

	if len(batches) == 0 {
		fmt.Println("No batches recorded yet.")
		fmt.Println()
		fmt.Println("Run 'walksim run <runs> <steps>' to record the first one.")
		return
	}

	fmt.Printf("  %-36s  %-14s  %8s  %8s  %-11s  %s\n", "ID", "When", "Runs", "Steps", "Interaction", "Scenario")
	fmt.Printf("  %-36s  %-14s  %8s  %8s  %-11s  %s\n", "--", "----", "----", "-----", "-----------", "--------")
	for _, b := range batches {
		interaction := b.Interaction
		if interaction == "" {
			interaction = "none"
		}
		fmt.Printf("  %-36s  %-14s  %8s  %8s  %-11s  %s\n",
			b.ID,
			humanize.Time(b.CreatedAt),
			humanize.Comma(int64(b.Runs)),
			humanize.Comma(int64(b.Steps)),
			interaction,
			b.Scenario,
		)
	}
}

func runHistoryShow(cmd *cobra.Command, args []string) {
	store := openStore()
	defer store.Close()

	b, err := store.BatchByID(args[0])
	if err != nil {
		store.Close()
		fatal("%v", err)
	}
	sums, err := store.Summaries(b.ID)
	if err != nil {
		store.Close()
		fatal("%v", err)
	}

	fmt.Printf("Batch %s\n", b.ID)
	fmt.Printf("  recorded  %s (%s)\n", b.CreatedAt.Format("2006-01-02 15:04"), humanize.Time(b.CreatedAt))
	fmt.Printf("  scenario  %s\n", b.Scenario)
	fmt.Printf("  runs      %s of %s completed\n", humanize.Comma(int64(b.Completed)), humanize.Comma(int64(b.Runs)))
	fmt.Printf("  steps     %s\n", humanize.Comma(int64(b.Steps)))
	fmt.Printf("  seed      %d\n", b.Seed)
	fmt.Println()
	fmt.Println(tui.RenderSummary(sums))
}

func runHistoryRm(cmd *cobra.Command, args []string) {
	store := openStore()
	defer store.Close()

	if err := store.DeleteBatch(args[0]); err != nil {
		store.Close()
		fatal("%v", err)
	}
	fmt.Printf("Deleted batch %s\n", args[0])
}
