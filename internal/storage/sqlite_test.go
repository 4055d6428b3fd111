package storage

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/walksim/internal/core"
	"github.com/vovakirdan/walksim/internal/sim"
	"github.com/vovakirdan/walksim/internal/stats"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func stepRecord(step int, p core.Point, crossings int) sim.StepRecord {
	return sim.StepRecord{
		Step:           step,
		Location:       p,
		Crossings:      crossings,
		DistanceOrigin: p.Norm(),
		DistanceFromX:  math.Abs(p.Y),
		DistanceFromY:  math.Abs(p.X),
	}
}

func sampleStats() *stats.Statistics {
	st := stats.New()
	st.Load(sim.Table{
		"UnitWalker1": {
			stepRecord(1, core.Point{X: 1, Y: 0}, 0),
			stepRecord(2, core.Point{X: 3, Y: 4}, 0),
		},
		"StraightWalker1": {
			stepRecord(1, core.Point{X: 0, Y: 1}, 0),
			stepRecord(2, core.Point{X: 0, Y: 2}, 0),
		},
	}, 1)
	st.Load(sim.Table{
		"UnitWalker1": {
			stepRecord(1, core.Point{X: -1, Y: 0}, 1),
			stepRecord(2, core.Point{X: -1, Y: 0}, 1),
		},
	}, 2)
	return st
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreExpandHomePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := Open("~/.walksim/history.db")
	if err != nil {
		t.Fatalf("Open() with ~ path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(filepath.Join(home, ".walksim", "history.db")); err != nil {
		t.Errorf("Database file was not created under home: %v", err)
	}
}

func TestSummarize(t *testing.T) {
	st := sampleStats()
	got := Summarize(st)
	if len(got) != 2 {
		t.Fatalf("Expected 2 summaries, got %d", len(got))
	}

	// Ordered by walker name.
	if got[0].Walker != "StraightWalker1" || got[1].Walker != "UnitWalker1" {
		t.Fatalf("Unexpected order: %s, %s", got[0].Walker, got[1].Walker)
	}

	unit := got[1]
	if unit.Runs != 2 {
		t.Errorf("Expected 2 runs, got %d", unit.Runs)
	}
	if unit.FinalOrigin != 3 {
		t.Errorf("Expected final origin distance 3, got %v", unit.FinalOrigin)
	}
	if unit.FinalFromX != 2 {
		t.Errorf("Expected final |y| 2, got %v", unit.FinalFromX)
	}
	if unit.FinalFromY != 2 {
		t.Errorf("Expected final |x| 2, got %v", unit.FinalFromY)
	}
	if unit.FinalCrossings != 0.5 {
		t.Errorf("Expected final crossings 0.5, got %v", unit.FinalCrossings)
	}

	esc := st.AverageEscapeTime()["UnitWalker1"]
	if unit.AvgEscape != esc.Average || unit.Escaped != esc.Escaped || unit.NeverEscaped != esc.NeverEscaped {
		t.Errorf("Escape summary %+v does not match statistics %+v", unit, esc)
	}

	if Summarize(stats.New()) != nil {
		t.Error("Expected nil summaries for empty statistics")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	id, err := store.SaveBatch(Batch{
		Scenario:    "embedded",
		Runs:        2,
		Steps:       2,
		Seed:        42,
		Interaction: "attract",
		Workers:     1,
		Completed:   2,
		Elapsed:     1500 * time.Millisecond,
	}, sampleStats())
	if err != nil {
		t.Fatalf("SaveBatch() failed: %v", err)
	}
	if id == "" {
		t.Fatal("Expected a generated batch ID")
	}

	b, err := store.BatchByID(id)
	if err != nil {
		t.Fatalf("BatchByID() failed: %v", err)
	}
	if b.Seed != 42 || b.Interaction != "attract" || b.Completed != 2 {
		t.Errorf("Unexpected batch: %+v", b)
	}
	if b.Elapsed != 1500*time.Millisecond {
		t.Errorf("Expected elapsed 1.5s, got %v", b.Elapsed)
	}
	if b.CreatedAt.IsZero() {
		t.Error("Expected created_at to be set")
	}

	sums, err := store.Summaries(id)
	if err != nil {
		t.Fatalf("Summaries() failed: %v", err)
	}
	if len(sums) != 2 {
		t.Fatalf("Expected 2 summaries, got %d", len(sums))
	}
	want := Summarize(sampleStats())
	for i := range want {
		want[i].BatchID = id
		if sums[i] != want[i] {
			t.Errorf("Summary %d: got %+v, want %+v", i, sums[i], want[i])
		}
	}
}

func TestStoreKeepsGivenID(t *testing.T) {
	store := openTestStore(t)

	id, err := store.SaveBatch(Batch{ID: "fixed", Scenario: "x", Runs: 1, Steps: 1}, nil)
	if err != nil {
		t.Fatalf("SaveBatch() failed: %v", err)
	}
	if id != "fixed" {
		t.Errorf("Expected ID fixed, got %s", id)
	}

	if _, err := store.SaveBatch(Batch{ID: "fixed", Scenario: "x", Runs: 1, Steps: 1}, nil); err == nil {
		t.Error("Expected duplicate batch ID to fail")
	}
}

func TestStoreRecentBatches(t *testing.T) {
	store := openTestStore(t)

	var ids []string
	for i := 0; i < 25; i++ {
		id, err := store.SaveBatch(Batch{Scenario: "embedded", Runs: i + 1, Steps: 10}, nil)
		if err != nil {
			t.Fatalf("SaveBatch() failed: %v", err)
		}
		ids = append(ids, id)
	}

	batches, err := store.RecentBatches(5)
	if err != nil {
		t.Fatalf("RecentBatches() failed: %v", err)
	}
	if len(batches) != 5 {
		t.Fatalf("Expected 5 batches, got %d", len(batches))
	}
	// Same-second inserts fall back to insertion order, newest first.
	if batches[0].ID != ids[24] {
		t.Errorf("Expected newest batch first, got runs=%d", batches[0].Runs)
	}

	all, err := store.RecentBatches(0)
	if err != nil {
		t.Fatalf("RecentBatches() failed: %v", err)
	}
	if len(all) != 20 {
		t.Errorf("Expected default limit of 20, got %d", len(all))
	}
}

func TestStoreDeleteBatch(t *testing.T) {
	store := openTestStore(t)

	id, err := store.SaveBatch(Batch{Scenario: "embedded", Runs: 2, Steps: 2}, sampleStats())
	if err != nil {
		t.Fatalf("SaveBatch() failed: %v", err)
	}

	if err := store.DeleteBatch(id); err != nil {
		t.Fatalf("DeleteBatch() failed: %v", err)
	}

	if _, err := store.BatchByID(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
	sums, err := store.Summaries(id)
	if err != nil {
		t.Fatalf("Summaries() failed: %v", err)
	}
	if len(sums) != 0 {
		t.Errorf("Expected summaries to be deleted, got %d", len(sums))
	}

	if err := store.DeleteBatch(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for second delete, got %v", err)
	}
}
