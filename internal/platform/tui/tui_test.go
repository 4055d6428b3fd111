package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/walksim/internal/batch"
	"github.com/vovakirdan/walksim/internal/core"
	"github.com/vovakirdan/walksim/internal/sim"
	"github.com/vovakirdan/walksim/internal/stats"
	"github.com/vovakirdan/walksim/internal/storage"
)

func rec(step int, p core.Point) sim.StepRecord {
	return sim.StepRecord{
		Step:           step,
		Location:       p,
		DistanceOrigin: p.Norm(),
	}
}

func sampleStats() *stats.Statistics {
	st := stats.New()
	st.Load(sim.Table{
		"UnitWalker1": {rec(1, core.Point{X: 1}), rec(2, core.Point{X: 2}), rec(3, core.Point{X: 3})},
		"MemoryWalker1": {rec(1, core.Point{Y: 1}), rec(2, core.Point{Y: 1}), rec(3, core.Point{})},
	}, 1)
	return st
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestRenderSummary(t *testing.T) {
	if out := RenderSummary(nil); !strings.Contains(out, "No completed runs") {
		t.Errorf("Expected empty message, got %q", out)
	}

	out := RenderSummary(storage.Summarize(sampleStats()))
	for _, want := range []string{"Walker", "MemoryWalker1", "UnitWalker1", "Crossings"} {
		if !strings.Contains(out, want) {
			t.Errorf("Summary is missing %q:\n%s", want, out)
		}
	}
}

func TestMetricRows(t *testing.T) {
	st := sampleStats()

	cols, rows := metricRows(st, stats.MetricDistanceOrigin)
	if len(cols) != 3 || cols[0] != "Step" || cols[1] != "MemoryWalker1" {
		t.Fatalf("Unexpected columns: %v", cols)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected one row per step, got %d", len(rows))
	}
	if rows[2][0] != "3" || rows[2][2] != "3.000" {
		t.Errorf("Unexpected last row: %v", rows[2])
	}

	cols, rows = metricRows(st, stats.MetricEscapeTime)
	if cols[0] != "Walker" || len(rows) != 2 {
		t.Errorf("Unexpected escape layout: %v %v", cols, rows)
	}

	if _, rows := metricRows(stats.New(), stats.MetricCrossings); len(rows) != 0 {
		t.Errorf("Expected no rows for empty statistics, got %d", len(rows))
	}
}

func TestReportModelCyclesMetrics(t *testing.T) {
	m := NewReportModel(sampleStats(), 120, 40)
	if m.Metric() != stats.Metrics[0] {
		t.Fatalf("Expected first metric, got %s", m.Metric())
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(ReportModel)
	if m.Metric() != stats.Metrics[1] {
		t.Errorf("Expected second metric after tab, got %s", m.Metric())
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(ReportModel)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(ReportModel)
	if m.Metric() != stats.Metrics[len(stats.Metrics)-1] {
		t.Errorf("Expected wrap to last metric, got %s", m.Metric())
	}

	if !strings.Contains(m.View(), m.Metric().Title()) {
		t.Error("View should show the current metric title")
	}

	next, cmd := m.Update(keyRunes("q"))
	m = next.(ReportModel)
	if cmd == nil || m.View() != "" {
		t.Error("Expected quit")
	}
}

func TestReportModelNarrowAndEmpty(t *testing.T) {
	m := NewReportModel(stats.New(), 60, 20)
	if m.showSidebar {
		t.Error("Narrow window should not show the sidebar")
	}
	if !strings.Contains(m.View(), "No completed runs") {
		t.Error("Expected empty message")
	}

	next, _ := m.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	if !next.(ReportModel).showSidebar {
		t.Error("Wide window should show the sidebar")
	}
}

func TestProgressModel(t *testing.T) {
	cancels := 0
	m := NewProgressModel(4, func() { cancels++ })

	next, cmd := m.Update(ProgressMsg{Done: 2, Total: 4, Completed: 1, Aborted: 1})
	m = next.(ProgressModel)
	if cmd == nil {
		t.Error("Expected an animation command")
	}
	if m.last.Done != 2 || m.last.Aborted != 1 {
		t.Errorf("Unexpected progress: %+v", m.last)
	}
	if !strings.Contains(m.View(), "2 / 4 runs") {
		t.Errorf("View should show run counters:\n%s", m.View())
	}

	next, _ = m.Update(keyRunes("q"))
	m = next.(ProgressModel)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m = next.(ProgressModel)
	if cancels != 1 {
		t.Errorf("Expected cancel once, got %d", cancels)
	}
	if !m.stopping {
		t.Error("Expected stopping state")
	}

	want := &batch.Result{Runs: 4}
	next, cmd = m.Update(BatchDoneMsg{Result: want})
	m = next.(ProgressModel)
	if cmd == nil {
		t.Error("Expected quit command")
	}
	got, err := m.Result()
	if got != want || err != nil {
		t.Errorf("Unexpected result: %v %v", got, err)
	}
}

func TestHistoryModel(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	id, err := store.SaveBatch(storage.Batch{Scenario: "embedded", Runs: 1, Steps: 3, Seed: 7}, sampleStats())
	if err != nil {
		t.Fatalf("SaveBatch() failed: %v", err)
	}

	m := NewHistoryModel(store, 120, 40)
	if len(m.batches) != 1 {
		t.Fatalf("Expected 1 batch, got %d", len(m.batches))
	}
	if !strings.Contains(m.View(), shortID(id)) {
		t.Error("List should show the short batch ID")
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(HistoryModel)
	if m.Selected() == nil || m.Selected().ID != id {
		t.Fatal("Expected batch to open")
	}
	if len(m.summaries) != 2 {
		t.Errorf("Expected 2 summaries, got %d", len(m.summaries))
	}
	if !strings.Contains(m.View(), "UnitWalker1") {
		t.Error("Detail should show walker summaries")
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(HistoryModel)
	if m.Selected() != nil || cmd != nil {
		t.Error("Esc should return to the list without quitting")
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Error("Esc on the list should quit")
	}
}

func TestHistoryModelWithoutStore(t *testing.T) {
	m := NewHistoryModel(nil, 80, 24)
	if !strings.Contains(m.View(), "No batches recorded yet") {
		t.Error("Expected empty message")
	}
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if next.(HistoryModel).Selected() != nil {
		t.Error("Nothing should open without batches")
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("1b4e28ba-2fa1-11d2-883f-0016d3cca427"); got != "1b4e28ba" {
		t.Errorf("shortID() = %q", got)
	}
	if got := shortID("plain"); got != "plain" {
		t.Errorf("shortID() = %q", got)
	}
}
