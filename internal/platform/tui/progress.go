// Package tui provides the terminal views of walksim: batch progress, the
// statistics report, the history browser and its SSH server.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/walksim/internal/batch"
)

const maxBarWidth = 60

// ProgressMsg reports a finished run to the progress view.
type ProgressMsg batch.Progress

// BatchDoneMsg is sent once the batch returns.
type BatchDoneMsg struct {
	Result *batch.Result
	Err    error
}

// elapsedMsg refreshes the elapsed-time line.
type elapsedMsg time.Time

func elapsedCmd() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(t time.Time) tea.Msg {
		return elapsedMsg(t)
	})
}

// ProgressModel shows a progress bar while a batch runs.
type ProgressModel struct {
	bar      progress.Model
	last     batch.Progress
	started  time.Time
	now      time.Time
	result   *batch.Result
	err      error
	done     bool
	stopping bool
	cancel   context.CancelFunc
}

// NewProgressModel creates a progress view for a batch of total runs.
// cancel is called when the user interrupts; the view then waits for the
// batch to return.
func NewProgressModel(total int, cancel context.CancelFunc) ProgressModel {
	now := time.Now()
	return ProgressModel{
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(maxBarWidth)),
		last:    batch.Progress{Total: total},
		started: now,
		now:     now,
		cancel:  cancel,
	}
}

// Init starts the elapsed-time ticker.
func (m ProgressModel) Init() tea.Cmd {
	return elapsedCmd()
}

// Update handles messages for the progress view.
func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			if !m.stopping && m.cancel != nil {
				m.cancel()
			}
			m.stopping = true
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.bar.Width = max(min(msg.Width-4, maxBarWidth), 10)
		return m, nil

	case ProgressMsg:
		m.last = batch.Progress(msg)
		if m.last.Total == 0 {
			return m, nil
		}
		return m, m.bar.SetPercent(float64(m.last.Done) / float64(m.last.Total))

	case BatchDoneMsg:
		m.result = msg.Result
		m.err = msg.Err
		m.done = true
		return m, tea.Quit

	case elapsedMsg:
		m.now = time.Time(msg)
		if m.done {
			return m, nil
		}
		return m, elapsedCmd()

	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		if b, ok := bar.(progress.Model); ok {
			m.bar = b
		}
		return m, cmd
	}
	return m, nil
}

// View renders the progress bar and run counters.
func (m ProgressModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Running batch"))
	b.WriteString("\n\n")
	b.WriteString(m.bar.View())
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("%s / %s runs",
		humanize.Comma(int64(m.last.Done)),
		humanize.Comma(int64(m.last.Total)),
	))
	if m.last.Aborted > 0 {
		b.WriteString("  ")
		b.WriteString(warnStyle.Render(fmt.Sprintf("%s aborted", humanize.Comma(int64(m.last.Aborted)))))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("elapsed %s", m.now.Sub(m.started).Round(time.Second))))
	b.WriteString("\n\n")
	if m.stopping {
		b.WriteString(warnStyle.Render("stopping after the current runs..."))
	} else {
		b.WriteString(dimStyle.Render("q: stop"))
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// Result returns what the batch returned once the view is done.
func (m ProgressModel) Result() (*batch.Result, error) {
	return m.result, m.err
}

// RunWithProgress runs a batch behind a progress bar. opts.Progress is
// replaced; the batch logger should not write to the terminal.
func RunWithProgress(ctx context.Context, build batch.Factory, opts batch.Options) (*batch.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewProgressModel(opts.Runs, cancel))
	opts.Progress = func(pr batch.Progress) {
		p.Send(ProgressMsg(pr))
	}

	go func() {
		res, err := batch.Run(ctx, build, opts)
		p.Send(BatchDoneMsg{Result: res, Err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("tui: progress view: %w", err)
	}
	m, ok := final.(ProgressModel)
	if !ok {
		return nil, fmt.Errorf("tui: progress view returned %T", final)
	}
	return m.Result()
}
