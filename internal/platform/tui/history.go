package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/walksim/internal/storage"
)

const maxHistory = 100 // Max batches to load

// HistoryKeyMap defines the key bindings for the history browser.
type HistoryKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Open   key.Binding
	Back   key.Binding
	Reload key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Open, k.Back, k.Reload, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open},
		{k.Back, k.Reload, k.Quit},
	}
}

// DefaultHistoryKeyMap returns default key bindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "down"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open batch"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// HistoryModel is the Bubble Tea model for browsing saved batches.
type HistoryModel struct {
	store     *storage.Store
	batches   []storage.Batch
	selected  *storage.Batch
	summaries []storage.WalkerSummary
	err       error
	table     table.Model
	help      help.Model
	keys      HistoryKeyMap
	width     int
	height    int
	quitting  bool
}

// NewHistoryModel creates a history browser over store. A nil store shows
// an empty list.
func NewHistoryModel(store *storage.Store, width, height int) HistoryModel {
	h := help.New()
	h.ShowAll = false

	m := HistoryModel{
		store:  store,
		keys:   DefaultHistoryKeyMap(),
		help:   h,
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.loadBatches()
	return m
}

// createTable creates the batch list table.
func (m *HistoryModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "ID", Width: 10},
		{Title: "When", Width: 16},
		{Title: "Runs", Width: 8},
		{Title: "Steps", Width: 8},
		{Title: "Interaction", Width: 12},
		{Title: "Aborted", Width: 8},
		{Title: "Scenario", Width: 24},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadBatches reloads the batch list from the store.
func (m *HistoryModel) loadBatches() {
	m.err = nil
	if m.store == nil {
		m.batches = nil
	} else {
		batches, err := m.store.RecentBatches(maxHistory)
		m.batches = batches
		m.err = err
	}

	rows := make([]table.Row, len(m.batches))
	for i, b := range m.batches {
		interaction := b.Interaction
		if interaction == "" {
			interaction = "none"
		}
		rows[i] = table.Row{
			shortID(b.ID),
			humanize.Time(b.CreatedAt),
			humanize.Comma(int64(b.Runs)),
			humanize.Comma(int64(b.Steps)),
			interaction,
			humanize.Comma(int64(b.Aborted)),
			b.Scenario,
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// open loads the summaries of the highlighted batch.
func (m *HistoryModel) open() {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.batches) {
		return
	}
	b := m.batches[i]
	sums, err := m.store.Summaries(b.ID)
	if err != nil {
		m.err = err
		return
	}
	m.selected = &b
	m.summaries = sums
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history browser.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			if m.selected == nil {
				m.quitting = true
				return m, tea.Quit
			}
			m.selected = nil
			m.summaries = nil
			return m, nil

		case key.Matches(msg, m.keys.Open):
			if m.selected == nil {
				m.open()
			}
			return m, nil

		case key.Matches(msg, m.keys.Reload):
			if m.selected == nil {
				m.loadBatches()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.loadBatches()
		m.help.Width = msg.Width
		return m, nil
	}

	if m.selected != nil {
		return m, nil
	}
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the history browser.
func (m HistoryModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := "BATCH HISTORY"
	if m.selected != nil {
		title = fmt.Sprintf("BATCH %s", shortID(m.selected.ID))
	}
	b.WriteString(titleStyle.MarginBottom(1).Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	switch {
	case m.err != nil:
		b.WriteString(warnStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	case m.selected != nil:
		b.WriteString(m.renderDetail())
	case len(m.batches) == 0:
		empty := dimStyle.
			Italic(true).
			Padding(2, 4).
			Render("No batches recorded yet.\nRun 'walksim run' to record one.")
		b.WriteString(box.Render(empty))
	default:
		b.WriteString(box.Render(m.table.View()))
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderDetail renders the header and summary table of the open batch.
func (m HistoryModel) renderDetail() string {
	s := m.selected
	interaction := s.Interaction
	if interaction == "" {
		interaction = "none"
	}

	var b strings.Builder
	b.WriteString(dimStyle.Render(fmt.Sprintf("id %s", s.ID)))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s  scenario %s  interaction %s\n",
		s.CreatedAt.Format("2006-01-02 15:04"), s.Scenario, interaction))
	b.WriteString(fmt.Sprintf("runs %s  steps %s  seed %d  workers %d  elapsed %s\n",
		humanize.Comma(int64(s.Runs)),
		humanize.Comma(int64(s.Steps)),
		s.Seed,
		s.Workers,
		s.Elapsed,
	))
	if s.Aborted > 0 {
		b.WriteString(warnStyle.Render(fmt.Sprintf("%s of %s runs aborted",
			humanize.Comma(int64(s.Aborted)), humanize.Comma(int64(s.Runs)))))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(RenderSummary(m.summaries))
	b.WriteString("\n")
	return b.String()
}

// Selected returns the open batch, or nil while the list is shown.
func (m HistoryModel) Selected() *storage.Batch {
	return m.selected
}

// shortID returns the first block of a UUID.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

// RunHistory runs the history browser until the user quits.
func RunHistory(store *storage.Store, width, height int) error {
	p := tea.NewProgram(
		NewHistoryModel(store, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
