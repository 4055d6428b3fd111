package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/walksim/internal/stats"
)

// Report layout constants
const (
	minWidthForSidebar = 100 // Minimum width to show metric list sidebar
	sidebarWidth       = 26  // Width of metric list sidebar
	stepColumnWidth    = 7
	minValueWidth      = 10
)

// ReportKeyMap defines the key bindings for the report browser.
type ReportKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Top        key.Binding
	Bottom     key.Binding
	NextMetric key.Binding
	PrevMetric key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ReportKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextMetric, k.PrevMetric, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ReportKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.NextMetric, k.PrevMetric},
		{k.Help, k.Quit},
	}
}

// DefaultReportKeyMap returns default key bindings.
func DefaultReportKeyMap() ReportKeyMap {
	return ReportKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Top: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g", "first step"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "last step"),
		),
		NextMetric: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab/l", "next metric"),
		),
		PrevMetric: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab/h", "prev metric"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ReportModel is the Bubble Tea model for browsing batch statistics.
type ReportModel struct {
	stats       *stats.Statistics
	metrics     []stats.Metric
	cursor      int // Currently selected metric index
	cols        []string
	rows        [][]string
	table       table.Model
	help        help.Model
	keys        ReportKeyMap
	width       int
	height      int
	quitting    bool
	showSidebar bool
}

// NewReportModel creates a report browser over st.
func NewReportModel(st *stats.Statistics, width, height int) ReportModel {
	h := help.New()
	h.ShowAll = false

	m := ReportModel{
		stats:       st,
		metrics:     stats.Metrics,
		keys:        DefaultReportKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.table = m.createTable()
	m.loadMetric()
	return m
}

// Metric returns the metric currently on screen.
func (m ReportModel) Metric() stats.Metric {
	return m.metrics[m.cursor]
}

// createTable creates an empty table sized to the window.
func (m *ReportModel) createTable() table.Model {
	t := table.New(
		table.WithFocused(true),
		table.WithHeight(max(m.height-9, 3)), // Leave room for header, tabs, help, and margins
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

// loadMetric evaluates the selected metric and refills the table.
func (m *ReportModel) loadMetric() {
	if m.stats == nil {
		m.cols, m.rows = nil, nil
	} else {
		m.cols, m.rows = metricRows(m.stats, m.Metric())
	}

	// Rows must never be wider than the columns while they are swapped.
	m.table.SetRows(nil)
	m.table.SetColumns(m.columns())
	rows := make([]table.Row, len(m.rows))
	for i, r := range m.rows {
		rows[i] = table.Row(r)
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// columns sizes the table columns to their titles and values.
func (m ReportModel) columns() []table.Column {
	if len(m.cols) == 0 {
		return nil
	}

	columns := make([]table.Column, len(m.cols))
	first := stepColumnWidth
	if m.Metric() == stats.MetricEscapeTime {
		first = lipgloss.Width(m.cols[0])
		for _, r := range m.rows {
			first = max(first, lipgloss.Width(r[0]))
		}
		first += 2
	}
	columns[0] = table.Column{Title: m.cols[0], Width: first}

	for i, title := range m.cols[1:] {
		columns[i+1] = table.Column{Title: title, Width: max(lipgloss.Width(title)+2, minValueWidth)}
	}
	return columns
}

// Init initializes the report model.
func (m ReportModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the report browser.
func (m ReportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil

		case key.Matches(msg, m.keys.NextMetric):
			m.cursor = (m.cursor + 1) % len(m.metrics)
			m.loadMetric()
			return m, nil

		case key.Matches(msg, m.keys.PrevMetric):
			m.cursor--
			if m.cursor < 0 {
				m.cursor = len(m.metrics) - 1
			}
			m.loadMetric()
			return m, nil

		case key.Matches(msg, m.keys.Top):
			m.table.GotoTop()
			return m, nil

		case key.Matches(msg, m.keys.Bottom):
			m.table.GotoBottom()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.loadMetric()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the report browser.
func (m ReportModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := fmt.Sprintf("STATISTICS - %s", m.Metric().Title())
	b.WriteString(titleStyle.MarginBottom(1).Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(m.renderWideLayout())
	} else {
		b.WriteString(m.renderNarrowLayout())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderWideLayout renders the report with a sidebar for metric selection.
func (m ReportModel) renderWideLayout() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Metrics\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, metric := range m.metrics {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.cursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}
		sidebar.WriteString(style.Render(cursor + metric.Title()))
		sidebar.WriteString("\n")
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		sidebarStyle.Render(sidebar.String()),
		"  ",
		m.boxed(),
	)
}

// renderNarrowLayout renders the report with metric tabs above the table.
func (m ReportModel) renderNarrowLayout() string {
	var b strings.Builder

	tabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, len(m.metrics))
	for i, metric := range m.metrics {
		if i == m.cursor {
			tabs[i] = activeTabStyle.Render(metric.Title())
		} else {
			tabs[i] = tabStyle.Render(" " + metric.Title() + " ")
		}
	}

	tabLine := strings.Join(tabs, " ")
	if lipgloss.Width(tabLine) > m.width-4 {
		tabLine = fmt.Sprintf("< %s >", m.Metric().Title())
	}
	b.WriteString(centerText(tabLine, m.width))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, m.boxed()))

	return b.String()
}

// boxed renders the table, or an empty message, inside a border.
func (m ReportModel) boxed() string {
	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	if len(m.rows) == 0 {
		emptyStyle := dimStyle.
			Italic(true).
			Padding(2, 4)
		return tableStyle.Render(emptyStyle.Render("No completed runs.\nEvery run of this batch was aborted."))
	}
	return tableStyle.Render(m.table.View())
}

// RunReport runs the report browser until the user quits.
func RunReport(st *stats.Statistics, width, height int) error {
	p := tea.NewProgram(
		NewReportModel(st, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
