package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/walksim/internal/batch"
	"github.com/vovakirdan/walksim/internal/stats"
	"github.com/vovakirdan/walksim/internal/storage"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229"))
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208"))
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Padding(0, 1)
	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)
	nameStyle = cellStyle.
			Foreground(lipgloss.Color("6"))
)

var summaryHeaders = []string{"Walker", "Runs", "Avg escape", "Never escaped", "Distance", "|y|", "|x|", "Crossings"}

// RenderSummary renders the per-walker final numbers of a batch as a table.
func RenderSummary(sums []storage.WalkerSummary) string {
	if len(sums) == 0 {
		return dimStyle.Italic(true).Render("No completed runs to summarize.")
	}

	rows := make([][]string, len(sums))
	for i, s := range sums {
		rows[i] = []string{
			s.Walker,
			humanize.Comma(int64(s.Runs)),
			escapeCell(s.AvgEscape, s.Escaped, s.NeverEscaped),
			humanize.Comma(int64(s.NeverEscaped)),
			formatFloat(s.FinalOrigin),
			formatFloat(s.FinalFromX),
			formatFloat(s.FinalFromY),
			formatFloat(s.FinalCrossings),
		}
	}

	t := ltable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers(summaryHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == ltable.HeaderRow:
				return headerStyle
			case col == 0:
				return nameStyle
			default:
				return cellStyle
			}
		})
	return t.Render()
}

// RenderBatch renders the header lines and summary table of a finished batch.
func RenderBatch(res *batch.Result) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("BATCH SUMMARY"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("seed %d  runs %s  completed %s  elapsed %s",
		res.Seed,
		humanize.Comma(int64(res.Runs)),
		humanize.Comma(int64(res.Completed)),
		res.Elapsed.Round(time.Millisecond),
	)))
	b.WriteString("\n")
	if res.Aborted > 0 {
		b.WriteString(warnStyle.Render(fmt.Sprintf("%s aborted %s excluded from statistics",
			humanize.Comma(int64(res.Aborted)),
			plural(res.Aborted, "run", "runs"),
		)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(RenderSummary(storage.Summarize(res.Stats)))
	return b.String()
}

// RenderMetric renders one reduction as plain text: a step table for the
// per-step series, or one line per walker for escape times.
func RenderMetric(st *stats.Statistics, m stats.Metric) string {
	cols, rows := metricRows(st, m)
	if len(rows) == 0 {
		return dimStyle.Italic(true).Render("No data.")
	}

	t := ltable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers(cols...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == ltable.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return titleStyle.Render(m.Title()) + "\n" + t.Render()
}

// metricRows lays out a reduction as table columns and rows. Per-step series
// get one row per step and one column per walker.
func metricRows(st *stats.Statistics, m stats.Metric) ([]string, [][]string) {
	names := st.Walkers()

	if m == stats.MetricEscapeTime {
		escapes := st.AverageEscapeTime()
		rows := make([][]string, 0, len(names))
		for _, name := range names {
			e := escapes[name]
			rows = append(rows, []string{
				name,
				escapeCell(e.Average, e.Escaped, e.NeverEscaped),
				humanize.Comma(int64(e.Escaped)),
				humanize.Comma(int64(e.NeverEscaped)),
			})
		}
		return []string{"Walker", "Avg escape", "Escaped", "Never"}, rows
	}

	series := seriesFor(st, m)
	steps := 0
	for _, name := range names {
		steps = max(steps, len(series[name]))
	}

	cols := append([]string{"Step"}, names...)
	rows := make([][]string, steps)
	for step := 1; step <= steps; step++ {
		row := make([]string, 0, len(cols))
		row = append(row, humanize.Comma(int64(step)))
		for _, name := range names {
			v, ok := series[name].At(step)
			if !ok {
				row = append(row, "-")
				continue
			}
			row = append(row, formatFloat(v))
		}
		rows[step-1] = row
	}
	return cols, rows
}

func seriesFor(st *stats.Statistics, m stats.Metric) map[string]stats.Series {
	switch m {
	case stats.MetricDistanceFromX:
		return st.AverageDistanceFromX()
	case stats.MetricDistanceFromY:
		return st.AverageDistanceFromY()
	case stats.MetricCrossings:
		return st.AverageCrossings()
	default:
		return st.AverageDistanceOrigin()
	}
}

func escapeCell(avg float64, escaped, never int) string {
	if escaped == 0 && never > 0 {
		return "never"
	}
	return formatFloat(avg)
}

func formatFloat(v float64) string {
	return humanize.FormatFloat("#,###.###", v)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text
}
