// Package output renders comparison results as terminal tables.
package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"speech-insights-go/internal/comparison"
	"speech-insights-go/internal/types"
)

var (
	ColorPrimary = lipgloss.Color("#64b5f6")
	ColorMuted   = lipgloss.Color("#888888")

	StyleHeader = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	StyleMuted  = lipgloss.NewStyle().Foreground(ColorMuted)
)

// SetNoColor swaps the package styles for plain ones.
func SetNoColor(disabled bool) {
	if disabled {
		StyleHeader = lipgloss.NewStyle()
		StyleMuted = lipgloss.NewStyle()
	}
}

type Table struct {
	headers []string
	rows    [][]string
	widths  []int
}

func NewTable(headers ...string) *Table {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	return &Table{headers: headers, widths: widths}
}

// AddRow appends a row; missing trailing cells render empty.
func (t *Table) AddRow(values ...string) {
	row := make([]string, len(t.headers))
	for i := range t.headers {
		if i < len(values) {
			row[i] = values[i]
		}
		if len(row[i]) > t.widths[i] {
			t.widths[i] = len(row[i])
		}
	}
	t.rows = append(t.rows, row)
}

func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, h := range t.headers {
		if i > 0 {
			sb.WriteString("  ")
		}
		sb.WriteString(StyleHeader.Render(pad(h, t.widths[i])))
	}
	sb.WriteString("\n")
	for i, w := range t.widths {
		if i > 0 {
			sb.WriteString("  ")
		}
		sb.WriteString(StyleMuted.Render(strings.Repeat("─", w)))
	}
	sb.WriteString("\n")
	for _, row := range t.rows {
		for i, cell := range row {
			if i > 0 {
				sb.WriteString("  ")
			}
			sb.WriteString(pad(cell, t.widths[i]))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (t *Table) String() string {
	return t.Render()
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// Rankings renders the ranking table followed by the insight lists.
func Rankings(res comparison.Result) string {
	t := NewTable("#", "Title", "Composite", "Empathy", "Sentiment", "Strengths")
	for _, r := range res.Rankings {
		title := r.Title
		if title == "" {
			title = r.RecordID
		}
		t.AddRow(
			fmt.Sprintf("%d", r.Rank),
			title,
			fmt.Sprintf("%.1f", r.CompositeScore),
			fmt.Sprintf("%.1f", r.EmpathyScore),
			fmt.Sprintf("%.1f", r.SentimentScore),
			strings.Join(r.Strengths, ", "),
		)
	}

	var sb strings.Builder
	sb.WriteString(t.Render())
	section(&sb, "Key insights", res.Insights.KeyInsights)
	section(&sb, "Common themes", res.Insights.CommonThemes)
	section(&sb, "Differences", res.Insights.Differences)
	return sb.String()
}

// Buckets renders bucket counts with a share column.
func Buckets(bc types.BucketCounts) string {
	t := NewTable("Bucket", "Range", "Count", "Share")
	for _, b := range bc.Buckets {
		share := 0.0
		if bc.Total > 0 {
			share = float64(b.Count) / float64(bc.Total) * 100
		}
		t.AddRow(b.Label, fmt.Sprintf("%g-%g", b.Low, b.High), fmt.Sprintf("%d", b.Count), fmt.Sprintf("%.0f%%", share))
	}
	out := t.Render()
	if bc.Unbucketed > 0 {
		out += StyleMuted.Render(fmt.Sprintf("%d record(s) outside every bucket", bc.Unbucketed)) + "\n"
	}
	return out
}

func section(sb *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString("\n")
	sb.WriteString(StyleHeader.Render(title))
	sb.WriteString("\n")
	for _, it := range items {
		sb.WriteString("  • ")
		sb.WriteString(it)
		sb.WriteString("\n")
	}
}
