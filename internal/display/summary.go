package display

import (
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Row is one scene folder in the summary table.
type Row struct {
	Folder   string
	Category string
	Plan     string // Preprocessing steps run, "" when none.
	Assets   int
	Outcome  string
	Size     int64 // Output bytes; zero when nothing was written.
	Elapsed  time.Duration
	Detail   string
}

// FormatSize returns a human-readable size, or "-" for zero.
func FormatSize(n int64) string {
	if n <= 0 {
		return "-"
	}
	return humanize.IBytes(uint64(n))
}

// FormatElapsed rounds d for display: sub-second durations in milliseconds,
// longer ones to the second.
func FormatElapsed(d time.Duration) string {
	switch {
	case d <= 0:
		return "-"
	case d < time.Second:
		return d.Round(time.Millisecond).String()
	default:
		return d.Round(time.Second).String()
	}
}

// RenderSummary renders rows as a rounded table.
func RenderSummary(rows []Row) string {
	if len(rows) == 0 {
		return ""
	}
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Folder", "Category", "Plan", "Clips", "Result", "Size", "Time", "Detail"})
	for _, r := range rows {
		plan := r.Plan
		if plan == "" {
			plan = "-"
		}
		tw.AppendRow(table.Row{r.Folder, r.Category, plan, r.Assets, r.Outcome,
			FormatSize(r.Size), FormatElapsed(r.Elapsed), r.Detail})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 6, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 7, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 8, WidthMax: 60},
	})
	return tw.Render()
}
