package output

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/namevetter/namevetter/internal/core"
)

// TableFormatter renders results as an ASCII table.
type TableFormatter struct {
	Color bool

	// Width is the terminal width. When set, the notes column wraps to fit.
	Width int
}

// Room taken by every column except notes, borders included.
const fixedColumnsWidth = 72

const minNotesWidth = 20

// FormatReport renders a full check as a results table followed by the
// similar-domain table.
func (f *TableFormatter) FormatReport(report *core.CheckReport) (string, error) {
	if report == nil {
		return "", nil
	}

	rows := reportRows(report)
	t := f.newTable()
	t.SetTitle(fmt.Sprintf("%s (%s)", report.Name, report.Handle))
	for _, r := range rows {
		t.AppendRow(f.tableRow(r))
	}
	if text := summary(rows); text != "" {
		t.AppendFooter(table.Row{"", "", text, "", ""})
	}

	var sb strings.Builder
	sb.WriteString(t.Render())
	if len(report.Similar) > 0 {
		similar, _ := f.FormatSimilar(report.Handle, report.Similar)
		sb.WriteString("\n\n")
		sb.WriteString(similar)
	}
	if report.Timestamp != "" {
		sb.WriteString(fmt.Sprintf("\nChecked %s in %dms\n", report.Timestamp, report.Duration))
	}
	return sb.String(), nil
}

// FormatResult renders a single probe.
func (f *TableFormatter) FormatResult(result Result) (string, error) {
	t := f.newTable()
	t.AppendRow(f.tableRow(resultRow(result)))
	return t.Render(), nil
}

// FormatSimilar renders similar registered domains, closest first.
func (f *TableFormatter) FormatSimilar(handle string, matches []core.SimilarDomainMatch) (string, error) {
	if len(matches) == 0 {
		return fmt.Sprintf("No similar domains found for %s", handle), nil
	}
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetTitle("Similar domains")
	t.AppendHeader(table.Row{"Domain", "Distance"})
	for _, m := range matches {
		t.AppendRow(table.Row{m.Domain, strconv.Itoa(m.Distance)})
	}
	return t.Render(), nil
}

func (f *TableFormatter) newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Type", "Target", "Status", "Method", "Notes"})
	if f.Width > 0 {
		notes := f.Width - fixedColumnsWidth
		if notes < minNotesWidth {
			notes = minNotesWidth
		}
		t.SetColumnConfigs([]table.ColumnConfig{{Name: "Notes", WidthMax: notes}})
	}
	return t
}

func (f *TableFormatter) tableRow(r row) table.Row {
	return table.Row{r.kind, r.target, f.status(r.verdict), r.method, r.notes}
}

func (f *TableFormatter) status(v core.Verdict) string {
	var c *color.Color
	switch v {
	case core.VerdictAvailable:
		c = color.New(color.FgGreen, color.Bold)
	case core.VerdictTaken:
		c = color.New(color.FgRed)
	default:
		c = color.New(color.FgYellow)
	}
	if f.Color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprint(string(v))
}
