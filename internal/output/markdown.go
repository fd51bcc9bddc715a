package output

import (
	"fmt"
	"strings"

	"github.com/namevetter/namevetter/internal/core"
)

// MarkdownFormatter renders results as markdown tables.
type MarkdownFormatter struct{}

// FormatReport renders a check report as Markdown.
func (f *MarkdownFormatter) FormatReport(report *core.CheckReport) (string, error) {
	if report == nil {
		return "", nil
	}

	rows := reportRows(report)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## %s availability\n\n", escapeMarkdownCell(report.Name)))
	sb.WriteString(fmt.Sprintf("Handle: `%s`\n\n", report.Handle))
	writeMarkdownRows(&sb, rows)

	if text := summary(rows); text != "" {
		sb.WriteString(fmt.Sprintf("\n**Score**: %s\n", text))
	}

	if len(report.Similar) > 0 {
		similar, _ := f.FormatSimilar(report.Handle, report.Similar)
		sb.WriteString("\n")
		sb.WriteString(similar)
	}
	return sb.String(), nil
}

// FormatResult renders a single probe as Markdown.
func (f *MarkdownFormatter) FormatResult(result Result) (string, error) {
	var sb strings.Builder
	writeMarkdownRows(&sb, []row{resultRow(result)})
	return sb.String(), nil
}

// FormatSimilar renders similar domains as Markdown.
func (f *MarkdownFormatter) FormatSimilar(handle string, matches []core.SimilarDomainMatch) (string, error) {
	var sb strings.Builder
	sb.WriteString("### Similar domains\n\n")
	if len(matches) == 0 {
		sb.WriteString(fmt.Sprintf("No similar domains found for `%s`.\n", handle))
		return sb.String(), nil
	}
	sb.WriteString("| Domain | Distance |\n")
	sb.WriteString("|--------|----------|\n")
	for _, m := range matches {
		sb.WriteString(fmt.Sprintf("| %s | %d |\n", escapeMarkdownCell(m.Domain), m.Distance))
	}
	return sb.String(), nil
}

func writeMarkdownRows(sb *strings.Builder, rows []row) {
	sb.WriteString("| Type | Target | Status | Method | Notes |\n")
	sb.WriteString("|------|--------|--------|--------|-------|\n")
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s |\n",
			escapeMarkdownCell(r.kind),
			escapeMarkdownCell(r.target),
			escapeMarkdownCell(string(r.verdict)),
			escapeMarkdownCell(r.method),
			escapeMarkdownCell(r.notes),
		))
	}
}

func escapeMarkdownCell(value string) string {
	return strings.ReplaceAll(value, "|", "\\|")
}
