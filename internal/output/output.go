package output

import (
	"fmt"
	"strings"

	"github.com/namevetter/namevetter/internal/core"
)

// Format represents an output format.
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// Formatter renders check results for the CLI.
type Formatter interface {
	FormatReport(report *core.CheckReport) (string, error)
	FormatResult(result Result) (string, error)
	FormatSimilar(handle string, matches []core.SimilarDomainMatch) (string, error)
}

// Result is a single domain or social probe, as printed by the domain and
// social commands.
type Result struct {
	Kind     string `json:"-"`
	Domain   string `json:"domain,omitempty"`
	Platform string `json:"platform,omitempty"`
	Handle   string `json:"handle,omitempty"`
	core.ProbeResult
}

// Target names what the result is about.
func (r Result) Target() string {
	if r.Domain != "" {
		return r.Domain
	}
	if r.Handle == "" {
		return r.Platform
	}
	return r.Platform + " @" + r.Handle
}

// ParseFormat validates and normalizes a format string.
func ParseFormat(value string) (Format, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "", string(FormatTable):
		return FormatTable, nil
	case string(FormatJSON):
		return FormatJSON, nil
	case string(FormatMarkdown), "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", value)
	}
}

// NewFormatter returns a formatter for the requested format. Color only
// affects the table format.
func NewFormatter(format Format, color bool) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: true}
	case FormatMarkdown:
		return &MarkdownFormatter{}
	default:
		return &TableFormatter{Color: color}
	}
}
