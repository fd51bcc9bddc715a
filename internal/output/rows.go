package output

import (
	"fmt"
	"sort"
	"strings"

	"github.com/namevetter/namevetter/internal/core"
)

type row struct {
	kind    string
	target  string
	verdict core.Verdict
	method  string
	notes   string
}

// reportRows flattens a report into domain rows then social rows, each
// sorted by target.
func reportRows(report *core.CheckReport) []row {
	if report == nil {
		return nil
	}
	rows := make([]row, 0, len(report.Domains)+len(report.Social))
	rows = appendSorted(rows, "domain", report.Handle, report.Domains)
	rows = appendSorted(rows, "social", "", report.Social)
	return rows
}

// Domain results are keyed by extension; prefix joins them back to the
// handle for display.
func appendSorted(rows []row, kind, prefix string, results map[string]core.ProbeResult) []row {
	targets := make([]string, 0, len(results))
	for target := range results {
		targets = append(targets, target)
	}
	sort.Strings(targets)
	for _, target := range targets {
		res := results[target]
		rows = append(rows, row{
			kind:    kind,
			target:  displayTarget(prefix, target),
			verdict: res.Verdict,
			method:  res.Method,
			notes:   formatNotes(res),
		})
	}
	return rows
}

func displayTarget(prefix, key string) string {
	if prefix != "" && strings.HasPrefix(key, ".") {
		return prefix + key
	}
	return key
}

func resultRow(result Result) row {
	kind := result.Kind
	if kind == "" {
		kind = "domain"
		if result.Platform != "" {
			kind = "social"
		}
	}
	return row{
		kind:    kind,
		target:  result.Target(),
		verdict: result.Verdict,
		method:  result.Method,
		notes:   formatNotes(result.ProbeResult),
	}
}

var noteOrder = []string{"registrar", "registered", "expires", "ip", "http_status"}

// formatNotes renders the well-known detail keys first, then any others,
// then the diagnostic.
func formatNotes(res core.ProbeResult) string {
	var parts []string
	seen := make(map[string]bool, len(res.Details))
	for _, key := range noteOrder {
		if value := strings.TrimSpace(res.Details[key]); value != "" {
			parts = append(parts, key+": "+value)
			seen[key] = true
		}
	}

	var rest []string
	for key := range res.Details {
		if !seen[key] && strings.TrimSpace(res.Details[key]) != "" {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		parts = append(parts, key+": "+res.Details[key])
	}

	if res.Error != "" {
		parts = append(parts, "error: "+res.Error)
	}
	return strings.Join(parts, "; ")
}

// summary reports available targets out of all targets, e.g. "9/13 available, 2 unknown".
func summary(rows []row) string {
	if len(rows) == 0 {
		return ""
	}
	var available, unknown int
	for _, r := range rows {
		switch r.verdict {
		case core.VerdictAvailable:
			available++
		case core.VerdictUnknown:
			unknown++
		}
	}
	text := fmt.Sprintf("%d/%d available", available, len(rows))
	if unknown > 0 {
		text += fmt.Sprintf(", %d unknown", unknown)
	}
	return text
}
