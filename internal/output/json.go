package output

import (
	"encoding/json"

	"github.com/namevetter/namevetter/internal/core"
)

// JSONFormatter renders results in the same shape as the HTTP API.
type JSONFormatter struct {
	Indent bool
}

// FormatReport renders a check report as JSON.
func (f *JSONFormatter) FormatReport(report *core.CheckReport) (string, error) {
	if report == nil {
		return "", nil
	}
	return f.marshal(report)
}

// FormatResult renders a single probe as JSON.
func (f *JSONFormatter) FormatResult(result Result) (string, error) {
	return f.marshal(result)
}

// FormatSimilar renders similar domains as JSON.
func (f *JSONFormatter) FormatSimilar(handle string, matches []core.SimilarDomainMatch) (string, error) {
	if matches == nil {
		matches = []core.SimilarDomainMatch{}
	}
	return f.marshal(struct {
		Handle  string                    `json:"handle"`
		Similar []core.SimilarDomainMatch `json:"similar"`
	}{handle, matches})
}

func (f *JSONFormatter) marshal(v any) (string, error) {
	var (
		data []byte
		err  error
	)

	if f.Indent {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return "", err
	}

	return string(data), nil
}
