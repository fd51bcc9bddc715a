// Package platforms holds the social platform table and turns each platform's
// rules into a classification function over a raw HTTP response.
package platforms

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	platformsassets "github.com/namevetter/namevetter/internal/assets/platforms"
	"github.com/namevetter/namevetter/internal/core"
)

// DefaultWindow is the body prefix, in characters, inspected by rules that do
// not set their own window.
const DefaultWindow = 5000

// Response is the part of an HTTP exchange the classifier looks at.
type Response struct {
	StatusCode int
	FinalURL   string
	Body       string
}

// ClassifyFunc maps a response to a verdict and a method tag.
type ClassifyFunc func(Response) (core.Verdict, string)

// Rule is one platform-specific refinement tried before the generic rules.
type Rule struct {
	Verdict         core.Verdict `yaml:"verdict"`
	Method          string       `yaml:"method"`
	Status          []int        `yaml:"status"`
	URLContains     []string     `yaml:"url_contains"`
	BodyAny         []string     `yaml:"body_any"`
	BodyAll         []string     `yaml:"body_all"`
	Window          int          `yaml:"window"`
	CaseInsensitive bool         `yaml:"case_insensitive"`
}

// Platform is a social network definition.
type Platform struct {
	Name        string   `yaml:"name"`
	Aliases     []string `yaml:"aliases"`
	URLTemplate string   `yaml:"url_template"`
	Rules       []Rule   `yaml:"rules"`
}

type document struct {
	Version   int        `yaml:"version"`
	Platforms []Platform `yaml:"platforms"`
}

// Table is an immutable, validated set of platforms.
type Table struct {
	platforms   []Platform
	index       map[string]int
	classifiers map[string]ClassifyFunc
}

// Default parses the built-in platform table.
func Default() (*Table, error) {
	return Parse(platformsassets.YAML)
}

// Load reads a platform table from path. An empty path yields the default.
func Load(path string) (*Table, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	data, err := os.ReadFile(path) // #nosec G304 -- operator supplied config path
	if err != nil {
		return nil, fmt.Errorf("read platforms file: %w", err)
	}
	table, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("platforms file %s: %w", path, err)
	}
	return table, nil
}

// Parse decodes and validates a platform table document.
func Parse(data []byte) (*Table, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode platforms: %w", err)
	}
	return New(doc.Platforms)
}

// New validates platforms and compiles their classifiers.
func New(platforms []Platform) (*Table, error) {
	if len(platforms) == 0 {
		return nil, fmt.Errorf("no platforms defined")
	}

	t := &Table{
		platforms:   make([]Platform, 0, len(platforms)),
		index:       make(map[string]int, len(platforms)*2),
		classifiers: make(map[string]ClassifyFunc, len(platforms)),
	}

	for i, p := range platforms {
		p.Name = strings.TrimSpace(p.Name)
		if p.Name == "" {
			return nil, fmt.Errorf("platform %d: name is required", i)
		}
		if !strings.Contains(p.URLTemplate, core.HandlePlaceholder) {
			return nil, fmt.Errorf("platform %s: url_template must contain %s", p.Name, core.HandlePlaceholder)
		}
		rules := make([]Rule, len(p.Rules))
		for j, r := range p.Rules {
			normalized, err := normalizeRule(r)
			if err != nil {
				return nil, fmt.Errorf("platform %s rule %d: %w", p.Name, j, err)
			}
			rules[j] = normalized
		}
		p.Rules = rules

		pos := len(t.platforms)
		for _, key := range append([]string{p.Name}, p.Aliases...) {
			k := indexKey(key)
			if k == "" {
				continue
			}
			if _, dup := t.index[k]; dup {
				return nil, fmt.Errorf("platform %s: duplicate name or alias %q", p.Name, key)
			}
			t.index[k] = pos
		}

		t.platforms = append(t.platforms, p)
		t.classifiers[p.Name] = compile(p.Rules)
	}

	return t, nil
}

// Specs returns platform descriptors in table order.
func (t *Table) Specs() []core.PlatformSpec {
	specs := make([]core.PlatformSpec, 0, len(t.platforms))
	for _, p := range t.platforms {
		specs = append(specs, core.PlatformSpec{Name: p.Name, URLTemplate: p.URLTemplate})
	}
	return specs
}

// Platforms returns a copy of the table entries.
func (t *Table) Platforms() []Platform {
	out := make([]Platform, len(t.platforms))
	copy(out, t.platforms)
	return out
}

// Lookup finds a platform by name or alias, ignoring case.
func (t *Table) Lookup(name string) (core.PlatformSpec, bool) {
	pos, ok := t.index[indexKey(name)]
	if !ok {
		return core.PlatformSpec{}, false
	}
	p := t.platforms[pos]
	return core.PlatformSpec{Name: p.Name, URLTemplate: p.URLTemplate}, true
}

// Classifier returns the classification function for a platform name. Names
// not in the table get the generic rules.
func (t *Table) Classifier(name string) ClassifyFunc {
	if t != nil {
		if fn, ok := t.classifiers[name]; ok {
			return fn
		}
		if pos, ok := t.index[indexKey(name)]; ok {
			return t.classifiers[t.platforms[pos].Name]
		}
	}
	return Generic
}

// Len reports the number of platforms.
func (t *Table) Len() int {
	return len(t.platforms)
}

func indexKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func normalizeRule(r Rule) (Rule, error) {
	switch r.Verdict {
	case core.VerdictTaken, core.VerdictAvailable, core.VerdictUnknown:
	default:
		return r, fmt.Errorf("unsupported verdict %q", r.Verdict)
	}
	if strings.TrimSpace(r.Method) == "" {
		return r, fmt.Errorf("method is required")
	}
	if r.Window < 0 {
		return r, fmt.Errorf("window must not be negative")
	}
	if r.Window == 0 {
		r.Window = DefaultWindow
	}
	if len(r.Status) == 0 {
		r.Status = []int{200}
	}
	if r.CaseInsensitive {
		r.BodyAny = lowerAll(r.BodyAny)
		r.BodyAll = lowerAll(r.BodyAll)
	}
	return r, nil
}

func lowerAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}
