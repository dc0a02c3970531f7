// Package diagnostics collects findings raised while bundling (an import
// cycle resolved through wrapper initialization, an unresolvable cycle
// that aborts the run, a cache miss, an unavailable cache) and can
// export them as a SARIF run via github.com/owenrumney/go-sarif/v2 for
// editors and CI annotations to consume. The mutex-guarded collector
// mirrors the shape of sentra's own ReportingModule, retargeted from
// security findings to bundler diagnostics.
package diagnostics

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/owenrumney/go-sarif/v2/sarif"
)

// Severity is how seriously a diagnostic should be treated.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Diagnostic is one message raised during a bundle run.
type Diagnostic struct {
	Severity Severity
	Rule     string // short machine-readable identifier, e.g. "unresolvable-cycle"
	Message  string
	File     string
	Line     int
}

// Collector accumulates diagnostics across a bundle run, safe for
// concurrent use by the parallel discovery/graph-building stage.
type Collector struct {
	mu    sync.Mutex
	items []Diagnostic
}

// NewCollector creates an empty diagnostics collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Add records a diagnostic.
func (c *Collector) Add(d Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, d)
}

// Warnf is a convenience wrapper around Add for SeverityWarning.
func (c *Collector) Warnf(rule, file string, line int, format string, args ...interface{}) {
	c.Add(Diagnostic{Severity: SeverityWarning, Rule: rule, File: file, Line: line, Message: fmt.Sprintf(format, args...)})
}

// Errorf is a convenience wrapper around Add for SeverityError.
func (c *Collector) Errorf(rule, file string, line int, format string, args ...interface{}) {
	c.Add(Diagnostic{Severity: SeverityError, Rule: rule, File: file, Line: line, Message: fmt.Sprintf(format, args...)})
}

// Items returns every diagnostic recorded so far, ordered by file then
// line for stable output.
func (c *Collector) Items() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := append([]Diagnostic(nil), c.items...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].File != out[j].File {
			return out[i].File < out[j].File
		}
		return out[i].Line < out[j].Line
	})
	return out
}

// HasErrors reports whether any collected diagnostic is SeverityError.
func (c *Collector) HasErrors() bool {
	for _, d := range c.Items() {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// WriteSARIF renders every collected diagnostic as a SARIF 2.1.0 run and
// writes it to path, for editors and CI systems that consume the format.
func (c *Collector) WriteSARIF(path string) error {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return fmt.Errorf("creating sarif report: %w", err)
	}
	run := sarif.NewRunWithInformationURI("weld", "https://github.com/weld-bundler/weld")

	rules := map[string]bool{}
	for _, d := range c.Items() {
		if !rules[d.Rule] {
			rules[d.Rule] = true
			run.AddRule(d.Rule).WithDescription(d.Rule)
		}
		level := sarifLevel(d.Severity)
		loc := sarif.NewPhysicalLocation().
			WithArtifactLocation(sarif.NewSimpleArtifactLocation(d.File)).
			WithRegion(sarif.NewSimpleRegion(d.Line, d.Line))
		run.AddResult(sarif.NewRuleResult(d.Rule).
			WithLevel(level).
			WithMessage(sarif.NewTextMessage(d.Message)).
			WithLocations([]*sarif.Location{sarif.NewLocationWithPhysicalLocation(loc)}))
	}
	report.AddRun(run)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating sarif output %s: %w", path, err)
	}
	defer f.Close()
	return report.PrettyWrite(f)
}

func sarifLevel(s Severity) string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}
