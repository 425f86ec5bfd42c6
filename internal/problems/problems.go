// Package problems collects non-fatal diagnostics found while resolving
// configuration sources.
package problems

import (
	"errors"
	"fmt"
	"strings"

	oerrors "github.com/opmodel/confgraph/internal/errors"
)

// Severity of a problem.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Problem kinds raised by the engine.
const (
	KindCircularImport     = "circular-import"
	KindFinalConfiguration = "final-configuration"
	KindNonOverridable     = "non-overridable-producer"
	KindVoidProducer       = "void-producer"
	KindOverloadedProducer = "overloaded-producer"
)

// Problem is one diagnostic attached to a source location.
type Problem struct {
	Kind     string   `json:"kind" yaml:"kind"`
	Message  string   `json:"message" yaml:"message"`
	Location string   `json:"location,omitempty" yaml:"location,omitempty"`
	Severity Severity `json:"severity" yaml:"severity"`
}

func (p Problem) String() string {
	if p.Location == "" {
		return fmt.Sprintf("%s: %s", p.Severity, p.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", p.Severity, p.Message, p.Location)
}

// Reporter receives problems.
type Reporter interface {
	Error(p Problem)
	Warning(p Problem)
}

// Collector keeps every reported problem in order.
type Collector struct {
	problems []Problem
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Error(p Problem) {
	p.Severity = SeverityError
	c.problems = append(c.problems, p)
}

func (c *Collector) Warning(p Problem) {
	p.Severity = SeverityWarning
	c.problems = append(c.problems, p)
}

// Problems returns the reported problems in order.
func (c *Collector) Problems() []Problem {
	return append([]Problem(nil), c.problems...)
}

// HasErrors reports whether any error-severity problem was reported.
func (c *Collector) HasErrors() bool {
	for _, p := range c.problems {
		if p.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Err joins every error-severity problem into one validation error, or
// returns nil when there are none.
func (c *Collector) Err() error {
	return Join(c.problems)
}

// Join renders the error-severity problems as a single validation error.
func Join(list []Problem) error {
	var errs []error
	var lines []string
	for _, p := range list {
		if p.Severity != SeverityError {
			continue
		}
		errs = append(errs, errors.New(p.String()))
		lines = append(lines, "- "+p.String())
	}
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(
		oerrors.NewValidationError(
			fmt.Sprintf("%d configuration problem(s):\n%s", len(errs), strings.Join(lines, "\n")), "", "", ""),
		errors.Join(errs...),
	)
}
