package cmdutil

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	oerrors "github.com/opmodel/confgraph/internal/errors"
	"github.com/opmodel/confgraph/internal/output"
	"github.com/opmodel/confgraph/internal/parser"
	"github.com/opmodel/confgraph/internal/problems"
	"github.com/opmodel/confgraph/internal/registry"
)

// PrintEngineError prints an engine error in a user-friendly format.
// A DetailError gets a short summary line followed by its structured
// details; other errors fall back to the key-value log format.
func PrintEngineError(msg string, err error) {
	var detail *oerrors.DetailError
	if errors.As(err, &detail) {
		output.Error(fmt.Sprintf("%s: %s", msg, detail.Type))
		output.Details(detail.Error())
		return
	}
	output.Error(msg, "error", err)
}

// PrintProblems logs each problem under the project logger, errors first.
func PrintProblems(name string, list []problems.Problem) {
	log := output.UnitLogger(name)
	for _, severity := range []problems.Severity{problems.SeverityError, problems.SeverityWarning} {
		for _, p := range list {
			if p.Severity != severity {
				continue
			}
			keyvals := []interface{}{"kind", p.Kind}
			if p.Location != "" {
				keyvals = append(keyvals, "location", p.Location)
			}
			if severity == problems.SeverityError {
				log.Error(p.Message, keyvals...)
			} else {
				log.Warn(p.Message, keyvals...)
			}
		}
	}
}

// countErrors counts error-severity problems.
func countErrors(list []problems.Problem) int {
	n := 0
	for _, p := range list {
		if p.Severity == problems.SeverityError {
			n++
		}
	}
	return n
}

// WriteUnits writes resolved units in the given format.
func WriteUnits(w io.Writer, format output.OutputFormat, units []*parser.Unit) error {
	switch format {
	case output.FormatTree:
		_, err := io.WriteString(w, output.RenderTree(UnitTree(units)...))
		return err
	case output.FormatTable:
		tbl := output.NewTable("UNIT", "DEFINITION", "STATUS", "IMPORTED BY", "PRODUCERS")
		for _, r := range UnitReports(units) {
			tbl.Row(r.Name, r.Definition, r.Status, strings.Join(r.ImportedBy, ", "), fmt.Sprint(len(r.Producers)))
		}
		_, err := fmt.Fprintln(w, tbl.String())
		return err
	default:
		return output.WriteStructured(w, format, UnitReports(units))
	}
}

// WriteDefinitions writes the registered definitions in the given format.
// The tree format groups definitions by kind.
func WriteDefinitions(w io.Writer, format output.OutputFormat, reg registry.Registry) error {
	reports := DefinitionReports(reg)
	switch format {
	case output.FormatTable:
		tbl := output.NewTable("NAME", "KIND", "TYPE", "ROLE", "ORIGIN")
		for _, r := range reports {
			tbl.Row(r.Name, r.Kind, r.Type, r.Role, r.Origin)
		}
		_, err := fmt.Fprintln(w, tbl.String())
		return err
	case output.FormatTree:
		var roots []*output.TreeNode
		byKind := map[string]*output.TreeNode{}
		for _, r := range reports {
			node, ok := byKind[r.Kind]
			if !ok {
				node = &output.TreeNode{Name: r.Kind}
				byKind[r.Kind] = node
				roots = append(roots, node)
			}
			node.Add(r.Name, r.Type)
		}
		_, err := io.WriteString(w, output.RenderTree(roots...))
		return err
	default:
		return output.WriteStructured(w, format, reports)
	}
}

// DefinitionsYAML renders the definitions as a YAML mapping keyed by name,
// the shape the diff renderer compares.
func DefinitionsYAML(reg registry.Registry) ([]byte, error) {
	doc := yaml.Node{Kind: yaml.MappingNode}
	for _, r := range DefinitionReports(reg) {
		var value yaml.Node
		if err := value.Encode(r); err != nil {
			return nil, fmt.Errorf("encoding definition %s: %w", r.Name, err)
		}
		doc.Content = append(doc.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: r.Name}, &value)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
