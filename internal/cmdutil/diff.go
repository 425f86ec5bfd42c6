package cmdutil

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/opmodel/confgraph/internal/output"
	"github.com/opmodel/confgraph/internal/registry"
)

// CompareDefinitions compares two registries by definition name. Names only
// on the right are added, names only on the left removed, and names on both
// sides whose reports differ carry a YAML diff of the two reports.
func CompareDefinitions(left, right registry.Registry, useColor bool) (*output.DiffResult, error) {
	leftDocs, err := encodeReports(left)
	if err != nil {
		return nil, err
	}
	rightDocs, err := encodeReports(right)
	if err != nil {
		return nil, err
	}

	result := &output.DiffResult{}
	for _, name := range left.Names() {
		if _, ok := rightDocs[name]; !ok {
			result.Removed = append(result.Removed, name)
		}
	}
	for _, name := range right.Names() {
		l, ok := leftDocs[name]
		if !ok {
			result.Added = append(result.Added, name)
			continue
		}
		r := rightDocs[name]
		if bytes.Equal(l, r) {
			continue
		}
		diff, err := output.DiffYAML(l, r, useColor)
		if err != nil {
			return nil, fmt.Errorf("comparing definition %s: %w", name, err)
		}
		if diff != "" {
			result.Modified = append(result.Modified, output.ModifiedItem{Name: name, Diff: diff})
		}
	}
	return result, nil
}

func encodeReports(reg registry.Registry) (map[string][]byte, error) {
	docs := map[string][]byte{}
	for _, r := range DefinitionReports(reg) {
		data, err := yaml.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("encoding definition %s: %w", r.Name, err)
		}
		docs[r.Name] = data
	}
	return docs, nil
}
