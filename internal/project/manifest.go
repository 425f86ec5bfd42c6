// Package project loads a confgraph project manifest and turns it into the
// inputs of a bootstrap run.
package project

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	oerrors "github.com/opmodel/confgraph/internal/errors"
)

// ManifestFile is the manifest name looked up in a project directory.
const ManifestFile = "confgraph.yaml"

// Manifest is the content of confgraph.yaml.
type Manifest struct {
	// Name labels the project in output.
	Name string `yaml:"name,omitempty"`

	// Catalogs are catalog files or directories; directories are searched
	// recursively for .yaml, .yml and .cue files.
	Catalogs []string `yaml:"catalogs"`

	// Primary lists the types registered before resolution starts.
	Primary []PrimarySpec `yaml:"primary"`

	// Definitions are definition resources loaded before resolution starts.
	Definitions []string `yaml:"definitions,omitempty"`

	// Properties form the highest-precedence property source.
	Properties map[string]any `yaml:"properties,omitempty"`

	// PropertyFiles are added after the system environment, first file first.
	PropertyFiles []string `yaml:"propertyFiles,omitempty"`

	// Profiles are activated for the run.
	Profiles []string `yaml:"profiles,omitempty"`

	// AllowOverriding is the project's default for definition overriding.
	AllowOverriding *bool `yaml:"allowOverriding,omitempty"`
}

// PrimarySpec names a primary type and, optionally, its definition name.
// A bare string is accepted as the type name.
type PrimarySpec struct {
	Type string `yaml:"type"`
	Name string `yaml:"name,omitempty"`
}

// UnmarshalYAML accepts either a scalar type name or a mapping.
func (p *PrimarySpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		p.Type = node.Value
		return nil
	}
	type plain PrimarySpec
	return node.Decode((*plain)(p))
}

// ParseManifest decodes and validates a manifest. Unknown keys are rejected.
func ParseManifest(location string, data []byte) (*Manifest, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, oerrors.NewValidationError(fmt.Sprintf("parsing manifest: %v", err), location, "",
			"known keys: name, catalogs, primary, definitions, properties, propertyFiles, profiles, allowOverriding")
	}
	if err := m.Validate(location); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the fields every run needs.
func (m *Manifest) Validate(location string) error {
	if len(m.Catalogs) == 0 {
		return oerrors.NewValidationError("manifest lists no catalogs", location, "catalogs", "")
	}
	if len(m.Primary) == 0 {
		return oerrors.NewValidationError("manifest lists no primary types", location, "primary", "")
	}
	seen := map[string]bool{}
	for i, p := range m.Primary {
		field := fmt.Sprintf("primary[%d]", i)
		if p.Type == "" {
			return oerrors.NewValidationError("primary entry without a type", location, field, "")
		}
		if p.Name != "" {
			if seen[p.Name] {
				return oerrors.NewValidationError(fmt.Sprintf("primary name %q is used twice", p.Name), location, field, "")
			}
			seen[p.Name] = true
		}
	}
	return nil
}
