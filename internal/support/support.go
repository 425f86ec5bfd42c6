// Package support provides the built-in loaded types: a selector driven by
// properties, the auto-import selector and its group, and a registrar for
// definitions declared inline on a marker.
package support

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/opmodel/confgraph/internal/env"
	"github.com/opmodel/confgraph/internal/metadata"
	"github.com/opmodel/confgraph/internal/parser"
	"github.com/opmodel/confgraph/internal/registry"
)

// Property keys read by the support types.
const (
	PropertyImports           = "confgraph.imports"
	PropertyAutoImport        = "confgraph.autoimport"
	PropertyAutoImportExclude = "confgraph.autoimport.exclude"
)

// Register adds the support classes, keeping any class of the same name
// already registered.
func Register(classes *metadata.Classes) error {
	for _, class := range Classes() {
		if _, ok := classes.Load(class.Name()); ok {
			continue
		}
		if err := classes.Register(class); err != nil {
			return err
		}
	}
	return nil
}

// Classes returns the support classes.
func Classes() []*metadata.Class {
	return []*metadata.Class{
		{
			Metadata: &metadata.TypeMetadata{Name: metadata.TypePropertyImportSelector, Interfaces: []string{metadata.TypeImportSelector}},
			Params:   []metadata.Capability{metadata.CapEnvironment},
			New: func(args ...any) (any, error) {
				return &PropertyImportSelector{env: args[0].(*env.Environment)}, nil
			},
		},
		{
			Metadata: &metadata.TypeMetadata{Name: metadata.TypeAutoImportSelector, Interfaces: []string{metadata.TypeDeferredImportSelector}},
			New:      func(...any) (any, error) { return &AutoImportSelector{}, nil },
		},
		{
			Metadata: &metadata.TypeMetadata{Name: metadata.TypeAutoImportGroup, Interfaces: []string{metadata.TypeImportGroup}},
			New:      func(...any) (any, error) { return NewAutoImportGroup(), nil },
		},
		{
			Metadata: &metadata.TypeMetadata{Name: metadata.TypeMarkerDefinitionRegistrar, Interfaces: []string{metadata.TypeImportRegistrar}},
			New:      func(...any) (any, error) { return MarkerDefinitionRegistrar{}, nil },
		},
	}
}

// PropertyImportSelector imports the comma-separated types listed in the
// confgraph.imports property.
type PropertyImportSelector struct {
	env *env.Environment
}

func (s *PropertyImportSelector) SelectImports(*metadata.TypeMetadata) ([]string, error) {
	return splitList(s.env.PropertyOr(PropertyImports, "")), nil
}

// AutoImportSelector imports the types listed in confgraph.autoimport once
// every primary source has been parsed. Its environment is injected after
// construction.
type AutoImportSelector struct {
	env *env.Environment
}

func (s *AutoImportSelector) SetEnvironment(e *env.Environment) { s.env = e }

func (s *AutoImportSelector) ImportGroup() string { return metadata.TypeAutoImportGroup }

// Order runs auto-imports after other deferred selectors.
func (s *AutoImportSelector) Order() int { return parser.LowestPrecedence - 1 }

func (s *AutoImportSelector) SelectImports(importing *metadata.TypeMetadata) ([]string, error) {
	if s.env == nil {
		return nil, nil
	}
	excluded := s.Exclusions(importing)
	var out []string
	for _, name := range splitList(s.env.PropertyOr(PropertyAutoImport, "")) {
		if !excluded[name] {
			out = append(out, name)
		}
	}
	return out, nil
}

// Exclusions returns the types the importing type excludes through its
// EnableAutoImport markers, plus the confgraph.autoimport.exclude property.
func (s *AutoImportSelector) Exclusions(importing *metadata.TypeMetadata) map[string]bool {
	excluded := map[string]bool{}
	for _, attrs := range importing.Markers.All(metadata.MarkerEnableAutoImport) {
		for _, name := range attrs.Strings("exclude") {
			excluded[name] = true
		}
	}
	if s.env != nil {
		for _, name := range splitList(s.env.PropertyOr(PropertyAutoImportExclude, "")) {
			excluded[name] = true
		}
	}
	return excluded
}

// AutoImportGroup merges the auto-import selectors of all primary sources.
// A type excluded by any of them is not imported, and each type is imported
// once, on behalf of the first source that selected it.
type AutoImportGroup struct {
	entries  []parser.GroupEntry
	seen     map[string]bool
	excluded map[string]bool
}

// NewAutoImportGroup creates an empty group.
func NewAutoImportGroup() *AutoImportGroup {
	return &AutoImportGroup{seen: map[string]bool{}, excluded: map[string]bool{}}
}

func (g *AutoImportGroup) Process(importing *metadata.TypeMetadata, selector parser.DeferredSelector) error {
	auto, ok := selector.(*AutoImportSelector)
	if !ok {
		return fmt.Errorf("%s only accepts %s, got %T", metadata.TypeAutoImportGroup, metadata.TypeAutoImportSelector, selector)
	}
	names, err := auto.SelectImports(importing)
	if err != nil {
		return err
	}
	for name := range auto.Exclusions(importing) {
		g.excluded[name] = true
	}
	for _, name := range names {
		if !g.seen[name] {
			g.seen[name] = true
			g.entries = append(g.entries, parser.GroupEntry{Importing: importing, Name: name})
		}
	}
	return nil
}

func (g *AutoImportGroup) SelectImports() ([]parser.GroupEntry, error) {
	var out []parser.GroupEntry
	for _, e := range g.entries {
		if !g.excluded[e.Name] {
			out = append(out, e)
		}
	}
	return out, nil
}

// MarkerDefinitionRegistrar registers the definitions listed in the
// Definitions markers of the importing type. Entries use the definition
// resource schema; a missing name is generated.
type MarkerDefinitionRegistrar struct{}

func (MarkerDefinitionRegistrar) RegisterDefinitions(importing *metadata.TypeMetadata, reg registry.Registry, names registry.NameGenerator) error {
	for _, attrs := range importing.Markers.All(metadata.MarkerDefinitions) {
		for _, entry := range attrs.Maps("value") {
			spec, err := decodeSpec(entry)
			if err != nil {
				return fmt.Errorf("definition declared on %s: %w", importing.Name, err)
			}
			if spec.Name == "" {
				spec.Name = names.Generate(&registry.Definition{Kind: registry.KindRegistrar, TypeName: spec.Type}, reg)
			}
			h, err := spec.Holder(registry.KindRegistrar, importing.Name)
			if err != nil {
				return err
			}
			if err := registry.RegisterHolder(reg, h); err != nil {
				return err
			}
		}
	}
	return nil
}

func decodeSpec(entry metadata.Attributes) (registry.DefinitionSpec, error) {
	var spec registry.DefinitionSpec
	data, err := yaml.Marshal(map[string]any(entry))
	if err != nil {
		return spec, err
	}
	err = yaml.Unmarshal(data, &spec)
	return spec, err
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
