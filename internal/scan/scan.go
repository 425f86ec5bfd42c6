// Package scan discovers component definitions in catalog packages.
package scan

import (
	"fmt"
	"strings"

	"github.com/opmodel/confgraph/internal/condition"
	oerrors "github.com/opmodel/confgraph/internal/errors"
	"github.com/opmodel/confgraph/internal/metadata"
	"github.com/opmodel/confgraph/internal/output"
	"github.com/opmodel/confgraph/internal/registry"
	"github.com/opmodel/confgraph/internal/strategy"
)

// Source describes and lists the types available for scanning.
type Source interface {
	metadata.Reader
	metadata.Lister
}

// Scanner registers scanned definitions for ComponentScan declarations.
type Scanner struct {
	source     Source
	registry   registry.Registry
	conditions *condition.Evaluator
	caps       strategy.Capabilities
	names      registry.NameGenerator
}

// New creates a scanner. conditions may be nil.
func New(source Source, reg registry.Registry, conditions *condition.Evaluator, caps strategy.Capabilities) *Scanner {
	return &Scanner{
		source:     source,
		registry:   reg,
		conditions: conditions,
		caps:       caps,
		names:      registry.DefaultNameGenerator{},
	}
}

// Scan applies one ComponentScan declaration made on declaringType and
// returns the definitions it registered, in discovery order.
func (s *Scanner) Scan(attrs metadata.Attributes, declaringType string) ([]registry.Holder, error) {
	packages, err := s.basePackages(attrs, declaringType)
	if err != nil {
		return nil, err
	}

	var includes []TypeFilter
	if attrs.Bool("useDefaultFilters", true) {
		includes = append(includes,
			MarkerFilter(metadata.MarkerComponent),
			MarkerFilter(metadata.MarkerConfiguration))
	}
	extra, err := parseFilters(attrs.Maps("includeFilters"), s.source, s.caps, declaringType)
	if err != nil {
		return nil, err
	}
	includes = append(includes, extra...)

	excludes, err := parseFilters(attrs.Maps("excludeFilters"), s.source, s.caps, declaringType)
	if err != nil {
		return nil, err
	}
	excludes = append(excludes, FilterFunc(func(md *metadata.TypeMetadata, _ metadata.Reader) bool {
		return md.Name == declaringType
	}))

	lazy := attrs.Bool("lazyInit", false)
	seen := map[string]bool{}
	var out []registry.Holder

	for _, pkg := range packages {
		for _, md := range s.source.Types(pkg) {
			if seen[md.Name] {
				continue
			}
			seen[md.Name] = true

			ok, err := s.isCandidate(md, includes, excludes)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}

			def := registry.NewDefinition(registry.KindScanned, md)
			def.Lazy = lazy
			registry.ApplyCommonMarkers(def, md.Markers)
			name := s.names.Generate(def, s.registry)

			register, err := s.checkCandidate(name, def)
			if err != nil {
				return nil, err
			}
			if !register {
				continue
			}
			if err := s.registry.Register(name, def); err != nil {
				return nil, err
			}
			output.Debug("scanned definition", "name", name, "type", md.Name)
			out = append(out, registry.Holder{Name: name, Definition: def})
		}
	}
	return out, nil
}

func (s *Scanner) basePackages(attrs metadata.Attributes, declaringType string) ([]string, error) {
	var packages []string
	for _, raw := range attrs.Strings("basePackages") {
		resolved := raw
		if s.caps.Environment != nil {
			var err error
			if resolved, err = s.caps.Environment.ResolvePlaceholders(raw); err != nil {
				return nil, err
			}
		}
		for _, pkg := range strings.FieldsFunc(resolved, func(r rune) bool {
			return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\n'
		}) {
			packages = append(packages, pkg)
		}
	}
	for _, typ := range attrs.Strings("basePackageTypes") {
		packages = append(packages, metadata.PackageOf(typ))
	}
	if len(packages) == 0 {
		packages = append(packages, metadata.PackageOf(declaringType))
	}
	return packages, nil
}

func (s *Scanner) isCandidate(md *metadata.TypeMetadata, includes, excludes []TypeFilter) (bool, error) {
	if !md.IsConcrete() {
		return false, nil
	}
	for _, f := range excludes {
		if f.Match(md, s.source) {
			return false, nil
		}
	}
	for _, f := range includes {
		if !f.Match(md, s.source) {
			continue
		}
		if s.conditions == nil {
			return true, nil
		}
		skip, err := s.conditions.ShouldSkip(md, condition.PhaseParse)
		return !skip, err
	}
	return false, nil
}

// checkCandidate reports whether def should be registered under name. A
// name already taken by a compatible definition is skipped; any other
// holder is a conflict.
func (s *Scanner) checkCandidate(name string, def *registry.Definition) (bool, error) {
	existing, ok := s.registry.Get(name)
	if !ok {
		return true, nil
	}
	if existing.Kind != registry.KindScanned || existing.TypeName == def.TypeName {
		return false, nil
	}
	return false, oerrors.NewNameClashError(name, def.Describe(),
		fmt.Sprintf("%s, which is not compatible", existing.Describe()))
}
