package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opmodel/confgraph/internal/condition"
	"github.com/opmodel/confgraph/internal/env"
	"github.com/opmodel/confgraph/internal/metadata"
	"github.com/opmodel/confgraph/internal/problems"
	"github.com/opmodel/confgraph/internal/registry"
	"github.com/opmodel/confgraph/internal/resource"
	"github.com/opmodel/confgraph/internal/strategy"
)

type fixture struct {
	catalog  *metadata.Catalog
	classes  *metadata.Classes
	env      *env.Environment
	registry *registry.MapRegistry
	problems *problems.Collector
	loader   *resource.Loader
	parser   *Parser
}

func newFixture(t *testing.T, catalogYAML string) *fixture {
	t.Helper()
	f := &fixture{
		catalog:  metadata.NewCatalog(),
		classes:  metadata.NewClasses(),
		env:      env.New(),
		registry: registry.NewMapRegistry(false),
		problems: problems.NewCollector(),
		loader:   resource.NewLoader("mem://localhost/parser"),
	}
	if catalogYAML != "" {
		require.NoError(t, f.catalog.LoadYAML("catalog.yaml", []byte(catalogYAML)))
	}
	return f
}

// build creates the parser once classes and properties are in place.
func (f *fixture) build() *Parser {
	caps := strategy.Capabilities{Environment: f.env, Resources: f.loader, Registry: f.registry, Classes: f.classes}
	conditions := condition.NewEvaluator(&condition.Context{Registry: f.registry, Environment: f.env, Classes: f.classes}, caps)
	f.parser = New(Options{
		Catalog:     f.catalog,
		Classes:     f.classes,
		Environment: f.env,
		Resources:   f.loader,
		Registry:    f.registry,
		Conditions:  conditions,
		Problems:    f.problems,
	})
	return f.parser
}

func (f *fixture) candidate(t *testing.T, name string) Candidate {
	t.Helper()
	md, err := f.catalog.Read(name)
	require.NoError(t, err)
	return Candidate{Name: name, Definition: registry.NewDefinition(registry.KindManual, md)}
}

func (f *fixture) parse(t *testing.T, names ...string) error {
	t.Helper()
	if f.parser == nil {
		f.build()
	}
	var candidates []Candidate
	for _, name := range names {
		candidates = append(candidates, f.candidate(t, name))
	}
	return f.parser.Parse(context.Background(), candidates)
}

// register adds a loaded class implementing iface whose constructor
// returns a fresh value from newFn.
func (f *fixture) register(t *testing.T, name string, iface string, newFn func() any) {
	t.Helper()
	require.NoError(t, f.classes.Register(&metadata.Class{
		Metadata: &metadata.TypeMetadata{Name: name, Interfaces: []string{iface}},
		New:      func(...any) (any, error) { return newFn(), nil },
	}))
}

func unitNames(units []*Unit) []string {
	var out []string
	for _, u := range units {
		out = append(out, u.Name())
	}
	return out
}

func producerNames(u *Unit) []string {
	var out []string
	for _, m := range u.Producers() {
		out = append(out, m.Name())
	}
	return out
}

type staticSelector struct {
	names   []string
	exclude Filter
}

func (s *staticSelector) SelectImports(*metadata.TypeMetadata) ([]string, error) { return s.names, nil }
func (s *staticSelector) ExclusionFilter() Filter                                { return s.exclude }

type deferredSelector struct {
	names    []string
	excludes []string
	group    string
}

func (s *deferredSelector) SelectImports(*metadata.TypeMetadata) ([]string, error) { return s.names, nil }
func (s *deferredSelector) ImportGroup() string                                    { return s.group }

// excludingGroup drops every name any member selector excludes, so each
// selector's result depends on all the others.
type excludingGroup struct {
	entries  []GroupEntry
	excluded map[string]bool
}

func (g *excludingGroup) Process(importing *metadata.TypeMetadata, selector DeferredSelector) error {
	names, err := selector.SelectImports(importing)
	if err != nil {
		return err
	}
	for _, name := range names {
		g.entries = append(g.entries, GroupEntry{Importing: importing, Name: name})
	}
	if ds, ok := selector.(*deferredSelector); ok {
		for _, name := range ds.excludes {
			g.excluded[name] = true
		}
	}
	return nil
}

func (g *excludingGroup) SelectImports() ([]GroupEntry, error) {
	var out []GroupEntry
	for _, e := range g.entries {
		if !g.excluded[e.Name] {
			out = append(out, e)
		}
	}
	return out, nil
}

type recordingRegistrar struct {
	calls []string
}

func (r *recordingRegistrar) RegisterDefinitions(importing *metadata.TypeMetadata, reg registry.Registry, _ registry.NameGenerator) error {
	r.calls = append(r.calls, importing.Name)
	return nil
}
