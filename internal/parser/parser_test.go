package parser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs/file"
	"pgregory.net/rapid"

	"github.com/opmodel/confgraph/internal/env"
	oerrors "github.com/opmodel/confgraph/internal/errors"
	"github.com/opmodel/confgraph/internal/metadata"
	"github.com/opmodel/confgraph/internal/problems"
	"github.com/opmodel/confgraph/internal/registry"
)

const importsCatalog = `
types:
  - name: example.com/app.App
    markers: [{type: confgraph.Configuration}]
    methods:
      - name: dataSource
        returnType: example.com/db.DataSource
        markers: [{type: confgraph.Bean}]
  - name: example.com/app.A
    markers:
      - type: confgraph.Configuration
      - type: confgraph.Import
        attributes: {value: [example.com/app.B]}
  - name: example.com/app.B
    markers:
      - type: confgraph.Configuration
      - type: confgraph.Import
        attributes: {value: [example.com/app.A]}
  - name: example.com/app.R
    markers:
      - type: confgraph.Configuration
      - type: confgraph.Import
        attributes: {value: [example.com/app.S]}
  - name: example.com/app.T
    markers:
      - type: confgraph.Configuration
      - type: confgraph.Import
        attributes: {value: [example.com/app.S]}
  - name: example.com/app.S
    markers: [{type: confgraph.Configuration}]
    methods:
      - name: shared
        returnType: example.com/app.Shared
        markers: [{type: confgraph.Bean}]
`

func TestParseSingleSource(t *testing.T) {
	f := newFixture(t, importsCatalog)
	require.NoError(t, f.parse(t, "example.com/app.App"))

	units := f.parser.Units()
	require.Len(t, units, 1)
	assert.Equal(t, "example.com/app.App", units[0].Name())
	assert.False(t, units[0].IsImported())
	assert.Equal(t, []string{"dataSource"}, producerNames(units[0]))
	assert.Zero(t, f.parser.DeferredGroups())
	assert.Empty(t, f.problems.Problems())
}

func TestParseMergesImporters(t *testing.T) {
	f := newFixture(t, importsCatalog)
	require.NoError(t, f.parse(t, "example.com/app.R", "example.com/app.T"))

	assert.Equal(t, []string{"example.com/app.S", "example.com/app.R", "example.com/app.T"}, unitNames(f.parser.Units()))
	s := f.parser.Unit("example.com/app.S")
	require.NotNil(t, s)
	assert.True(t, s.IsImported())
	assert.Equal(t, []string{"example.com/app.R", "example.com/app.T"}, unitNames(s.ImportedBy()))
	assert.Len(t, s.Producers(), 1)

	assert.Equal(t, "example.com/app.T", f.parser.ImportRegistry().ImportingFor("example.com/app.S").Name)
}

func TestParsePrimaryPrecedence(t *testing.T) {
	t.Run("primary after import replaces the imported unit", func(t *testing.T) {
		f := newFixture(t, importsCatalog)
		require.NoError(t, f.parse(t, "example.com/app.T", "example.com/app.S"))

		s := f.parser.Unit("example.com/app.S")
		require.NotNil(t, s)
		assert.False(t, s.IsImported())
		assert.Len(t, f.parser.Units(), 2)
	})

	t.Run("import after primary is ignored", func(t *testing.T) {
		f := newFixture(t, importsCatalog)
		require.NoError(t, f.parse(t, "example.com/app.S", "example.com/app.T"))

		s := f.parser.Unit("example.com/app.S")
		require.NotNil(t, s)
		assert.False(t, s.IsImported())
		assert.Len(t, f.parser.Units(), 2)
	})
}

func TestParseCircularImport(t *testing.T) {
	f := newFixture(t, importsCatalog)
	require.NoError(t, f.parse(t, "example.com/app.A"))

	assert.ElementsMatch(t, []string{"example.com/app.A", "example.com/app.B"}, unitNames(f.parser.Units()))
	assert.False(t, f.parser.Unit("example.com/app.A").IsImported())

	list := f.problems.Problems()
	require.Len(t, list, 1)
	assert.Equal(t, problems.KindCircularImport, list[0].Kind)
	assert.Equal(t, problems.SeverityError, list[0].Severity)
	assert.Contains(t, list[0].Message, "example.com/app.A")
	assert.Contains(t, list[0].Message, "example.com/app.B")
	assert.Equal(t, 0, f.parser.ImportRegistry().Len())
}

func TestParseUnresolvableImport(t *testing.T) {
	f := newFixture(t, `
types:
  - name: example.com/app.Broken
    markers:
      - type: confgraph.Configuration
      - type: confgraph.Import
        attributes: {value: example.com/missing.Type}
`)
	err := f.parse(t, "example.com/app.Broken")
	require.Error(t, err)
	assert.True(t, errors.Is(err, oerrors.ErrUnresolvable))
	assert.Contains(t, err.Error(), "example.com/missing.Type")
}

func TestParseSkipsPlatformImports(t *testing.T) {
	f := newFixture(t, `
types:
  - name: example.com/app.App
    markers:
      - type: confgraph.Configuration
      - type: confgraph.Import
        attributes: {value: [confgraph.Internal, builtin.Object]}
`)
	require.NoError(t, f.parse(t, "example.com/app.App"))
	assert.Equal(t, []string{"example.com/app.App"}, unitNames(f.parser.Units()))
}

func TestParseMetaImports(t *testing.T) {
	f := newFixture(t, `
types:
  - name: example.com/app.EnableCaching
    markers:
      - type: confgraph.Import
        attributes: {value: [example.com/app.CachingConfig]}
  - name: example.com/app.CachingConfig
    markers: [{type: confgraph.Configuration}]
  - name: example.com/app.App
    markers:
      - type: confgraph.Configuration
      - type: example.com/app.EnableCaching
`)
	require.NoError(t, f.parse(t, "example.com/app.App"))
	assert.Equal(t, []string{"example.com/app.CachingConfig", "example.com/app.App"}, unitNames(f.parser.Units()))
}

func TestParseConditionSkip(t *testing.T) {
	const catalog = `
types:
  - name: example.com/app.DevConfig
    markers:
      - type: confgraph.Configuration
      - type: confgraph.Profile
        attributes: {value: dev}
`
	f := newFixture(t, catalog)
	require.NoError(t, f.parse(t, "example.com/app.DevConfig"))
	assert.Empty(t, f.parser.Units())

	f = newFixture(t, catalog)
	f.env.ActiveProfiles = []string{"dev"}
	require.NoError(t, f.parse(t, "example.com/app.DevConfig"))
	assert.Len(t, f.parser.Units(), 1)
}

func TestParseMemberTypes(t *testing.T) {
	f := newFixture(t, `
types:
  - name: example.com/app.Outer
    memberTypes: [example.com/app.Outer.Inner, example.com/app.Outer.Plain]
    markers: [{type: confgraph.Configuration}]
  - name: example.com/app.Outer.Inner
    markers: [{type: confgraph.Configuration}]
  - name: example.com/app.Outer.Plain
  - name: example.com/app.Lite
    memberTypes: [example.com/app.Lite.Inner]
    methods:
      - name: thing
        markers: [{type: confgraph.Bean}]
  - name: example.com/app.Lite.Inner
    markers: [{type: confgraph.Configuration}]
`)
	require.NoError(t, f.parse(t, "example.com/app.Outer", "example.com/app.Lite"))

	assert.Equal(t, []string{"example.com/app.Outer.Inner", "example.com/app.Outer", "example.com/app.Lite"}, unitNames(f.parser.Units()))
	inner := f.parser.Unit("example.com/app.Outer.Inner")
	require.NotNil(t, inner)
	assert.Equal(t, []string{"example.com/app.Outer"}, unitNames(inner.ImportedBy()))
}

func TestParseHierarchy(t *testing.T) {
	f := newFixture(t, `
types:
  - name: example.com/app.Defaults
    interface: true
    methods:
      - name: clock
        markers: [{type: confgraph.Bean}]
      - name: required
        abstract: true
        markers: [{type: confgraph.Bean}]
  - name: example.com/app.Base
    methods:
      - name: base
        markers: [{type: confgraph.Bean}]
  - name: example.com/app.First
    superclass: example.com/app.Base
    interfaces: [example.com/app.Defaults]
    markers: [{type: confgraph.Configuration}]
    methods:
      - name: first
        markers: [{type: confgraph.Bean}]
  - name: example.com/app.Second
    superclass: example.com/app.Base
    markers: [{type: confgraph.Configuration}]
    methods:
      - name: second
        markers: [{type: confgraph.Bean}]
`)
	require.NoError(t, f.parse(t, "example.com/app.First", "example.com/app.Second"))

	assert.Equal(t, []string{"clock", "first", "base"}, producerNames(f.parser.Unit("example.com/app.First")))
	assert.Equal(t, []string{"second"}, producerNames(f.parser.Unit("example.com/app.Second")))
}

func TestParseResourceImports(t *testing.T) {
	f := newFixture(t, `
types:
  - name: example.com/app.App
    markers:
      - type: confgraph.Configuration
      - type: confgraph.ImportResource
        attributes:
          locations: ["${defs.dir:defs}/beans.yaml", legacy.hcl]
          reader: hcl
`)
	require.NoError(t, f.parse(t, "example.com/app.App"))

	resources := f.parser.Unit("example.com/app.App").Resources()
	require.Len(t, resources, 2)
	assert.Equal(t, "defs/beans.yaml", resources[0].Location)
	assert.Equal(t, "hcl", resources[0].Reader)
	assert.Equal(t, "legacy.hcl", resources[1].Location)
}

func TestParsePropertySources(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, `
types:
  - name: example.com/app.First
    markers:
      - type: confgraph.Configuration
      - type: confgraph.PropertySource
        attributes: {name: shared, value: [first.yaml]}
  - name: example.com/app.Second
    markers:
      - type: confgraph.Configuration
      - type: confgraph.PropertySource
        attributes: {name: shared, value: [second.yaml]}
      - type: confgraph.PropertySource
        attributes: {name: other, value: [other.yaml, missing.yaml], ignoreResourceNotFound: true}
`)
	fs := f.loader.Service()
	for name, content := range map[string]string{
		"first.yaml":  "greeting: hello\nfirstOnly: one\n",
		"second.yaml": "greeting: hi\n",
		"other.yaml":  "greeting: hey\n",
	} {
		require.NoError(t, fs.Upload(ctx, f.loader.Resolve(name), file.DefaultFileOsMode, bytes.NewReader([]byte(content))))
	}
	require.NoError(t, f.parse(t, "example.com/app.First", "example.com/app.Second"))

	assert.Equal(t, []string{"other", "shared"}, f.env.Sources.Names())
	shared, ok := f.env.Sources.Get("shared").(*env.CompositePropertySource)
	require.True(t, ok)
	assert.Len(t, shared.Members(), 2)

	v, ok := shared.Property("greeting")
	require.True(t, ok)
	assert.Equal(t, "hi", v)
	v, ok = shared.Property("firstonly")
	require.True(t, ok)
	assert.Equal(t, "one", v)
}

func TestParseMissingPropertySource(t *testing.T) {
	f := newFixture(t, `
types:
  - name: example.com/app.App
    markers:
      - type: confgraph.Configuration
      - type: confgraph.PropertySource
        attributes: {value: [absent.yaml]}
`)
	err := f.parse(t, "example.com/app.App")
	require.Error(t, err)
	assert.True(t, errors.Is(err, oerrors.ErrNotFound))
}

func TestParseSelectors(t *testing.T) {
	f := newFixture(t, `
types:
  - name: example.com/app.App
    markers:
      - type: confgraph.Configuration
      - type: confgraph.Import
        attributes: {value: [example.com/app.Choose, example.com/app.Register]}
  - name: example.com/app.Keep
    markers: [{type: confgraph.Configuration}]
`)
	f.register(t, "example.com/app.Choose", metadata.TypeImportSelector, func() any {
		return &staticSelector{
			names:   []string{"example.com/app.Keep", "example.com/app.Drop"},
			exclude: func(name string) bool { return name == "example.com/app.Drop" },
		}
	})
	rec := &recordingRegistrar{}
	f.register(t, "example.com/app.Register", metadata.TypeImportRegistrar, func() any { return rec })

	require.NoError(t, f.parse(t, "example.com/app.App"))

	assert.Equal(t, []string{"example.com/app.Keep", "example.com/app.App"}, unitNames(f.parser.Units()))
	assert.Equal(t, []string{"example.com/app.App"}, unitNames(f.parser.Unit("example.com/app.Keep").ImportedBy()))

	registrars := f.parser.Unit("example.com/app.App").Registrars()
	require.Len(t, registrars, 1)
	assert.Same(t, rec, registrars[0].Registrar)
	assert.Equal(t, "example.com/app.App", registrars[0].Importing.Name)
	assert.Empty(t, rec.calls)
}

func TestParseSelectorNotImplemented(t *testing.T) {
	f := newFixture(t, `
types:
  - name: example.com/app.App
    markers:
      - type: confgraph.Configuration
      - type: confgraph.Import
        attributes: {value: [example.com/app.Liar]}
`)
	f.register(t, "example.com/app.Liar", metadata.TypeImportSelector, func() any { return "not a selector" })

	err := f.parse(t, "example.com/app.App")
	require.Error(t, err)
	assert.True(t, errors.Is(err, oerrors.ErrInstantiation))
	assert.Contains(t, err.Error(), "example.com/app.App", "names the importing source")
	assert.Contains(t, err.Error(), "example.com/app.Liar")
}

const deferredCatalog = `
types:
  - name: example.com/app.App
    markers: [{type: confgraph.Configuration}]
  - name: example.com/auto.X
    markers: [{type: confgraph.Configuration}]
  - name: example.com/auto.Y
    markers: [{type: confgraph.Configuration}]
  - name: example.com/auto.Z
    markers: [{type: confgraph.Configuration}]
`

// deferredApp parses App importing the named deferred selectors in order.
func deferredApp(t *testing.T, selectors map[string]*deferredSelector, order []string) *fixture {
	t.Helper()
	f := newFixture(t, deferredCatalog)
	app, err := f.catalog.Read("example.com/app.App")
	require.NoError(t, err)
	app = app.Clone()
	app.Name = "example.com/app.Main"
	app.Markers = append(app.Markers, metadata.Marker{
		Type:       metadata.MarkerImport,
		Attributes: metadata.Attributes{"value": order},
	})
	require.NoError(t, f.catalog.Add(app))

	for name, sel := range selectors {
		f.register(t, name, metadata.TypeDeferredImportSelector, func() any { return sel })
	}
	f.register(t, "example.com/auto.Group", metadata.TypeImportGroup, func() any {
		return &excludingGroup{excluded: map[string]bool{}}
	})
	require.NoError(t, f.parse(t, "example.com/app.Main"))
	return f
}

func TestParseDeferredSelectors(t *testing.T) {
	selectors := map[string]*deferredSelector{
		"example.com/auto.SelectX": {names: []string{"example.com/auto.X"}, excludes: []string{"example.com/auto.Y"}, group: "example.com/auto.Group"},
		"example.com/auto.SelectY": {names: []string{"example.com/auto.Y"}, group: "example.com/auto.Group"},
		"example.com/auto.SelectZ": {names: []string{"example.com/auto.Z"}},
	}
	for _, order := range [][]string{
		{"example.com/auto.SelectX", "example.com/auto.SelectY", "example.com/auto.SelectZ"},
		{"example.com/auto.SelectZ", "example.com/auto.SelectY", "example.com/auto.SelectX"},
	} {
		t.Run(fmt.Sprint(order), func(t *testing.T) {
			f := deferredApp(t, selectors, order)
			assert.ElementsMatch(t, []string{"example.com/app.Main", "example.com/auto.X", "example.com/auto.Z"}, unitNames(f.parser.Units()))
			assert.Equal(t, 2, f.parser.DeferredGroups())
			assert.Equal(t, []string{"example.com/app.Main"}, unitNames(f.parser.Unit("example.com/auto.X").ImportedBy()))
		})
	}
}

func TestParseDeferredAfterPrimaries(t *testing.T) {
	selectors := map[string]*deferredSelector{
		"example.com/auto.SelectX": {names: []string{"example.com/auto.X"}},
	}
	f := newFixture(t, deferredCatalog)
	require.NoError(t, f.catalog.Add(&metadata.TypeMetadata{
		Name: "example.com/app.Main",
		Markers: metadata.Markers{
			{Type: metadata.MarkerConfiguration},
			{Type: metadata.MarkerImport, Attributes: metadata.Attributes{"value": []string{"example.com/auto.SelectX"}}},
		},
	}))
	f.register(t, "example.com/auto.SelectX", metadata.TypeDeferredImportSelector, func() any { return selectors["example.com/auto.SelectX"] })

	// X is also a primary source declared after Main, so the deferred
	// import sees it already resolved and leaves it primary.
	require.NoError(t, f.parse(t, "example.com/app.Main", "example.com/auto.X"))
	assert.Equal(t, []string{"example.com/app.Main", "example.com/auto.X"}, unitNames(f.parser.Units()))
	assert.False(t, f.parser.Unit("example.com/auto.X").IsImported())
	assert.Equal(t, 1, f.parser.DeferredGroups())
}

func TestDeferredOrderIndependence(t *testing.T) {
	targets := []string{"example.com/auto.X", "example.com/auto.Y", "example.com/auto.Z"}
	rapid.Check(t, func(rt *rapid.T) {
		selectors := map[string]*deferredSelector{}
		var names []string
		n := rapid.IntRange(1, 5).Draw(rt, "selectors")
		for i := range n {
			name := fmt.Sprintf("example.com/auto.Select%d", i)
			sel := &deferredSelector{
				names:    []string{rapid.SampledFrom(targets).Draw(rt, "target")},
				excludes: rapid.SliceOfDistinct(rapid.SampledFrom(targets), rapid.ID[string]).Draw(rt, "excludes"),
			}
			if rapid.Bool().Draw(rt, "grouped") {
				sel.group = "example.com/auto.Group"
			}
			selectors[name] = sel
			names = append(names, name)
		}
		perm := rapid.Permutation(names).Draw(rt, "order")

		want := unitNames(deferredApp(t, selectors, names).parser.Units())
		got := unitNames(deferredApp(t, selectors, perm).parser.Units())
		slices.Sort(want)
		slices.Sort(got)
		if !slices.Equal(want, got) {
			rt.Fatalf("order %v resolved %v, order %v resolved %v", names, want, perm, got)
		}
	})
}

func TestImportGraphTerminates(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 6).Draw(rt, "types")
		catalog := metadata.NewCatalog()
		var all []string
		for i := range n {
			all = append(all, fmt.Sprintf("example.com/graph.T%d", i))
		}
		for _, name := range all {
			imports := rapid.SliceOfDistinct(rapid.SampledFrom(all), rapid.ID[string]).Draw(rt, name)
			md := &metadata.TypeMetadata{Name: name, Markers: metadata.Markers{{Type: metadata.MarkerConfiguration}}}
			if len(imports) > 0 {
				md.Markers = append(md.Markers, metadata.Marker{
					Type:       metadata.MarkerImport,
					Attributes: metadata.Attributes{"value": imports},
				})
			}
			if err := catalog.Add(md); err != nil {
				rt.Fatal(err)
			}
		}

		collector := problems.NewCollector()
		p := New(Options{Catalog: catalog, Problems: collector})
		var candidates []Candidate
		for _, name := range rapid.SliceOfDistinct(rapid.SampledFrom(all), rapid.ID[string]).Draw(rt, "primaries") {
			md, _ := catalog.Read(name)
			candidates = append(candidates, Candidate{Name: name, Definition: registry.NewDefinition(registry.KindManual, md)})
		}
		if err := p.Parse(context.Background(), candidates); err != nil {
			rt.Fatal(err)
		}

		got := unitNames(p.Units())
		seen := map[string]bool{}
		for _, name := range got {
			if seen[name] {
				rt.Fatalf("unit %s resolved twice", name)
			}
			seen[name] = true
		}
		for _, c := range candidates {
			if !seen[c.Name] {
				rt.Fatalf("primary %s missing from %v", c.Name, got)
			}
			if p.Unit(c.Name).IsImported() {
				rt.Fatalf("primary %s resolved as imported", c.Name)
			}
		}
		if p.ImportRegistry().Len() != 0 {
			rt.Fatalf("import stack not unwound: %s", p.ImportRegistry().Path())
		}
	})
}

func TestParseScannedDuplicate(t *testing.T) {
	f := newFixture(t, importsCatalog)
	require.NoError(t, f.parse(t, "example.com/app.App"))

	md, err := f.catalog.Read("example.com/app.App")
	require.NoError(t, err)
	scanned := registry.NewDefinition(registry.KindScanned, md)
	require.NoError(t, f.registry.Register("app", scanned))

	require.NoError(t, f.parser.Parse(context.Background(), []Candidate{{Name: "app", Definition: scanned}}))
	assert.False(t, f.registry.Contains("app"))
	assert.Len(t, f.parser.Units(), 1)
}

func TestProducerDeclarationOrder(t *testing.T) {
	loaded := &metadata.TypeMetadata{
		Name:    "example.com/app.Ordered",
		Markers: metadata.Markers{{Type: metadata.MarkerConfiguration}},
		Methods: []*metadata.MethodMetadata{
			{Name: "zeta", Markers: metadata.Markers{{Type: metadata.MarkerBean}}},
			{Name: "alpha", Markers: metadata.Markers{{Type: metadata.MarkerBean}}},
			{Name: "mid", Markers: metadata.Markers{{Type: metadata.MarkerBean}}},
		},
	}

	tests := []struct {
		name     string
		declared []string
		want     []string
	}{
		{"full match uses declaration order", []string{"zeta", "alpha", "mid"}, []string{"zeta", "alpha", "mid"}},
		{"extra declared methods are ignored", []string{"mid", "extra", "zeta", "alpha"}, []string{"mid", "zeta", "alpha"}},
		{"partial match keeps loaded order", []string{"zeta", "alpha"}, []string{"alpha", "mid", "zeta"}},
		{"no catalog entry keeps loaded order", nil, []string{"alpha", "mid", "zeta"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "")
			require.NoError(t, f.classes.Register(&metadata.Class{Metadata: loaded}))
			if tt.declared != nil {
				md := &metadata.TypeMetadata{Name: loaded.Name, Markers: loaded.Markers}
				for _, name := range tt.declared {
					md.Methods = append(md.Methods, &metadata.MethodMetadata{Name: name, Markers: metadata.Markers{{Type: metadata.MarkerBean}}})
				}
				require.NoError(t, f.catalog.Add(md))
			}
			class, ok := f.classes.Load(loaded.Name)
			require.True(t, ok)

			f.build()
			require.NoError(t, f.parser.Parse(context.Background(), []Candidate{{Name: "ordered", Class: class}}))
			assert.Equal(t, tt.want, producerNames(f.parser.Unit(loaded.Name)))
		})
	}
}

func TestValidate(t *testing.T) {
	f := newFixture(t, `
types:
  - name: example.com/app.Final
    final: true
    markers: [{type: confgraph.Configuration}]
  - name: example.com/app.Methods
    markers: [{type: confgraph.Configuration}]
    methods:
      - name: nothing
        returnType: void
        markers: [{type: confgraph.Bean}]
      - name: hidden
        private: true
        markers: [{type: confgraph.Bean}]
      - name: helper
        static: true
        private: true
        markers: [{type: confgraph.Bean}]
      - name: dup
        markers: [{type: confgraph.Bean}]
      - name: dup
        markers: [{type: confgraph.Bean}]
  - name: example.com/app.Relaxed
    final: true
    markers:
      - type: confgraph.Configuration
        attributes: {proxyBeanMethods: false, enforceUniqueMethods: false}
    methods:
      - name: hidden
        private: true
        markers: [{type: confgraph.Bean}]
      - name: dup
        markers: [{type: confgraph.Bean}]
      - name: dup
        markers: [{type: confgraph.Bean}]
  - name: example.com/app.LiteSource
    final: true
    methods:
      - name: nothing
        returnType: void
        markers: [{type: confgraph.Bean}]
`)
	require.NoError(t, f.parse(t, "example.com/app.Final", "example.com/app.Methods", "example.com/app.Relaxed", "example.com/app.LiteSource"))
	f.parser.Validate()

	var kinds []string
	for _, p := range f.problems.Problems() {
		kinds = append(kinds, p.Kind)
	}
	assert.ElementsMatch(t, []string{
		problems.KindFinalConfiguration,
		problems.KindVoidProducer,
		problems.KindNonOverridable,
		problems.KindOverloadedProducer,
	}, kinds)
	assert.True(t, f.problems.HasErrors())
}
