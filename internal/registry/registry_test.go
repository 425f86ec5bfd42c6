package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/opmodel/confgraph/internal/errors"
	"github.com/opmodel/confgraph/internal/metadata"
)

func TestMapRegistryOrderAndOverride(t *testing.T) {
	reg := NewMapRegistry(true)
	require.NoError(t, reg.Register("b", &Definition{TypeName: "x.B", Kind: KindManual}))
	require.NoError(t, reg.Register("a", &Definition{TypeName: "x.A", Kind: KindManual}))
	require.NoError(t, reg.Register("b", &Definition{TypeName: "x.B2", Kind: KindManual}))

	assert.Equal(t, []string{"b", "a"}, reg.Names(), "overriding keeps the original position")
	def, ok := reg.Get("b")
	require.True(t, ok)
	assert.Equal(t, "x.B2", def.TypeName)
	assert.Equal(t, 2, reg.Count())

	require.NoError(t, reg.Remove("b"))
	assert.False(t, reg.Contains("b"))
	assert.True(t, errors.Is(reg.Remove("b"), oerrors.ErrNotFound))
}

func TestMapRegistryNameClash(t *testing.T) {
	reg := NewMapRegistry(false)
	require.NoError(t, reg.Register("svc", &Definition{TypeName: "x.A", Kind: KindProducer, Origin: "a.yaml"}))

	err := reg.Register("svc", &Definition{TypeName: "x.B", Kind: KindProducer, Origin: "b.yaml"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, oerrors.ErrNameClash))
	assert.Contains(t, err.Error(), "svc")
	assert.Contains(t, err.Error(), "a.yaml")

	err = reg.Register("", &Definition{})
	assert.True(t, errors.Is(err, oerrors.ErrValidation))
}

func TestMapRegistryAliases(t *testing.T) {
	reg := NewMapRegistry(false)
	require.NoError(t, reg.Register("svc", &Definition{Kind: KindManual}))
	require.NoError(t, reg.Register("other", &Definition{Kind: KindManual}))

	require.NoError(t, reg.Alias("svc", "service"))
	require.NoError(t, reg.Alias("svc", "svc"))
	require.NoError(t, reg.Alias("svc", "primarySvc"))
	assert.Equal(t, []string{"primarySvc", "service"}, reg.Aliases("svc"))
	assert.Equal(t, "svc", reg.Canonical("service"))

	assert.True(t, errors.Is(reg.Alias("svc", "other"), oerrors.ErrNameClash))
	assert.True(t, errors.Is(reg.Alias("other", "service"), oerrors.ErrNameClash))

	require.NoError(t, reg.Remove("svc"))
	assert.Empty(t, reg.Aliases("svc"))
}

func TestNameGenerators(t *testing.T) {
	plain := NewDefinition(KindScanned, &metadata.TypeMetadata{Name: "example.com/app.OrderService"})
	named := NewDefinition(KindImported, &metadata.TypeMetadata{
		Name:    "example.com/app.Config",
		Markers: metadata.Markers{{Type: metadata.MarkerConfiguration, Attributes: metadata.Attributes{"value": "appConfig"}}},
	})
	nested := NewDefinition(KindScanned, &metadata.TypeMetadata{Name: "example.com/app.Outer.Inner"})

	tests := []struct {
		name string
		gen  NameGenerator
		def  *Definition
		want string
	}{
		{"default short name", DefaultNameGenerator{}, plain, "orderService"},
		{"default explicit", DefaultNameGenerator{}, named, "appConfig"},
		{"default nested", DefaultNameGenerator{}, nested, "outer.Inner"},
		{"qualified", QualifiedNameGenerator{}, plain, "example.com/app.OrderService"},
		{"qualified explicit", QualifiedNameGenerator{}, named, "appConfig"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.gen.Generate(tt.def, NewMapRegistry(true)))
		})
	}

	reg := NewMapRegistry(true)
	require.NoError(t, reg.Register("manual#0", &Definition{Kind: KindManual}))
	assert.Equal(t, "manual#1", DefaultNameGenerator{}.Generate(&Definition{Kind: KindManual}, reg))
}

const yamlDefinitions = `
definitions:
  - name: clock
    type: example.com/time.Clock
    aliases: [timeSource]
    scope: prototype
    lazy: true
  - name: pool
    factoryType: example.com/db.Pools
    factoryMethod: newPool
    role: infrastructure
    autowireCandidate: false
`

const jsonDefinitions = `{"definitions": [{"name": "clock", "type": "example.com/time.Clock", "dependsOn": ["pool"]}]}`

const hclDefinitions = `
definition "clock" {
  type    = "example.com/time.Clock"
  aliases = ["timeSource"]
  primary = true
}

definition "pool" {
  type           = "example.com/db.Pool"
  destroy_method = "Close"
}
`

func TestDefinitionReaders(t *testing.T) {
	t.Run("yaml", func(t *testing.T) {
		reg := NewMapRegistry(false)
		n, err := LoadDefinitions(reg, YAMLReader{}, "defs.yaml", []byte(yamlDefinitions), KindResource)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, []string{"clock", "pool"}, reg.Names())
		assert.Equal(t, []string{"timeSource"}, reg.Aliases("clock"))

		clock, _ := reg.Get("clock")
		assert.Equal(t, "prototype", clock.Scope)
		assert.True(t, clock.Lazy)
		assert.True(t, clock.AutowireCandidate)
		assert.Equal(t, KindResource, clock.Kind)
		assert.Equal(t, "defs.yaml", clock.Origin)

		pool, _ := reg.Get("pool")
		assert.Equal(t, RoleInfrastructure, pool.Role)
		assert.False(t, pool.AutowireCandidate)
		assert.Equal(t, "newPool", pool.FactoryMethod)
	})

	t.Run("json", func(t *testing.T) {
		reg := NewMapRegistry(false)
		_, err := LoadDefinitions(reg, JSONReader{}, "defs.json", []byte(jsonDefinitions), KindResource)
		require.NoError(t, err)
		clock, ok := reg.Get("clock")
		require.True(t, ok)
		assert.Equal(t, []string{"pool"}, clock.DependsOn)
	})

	t.Run("hcl", func(t *testing.T) {
		reg := NewMapRegistry(false)
		n, err := LoadDefinitions(reg, HCLReader{}, "defs.hcl", []byte(hclDefinitions), KindResource)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		clock, _ := reg.Get("clock")
		assert.True(t, clock.Primary)
		assert.Equal(t, []string{"timeSource"}, reg.Aliases("clock"))
		pool, _ := reg.Get("pool")
		assert.Equal(t, "Close", pool.DestroyMethod)
	})

	t.Run("invalid", func(t *testing.T) {
		reg := NewMapRegistry(false)
		_, err := LoadDefinitions(reg, YAMLReader{}, "bad.yaml", []byte("definitions: [{type: x.A}]"), KindResource)
		assert.True(t, errors.Is(err, oerrors.ErrValidation))
		_, err = LoadDefinitions(reg, HCLReader{}, "bad.hcl", []byte(`definition {`), KindResource)
		assert.True(t, errors.Is(err, oerrors.ErrValidation))
		_, err = LoadDefinitions(reg, JSONReader{}, "bad.json", []byte(`{"definitions": [{"name": "a", "bogus": 1}]}`), KindResource)
		assert.True(t, errors.Is(err, oerrors.ErrValidation))
	})
}

func TestReaderFor(t *testing.T) {
	tests := []struct {
		kind, location, want string
	}{
		{"", "defs.yaml", ReaderYAML},
		{"", "defs.yml", ReaderYAML},
		{"", "defs.JSON", ReaderJSON},
		{"", "defs.hcl", ReaderHCL},
		{"", "defs.xml", ReaderYAML},
		{"hcl", "defs.yaml", ReaderHCL},
	}
	for _, tt := range tests {
		t.Run(tt.kind+tt.location, func(t *testing.T) {
			r, err := ReaderFor(tt.kind, tt.location)
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.Kind())
		})
	}

	_, err := ReaderFor("groovy", "defs.groovy")
	assert.True(t, errors.Is(err, oerrors.ErrInvalidImport))
}

func TestApplyCommonMarkers(t *testing.T) {
	def := &Definition{Kind: KindScanned}
	ApplyCommonMarkers(def, metadata.Markers{
		{Type: metadata.MarkerLazy},
		{Type: metadata.MarkerPrimary},
		{Type: metadata.MarkerDependsOn, Attributes: metadata.Attributes{"value": []any{"a", "b"}}},
		{Type: metadata.MarkerRole, Attributes: metadata.Attributes{"value": 2}},
		{Type: metadata.MarkerDescription, Attributes: metadata.Attributes{"value": "the clock"}},
	})
	assert.True(t, def.Lazy)
	assert.True(t, def.Primary)
	assert.Equal(t, []string{"a", "b"}, def.DependsOn)
	assert.Equal(t, RoleInfrastructure, def.Role)
	assert.Equal(t, "the clock", def.Description)

	ApplyCommonMarkers(def, metadata.Markers{{Type: metadata.MarkerLazy, Attributes: metadata.Attributes{"value": false}}})
	assert.False(t, def.Lazy)
}
