package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opmodel/confgraph/internal/metadata"
	"github.com/opmodel/confgraph/internal/registry"
)

const candidateCatalog = `
types:
  - name: example.com/app.Full
    markers:
      - type: confgraph.Configuration
      - type: confgraph.Order
        attributes: {value: 5}
  - name: example.com/app.Unproxied
    markers:
      - type: confgraph.Configuration
        attributes: {proxyBeanMethods: false}
  - name: example.com/app.Scanned
    markers: [{type: confgraph.ComponentScan}]
  - name: example.com/app.Producers
    methods:
      - name: clock
        markers: [{type: confgraph.Bean}]
  - name: example.com/app.Plain
  - name: example.com/app.Contract
    interface: true
    markers: [{type: confgraph.Configuration}]
  - name: example.com/app.AutoConfig
    markers: [{type: example.com/app.EnableThings}]
  - name: example.com/app.EnableThings
    markers: [{type: confgraph.Configuration}]
`

func TestCheckCandidate(t *testing.T) {
	catalog := metadata.NewCatalog()
	require.NoError(t, catalog.LoadYAML("catalog.yaml", []byte(candidateCatalog)))

	tests := []struct {
		typeName string
		want     string
	}{
		{"example.com/app.Full", ModeFull},
		{"example.com/app.Unproxied", ModeLite},
		{"example.com/app.Scanned", ModeLite},
		{"example.com/app.Producers", ModeLite},
		{"example.com/app.AutoConfig", ModeFull},
		{"example.com/app.Plain", ""},
		{"example.com/app.Contract", ""},
	}
	for _, tt := range tests {
		t.Run(tt.typeName, func(t *testing.T) {
			def := &registry.Definition{Kind: registry.KindManual, TypeName: tt.typeName}
			ok := CheckCandidate(def, catalog)
			mode, _ := def.Attribute(registry.AttrConfigurationClass)
			if tt.want == "" {
				assert.False(t, ok)
				assert.Nil(t, mode)
				return
			}
			assert.True(t, ok)
			assert.Equal(t, tt.want, mode)
		})
	}

	t.Run("forced candidate", func(t *testing.T) {
		md, err := catalog.Read("example.com/app.Plain")
		require.NoError(t, err)
		def := registry.NewDefinition(registry.KindManual, md)
		def.SetAttribute(registry.AttrCandidate, true)
		assert.True(t, CheckCandidate(def, catalog))
	})

	t.Run("factory produced definitions are not candidates", func(t *testing.T) {
		md, err := catalog.Read("example.com/app.Full")
		require.NoError(t, err)
		def := registry.NewDefinition(registry.KindProducer, md)
		def.FactoryMethod = "full"
		assert.False(t, CheckCandidate(def, catalog))
	})

	t.Run("unknown type", func(t *testing.T) {
		assert.False(t, CheckCandidate(&registry.Definition{TypeName: "example.com/app.Missing"}, catalog))
	})
}

func TestIsConfigurationCandidate(t *testing.T) {
	catalog := metadata.NewCatalog()
	require.NoError(t, catalog.LoadYAML("catalog.yaml", []byte(candidateCatalog)))

	tests := []struct {
		typeName string
		want     bool
	}{
		{"example.com/app.Full", true},
		{"example.com/app.Unproxied", true},
		{"example.com/app.Scanned", true},
		{"example.com/app.Producers", true},
		{"example.com/app.AutoConfig", true},
		{"example.com/app.Plain", false},
		{"example.com/app.Contract", false},
	}
	for _, tt := range tests {
		t.Run(tt.typeName, func(t *testing.T) {
			md, err := catalog.Read(tt.typeName)
			require.NoError(t, err)
			assert.Equal(t, tt.want, IsConfigurationCandidate(md, catalog))
		})
	}
}

func TestSortCandidates(t *testing.T) {
	catalog := metadata.NewCatalog()
	require.NoError(t, catalog.LoadYAML("catalog.yaml", []byte(`
types:
  - name: example.com/app.Late
    markers: [{type: confgraph.Configuration}]
  - name: example.com/app.First
    markers:
      - type: confgraph.Configuration
      - type: confgraph.Order
        attributes: {value: -10}
  - name: example.com/app.Second
    markers:
      - type: confgraph.Configuration
      - type: confgraph.Order
        attributes: {value: 3}
  - name: example.com/app.AlsoLate
    markers: [{type: confgraph.Configuration}]
`)))

	var candidates []Candidate
	for _, name := range []string{"example.com/app.Late", "example.com/app.Second", "example.com/app.AlsoLate", "example.com/app.First"} {
		md, err := catalog.Read(name)
		require.NoError(t, err)
		def := registry.NewDefinition(registry.KindManual, md)
		require.True(t, CheckCandidate(def, catalog))
		candidates = append(candidates, Candidate{Name: name, Definition: def})
	}
	SortCandidates(candidates)

	var got []string
	for _, c := range candidates {
		got = append(got, c.Name)
	}
	assert.Equal(t, []string{"example.com/app.First", "example.com/app.Second", "example.com/app.Late", "example.com/app.AlsoLate"}, got)
}
