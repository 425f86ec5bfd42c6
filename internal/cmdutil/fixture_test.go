package cmdutil

import (
	"testing"

	"github.com/viant/afs"

	"github.com/opmodel/confgraph/internal/cmdtypes"
	"github.com/opmodel/confgraph/internal/config"
	"github.com/opmodel/confgraph/internal/testutil"
)

const shopCatalog = `
types:
  - name: example.com/shop.App
    markers:
      - type: confgraph.Configuration
      - type: confgraph.Import
        attributes: {value: [example.com/shop.Data]}
    methods:
      - name: cart
        returnType: example.com/shop.Cart
        markers: [{type: confgraph.Bean}]
  - name: example.com/shop.Data
    markers: [{type: confgraph.Configuration}]
    methods:
      - name: store
        returnType: example.com/shop.Store
        markers: [{type: confgraph.Bean}]
  - name: example.com/shop.Broken
    final: true
    markers: [{type: confgraph.Configuration}]
  - name: example.com/shop.Dev
    markers:
      - type: confgraph.Configuration
      - type: confgraph.Profile
        attributes: {value: [dev]}
    methods:
      - name: debugger
        returnType: example.com/shop.Debugger
        markers: [{type: confgraph.Bean}]
`

// uploadShop writes a catalog and the given manifest under base.
func uploadShop(t *testing.T, base, manifest string) afs.Service {
	t.Helper()
	return testutil.UploadFiles(t, nil, base, map[string]string{
		"confgraph.yaml":   manifest,
		"catalog/app.yaml": shopCatalog,
	})
}

// testGlobalConfig resolves settings with no flags, env vars or config file.
func testGlobalConfig(t *testing.T) *cmdtypes.GlobalConfig {
	t.Helper()
	testutil.ClearEnv(t)
	return &cmdtypes.GlobalConfig{
		Config:   config.DefaultConfig(),
		Settings: config.Resolve(config.Flags{}, nil),
	}
}
