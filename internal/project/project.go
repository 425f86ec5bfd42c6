package project

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"

	"github.com/opmodel/confgraph/internal/bootstrap"
	"github.com/opmodel/confgraph/internal/env"
	"github.com/opmodel/confgraph/internal/metadata"
	"github.com/opmodel/confgraph/internal/output"
	"github.com/opmodel/confgraph/internal/registry"
	"github.com/opmodel/confgraph/internal/resource"
	"github.com/opmodel/confgraph/internal/support"
)

// Property source names added by a project.
const (
	SourceManifest          = "manifest"
	SourceSystemEnvironment = "systemEnvironment"
)

var catalogExtensions = []string{".yaml", ".yml", ".cue"}

// Project is a loaded manifest together with the loader for its directory.
type Project struct {
	Manifest *Manifest
	// Location is the manifest URL.
	Location string
	// Resources resolves locators relative to the manifest directory.
	Resources *resource.Loader
}

// Settings adjust how a project is turned into bootstrap options.
type Settings struct {
	// Profiles are activated in addition to the manifest's.
	Profiles []string
	// AllowOverriding overrides the manifest value when set.
	AllowOverriding *bool
	FailOnProblems  bool
	// CacheTTL wraps the catalog in a caching reader when positive.
	CacheTTL time.Duration
	// Classes holds the loaded types; the support classes are added to it.
	Classes *metadata.Classes
	// SystemEnvironment adds the process environment as a property source.
	SystemEnvironment bool
}

// Load reads the manifest at location, a manifest file or a directory
// holding confgraph.yaml. A nil fs uses a default afs service.
func Load(ctx context.Context, fs afs.Service, location string) (*Project, error) {
	if fs == nil {
		fs = afs.New()
	}
	manifestURL, err := manifestLocation(location)
	if err != nil {
		return nil, err
	}

	loader := resource.NewLoaderWithService(fs, "").Relative(manifestURL)
	data, err := loader.Load(ctx, manifestURL)
	if err != nil {
		return nil, err
	}
	m, err := ParseManifest(manifestURL, data)
	if err != nil {
		return nil, err
	}
	output.Debug("loaded project manifest", "location", manifestURL, "catalogs", len(m.Catalogs), "primary", len(m.Primary))
	return &Project{Manifest: m, Location: manifestURL, Resources: loader}, nil
}

// manifestLocation turns a local path into a file URL and appends the
// manifest name to anything that is not a yaml file.
func manifestLocation(location string) (string, error) {
	if location == "" {
		location = "."
	}
	if url.Scheme(location, "") == "" {
		abs, err := filepath.Abs(location)
		if err != nil {
			return "", fmt.Errorf("resolving %s: %w", location, err)
		}
		location = file.Scheme + "://" + filepath.ToSlash(abs)
	}
	switch strings.ToLower(path.Ext(location)) {
	case ".yaml", ".yml":
		return location, nil
	}
	return url.Join(location, ManifestFile), nil
}

// Name returns the manifest name, else the manifest directory name.
func (p *Project) Name() string {
	if p.Manifest.Name != "" {
		return p.Manifest.Name
	}
	return path.Base(strings.TrimSuffix(p.Resources.Base(), "/"))
}

// Options builds the catalog, environment and registry of a run.
//
// Property sources, highest precedence first: the manifest's properties, the
// system environment (when enabled), then each property file in order.
func (p *Project) Options(ctx context.Context, s Settings) (bootstrap.Options, error) {
	m := p.Manifest

	catalog, err := p.loadCatalog(ctx)
	if err != nil {
		return bootstrap.Options{}, err
	}
	var reader metadata.Reader = catalog
	if s.CacheTTL > 0 {
		reader = metadata.NewCachingReader(catalog, s.CacheTTL)
	}

	classes := s.Classes
	if classes == nil {
		classes = metadata.NewClasses()
	}
	if err := support.Register(classes); err != nil {
		return bootstrap.Options{}, err
	}

	environment, err := p.environment(ctx, s)
	if err != nil {
		return bootstrap.Options{}, err
	}

	allow := true
	if m.AllowOverriding != nil {
		allow = *m.AllowOverriding
	}
	if s.AllowOverriding != nil {
		allow = *s.AllowOverriding
	}
	reg := registry.NewMapRegistry(allow)

	if err := p.registerPrimaries(reader, reg); err != nil {
		return bootstrap.Options{}, err
	}
	if err := p.loadDefinitions(ctx, reg); err != nil {
		return bootstrap.Options{}, err
	}

	return bootstrap.Options{
		Catalog:        reader,
		Classes:        classes,
		Environment:    environment,
		Resources:      p.Resources,
		Registry:       reg,
		FailOnProblems: s.FailOnProblems,
	}, nil
}

func (p *Project) loadCatalog(ctx context.Context) (*metadata.Catalog, error) {
	catalog := metadata.NewCatalog()
	for _, entry := range p.Manifest.Catalogs {
		files, err := p.Resources.List(ctx, entry, catalogExtensions...)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			output.Warn("catalog location holds no catalog files", "location", p.Resources.Resolve(entry))
		}
		for _, location := range files {
			data, err := p.Resources.Load(ctx, location)
			if err != nil {
				return nil, err
			}
			if err := catalog.Load(location, data); err != nil {
				return nil, err
			}
		}
	}
	output.Debug("loaded catalog", "types", catalog.Len())
	return catalog, nil
}

func (p *Project) environment(ctx context.Context, s Settings) (*env.Environment, error) {
	environment := env.New(mergeProfiles(p.Manifest.Profiles, s.Profiles)...)
	if len(p.Manifest.Properties) > 0 {
		environment.Sources.AddLast(env.NewMapPropertySource(SourceManifest, p.Manifest.Properties))
	}
	if s.SystemEnvironment {
		environment.Sources.AddLast(env.NewMapPropertySource(SourceSystemEnvironment, systemEnvironment()))
	}
	for _, location := range p.Manifest.PropertyFiles {
		data, err := p.Resources.Load(ctx, location)
		if err != nil {
			return nil, err
		}
		src, err := env.LoadPropertySource(p.Resources.Resolve(location), data, env.FormatFromLocation(location))
		if err != nil {
			return nil, err
		}
		environment.Sources.AddLast(src)
	}
	return environment, nil
}

func (p *Project) registerPrimaries(reader metadata.Reader, reg registry.Registry) error {
	for _, primary := range p.Manifest.Primary {
		md, err := reader.Read(primary.Type)
		if err != nil {
			return err
		}
		def := registry.NewDefinition(registry.KindManual, md)
		name := primary.Name
		if name == "" {
			name = registry.DefaultNameGenerator{}.Generate(def, reg)
		}
		if err := reg.Register(name, def); err != nil {
			return err
		}
	}
	return nil
}

func (p *Project) loadDefinitions(ctx context.Context, reg registry.Registry) error {
	for _, location := range p.Manifest.Definitions {
		resolved := p.Resources.Resolve(location)
		data, err := p.Resources.Load(ctx, location)
		if err != nil {
			return err
		}
		reader, err := registry.ReaderFor("", resolved)
		if err != nil {
			return err
		}
		n, err := registry.LoadDefinitions(reg, reader, resolved, data, registry.KindResource)
		if err != nil {
			return err
		}
		output.Debug("loaded definitions", "location", resolved, "count", n)
	}
	return nil
}

func mergeProfiles(lists ...[]string) []string {
	seen := map[string]bool{}
	var out []string
	for _, list := range lists {
		for _, p := range list {
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	return out
}

func systemEnvironment() map[string]any {
	values := map[string]any{}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			values[k] = v
		}
	}
	return values
}
