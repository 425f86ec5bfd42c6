// Package materialize turns resolved configuration units into registry
// definitions.
package materialize

import (
	"context"
	"fmt"

	"github.com/viant/afs/url"

	"github.com/opmodel/confgraph/internal/condition"
	oerrors "github.com/opmodel/confgraph/internal/errors"
	"github.com/opmodel/confgraph/internal/metadata"
	"github.com/opmodel/confgraph/internal/output"
	"github.com/opmodel/confgraph/internal/parser"
	"github.com/opmodel/confgraph/internal/registry"
	"github.com/opmodel/confgraph/internal/resource"
)

// Options wires a Reader. Registry is required.
type Options struct {
	Registry       registry.Registry
	Conditions     *condition.Evaluator
	Resources      *resource.Loader
	ImportRegistry parser.ImportRegistry

	// ImportedNames names imported units. Defaults to the qualified type name.
	ImportedNames registry.NameGenerator
	// Names is handed to registrars. Defaults to DefaultNameGenerator.
	Names registry.NameGenerator
}

// Reader registers the definitions contributed by configuration units.
type Reader struct {
	registry       registry.Registry
	conditions     *condition.Evaluator
	resources      *resource.Loader
	importRegistry parser.ImportRegistry
	importedNames  registry.NameGenerator
	names          registry.NameGenerator
}

// New creates a Reader.
func New(opts Options) *Reader {
	r := &Reader{
		registry:       opts.Registry,
		conditions:     opts.Conditions,
		resources:      opts.Resources,
		importRegistry: opts.ImportRegistry,
		importedNames:  opts.ImportedNames,
		names:          opts.Names,
	}
	if r.importedNames == nil {
		r.importedNames = registry.QualifiedNameGenerator{}
	}
	if r.names == nil {
		r.names = registry.DefaultNameGenerator{}
	}
	return r
}

// LoadDefinitions registers the definitions of every unit, in order. The
// first fatal error stops loading.
func (r *Reader) LoadDefinitions(ctx context.Context, units []*parser.Unit) error {
	tracker := newTracker(r.conditions)
	for _, u := range units {
		if err := r.loadUnit(ctx, u, tracker); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reader) loadUnit(ctx context.Context, u *parser.Unit, tracker *tracker) error {
	skip, err := tracker.shouldSkip(u)
	if err != nil {
		return err
	}
	if skip {
		if u.AssignedName != "" && r.registry.Contains(u.AssignedName) {
			if err := r.registry.Remove(u.AssignedName); err != nil {
				return err
			}
		}
		if r.importRegistry != nil {
			r.importRegistry.RemoveImportingType(u.Name())
		}
		output.Debug("skipping configuration unit", "type", u.Name())
		return nil
	}

	if u.IsImported() {
		if err := r.registerImported(u); err != nil {
			return err
		}
	}
	for _, m := range u.Producers() {
		if err := r.loadProducer(m); err != nil {
			return err
		}
	}
	if err := r.loadResources(ctx, u); err != nil {
		return err
	}
	for _, reg := range u.Registrars() {
		if err := reg.Registrar.RegisterDefinitions(reg.Importing, r.registry, r.names); err != nil {
			return fmt.Errorf("registrar %T imported by %s: %w", reg.Registrar, u.Location(), err)
		}
	}
	return nil
}

// registerImported registers the unit itself under a generated name and
// records that name on the unit.
func (r *Reader) registerImported(u *parser.Unit) error {
	def := registry.NewDefinition(registry.KindImported, u.Metadata)
	def.Origin = u.Origin
	applyScope(def, u.Metadata.Markers)
	registry.ApplyCommonMarkers(def, u.Metadata.Markers)
	parser.CheckCandidate(def, nil)

	name := r.importedNames.Generate(def, r.registry)
	u.AssignedName = name
	if existing, ok := r.registry.Get(name); ok && existing.TypeName == def.TypeName && existing.Kind == registry.KindImported {
		return nil
	}
	if err := r.registry.Register(name, def); err != nil {
		return err
	}
	output.Debug("registered imported configuration", "name", name, "type", u.Name())
	return nil
}

func applyScope(def *registry.Definition, markers metadata.Markers) {
	if attrs, ok := markers.Get(metadata.MarkerScope); ok {
		def.Scope = attrs.String("value")
	}
}

// loadResources reads the definition resources the unit imports. Relative
// locators resolve against the unit's own resource when it has a URL.
func (r *Reader) loadResources(ctx context.Context, u *parser.Unit) error {
	resources := u.Resources()
	if len(resources) == 0 {
		return nil
	}
	if r.resources == nil {
		return oerrors.NewNotFoundError("no resource loader for imported definition resources", u.Location(), "")
	}
	loader := r.resources
	if u.Origin != "" && !url.IsRelative(u.Origin) {
		loader = r.resources.Relative(u.Origin)
	}

	for _, res := range resources {
		reader, err := registry.ReaderFor(res.Reader, res.Location)
		if err != nil {
			return err
		}
		data, err := loader.Load(ctx, res.Location)
		if err != nil {
			return err
		}
		n, err := registry.LoadDefinitions(r.registry, reader, loader.Resolve(res.Location), data, registry.KindResource)
		if err != nil {
			return err
		}
		output.Debug("loaded definition resource", "location", res.Location, "reader", reader.Kind(), "definitions", n)
	}
	return nil
}
