// Package parser resolves configuration sources into configuration units.
//
// Each candidate is expanded depth first: nested types, property sources,
// component scans, imports, resource imports, producer methods, then the
// superclass chain. Deferred selectors are collected during that pass and
// processed once every candidate has been parsed.
package parser

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"github.com/opmodel/confgraph/internal/condition"
	"github.com/opmodel/confgraph/internal/env"
	oerrors "github.com/opmodel/confgraph/internal/errors"
	"github.com/opmodel/confgraph/internal/metadata"
	"github.com/opmodel/confgraph/internal/output"
	"github.com/opmodel/confgraph/internal/problems"
	"github.com/opmodel/confgraph/internal/registry"
	"github.com/opmodel/confgraph/internal/resource"
	"github.com/opmodel/confgraph/internal/strategy"
)

// maxReentry bounds how many expansions of one type may be in progress at
// once. A cycle the import chain check cannot see stops here.
const maxReentry = 2

// Scanner discovers and registers scanned definitions for a ComponentScan
// declaration.
type Scanner interface {
	Scan(attrs metadata.Attributes, declaringType string) ([]registry.Holder, error)
}

// Options wires a Parser to its collaborators. Catalog and Classes describe
// types; everything else may be nil.
type Options struct {
	Catalog     metadata.Reader
	Classes     *metadata.Classes
	Environment *env.Environment
	Resources   *resource.Loader
	Registry    registry.Registry
	Conditions  *condition.Evaluator
	Scanner     Scanner
	Problems    problems.Reporter
}

// Parser turns configuration candidates into units.
type Parser struct {
	catalog    metadata.Reader
	reader     metadata.Reader
	classes    *metadata.Classes
	env        *env.Environment
	registry   registry.Registry
	conditions *condition.Evaluator
	scanner    Scanner
	problems   problems.Reporter
	caps       strategy.Capabilities

	units             *unitSet
	inProgress        map[string]int
	knownSuperclasses map[string]*Unit
	importStack       *ImportStack
	deferred          *deferredHandler
	propertySources   *propertySourceRegistry
}

// New creates a parser.
func New(opts Options) *Parser {
	classes := opts.Classes
	if classes == nil {
		classes = metadata.NewClasses()
	}
	reporter := opts.Problems
	if reporter == nil {
		reporter = problems.NewCollector()
	}
	p := &Parser{
		catalog:           opts.Catalog,
		reader:            typeReader{catalog: opts.Catalog, classes: classes},
		classes:           classes,
		env:               opts.Environment,
		registry:          opts.Registry,
		conditions:        opts.Conditions,
		scanner:           opts.Scanner,
		problems:          reporter,
		units:             newUnitSet(),
		inProgress:        map[string]int{},
		knownSuperclasses: map[string]*Unit{},
		importStack:       NewImportStack(),
		caps: strategy.Capabilities{
			Environment: opts.Environment,
			Resources:   opts.Resources,
			Registry:    opts.Registry,
			Classes:     classes,
		},
	}
	p.deferred = &deferredHandler{p: p}
	if opts.Environment != nil {
		p.propertySources = &propertySourceRegistry{env: opts.Environment, loader: opts.Resources}
	}
	return p
}

// Parse expands every candidate, then processes the deferred imports they
// collected. The first fatal error stops parsing.
func (p *Parser) Parse(ctx context.Context, candidates []Candidate) error {
	for _, c := range candidates {
		if err := p.parseCandidate(ctx, c); err != nil {
			return err
		}
	}
	return p.deferred.process(ctx)
}

// Units returns the resolved units in the order they were completed.
func (p *Parser) Units() []*Unit { return p.units.all() }

// Unit returns the unit with the given type name.
func (p *Parser) Unit(name string) *Unit { return p.units.get(name) }

// ImportRegistry exposes the import edge history.
func (p *Parser) ImportRegistry() *ImportStack { return p.importStack }

// DeferredGroups returns the number of deferred groupings processed.
func (p *Parser) DeferredGroups() int { return p.deferred.groups }

// Validate reports structural problems of every unit.
func (p *Parser) Validate() {
	for _, u := range p.units.all() {
		u.Validate(p.problems)
	}
}

func (p *Parser) parseCandidate(ctx context.Context, c Candidate) error {
	source, err := p.candidateElement(c)
	if err != nil {
		return err
	}
	unit := newUnit(source, c.Name)
	unit.Scanned = c.Definition != nil && c.Definition.Kind == registry.KindScanned
	if c.Definition != nil && c.Definition.Origin != "" {
		unit.Origin = c.Definition.Origin
	}
	if err := p.processUnit(ctx, unit, DefaultExclusionFilter); err != nil {
		return oerrors.WithSource(err, unit.Location())
	}
	return nil
}

func (p *Parser) candidateElement(c Candidate) (*SourceElement, error) {
	switch {
	case c.Class != nil:
		return loadedElement(c.Class, p.reader, p.classes), nil
	case c.Definition != nil && c.Definition.Metadata != nil:
		return metadataElement(c.Definition.Metadata, p.reader, p.classes), nil
	case c.Definition != nil && c.Definition.TypeName != "":
		return resolveElement(c.Definition.TypeName, p.reader, p.classes, c.Name)
	}
	return nil, oerrors.NewValidationError(fmt.Sprintf("candidate %q has no type", c.Name), c.Name, "type", "")
}

func (p *Parser) shouldSkip(md metadata.Annotated, phase condition.Phase) (bool, error) {
	if p.conditions == nil {
		return false, nil
	}
	return p.conditions.ShouldSkip(md, phase)
}

// processUnit applies the duplicate rules and expands unit. Primary units
// replace imported ones; imported duplicates merge their importers.
func (p *Parser) processUnit(ctx context.Context, unit *Unit, filter Filter) error {
	skip, err := p.shouldSkip(unit.Metadata, condition.PhaseParse)
	if err != nil {
		return err
	}
	if skip {
		output.Debug("skipping configuration source", "type", unit.Name())
		return nil
	}

	if existing := p.units.get(unit.Name()); existing != nil {
		switch {
		case unit.IsImported():
			if existing.IsImported() {
				existing.MergeImportedBy(unit)
				output.Debug("merged imported unit", "type", unit.Name(), "importedBy", len(existing.importedBy))
			}
			return nil
		case unit.Scanned:
			if unit.AssignedName != "" && p.registry != nil && p.registry.Contains(unit.AssignedName) {
				if err := p.registry.Remove(unit.AssignedName); err != nil {
					return err
				}
			}
			output.Debug("scanned source already resolved", "type", unit.Name())
			return nil
		default:
			output.Debug("replacing unit", "type", unit.Name())
			p.units.remove(existing.Name())
			p.removeKnownSuperclass(existing.Name())
		}
	}

	if p.inProgress[unit.Name()] >= maxReentry {
		p.reportCircularImport(unit)
		return nil
	}
	p.inProgress[unit.Name()]++
	defer func() { p.inProgress[unit.Name()]-- }()

	for source := unit.source; source != nil; {
		if source, err = p.expand(ctx, unit, source, filter); err != nil {
			return err
		}
	}
	p.units.put(unit)
	output.Debug("stored unit", "type", unit.Name(), "imported", unit.IsImported(), "producers", len(unit.producers))
	return nil
}

func (p *Parser) removeKnownSuperclass(owner string) {
	for super, u := range p.knownSuperclasses {
		if u.Name() == owner {
			delete(p.knownSuperclasses, super)
		}
	}
}

// expand folds one element of unit's type hierarchy into unit and returns
// the superclass still to expand, if any.
func (p *Parser) expand(ctx context.Context, unit *Unit, source *SourceElement, filter Filter) (*SourceElement, error) {
	md := source.Metadata()

	if isComponent(unit.Metadata, p.reader) {
		if err := p.processMemberTypes(ctx, unit, source, filter); err != nil {
			return nil, err
		}
	}

	for _, attrs := range metadata.CollectMarkers(p.reader, md.Markers, metadata.MarkerPropertySource) {
		if p.propertySources == nil {
			output.Warn("ignoring property source without an environment", "type", md.Name)
			continue
		}
		if err := p.propertySources.process(ctx, attrs, md.Name); err != nil {
			return nil, err
		}
	}

	if err := p.processScans(ctx, source); err != nil {
		return nil, err
	}

	imports, err := p.importsOf(source, filter)
	if err != nil {
		return nil, err
	}
	if err := p.processImports(ctx, unit, source, imports, filter, true); err != nil {
		return nil, p.wrapImportError(unit, err)
	}

	if attrs, ok := md.Markers.Get(metadata.MarkerImportResource); ok {
		locations := slices.Concat(attrs.Strings("locations"), attrs.Strings("value"))
		for _, location := range locations {
			resolved, err := p.resolvePlaceholders(location)
			if err != nil {
				return nil, err
			}
			unit.AddResource(resolved, attrs.String("reader"))
		}
	}

	if err := p.processInterfaces(unit, source, map[string]bool{}); err != nil {
		return nil, err
	}

	for _, m := range p.producerMethods(source) {
		unit.AddProducer(m)
	}

	if super := md.Superclass; super != "" && !metadata.IsPlatformType(super) {
		if _, known := p.knownSuperclasses[super]; !known {
			p.knownSuperclasses[super] = unit
			return source.Superclass()
		}
	}
	return nil, nil
}

func (p *Parser) resolvePlaceholders(text string) (string, error) {
	if p.env == nil {
		return text, nil
	}
	return p.env.ResolvePlaceholders(text)
}

// processMemberTypes parses nested configuration candidates as units
// imported by unit.
func (p *Parser) processMemberTypes(ctx context.Context, unit *Unit, source *SourceElement, filter Filter) error {
	members, err := source.MemberTypes()
	if err != nil {
		return err
	}
	var candidates []*SourceElement
	for _, m := range members {
		if IsConfigurationCandidate(m.Metadata(), p.reader) && m.Name() != unit.Name() {
			candidates = append(candidates, m)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return orderOf(nil, candidates[i].Metadata()) < orderOf(nil, candidates[j].Metadata())
	})

	for _, c := range candidates {
		if p.importStack.Contains(unit.Name()) {
			p.reportCircularImport(unit)
			continue
		}
		p.importStack.Push(unit)
		err := p.processUnit(ctx, newImportedUnit(c, unit), filter)
		p.importStack.Pop()
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) processScans(ctx context.Context, source *SourceElement) error {
	scans := metadata.CollectMarkers(p.reader, source.Metadata().Markers, metadata.MarkerComponentScan)
	if len(scans) == 0 {
		return nil
	}
	if p.scanner == nil {
		output.Warn("ignoring component scan without a scanner", "type", source.Name())
		return nil
	}
	skip, err := p.shouldSkip(source.Metadata(), condition.PhaseRegister)
	if err != nil || skip {
		return err
	}

	for _, attrs := range scans {
		holders, err := p.scanner.Scan(attrs, source.Name())
		if err != nil {
			return err
		}
		for _, h := range holders {
			if CheckCandidate(h.Definition, p.reader) {
				if err := p.parseCandidate(ctx, Candidate{Name: h.Name, Definition: h.Definition}); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// importsOf returns the element's declared imports, including those carried
// by its marker types and those implied by well-known markers, minus
// filtered names.
func (p *Parser) importsOf(source *SourceElement, filter Filter) ([]*SourceElement, error) {
	var names []string
	add := func(list []string) {
		for _, name := range list {
			if !slices.Contains(names, name) {
				names = append(names, name)
			}
		}
	}
	for _, attrs := range metadata.CollectMarkers(p.reader, source.Metadata().Markers, metadata.MarkerImport) {
		add(attrs.Strings("value"))
	}
	for _, mk := range source.Metadata().Markers {
		add(metadata.BuiltinImports(mk.Type))
	}
	return p.elementsFor(names, filter, source.Name())
}

func (p *Parser) elementsFor(names []string, filter Filter, location string) ([]*SourceElement, error) {
	var out []*SourceElement
	for _, name := range names {
		if filter != nil && filter(name) {
			output.Debug("import excluded by filter", "type", name, "importer", location)
			continue
		}
		el, err := resolveElement(name, p.reader, p.classes, location)
		if err != nil {
			return nil, err
		}
		out = append(out, el)
	}
	return out, nil
}

// processImports handles one batch of imports declared by current on
// behalf of unit.
func (p *Parser) processImports(ctx context.Context, unit *Unit, current *SourceElement, candidates []*SourceElement, filter Filter, checkCircular bool) error {
	if len(candidates) == 0 {
		return nil
	}
	if checkCircular && p.importStack.ChainedImport(unit.Name()) {
		p.reportCircularImport(unit)
		return nil
	}

	p.importStack.Push(unit)
	defer p.importStack.Pop()

	for _, candidate := range candidates {
		switch {
		case candidate.IsAssignable(metadata.TypeImportSelector):
			if err := p.processSelector(ctx, unit, current, candidate, filter); err != nil {
				return err
			}
		case candidate.IsAssignable(metadata.TypeImportRegistrar):
			class, err := candidate.Load()
			if err != nil {
				return err
			}
			registrar, err := strategy.Instantiate[Registrar](class, p.caps, "import registrar")
			if err != nil {
				return err
			}
			unit.AddRegistrar(registrar, current.Metadata())
		default:
			p.importStack.RegisterImport(current.Metadata(), candidate.Name())
			if err := p.processUnit(ctx, newImportedUnit(candidate, unit), filter); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *Parser) processSelector(ctx context.Context, unit *Unit, current, candidate *SourceElement, filter Filter) error {
	class, err := candidate.Load()
	if err != nil {
		return err
	}
	selector, err := strategy.Instantiate[Selector](class, p.caps, "import selector")
	if err != nil {
		return err
	}
	if fs, ok := selector.(FilteringSelector); ok {
		filter = filter.Or(fs.ExclusionFilter())
	}
	if ds, ok := selector.(DeferredSelector); ok {
		return p.deferred.handle(ctx, unit, ds, class.Metadata)
	}

	names, err := selector.SelectImports(current.Metadata())
	if err != nil {
		return fmt.Errorf("selector %s: %w", candidate.Name(), err)
	}
	elements, err := p.elementsFor(names, filter, current.Name())
	if err != nil {
		return err
	}
	return p.processImports(ctx, unit, current, elements, filter, false)
}

func (p *Parser) wrapImportError(unit *Unit, err error) error {
	return oerrors.WithSource(err, unit.Location())
}

func (p *Parser) reportCircularImport(attempted *Unit) {
	importer := attempted
	if top := p.importStack.Top(); top != nil {
		importer = top
	}
	p.problems.Error(problems.Problem{
		Kind: problems.KindCircularImport,
		Message: fmt.Sprintf("circular import: %s attempted to import %s, which is already on the import stack %s",
			importer.Name(), attempted.Name(), p.importStack.Path()),
		Location: importer.Location(),
	})
}

// processInterfaces adds the non-abstract producer methods declared on the
// element's interfaces, recursively.
func (p *Parser) processInterfaces(unit *Unit, source *SourceElement, seen map[string]bool) error {
	ifaces, err := source.Interfaces()
	if err != nil {
		return err
	}
	for _, ifc := range ifaces {
		if seen[ifc.Name()] {
			continue
		}
		seen[ifc.Name()] = true
		for _, m := range ifc.Metadata().MarkedMethods(metadata.MarkerBean) {
			if !m.Abstract {
				unit.AddProducer(m)
			}
		}
		if err := p.processInterfaces(unit, ifc, seen); err != nil {
			return err
		}
	}
	return nil
}

// producerMethods returns the element's own producer methods. A loaded
// element lists methods by name, so when the catalog also describes the
// type and every loaded method can be matched by name, the catalog's
// declaration order is used instead. On a partial match the loaded order
// is kept.
func (p *Parser) producerMethods(source *SourceElement) []*metadata.MethodMetadata {
	methods := source.Metadata().MarkedMethods(metadata.MarkerBean)
	if len(methods) <= 1 || !source.IsLoaded() || p.catalog == nil {
		return methods
	}
	declared, err := p.catalog.Read(source.Name())
	if err != nil {
		return methods
	}
	declaredMethods := declared.MarkedMethods(metadata.MarkerBean)
	if len(declaredMethods) < len(methods) {
		return methods
	}

	remaining := slices.Clone(methods)
	selected := make([]*metadata.MethodMetadata, 0, len(methods))
	for _, dm := range declaredMethods {
		for i, m := range remaining {
			if m.Name == dm.Name {
				selected = append(selected, m)
				remaining = slices.Delete(remaining, i, i+1)
				break
			}
		}
	}
	if len(selected) != len(methods) {
		output.Debug("keeping loaded producer order", "type", source.Name())
		return methods
	}
	return selected
}
