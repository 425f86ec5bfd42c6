// Package bootstrap runs the configuration engine over a registry: it finds
// the configuration candidates among the registered definitions, resolves
// them into units and registers what those units contribute, repeating until
// no new candidate appears.
package bootstrap

import (
	"context"

	"github.com/opmodel/confgraph/internal/condition"
	"github.com/opmodel/confgraph/internal/env"
	"github.com/opmodel/confgraph/internal/materialize"
	"github.com/opmodel/confgraph/internal/metadata"
	"github.com/opmodel/confgraph/internal/output"
	"github.com/opmodel/confgraph/internal/parser"
	"github.com/opmodel/confgraph/internal/problems"
	"github.com/opmodel/confgraph/internal/registry"
	"github.com/opmodel/confgraph/internal/resource"
	"github.com/opmodel/confgraph/internal/scan"
	"github.com/opmodel/confgraph/internal/strategy"
)

// Options configures a Processor. Catalog and Registry are required.
type Options struct {
	Catalog     metadata.Reader
	Classes     *metadata.Classes
	Environment *env.Environment
	Resources   *resource.Loader
	Registry    registry.Registry

	// FailOnProblems turns accumulated error problems into a returned error.
	FailOnProblems bool
}

// Result is the outcome of one Process call.
type Result struct {
	Units          []*parser.Unit
	Problems       []problems.Problem
	Registry       registry.Registry
	ImportRegistry *parser.ImportStack
	// Rounds counts the parse and load passes that ran.
	Rounds int
}

// Processor drives parsing and materialization.
type Processor struct {
	opts Options
}

// New creates a Processor.
func New(opts Options) *Processor {
	if opts.Classes == nil {
		opts.Classes = metadata.NewClasses()
	}
	if opts.Environment == nil {
		opts.Environment = env.New()
	}
	return &Processor{opts: opts}
}

// Process resolves every configuration candidate in the registry.
//
// Round sequence:
//  1. COLLECT:     registered definitions that are configuration sources and
//     whose type has not been resolved yet, sorted by Order
//  2. PARSE:       parser.Parse() → units
//  3. MATERIALIZE: materialize.LoadDefinitions() on the units new this round
//  4. Repeat while step 3 registered new candidates
//
// Units are validated once all rounds are done. Fatal errors return
// (nil, err); with FailOnProblems, error problems return the result together
// with a validation error listing them.
func (p *Processor) Process(ctx context.Context) (*Result, error) {
	o := p.opts
	caps := strategy.Capabilities{
		Environment: o.Environment,
		Resources:   o.Resources,
		Registry:    o.Registry,
		Classes:     o.Classes,
	}
	conditions := condition.NewEvaluator(&condition.Context{
		Registry:    o.Registry,
		Environment: o.Environment,
		Classes:     o.Classes,
	}, caps)
	collector := problems.NewCollector()

	var scanner parser.Scanner
	if source, ok := o.Catalog.(scan.Source); ok {
		scanner = scan.New(source, o.Registry, conditions, caps)
	}
	prs := parser.New(parser.Options{
		Catalog:     o.Catalog,
		Classes:     o.Classes,
		Environment: o.Environment,
		Resources:   o.Resources,
		Registry:    o.Registry,
		Conditions:  conditions,
		Scanner:     scanner,
		Problems:    collector,
	})
	reader := materialize.New(materialize.Options{
		Registry:       o.Registry,
		Conditions:     conditions,
		Resources:      o.Resources,
		ImportRegistry: prs.ImportRegistry(),
	})

	types := parser.NewTypeReader(o.Catalog, o.Classes)
	seen := map[string]bool{}
	parsed := map[string]bool{}
	loaded := map[*parser.Unit]bool{}
	rounds := 0

	for candidates := p.collect(types, seen, parsed); len(candidates) > 0; candidates = p.collect(types, seen, parsed) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rounds++
		parser.SortCandidates(candidates)
		output.Debug("resolving configuration candidates", "round", rounds, "candidates", len(candidates))

		if err := prs.Parse(ctx, candidates); err != nil {
			return nil, err
		}

		var fresh []*parser.Unit
		for _, u := range prs.Units() {
			parsed[u.Name()] = true
			if !loaded[u] {
				loaded[u] = true
				fresh = append(fresh, u)
			}
		}
		if err := reader.LoadDefinitions(ctx, fresh); err != nil {
			return nil, err
		}
		output.Debug("registered unit definitions", "round", rounds, "units", len(fresh), "definitions", o.Registry.Count())
	}

	prs.Validate()

	result := &Result{
		Units:          prs.Units(),
		Problems:       collector.Problems(),
		Registry:       o.Registry,
		ImportRegistry: prs.ImportRegistry(),
		Rounds:         rounds,
	}
	if o.FailOnProblems && collector.HasErrors() {
		return result, collector.Err()
	}
	return result, nil
}

// collect returns the configuration candidates among definitions not seen
// before, skipping types already resolved.
func (p *Processor) collect(types metadata.Reader, seen, parsed map[string]bool) []parser.Candidate {
	reg := p.opts.Registry
	var candidates []parser.Candidate
	for _, name := range reg.Names() {
		if seen[name] {
			continue
		}
		seen[name] = true
		def, ok := reg.Get(name)
		if !ok || parsed[def.TypeName] {
			continue
		}
		if parser.CheckCandidate(def, types) {
			candidates = append(candidates, parser.Candidate{Name: name, Definition: def})
		}
	}
	return candidates
}
