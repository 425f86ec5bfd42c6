package parser

import (
	"math"

	"github.com/opmodel/confgraph/internal/metadata"
	"github.com/opmodel/confgraph/internal/registry"
)

// Filter reports whether a type name must not be imported.
type Filter func(typeName string) bool

// Or combines two filters; a name excluded by either is excluded.
func (f Filter) Or(other Filter) Filter {
	switch {
	case f == nil:
		return other
	case other == nil:
		return f
	}
	return func(name string) bool { return f(name) || other(name) }
}

// DefaultExclusionFilter excludes the marker and builtin namespaces.
var DefaultExclusionFilter Filter = metadata.IsPlatformType

// Selector decides further type names to import, given the importing type.
type Selector interface {
	SelectImports(importing *metadata.TypeMetadata) ([]string, error)
}

// FilteringSelector contributes an exclusion filter for its own results.
type FilteringSelector interface {
	Selector
	ExclusionFilter() Filter
}

// DeferredSelector is a Selector asked only after every primary candidate
// has been parsed. ImportGroup names the Group type shared with other
// selectors, or is empty for a private group.
type DeferredSelector interface {
	Selector
	ImportGroup() string
}

// GroupEntry is one import decided by a group.
type GroupEntry struct {
	Importing *metadata.TypeMetadata
	Name      string
}

// Group combines the decisions of the deferred selectors sharing it.
// Process is called once per selector before SelectImports.
type Group interface {
	Process(importing *metadata.TypeMetadata, selector DeferredSelector) error
	SelectImports() ([]GroupEntry, error)
}

// Registrar registers definitions directly when its importing unit is
// materialized.
type Registrar interface {
	RegisterDefinitions(importing *metadata.TypeMetadata, reg registry.Registry, names registry.NameGenerator) error
}

// Ordered instances sort by Order, lowest first.
type Ordered interface {
	Order() int
}

const (
	HighestPrecedence = math.MinInt32
	LowestPrecedence  = math.MaxInt32
)

// orderOf returns an instance's Ordered value, else the Order marker on md,
// else LowestPrecedence.
func orderOf(instance any, md *metadata.TypeMetadata) int {
	if o, ok := instance.(Ordered); ok {
		return o.Order()
	}
	if md != nil {
		if attrs, ok := md.Markers.Get(metadata.MarkerOrder); ok {
			return attrs.Int("value", LowestPrecedence)
		}
	}
	return LowestPrecedence
}

// defaultGroup keeps every selector's imports in order.
type defaultGroup struct {
	entries []GroupEntry
}

func (g *defaultGroup) Process(importing *metadata.TypeMetadata, selector DeferredSelector) error {
	names, err := selector.SelectImports(importing)
	if err != nil {
		return err
	}
	for _, name := range names {
		g.entries = append(g.entries, GroupEntry{Importing: importing, Name: name})
	}
	return nil
}

func (g *defaultGroup) SelectImports() ([]GroupEntry, error) {
	return g.entries, nil
}
