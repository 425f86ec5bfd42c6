package parser

import (
	"sort"

	"github.com/opmodel/confgraph/internal/metadata"
	"github.com/opmodel/confgraph/internal/registry"
)

// Configuration source modes stored under registry.AttrConfigurationClass.
const (
	ModeFull = "full"
	ModeLite = "lite"
)

// Candidate is a definition to parse as a configuration source. Class is set
// when the source is a loaded type.
type Candidate struct {
	Name       string
	Definition *registry.Definition
	Class      *metadata.Class
}

var candidateIndicators = []string{
	metadata.MarkerConfiguration,
	metadata.MarkerComponent,
	metadata.MarkerComponentScan,
	metadata.MarkerImport,
	metadata.MarkerImportResource,
}

// IsConfigurationCandidate reports whether md can contribute definitions:
// a non-interface carrying an indicator marker or producer methods.
func IsConfigurationCandidate(md *metadata.TypeMetadata, reader metadata.Reader) bool {
	if md == nil || md.Interface {
		return false
	}
	for _, marker := range candidateIndicators {
		if metadata.HasMarker(reader, md.Markers, marker) {
			return true
		}
	}
	return len(md.MarkedMethods(metadata.MarkerBean)) > 0
}

// isComponent reports whether md carries the base component marker, which
// Configuration implies.
func isComponent(md *metadata.TypeMetadata, reader metadata.Reader) bool {
	return metadata.HasMarker(reader, md.Markers, metadata.MarkerComponent) ||
		metadata.HasMarker(reader, md.Markers, metadata.MarkerConfiguration)
}

// CheckCandidate classifies def as a full or lite configuration source and
// records the mode and any Order value as definition attributes. It returns
// false for definitions that are not configuration sources.
func CheckCandidate(def *registry.Definition, reader metadata.Reader) bool {
	if def == nil || def.FactoryMethod != "" {
		return false
	}
	md := def.Metadata
	if md == nil {
		if def.TypeName == "" || reader == nil {
			return false
		}
		var err error
		if md, err = reader.Read(def.TypeName); err != nil {
			return false
		}
	}
	if md.Interface {
		return false
	}

	configs := metadata.CollectMarkers(reader, md.Markers, metadata.MarkerConfiguration)
	forced, _ := def.Attribute(registry.AttrCandidate)
	switch {
	case len(configs) > 0 && configs[0].Bool("proxyBeanMethods", true):
		def.SetAttribute(registry.AttrConfigurationClass, ModeFull)
	case len(configs) > 0 || forced == true || IsConfigurationCandidate(md, reader):
		def.SetAttribute(registry.AttrConfigurationClass, ModeLite)
	default:
		return false
	}

	if attrs, ok := md.Markers.Get(metadata.MarkerOrder); ok {
		def.SetAttribute(registry.AttrOrder, attrs.Int("value", LowestPrecedence))
	}
	return true
}

// SortCandidates orders candidates by their recorded Order attribute,
// keeping registration order among equals.
func SortCandidates(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidateOrder(candidates[i]) < candidateOrder(candidates[j])
	})
}

func candidateOrder(c Candidate) int {
	if c.Definition == nil {
		return LowestPrecedence
	}
	if v, ok := c.Definition.Attribute(registry.AttrOrder); ok {
		if order, ok := v.(int); ok {
			return order
		}
	}
	return LowestPrecedence
}
