package registry

import (
	"fmt"

	"github.com/opmodel/confgraph/internal/metadata"
)

// NameGenerator derives a definition name.
type NameGenerator interface {
	Generate(def *Definition, reg Registry) string
}

// DefaultNameGenerator uses an explicit Component or Configuration value,
// else the decapitalized short type name.
type DefaultNameGenerator struct{}

func (DefaultNameGenerator) Generate(def *Definition, reg Registry) string {
	if name := explicitName(def); name != "" {
		return name
	}
	if def.TypeName == "" {
		return uniqueName(def, reg)
	}
	return metadata.Decapitalize(metadata.ShortNameOf(def.TypeName))
}

// QualifiedNameGenerator uses an explicit value, else the full type name.
type QualifiedNameGenerator struct{}

func (QualifiedNameGenerator) Generate(def *Definition, reg Registry) string {
	if name := explicitName(def); name != "" {
		return name
	}
	if def.TypeName == "" {
		return uniqueName(def, reg)
	}
	return def.TypeName
}

func explicitName(def *Definition) string {
	if def.Metadata == nil {
		return ""
	}
	for _, marker := range []string{metadata.MarkerComponent, metadata.MarkerConfiguration} {
		if attrs, ok := def.Metadata.Markers.Get(marker); ok {
			if v := attrs.String("value"); v != "" {
				return v
			}
		}
	}
	return ""
}

func uniqueName(def *Definition, reg Registry) string {
	base := fmt.Sprintf("%s#", def.Kind)
	for i := 0; ; i++ {
		name := fmt.Sprintf("%s%d", base, i)
		if reg == nil || !reg.Contains(name) {
			return name
		}
	}
}
