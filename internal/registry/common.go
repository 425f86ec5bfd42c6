package registry

import "github.com/opmodel/confgraph/internal/metadata"

// ApplyCommonMarkers copies Lazy, Primary, DependsOn, Role and Description
// markers onto def.
func ApplyCommonMarkers(def *Definition, markers metadata.Markers) {
	if attrs, ok := markers.Get(metadata.MarkerLazy); ok {
		def.Lazy = attrs.Bool("value", true)
	}
	if markers.Has(metadata.MarkerPrimary) {
		def.Primary = true
	}
	if attrs, ok := markers.Get(metadata.MarkerDependsOn); ok {
		def.DependsOn = attrs.Strings("value")
	}
	if attrs, ok := markers.Get(metadata.MarkerRole); ok {
		if role, err := ParseRole(attrs.String("value")); err == nil {
			def.Role = role
		}
	}
	if attrs, ok := markers.Get(metadata.MarkerDescription); ok {
		def.Description = attrs.String("value")
	}
}
