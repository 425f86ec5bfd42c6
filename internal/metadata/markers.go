package metadata

import "strings"

// Namespace prefixes every well-known marker and capability type.
const Namespace = "confgraph."

// BuiltinNamespace prefixes platform base types such as builtin.Object.
const BuiltinNamespace = "builtin."

// SupportNamespace prefixes the built-in support types. They are ordinary
// importable types, not platform types.
const SupportNamespace = "confgraph.support."

// Well-known markers.
const (
	MarkerConfiguration                  = "confgraph.Configuration"
	MarkerComponent                      = "confgraph.Component"
	MarkerImport                         = "confgraph.Import"
	MarkerImportResource                 = "confgraph.ImportResource"
	MarkerPropertySource                 = "confgraph.PropertySource"
	MarkerComponentScan                  = "confgraph.ComponentScan"
	MarkerBean                           = "confgraph.Bean"
	MarkerScope                          = "confgraph.Scope"
	MarkerLazy                           = "confgraph.Lazy"
	MarkerPrimary                        = "confgraph.Primary"
	MarkerDependsOn                      = "confgraph.DependsOn"
	MarkerRole                           = "confgraph.Role"
	MarkerDescription                    = "confgraph.Description"
	MarkerOrder                          = "confgraph.Order"
	MarkerConditional                    = "confgraph.Conditional"
	MarkerProfile                        = "confgraph.Profile"
	MarkerConditionalOnProperty          = "confgraph.ConditionalOnProperty"
	MarkerConditionalOnMissingDefinition = "confgraph.ConditionalOnMissingDefinition"
	MarkerEnableAutoImport               = "confgraph.EnableAutoImport"
	MarkerDefinitions                    = "confgraph.Definitions"
)

// Well-known capability types. Source types declare them as interfaces.
const (
	TypeImportSelector         = "confgraph.ImportSelector"
	TypeDeferredImportSelector = "confgraph.DeferredImportSelector"
	TypeImportRegistrar        = "confgraph.ImportRegistrar"
	TypeImportGroup            = "confgraph.ImportGroup"
	TypeFilter                 = "confgraph.TypeFilter"
	TypeCondition              = "confgraph.Condition"
	TypeObject                 = "builtin.Object"
)

// Built-in support types.
const (
	TypePropertyImportSelector    = "confgraph.support.PropertyImportSelector"
	TypeAutoImportSelector        = "confgraph.support.AutoImportSelector"
	TypeAutoImportGroup           = "confgraph.support.AutoImportGroup"
	TypeMarkerDefinitionRegistrar = "confgraph.support.MarkerDefinitionRegistrar"
)

var builtinSupertypes = map[string][]string{
	TypeDeferredImportSelector: {TypeImportSelector},
}

var builtinImports = map[string][]string{
	MarkerEnableAutoImport: {TypeAutoImportSelector},
	MarkerDefinitions:      {TypeMarkerDefinitionRegistrar},
}

// BuiltinImports returns the types a well-known marker imports implicitly.
func BuiltinImports(markerType string) []string {
	return builtinImports[markerType]
}

// BuiltinSupertypes returns the declared supertypes of a well-known type.
func BuiltinSupertypes(name string) []string {
	return builtinSupertypes[name]
}

// IsPlatformType reports whether name belongs to the platform namespaces,
// which are never expanded as configuration sources.
func IsPlatformType(name string) bool {
	if strings.HasPrefix(name, SupportNamespace) {
		return false
	}
	return strings.HasPrefix(name, BuiltinNamespace) || strings.HasPrefix(name, Namespace)
}
