// Package registry holds component definitions by name.
package registry

import (
	"fmt"

	"github.com/opmodel/confgraph/internal/metadata"
)

// Kind records how a definition came to exist.
type Kind string

const (
	KindScanned       Kind = "scanned"
	KindConfiguration Kind = "configuration"
	KindImported      Kind = "imported"
	KindProducer      Kind = "producer"
	KindResource      Kind = "resource"
	KindRegistrar     Kind = "registrar"
	KindManual        Kind = "manual"
)

// Role classifies a definition. Anything above RoleApplication is
// infrastructure the user did not declare directly.
type Role int

const (
	RoleApplication Role = iota
	RoleSupport
	RoleInfrastructure
)

func (r Role) String() string {
	switch r {
	case RoleApplication:
		return "application"
	case RoleSupport:
		return "support"
	case RoleInfrastructure:
		return "infrastructure"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// ParseRole accepts a role name or its numeric value.
func ParseRole(s string) (Role, error) {
	switch s {
	case "", "application", "0":
		return RoleApplication, nil
	case "support", "1":
		return RoleSupport, nil
	case "infrastructure", "2":
		return RoleInfrastructure, nil
	}
	return RoleApplication, fmt.Errorf("unknown role %q", s)
}

// Well-known definition attribute keys.
const (
	// AttrConfigurationClass is "full" or "lite" once a definition has been
	// classified as a configuration source.
	AttrConfigurationClass = "confgraph.configurationClass"
	// AttrCandidate forces a definition to be treated as a configuration source.
	AttrCandidate = "confgraph.candidate"
	AttrOrder     = "confgraph.order"
	// AttrOwner names the configuration unit a producer definition came from.
	AttrOwner = "confgraph.owner"
)

// Definition describes one component to construct.
type Definition struct {
	TypeName          string                   `json:"type,omitempty" yaml:"type,omitempty"`
	Role              Role                     `json:"role,omitempty" yaml:"role,omitempty"`
	Origin            string                   `json:"origin,omitempty" yaml:"origin,omitempty"`
	Kind              Kind                     `json:"kind" yaml:"kind"`
	Scope             string                   `json:"scope,omitempty" yaml:"scope,omitempty"`
	Lazy              bool                     `json:"lazy,omitempty" yaml:"lazy,omitempty"`
	Primary           bool                     `json:"primary,omitempty" yaml:"primary,omitempty"`
	DependsOn         []string                 `json:"dependsOn,omitempty" yaml:"dependsOn,omitempty"`
	Description       string                   `json:"description,omitempty" yaml:"description,omitempty"`
	AutowireCandidate bool                     `json:"autowireCandidate" yaml:"autowireCandidate"`
	InitMethod        string                   `json:"initMethod,omitempty" yaml:"initMethod,omitempty"`
	DestroyMethod     string                   `json:"destroyMethod,omitempty" yaml:"destroyMethod,omitempty"`
	FactoryType       string                   `json:"factoryType,omitempty" yaml:"factoryType,omitempty"`
	FactoryDefinition string                   `json:"factoryDefinition,omitempty" yaml:"factoryDefinition,omitempty"`
	FactoryMethod     string                   `json:"factoryMethod,omitempty" yaml:"factoryMethod,omitempty"`
	Metadata          *metadata.TypeMetadata   `json:"-" yaml:"-"`
	Method            *metadata.MethodMetadata `json:"-" yaml:"-"`
	Attributes        map[string]any           `json:"-" yaml:"-"`
}

// NewDefinition creates a definition for a type.
func NewDefinition(kind Kind, md *metadata.TypeMetadata) *Definition {
	def := &Definition{Kind: kind, Metadata: md, AutowireCandidate: true}
	if md != nil {
		def.TypeName = md.Name
		def.Origin = md.Resource
	}
	return def
}

// Attribute returns a definition attribute.
func (d *Definition) Attribute(key string) (any, bool) {
	v, ok := d.Attributes[key]
	return v, ok
}

// SetAttribute stores a definition attribute.
func (d *Definition) SetAttribute(key string, value any) {
	if d.Attributes == nil {
		d.Attributes = map[string]any{}
	}
	d.Attributes[key] = value
}

// Describe renders the definition for diagnostics.
func (d *Definition) Describe() string {
	switch {
	case d.Method != nil && d.FactoryMethod != "":
		owner := d.FactoryType
		if d.FactoryDefinition != "" {
			owner = d.FactoryDefinition
		}
		return fmt.Sprintf("%s definition %s.%s (%s)", d.Kind, owner, d.FactoryMethod, originOrUnknown(d.Origin))
	case d.TypeName != "":
		return fmt.Sprintf("%s definition of type %s (%s)", d.Kind, d.TypeName, originOrUnknown(d.Origin))
	default:
		return fmt.Sprintf("%s definition (%s)", d.Kind, originOrUnknown(d.Origin))
	}
}

func originOrUnknown(origin string) string {
	if origin == "" {
		return "unknown origin"
	}
	return origin
}

// Holder pairs a definition with its name and aliases.
type Holder struct {
	Name       string
	Aliases    []string
	Definition *Definition
}
