package registry

import (
	"fmt"
	"path"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"gopkg.in/yaml.v3"
	k8syaml "sigs.k8s.io/yaml"

	oerrors "github.com/opmodel/confgraph/internal/errors"
)

// Definition resource reader kinds.
const (
	ReaderYAML = "yaml"
	ReaderJSON = "json"
	ReaderHCL  = "hcl"
)

// DefinitionSpec is one definition as written in a definition resource.
type DefinitionSpec struct {
	Name              string   `json:"name" yaml:"name" hcl:"name,label"`
	Type              string   `json:"type" yaml:"type" hcl:"type"`
	Aliases           []string `json:"aliases,omitempty" yaml:"aliases,omitempty" hcl:"aliases,optional"`
	Scope             string   `json:"scope,omitempty" yaml:"scope,omitempty" hcl:"scope,optional"`
	Lazy              bool     `json:"lazy,omitempty" yaml:"lazy,omitempty" hcl:"lazy,optional"`
	Primary           bool     `json:"primary,omitempty" yaml:"primary,omitempty" hcl:"primary,optional"`
	DependsOn         []string `json:"dependsOn,omitempty" yaml:"dependsOn,omitempty" hcl:"depends_on,optional"`
	Description       string   `json:"description,omitempty" yaml:"description,omitempty" hcl:"description,optional"`
	Role              string   `json:"role,omitempty" yaml:"role,omitempty" hcl:"role,optional"`
	AutowireCandidate *bool    `json:"autowireCandidate,omitempty" yaml:"autowireCandidate,omitempty" hcl:"autowire_candidate,optional"`
	InitMethod        string   `json:"initMethod,omitempty" yaml:"initMethod,omitempty" hcl:"init_method,optional"`
	DestroyMethod     string   `json:"destroyMethod,omitempty" yaml:"destroyMethod,omitempty" hcl:"destroy_method,optional"`
	FactoryType       string   `json:"factoryType,omitempty" yaml:"factoryType,omitempty" hcl:"factory_type,optional"`
	FactoryDefinition string   `json:"factoryDefinition,omitempty" yaml:"factoryDefinition,omitempty" hcl:"factory_definition,optional"`
	FactoryMethod     string   `json:"factoryMethod,omitempty" yaml:"factoryMethod,omitempty" hcl:"factory_method,optional"`
}

// Holder converts the spec into a registrable holder.
func (s DefinitionSpec) Holder(kind Kind, origin string) (Holder, error) {
	if s.Name == "" {
		return Holder{}, oerrors.NewValidationError("definition without a name", origin, "name", "")
	}
	if s.Type == "" && s.FactoryMethod == "" {
		return Holder{}, oerrors.NewValidationError(
			fmt.Sprintf("definition %q needs a type or a factory method", s.Name), origin, s.Name, "")
	}
	role, err := ParseRole(s.Role)
	if err != nil {
		return Holder{}, oerrors.NewValidationError(err.Error(), origin, s.Name, "")
	}
	def := &Definition{
		TypeName:          s.Type,
		Role:              role,
		Origin:            origin,
		Kind:              kind,
		Scope:             s.Scope,
		Lazy:              s.Lazy,
		Primary:           s.Primary,
		DependsOn:         s.DependsOn,
		Description:       s.Description,
		AutowireCandidate: s.AutowireCandidate == nil || *s.AutowireCandidate,
		InitMethod:        s.InitMethod,
		DestroyMethod:     s.DestroyMethod,
		FactoryType:       s.FactoryType,
		FactoryDefinition: s.FactoryDefinition,
		FactoryMethod:     s.FactoryMethod,
	}
	return Holder{Name: s.Name, Aliases: s.Aliases, Definition: def}, nil
}

// DefinitionDocument is the top level of a yaml or json definition resource.
type DefinitionDocument struct {
	Definitions []DefinitionSpec `json:"definitions" yaml:"definitions"`
}

type hclDocument struct {
	Definitions []DefinitionSpec `hcl:"definition,block"`
}

// DefinitionReader parses a definition resource.
type DefinitionReader interface {
	Kind() string
	Parse(location string, data []byte) ([]DefinitionSpec, error)
}

// YAMLReader reads yaml definition resources.
type YAMLReader struct{}

func (YAMLReader) Kind() string { return ReaderYAML }

func (YAMLReader) Parse(location string, data []byte) ([]DefinitionSpec, error) {
	var doc DefinitionDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, oerrors.NewValidationError(fmt.Sprintf("parsing yaml definitions: %v", err), location, "", "")
	}
	return doc.Definitions, nil
}

// JSONReader reads json definition resources.
type JSONReader struct{}

func (JSONReader) Kind() string { return ReaderJSON }

func (JSONReader) Parse(location string, data []byte) ([]DefinitionSpec, error) {
	var doc DefinitionDocument
	if err := k8syaml.UnmarshalStrict(data, &doc); err != nil {
		return nil, oerrors.NewValidationError(fmt.Sprintf("parsing json definitions: %v", err), location, "", "")
	}
	return doc.Definitions, nil
}

// HCLReader reads hcl definition resources made of definition blocks.
type HCLReader struct{}

func (HCLReader) Kind() string { return ReaderHCL }

func (HCLReader) Parse(location string, data []byte) ([]DefinitionSpec, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, location)
	if diags.HasErrors() {
		return nil, oerrors.NewValidationError(fmt.Sprintf("parsing hcl definitions: %s", diags.Error()), location, "", "")
	}
	var doc hclDocument
	if diags := gohcl.DecodeBody(file.Body, nil, &doc); diags.HasErrors() {
		return nil, oerrors.NewValidationError(fmt.Sprintf("decoding hcl definitions: %s", diags.Error()), location, "", "")
	}
	return doc.Definitions, nil
}

// ReaderFor picks a reader by explicit kind, else by the locator's extension.
// Unknown extensions read as yaml. An unknown explicit kind is an invalid import.
func ReaderFor(kind, location string) (DefinitionReader, error) {
	if kind == "" {
		switch strings.ToLower(path.Ext(location)) {
		case ".json":
			kind = ReaderJSON
		case ".hcl":
			kind = ReaderHCL
		default:
			kind = ReaderYAML
		}
	}
	switch kind {
	case ReaderYAML:
		return YAMLReader{}, nil
	case ReaderJSON:
		return JSONReader{}, nil
	case ReaderHCL:
		return HCLReader{}, nil
	}
	return nil, oerrors.NewInvalidImportError(
		fmt.Sprintf("unknown definition reader %q for resource %s", kind, location), location)
}

// LoadDefinitions parses data with reader and registers every definition.
// It returns the number of definitions registered.
func LoadDefinitions(reg Registry, reader DefinitionReader, location string, data []byte, kind Kind) (int, error) {
	specs, err := reader.Parse(location, data)
	if err != nil {
		return 0, err
	}
	for i, spec := range specs {
		h, err := spec.Holder(kind, location)
		if err != nil {
			return i, err
		}
		if err := RegisterHolder(reg, h); err != nil {
			return i, err
		}
	}
	return len(specs), nil
}
