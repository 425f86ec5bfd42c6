package parser

import (
	"github.com/opmodel/confgraph/internal/metadata"

	oerrors "github.com/opmodel/confgraph/internal/errors"
)

// typeReader describes a type from the catalog, falling back to loaded
// classes for types only known at runtime.
type typeReader struct {
	catalog metadata.Reader
	classes *metadata.Classes
}

// NewTypeReader returns the reader the parser uses: the catalog first, then
// loaded classes.
func NewTypeReader(catalog metadata.Reader, classes *metadata.Classes) metadata.Reader {
	return typeReader{catalog: catalog, classes: classes}
}

func (r typeReader) Read(name string) (*metadata.TypeMetadata, error) {
	if r.catalog != nil {
		if md, err := r.catalog.Read(name); err == nil {
			return md, nil
		}
	}
	if class, ok := r.classes.Load(name); ok {
		return class.Metadata, nil
	}
	return nil, oerrors.NewNotFoundError("type "+name+" is not described", "", "")
}

// SourceElement is a configuration source seen either as a loaded class or
// as metadata only. Two elements are equal when their type names are.
type SourceElement struct {
	md      *metadata.TypeMetadata
	class   *metadata.Class
	reader  metadata.Reader
	classes *metadata.Classes
}

func loadedElement(class *metadata.Class, reader metadata.Reader, classes *metadata.Classes) *SourceElement {
	return &SourceElement{md: class.Metadata, class: class, reader: reader, classes: classes}
}

func metadataElement(md *metadata.TypeMetadata, reader metadata.Reader, classes *metadata.Classes) *SourceElement {
	return &SourceElement{md: md, reader: reader, classes: classes}
}

// Name returns the fully-qualified type name.
func (s *SourceElement) Name() string { return s.md.Name }

// Metadata returns the element's metadata.
func (s *SourceElement) Metadata() *metadata.TypeMetadata { return s.md }

// IsLoaded reports whether the element wraps a loaded class.
func (s *SourceElement) IsLoaded() bool { return s.class != nil }

// Equal compares elements by type name.
func (s *SourceElement) Equal(other *SourceElement) bool {
	return other != nil && s.Name() == other.Name()
}

func (s *SourceElement) String() string { return s.Name() }

// Load returns the loaded class behind the element.
func (s *SourceElement) Load() (*metadata.Class, error) {
	if s.class != nil {
		return s.class, nil
	}
	if class, ok := s.classes.Load(s.Name()); ok {
		return class, nil
	}
	return nil, oerrors.NewUnresolvableError(s.Name(), s.md.Resource, oerrors.ErrNotFound)
}

// IsAssignable reports whether the element is, extends, or implements target.
func (s *SourceElement) IsAssignable(target string) bool {
	return metadata.IsAssignable(s.reader, s.md, target)
}

// Superclass returns the superclass element, or nil when there is none or
// it is a platform type.
func (s *SourceElement) Superclass() (*SourceElement, error) {
	if s.md.Superclass == "" || metadata.IsPlatformType(s.md.Superclass) {
		return nil, nil
	}
	return s.related(s.md.Superclass)
}

// Interfaces returns the declared interfaces, excluding platform types.
func (s *SourceElement) Interfaces() ([]*SourceElement, error) {
	return s.relatedAll(s.md.Interfaces)
}

// MemberTypes returns the nested types.
func (s *SourceElement) MemberTypes() ([]*SourceElement, error) {
	return s.relatedAll(s.md.MemberTypes)
}

func (s *SourceElement) relatedAll(names []string) ([]*SourceElement, error) {
	var out []*SourceElement
	for _, name := range names {
		if metadata.IsPlatformType(name) {
			continue
		}
		el, err := s.related(name)
		if err != nil {
			return nil, err
		}
		out = append(out, el)
	}
	return out, nil
}

// related resolves a type named by this element. Loaded elements prefer
// loaded relatives.
func (s *SourceElement) related(name string) (*SourceElement, error) {
	if s.IsLoaded() {
		if class, ok := s.classes.Load(name); ok {
			return loadedElement(class, s.reader, s.classes), nil
		}
	}
	return resolveElement(name, s.reader, s.classes, s.Name())
}

// resolveElement describes name from the reader, else from loaded classes.
func resolveElement(name string, reader metadata.Reader, classes *metadata.Classes, location string) (*SourceElement, error) {
	md, err := reader.Read(name)
	if err != nil {
		return nil, oerrors.NewUnresolvableError(name, location, err)
	}
	if class, ok := classes.Load(name); ok && class.Metadata == md {
		return loadedElement(class, reader, classes), nil
	}
	return metadataElement(md, reader, classes), nil
}
