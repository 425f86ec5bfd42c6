// Package metadata describes configuration source types without loading them.
//
// A type is identified by its fully-qualified name: an import path, a dot,
// and the type's short name (for example example.com/app.AppConfig). Nested
// types extend the short name (example.com/app.AppConfig.Inner).
package metadata

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Attributes holds the key/value pairs of one marker occurrence.
type Attributes map[string]any

// String returns the attribute as a string, or "" when absent.
func (a Attributes) String(key string) string {
	v, ok := a[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	if list := a.Strings(key); len(list) > 0 {
		return list[0]
	}
	return fmt.Sprint(v)
}

// Strings returns the attribute as a string list. A single string becomes a
// one-element list.
func (a Attributes) Strings(key string) []string {
	switch v := a[key].(type) {
	case nil:
		return nil
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		return []string{fmt.Sprint(v)}
	}
}

// Bool returns the attribute as a bool, or def when absent.
func (a Attributes) Bool(key string, def bool) bool {
	switch v := a[key].(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(v) {
		case "true":
			return true
		case "false":
			return false
		}
	}
	return def
}

// Int returns the attribute as an int, or def when absent.
func (a Attributes) Int(key string, def int) int {
	switch v := a[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case uint64:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}

// Maps returns a list of nested attribute maps, used for filter declarations.
func (a Attributes) Maps(key string) []Attributes {
	var out []Attributes
	switch v := a[key].(type) {
	case []Attributes:
		return v
	case []map[string]any:
		for _, m := range v {
			out = append(out, Attributes(m))
		}
	case []any:
		for _, item := range v {
			switch m := item.(type) {
			case map[string]any:
				out = append(out, Attributes(m))
			case Attributes:
				out = append(out, m)
			}
		}
	}
	return out
}

// Marker is one marker occurrence on a type or method.
type Marker struct {
	Type       string     `json:"type" yaml:"type"`
	Attributes Attributes `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// Markers is an ordered list of marker occurrences. Repeatable markers appear
// more than once.
type Markers []Marker

// Has reports whether a marker of the given type is present.
func (m Markers) Has(markerType string) bool {
	for _, mk := range m {
		if mk.Type == markerType {
			return true
		}
	}
	return false
}

// Get returns the attributes of the first marker of the given type.
func (m Markers) Get(markerType string) (Attributes, bool) {
	for _, mk := range m {
		if mk.Type == markerType {
			if mk.Attributes == nil {
				return Attributes{}, true
			}
			return mk.Attributes, true
		}
	}
	return nil, false
}

// All returns the attributes of every marker of the given type, in order.
func (m Markers) All(markerType string) []Attributes {
	var out []Attributes
	for _, mk := range m {
		if mk.Type == markerType {
			attrs := mk.Attributes
			if attrs == nil {
				attrs = Attributes{}
			}
			out = append(out, attrs)
		}
	}
	return out
}

// Annotated is anything that carries markers.
type Annotated interface {
	MarkerList() Markers
	Identity() string
}

// MethodMetadata describes one method of a type.
type MethodMetadata struct {
	Name          string  `json:"name" yaml:"name"`
	DeclaringType string  `json:"declaringType,omitempty" yaml:"declaringType,omitempty"`
	ReturnType    string  `json:"returnType,omitempty" yaml:"returnType,omitempty"`
	Static        bool    `json:"static,omitempty" yaml:"static,omitempty"`
	Abstract      bool    `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	Final         bool    `json:"final,omitempty" yaml:"final,omitempty"`
	Private       bool    `json:"private,omitempty" yaml:"private,omitempty"`
	Markers       Markers `json:"markers,omitempty" yaml:"markers,omitempty"`
}

// MarkerList implements Annotated.
func (m *MethodMetadata) MarkerList() Markers { return m.Markers }

// Identity implements Annotated.
func (m *MethodMetadata) Identity() string { return m.DeclaringType + "." + m.Name }

// Overridable reports whether a proxy could intercept the method.
func (m *MethodMetadata) Overridable() bool {
	return !m.Static && !m.Final && !m.Private
}

// TypeMetadata describes a type: its markers, hierarchy, nested types, and methods.
type TypeMetadata struct {
	Name        string            `json:"name" yaml:"name"`
	Resource    string            `json:"resource,omitempty" yaml:"resource,omitempty"`
	Superclass  string            `json:"superclass,omitempty" yaml:"superclass,omitempty"`
	Interfaces  []string          `json:"interfaces,omitempty" yaml:"interfaces,omitempty"`
	MemberTypes []string          `json:"memberTypes,omitempty" yaml:"memberTypes,omitempty"`
	Interface   bool              `json:"interface,omitempty" yaml:"interface,omitempty"`
	Abstract    bool              `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	Final       bool              `json:"final,omitempty" yaml:"final,omitempty"`
	Markers     Markers           `json:"markers,omitempty" yaml:"markers,omitempty"`
	Methods     []*MethodMetadata `json:"methods,omitempty" yaml:"methods,omitempty"`
}

// MarkerList implements Annotated.
func (t *TypeMetadata) MarkerList() Markers { return t.Markers }

// Identity implements Annotated.
func (t *TypeMetadata) Identity() string { return t.Name }

// HasMarker reports whether the type carries the marker directly.
func (t *TypeMetadata) HasMarker(markerType string) bool {
	return t.Markers.Has(markerType)
}

// MarkedMethods returns the methods carrying the marker, in the order the
// methods are held.
func (t *TypeMetadata) MarkedMethods(markerType string) []*MethodMetadata {
	var out []*MethodMetadata
	for _, m := range t.Methods {
		if m.Markers.Has(markerType) {
			out = append(out, m)
		}
	}
	return out
}

// IsConcrete reports whether the type is neither an interface nor abstract.
func (t *TypeMetadata) IsConcrete() bool {
	return !t.Interface && !t.Abstract
}

// Package returns the import path part of the type name.
func (t *TypeMetadata) Package() string {
	return PackageOf(t.Name)
}

// ShortName returns the type name without its package.
func (t *TypeMetadata) ShortName() string {
	return ShortNameOf(t.Name)
}

// Clone returns a deep copy of the metadata's slices; marker attribute maps
// are shared.
func (t *TypeMetadata) Clone() *TypeMetadata {
	c := *t
	c.Interfaces = append([]string(nil), t.Interfaces...)
	c.MemberTypes = append([]string(nil), t.MemberTypes...)
	c.Markers = append(Markers(nil), t.Markers...)
	c.Methods = make([]*MethodMetadata, len(t.Methods))
	for i, m := range t.Methods {
		mc := *m
		mc.Markers = append(Markers(nil), m.Markers...)
		c.Methods[i] = &mc
	}
	return &c
}

// PackageOf returns the import path part of a fully-qualified type name.
func PackageOf(name string) string {
	slash := strings.LastIndex(name, "/")
	dot := strings.Index(name[slash+1:], ".")
	if dot < 0 {
		return ""
	}
	return name[:slash+1+dot]
}

// ShortNameOf returns the part of a type name after its package.
func ShortNameOf(name string) string {
	pkg := PackageOf(name)
	if pkg == "" {
		return name
	}
	return name[len(pkg)+1:]
}

// Decapitalize lower-cases the first rune of s unless the first two runes
// are both upper case.
func Decapitalize(s string) string {
	if s == "" {
		return s
	}
	first, size := utf8.DecodeRuneInString(s)
	if len(s) > size {
		second, _ := utf8.DecodeRuneInString(s[size:])
		if unicode.IsUpper(first) && unicode.IsUpper(second) {
			return s
		}
	}
	return string(unicode.ToLower(first)) + s[size:]
}
