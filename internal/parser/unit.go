package parser

import (
	"fmt"

	"github.com/opmodel/confgraph/internal/metadata"
)

// ProducerMethod is a method whose result becomes a definition, together
// with the unit that contributes it.
type ProducerMethod struct {
	Method *metadata.MethodMetadata
	Unit   *Unit
}

// Name returns the method name.
func (m *ProducerMethod) Name() string { return m.Method.Name }

func (m *ProducerMethod) String() string {
	return fmt.Sprintf("%s.%s", m.Method.DeclaringType, m.Method.Name)
}

// ResourceImport is a definition resource to load for a unit.
type ResourceImport struct {
	Location string
	Reader   string
}

// RegistrarImport is a registrar together with the metadata of the type
// that imported it.
type RegistrarImport struct {
	Registrar Registrar
	Importing *metadata.TypeMetadata
}

// Unit is one resolved configuration source. Units are identified by type name.
type Unit struct {
	Metadata *metadata.TypeMetadata
	Origin   string
	Scanned  bool
	// AssignedName is the definition name; imported units get one when they
	// are materialized.
	AssignedName string

	source           *SourceElement
	importedBy       []*Unit
	producers        []*ProducerMethod
	resources        []ResourceImport
	registrars       []RegistrarImport
	skippedProducers map[string]bool
}

func newUnit(source *SourceElement, name string) *Unit {
	return &Unit{
		Metadata:         source.Metadata(),
		Origin:           source.Metadata().Resource,
		AssignedName:     name,
		source:           source,
		skippedProducers: map[string]bool{},
	}
}

func newImportedUnit(source *SourceElement, importedBy *Unit) *Unit {
	u := newUnit(source, "")
	u.importedBy = []*Unit{importedBy}
	return u
}

// NewUnit creates a primary unit for md. It is meant for callers that
// assemble units themselves.
func NewUnit(md *metadata.TypeMetadata, name string) *Unit {
	return newUnit(metadataElement(md, nil, nil), name)
}

// Name returns the unit's type name.
func (u *Unit) Name() string { return u.Metadata.Name }

// Location renders the unit and its origin for diagnostics.
func (u *Unit) Location() string {
	if u.Origin == "" {
		return u.Name()
	}
	return fmt.Sprintf("%s (%s)", u.Name(), u.Origin)
}

func (u *Unit) String() string { return u.Name() }

// IsImported reports whether another unit pulled this one in.
func (u *Unit) IsImported() bool { return len(u.importedBy) > 0 }

// ImportedBy returns the importing units in the order they were recorded.
func (u *Unit) ImportedBy() []*Unit {
	return append([]*Unit(nil), u.importedBy...)
}

// AddImportedBy records an importer once.
func (u *Unit) AddImportedBy(importer *Unit) {
	for _, existing := range u.importedBy {
		if existing.Name() == importer.Name() {
			return
		}
	}
	u.importedBy = append(u.importedBy, importer)
}

// MergeImportedBy unions other's importers into u.
func (u *Unit) MergeImportedBy(other *Unit) {
	for _, importer := range other.importedBy {
		u.AddImportedBy(importer)
	}
}

// AddProducer records a producer method once.
func (u *Unit) AddProducer(m *metadata.MethodMetadata) {
	for _, existing := range u.producers {
		if existing.Method == m {
			return
		}
	}
	u.producers = append(u.producers, &ProducerMethod{Method: m, Unit: u})
}

// Producers returns the producer methods in contribution order.
func (u *Unit) Producers() []*ProducerMethod {
	return append([]*ProducerMethod(nil), u.producers...)
}

// AddResource records a definition resource; a repeated locator keeps its
// first position and takes the latest reader.
func (u *Unit) AddResource(location, reader string) {
	for i, r := range u.resources {
		if r.Location == location {
			u.resources[i].Reader = reader
			return
		}
	}
	u.resources = append(u.resources, ResourceImport{Location: location, Reader: reader})
}

// Resources returns the definition resources in declaration order.
func (u *Unit) Resources() []ResourceImport {
	return append([]ResourceImport(nil), u.resources...)
}

// AddRegistrar records a registrar and its importing metadata.
func (u *Unit) AddRegistrar(r Registrar, importing *metadata.TypeMetadata) {
	u.registrars = append(u.registrars, RegistrarImport{Registrar: r, Importing: importing})
}

// Registrars returns the registrars in import order.
func (u *Unit) Registrars() []RegistrarImport {
	return append([]RegistrarImport(nil), u.registrars...)
}

// SkipProducer marks a producer name as excluded by a condition.
func (u *Unit) SkipProducer(name string) {
	u.skippedProducers[name] = true
}

// IsProducerSkipped reports whether a producer name was excluded.
func (u *Unit) IsProducerSkipped(name string) bool {
	return u.skippedProducers[name]
}

// unitSet keeps units in insertion order. Re-putting a stored name replaces
// the unit in place.
type unitSet struct {
	names []string
	units map[string]*Unit
}

func newUnitSet() *unitSet {
	return &unitSet{units: map[string]*Unit{}}
}

func (s *unitSet) get(name string) *Unit { return s.units[name] }

func (s *unitSet) put(u *Unit) {
	if _, ok := s.units[u.Name()]; !ok {
		s.names = append(s.names, u.Name())
	}
	s.units[u.Name()] = u
}

func (s *unitSet) remove(name string) {
	if _, ok := s.units[name]; !ok {
		return
	}
	delete(s.units, name)
	for i, n := range s.names {
		if n == name {
			s.names = append(s.names[:i], s.names[i+1:]...)
			return
		}
	}
}

func (s *unitSet) all() []*Unit {
	out := make([]*Unit, len(s.names))
	for i, n := range s.names {
		out[i] = s.units[n]
	}
	return out
}
