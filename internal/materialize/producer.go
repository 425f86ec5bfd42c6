package materialize

import (
	"fmt"

	"github.com/opmodel/confgraph/internal/condition"
	oerrors "github.com/opmodel/confgraph/internal/errors"
	"github.com/opmodel/confgraph/internal/metadata"
	"github.com/opmodel/confgraph/internal/output"
	"github.com/opmodel/confgraph/internal/parser"
	"github.com/opmodel/confgraph/internal/registry"
)

// loadProducer registers the definition of one producer method. The first
// Bean name is the definition name; the others become aliases.
func (r *Reader) loadProducer(m *parser.ProducerMethod) error {
	u := m.Unit
	name := m.Name()
	if u.IsProducerSkipped(name) {
		return nil
	}
	if r.conditions != nil {
		skip, err := r.conditions.ShouldSkip(m.Method, condition.PhaseRegister)
		if err != nil {
			return err
		}
		if skip {
			u.SkipProducer(name)
			output.Debug("skipping producer method", "method", m.String())
			return nil
		}
	}

	attrs, _ := m.Method.Markers.Get(metadata.MarkerBean)
	names := attrs.Strings("name")
	if len(names) == 0 {
		names = attrs.Strings("value")
	}
	defName := name
	if len(names) > 0 {
		defName, names = names[0], names[1:]
	}
	if u.AssignedName != "" && defName == u.AssignedName {
		return oerrors.NewNameClashError(defName, u.Location(),
			fmt.Sprintf("configuration %s; use an explicit name for producer method %s", u.Name(), name))
	}

	def := producerDefinition(m, attrs)
	if r.keepExisting(defName, def, m) {
		return nil
	}
	if existing, ok := r.registry.Get(defName); ok && existing.Kind == registry.KindScanned {
		if err := r.registry.Remove(defName); err != nil {
			return err
		}
		output.Debug("producer method replaces scanned definition", "name", defName, "method", m.String())
	}
	if err := r.registry.Register(defName, def); err != nil {
		return err
	}
	for _, alias := range names {
		if err := r.registry.Alias(defName, alias); err != nil {
			return err
		}
	}
	output.Debug("registered producer definition", "name", defName, "method", m.String())
	return nil
}

func producerDefinition(m *parser.ProducerMethod, attrs metadata.Attributes) *registry.Definition {
	u := m.Unit
	def := registry.NewDefinition(registry.KindProducer, nil)
	def.TypeName = m.Method.ReturnType
	def.Origin = u.Origin
	def.Method = m.Method
	def.FactoryMethod = m.Name()
	if m.Method.Static {
		def.FactoryType = u.Name()
	} else {
		def.FactoryDefinition = u.AssignedName
	}
	def.SetAttribute(registry.AttrOwner, u.Name())

	applyScope(def, m.Method.Markers)
	registry.ApplyCommonMarkers(def, m.Method.Markers)
	def.AutowireCandidate = attrs.Bool("autowireCandidate", true)
	def.InitMethod = attrs.String("initMethod")
	def.DestroyMethod = attrs.String("destroyMethod")
	return def
}

// keepExisting applies the producer conflict rules. It reports true when the
// definition already registered under name stays in place. A clash that may
// not be overridden is left to Register to report.
func (r *Reader) keepExisting(name string, def *registry.Definition, m *parser.ProducerMethod) bool {
	existing, ok := r.registry.Get(name)
	if !ok {
		return false
	}
	switch {
	case existing.Kind == registry.KindProducer && sameProducer(existing, m):
		output.Debug("producer definition already registered", "name", name, "method", m.String())
		return true
	case existing.Kind == registry.KindScanned:
		return false
	case existing.Role > registry.RoleApplication:
		output.Debug("keeping infrastructure definition", "name", name, "role", existing.Role.String(), "ignored", def.Describe())
		return true
	}
	return false
}

func sameProducer(existing *registry.Definition, m *parser.ProducerMethod) bool {
	owner, _ := existing.Attribute(registry.AttrOwner)
	return owner == m.Unit.Name() && existing.FactoryMethod == m.Name()
}
