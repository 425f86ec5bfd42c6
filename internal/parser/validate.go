package parser

import (
	"fmt"

	"github.com/opmodel/confgraph/internal/metadata"
	"github.com/opmodel/confgraph/internal/problems"
)

// Validate reports structural problems: a proxied configuration that is
// final, producer methods a proxy could not intercept, void producers, and
// overloaded producer names.
func (u *Unit) Validate(reporter problems.Reporter) {
	attrs, ok := u.Metadata.Markers.Get(metadata.MarkerConfiguration)
	if !ok {
		return
	}

	proxied := attrs.Bool("proxyBeanMethods", true)
	if proxied && u.Metadata.Final {
		reporter.Error(problems.Problem{
			Kind:     problems.KindFinalConfiguration,
			Message:  fmt.Sprintf("configuration %s must not be final while proxyBeanMethods is enabled", u.Name()),
			Location: u.Location(),
		})
	}
	for _, m := range u.producers {
		m.validate(reporter, proxied)
	}

	if attrs.Bool("enforceUniqueMethods", true) {
		byName := map[string]*metadata.MethodMetadata{}
		for _, m := range u.producers {
			if existing, ok := byName[m.Name()]; ok && existing.DeclaringType == m.Method.DeclaringType {
				reporter.Error(problems.Problem{
					Kind:     problems.KindOverloadedProducer,
					Message:  fmt.Sprintf("producer method %s is overloaded in %s", m.Name(), m.Method.DeclaringType),
					Location: u.Location(),
				})
			}
			byName[m.Name()] = m.Method
		}
	}
}

func (m *ProducerMethod) validate(reporter problems.Reporter, proxied bool) {
	if m.Method.ReturnType == "void" {
		reporter.Error(problems.Problem{
			Kind:     problems.KindVoidProducer,
			Message:  fmt.Sprintf("producer method %s must return a value", m),
			Location: m.Unit.Location(),
		})
	}
	if m.Method.Static || !proxied {
		return
	}
	if !m.Method.Overridable() {
		reporter.Error(problems.Problem{
			Kind:     problems.KindNonOverridable,
			Message:  fmt.Sprintf("producer method %s must not be private or final; change it or disable proxyBeanMethods", m),
			Location: m.Unit.Location(),
		})
	}
}
