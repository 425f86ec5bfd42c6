// Package condition decides whether a marked type or method should be
// skipped. Conditions run in one of two phases: while parsing configuration
// sources, and while registering their definitions.
package condition

import (
	"strings"

	"github.com/opmodel/confgraph/internal/env"
	"github.com/opmodel/confgraph/internal/metadata"
	"github.com/opmodel/confgraph/internal/output"
	"github.com/opmodel/confgraph/internal/registry"
	"github.com/opmodel/confgraph/internal/strategy"
)

// Phase is the point in the pipeline at which a condition is checked.
type Phase int

const (
	PhaseParse Phase = iota
	PhaseRegister
)

func (p Phase) String() string {
	if p == PhaseParse {
		return "parse"
	}
	return "register"
}

// Context gives conditions access to the engine's collaborators.
type Context struct {
	Registry    registry.Registry
	Environment *env.Environment
	Classes     *metadata.Classes
}

// Condition matches when the annotated element should be kept.
type Condition interface {
	Matches(ctx *Context, md metadata.Annotated) bool
}

// PhasedCondition is only checked in its own phase.
type PhasedCondition interface {
	Condition
	Phase() Phase
}

// Func adapts a function to Condition.
type Func func(ctx *Context, md metadata.Annotated) bool

func (f Func) Matches(ctx *Context, md metadata.Annotated) bool { return f(ctx, md) }

// Evaluator runs the conditions declared on an element.
type Evaluator struct {
	ctx   *Context
	caps  strategy.Capabilities
	named map[string]Condition
}

// NewEvaluator creates an evaluator. caps is used to construct conditions
// named in Conditional markers that were not registered by name.
func NewEvaluator(ctx *Context, caps strategy.Capabilities) *Evaluator {
	return &Evaluator{ctx: ctx, caps: caps, named: map[string]Condition{}}
}

// Register makes a condition available to Conditional markers under name.
func (e *Evaluator) Register(name string, c Condition) {
	e.named[name] = c
}

// ShouldSkip reports whether md should be skipped in phase. A condition that
// cannot be constructed is returned as an error.
func (e *Evaluator) ShouldSkip(md metadata.Annotated, phase Phase) (bool, error) {
	if md == nil {
		return false, nil
	}
	conditions, err := e.conditions(md.MarkerList())
	if err != nil {
		return false, err
	}
	for _, c := range conditions {
		if pc, ok := c.(PhasedCondition); ok && pc.Phase() != phase {
			continue
		}
		if !c.Matches(e.ctx, md) {
			output.Debug("condition did not match", "element", md.Identity(), "phase", phase)
			return true, nil
		}
	}
	return false, nil
}

func (e *Evaluator) conditions(markers metadata.Markers) ([]Condition, error) {
	var out []Condition
	if markers.Has(metadata.MarkerProfile) {
		out = append(out, profileCondition{})
	}
	if markers.Has(metadata.MarkerConditionalOnProperty) {
		out = append(out, propertyCondition{})
	}
	if markers.Has(metadata.MarkerConditionalOnMissingDefinition) {
		out = append(out, missingDefinitionCondition{})
	}
	for _, attrs := range markers.All(metadata.MarkerConditional) {
		for _, name := range attrs.Strings("value") {
			c, err := e.lookup(name)
			if err != nil {
				return nil, err
			}
			out = append(out, c)
		}
	}
	return out, nil
}

func (e *Evaluator) lookup(name string) (Condition, error) {
	if c, ok := e.named[name]; ok {
		return c, nil
	}
	c, err := strategy.InstantiateByName[Condition](name, e.caps, "condition")
	if err != nil {
		return nil, err
	}
	e.named[name] = c
	return c, nil
}

// profileCondition matches when any Profile expression is accepted.
type profileCondition struct{}

func (profileCondition) Matches(ctx *Context, md metadata.Annotated) bool {
	if ctx.Environment == nil {
		return true
	}
	for _, attrs := range md.MarkerList().All(metadata.MarkerProfile) {
		if !ctx.Environment.AcceptsProfiles(attrs.Strings("value")...) {
			return false
		}
	}
	return true
}

// propertyCondition checks ConditionalOnProperty: every named property must
// equal havingValue (case-insensitively), or be anything but "false" when no
// value is given. Missing properties match only with matchIfMissing.
type propertyCondition struct{}

func (propertyCondition) Matches(ctx *Context, md metadata.Annotated) bool {
	for _, attrs := range md.MarkerList().All(metadata.MarkerConditionalOnProperty) {
		prefix := strings.TrimSuffix(attrs.String("prefix"), ".")
		names := attrs.Strings("name")
		if len(names) == 0 {
			names = attrs.Strings("value")
		}
		having := attrs.String("havingValue")
		matchIfMissing := attrs.Bool("matchIfMissing", false)

		for _, name := range names {
			key := name
			if prefix != "" {
				key = prefix + "." + name
			}
			var value string
			var ok bool
			if ctx.Environment != nil {
				value, ok = ctx.Environment.Property(key)
			}
			switch {
			case !ok:
				if !matchIfMissing {
					return false
				}
			case having == "":
				if strings.EqualFold(value, "false") {
					return false
				}
			case !strings.EqualFold(value, having):
				return false
			}
		}
	}
	return true
}

// missingDefinitionCondition matches when none of the named definitions or
// types is registered yet. A bare marker on a producer method checks the
// method's return type. It only runs at registration.
type missingDefinitionCondition struct{}

func (missingDefinitionCondition) Phase() Phase { return PhaseRegister }

func (missingDefinitionCondition) Matches(ctx *Context, md metadata.Annotated) bool {
	if ctx.Registry == nil {
		return true
	}
	for _, attrs := range md.MarkerList().All(metadata.MarkerConditionalOnMissingDefinition) {
		for _, name := range attrs.Strings("name") {
			if ctx.Registry.Contains(name) {
				return false
			}
		}
		types := attrs.Strings("type")
		if len(types) == 0 && len(attrs.Strings("name")) == 0 {
			if m, ok := md.(*metadata.MethodMetadata); ok && m.ReturnType != "" {
				types = []string{m.ReturnType}
			}
		}
		if len(types) == 0 {
			continue
		}
		for _, name := range ctx.Registry.Names() {
			def, _ := ctx.Registry.Get(name)
			for _, typ := range types {
				if def != nil && def.TypeName == typ {
					return false
				}
			}
		}
	}
	return true
}
