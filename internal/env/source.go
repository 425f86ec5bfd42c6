// Package env holds the ordered property sources and active profiles that
// conditions and placeholder resolution read from.
package env

import (
	"fmt"
	"sort"
	"strings"
)

// PropertySource is a named set of properties.
type PropertySource interface {
	Name() string
	Property(key string) (any, bool)
	Names() []string
}

// MapPropertySource is a PropertySource backed by a map.
type MapPropertySource struct {
	name   string
	values map[string]any
}

// NewMapPropertySource creates a map-backed source. values may be nil.
func NewMapPropertySource(name string, values map[string]any) *MapPropertySource {
	if values == nil {
		values = map[string]any{}
	}
	return &MapPropertySource{name: name, values: values}
}

func (m *MapPropertySource) Name() string { return m.name }

func (m *MapPropertySource) Property(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Names returns the property keys sorted.
func (m *MapPropertySource) Names() []string {
	out := make([]string, 0, len(m.values))
	for k := range m.values {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Set stores a property.
func (m *MapPropertySource) Set(key string, value any) {
	m.values[key] = value
}

// CompositePropertySource combines sources under one name. The first member
// holding a key wins.
type CompositePropertySource struct {
	name    string
	members []PropertySource
}

// NewCompositePropertySource creates an empty composite.
func NewCompositePropertySource(name string) *CompositePropertySource {
	return &CompositePropertySource{name: name}
}

func (c *CompositePropertySource) Name() string { return c.name }

// Add appends a member.
func (c *CompositePropertySource) Add(src PropertySource) {
	c.members = append(c.members, src)
}

// AddFirst prepends a member.
func (c *CompositePropertySource) AddFirst(src PropertySource) {
	c.members = append([]PropertySource{src}, c.members...)
}

// Members returns the member sources in lookup order.
func (c *CompositePropertySource) Members() []PropertySource {
	return append([]PropertySource(nil), c.members...)
}

func (c *CompositePropertySource) Property(key string) (any, bool) {
	for _, m := range c.members {
		if v, ok := m.Property(key); ok {
			return v, true
		}
	}
	return nil, false
}

// Names returns the union of member keys, sorted.
func (c *CompositePropertySource) Names() []string {
	seen := map[string]bool{}
	var out []string
	for _, m := range c.members {
		for _, n := range m.Names() {
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	sort.Strings(out)
	return out
}

// PropertySources is an ordered list of sources with unique names. Earlier
// sources take precedence.
type PropertySources struct {
	list []PropertySource
}

// Len returns the number of sources.
func (p *PropertySources) Len() int { return len(p.list) }

// All returns the sources in precedence order.
func (p *PropertySources) All() []PropertySource {
	return append([]PropertySource(nil), p.list...)
}

// Names returns the source names in precedence order.
func (p *PropertySources) Names() []string {
	out := make([]string, len(p.list))
	for i, s := range p.list {
		out[i] = s.Name()
	}
	return out
}

// Get returns the source with the given name.
func (p *PropertySources) Get(name string) PropertySource {
	if i := p.index(name); i >= 0 {
		return p.list[i]
	}
	return nil
}

// Contains reports whether a source with the given name exists.
func (p *PropertySources) Contains(name string) bool {
	return p.index(name) >= 0
}

// AddFirst adds src with the highest precedence, replacing a same-named source.
func (p *PropertySources) AddFirst(src PropertySource) {
	p.Remove(src.Name())
	p.list = append([]PropertySource{src}, p.list...)
}

// AddLast adds src with the lowest precedence, replacing a same-named source.
func (p *PropertySources) AddLast(src PropertySource) {
	p.Remove(src.Name())
	p.list = append(p.list, src)
}

// AddBefore inserts src immediately ahead of the source named relative.
func (p *PropertySources) AddBefore(relative string, src PropertySource) error {
	if relative == src.Name() {
		return fmt.Errorf("property source %q cannot be added relative to itself", relative)
	}
	p.Remove(src.Name())
	i := p.index(relative)
	if i < 0 {
		return fmt.Errorf("property source %q does not exist", relative)
	}
	p.list = append(p.list[:i], append([]PropertySource{src}, p.list[i:]...)...)
	return nil
}

// Replace swaps the source named name for src, keeping its position.
func (p *PropertySources) Replace(name string, src PropertySource) error {
	i := p.index(name)
	if i < 0 {
		return fmt.Errorf("property source %q does not exist", name)
	}
	p.list[i] = src
	return nil
}

// Remove deletes and returns the source with the given name.
func (p *PropertySources) Remove(name string) PropertySource {
	i := p.index(name)
	if i < 0 {
		return nil
	}
	src := p.list[i]
	p.list = append(p.list[:i], p.list[i+1:]...)
	return src
}

func (p *PropertySources) index(name string) int {
	for i, s := range p.list {
		if s.Name() == name {
			return i
		}
	}
	return -1
}

// Stringify renders a property value. Lists are joined with commas.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []string:
		return strings.Join(t, ",")
	case []any:
		parts := make([]string, len(t))
		for i, item := range t {
			parts[i] = Stringify(item)
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(v)
	}
}
