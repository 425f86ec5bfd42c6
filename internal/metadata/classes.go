package metadata

import (
	"fmt"
	"sort"
	"sync"

	oerrors "github.com/opmodel/confgraph/internal/errors"
)

// Capability is a constructor parameter the instantiation helper can supply.
type Capability int

const (
	CapEnvironment Capability = iota
	CapResourceLoader
	CapRegistry
	CapClasses
)

func (c Capability) String() string {
	switch c {
	case CapEnvironment:
		return "environment"
	case CapResourceLoader:
		return "resource-loader"
	case CapRegistry:
		return "registry"
	case CapClasses:
		return "classes"
	default:
		return fmt.Sprintf("capability(%d)", int(c))
	}
}

// Class is a loaded type: its metadata plus a constructor. Loaded metadata
// lists methods sorted by name.
type Class struct {
	Metadata *TypeMetadata
	Params   []Capability
	New      func(args ...any) (any, error)
}

// Name returns the class's type name.
func (c *Class) Name() string { return c.Metadata.Name }

// Classes holds the loaded types known to the process.
type Classes struct {
	mu      sync.RWMutex
	classes map[string]*Class
	order   []string
}

// NewClasses creates an empty class registry.
func NewClasses() *Classes {
	return &Classes{classes: make(map[string]*Class)}
}

// Register adds a loaded type. The stored metadata is a copy whose methods
// are sorted by name.
func (c *Classes) Register(class *Class) error {
	if class == nil || class.Metadata == nil || class.Metadata.Name == "" {
		return oerrors.NewValidationError("class without metadata", "", "name", "")
	}
	md := class.Metadata.Clone()
	for _, m := range md.Methods {
		if m.DeclaringType == "" {
			m.DeclaringType = md.Name
		}
	}
	sort.SliceStable(md.Methods, func(i, j int) bool {
		return md.Methods[i].Name < md.Methods[j].Name
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.classes[md.Name]; !ok {
		c.order = append(c.order, md.Name)
	}
	c.classes[md.Name] = &Class{Metadata: md, Params: class.Params, New: class.New}
	return nil
}

// MustRegister registers classes and panics on invalid input.
func (c *Classes) MustRegister(classes ...*Class) *Classes {
	for _, class := range classes {
		if err := c.Register(class); err != nil {
			panic(err)
		}
	}
	return c
}

// Load returns the loaded type for name.
func (c *Classes) Load(name string) (*Class, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	class, ok := c.classes[name]
	return class, ok
}

// Names returns the registered type names in registration order.
func (c *Classes) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.order...)
}
