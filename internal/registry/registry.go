package registry

import (
	"fmt"
	"sort"
	"sync"

	oerrors "github.com/opmodel/confgraph/internal/errors"
	"github.com/opmodel/confgraph/internal/output"
)

// Registry is the definition store the engine writes into.
type Registry interface {
	Register(name string, def *Definition) error
	Remove(name string) error
	Contains(name string) bool
	Get(name string) (*Definition, bool)
	Names() []string
	Alias(name, alias string) error
	Aliases(name string) []string
	AllowOverriding() bool
	Count() int
}

// MapRegistry keeps definitions in registration order. Overriding a name
// keeps its original position.
type MapRegistry struct {
	mu              sync.RWMutex
	defs            map[string]*Definition
	names           []string
	aliases         map[string]string
	allowOverriding bool
}

// NewMapRegistry creates an empty registry.
func NewMapRegistry(allowOverriding bool) *MapRegistry {
	return &MapRegistry{
		defs:            make(map[string]*Definition),
		aliases:         make(map[string]string),
		allowOverriding: allowOverriding,
	}
}

func (r *MapRegistry) AllowOverriding() bool { return r.allowOverriding }

// Register stores def under name. An existing name is a name clash unless
// overriding is allowed.
func (r *MapRegistry) Register(name string, def *Definition) error {
	if name == "" {
		return oerrors.NewValidationError("definition name must not be empty", def.Origin, "name", "")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.defs[name]; ok {
		if !r.allowOverriding {
			return oerrors.NewNameClashError(name, def.Describe(), existing.Describe())
		}
		output.Debug("overriding definition", "name", name, "old", existing.Describe(), "new", def.Describe())
		r.defs[name] = def
		return nil
	}
	delete(r.aliases, name)
	r.defs[name] = def
	r.names = append(r.names, name)
	return nil
}

// Remove deletes the definition and any alias pointing at it.
func (r *MapRegistry) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.defs[name]; !ok {
		return oerrors.NewNotFoundError(fmt.Sprintf("no definition named %q", name), "", "")
	}
	delete(r.defs, name)
	for i, n := range r.names {
		if n == name {
			r.names = append(r.names[:i], r.names[i+1:]...)
			break
		}
	}
	for alias, target := range r.aliases {
		if target == name {
			delete(r.aliases, alias)
		}
	}
	return nil
}

func (r *MapRegistry) Contains(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.defs[name]
	return ok
}

func (r *MapRegistry) Get(name string) (*Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[name]
	return def, ok
}

// Names returns definition names in registration order.
func (r *MapRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.names...)
}

func (r *MapRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.names)
}

// Alias registers alias for name. An alias equal to its name is ignored.
func (r *MapRegistry) Alias(name, alias string) error {
	if alias == name {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.defs[alias]; ok {
		return oerrors.NewNameClashError(alias, "alias for "+name, "a definition of the same name")
	}
	if target, ok := r.aliases[alias]; ok && target != name && !r.allowOverriding {
		return oerrors.NewNameClashError(alias, "alias for "+name, "alias for "+target)
	}
	r.aliases[alias] = name
	return nil
}

// Aliases returns the aliases of name, sorted.
func (r *MapRegistry) Aliases(name string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for alias, target := range r.aliases {
		if target == name {
			out = append(out, alias)
		}
	}
	sort.Strings(out)
	return out
}

// Canonical resolves an alias to its definition name.
func (r *MapRegistry) Canonical(name string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if target, ok := r.aliases[name]; ok {
		return target
	}
	return name
}

// RegisterHolder registers a holder's definition and aliases.
func RegisterHolder(reg Registry, h Holder) error {
	if err := reg.Register(h.Name, h.Definition); err != nil {
		return err
	}
	for _, alias := range h.Aliases {
		if err := reg.Alias(h.Name, alias); err != nil {
			return err
		}
	}
	return nil
}
