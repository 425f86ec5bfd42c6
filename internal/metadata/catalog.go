package metadata

import (
	"fmt"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	oerrors "github.com/opmodel/confgraph/internal/errors"
)

// Reader returns the metadata-only view of a type. Methods keep the order in
// which they were declared.
type Reader interface {
	Read(typeName string) (*TypeMetadata, error)
}

// Lister enumerates the types of a package and its sub-packages.
type Lister interface {
	Types(pkgPrefix string) []*TypeMetadata
}

// Document is the on-disk form of a catalog file.
type Document struct {
	Types []*TypeMetadata `json:"types" yaml:"types"`
}

// Catalog is an in-memory metadata source built from catalog documents.
type Catalog struct {
	mu    sync.RWMutex
	types map[string]*TypeMetadata
	order []string
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{types: make(map[string]*TypeMetadata)}
}

// Add registers type descriptions. A name described twice is a validation error.
func (c *Catalog) Add(types ...*TypeMetadata) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, md := range types {
		if md == nil {
			continue
		}
		if md.Name == "" {
			return oerrors.NewValidationError("type without a name", md.Resource, "name", "")
		}
		if existing, ok := c.types[md.Name]; ok {
			return oerrors.NewValidationError(
				fmt.Sprintf("type %s is already described by %s", md.Name, existing.Resource),
				md.Resource, "name", "")
		}
		for _, m := range md.Methods {
			if m.DeclaringType == "" {
				m.DeclaringType = md.Name
			}
		}
		c.types[md.Name] = md
		c.order = append(c.order, md.Name)
	}
	return nil
}

// Read implements Reader.
func (c *Catalog) Read(typeName string) (*TypeMetadata, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	md, ok := c.types[typeName]
	if !ok {
		return nil, oerrors.NewNotFoundError(fmt.Sprintf("type %s is not in the catalog", typeName), "", "")
	}
	return md, nil
}

// Types implements Lister. Types come back in the order they were added.
func (c *Catalog) Types(pkgPrefix string) []*TypeMetadata {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []*TypeMetadata
	for _, name := range c.order {
		md := c.types[name]
		pkg := md.Package()
		if pkgPrefix == "" || pkg == pkgPrefix || strings.HasPrefix(pkg, pkgPrefix+"/") {
			out = append(out, md)
		}
	}
	return out
}

// Len returns the number of described types.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

// LoadYAML adds every type of a YAML catalog document.
func (c *Catalog) LoadYAML(resource string, data []byte) error {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return oerrors.NewValidationError(fmt.Sprintf("parsing catalog: %v", err), resource, "", "")
	}
	return c.addDocument(resource, &doc)
}

// LoadCUE adds every type of a CUE catalog document. The value must be concrete.
func (c *Catalog) LoadCUE(resource string, data []byte) error {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(resource))
	if err := v.Err(); err != nil {
		return oerrors.NewValidationError(fmt.Sprintf("compiling catalog: %v", err), resource, "", "")
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return oerrors.NewValidationError(fmt.Sprintf("catalog is not concrete: %v", err), resource, "", "")
	}
	var doc Document
	if err := v.Decode(&doc); err != nil {
		return oerrors.NewValidationError(fmt.Sprintf("decoding catalog: %v", err), resource, "", "")
	}
	return c.addDocument(resource, &doc)
}

// Load picks the document format from the resource extension.
func (c *Catalog) Load(resource string, data []byte) error {
	if strings.HasSuffix(resource, ".cue") {
		return c.LoadCUE(resource, data)
	}
	return c.LoadYAML(resource, data)
}

func (c *Catalog) addDocument(resource string, doc *Document) error {
	for _, md := range doc.Types {
		if md != nil && md.Resource == "" {
			md.Resource = resource
		}
	}
	return c.Add(doc.Types...)
}
