package parser

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/opmodel/confgraph/internal/env"
	oerrors "github.com/opmodel/confgraph/internal/errors"
	"github.com/opmodel/confgraph/internal/metadata"
	"github.com/opmodel/confgraph/internal/output"
	"github.com/opmodel/confgraph/internal/resource"
)

// propertySourceRegistry merges PropertySource declarations into the
// environment while parsing. Sources declared later take lower precedence,
// and a repeated name extends the earlier source.
type propertySourceRegistry struct {
	env    *env.Environment
	loader *resource.Loader
	names  []string
}

func (r *propertySourceRegistry) process(ctx context.Context, attrs metadata.Attributes, declaringType string) error {
	locations := attrs.Strings("value")
	if len(locations) == 0 {
		return oerrors.NewInvalidImportError("PropertySource declares no locations", declaringType)
	}
	name := attrs.String("name")
	ignoreNotFound := attrs.Bool("ignoreResourceNotFound", false)

	for _, location := range locations {
		src, err := r.load(ctx, name, location)
		if err != nil {
			if ignoreNotFound && (errors.Is(err, oerrors.ErrNotFound) || errors.Is(err, oerrors.ErrValidation)) {
				output.Info("property source location not resolvable", "location", location, "type", declaringType)
				continue
			}
			return err
		}
		if err := r.add(src); err != nil {
			return err
		}
	}
	return nil
}

func (r *propertySourceRegistry) load(ctx context.Context, name, location string) (env.PropertySource, error) {
	resolved, err := r.env.ResolvePlaceholders(location)
	if err != nil {
		return nil, err
	}
	if r.loader == nil {
		return nil, oerrors.NewNotFoundError(fmt.Sprintf("no resource loader for %s", resolved), location, "")
	}
	data, err := r.loader.Load(ctx, resolved)
	if err != nil {
		return nil, err
	}
	url := r.loader.Resolve(resolved)
	if name == "" {
		name = url
	}
	return env.LoadPropertySource(name, data, env.FormatFromLocation(url))
}

func (r *propertySourceRegistry) add(src env.PropertySource) error {
	name := src.Name()
	sources := r.env.Sources

	if slices.Contains(r.names, name) {
		if existing := sources.Get(name); existing != nil {
			if composite, ok := existing.(*env.CompositePropertySource); ok {
				composite.AddFirst(src)
				return nil
			}
			composite := env.NewCompositePropertySource(name)
			composite.Add(src)
			composite.Add(existing)
			return sources.Replace(name, composite)
		}
	}

	if len(r.names) == 0 {
		sources.AddLast(src)
	} else if err := sources.AddBefore(r.names[len(r.names)-1], src); err != nil {
		return err
	}
	r.names = append(r.names, name)
	output.Debug("added property source", "name", name)
	return nil
}
