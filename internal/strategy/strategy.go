// Package strategy constructs selectors, registrars, groups, filters and
// conditions from loaded classes. Constructors may only ask for a closed set
// of capabilities.
package strategy

import (
	"fmt"

	"github.com/opmodel/confgraph/internal/env"
	oerrors "github.com/opmodel/confgraph/internal/errors"
	"github.com/opmodel/confgraph/internal/metadata"
	"github.com/opmodel/confgraph/internal/registry"
	"github.com/opmodel/confgraph/internal/resource"
)

// Capabilities are the collaborators a constructor may receive.
type Capabilities struct {
	Environment *env.Environment
	Resources   *resource.Loader
	Registry    registry.Registry
	Classes     *metadata.Classes
}

// EnvironmentAware instances receive the environment after construction.
type EnvironmentAware interface {
	SetEnvironment(e *env.Environment)
}

// ResourceLoaderAware instances receive the resource loader after construction.
type ResourceLoaderAware interface {
	SetResourceLoader(l *resource.Loader)
}

// RegistryAware instances receive the definition registry after construction.
type RegistryAware interface {
	SetRegistry(r registry.Registry)
}

// ClassesAware instances receive the loaded classes after construction.
type ClassesAware interface {
	SetClasses(c *metadata.Classes)
}

// Instantiate constructs class and asserts the result to T. kind names the
// expected role ("import selector", "registrar", ...) for error messages.
func Instantiate[T any](class *metadata.Class, caps Capabilities, kind string) (T, error) {
	var zero T
	if class.New == nil {
		return zero, oerrors.NewInstantiationError(class.Name(), kind, fmt.Errorf("no constructor"))
	}

	args, err := arguments(class.Params, caps)
	if err != nil {
		return zero, oerrors.NewInstantiationError(class.Name(), kind, err)
	}
	instance, err := class.New(args...)
	if err != nil {
		return zero, oerrors.NewInstantiationError(class.Name(), kind, err)
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, oerrors.NewInstantiationError(class.Name(), kind,
			fmt.Errorf("%T does not implement the %s capability", instance, kind))
	}
	inject(instance, caps)
	return typed, nil
}

// InstantiateByName loads the class called name and instantiates it.
func InstantiateByName[T any](name string, caps Capabilities, kind string) (T, error) {
	var zero T
	class, ok := caps.Classes.Load(name)
	if !ok {
		return zero, oerrors.NewUnresolvableError(name, "", fmt.Errorf("no loaded class for %s %s", kind, name))
	}
	return Instantiate[T](class, caps, kind)
}

func arguments(params []metadata.Capability, caps Capabilities) ([]any, error) {
	seen := map[metadata.Capability]bool{}
	args := make([]any, 0, len(params))
	for _, p := range params {
		if seen[p] {
			return nil, fmt.Errorf("constructor asks for %s twice", p)
		}
		seen[p] = true

		switch p {
		case metadata.CapEnvironment:
			if caps.Environment == nil {
				return nil, fmt.Errorf("%s is not available", p)
			}
			args = append(args, caps.Environment)
		case metadata.CapResourceLoader:
			if caps.Resources == nil {
				return nil, fmt.Errorf("%s is not available", p)
			}
			args = append(args, caps.Resources)
		case metadata.CapRegistry:
			if caps.Registry == nil {
				return nil, fmt.Errorf("%s is not available", p)
			}
			args = append(args, caps.Registry)
		case metadata.CapClasses:
			if caps.Classes == nil {
				return nil, fmt.Errorf("%s is not available", p)
			}
			args = append(args, caps.Classes)
		default:
			return nil, fmt.Errorf("unsupported constructor parameter %s", p)
		}
	}
	return args, nil
}

func inject(instance any, caps Capabilities) {
	if a, ok := instance.(EnvironmentAware); ok && caps.Environment != nil {
		a.SetEnvironment(caps.Environment)
	}
	if a, ok := instance.(ResourceLoaderAware); ok && caps.Resources != nil {
		a.SetResourceLoader(caps.Resources)
	}
	if a, ok := instance.(RegistryAware); ok && caps.Registry != nil {
		a.SetRegistry(caps.Registry)
	}
	if a, ok := instance.(ClassesAware); ok && caps.Classes != nil {
		a.SetClasses(caps.Classes)
	}
}
