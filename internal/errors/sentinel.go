package errors

import "errors"

// Sentinel errors for known conditions.
var (
	// ErrValidation indicates accumulated problems or an invalid input document.
	ErrValidation = errors.New("validation error")

	// ErrNotFound indicates a type, resource, or file was not found.
	ErrNotFound = errors.New("not found")

	// ErrUnresolvable indicates a type name could not be resolved during import processing.
	ErrUnresolvable = errors.New("unresolvable type")

	// ErrNameClash indicates a definition name is already taken and overriding is disabled.
	ErrNameClash = errors.New("definition name clash")

	// ErrInvalidImport indicates a malformed import or scan declaration.
	ErrInvalidImport = errors.New("invalid import declaration")

	// ErrInstantiation indicates a selector, registrar, group, filter, or condition
	// could not be constructed.
	ErrInstantiation = errors.New("instantiation failed")

	// ErrCircularImport indicates an import cycle between configuration sources.
	ErrCircularImport = errors.New("circular import")
)
