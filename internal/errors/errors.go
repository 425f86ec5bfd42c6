// Package errors provides sentinel errors and structured error details for confgraph.
package errors

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
)

// DetailError captures structured error information.
type DetailError struct {
	// Type is the error category (required).
	Type string

	// Message is the specific description (required).
	Message string

	// Location is the offending source: a type name and/or its origin resource (optional).
	Location string

	// Field is the definition or attribute name involved (optional).
	Field string

	// Context contains additional key-value context (optional).
	Context map[string]string

	// Hint provides actionable guidance (optional).
	Hint string

	// Cause is the underlying error (optional).
	Cause error
}

// Error implements the error interface.
func (e *DetailError) Error() string {
	var b strings.Builder

	b.WriteString("Error: ")
	b.WriteString(e.Type)
	b.WriteString("\n")

	if e.Location != "" {
		b.WriteString("  Location: ")
		b.WriteString(e.Location)
		b.WriteString("\n")
	}
	if e.Field != "" {
		b.WriteString("  Field: ")
		b.WriteString(e.Field)
		b.WriteString("\n")
	}

	keys := make([]string, 0, len(e.Context))
	for k := range e.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString("  ")
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(e.Context[k])
		b.WriteString("\n")
	}

	b.WriteString("\n  ")
	b.WriteString(e.Message)
	b.WriteString("\n")

	if e.Hint != "" {
		b.WriteString("\nHint: ")
		b.WriteString(e.Hint)
		b.WriteString("\n")
	}

	return b.String()
}

// Unwrap returns the underlying error.
func (e *DetailError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a validation error with details.
func NewValidationError(message, location, field, hint string) error {
	return &DetailError{
		Type:     "validation failed",
		Message:  message,
		Location: location,
		Field:    field,
		Hint:     hint,
		Cause:    ErrValidation,
	}
}

// NewNotFoundError creates a not found error with details.
func NewNotFoundError(message, location, hint string) error {
	return &DetailError{
		Type:     "not found",
		Message:  message,
		Location: location,
		Hint:     hint,
		Cause:    ErrNotFound,
	}
}

// NewUnresolvableError reports a type name that cannot be resolved while
// processing the imports of location.
func NewUnresolvableError(typeName, location string, cause error) error {
	ctx := map[string]string{"Type": typeName}
	if cause != nil {
		ctx["Cause"] = cause.Error()
	}
	return &DetailError{
		Type:     "unresolvable type",
		Message:  fmt.Sprintf("type %q could not be resolved", typeName),
		Location: location,
		Context:  ctx,
		Hint:     "Check that the type is declared in a catalog or registered as a loaded class",
		Cause:    ErrUnresolvable,
	}
}

// NewNameClashError reports a definition name that is already registered
// while the registry forbids overriding.
func NewNameClashError(name, location, existing string) error {
	return &DetailError{
		Type:     "definition name clash",
		Message:  fmt.Sprintf("definition %q is already registered by %s", name, existing),
		Location: location,
		Field:    name,
		Hint:     "Rename one of the definitions or enable allowOverriding",
		Cause:    ErrNameClash,
	}
}

// NewInvalidImportError reports a malformed import or scan declaration.
func NewInvalidImportError(message, location string) error {
	return &DetailError{
		Type:     "invalid import declaration",
		Message:  message,
		Location: location,
		Cause:    ErrInvalidImport,
	}
}

// NewInstantiationError reports a selector, registrar, group, filter, or
// condition that could not be constructed.
func NewInstantiationError(typeName, kind string, cause error) error {
	msg := fmt.Sprintf("cannot instantiate %s %q", kind, typeName)
	if cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, cause)
	}
	return &DetailError{
		Type:     "instantiation failed",
		Message:  msg,
		Location: typeName,
		Cause:    ErrInstantiation,
	}
}

// WithSource attaches the configuration source being processed to err.
// A DetailError keeps its shape and records the source under the "Source"
// context key unless it already names a source. Other errors are wrapped.
func WithSource(err error, source string) error {
	if err == nil || source == "" {
		return err
	}
	var detail *DetailError
	if !stderrors.As(err, &detail) {
		return fmt.Errorf("processing configuration source %s: %w", source, err)
	}
	if detail.Location == source {
		return err
	}
	if _, ok := detail.Context["Source"]; ok {
		return err
	}
	if detail.Context == nil {
		detail.Context = map[string]string{}
	}
	detail.Context["Source"] = source
	return err
}

// Wrap wraps an error with a sentinel error type.
func Wrap(sentinel error, message string) error {
	return fmt.Errorf("%s: %w", message, sentinel)
}
