// Package cmdtypes provides shared types for the cmd package and cmdutil.
// It is separate from internal/cmd to avoid import cycles between internal/cmd
// and internal/cmdutil.
package cmdtypes

import (
	"errors"

	"github.com/opmodel/confgraph/internal/config"
	oerrors "github.com/opmodel/confgraph/internal/errors"
)

// GlobalConfig holds CLI-wide configuration resolved during PersistentPreRunE.
// It is populated once at startup and passed explicitly into every sub-command
// constructor.
type GlobalConfig struct {
	Config     *config.Config
	Settings   config.Settings
	ConfigPath string // resolved --config path
	Verbose    bool
}

// Exit codes.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError = 1

	// ExitValidationError indicates problems were found or an input document is invalid.
	ExitValidationError = 2

	// ExitResolutionError indicates a type or import could not be resolved.
	ExitResolutionError = 3

	// ExitNameClash indicates a definition name was registered twice.
	ExitNameClash = 4

	// ExitNotFound indicates a manifest, catalog, or resource was not found.
	ExitNotFound = 5
)

// ExitCodeName returns the name of the exit code.
func ExitCodeName(code int) string {
	switch code {
	case ExitSuccess:
		return "Success"
	case ExitGeneralError:
		return "General Error"
	case ExitValidationError:
		return "Validation Error"
	case ExitResolutionError:
		return "Resolution Error"
	case ExitNameClash:
		return "Name Clash"
	case ExitNotFound:
		return "Not Found"
	default:
		return "Unknown"
	}
}

// ExitError wraps an error with an exit code.
type ExitError struct {
	Err  error
	Code int
	// Printed is set when the error was already reported to the user.
	Printed bool
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the wrapped error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCodeFromError determines the appropriate exit code for an error.
func ExitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	switch {
	case errors.Is(err, oerrors.ErrValidation):
		return ExitValidationError
	case errors.Is(err, oerrors.ErrUnresolvable),
		errors.Is(err, oerrors.ErrInvalidImport),
		errors.Is(err, oerrors.ErrInstantiation),
		errors.Is(err, oerrors.ErrCircularImport):
		return ExitResolutionError
	case errors.Is(err, oerrors.ErrNameClash):
		return ExitNameClash
	case errors.Is(err, oerrors.ErrNotFound):
		return ExitNotFound
	default:
		return ExitGeneralError
	}
}
