package config

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opmodel/confgraph/internal/cmdtypes"
	"github.com/opmodel/confgraph/internal/config"
	"github.com/opmodel/confgraph/internal/output"
)

// NewConfigVetCmd creates the config vet command.
func NewConfigVetCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "vet",
		Short: "Validate the confgraph configuration file",
		Long: `Validate the confgraph configuration file against the internal schema.

The command validates the configuration file at ~/.confgraph/config.yaml by
default. Use --config flag to specify a different location.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runVet(c, cfg)
		},
	}
}

func runVet(c *cobra.Command, cfg *cmdtypes.GlobalConfig) error {
	path, err := configFilePath(cfg)
	if err != nil {
		return &cmdtypes.ExitError{Code: cmdtypes.ExitGeneralError, Err: err}
	}

	exists, err := config.ConfigFileExists(path)
	if err != nil {
		return &cmdtypes.ExitError{Code: cmdtypes.ExitGeneralError, Err: fmt.Errorf("checking config file: %w", err)}
	}
	if !exists {
		return &cmdtypes.ExitError{
			Code: cmdtypes.ExitNotFound,
			Err:  fmt.Errorf("config file not found: %s", path),
		}
	}

	validator, err := config.NewValidator()
	if err != nil {
		return &cmdtypes.ExitError{Code: cmdtypes.ExitGeneralError, Err: fmt.Errorf("creating validator: %w", err)}
	}

	if err := validator.ValidateFile(path); err != nil {
		var validationErrs config.ValidationErrors
		if errors.As(err, &validationErrs) {
			output.Error("config validation failed", "file", path)
			for _, e := range validationErrs {
				fmt.Fprintf(c.ErrOrStderr(), "  %s: %s\n", e.Field, e.Message)
			}
			return &cmdtypes.ExitError{Code: cmdtypes.ExitValidationError, Err: err, Printed: true}
		}
		return &cmdtypes.ExitError{Code: cmdtypes.ExitValidationError, Err: fmt.Errorf("validating config: %w", err)}
	}

	fmt.Fprintf(c.OutOrStdout(), "%s\n", output.FormatCheckmark("Config file is valid: "+path))
	return nil
}
