package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opmodel/confgraph/internal/cmdtypes"
	"github.com/opmodel/confgraph/internal/cmdutil"
	"github.com/opmodel/confgraph/internal/output"
	"github.com/opmodel/confgraph/internal/problems"
)

// NewVetCmd creates the vet command.
func NewVetCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	var profiles []string

	c := &cobra.Command{
		Use:   "vet [manifest]",
		Short: "Check a project for configuration problems",
		Long: `Check a project for configuration problems.

This command resolves the project and reports every problem found: circular
imports, final configuration types, producer methods that cannot be
intercepted, void producers and overloaded producer names. No definitions are
printed. The command exits with code 2 when an error-level problem is found;
warnings alone do not fail it.

Arguments:
  manifest    Manifest file or project directory (default: current directory)

Examples:
  # Vet the project in the current directory
  confgraph vet

  # Vet with an extra profile
  confgraph vet ./shop --with-profile prod`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runVet(c, args, cfg, profiles)
		},
	}

	c.Flags().StringArrayVar(&profiles, "with-profile", nil,
		"Additional profile to activate for this run (can be repeated)")
	return c
}

func runVet(c *cobra.Command, args []string, cfg *cmdtypes.GlobalConfig, profiles []string) error {
	result, err := cmdutil.RunEngine(c.Context(), cmdutil.RunEngineOpts{
		Args:     args,
		Config:   cfg,
		Profiles: profiles,
	})
	if err != nil {
		return err
	}

	name := result.Project.Name()
	cmdutil.PrintProblems(name, result.Problems)

	var errs, warnings int
	for _, p := range result.Problems {
		if p.Severity == problems.SeverityError {
			errs++
		} else {
			warnings++
		}
	}
	if errs > 0 {
		return &cmdtypes.ExitError{
			Code:    cmdtypes.ExitValidationError,
			Err:     fmt.Errorf("%d problem(s) found in %s", errs, name),
			Printed: true,
		}
	}

	msg := fmt.Sprintf("%s: %d units, %d definitions", name, len(result.Units), result.Registry.Count())
	if warnings > 0 {
		msg += fmt.Sprintf(", %d warning(s)", warnings)
	}
	fmt.Fprintln(c.OutOrStdout(), output.FormatCheckmark(msg))
	return nil
}
