package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opmodel/confgraph/internal/cmdtypes"
	"github.com/opmodel/confgraph/internal/cmdutil"
	"github.com/opmodel/confgraph/internal/output"
)

// NewResolveCmd creates the resolve command.
func NewResolveCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	var ef cmdutil.EngineFlags

	c := &cobra.Command{
		Use:   "resolve [manifest]",
		Short: "Resolve configuration units",
		Long: `Resolve the configuration units of a project.

This command loads the project manifest, resolves every primary type and the
units it imports, and prints the resulting units. The tree format shows the
import graph with the producer methods of each unit.

Arguments:
  manifest    Manifest file or project directory (default: current directory)

Examples:
  # Show the import graph of the project in the current directory
  confgraph resolve

  # Resolve with the dev profile and print units as YAML
  confgraph resolve ./shop --profile dev -o yaml

  # List units even when problems are found
  confgraph resolve ./shop -o table --no-fail`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runResolve(c, args, cfg, &ef)
		},
	}

	ef.AddTo(c)
	return c
}

func runResolve(c *cobra.Command, args []string, cfg *cmdtypes.GlobalConfig, ef *cmdutil.EngineFlags) error {
	format, err := cmdutil.ParseFormat(cfg.Settings.Output,
		output.FormatTree, output.FormatTable, output.FormatYAML, output.FormatJSON)
	if err != nil {
		return &cmdtypes.ExitError{Code: cmdtypes.ExitGeneralError, Err: err}
	}

	result, err := cmdutil.RunEngine(c.Context(), cmdutil.RunEngineOpts{
		Args:           args,
		Config:         cfg,
		Profiles:       ef.Profiles,
		FailOnProblems: ef.FailOnProblems(cfg.Settings.FailOnProblems),
	})
	if err != nil {
		return err
	}

	cmdutil.PrintProblems(result.Project.Name(), result.Problems)

	if err := cmdutil.WriteUnits(c.OutOrStdout(), format, result.Units); err != nil {
		return &cmdtypes.ExitError{Code: cmdtypes.ExitGeneralError, Err: fmt.Errorf("writing units: %w", err)}
	}
	return nil
}
