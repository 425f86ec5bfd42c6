package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opmodel/confgraph/internal/cmdtypes"
	"github.com/opmodel/confgraph/internal/cmdutil"
	"github.com/opmodel/confgraph/internal/output"
)

// NewBuildCmd creates the build command.
func NewBuildCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	var ef cmdutil.EngineFlags

	c := &cobra.Command{
		Use:   "build [manifest]",
		Short: "Build the definition registry",
		Long: `Build the definition registry of a project.

This command resolves the project like resolve does and prints every
definition registered along the way: the primaries, imported units, producer
methods, scanned components and definitions loaded from resources or
registrars. The tree format groups definitions by kind.

Arguments:
  manifest    Manifest file or project directory (default: current directory)

Examples:
  # Print the definitions as YAML
  confgraph build -o yaml

  # Print a table of definitions with the prod profile active
  confgraph build ./shop --profile prod -o table`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runBuild(c, args, cfg, &ef)
		},
	}

	ef.AddTo(c)
	return c
}

func runBuild(c *cobra.Command, args []string, cfg *cmdtypes.GlobalConfig, ef *cmdutil.EngineFlags) error {
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

	if err := cmdutil.WriteDefinitions(c.OutOrStdout(), format, result.Registry); err != nil {
		return &cmdtypes.ExitError{Code: cmdtypes.ExitGeneralError, Err: fmt.Errorf("writing definitions: %w", err)}
	}
	output.UnitLogger(result.Project.Name()).Info(fmt.Sprintf("built %d definitions from %d units", result.Registry.Count(), len(result.Units)))
	return nil
}
