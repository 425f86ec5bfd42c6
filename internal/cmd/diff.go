package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opmodel/confgraph/internal/cmdtypes"
	"github.com/opmodel/confgraph/internal/cmdutil"
	"github.com/opmodel/confgraph/internal/output"
)

// NewDiffCmd creates the diff command.
func NewDiffCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	var (
		rightProfiles []string
		rawFlag       bool
	)

	c := &cobra.Command{
		Use:   "diff <manifest> [other-manifest]",
		Short: "Compare the definitions of two builds",
		Long: `Compare the definitions of two builds.

The left side is the build of the first manifest. The right side is the build
of the second manifest, or of the first one with --right-profile applied on
top of the global profiles. Definitions are matched by name and compared field
by field.

Arguments:
  manifest          Manifest file or project directory of the left side
  other-manifest    Manifest of the right side (default: the left manifest)

Examples:
  # Compare two projects
  confgraph diff ./shop ./shop-next

  # Show what the prod profile changes
  confgraph diff ./shop --right-profile prod

  # Compare the full definition documents in one report
  confgraph diff ./shop --right-profile prod --raw`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(c *cobra.Command, args []string) error {
			return runDiff(c, args, cfg, rightProfiles, rawFlag)
		},
	}

	c.Flags().StringArrayVar(&rightProfiles, "right-profile", nil,
		"Profile to activate on the right side only (can be repeated)")
	c.Flags().BoolVar(&rawFlag, "raw", false,
		"Print a single YAML diff of both definition documents")
	return c
}

func runDiff(c *cobra.Command, args []string, cfg *cmdtypes.GlobalConfig, rightProfiles []string, raw bool) error {
	leftPath := args[0]
	rightPath := leftPath
	if len(args) > 1 {
		rightPath = args[1]
	}
	if rightPath == leftPath && len(rightProfiles) == 0 {
		return &cmdtypes.ExitError{
			Code: cmdtypes.ExitGeneralError,
			Err:  fmt.Errorf("nothing to compare: give a second manifest or --right-profile"),
		}
	}

	ctx := c.Context()
	fail := cfg.Settings.FailOnProblems
	left, err := cmdutil.RunEngine(ctx, cmdutil.RunEngineOpts{
		Args:           []string{leftPath},
		Config:         cfg,
		FailOnProblems: fail,
	})
	if err != nil {
		return err
	}
	right, err := cmdutil.RunEngine(ctx, cmdutil.RunEngineOpts{
		Args:           []string{rightPath},
		Config:         cfg,
		Profiles:       rightProfiles,
		FailOnProblems: fail,
	})
	if err != nil {
		return err
	}

	useColor := output.IsTTY()
	if raw {
		leftDoc, err := cmdutil.DefinitionsYAML(left.Registry)
		if err != nil {
			return &cmdtypes.ExitError{Code: cmdtypes.ExitGeneralError, Err: err}
		}
		rightDoc, err := cmdutil.DefinitionsYAML(right.Registry)
		if err != nil {
			return &cmdtypes.ExitError{Code: cmdtypes.ExitGeneralError, Err: err}
		}
		diff, err := output.DiffYAML(leftDoc, rightDoc, useColor)
		if err != nil {
			return &cmdtypes.ExitError{Code: cmdtypes.ExitGeneralError, Err: err}
		}
		if diff == "" {
			diff = "No changes detected."
		}
		fmt.Fprintln(c.OutOrStdout(), diff)
		return nil
	}

	result, err := cmdutil.CompareDefinitions(left.Registry, right.Registry, useColor)
	if err != nil {
		return &cmdtypes.ExitError{Code: cmdtypes.ExitGeneralError, Err: err}
	}
	fmt.Fprintln(c.OutOrStdout(), output.RenderDiff(result))
	output.Info(result.Summary(), "left", left.Project.Location, "right", right.Project.Location)
	return nil
}
