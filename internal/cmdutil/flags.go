// Package cmdutil provides shared command utilities for the resolve, build,
// vet and diff commands. It centralizes project loading, engine
// orchestration, and report formatting helpers.
package cmdutil

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opmodel/confgraph/internal/output"
)

// EngineFlags holds flags common to commands that run the engine
// (resolve, build, vet, diff).
type EngineFlags struct {
	// Profiles are activated on top of the resolved global profiles.
	Profiles []string
	// NoFail reports problems without failing the run.
	NoFail bool
}

// AddTo registers the engine flags on the given cobra command.
func (f *EngineFlags) AddTo(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&f.Profiles, "with-profile", nil,
		"Additional profile to activate for this run (can be repeated)")
	cmd.Flags().BoolVar(&f.NoFail, "no-fail", false,
		"Report problems without failing the run")
}

// FailOnProblems returns the fail setting for a run: NoFail wins over the
// resolved configuration value.
func (f *EngineFlags) FailOnProblems(resolved bool) bool {
	if f.NoFail {
		return false
	}
	return resolved
}

// ResolveManifestPath returns the manifest path from command args,
// defaulting to the current directory.
func ResolveManifestPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

// ParseFormat validates a format string against the formats a command
// supports.
func ParseFormat(s string, allowed ...output.OutputFormat) (output.OutputFormat, error) {
	format := output.ParseOutputFormat(s)
	names := make([]string, 0, len(allowed))
	for _, a := range allowed {
		if strings.EqualFold(s, a.String()) || (s == "yml" && a == output.FormatYAML) {
			return format, nil
		}
		names = append(names, a.String())
	}
	return "", fmt.Errorf("invalid output format %q (valid: %s)", s, strings.Join(names, ", "))
}
