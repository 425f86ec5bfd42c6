package cmdutil

import (
	"context"
	"errors"
	"fmt"

	"github.com/viant/afs"

	"github.com/opmodel/confgraph/internal/bootstrap"
	"github.com/opmodel/confgraph/internal/cmdtypes"
	oerrors "github.com/opmodel/confgraph/internal/errors"
	"github.com/opmodel/confgraph/internal/output"
	"github.com/opmodel/confgraph/internal/project"
)

// RunEngineOpts holds the inputs for RunEngine.
type RunEngineOpts struct {
	// Args from the cobra command (first arg is the manifest path).
	Args []string
	// Config is the fully loaded global configuration.
	Config *cmdtypes.GlobalConfig
	// FS reads the manifest, catalogs and resources. Nil uses a default service.
	FS afs.Service
	// Profiles are activated on top of the resolved global profiles.
	Profiles []string
	// FailOnProblems turns error problems into a failed run.
	FailOnProblems bool
}

// EngineResult is a processed project.
type EngineResult struct {
	Project *project.Project
	*bootstrap.Result
}

// RunEngine executes the common preamble shared by resolve, build, vet and
// diff: it loads the project, assembles bootstrap options from the resolved
// settings and processes the registry.
//
// On success it returns the EngineResult. On failure it returns an
// *ExitError with the appropriate exit code and Printed flag.
func RunEngine(ctx context.Context, opts RunEngineOpts) (*EngineResult, error) {
	if opts.Config == nil {
		return nil, &cmdtypes.ExitError{Code: cmdtypes.ExitGeneralError, Err: fmt.Errorf("configuration not loaded")}
	}
	manifestPath := ResolveManifestPath(opts.Args)

	p, err := project.Load(ctx, opts.FS, manifestPath)
	if err != nil {
		PrintEngineError("loading project failed", err)
		return nil, exitError(err)
	}

	settings := opts.Config.Settings
	ps := project.Settings{
		Profiles:          append(append([]string(nil), settings.Profiles...), opts.Profiles...),
		FailOnProblems:    opts.FailOnProblems,
		SystemEnvironment: true,
	}
	if settings.Explicit("allowOverriding") {
		allow := settings.AllowOverriding
		ps.AllowOverriding = &allow
	}
	if opts.Config.Config != nil {
		ps.CacheTTL = opts.Config.Config.CacheTTL
	}

	output.Debug("running engine",
		"manifest", p.Location,
		"profiles", ps.Profiles,
		"fail-on-problems", ps.FailOnProblems,
	)

	bopts, err := p.Options(ctx, ps)
	if err != nil {
		PrintEngineError("preparing project failed", err)
		return nil, exitError(err)
	}

	var result *bootstrap.Result
	err = output.RunWithSpinner(ctx, fmt.Sprintf("Resolving %s", p.Name()), func() error {
		var perr error
		result, perr = bootstrap.New(bopts).Process(ctx)
		return perr
	})
	if err != nil {
		if result != nil && errors.Is(err, oerrors.ErrValidation) {
			PrintProblems(p.Name(), result.Problems)
			return nil, &cmdtypes.ExitError{
				Code:    cmdtypes.ExitValidationError,
				Err:     fmt.Errorf("%d problem(s) found in %s", countErrors(result.Problems), p.Name()),
				Printed: true,
			}
		}
		PrintEngineError("resolution failed", err)
		return nil, exitError(err)
	}

	output.UnitLogger(p.Name()).Debug("resolved",
		"units", len(result.Units),
		"definitions", result.Registry.Count(),
		"rounds", result.Rounds,
	)
	return &EngineResult{Project: p, Result: result}, nil
}

func exitError(err error) error {
	return &cmdtypes.ExitError{Code: cmdtypes.ExitCodeFromError(err), Err: err, Printed: true}
}
