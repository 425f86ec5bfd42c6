// Package cmd provides CLI command implementations.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/opmodel/confgraph/internal/cmd/config"
	"github.com/opmodel/confgraph/internal/cmdtypes"
	cfgpkg "github.com/opmodel/confgraph/internal/config"
	"github.com/opmodel/confgraph/internal/output"
	"github.com/opmodel/confgraph/internal/version"
)

// rootFlags holds the global flag values.
type rootFlags struct {
	config          string
	verbose         bool
	output          string
	profiles        []string
	allowOverriding bool
	timestamps      bool
}

// NewRootCmd creates the root command for the confgraph CLI.
func NewRootCmd() *cobra.Command {
	var flags rootFlags
	// Populated in PersistentPreRunE, read by the subcommands at run time.
	cfg := &cmdtypes.GlobalConfig{}

	rootCmd := &cobra.Command{
		Use:   "confgraph",
		Short: "Configuration graph resolver",
		Long: `confgraph resolves configuration sources into component definitions.

Starting from the primary types of a project manifest, it follows imports,
selectors, registrars, component scans and definition resources, evaluates
conditions against the active profiles and properties, and reports the
resulting definitions together with any structural problems.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initializeGlobals(cmd, &flags, cfg)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.config, "config", "c", "", "Path to config file (env: CONFGRAPH_CONFIG)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose output")
	pf.StringVarP(&flags.output, "output", "o", "", "Output format: yaml, json, table, tree (env: CONFGRAPH_OUTPUT)")
	pf.StringArrayVar(&flags.profiles, "profile", nil, "Profile to activate, can be repeated (env: CONFGRAPH_PROFILES)")
	pf.BoolVar(&flags.allowOverriding, "allow-overriding", true, "Allow a definition to replace an earlier one of the same name (env: CONFGRAPH_ALLOWOVERRIDING)")
	pf.BoolVar(&flags.timestamps, "timestamps", true, "Show timestamps in log output")

	rootCmd.AddCommand(
		NewResolveCmd(cfg),
		NewBuildCmd(cfg),
		NewVetCmd(cfg),
		NewDiffCmd(cfg),
		NewVersionCmd(cfg),
		config.NewConfigCmd(cfg),
	)

	return rootCmd
}

// initializeGlobals loads the config file, resolves settings and sets up
// logging.
func initializeGlobals(cmd *cobra.Command, flags *rootFlags, cfg *cmdtypes.GlobalConfig) error {
	pathResult, err := cfgpkg.ResolveConfigPath(cfgpkg.ResolveConfigPathOptions{FlagValue: flags.config})
	if err != nil {
		return &cmdtypes.ExitError{Code: cmdtypes.ExitGeneralError, Err: err}
	}

	// A broken config file must not block commands such as `config vet`.
	loaded, loadErr := cfgpkg.NewLoader().LoadWithDefaults(pathResult.ConfigPath)
	if loadErr != nil {
		loaded = cfgpkg.DefaultConfig()
	}

	var overrides cfgpkg.Flags
	if cmd.Flags().Changed("allow-overriding") {
		overrides.AllowOverriding = &flags.allowOverriding
	}
	overrides.Profiles = flags.profiles
	overrides.Output = flags.output
	settings := cfgpkg.Resolve(overrides, loaded)

	logCfg := output.LogConfig{Verbose: flags.verbose}
	if cmd.Flags().Changed("timestamps") {
		logCfg.Timestamps = output.BoolPtr(flags.timestamps)
	} else if loaded.Log.Timestamps != nil {
		logCfg.Timestamps = loaded.Log.Timestamps
	}
	output.SetupLogging(logCfg)

	*cfg = cmdtypes.GlobalConfig{
		Config:     loaded,
		Settings:   settings,
		ConfigPath: pathResult.ConfigPath,
		Verbose:    flags.verbose,
	}

	info := version.Get()
	output.Debug("confgraph started",
		"version", info.Version,
		"cue_sdk", info.CUESDKVersion,
		"config", pathResult.ConfigPath,
		"config_source", pathResult.Source,
	)
	if loadErr != nil {
		output.Warn("config file ignored", "path", pathResult.ConfigPath, "error", loadErr)
	}
	cfgpkg.LogResolvedValues(settings.Values)

	return nil
}
