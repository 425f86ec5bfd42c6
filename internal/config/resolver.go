package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/opmodel/confgraph/internal/output"
)

// ConfigSource indicates where a configuration value came from.
type ConfigSource string

const (
	// SourceFlag indicates value came from command-line flag.
	SourceFlag ConfigSource = "flag"
	// SourceEnv indicates value came from environment variable.
	SourceEnv ConfigSource = "env"
	// SourceConfig indicates value came from config file.
	SourceConfig ConfigSource = "config"
	// SourceDefault indicates value is the built-in default.
	SourceDefault ConfigSource = "default"
)

// ResolveConfigPathOptions contains options for config path resolution.
type ResolveConfigPathOptions struct {
	// FlagValue is the --config flag value (empty if not set).
	FlagValue string
}

// ResolveConfigPathResult contains the resolved config path and its source.
type ResolveConfigPathResult struct {
	// ConfigPath is the resolved config file path.
	ConfigPath string
	// Source indicates where the config path came from.
	Source ConfigSource
	// Shadowed contains values that were overridden by higher precedence.
	Shadowed map[ConfigSource]string
}

// ResolveConfigPath resolves the config file path using precedence:
// (1) --config flag, (2) CONFGRAPH_CONFIG env, (3) ~/.confgraph/config.yaml
func ResolveConfigPath(opts ResolveConfigPathOptions) (ResolveConfigPathResult, error) {
	result := ResolveConfigPathResult{
		Shadowed: make(map[ConfigSource]string),
	}

	envValue := os.Getenv(EnvConfig)

	paths, err := DefaultPaths()
	if err != nil {
		return result, err
	}
	defaultPath := paths.ConfigFile

	switch {
	case opts.FlagValue != "":
		result.ConfigPath = opts.FlagValue
		result.Source = SourceFlag
		if envValue != "" {
			result.Shadowed[SourceEnv] = envValue
		}
		result.Shadowed[SourceDefault] = defaultPath
	case envValue != "":
		result.ConfigPath = envValue
		result.Source = SourceEnv
		result.Shadowed[SourceDefault] = defaultPath
	default:
		result.ConfigPath = defaultPath
		result.Source = SourceDefault
	}

	return result, nil
}

// Flags carries the command-line values that override configuration.
// A nil pointer or empty value means the flag was not given.
type Flags struct {
	AllowOverriding *bool
	Profiles        []string
	Output          string
}

// Settings are the effective engine settings after precedence resolution.
type Settings struct {
	AllowOverriding bool
	FailOnProblems  bool
	Profiles        []string
	Output          string
	Values          []ResolvedValue
}

// Explicit reports whether key was set by a flag, env var or config file
// rather than taken from the defaults.
func (s Settings) Explicit(key string) bool {
	for _, v := range s.Values {
		if v.Key == key {
			return v.Source != SourceDefault
		}
	}
	return false
}

// Resolve applies flag > env > config > default precedence to each setting.
// Env vars are read here so their source can be reported even when file was
// loaded through a Loader that already merged them.
func Resolve(flags Flags, file *Config) Settings {
	if file == nil {
		file = &Config{}
	}
	defaults := DefaultConfig()
	var s Settings

	allow := resolve("allowOverriding",
		ptrValue(flags.AllowOverriding), envBool(envPrefix+"_ALLOWOVERRIDING"), ptrValue(file.AllowOverriding), *defaults.AllowOverriding)
	s.AllowOverriding = allow.Value.(bool)

	fail := resolve("failOnProblems",
		nil, envBool(envPrefix+"_FAILONPROBLEMS"), ptrValue(file.FailOnProblems), *defaults.FailOnProblems)
	s.FailOnProblems = fail.Value.(bool)

	profiles := resolve("profiles",
		listValue(flags.Profiles), listValue(splitProfiles([]string{os.Getenv(envPrefix + "_PROFILES")})), listValue(file.Profiles), []string(nil))
	s.Profiles, _ = profiles.Value.([]string)

	out := resolve("output",
		stringValue(flags.Output), stringValue(os.Getenv(envPrefix+"_OUTPUT")), stringValue(file.Output), defaults.Output)
	s.Output = out.Value.(string)

	s.Values = []ResolvedValue{allow, fail, profiles, out}
	return s
}

// resolve picks the first non-nil candidate in precedence order and records
// the lower-precedence values it shadows.
func resolve(key string, flag, env, file, def any) ResolvedValue {
	rv := ResolvedValue{Key: key, Shadowed: map[ConfigSource]any{}}
	candidates := []struct {
		source ConfigSource
		value  any
	}{
		{SourceFlag, flag},
		{SourceEnv, env},
		{SourceConfig, file},
	}
	for _, c := range candidates {
		if c.value == nil {
			continue
		}
		if rv.Source == "" {
			rv.Value, rv.Source = c.value, c.source
			continue
		}
		rv.Shadowed[c.source] = c.value
	}
	if rv.Source == "" {
		rv.Value, rv.Source = def, SourceDefault
	}
	return rv
}

// The helpers below return an untyped nil for unset values so resolve can
// tell them apart.

func ptrValue(b *bool) any {
	if b == nil {
		return nil
	}
	return *b
}

func envBool(name string) any {
	v, ok := os.LookupEnv(name)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return nil
	}
	return b
}

func stringValue(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func listValue(l []string) any {
	if len(l) == 0 {
		return nil
	}
	return l
}

// LogResolvedValues logs configuration resolution at DEBUG level when verbose.
func LogResolvedValues(values []ResolvedValue) {
	for _, v := range values {
		output.Debug("config value resolved",
			"key", v.Key,
			"value", v.Value,
			"source", v.Source,
		)
		for source, shadowed := range v.Shadowed {
			output.Debug("  shadowed by higher precedence",
				"key", v.Key,
				"shadowed_source", source,
				"shadowed_value", shadowed,
			)
		}
	}
}
