// Package config provides configuration loading and management.
package config

import "time"

// LogConfig contains logging-related settings.
type LogConfig struct {
	// Timestamps controls whether timestamps are shown in log output.
	// Default: true. Override with --timestamps flag.
	Timestamps *bool `json:"timestamps,omitempty" mapstructure:"timestamps" yaml:"timestamps,omitempty"`
}

// Config represents the confgraph CLI configuration.
// Loaded from ~/.confgraph/config.yaml, validated against the embedded CUE schema.
type Config struct {
	// AllowOverriding lets a later definition replace an earlier one of the
	// same name. Env: CONFGRAPH_ALLOWOVERRIDING, Default: true
	AllowOverriding *bool `json:"allowOverriding,omitempty" mapstructure:"allowOverriding" yaml:"allowOverriding,omitempty"`

	// FailOnProblems turns accumulated error problems into a failed run.
	// Env: CONFGRAPH_FAILONPROBLEMS, Default: true
	FailOnProblems *bool `json:"failOnProblems,omitempty" mapstructure:"failOnProblems" yaml:"failOnProblems,omitempty"`

	// Profiles are activated in addition to the project's profiles.
	// Env: CONFGRAPH_PROFILES (comma-separated)
	Profiles []string `json:"profiles,omitempty" mapstructure:"profiles" yaml:"profiles,omitempty"`

	// CacheTTL is how long type metadata reads are cached. Zero disables the cache.
	// Env: CONFGRAPH_CACHETTL, Default: 5m
	CacheTTL time.Duration `json:"cacheTTL,omitempty" mapstructure:"cacheTTL" yaml:"cacheTTL,omitempty"`

	// Output is the default output format: yaml, json, table or tree.
	// Env: CONFGRAPH_OUTPUT, Default: tree
	Output string `json:"output,omitempty" mapstructure:"output" yaml:"output,omitempty"`

	// Log contains logging-related settings.
	Log LogConfig `json:"log,omitempty" mapstructure:"log" yaml:"log,omitempty"`
}

// Default values.
const (
	DefaultCacheTTL = 5 * time.Minute
	DefaultOutput   = "tree"
)

// DefaultConfig returns a Config with all default values populated.
// Used by `confgraph config init` to generate the initial config file.
func DefaultConfig() *Config {
	return (&Config{}).WithDefaults()
}

// WithDefaults fills unset fields with their defaults.
func (c *Config) WithDefaults() *Config {
	out := *c
	if out.AllowOverriding == nil {
		out.AllowOverriding = boolPtr(true)
	}
	if out.FailOnProblems == nil {
		out.FailOnProblems = boolPtr(true)
	}
	if out.CacheTTL == 0 {
		out.CacheTTL = DefaultCacheTTL
	}
	if out.Output == "" {
		out.Output = DefaultOutput
	}
	return &out
}

// ResolvedValue records where a configuration value came from.
type ResolvedValue struct {
	Key      string
	Value    any
	Source   ConfigSource
	Shadowed map[ConfigSource]any
}

func boolPtr(b bool) *bool { return &b }
