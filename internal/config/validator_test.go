package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	tests := []struct {
		name    string
		cfg     *Config
		wantErr string
	}{
		{name: "defaults", cfg: DefaultConfig()},
		{name: "empty", cfg: &Config{}},
		{name: "unknown output", cfg: &Config{Output: "xml"}, wantErr: "output"},
		{name: "negative ttl", cfg: &Config{CacheTTL: -1}, wantErr: "cacheTTL"},
		{name: "blank profile", cfg: &Config{Profiles: []string{"dev", ""}}, wantErr: "profiles"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var errs ValidationErrors
			require.ErrorAs(t, err, &errs)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateFile(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	assert.NoError(t, v.ValidateFile(writeConfig(t, "output: yaml\n")))
	assert.Error(t, v.ValidateFile(writeConfig(t, "output: html\n")))
}
