package env

import (
	"bytes"
	"fmt"
	"path"
	"strings"

	"github.com/go-viper/encoding/hcl"
	"github.com/go-viper/encoding/ini"
	"github.com/go-viper/encoding/javaproperties"
	"github.com/spf13/viper"

	oerrors "github.com/opmodel/confgraph/internal/errors"
)

// FormatFromLocation derives a property file format from a locator's
// extension. Unknown extensions read as properties files.
func FormatFromLocation(location string) string {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(location)), ".")
	switch ext {
	case "yaml", "yml", "json", "toml", "hcl", "env", "ini", "properties":
		return ext
	default:
		return "properties"
	}
}

// codecs adds the property file formats viper does not decode on its own.
func codecs() (*viper.DefaultCodecRegistry, error) {
	registry := viper.NewCodecRegistry()
	for format, codec := range map[string]viper.Codec{
		"properties": &javaproperties.Codec{},
		"ini":        &ini.Codec{},
		"hcl":        &hcl.Codec{},
	} {
		if err := registry.RegisterCodec(format, codec); err != nil {
			return nil, fmt.Errorf("registering %s codec: %w", format, err)
		}
	}
	return registry, nil
}

// LoadPropertySource parses a property file into a flat source. Nested keys
// are joined with dots; viper lower-cases every key.
func LoadPropertySource(name string, data []byte, format string) (*MapPropertySource, error) {
	registry, err := codecs()
	if err != nil {
		return nil, err
	}
	v := viper.NewWithOptions(viper.WithCodecRegistry(registry))
	v.SetConfigType(format)
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, oerrors.NewValidationError(
			fmt.Sprintf("parsing %s property source: %v", format, err), name, "", "")
	}

	values := make(map[string]any, len(v.AllKeys()))
	for _, key := range v.AllKeys() {
		values[key] = v.Get(key)
	}
	return NewMapPropertySource(name, values), nil
}
