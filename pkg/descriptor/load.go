// pkg/descriptor/load.go
package descriptor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format identifies a descriptor file syntax
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatHCL  Format = "hcl"
)

// FormatFromPath picks the format from a file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".hcl":
		return FormatHCL, nil
	}
	return "", fmt.Errorf("unsupported descriptor format: %s", path)
}

// Load reads and parses a descriptor file
func Load(path string) (*Descriptor, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading descriptor: %w", err)
	}

	d, err := parse(data, format, path)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Parse parses an in-memory descriptor
func Parse(data []byte, format Format) (*Descriptor, error) {
	return parse(data, format, "descriptor."+string(format))
}

func parse(data []byte, format Format, filename string) (*Descriptor, error) {
	var d Descriptor

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", filename, err)
		}
	case FormatTOML:
		if _, err := toml.Decode(string(data), &d); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", filename, err)
		}
	case FormatHCL:
		parsed, err := decodeHCL(data, filename)
		if err != nil {
			return nil, err
		}
		d = *parsed
	default:
		return nil, fmt.Errorf("unsupported descriptor format: %s", format)
	}

	d.normalize()
	return &d, nil
}

// Marshal renders a descriptor as YAML
func Marshal(d *Descriptor) ([]byte, error) {
	data, err := yaml.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("marshaling descriptor: %w", err)
	}
	return data, nil
}
