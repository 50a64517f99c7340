// Package config is the ambient YAML-driven defaults loader: the buffer
// size, preamble-detection flag, and encoding name a reader.Reader should
// fall back to when a caller (cmd/bookline, a test fixture) doesn't set
// them explicitly.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults are the configurable knobs shared by reader construction sites.
type Defaults struct {
	BufferSize     int    `yaml:"bufferSize"`
	DetectPreamble bool   `yaml:"detectPreamble"`
	Encoding       string `yaml:"encoding"`

	// Operation names the read primitive a caller wants dispatched; see
	// cmd/bookline's dispatch table. "line" is the only one this reader
	// actually offers.
	Operation string `yaml:"operation"`
}

// Default returns the built-in defaults, used when no config file is
// present.
func Default() Defaults {
	return Defaults{
		BufferSize:     4096,
		DetectPreamble: false,
		Encoding:       "utf-8",
		Operation:      "line",
	}
}

// Load reads and parses a YAML defaults file at path. Fields absent from
// the file keep their built-in default value.
func Load(path string) (Defaults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Defaults{}, fmt.Errorf("config: reading %s: %w", path, err)
	}

	d := Default()
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Defaults{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return d, nil
}
