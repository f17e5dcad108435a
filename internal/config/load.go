// internal/config/load.go
package config

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Load reads a YAML file into a Config.
// It does not validate or normalize.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	return Parse(raw)
}

// Parse decodes YAML bytes. Unknown keys are rejected.
func Parse(raw []byte) (*Config, error) {
	var cfg Config

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil {
		// empty document is a valid "all defaults" config
		if errors.Is(err, io.EOF) {
			return &cfg, nil
		}
		return nil, errors.Wrap(err, "decode config")
	}

	return &cfg, nil
}
