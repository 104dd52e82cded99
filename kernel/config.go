// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package kernel

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config describes a design for the kernel.
type Config struct {
	Top          string      `yaml:"top"`          // instance name nets are declared under
	Precision    int         `yaml:"precision"`    // log10 of one time step in seconds, e.g. -12
	MaxCallbacks int         `yaml:"maxCallbacks"` // 0 means unbounded
	Nets         []NetConfig `yaml:"nets"`
}

// NetConfig declares one net.
type NetConfig struct {
	Name  string `yaml:"name"`
	Width uint32 `yaml:"width"`
	Init  string `yaml:"init"` // hex, x and z digits allowed
}

// ParseConfig decodes a YAML design description.
func ParseConfig(data []byte) (*Config, error) {
	cfg := &Config{Precision: -12}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.WithMessage(err, "could not unmarshal design")
	}
	if cfg.Top == "" {
		return nil, errors.New("design has no top instance")
	}
	for _, n := range cfg.Nets {
		if n.Name == "" {
			return nil, errors.New("design declares a net without a name")
		}
		if n.Width == 0 {
			return nil, errors.Errorf("net %s has zero width", n.Name)
		}
	}
	return cfg, nil
}

// LoadConfig reads and decodes the design file at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithMessagef(err, "could not read design file %s", path)
	}
	return ParseConfig(data)
}
