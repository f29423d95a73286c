package camera

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/strata-ml/strata/internal/record"
)

// Config describes a pinhole camera in YAML form:
//
//	resolution: [640, 480]
//	focal_px: 35.0
type Config struct {
	Resolution [2]int  `yaml:"resolution"`
	FocalPx    float64 `yaml:"focal_px"`
}

// Validate checks the config values.
func (c Config) Validate() error {
	if c.Resolution[0] <= 0 || c.Resolution[1] <= 0 {
		return fmt.Errorf("camera config: invalid resolution %v", c.Resolution)
	}
	if c.FocalPx <= 0 {
		return fmt.Errorf("camera config: invalid focal length %v px", c.FocalPx)
	}
	return nil
}

// ParseConfig decodes a YAML camera config.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("camera config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and decodes a YAML camera config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("camera config: %w", err)
	}
	return ParseConfig(data)
}

// FromConfig builds a camera from a config on the given backend
// (nil selects the default backend).
func FromConfig(cfg Config, xnp record.Backend) (*PinholeCamera, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return FromFocal(cfg.Resolution, cfg.FocalPx, xnp)
}
