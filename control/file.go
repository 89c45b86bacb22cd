// control/file.go
// Author: momentics <momentics@gmail.com>
//
// YAML configuration file support.

package control

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/momentics/hioload-ring/api"
)

// FileConfig is the on-disk configuration. Zero values mean "use the
// default" except for the booleans, which are explicit.
type FileConfig struct {
	// Order is log2 of the ring capacity; 0 selects the default.
	Order         int        `yaml:"order,omitempty"`
	RequireMirror bool       `yaml:"require_mirror,omitempty"`
	Fallback      bool       `yaml:"fallback,omitempty"`
	SplitCopy     bool       `yaml:"split_copy,omitempty"`
	Pool          PoolConfig `yaml:"pool,omitempty"`
	Metrics       *bool      `yaml:"metrics,omitempty"`
	Debug         *bool      `yaml:"debug,omitempty"`
}

// PoolConfig configures region recycling.
type PoolConfig struct {
	// MaxIdle is the number of parked regions per size; nil selects the
	// default, 0 disables recycling.
	MaxIdle *int `yaml:"max_idle,omitempty"`
}

// LoadFile reads and parses a YAML config file.
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig parses YAML config bytes. Unknown keys are rejected so that
// typos do not silently fall back to defaults.
func ParseConfig(data []byte) (*FileConfig, error) {
	var cfg FileConfig
	if err := yaml.UnmarshalWithOptions(data, &cfg, yaml.Strict()); err != nil {
		return nil, api.NewError(api.ErrCodeConfiguration, "parse config").Wrap(err)
	}
	if cfg.Order < 0 {
		return nil, api.NewError(api.ErrCodeConfiguration, "order must not be negative").
			WithContext("order", cfg.Order)
	}
	if cfg.RequireMirror && cfg.Fallback {
		return nil, api.NewError(api.ErrCodeConfiguration, "require_mirror and fallback are mutually exclusive")
	}
	if cfg.RequireMirror && cfg.SplitCopy {
		return nil, api.NewError(api.ErrCodeConfiguration, "require_mirror and split_copy are mutually exclusive")
	}
	if cfg.Pool.MaxIdle != nil && *cfg.Pool.MaxIdle < 0 {
		return nil, api.NewError(api.ErrCodeConfiguration, "pool.max_idle must not be negative").
			WithContext("max_idle", *cfg.Pool.MaxIdle)
	}
	return &cfg, nil
}

// Marshal renders cfg as YAML.
func (cfg *FileConfig) Marshal() ([]byte, error) {
	return yaml.Marshal(cfg)
}
