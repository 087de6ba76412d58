package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/peakshave/core/metrics"
	"github.com/kilianp07/peakshave/core/scheduler"
	"github.com/kilianp07/peakshave/infra/mqtt"
)

type Config struct {
	Input     InputConfig      `json:"input"`
	Output    OutputConfig     `json:"output"`
	Scheduler scheduler.Config `json:"scheduler"`
	Metrics   metrics.Config   `json:"metrics"`
	MQTT      mqtt.Config      `json:"mqtt"`
}

// InputConfig locates the forecast observations.
type InputConfig struct {
	// Path is the CSV file of half-hourly pv/demand records.
	Path string `json:"path"`
}

// Validate checks mandatory fields.
func (c InputConfig) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("input path is required")
	}
	return nil
}

// OutputConfig describes where and how the flattened schedule is written.
type OutputConfig struct {
	Path   string `json:"path"`
	Format string `json:"format"`
}

// SetDefaults applies sane defaults.
func (c *OutputConfig) SetDefaults() {
	if c.Path == "" {
		c.Path = "schedule.csv"
	}
	if c.Format == "" {
		c.Format = "csv"
	}
}

// Validate checks the output format.
func (c OutputConfig) Validate() error {
	if c.Format != "csv" && c.Format != "json" {
		return fmt.Errorf("unknown output format %s", c.Format)
	}
	return nil
}

// Load reads the configuration file at path, applying optional PS_
// environment overrides, defaults and validation.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("PS_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "ps_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Output.SetDefaults()
	cfg.Scheduler.SetDefaults()
	cfg.MQTT.SetDefaults()
	if err := cfg.Input.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Output.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Scheduler.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
