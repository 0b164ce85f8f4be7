package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the working directory.
const FileName = ".unitkit.yml"

// Config captures run options sourced from the config file or flags.
type Config struct {
	Names      []string `yaml:"names"`
	Categories []string `yaml:"categories"`
	Exclude    []string `yaml:"exclude"`
	Manifests  []string `yaml:"manifests"`

	Format  string `yaml:"format"`
	Verbose bool   `yaml:"verbose"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	MetricsPath string `yaml:"metrics_path"`
	StrictMocks bool   `yaml:"strict_mocks"`
}

const (
	// FormatPretty renders a human readable tree.
	FormatPretty = "pretty"
	// FormatJSON renders a machine readable report.
	FormatJSON = "json"
	// FormatJUnit renders JUnit XML.
	FormatJUnit = "junit"
)

// Default returns the baseline configuration used when no flags or config
// file specify values.
func Default() Config {
	return Config{
		Format:    FormatPretty,
		LogLevel:  "warn",
		LogFormat: "console",
	}
}

// Load reads .unitkit.yml from root when present. A missing file is not an
// error.
func Load(root string) (Config, error) {
	cfg := Default()
	path := filepath.Join(root, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return cfg, fmt.Errorf("parse config %q: %w", path, err)
	}
	return merge(cfg, fileCfg), nil
}

// Validate rejects values no renderer or logger understands.
func (c Config) Validate() error {
	switch strings.ToLower(c.Format) {
	case FormatPretty, FormatJSON, FormatJUnit:
	default:
		return fmt.Errorf("unsupported format %q", c.Format)
	}
	switch strings.ToLower(c.LogFormat) {
	case "console", "json":
	default:
		return fmt.Errorf("unsupported log format %q", c.LogFormat)
	}
	return nil
}

func merge(base, override Config) Config {
	out := base

	if len(override.Names) > 0 {
		out.Names = append([]string{}, override.Names...)
	}
	if len(override.Categories) > 0 {
		out.Categories = append([]string{}, override.Categories...)
	}
	if len(override.Exclude) > 0 {
		out.Exclude = append([]string{}, override.Exclude...)
	}
	if len(override.Manifests) > 0 {
		out.Manifests = append([]string{}, override.Manifests...)
	}
	if override.Format != "" {
		out.Format = override.Format
	}
	if override.LogLevel != "" {
		out.LogLevel = override.LogLevel
	}
	if override.LogFormat != "" {
		out.LogFormat = override.LogFormat
	}
	if override.MetricsPath != "" {
		out.MetricsPath = override.MetricsPath
	}
	if override.Verbose {
		out.Verbose = true
	}
	if override.StrictMocks {
		out.StrictMocks = true
	}
	return out
}

// ApplyFlags mutates cfg by applying values from CLI flags when they are
// present.
func ApplyFlags(cfg *Config, flags FlagValues) {
	if len(flags.Names.Values) > 0 {
		cfg.Names = append([]string{}, flags.Names.Values...)
	}
	if len(flags.Categories.Values) > 0 {
		cfg.Categories = append([]string{}, flags.Categories.Values...)
	}
	if len(flags.Exclude.Values) > 0 {
		cfg.Exclude = append([]string{}, flags.Exclude.Values...)
	}
	if len(flags.Manifests.Values) > 0 {
		cfg.Manifests = append([]string{}, flags.Manifests.Values...)
	}
	if flags.Format.Set {
		cfg.Format = flags.Format.Value
	}
	if flags.Verbose.Set {
		cfg.Verbose = flags.Verbose.Value
	}
	if flags.LogLevel.Set {
		cfg.LogLevel = flags.LogLevel.Value
	}
	if flags.LogFormat.Set {
		cfg.LogFormat = flags.LogFormat.Value
	}
	if flags.MetricsPath.Set {
		cfg.MetricsPath = flags.MetricsPath.Value
	}
	if flags.StrictMocks.Set {
		cfg.StrictMocks = flags.StrictMocks.Value
	}
}

// FlagValues captures CLI flag state with knowledge of whether each flag was
// set explicitly.
type FlagValues struct {
	Names       SliceFlag
	Categories  SliceFlag
	Exclude     SliceFlag
	Manifests   SliceFlag
	Format      StringFlag
	Verbose     BoolFlag
	LogLevel    StringFlag
	LogFormat   StringFlag
	MetricsPath StringFlag
	StrictMocks BoolFlag
}

// StringFlag represents a string flag and whether it was set.
type StringFlag struct {
	Value string
	Set   bool
}

// SliceFlag represents a repeatable flag and the values it captured.
type SliceFlag struct {
	Values []string
}

// BoolFlag represents a bool flag and whether it was set.
type BoolFlag struct {
	Value bool
	Set   bool
}
