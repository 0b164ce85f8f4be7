package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("unexpected config (-want +got):\n%s", diff)
	}
}

func TestLoadMergesFile(t *testing.T) {
	root := t.TempDir()
	body := []byte(`names:
  - ^Foo
categories: ["^Bar"]
format: junit
strict_mocks: true
metrics_path: out/metrics.prom
`)
	if err := os.WriteFile(filepath.Join(root, FileName), body, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Default()
	want.Names = []string{"^Foo"}
	want.Categories = []string{"^Bar"}
	want.Format = FormatJUnit
	want.StrictMocks = true
	want.MetricsPath = "out/metrics.prom"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("unexpected config (-want +got):\n%s", diff)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, FileName), []byte("names: [unclosed"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(root); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestApplyFlagsOverridesOnlySetValues(t *testing.T) {
	cfg := Default()
	cfg.Names = []string{"from-file"}
	cfg.Verbose = true

	ApplyFlags(&cfg, FlagValues{
		Categories: SliceFlag{Values: []string{"db"}},
		Format:     StringFlag{Value: FormatJSON, Set: true},
		Verbose:    BoolFlag{Value: false, Set: true},
		LogLevel:   StringFlag{Value: "debug"},
	})

	if diff := cmp.Diff([]string{"from-file"}, cfg.Names); diff != "" {
		t.Fatalf("names changed:\n%s", diff)
	}
	if cfg.Format != FormatJSON || cfg.Verbose {
		t.Fatalf("flags not applied: %+v", cfg)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("unset flag applied: %q", cfg.LogLevel)
	}
	if diff := cmp.Diff([]string{"db"}, cfg.Categories); diff != "" {
		t.Fatalf("categories:\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	cfg.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected format error")
	}
	cfg = Default()
	cfg.LogFormat = "logfmt"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected log format error")
	}
}
