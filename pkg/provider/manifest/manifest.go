// Package manifest overlays markers declared in a YAML file onto the types
// and methods of a provider.Catalog.
//
//	types:
//	  billing.Invoice:
//	    category: slow
//	    tests:
//	      Totals:
//	        ignore: "rounding bug #41"
//	      RejectsNegative:
//	        expected_message: "amount must be positive"
package manifest

import (
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/bgricker/unitkit/pkg/provider"
)

// Warning captures a manifest entry that could not be applied.
type Warning struct {
	Path    string `json:"path"`
	Target  string `json:"target"`
	Message string `json:"message"`
}

// Manifest is a decoded marker file.
type Manifest struct {
	Path  string
	Types map[string]TypeEntry
}

// TypeEntry holds the markers for one type and its methods.
type TypeEntry struct {
	Ignore      string                 `yaml:"ignore"`
	Category    string                 `yaml:"category"`
	Description string                 `yaml:"description"`
	Tests       map[string]MethodEntry `yaml:"tests"`
}

// MethodEntry holds the markers for one method.
type MethodEntry struct {
	Name            string `yaml:"name"`
	Ignore          string `yaml:"ignore"`
	Category        string `yaml:"category"`
	Description     string `yaml:"description"`
	ExpectedMessage string `yaml:"expected_message"`
}

type document struct {
	Types map[string]TypeEntry `yaml:"types"`
}

// Load reads and decodes the manifest at path.
func Load(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest %q: %w", path, err)
	}
	defer f.Close()
	return Decode(f, path)
}

// Decode parses a manifest from r. displayPath is used in messages only.
func Decode(r io.Reader, displayPath string) (*Manifest, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return &Manifest{Path: displayPath}, nil
		}
		return nil, fmt.Errorf("parse manifest %q: %w", displayPath, err)
	}
	return &Manifest{Path: displayPath, Types: doc.Types}, nil
}

// Apply writes the manifest markers onto matching catalog entries. Entries
// naming unknown types or methods become warnings.
func (m *Manifest) Apply(c *provider.Catalog) []Warning {
	var warnings []Warning
	for _, typeName := range sortedKeys(m.Types) {
		entry := m.Types[typeName]
		t := c.Lookup(typeName)
		if t == nil {
			warnings = append(warnings, Warning{Path: m.Path, Target: typeName, Message: "unknown type"})
			continue
		}
		applyType(t, entry)

		for _, methodName := range sortedKeys(entry.Tests) {
			method := t.Method(methodName)
			if method == nil {
				warnings = append(warnings, Warning{
					Path:    m.Path,
					Target:  typeName + "." + methodName,
					Message: "unknown method",
				})
				continue
			}
			if !method.Markers.Test {
				warnings = append(warnings, Warning{
					Path:    m.Path,
					Target:  method.FullName(),
					Message: "markers applied to a method that is not a test",
				})
			}
			applyMethod(method, entry.Tests[methodName])
		}
	}
	return warnings
}

func applyType(t *provider.Type, entry TypeEntry) {
	if entry.Ignore != "" {
		t.Markers.Ignore = true
		t.Markers.IgnoreReason = entry.Ignore
	}
	if entry.Category != "" {
		t.Markers.Category = entry.Category
	}
	if entry.Description != "" {
		t.Markers.Description = entry.Description
	}
}

func applyMethod(method *provider.Method, entry MethodEntry) {
	mk := &method.Markers
	if entry.Name != "" {
		mk.Name = entry.Name
	}
	if entry.Ignore != "" {
		mk.Ignore = true
		mk.IgnoreReason = entry.Ignore
	}
	if entry.Category != "" {
		mk.Category = entry.Category
	}
	if entry.Description != "" {
		mk.Description = entry.Description
	}
	if entry.ExpectedMessage != "" {
		if mk.ExpectedFailure == nil {
			provider.Expecting[error](entry.ExpectedMessage)(mk)
		} else {
			mk.ExpectedFailure.Message = entry.ExpectedMessage
		}
	}
}

func sortedKeys[V any](in map[string]V) []string {
	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
