package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNoManifests indicates that no manifest files were found.
var ErrNoManifests = errors.New("no manifests discovered")

// Dir is the directory, relative to the project root, searched for
// manifests when none are named explicitly.
const Dir = ".unitkit"

// Discover returns manifest file paths. Explicit paths are validated and
// returned in the order given. Otherwise every *.yml and *.yaml file under
// Dir is returned, sorted lexicographically.
func Discover(root string, explicit []string) ([]string, error) {
	if len(explicit) > 0 {
		return resolveExplicit(root, explicit)
	}

	matches := make(map[string]struct{})
	for _, ext := range []string{"*.yml", "*.yaml"} {
		pattern := filepath.Join(root, Dir, ext)
		found, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		for _, m := range found {
			matches[m] = struct{}{}
		}
	}
	if len(matches) == 0 {
		return nil, ErrNoManifests
	}

	paths := make([]string, 0, len(matches))
	for p := range matches {
		paths = append(paths, relOrClean(root, p))
	}
	sort.Strings(paths)
	return paths, nil
}

func resolveExplicit(root string, explicit []string) ([]string, error) {
	seen := make(map[string]struct{})
	resolved := make([]string, 0, len(explicit))
	for _, input := range explicit {
		cleaned := input
		if !filepath.IsAbs(cleaned) {
			cleaned = filepath.Join(root, cleaned)
		}
		info, err := os.Stat(cleaned)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("manifest %q not found", input)
			}
			return nil, fmt.Errorf("stat %q: %w", input, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("manifest %q is a directory", input)
		}
		rel := relOrClean(root, cleaned)
		if _, ok := seen[rel]; ok {
			continue
		}
		seen[rel] = struct{}{}
		resolved = append(resolved, rel)
	}
	if len(resolved) == 0 {
		return nil, ErrNoManifests
	}
	return resolved, nil
}

func relOrClean(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.Clean(path)
	}
	rel = filepath.Clean(rel)
	if rel == "." || strings.HasPrefix(rel, "..") {
		return filepath.Clean(path)
	}
	return rel
}

// LoadAll discovers and loads manifests under root, then applies them to
// the catalog in order. Finding no manifest is not an error unless paths
// were named explicitly.
func LoadAll(root string, explicit []string, apply func(*Manifest) []Warning) ([]Warning, error) {
	paths, err := Discover(root, explicit)
	if err != nil {
		if errors.Is(err, ErrNoManifests) && len(explicit) == 0 {
			return nil, nil
		}
		return nil, err
	}
	var warnings []Warning
	for _, p := range paths {
		full := p
		if !filepath.IsAbs(full) {
			full = filepath.Join(root, p)
		}
		m, err := Load(full)
		if err != nil {
			return warnings, err
		}
		m.Path = p
		warnings = append(warnings, apply(m)...)
	}
	return warnings, nil
}
