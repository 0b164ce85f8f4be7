// Package filter holds the predicates that prune units while they are
// accumulated.
package filter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bgricker/unitkit/pkg/runner"
)

// Filter accepts or rejects a unit during accumulation.
type Filter interface {
	Filter(u runner.Unit) bool
}

// Func adapts a plain function to Filter.
type Func func(u runner.Unit) bool

func (f Func) Filter(u runner.Unit) bool { return f(u) }

// All reports whether every filter accepts u. No filters accept everything.
func All(filters []Filter, u runner.Unit) bool {
	for _, f := range filters {
		if f != nil && !f.Filter(u) {
			return false
		}
	}
	return true
}

// Pattern is a compiled regular expression. A pattern may be written bare
// ("^Foo") or between slashes ("/^Foo/").
type Pattern struct {
	raw   string
	regex *regexp.Regexp
}

// Compile transforms raw pattern strings into Pattern values. Blank entries
// are skipped.
func Compile(patterns []string) ([]Pattern, error) {
	result := make([]Pattern, 0, len(patterns))
	for _, raw := range patterns {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		expr := raw
		if len(raw) >= 2 && strings.HasPrefix(raw, "/") && strings.HasSuffix(raw, "/") {
			expr = raw[1 : len(raw)-1]
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("compile pattern %q: %w", raw, err)
		}
		result = append(result, Pattern{raw: raw, regex: re})
	}
	return result, nil
}

// Match reports whether the pattern matches s. Empty strings never match.
func (p Pattern) Match(s string) bool {
	if s == "" || p.regex == nil {
		return false
	}
	return p.regex.MatchString(s)
}

func (p Pattern) String() string { return p.raw }

func matchesAny(patterns []Pattern, s string) bool {
	for _, p := range patterns {
		if p.Match(s) {
			return true
		}
	}
	return false
}

// isSuite reports whether u groups other units. Leaf-only filters let
// suites through; pruning happens once their children are filtered.
func isSuite(u runner.Unit) bool {
	_, ok := u.(interface{ Children() []runner.Unit })
	return ok
}

// NameFilter admits leaves whose name matches any of its patterns.
type NameFilter struct {
	Patterns []Pattern
}

func (f NameFilter) Filter(u runner.Unit) bool {
	if isSuite(u) || len(f.Patterns) == 0 {
		return true
	}
	return matchesAny(f.Patterns, u.Name())
}

// CategoryFilter admits leaves whose category matches any of its patterns.
// Leaves without a category are rejected.
type CategoryFilter struct {
	Patterns []Pattern
}

func (f CategoryFilter) Filter(u runner.Unit) bool {
	if isSuite(u) || len(f.Patterns) == 0 {
		return true
	}
	return matchesAny(f.Patterns, u.Category())
}

// ExcludeFilter rejects leaves whose name matches any of its patterns.
type ExcludeFilter struct {
	Patterns []Pattern
}

func (f ExcludeFilter) Filter(u runner.Unit) bool {
	if isSuite(u) {
		return true
	}
	return !matchesAny(f.Patterns, u.Name())
}

// Name compiles a NameFilter from a single expression.
func Name(expr string) (Filter, error) {
	patterns, err := Compile([]string{expr})
	if err != nil {
		return nil, err
	}
	return NameFilter{Patterns: patterns}, nil
}

// Category compiles a CategoryFilter from a single expression.
func Category(expr string) (Filter, error) {
	patterns, err := Compile([]string{expr})
	if err != nil {
		return nil, err
	}
	return CategoryFilter{Patterns: patterns}, nil
}

// Build turns the name, category and exclude pattern lists of a run into
// filters. Empty lists contribute nothing.
func Build(names, categories, exclude []string) ([]Filter, error) {
	var filters []Filter
	for _, spec := range []struct {
		raw  []string
		make func([]Pattern) Filter
	}{
		{names, func(p []Pattern) Filter { return NameFilter{Patterns: p} }},
		{categories, func(p []Pattern) Filter { return CategoryFilter{Patterns: p} }},
		{exclude, func(p []Pattern) Filter { return ExcludeFilter{Patterns: p} }},
	} {
		patterns, err := Compile(spec.raw)
		if err != nil {
			return nil, err
		}
		if len(patterns) > 0 {
			filters = append(filters, spec.make(patterns))
		}
	}
	return filters, nil
}
