// Package discovery builds runnable unit trees from the code surface an
// introspection provider describes.
//
// Accumulation preserves discovery order: types in the order the provider
// returns them, methods in the order returned for each type.
package discovery

import (
	"github.com/pkg/errors"

	"github.com/bgricker/unitkit/pkg/discovery/filter"
	"github.com/bgricker/unitkit/pkg/provider"
	"github.com/bgricker/unitkit/pkg/report"
	"github.com/bgricker/unitkit/pkg/runner"
)

// ErrNoNamespace is returned when a namespace accumulation is seeded with a
// type that has no namespace.
var ErrNoNamespace = errors.New("type has no namespace")

// ErrNoTests indicates that accumulation produced no runnable test.
var ErrNoTests = errors.New("no tests discovered")

// ClassAccumulator produces one test per test method of a type.
type ClassAccumulator struct {
	Introspector provider.Introspector
}

// Accumulate returns the configured tests of t that every filter accepts.
func (a ClassAccumulator) Accumulate(t *provider.Type, filters []filter.Filter, cfg Configurator) ([]runner.Unit, error) {
	if t == nil {
		return nil, errors.Wrap(report.ErrInvalidArgument, "accumulate class: nil type")
	}
	if a.Introspector == nil {
		return nil, errors.Wrap(report.ErrInvalidArgument, "accumulate class: nil introspector")
	}
	return testsOf(a.Introspector, t, filters, orDefault(cfg))
}

// Suite wraps the accumulated tests of t in a configured class suite. It
// returns nil when filtering leaves the suite empty or rejects it.
func (a ClassAccumulator) Suite(t *provider.Type, filters []filter.Filter, cfg Configurator) (*runner.Suite, error) {
	cfg = orDefault(cfg)
	tests, err := a.Accumulate(t, filters, cfg)
	if err != nil {
		return nil, err
	}
	if len(tests) == 0 {
		return nil, nil
	}
	suite := runner.NewSuite(t.Name, runner.KindClass)
	if err := cfg.ConfigureClass(suite, t, a.Introspector); err != nil {
		return nil, errors.Wrapf(err, "configure class %s", t.FullName())
	}
	if err := suite.Add(tests...); err != nil {
		return nil, err
	}
	if !filter.All(filters, suite) {
		return nil, nil
	}
	return suite, nil
}

// NamespaceAccumulator produces the class suites and loose tests of one
// namespace.
type NamespaceAccumulator struct {
	Introspector provider.Introspector
}

// Accumulate returns, for the namespace of seed, one class suite per
// fixture type followed by the test methods of non-fixture types.
func (a NamespaceAccumulator) Accumulate(seed *provider.Type, filters []filter.Filter, cfg Configurator) ([]runner.Unit, error) {
	if seed == nil {
		return nil, errors.Wrap(report.ErrInvalidArgument, "accumulate namespace: nil type")
	}
	if seed.Namespace == "" {
		return nil, errors.Wrapf(ErrNoNamespace, "accumulate namespace from %s", seed.Name)
	}
	if a.Introspector == nil {
		return nil, errors.Wrap(report.ErrInvalidArgument, "accumulate namespace: nil introspector")
	}
	return unitsIn(a.Introspector, seed.Namespace, filters, orDefault(cfg))
}

// AssemblyAccumulator produces the whole tree of an assembly.
type AssemblyAccumulator struct {
	Introspector provider.Introspector
}

// Accumulate returns a single assembly suite. Each namespace becomes a
// namespace suite, in order of first appearance; types without a namespace
// contribute their units directly.
func (a AssemblyAccumulator) Accumulate(filters []filter.Filter, cfg Configurator) ([]runner.Unit, error) {
	suite, err := a.Suite(filters, cfg)
	if err != nil {
		return nil, err
	}
	return []runner.Unit{suite}, nil
}

// Suite is Accumulate returning the assembly suite itself.
func (a AssemblyAccumulator) Suite(filters []filter.Filter, cfg Configurator) (*runner.Suite, error) {
	intro := a.Introspector
	if intro == nil {
		return nil, errors.Wrap(report.ErrInvalidArgument, "accumulate assembly: nil introspector")
	}
	cfg = orDefault(cfg)

	assembly := runner.NewSuite(intro.Name(), runner.KindAssembly)
	if err := cfg.ConfigureAssembly(assembly, intro); err != nil {
		return nil, errors.Wrapf(err, "configure assembly %s", intro.Name())
	}

	seen := make(map[string]bool)
	for _, t := range intro.Types() {
		if seen[t.Namespace] {
			continue
		}
		seen[t.Namespace] = true

		units, err := unitsIn(intro, t.Namespace, filters, cfg)
		if err != nil {
			return nil, err
		}
		if len(units) == 0 {
			continue
		}
		if t.Namespace == "" {
			if err := assembly.Add(units...); err != nil {
				return nil, err
			}
			continue
		}
		ns := runner.NewSuite(t.Namespace, runner.KindNamespace)
		if err := ns.Add(units...); err != nil {
			return nil, err
		}
		if filter.All(filters, ns) {
			if err := assembly.Add(ns); err != nil {
				return nil, err
			}
		}
	}
	return assembly, nil
}

// CountTests returns the number of leaf tests under u.
func CountTests(u runner.Unit) int {
	s, ok := u.(*runner.Suite)
	if !ok {
		return 1
	}
	n := 0
	for _, child := range s.Children() {
		n += CountTests(child)
	}
	return n
}

func unitsIn(intro provider.Introspector, namespace string, filters []filter.Filter, cfg Configurator) ([]runner.Unit, error) {
	classes := ClassAccumulator{Introspector: intro}
	var units []runner.Unit
	var loose []*provider.Type
	for _, t := range intro.Types() {
		if t.Namespace != namespace {
			continue
		}
		if !intro.IsFixture(t) {
			loose = append(loose, t)
			continue
		}
		suite, err := classes.Suite(t, filters, cfg)
		if err != nil {
			return nil, err
		}
		if suite != nil {
			units = append(units, suite)
		}
	}
	for _, t := range loose {
		tests, err := testsOf(intro, t, filters, cfg)
		if err != nil {
			return nil, err
		}
		units = append(units, tests...)
	}
	return units, nil
}

func testsOf(intro provider.Introspector, t *provider.Type, filters []filter.Filter, cfg Configurator) ([]runner.Unit, error) {
	var units []runner.Unit
	for _, m := range intro.Methods(t) {
		if !m.Markers.Test {
			continue
		}
		test := runner.NewTest(m.DisplayName(), runner.Body(m.Func))
		if err := cfg.ConfigureTest(test, m, intro); err != nil {
			return nil, errors.Wrapf(err, "configure test %s", m.FullName())
		}
		if filter.All(filters, test) {
			units = append(units, test)
		}
	}
	return units, nil
}

func orDefault(cfg Configurator) Configurator {
	if cfg == nil {
		return DefaultConfigurator{}
	}
	return cfg
}
