package discovery

import (
	"github.com/bgricker/unitkit/pkg/provider"
	"github.com/bgricker/unitkit/pkg/runner"
)

// Configurator turns provider markers into runnable configuration: names,
// categories, filters and instance factories.
type Configurator interface {
	ConfigureTest(test *runner.Test, m *provider.Method, intro provider.Introspector) error
	ConfigureClass(suite *runner.Suite, t *provider.Type, intro provider.Introspector) error
	ConfigureAssembly(suite *runner.Suite, intro provider.Introspector) error
}

// DefaultConfigurator maps every built-in marker onto its pipeline filter.
type DefaultConfigurator struct {
	// Instances builds fixture instances. Nil means provider.ConstructorProvider.
	Instances provider.InstanceProvider
}

var _ Configurator = DefaultConfigurator{}

// ConfigureTest applies the method markers and the per-test setup and
// teardown routines declared on its type. A method without its own category
// inherits the type's.
func (c DefaultConfigurator) ConfigureTest(test *runner.Test, m *provider.Method, intro provider.Introspector) error {
	mk := m.Markers
	category := mk.Category
	if category == "" && m.Type != nil {
		category = m.Type.Markers.Category
	}
	test.SetCategory(category)
	test.SetDescription(mk.Description)

	var filters []runner.Filter
	if mk.Ignore {
		filters = append(filters, runner.IgnoreFilter{Reason: mk.IgnoreReason})
	} else if m.Type != nil && !intro.IsFixture(m.Type) && m.Type.Markers.Ignore {
		filters = append(filters, runner.IgnoreFilter{Reason: m.Type.Markers.IgnoreReason})
	}
	if m.Type != nil {
		for _, sibling := range intro.Methods(m.Type) {
			if sibling.Func == nil {
				continue
			}
			switch {
			case sibling.Markers.Setup:
				filters = append(filters, runner.SetupFilter{Name: sibling.Name, Fn: sibling.Func})
			case sibling.Markers.TearDown:
				filters = append(filters, runner.TearDownFilter{Name: sibling.Name, Fn: sibling.Func})
			}
		}
		test.SetInstanceFactory(c.factory(m.Type))
	}
	if ef := mk.ExpectedFailure; ef != nil {
		filters = append(filters, &runner.ExpectedFailureFilter{Type: ef.Type, Message: ef.Message})
	}
	filters = append(filters, mk.Filters...)
	return addFilters(test, filters)
}

// ConfigureClass applies the type markers and its suite setup and teardown
// routines to a class suite.
func (c DefaultConfigurator) ConfigureClass(suite *runner.Suite, t *provider.Type, intro provider.Introspector) error {
	mk := t.Markers
	suite.SetCategory(mk.Category)
	suite.SetDescription(mk.Description)
	suite.SetInstanceFactory(c.factory(t))

	var filters []runner.Filter
	if mk.Ignore {
		filters = append(filters, runner.IgnoreFilter{Reason: mk.IgnoreReason})
	}
	for _, m := range intro.Methods(t) {
		if m.Func == nil {
			continue
		}
		switch {
		case m.Markers.SuiteSetup:
			filters = append(filters, runner.SetupFilter{Name: m.Name, Fn: m.Func})
		case m.Markers.SuiteTearDown:
			filters = append(filters, runner.TearDownFilter{Name: m.Name, Fn: m.Func})
		}
	}
	filters = append(filters, mk.Filters...)
	return addFilters(suite, filters)
}

// ConfigureAssembly attaches every assembly setup and teardown routine,
// in discovery order.
func (c DefaultConfigurator) ConfigureAssembly(suite *runner.Suite, intro provider.Introspector) error {
	var filters []runner.Filter
	for _, t := range intro.Types() {
		for _, m := range intro.Methods(t) {
			if m.Func == nil {
				continue
			}
			switch {
			case m.Markers.AssemblySetup:
				filters = append(filters, runner.SetupFilter{Name: m.Name, Fn: m.Func})
			case m.Markers.AssemblyTearDown:
				filters = append(filters, runner.TearDownFilter{Name: m.Name, Fn: m.Func})
			}
		}
	}
	return addFilters(suite, filters)
}

// factory returns nil for types that cannot be constructed and are not
// fixtures; their methods run without an instance.
func (c DefaultConfigurator) factory(t *provider.Type) runner.InstanceFactory {
	instances := c.Instances
	if instances == nil {
		if t.New == nil && !t.Markers.Fixture {
			return nil
		}
		instances = provider.ConstructorProvider{}
	}
	return func() (any, error) { return instances.NewInstance(t) }
}

type filterable interface {
	AddFilter(f runner.Filter) error
}

func addFilters(target filterable, filters []runner.Filter) error {
	for _, f := range filters {
		if err := target.AddFilter(f); err != nil {
			return err
		}
	}
	return nil
}
