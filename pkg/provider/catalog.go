package provider

import (
	"reflect"

	"github.com/bgricker/unitkit/pkg/runner"
)

// Catalog is an in-memory Introspector. Test packages register their
// fixtures and functions on it; registration order is discovery order.
//
// A Catalog is not safe for concurrent registration.
type Catalog struct {
	name  string
	types []*Type
}

// NewCatalog returns an empty catalog for the named assembly.
func NewCatalog(name string) *Catalog {
	return &Catalog{name: name}
}

func (c *Catalog) Name() string { return c.name }

// Types returns the registered types in registration order.
func (c *Catalog) Types() []*Type {
	return append([]*Type(nil), c.types...)
}

// Methods returns the methods registered on t.
func (c *Catalog) Methods(t *Type) []*Method {
	if t == nil {
		return nil
	}
	return append([]*Method(nil), t.methods...)
}

// IsFixture reports whether t carries the fixture marker.
func (c *Catalog) IsFixture(t *Type) bool {
	return t != nil && t.Markers.Fixture
}

// Lookup finds a type by its namespace-qualified name.
func (c *Catalog) Lookup(fullName string) *Type {
	for _, t := range c.types {
		if t.FullName() == fullName {
			return t
		}
	}
	return nil
}

// Fixture registers a fixture type constructed by newFn.
func (c *Catalog) Fixture(namespace, name string, newFn func() any, opts ...Option) *Type {
	t := &Type{Name: name, Namespace: namespace, New: newFn}
	t.Markers.Fixture = true
	for _, opt := range opts {
		opt(&t.Markers)
	}
	c.types = append(c.types, t)
	return t
}

// Type registers a plain, non-fixture type.
func (c *Catalog) Type(namespace, name string, opts ...Option) *Type {
	t := &Type{Name: name, Namespace: namespace}
	for _, opt := range opts {
		opt(&t.Markers)
	}
	c.types = append(c.types, t)
	return t
}

// Func registers a free test function in namespace. Free functions hang off
// a non-fixture holder type named after the namespace.
func (c *Catalog) Func(namespace, name string, fn func() error, opts ...Option) *Method {
	holder := c.holder(namespace)
	return holder.AddTest(name, func(any) error { return fn() }, opts...)
}

// AddAssemblySetup registers a routine run once before every suite.
func (c *Catalog) AddAssemblySetup(name string, fn func() error) *Method {
	m := c.holder("").add(name, func(any) error { return fn() }, nil)
	m.Markers.AssemblySetup = true
	return m
}

// AddAssemblyTearDown registers a routine run once after every suite.
func (c *Catalog) AddAssemblyTearDown(name string, fn func() error) *Method {
	m := c.holder("").add(name, func(any) error { return fn() }, nil)
	m.Markers.AssemblyTearDown = true
	return m
}

func (c *Catalog) holder(namespace string) *Type {
	name := "funcs"
	for _, t := range c.types {
		if t.Namespace == namespace && t.Name == name && !t.Markers.Fixture {
			return t
		}
	}
	return c.Type(namespace, name)
}

// AddTest registers a test method on t.
func (t *Type) AddTest(name string, fn Func, opts ...Option) *Method {
	m := t.add(name, fn, opts)
	m.Markers.Test = true
	return m
}

// AddSetup registers a per-test setup method on t.
func (t *Type) AddSetup(name string, fn Func) *Method {
	m := t.add(name, fn, nil)
	m.Markers.Setup = true
	return m
}

// AddTearDown registers a per-test teardown method on t.
func (t *Type) AddTearDown(name string, fn Func) *Method {
	m := t.add(name, fn, nil)
	m.Markers.TearDown = true
	return m
}

// AddSuiteSetup registers a method run once before the fixture's tests.
func (t *Type) AddSuiteSetup(name string, fn Func) *Method {
	m := t.add(name, fn, nil)
	m.Markers.SuiteSetup = true
	return m
}

// AddSuiteTearDown registers a method run once after the fixture's tests.
func (t *Type) AddSuiteTearDown(name string, fn Func) *Method {
	m := t.add(name, fn, nil)
	m.Markers.SuiteTearDown = true
	return m
}

func (t *Type) add(name string, fn Func, opts []Option) *Method {
	m := &Method{Name: name, Type: t, Func: fn}
	for _, opt := range opts {
		opt(&m.Markers)
	}
	t.methods = append(t.methods, m)
	return m
}

// Option sets a marker.
type Option func(*Markers)

// Ignored marks the target as ignored for reason.
func Ignored(reason string) Option {
	return func(m *Markers) {
		m.Ignore = true
		m.IgnoreReason = reason
	}
}

// InCategory sets the category.
func InCategory(category string) Option {
	return func(m *Markers) { m.Category = category }
}

// Described sets the description.
func Described(description string) Option {
	return func(m *Markers) { m.Description = description }
}

// Named overrides the display name.
func Named(name string) Option {
	return func(m *Markers) { m.Name = name }
}

// Expecting declares that the test must raise an error of type T, with
// message when it is not empty.
func Expecting[T error](message string) Option {
	return func(m *Markers) {
		m.ExpectedFailure = &ExpectedFailure{Type: reflect.TypeFor[T](), Message: message}
	}
}

// WithFilter attaches a custom pipeline filter.
func WithFilter(f runner.Filter) Option {
	return func(m *Markers) { m.Filters = append(m.Filters, f) }
}
