// Package provider describes the code surface tests are discovered from:
// types grouped by namespace, their methods and the declarative markers
// attached to both.
package provider

import (
	"reflect"

	"github.com/pkg/errors"

	"github.com/bgricker/unitkit/pkg/runner"
)

// ErrNoConstructor is returned when a fixture type cannot be instantiated.
var ErrNoConstructor = errors.New("type has no constructor")

// Func is the code behind a method. Free functions ignore the instance.
type Func func(instance any) error

// Markers are the declarative annotations on a type or a method.
type Markers struct {
	// Fixture marks a type whose test methods form a class suite.
	Fixture bool `json:"fixture,omitempty"`
	// Test marks a method as a runnable test.
	Test bool `json:"test,omitempty"`

	Ignore       bool   `json:"ignore,omitempty"`
	IgnoreReason string `json:"ignore_reason,omitempty"`
	Name         string `json:"name,omitempty"`
	Category     string `json:"category,omitempty"`
	Description  string `json:"description,omitempty"`

	Setup            bool `json:"setup,omitempty"`
	TearDown         bool `json:"teardown,omitempty"`
	SuiteSetup       bool `json:"suite_setup,omitempty"`
	SuiteTearDown    bool `json:"suite_teardown,omitempty"`
	AssemblySetup    bool `json:"assembly_setup,omitempty"`
	AssemblyTearDown bool `json:"assembly_teardown,omitempty"`

	ExpectedFailure *ExpectedFailure `json:"expected_failure,omitempty"`

	// Filters are custom pipeline filters attached by the author.
	Filters []runner.Filter `json:"-"`
}

// ExpectedFailure declares the error a test is expected to raise.
type ExpectedFailure struct {
	Type    reflect.Type `json:"-"`
	Message string       `json:"message,omitempty"`
}

// Type is a declared type, possibly a fixture.
type Type struct {
	Name      string
	Namespace string
	Markers   Markers
	// New constructs an instance. Fixtures without one cannot run instance
	// methods.
	New     func() any
	methods []*Method
}

// FullName is the namespace-qualified type name.
func (t *Type) FullName() string {
	if t.Namespace == "" {
		return t.Name
	}
	return t.Namespace + "." + t.Name
}

// Method looks up a declared method by name.
func (t *Type) Method(name string) *Method {
	for _, m := range t.methods {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// Method is a declared method and its markers.
type Method struct {
	Name    string
	Type    *Type
	Markers Markers
	Func    Func
}

// FullName is the type-qualified method name.
func (m *Method) FullName() string {
	if m.Type == nil {
		return m.Name
	}
	return m.Type.FullName() + "." + m.Name
}

// DisplayName is the name override when present, else the method name.
func (m *Method) DisplayName() string {
	if m.Markers.Name != "" {
		return m.Markers.Name
	}
	return m.Name
}

// Introspector enumerates a code surface in a stable order.
type Introspector interface {
	// Name identifies the assembly being inspected.
	Name() string
	// Types returns every declared type in discovery order.
	Types() []*Type
	// Methods returns the methods declared on t in discovery order.
	Methods(t *Type) []*Method
	// IsFixture reports whether t is marked as a test fixture.
	IsFixture(t *Type) bool
}

// InstanceProvider constructs the object instance methods run against.
type InstanceProvider interface {
	NewInstance(t *Type) (any, error)
}

// ConstructorProvider builds instances with each type's New function.
type ConstructorProvider struct{}

// NewInstance calls t.New.
func (ConstructorProvider) NewInstance(t *Type) (any, error) {
	if t == nil {
		return nil, errors.New("new instance: nil type")
	}
	if t.New == nil {
		return nil, errors.Wrapf(ErrNoConstructor, "new instance of %s", t.FullName())
	}
	return t.New(), nil
}
