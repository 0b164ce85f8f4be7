// Package mock records expected calls on test doubles and checks the calls
// the code under test actually makes against them.
//
// A double embeds *Mock and forwards each intercepted call:
//
//	type fakeStore struct{ *mock.Mock }
//
//	func (f fakeStore) Get(key string) (string, error) {
//		return mock.Value[string](f.RecordCall("Get", key))
//	}
//
//	reg := mock.NewRegistry()
//	store := fakeStore{mock.New[Store](reg)}
//	store.Expects("Get", mock.Any[string]()).ToBeInvoked(2).AndReturn("a", "b")
package mock

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/pkg/errors"
)

// Interceptor is anything that can stand in for a mocked call.
type Interceptor interface {
	RecordCall(member string, args ...any) (any, error)
}

// Mock intercepts calls made on behalf of a target type.
type Mock struct {
	reg    *Registry
	target reflect.Type
}

var _ Interceptor = (*Mock)(nil)

// New binds a mock of type T to reg.
func New[T any](reg *Registry) *Mock {
	if reg == nil {
		panic(&ArgumentError{Op: "mock.New", Reason: "nil registry"})
	}
	return &Mock{reg: reg, target: reflect.TypeFor[T]()}
}

// Target is the mocked type.
func (m *Mock) Target() reflect.Type { return m.target }

// Registry is the session registry the mock records into.
func (m *Mock) Registry() *Registry { return m.reg }

// Expect validates c against the target type and registers it.
func (m *Mock) Expect(c Call) (*Expectation, error) {
	if err := m.validate(c); err != nil {
		return nil, err
	}
	e := &Expectation{target: m.target, kind: c.Kind, member: c.Member, expected: 1}
	for _, arg := range c.Args {
		e.args = append(e.args, toMatcher(arg))
	}
	m.reg.add(e)
	return e, nil
}

// Expects registers a method call expectation and panics when it is invalid.
func (m *Mock) Expects(member string, args ...any) *Expectation {
	e, err := m.Expect(Method(member, args...))
	if err != nil {
		panic(err)
	}
	return e
}

// ExpectsProperty registers a property read expectation and panics when it
// is invalid.
func (m *Mock) ExpectsProperty(member string) *Expectation {
	e, err := m.Expect(Property(member))
	if err != nil {
		panic(err)
	}
	return e
}

// RecordCall matches a method call against the registry and returns the
// effect of the first matching expectation.
func (m *Mock) RecordCall(member string, args ...any) (any, error) {
	return m.record(call{target: m.target, kind: CallMethod, member: member, args: args})
}

// RecordGet matches a property read.
func (m *Mock) RecordGet(member string) (any, error) {
	return m.record(call{target: m.target, kind: CallProperty, member: member})
}

type call struct {
	target reflect.Type
	kind   CallKind
	member string
	args   []any
}

func (c call) String() string {
	if c.kind == CallProperty {
		return c.member
	}
	parts := make([]string, len(c.args))
	for i, a := range c.args {
		parts[i] = fmt.Sprintf("%#v", a)
	}
	return c.member + "(" + strings.Join(parts, ", ") + ")"
}

func (m *Mock) record(c call) (any, error) {
	e := m.reg.find(c)
	if e == nil {
		m.reg.logger.Debug("unmatched mock call", "target", m.target.String(), "call", c.String())
		if m.reg.strict {
			return nil, &UnexpectedCallError{Target: m.target.String(), Call: c.String()}
		}
		return nil, nil
	}
	return e.invoke(c.args)
}

func (m *Mock) validate(c Call) error {
	invalid := func(reason string, args ...any) error {
		return &InvalidExpectationError{Target: m.target.String(), Member: c.Member, Reason: fmt.Sprintf(reason, args...)}
	}
	if c.Member == "" {
		return invalid("member name is empty")
	}
	switch c.Kind {
	case CallMethod:
	case CallProperty:
		if len(c.Args) > 0 {
			return invalid("property read takes no arguments")
		}
	default:
		return invalid("unsupported call kind %s", c.Kind)
	}

	params, variadic, found, checked := m.signature(c)
	if !checked {
		return nil
	}
	if !found {
		return invalid("%s has no %s named %s", m.target, c.Kind, c.Member)
	}
	switch {
	case variadic && len(c.Args) < params-1:
		return invalid("want at least %d arguments, got %d", params-1, len(c.Args))
	case !variadic && len(c.Args) != params:
		return invalid("want %d arguments, got %d", params, len(c.Args))
	}
	return nil
}

// signature looks c.Member up on the target. checked is false for targets
// without a method set to check against.
func (m *Mock) signature(c Call) (params int, variadic, found, checked bool) {
	t := m.target
	switch t.Kind() {
	case reflect.Interface:
		method, ok := t.MethodByName(c.Member)
		if !ok {
			return 0, false, false, true
		}
		return method.Type.NumIn(), method.Type.IsVariadic(), true, true
	case reflect.Struct:
		if c.Kind == CallProperty {
			if _, ok := t.FieldByName(c.Member); ok {
				return 0, false, true, true
			}
		}
		method, ok := reflect.PointerTo(t).MethodByName(c.Member)
		if !ok {
			return 0, false, false, true
		}
		// The receiver is the first input of a method value taken from the type.
		return method.Type.NumIn() - 1, method.Type.IsVariadic(), true, true
	case reflect.Pointer:
		method, ok := t.MethodByName(c.Member)
		if !ok {
			return 0, false, false, true
		}
		return method.Type.NumIn() - 1, method.Type.IsVariadic(), true, true
	default:
		return 0, false, false, false
	}
}

// Value converts the result of RecordCall to T. A nil value yields the zero
// T; a value of another type is an error.
func Value[T any](v any, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	out, ok := v.(T)
	if !ok {
		return zero, errors.Errorf("mock returned %T, want %s", v, reflect.TypeFor[T]())
	}
	return out, nil
}
