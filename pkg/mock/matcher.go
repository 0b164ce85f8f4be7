package mock

import (
	"fmt"
	"reflect"
)

// Matcher decides whether a live argument satisfies an expectation.
type Matcher interface {
	Matches(arg any) bool
	String() string
}

type anyOf struct {
	typ reflect.Type
}

// Any matches every argument whose dynamic type is exactly T. When T is an
// interface type, values implementing it and nil match.
func Any[T any]() Matcher {
	return anyOf{typ: reflect.TypeFor[T]()}
}

func (m anyOf) Matches(arg any) bool {
	if arg == nil {
		return m.typ.Kind() == reflect.Interface
	}
	got := reflect.TypeOf(arg)
	if m.typ.Kind() == reflect.Interface {
		return got.Implements(m.typ)
	}
	return got == m.typ
}

func (m anyOf) String() string { return fmt.Sprintf("Any[%s]", m.typ) }

type predicate[T any] struct {
	fn func(T) bool
}

// Match accepts arguments of type T for which fn returns true.
func Match[T any](fn func(T) bool) Matcher {
	return predicate[T]{fn: fn}
}

func (m predicate[T]) Matches(arg any) bool {
	v, ok := arg.(T)
	if !ok {
		return false
	}
	return m.fn(v)
}

func (m predicate[T]) String() string {
	return fmt.Sprintf("Match[%s]", reflect.TypeFor[T]())
}

type literal struct {
	value any
}

// Eq matches arguments deeply equal to v. Plain values passed to Expects
// are wrapped with Eq.
func Eq(v any) Matcher { return literal{value: v} }

func (m literal) Matches(arg any) bool {
	if isNil(m.value) || isNil(arg) {
		return isNil(m.value) && isNil(arg)
	}
	return reflect.DeepEqual(m.value, arg)
}

func (m literal) String() string {
	if s, ok := m.value.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%v", m.value)
}

func toMatcher(arg any) Matcher {
	if m, ok := arg.(Matcher); ok {
		return m
	}
	return Eq(arg)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return rv.IsNil()
	}
	return false
}
