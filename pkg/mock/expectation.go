package mock

import (
	"fmt"
	"reflect"
	"strings"
)

// CallKind distinguishes method calls from property reads.
type CallKind int

const (
	CallMethod CallKind = iota + 1
	CallProperty
)

func (k CallKind) String() string {
	switch k {
	case CallMethod:
		return "method"
	case CallProperty:
		return "property"
	default:
		return fmt.Sprintf("CallKind(%d)", int(k))
	}
}

// Call is the shape of an expected invocation: a member name plus argument
// patterns. Arguments may be Matchers or literal values.
type Call struct {
	Kind   CallKind
	Member string
	Args   []any
}

// Method describes a call to member with args.
func Method(member string, args ...any) Call {
	return Call{Kind: CallMethod, Member: member, Args: args}
}

// Property describes a read of member.
func Property(member string) Call {
	return Call{Kind: CallProperty, Member: member}
}

// Expectation is a recorded call the code under test is expected to make.
// Builder methods panic with *ArgumentError on invalid input.
type Expectation struct {
	target   reflect.Type
	kind     CallKind
	member   string
	args     []Matcher
	expected int
	actual   int
	returns  []any
	callback func(args []any)
}

// ToBeInvoked sets the expected invocation count. The default is one.
func (e *Expectation) ToBeInvoked(n int) *Expectation {
	if n < 0 {
		panic(&ArgumentError{Op: "ToBeInvoked", Reason: fmt.Sprintf("invocation count %d is negative", n)})
	}
	if e.returns != nil && len(e.returns) != n {
		panic(&ArgumentError{
			Op:     "ToBeInvoked",
			Reason: fmt.Sprintf("%d return values already set for %d invocations", len(e.returns), n),
		})
	}
	e.expected = n
	return e
}

// WillReturn sets the value returned by each successive invocation. There
// must be exactly one value per expected invocation.
func (e *Expectation) WillReturn(values ...any) *Expectation {
	if len(values) != e.expected {
		panic(&ArgumentError{
			Op:     "WillReturn",
			Reason: fmt.Sprintf("got %d return values for %d expected invocations", len(values), e.expected),
		})
	}
	e.returns = append([]any(nil), values...)
	return e
}

// AndReturn is WillReturn, for chaining after ToBeInvoked.
func (e *Expectation) AndReturn(values ...any) *Expectation {
	return e.WillReturn(values...)
}

// WillExecuteCallback runs fn with the live arguments on every matched
// invocation, before the return value is produced.
func (e *Expectation) WillExecuteCallback(fn func(args []any)) *Expectation {
	if fn == nil {
		panic(&ArgumentError{Op: "WillExecuteCallback", Reason: "nil callback"})
	}
	e.callback = fn
	return e
}

func (e *Expectation) Member() string       { return e.member }
func (e *Expectation) Kind() CallKind       { return e.kind }
func (e *Expectation) Target() reflect.Type { return e.target }
func (e *Expectation) Expected() int        { return e.expected }
func (e *Expectation) Actual() int          { return e.actual }

// Satisfied reports whether the actual invocation count equals the expected
// one.
func (e *Expectation) Satisfied() bool { return e.actual == e.expected }

func (e *Expectation) String() string {
	name := e.target.String() + "." + e.member
	if e.kind == CallProperty {
		return name
	}
	parts := make([]string, len(e.args))
	for i, m := range e.args {
		parts[i] = m.String()
	}
	return name + "(" + strings.Join(parts, ", ") + ")"
}

func (e *Expectation) matches(target reflect.Type, kind CallKind, member string, args []any) bool {
	if e.target != target || e.kind != kind || e.member != member || len(e.args) != len(args) {
		return false
	}
	for i, m := range e.args {
		if !m.Matches(args[i]) {
			return false
		}
	}
	return true
}

// invoke accounts for one matched call and produces its return value.
func (e *Expectation) invoke(args []any) (any, error) {
	e.actual++
	if e.actual > e.expected {
		return nil, &InvocationError{Expectation: e.String(), Expected: e.expected, Actual: e.actual}
	}
	if e.callback != nil {
		e.callback(args)
	}
	if e.returns == nil {
		return nil, nil
	}
	return e.returns[e.actual-1], nil
}
