package mock

import (
	"fmt"
	"strings"
)

// InvalidExpectationError reports an expectation whose call shape does not
// fit its target.
type InvalidExpectationError struct {
	Target string
	Member string
	Reason string
}

func (e *InvalidExpectationError) Error() string {
	if e.Member == "" {
		return fmt.Sprintf("invalid expectation on %s: %s", e.Target, e.Reason)
	}
	return fmt.Sprintf("invalid expectation %s.%s: %s", e.Target, e.Member, e.Reason)
}

// ArgumentError reports a bad argument to the expectation builder.
type ArgumentError struct {
	Op     string
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// InvocationError is returned when a matched call exceeds the expected
// invocation count.
type InvocationError struct {
	Expectation string
	Expected    int
	Actual      int
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("%s: expected to be invoked %d %s but was invoked %d %s",
		e.Expectation, e.Expected, times(e.Expected), e.Actual, times(e.Actual))
}

// UnexpectedCallError is returned by strict registries for calls no
// expectation matches.
type UnexpectedCallError struct {
	Target string
	Call   string
}

func (e *UnexpectedCallError) Error() string {
	return fmt.Sprintf("unexpected call %s on %s", e.Call, e.Target)
}

// Unmet describes one expectation that failed verification.
type Unmet struct {
	Expectation string
	Expected    int
	Actual      int
}

// VerificationError lists every expectation whose actual invocation count
// differs from the expected one.
type VerificationError struct {
	Unmet []Unmet
}

func (e *VerificationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d unmet mock expectation", len(e.Unmet))
	if len(e.Unmet) != 1 {
		b.WriteString("s")
	}
	for _, u := range e.Unmet {
		fmt.Fprintf(&b, "\n  %s: expected %d %s, invoked %d %s",
			u.Expectation, u.Expected, times(u.Expected), u.Actual, times(u.Actual))
	}
	return b.String()
}

func times(n int) string {
	if n == 1 {
		return "time"
	}
	return "times"
}
