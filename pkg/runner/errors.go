package runner

import (
	"fmt"

	"github.com/pkg/errors"
)

// AssertionError signals a failed expectation inside a test body. It maps
// to a Fail outcome.
type AssertionError struct {
	Message string
	Cause   error
}

func (e *AssertionError) Error() string { return e.Message }

// Unwrap exposes the error that triggered the assertion, if any.
func (e *AssertionError) Unwrap() error { return e.Cause }

// Failf builds an AssertionError. Test bodies return it or panic with it.
func Failf(format string, args ...any) error {
	return &AssertionError{Message: fmt.Sprintf(format, args...)}
}

// IgnoreSignal short-circuits a unit into the Ignore state.
type IgnoreSignal struct {
	Reason string
}

func (s *IgnoreSignal) Error() string {
	if s.Reason == "" {
		return "ignored"
	}
	return "ignored: " + s.Reason
}

// Ignore returns an IgnoreSignal carrying reason.
func Ignore(reason string) error {
	return &IgnoreSignal{Reason: reason}
}

// TestError wraps any non-assertion failure raised by a body or a filter.
// The original error stays reachable through Cause and Unwrap.
type TestError struct {
	Phase string
	err   error
}

func (e *TestError) Error() string { return e.err.Error() }
func (e *TestError) Cause() error  { return e.err }
func (e *TestError) Unwrap() error { return e.err }

// PanicError carries a recovered panic value that was not an error.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string { return fmt.Sprint(e.Value) }

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// guard runs fn and converts a panic into an error. Errors that lack a stack
// get the panicking goroutine's stack attached.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recovered(r)
		}
	}()
	return fn()
}

func recovered(r any) error {
	e, ok := r.(error)
	if !ok {
		return errors.WithStack(&PanicError{Value: r})
	}
	var ae *AssertionError
	var ig *IgnoreSignal
	if errors.As(e, &ae) || errors.As(e, &ig) {
		return e
	}
	if _, ok := e.(stackTracer); ok {
		return e
	}
	return errors.WithStack(e)
}

// rootCause unwraps err down to its innermost cause, following both Cause
// and Unwrap chains.
func rootCause(err error) error {
	for err != nil {
		if c, ok := err.(interface{ Cause() error }); ok && c.Cause() != nil {
			err = c.Cause()
			continue
		}
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
	return nil
}
