package report

import (
	"time"

	"github.com/pkg/errors"
)

// ErrInvalidArgument signals a nil or otherwise unusable argument passed to a
// public API. It is a programming error and is never turned into a test
// outcome.
var ErrInvalidArgument = errors.New("invalid argument")

// Result is the read-only view of a finished or running unit.
type Result interface {
	Name() string
	Status() Status
	Message() string
	StartTime() time.Time
	EndTime() time.Time
	ExecutionTime() time.Duration
	ExecutionTimeInSeconds() float64
	Errors() []error
}

// Recorder is the mutable side of a result. Only the runner drives it.
type Recorder interface {
	Result
	SetStatus(status Status)
	SetMessage(msg string)
	SetStartTime(t time.Time)
	SetEndTime(t time.Time)
	AddError(err error) error
}

type outcome struct {
	name    string
	status  Status
	message string
	start   time.Time
	end     time.Time
	errs    []error
}

func (o *outcome) Name() string          { return o.name }
func (o *outcome) Status() Status        { return o.status }
func (o *outcome) Message() string       { return o.message }
func (o *outcome) StartTime() time.Time  { return o.start }
func (o *outcome) EndTime() time.Time    { return o.end }
func (o *outcome) SetStatus(s Status)    { o.status = s }
func (o *outcome) SetMessage(msg string) { o.message = msg }
func (o *outcome) SetStartTime(t time.Time) {
	o.start = t
}
func (o *outcome) SetEndTime(t time.Time) {
	o.end = t
}

// ExecutionTime is EndTime minus StartTime, clamped at zero so that results
// still running or stamped by a skewed clock never report negative durations.
func (o *outcome) ExecutionTime() time.Duration {
	if o.start.IsZero() || o.end.IsZero() {
		return 0
	}
	d := o.end.Sub(o.start)
	if d < 0 {
		return 0
	}
	return d
}

func (o *outcome) ExecutionTimeInSeconds() float64 {
	return o.ExecutionTime().Seconds()
}

// Errors returns a copy of the captured errors in capture order.
func (o *outcome) Errors() []error {
	if len(o.errs) == 0 {
		return nil
	}
	return append([]error(nil), o.errs...)
}

// AddError appends err to the captured errors.
func (o *outcome) AddError(err error) error {
	if err == nil {
		return errors.Wrap(ErrInvalidArgument, "add error: nil error")
	}
	o.errs = append(o.errs, err)
	return nil
}

// MethodResult is the result of a single test method.
type MethodResult struct {
	outcome
	category string
}

// NewMethodResult returns a result in the not-run state.
func NewMethodResult(name, category string) *MethodResult {
	return &MethodResult{outcome: outcome{name: name, status: StatusNotRun}, category: category}
}

// Category is the category of the test that produced the result.
func (m *MethodResult) Category() string { return m.category }

// SuiteResult aggregates the results of a suite's children.
type SuiteResult struct {
	outcome
	children []Result
}

// NewSuiteResult returns an empty suite result in the not-run state.
func NewSuiteResult(name string) *SuiteResult {
	return &SuiteResult{outcome: outcome{name: name, status: StatusNotRun}}
}

// AddResult appends a child result. Children keep insertion order.
func (s *SuiteResult) AddResult(child Result) error {
	if child == nil {
		return errors.Wrap(ErrInvalidArgument, "add result: nil result")
	}
	s.children = append(s.children, child)
	return nil
}

// AllTests returns every direct child result.
func (s *SuiteResult) AllTests() []Result {
	return append([]Result(nil), s.children...)
}

// PassedTests returns the direct children that passed.
func (s *SuiteResult) PassedTests() []Result { return s.byStatus(StatusPass) }

// FailedTests returns the direct children that failed.
func (s *SuiteResult) FailedTests() []Result { return s.byStatus(StatusFail) }

// ErredTests returns the direct children that erred.
func (s *SuiteResult) ErredTests() []Result { return s.byStatus(StatusError) }

// IgnoredTests returns the direct children that were ignored.
func (s *SuiteResult) IgnoredTests() []Result { return s.byStatus(StatusIgnore) }

func (s *SuiteResult) byStatus(status Status) []Result {
	var out []Result
	for _, child := range s.children {
		if child.Status() == status {
			out = append(out, child)
		}
	}
	return out
}

// AllErrors returns the suite's own errors followed by every descendant
// error, depth first in child order.
func (s *SuiteResult) AllErrors() []error {
	out := s.Errors()
	for _, child := range s.children {
		if nested, ok := child.(*SuiteResult); ok {
			out = append(out, nested.AllErrors()...)
			continue
		}
		out = append(out, child.Errors()...)
	}
	return out
}

// Walk visits r and its descendants depth first. Returning false from fn
// stops descent below the current node.
func Walk(r Result, fn func(r Result, depth int) bool) {
	walk(r, 0, fn)
}

func walk(r Result, depth int, fn func(Result, int) bool) {
	if r == nil || !fn(r, depth) {
		return
	}
	if suite, ok := r.(*SuiteResult); ok {
		for _, child := range suite.children {
			walk(child, depth+1, fn)
		}
	}
}
