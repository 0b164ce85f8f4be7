package mock

import (
	"github.com/bgricker/unitkit/pkg/logging"
)

// Registry holds the expectations of one test session. Mocks bound to the
// same registry share it. Reset it between tests.
//
// A Registry is not safe for concurrent use.
type Registry struct {
	expectations []*Expectation
	strict       bool
	logger       logging.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// Strict makes unmatched calls return *UnexpectedCallError instead of nil.
func Strict(strict bool) Option {
	return func(r *Registry) { r.strict = strict }
}

// WithLogger sets the logger used for unmatched calls.
func WithLogger(l logging.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.OrNop(r.logger)
	return r
}

// Configure applies opts to an existing registry.
func (r *Registry) Configure(opts ...Option) {
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.OrNop(r.logger)
}

// Reset drops every recorded expectation.
func (r *Registry) Reset() {
	r.expectations = nil
}

// Expectations returns the recorded expectations in registration order.
func (r *Registry) Expectations() []*Expectation {
	return append([]*Expectation(nil), r.expectations...)
}

// Verify returns a *VerificationError listing every expectation whose
// actual invocation count differs from the expected one.
func (r *Registry) Verify() error {
	var unmet []Unmet
	for _, e := range r.expectations {
		if !e.Satisfied() {
			unmet = append(unmet, Unmet{Expectation: e.String(), Expected: e.expected, Actual: e.actual})
		}
	}
	if len(unmet) == 0 {
		return nil
	}
	return &VerificationError{Unmet: unmet}
}

func (r *Registry) add(e *Expectation) {
	r.expectations = append(r.expectations, e)
}

func (r *Registry) find(c call) *Expectation {
	for _, e := range r.expectations {
		if e.matches(c.target, c.kind, c.member, c.args) {
			return e
		}
	}
	return nil
}
