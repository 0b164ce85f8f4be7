package runner

import (
	"fmt"
	"math"
	"reflect"
	"slices"

	"github.com/bgricker/unitkit/pkg/report"
)

// Filter ordering slots. Pre-filters run in ascending order around the
// built-in setup slot; post-filters run in ascending order around the
// built-in teardown slot. Ties keep declaration order.
const (
	OrderIgnore         = math.MinInt
	OrderBeforeSetup    = 0
	OrderSetup          = 1
	OrderAfterSetup     = 2
	OrderBeforeTearDown = -2
	OrderTearDown       = -1
	OrderAfterTearDown  = 0
)

// Filter is a unit of pre or post behaviour with an ordering slot.
type Filter interface {
	Order() int
}

// PreFilter runs before the unit body.
type PreFilter interface {
	Filter
	Before(ctx *Context) error
}

// PostFilter runs after the unit body, whatever the outcome.
type PostFilter interface {
	Filter
	After(ctx *Context) error
}

func sortFilters[F Filter](filters []F) []F {
	out := slices.Clone(filters)
	slices.SortStableFunc(out, func(a, b F) int {
		switch {
		case a.Order() < b.Order():
			return -1
		case a.Order() > b.Order():
			return 1
		default:
			return 0
		}
	})
	return out
}

// splitIgnores separates the filters in the ignore slot, which run before
// the unit instance is built, from the rest of the pre-phase.
func splitIgnores(filters []PreFilter) (ignores, rest []PreFilter) {
	for _, f := range filters {
		if f.Order() == OrderIgnore {
			ignores = append(ignores, f)
		} else {
			rest = append(rest, f)
		}
	}
	return ignores, rest
}

// runPre runs pre-filters in order. An ignore signal stops the phase and is
// returned; any other failure is classified onto ctx and also stops it.
func runPre(ctx *Context, filters []PreFilter) *IgnoreSignal {
	for _, f := range sortFilters(filters) {
		err := guard(func() error { return f.Before(ctx) })
		if err == nil {
			continue
		}
		var ig *IgnoreSignal
		if asIgnore(err, &ig) {
			return ig
		}
		ctx.logger().Warn("pre-filter failed", "unit", unitName(ctx.Unit), "filter", filterLabel(f), "order", f.Order(), "error", err)
		classify(ctx, "setup", err)
		return nil
	}
	return nil
}

// runPost runs every post-filter. Their errors are collected and applied
// once the phase is over so no later filter can mask them.
func runPost(ctx *Context, filters []PostFilter) {
	for _, f := range sortFilters(filters) {
		err := guard(func() error { return f.After(ctx) })
		if err == nil {
			continue
		}
		ctx.logger().Warn("post-filter failed", "unit", unitName(ctx.Unit), "filter", filterLabel(f), "order", f.Order(), "error", err)
		ctx.postErrs = append(ctx.postErrs, &TestError{Phase: "teardown", err: err})
	}
	if len(ctx.postErrs) == 0 {
		return
	}
	if ctx.Result.Status() != report.StatusError {
		ctx.Result.SetMessage(ctx.postErrs[0].Error())
	}
	ctx.Result.SetStatus(report.StatusError)
}

// IgnoreFilter marks a unit as ignored. It sorts ahead of every other
// pre-filter and stops the pre-phase.
type IgnoreFilter struct {
	Reason string
}

func (IgnoreFilter) Order() int { return OrderIgnore }

func (f IgnoreFilter) Before(*Context) error {
	return &IgnoreSignal{Reason: f.Reason}
}

// SetupFilter invokes a setup routine on the instance. Its order is fixed.
type SetupFilter struct {
	Name string
	Fn   func(instance any) error
}

func (SetupFilter) Order() int { return OrderSetup }

func (f SetupFilter) Before(ctx *Context) error {
	return f.Fn(ctx.Instance)
}

// TearDownFilter invokes a teardown routine on the instance. Its order is
// fixed.
type TearDownFilter struct {
	Name string
	Fn   func(instance any) error
}

func (TearDownFilter) Order() int { return OrderTearDown }

func (f TearDownFilter) After(ctx *Context) error {
	return f.Fn(ctx.Instance)
}

// PreFunc is a custom pre-filter.
type PreFunc struct {
	At int
	Fn func(ctx *Context) error
}

func (f PreFunc) Order() int                { return f.At }
func (f PreFunc) Before(ctx *Context) error { return f.Fn(ctx) }

// PostFunc is a custom post-filter.
type PostFunc struct {
	At int
	Fn func(ctx *Context) error
}

func (f PostFunc) Order() int               { return f.At }
func (f PostFunc) After(ctx *Context) error { return f.Fn(ctx) }

// ExpectedFailureFilter turns a unit that raised the expected error into a
// pass, and a unit that did not into a failure.
type ExpectedFailureFilter struct {
	// Type is the expected type of the innermost cause. Interface types
	// match any cause implementing them.
	Type reflect.Type
	// Message, when set, must equal the innermost cause's message.
	Message string
}

// ExpectFailure builds an ExpectedFailureFilter for error type T.
func ExpectFailure[T error](message string) *ExpectedFailureFilter {
	return &ExpectedFailureFilter{Type: reflect.TypeFor[T](), Message: message}
}

func (f *ExpectedFailureFilter) Order() int { return OrderAfterTearDown }

func (f *ExpectedFailureFilter) After(ctx *Context) error {
	if f.Type == nil {
		return fmt.Errorf("expected failure filter: %w", report.ErrInvalidArgument)
	}
	if ctx.Result.Status() == report.StatusIgnore {
		return nil
	}
	if ctx.Failure == nil {
		f.fail(ctx, nil, fmt.Sprintf("expected %s but it was never thrown", f.Type))
		return nil
	}
	// Only the body can raise the expected failure; setup and construction
	// failures keep their outcome.
	if ctx.failurePhase != "body" {
		return nil
	}
	cause := rootCause(ctx.Failure)
	got := reflect.TypeOf(cause)
	if !f.matches(got) {
		f.fail(ctx, ctx.Failure, fmt.Sprintf("expected %s but %s was thrown: %s", f.Type, got, cause.Error()))
		return nil
	}
	if f.Message != "" && cause.Error() != f.Message {
		f.fail(ctx, ctx.Failure, fmt.Sprintf("expected %s with message %q but got %q", f.Type, f.Message, cause.Error()))
		return nil
	}
	ctx.Failure = nil
	ctx.Result.SetMessage("")
	ctx.Result.SetStatus(report.StatusPass)
	return nil
}

func (f *ExpectedFailureFilter) matches(got reflect.Type) bool {
	if got == nil {
		return false
	}
	if f.Type.Kind() == reflect.Interface {
		return got.Implements(f.Type)
	}
	return got == f.Type
}

func (f *ExpectedFailureFilter) fail(ctx *Context, cause error, msg string) {
	ctx.Failure = &AssertionError{Message: msg, Cause: cause}
	ctx.Result.SetMessage(msg)
	ctx.Result.SetStatus(report.StatusFail)
}

// filterLabel names f for diagnostics: the routine name of setup and
// teardown filters, else its type.
func filterLabel(f Filter) string {
	switch v := f.(type) {
	case SetupFilter:
		if v.Name != "" {
			return "setup " + v.Name
		}
	case TearDownFilter:
		if v.Name != "" {
			return "teardown " + v.Name
		}
	}
	return fmt.Sprintf("%T", f)
}

func unitName(u Unit) string {
	if u == nil {
		return ""
	}
	return u.Name()
}
