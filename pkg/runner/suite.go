package runner

import (
	"github.com/pkg/errors"

	"github.com/bgricker/unitkit/pkg/report"
)

// Kind tells what code surface a suite stands for.
type Kind string

const (
	KindClass     Kind = "class"
	KindNamespace Kind = "namespace"
	KindAssembly  Kind = "assembly"
)

// Suite is an ordered collection of units run one after another. Class and
// assembly suites carry suite-level filters (suite setup, suite teardown,
// ignore) that wrap the whole run.
type Suite struct {
	name        string
	kind        Kind
	category    string
	description string
	children    []Unit
	instance    InstanceFactory
	pre         []PreFilter
	post        []PostFilter
	observers   []Observer
}

// NewSuite returns an empty suite.
func NewSuite(name string, kind Kind) *Suite {
	return &Suite{name: name, kind: kind}
}

func (s *Suite) Name() string        { return s.name }
func (s *Suite) Kind() Kind          { return s.kind }
func (s *Suite) Category() string    { return s.category }
func (s *Suite) Description() string { return s.description }

func (s *Suite) SetCategory(category string)       { s.category = category }
func (s *Suite) SetDescription(description string) { s.description = description }

// SetInstanceFactory gives the suite its own instance, shared by every
// child, instead of the inherited one.
func (s *Suite) SetInstanceFactory(f InstanceFactory) { s.instance = f }

// Add appends child units in order.
func (s *Suite) Add(children ...Unit) error {
	for _, child := range children {
		if child == nil {
			return errors.Wrapf(report.ErrInvalidArgument, "suite %s: nil child", s.name)
		}
	}
	s.children = append(s.children, children...)
	return nil
}

// Children returns the child units in order.
func (s *Suite) Children() []Unit {
	return append([]Unit(nil), s.children...)
}

// AddFilter registers a suite-level filter.
func (s *Suite) AddFilter(f Filter) error {
	pre, post, err := splitFilter(f)
	if err != nil {
		return err
	}
	if pre != nil {
		s.pre = append(s.pre, pre)
	}
	if post != nil {
		s.post = append(s.post, post)
	}
	return nil
}

// Observe registers o for this suite's lifecycle events.
func (s *Suite) Observe(o Observer) {
	if o != nil {
		s.observers = append(s.observers, o)
	}
}

// Run executes every child in order and rolls their statuses up. When the
// suite is ignored or its setup fails, children are not run; each receives
// a result mirroring the suite outcome so the roll-up still holds.
func (s *Suite) Run(ctx *Context) report.Result {
	res := report.NewSuiteResult(s.name)
	ctx.reset(s, res)
	begin(ctx, s.observers)

	ignores, pre := splitIgnores(s.pre)
	if ig := runPre(ctx, ignores); ig != nil {
		markIgnored(ctx, ig)
	}

	if res.Status() == report.StatusRunning && s.instance != nil {
		ctx.Instance = construct(ctx, s.name, s.instance)
	}

	if ctx.Failure == nil && res.Status() == report.StatusRunning {
		if ig := runPre(ctx, pre); ig != nil {
			markIgnored(ctx, ig)
		}
	}

	if res.Status() == report.StatusRunning {
		for _, child := range s.children {
			childCtx := ctx.Child()
			_ = res.AddResult(child.Run(childCtx))
		}
	} else {
		for _, child := range s.children {
			_ = res.AddResult(skip(ctx, child, res.Status(), res.Message(), ctx.Failure))
		}
	}

	if res.Status() == report.StatusRunning || len(s.children) > 0 {
		res.SetStatus(report.Rollup(res.AllTests()))
	}

	runPost(ctx, s.post)
	finish(ctx, s.observers)
	return res
}

// skip produces the result of a unit that was never run because an
// enclosing suite was ignored or failed to set up.
func skip(parent *Context, u Unit, status report.Status, msg string, cause error) report.Result {
	ctx := parent.Child()
	now := ctx.now()
	var res report.Recorder
	var own []Observer
	switch unit := u.(type) {
	case *Suite:
		suite := report.NewSuiteResult(unit.name)
		for _, child := range unit.children {
			_ = suite.AddResult(skip(ctx, child, status, msg, cause))
		}
		res, own = suite, unit.observers
	case *Test:
		res, own = report.NewMethodResult(unit.name, unit.category), unit.observers
	default:
		res = report.NewMethodResult(u.Name(), u.Category())
	}
	ctx.reset(u, res)
	res.SetStartTime(now)
	res.SetEndTime(now)
	res.SetStatus(status)
	res.SetMessage(msg)
	if cause != nil && status != report.StatusIgnore {
		_ = res.AddError(cause)
	}
	notify(ctx, own, EventBeforeRun, u, res)
	notify(ctx, own, statusEvent(status), u, res)
	notify(ctx, own, EventAfterRun, u, res)
	return res
}
