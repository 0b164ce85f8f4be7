package runner

import (
	"github.com/pkg/errors"

	"github.com/bgricker/unitkit/pkg/report"
)

// Unit is anything that runs and produces exactly one result: a single test
// or a suite of units.
type Unit interface {
	Name() string
	Category() string
	Description() string
	Run(ctx *Context) report.Result
}

// Body is the code of a test method. It returns or panics with an
// *AssertionError to fail, an *IgnoreSignal to ignore, or any other error to
// err.
type Body func(instance any) error

// InstanceFactory builds the object a unit runs against.
type InstanceFactory func() (any, error)

// RunUnit runs u with ctx and returns its result. A nil unit or context is
// a programming error reported immediately.
func RunUnit(u Unit, ctx *Context) (report.Result, error) {
	if u == nil {
		return nil, errors.Wrap(report.ErrInvalidArgument, "run unit: nil unit")
	}
	if ctx == nil {
		return nil, errors.Wrap(report.ErrInvalidArgument, "run unit: nil context")
	}
	return u.Run(ctx), nil
}

// Test is a leaf unit: one test method plus its filters.
type Test struct {
	name        string
	category    string
	description string
	body        Body
	instance    InstanceFactory
	pre         []PreFilter
	post        []PostFilter
	observers   []Observer
}

// NewTest returns a test running body.
func NewTest(name string, body Body) *Test {
	return &Test{name: name, body: body}
}

func (t *Test) Name() string        { return t.name }
func (t *Test) Category() string    { return t.category }
func (t *Test) Description() string { return t.description }

func (t *Test) SetCategory(category string)       { t.category = category }
func (t *Test) SetDescription(description string) { t.description = description }

// SetInstanceFactory makes the test build its own instance when the
// inherited context carries none.
func (t *Test) SetInstanceFactory(f InstanceFactory) { t.instance = f }

// AddFilter registers f as a pre-filter, a post-filter or both, depending
// on which interfaces it implements.
func (t *Test) AddFilter(f Filter) error {
	pre, post, err := splitFilter(f)
	if err != nil {
		return err
	}
	if pre != nil {
		t.pre = append(t.pre, pre)
	}
	if post != nil {
		t.post = append(t.post, post)
	}
	return nil
}

// Observe registers o for this test's lifecycle events.
func (t *Test) Observe(o Observer) {
	if o != nil {
		t.observers = append(t.observers, o)
	}
}

// Run executes the test through its pipeline. Failures raised by the body or
// by filters never escape; they end up in the returned result.
func (t *Test) Run(ctx *Context) report.Result {
	res := report.NewMethodResult(t.name, t.category)
	ctx.reset(t, res)
	begin(ctx, t.observers)

	ignores, pre := splitIgnores(t.pre)
	if ig := runPre(ctx, ignores); ig != nil {
		markIgnored(ctx, ig)
	}

	if res.Status() == report.StatusRunning && ctx.Instance == nil && t.instance != nil {
		ctx.Instance = construct(ctx, t.name, t.instance)
	}

	if res.Status() == report.StatusRunning && ctx.Failure == nil {
		if ig := runPre(ctx, pre); ig != nil {
			markIgnored(ctx, ig)
		}
	}

	if res.Status() == report.StatusRunning && ctx.Failure == nil && t.body != nil {
		if err := guard(func() error { return t.body(ctx.Instance) }); err != nil {
			classify(ctx, "body", err)
		}
	}

	runPost(ctx, t.post)
	finish(ctx, t.observers)
	return res
}

func begin(ctx *Context, observers []Observer) {
	ctx.Result.SetStartTime(ctx.now())
	ctx.Result.SetStatus(report.StatusRunning)
	ctx.logger().Debug("unit started", "unit", unitName(ctx.Unit))
	notify(ctx, observers, EventBeforeRun, ctx.Unit, ctx.Result)
}

func finish(ctx *Context, observers []Observer) {
	res := ctx.Result
	if res.Status() == report.StatusRunning {
		res.SetStatus(report.StatusPass)
	}
	switch res.Status() {
	case report.StatusFail, report.StatusError:
		if ctx.Failure != nil {
			_ = res.AddError(ctx.Failure)
		}
	}
	for _, err := range ctx.postErrs {
		_ = res.AddError(err)
	}
	res.SetEndTime(ctx.now())
	if res.EndTime().Before(res.StartTime()) {
		res.SetEndTime(res.StartTime())
	}
	ctx.logger().Debug("unit finished", "unit", unitName(ctx.Unit), "status", res.Status(), "duration", res.ExecutionTime())
	notify(ctx, observers, statusEvent(res.Status()), ctx.Unit, res)
	notify(ctx, observers, EventAfterRun, ctx.Unit, res)
}

// classify maps a raised failure onto the running result: assertions fail,
// ignore signals ignore, anything else errs with the cause preserved.
func classify(ctx *Context, phase string, err error) {
	var ig *IgnoreSignal
	if asIgnore(err, &ig) {
		markIgnored(ctx, ig)
		return
	}
	var ae *AssertionError
	if errors.As(err, &ae) {
		ctx.Failure = err
		ctx.failurePhase = phase
		ctx.Result.SetStatus(report.StatusFail)
		ctx.Result.SetMessage(ae.Message)
		return
	}
	if _, ok := err.(stackTracer); !ok {
		err = errors.WithStack(err)
	}
	ctx.logger().Debug("unit erred", "unit", unitName(ctx.Unit), "phase", phase, "error", err)
	ctx.Failure = &TestError{Phase: phase, err: err}
	ctx.failurePhase = phase
	ctx.Result.SetStatus(report.StatusError)
	ctx.Result.SetMessage(err.Error())
}

// construct builds the unit instance. A factory error or panic is
// classified onto ctx and yields a nil instance.
func construct(ctx *Context, name string, factory InstanceFactory) any {
	var inst any
	err := guard(func() error {
		var err error
		inst, err = factory()
		return err
	})
	if err != nil {
		classify(ctx, "instance", errors.Wrapf(err, "construct instance for %s", name))
		return nil
	}
	return inst
}

func markIgnored(ctx *Context, ig *IgnoreSignal) {
	ctx.Failure = nil
	ctx.failurePhase = ""
	ctx.Result.SetStatus(report.StatusIgnore)
	ctx.Result.SetMessage(ig.Reason)
}

func asIgnore(err error, target **IgnoreSignal) bool {
	return errors.As(err, target)
}

func splitFilter(f Filter) (PreFilter, PostFilter, error) {
	if f == nil {
		return nil, nil, errors.Wrap(report.ErrInvalidArgument, "add filter: nil filter")
	}
	pre, isPre := f.(PreFilter)
	post, isPost := f.(PostFilter)
	if !isPre && !isPost {
		return nil, nil, errors.Wrapf(report.ErrInvalidArgument, "add filter: %T is neither a pre nor a post filter", f)
	}
	return pre, post, nil
}
