package runner

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bgricker/unitkit/pkg/report"
)

type fooError struct{ msg string }

func (e *fooError) Error() string { return e.msg }

type barError struct{ msg string }

func (e *barError) Error() string { return e.msg }

// tickingClock advances one millisecond per call.
func tickingClock() func() time.Time {
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Millisecond)
		return now
	}
}

func run(t *testing.T, u Unit) report.Result {
	t.Helper()
	r := New(Options{Now: tickingClock()})
	res, err := r.Run(u, nil)
	require.NoError(t, err)
	return res
}

func TestPassingBody(t *testing.T) {
	res := run(t, NewTest("ok", func(any) error { return nil }))
	assert.Equal(t, report.StatusPass, res.Status())
	assert.Empty(t, res.Errors())
	assert.False(t, res.EndTime().Before(res.StartTime()))
	assert.GreaterOrEqual(t, res.ExecutionTime(), time.Duration(0))
}

func TestAssertionFails(t *testing.T) {
	res := run(t, NewTest("fails", func(any) error { return Failf("want %d got %d", 1, 2) }))
	assert.Equal(t, report.StatusFail, res.Status())
	assert.Equal(t, "want 1 got 2", res.Message())
	require.Len(t, res.Errors(), 1)
}

func TestAssertionPanicFails(t *testing.T) {
	res := run(t, NewTest("panics", func(any) error { panic(&AssertionError{Message: "nope"}) }))
	assert.Equal(t, report.StatusFail, res.Status())
	assert.Equal(t, "nope", res.Message())
}

func TestOtherErrorErrs(t *testing.T) {
	cause := &fooError{msg: "disk on fire"}
	res := run(t, NewTest("errs", func(any) error { return cause }))
	assert.Equal(t, report.StatusError, res.Status())
	assert.Equal(t, "disk on fire", res.Message())
	require.Len(t, res.Errors(), 1)

	var got *fooError
	require.True(t, errors.As(res.Errors()[0], &got))
	assert.Same(t, cause, got)
}

func TestPanicValueErrs(t *testing.T) {
	res := run(t, NewTest("panics", func(any) error { panic("kaboom") }))
	assert.Equal(t, report.StatusError, res.Status())
	assert.Equal(t, "kaboom", res.Message())
	assert.NotEmpty(t, report.Stack(res.Errors()[0]))
}

func TestIgnoreShortCircuitsPrePhase(t *testing.T) {
	var calls []string
	test := NewTest("skipped", func(any) error {
		calls = append(calls, "body")
		return nil
	})
	require.NoError(t, test.AddFilter(PreFunc{At: -100, Fn: func(*Context) error {
		calls = append(calls, "pre")
		return nil
	}}))
	require.NoError(t, test.AddFilter(IgnoreFilter{Reason: "flaky on CI"}))
	require.NoError(t, test.AddFilter(TearDownFilter{Fn: func(any) error {
		calls = append(calls, "teardown")
		return nil
	}}))

	res := run(t, test)
	assert.Equal(t, report.StatusIgnore, res.Status())
	assert.Equal(t, "flaky on CI", res.Message())
	assert.Equal(t, []string{"teardown"}, calls)
}

func TestBodyIgnoreSignal(t *testing.T) {
	res := run(t, NewTest("later", func(any) error { return Ignore("not today") }))
	assert.Equal(t, report.StatusIgnore, res.Status())
	assert.Equal(t, "not today", res.Message())
	assert.Empty(t, res.Errors())
}

func TestPreFilterOrdering(t *testing.T) {
	var order []int
	record := func(n int) PreFunc {
		return PreFunc{At: n, Fn: func(*Context) error {
			order = append(order, n)
			return nil
		}}
	}
	test := NewTest("ordered", func(any) error { return nil })
	for _, f := range []Filter{record(2), record(0), record(-5), SetupFilter{Fn: func(any) error {
		order = append(order, OrderSetup)
		return nil
	}}} {
		require.NoError(t, test.AddFilter(f))
	}

	run(t, test)
	assert.Equal(t, []int{-5, 0, 1, 2}, order)
}

func TestPostFilterOrdering(t *testing.T) {
	var order []string
	test := NewTest("ordered", func(any) error { return nil })
	require.NoError(t, test.AddFilter(PostFunc{At: OrderAfterTearDown, Fn: func(*Context) error {
		order = append(order, "after")
		return nil
	}}))
	require.NoError(t, test.AddFilter(TearDownFilter{Fn: func(any) error {
		order = append(order, "teardown")
		return nil
	}}))
	require.NoError(t, test.AddFilter(PostFunc{At: OrderBeforeTearDown, Fn: func(*Context) error {
		order = append(order, "before")
		return nil
	}}))
	require.NoError(t, test.AddFilter(PostFunc{At: OrderBeforeTearDown, Fn: func(*Context) error {
		order = append(order, "before-2")
		return nil
	}}))

	run(t, test)
	assert.Equal(t, []string{"before", "before-2", "teardown", "after"}, order)
}

func TestSetupFailureSkipsBody(t *testing.T) {
	bodyRan := false
	teardownRan := false
	test := NewTest("setup", func(any) error {
		bodyRan = true
		return nil
	})
	require.NoError(t, test.AddFilter(SetupFilter{Fn: func(any) error { return fmt.Errorf("no database") }}))
	require.NoError(t, test.AddFilter(TearDownFilter{Fn: func(any) error {
		teardownRan = true
		return nil
	}}))

	res := run(t, test)
	assert.Equal(t, report.StatusError, res.Status())
	assert.Equal(t, "no database", res.Message())
	assert.False(t, bodyRan)
	assert.True(t, teardownRan)
}

func TestPostFilterErrorOverridesPass(t *testing.T) {
	test := NewTest("teardown", func(any) error { return nil })
	require.NoError(t, test.AddFilter(TearDownFilter{Fn: func(any) error { return fmt.Errorf("leaked handle") }}))

	res := run(t, test)
	assert.Equal(t, report.StatusError, res.Status())
	assert.Equal(t, "leaked handle", res.Message())
	require.Len(t, res.Errors(), 1)
}

func TestPostFilterErrorKeepsBodyFailure(t *testing.T) {
	test := NewTest("both", func(any) error { return Failf("bad value") })
	require.NoError(t, test.AddFilter(TearDownFilter{Fn: func(any) error { panic("teardown blew up") }}))

	res := run(t, test)
	assert.Equal(t, report.StatusError, res.Status())
	errs := res.Errors()
	require.Len(t, errs, 2)
	assert.Equal(t, "bad value", errs[0].Error())
	assert.Equal(t, "teardown blew up", errs[1].Error())
}

func TestExpectedFailure(t *testing.T) {
	tests := []struct {
		name    string
		body    Body
		filter  *ExpectedFailureFilter
		status  report.Status
		message string
	}{
		{
			name:   "matching type and message passes",
			body:   func(any) error { return &fooError{msg: "foo"} },
			filter: ExpectFailure[*fooError]("foo"),
			status: report.StatusPass,
		},
		{
			name:   "wrapped cause is unwrapped",
			body:   func(any) error { return fmt.Errorf("context: %w", &fooError{msg: "foo"}) },
			filter: ExpectFailure[*fooError](""),
			status: report.StatusPass,
		},
		{
			name:   "panic with error passes",
			body:   func(any) error { panic(&fooError{msg: "foo"}) },
			filter: ExpectFailure[*fooError]("foo"),
			status: report.StatusPass,
		},
		{
			name:    "message mismatch fails",
			body:    func(any) error { return &fooError{msg: "foo"} },
			filter:  ExpectFailure[*fooError]("bar"),
			status:  report.StatusFail,
			message: `expected *runner.fooError with message "bar" but got "foo"`,
		},
		{
			name:    "type mismatch fails",
			body:    func(any) error { return &barError{msg: "foo"} },
			filter:  ExpectFailure[*fooError]("foo"),
			status:  report.StatusFail,
			message: "expected *runner.fooError but *runner.barError was thrown: foo",
		},
		{
			name:    "never thrown fails",
			body:    func(any) error { return nil },
			filter:  ExpectFailure[*fooError]("foo"),
			status:  report.StatusFail,
			message: "expected *runner.fooError but it was never thrown",
		},
		{
			name:   "interface type matches implementations",
			body:   func(any) error { return &barError{msg: "x"} },
			filter: ExpectFailure[error](""),
			status: report.StatusPass,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			test := NewTest(tc.name, tc.body)
			require.NoError(t, test.AddFilter(tc.filter))

			res := run(t, test)
			assert.Equal(t, tc.status, res.Status())
			assert.Equal(t, tc.message, res.Message())
			if tc.status == report.StatusPass {
				assert.Empty(t, res.Errors())
			}
		})
	}
}

func TestExpectedFailureLeavesIgnoredAlone(t *testing.T) {
	test := NewTest("ignored", func(any) error { return nil })
	require.NoError(t, test.AddFilter(IgnoreFilter{Reason: "later"}))
	require.NoError(t, test.AddFilter(ExpectFailure[*fooError]("")))

	res := run(t, test)
	assert.Equal(t, report.StatusIgnore, res.Status())
}

func TestEventsFireInOrder(t *testing.T) {
	var events []string
	obs := ObserverFunc(func(ev Event, u Unit, r report.Result) {
		events = append(events, u.Name()+":"+ev.String())
	})
	test := NewTest("evented", func(any) error { return Failf("x") })
	test.Observe(obs)

	r := New(Options{Observers: []Observer{ObserverFunc(func(ev Event, u Unit, _ report.Result) {
		events = append(events, "global:"+ev.String())
	})}})
	_, err := r.Run(test, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"evented:before_run", "global:before_run",
		"evented:fail", "global:fail",
		"evented:after_run", "global:after_run",
	}, events)
}

func TestInstanceIsPassedToBodyAndFilters(t *testing.T) {
	type fixture struct{ setUp bool }
	inst := &fixture{}
	var seen any
	test := NewTest("instance", func(i any) error {
		seen = i
		if !i.(*fixture).setUp {
			return Failf("setup did not run")
		}
		return nil
	})
	require.NoError(t, test.AddFilter(SetupFilter{Fn: func(i any) error {
		i.(*fixture).setUp = true
		return nil
	}}))

	res, err := New(Options{}).Run(test, inst)
	require.NoError(t, err)
	assert.Equal(t, report.StatusPass, res.Status())
	assert.Same(t, inst, seen)
}

func TestInstanceFactoryFailureErrs(t *testing.T) {
	test := NewTest("factory", func(any) error { return nil })
	test.SetInstanceFactory(func() (any, error) { return nil, fmt.Errorf("no ctor") })

	res := run(t, test)
	assert.Equal(t, report.StatusError, res.Status())
	assert.Contains(t, res.Message(), "no ctor")
}

func TestRunUnitRejectsNil(t *testing.T) {
	_, err := RunUnit(nil, NewContext(nil))
	assert.ErrorIs(t, err, report.ErrInvalidArgument)

	_, err = RunUnit(NewTest("x", nil), nil)
	assert.ErrorIs(t, err, report.ErrInvalidArgument)
}

func TestAddFilterRejectsNil(t *testing.T) {
	err := NewTest("x", nil).AddFilter(nil)
	assert.ErrorIs(t, err, report.ErrInvalidArgument)
}

func TestIgnoreSkipsInstanceConstruction(t *testing.T) {
	built := 0
	test := NewTest("wip", func(any) error { return nil })
	test.SetInstanceFactory(func() (any, error) {
		built++
		return nil, fmt.Errorf("ctor boom")
	})
	require.NoError(t, test.AddFilter(IgnoreFilter{Reason: "wip"}))

	res := run(t, test)
	assert.Equal(t, report.StatusIgnore, res.Status())
	assert.Equal(t, "wip", res.Message())
	assert.Empty(t, res.Errors())
	assert.Zero(t, built)
}

func TestInstanceFactoryPanicErrs(t *testing.T) {
	bodyRan := false
	test := NewTest("ctor", func(any) error {
		bodyRan = true
		return nil
	})
	test.SetInstanceFactory(func() (any, error) { panic("ctor panics") })

	var res report.Result
	require.NotPanics(t, func() { res = run(t, test) })
	assert.Equal(t, report.StatusError, res.Status())
	assert.Contains(t, res.Message(), "ctor panics")
	assert.False(t, bodyRan)
}

func TestExpectedFailureIgnoresSetupFailure(t *testing.T) {
	bodyRan := false
	test := NewTest("setup", func(any) error {
		bodyRan = true
		return nil
	})
	require.NoError(t, test.AddFilter(SetupFilter{Fn: func(any) error { return &fooError{msg: "foo"} }}))
	require.NoError(t, test.AddFilter(ExpectFailure[*fooError]("foo")))

	res := run(t, test)
	assert.False(t, bodyRan)
	assert.Equal(t, report.StatusError, res.Status())
	assert.Equal(t, "foo", res.Message())
}

type recordingLogger struct {
	warnings [][]any
}

func (l *recordingLogger) Debug(string, ...any) {}
func (l *recordingLogger) Error(string, ...any) {}
func (l *recordingLogger) Warn(msg string, kv ...any) {
	l.warnings = append(l.warnings, append([]any{msg}, kv...))
}

func TestFilterFailureLogsRoutineName(t *testing.T) {
	logger := &recordingLogger{}
	test := NewTest("named", func(any) error { return nil })
	require.NoError(t, test.AddFilter(SetupFilter{Name: "OpenDatabase", Fn: func(any) error { return fmt.Errorf("refused") }}))
	require.NoError(t, test.AddFilter(TearDownFilter{Name: "CloseDatabase", Fn: func(any) error { return fmt.Errorf("leak") }}))

	_, err := New(Options{Logger: logger}).Run(test, nil)
	require.NoError(t, err)

	require.Len(t, logger.warnings, 2)
	assert.Contains(t, logger.warnings[0], "setup OpenDatabase")
	assert.Contains(t, logger.warnings[1], "teardown CloseDatabase")
}
