package mock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bgricker/unitkit/pkg/report"
	"github.com/bgricker/unitkit/pkg/runner"
)

func sessionTest(t *testing.T, reg *Registry, body runner.Body, extra ...runner.Filter) report.Result {
	t.Helper()
	test := runner.NewTest("session", body)
	for _, f := range append(SessionFilters(reg), extra...) {
		require.NoError(t, test.AddFilter(f))
	}
	res, err := runner.New(runner.Options{}).Run(test, nil)
	require.NoError(t, err)
	return res
}

func TestSessionFiltersVerifyAfterBody(t *testing.T) {
	reg := NewRegistry()
	New[Service](reg).Expects("Name")

	res := sessionTest(t, reg, func(any) error {
		assert.Empty(t, reg.Expectations(), "registry not reset before body")
		New[Service](reg).Expects("Name")
		return nil
	})
	assert.Equal(t, report.StatusError, res.Status())
	require.Len(t, res.Errors(), 1)

	var ver *VerificationError
	assert.ErrorAs(t, res.Errors()[0], &ver)
}

func TestSessionFiltersPassWhenSatisfied(t *testing.T) {
	reg := NewRegistry()
	res := sessionTest(t, reg, func(any) error {
		m := New[Service](reg)
		m.Expects("Name").WillReturn("svc")
		v, err := m.RecordCall("Name")
		if err != nil {
			return err
		}
		if v != "svc" {
			return runner.Failf("got %v", v)
		}
		return nil
	})
	assert.Equal(t, report.StatusPass, res.Status())
}

func TestSessionFiltersSkipIgnored(t *testing.T) {
	reg := NewRegistry()
	New[Service](reg).Expects("Name")

	res := sessionTest(t, reg, nil, runner.IgnoreFilter{Reason: "later"})
	assert.Equal(t, report.StatusIgnore, res.Status())
}

func TestVerifyRunsBeforeTearDown(t *testing.T) {
	reg := NewRegistry()
	var order []string
	teardown := runner.TearDownFilter{Fn: func(any) error {
		order = append(order, "teardown")
		reg.Reset()
		return nil
	}}
	res := sessionTest(t, reg, func(any) error {
		order = append(order, "body")
		New[Service](reg).Expects("Name")
		return nil
	}, teardown)
	assert.Equal(t, []string{"body", "teardown"}, order)
	assert.Equal(t, report.StatusError, res.Status())
}
