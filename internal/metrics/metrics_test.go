package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bgricker/unitkit/pkg/runner"
)

func TestCollectorWritesTextFormat(t *testing.T) {
	suite := runner.NewSuite("Calc", runner.KindClass)
	require.NoError(t, suite.Add(
		runner.NewTest("Adds", func(any) error { return nil }),
		runner.NewTest("Subtracts", func(any) error { return nil }),
		runner.NewTest("Divides", func(any) error { return errors.New("division by zero") }),
	))

	c := NewCollector()
	res, err := runner.New(runner.Options{Observers: []runner.Observer{c}}).Run(suite, nil)
	require.NoError(t, err)
	c.ObserveRun("run-1", "calc", res.Status())

	path := filepath.Join(t.TempDir(), "nested", "metrics.prom")
	require.NoError(t, c.Write(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)

	for _, want := range []string{
		`unitkit_units_total{kind="test",status="pass"} 2`,
		`unitkit_units_total{kind="test",status="error"} 1`,
		`unitkit_units_total{kind="class",status="error"} 1`,
		`unitkit_test_duration_seconds_count{status="pass"} 2`,
		`unitkit_run_info{assembly="calc",run_id="run-1",status="error"} 1`,
	} {
		assert.True(t, strings.Contains(out, want), "missing %q in:\n%s", want, out)
	}
}

func TestCollectorIgnoresOtherEvents(t *testing.T) {
	c := NewCollector()
	test := runner.NewTest("x", nil)
	_, err := runner.New(runner.Options{Observers: []runner.Observer{c}}).Run(test, nil)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "m.prom")
	require.NoError(t, c.Write(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `unitkit_units_total{kind="test",status="pass"} 1`)
}
