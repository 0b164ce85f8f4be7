package runner

import (
	"time"

	"github.com/bgricker/unitkit/pkg/logging"
	"github.com/bgricker/unitkit/pkg/report"
)

// Context is the scratch record threaded through one unit run. A fresh
// Context is used for every unit; suites derive one per child.
type Context struct {
	// Instance is the object under test. The engine never mutates it.
	Instance any
	// Unit is the unit currently running.
	Unit Unit
	// Result is the in-progress result, replaced when a run starts.
	Result report.Recorder
	// Failure holds the last raised failure so later phases can inspect it
	// without the error escaping the run.
	Failure error

	Logger    logging.Logger
	Now       func() time.Time
	Observers []Observer

	postErrs     []error
	failurePhase string
}

// NewContext returns a context for running a unit against instance.
func NewContext(instance any) *Context {
	return &Context{Instance: instance}
}

// Child derives a fresh context for a child unit. Instance, logger, clock
// and run-wide observers are inherited; run state is not.
func (c *Context) Child() *Context {
	return &Context{
		Instance:  c.Instance,
		Logger:    c.Logger,
		Now:       c.Now,
		Observers: c.Observers,
	}
}

func (c *Context) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func (c *Context) logger() logging.Logger {
	return logging.OrNop(c.Logger)
}

func (c *Context) reset(u Unit, r report.Recorder) {
	c.Unit = u
	c.Result = r
	c.Failure = nil
	c.failurePhase = ""
	c.postErrs = nil
}
