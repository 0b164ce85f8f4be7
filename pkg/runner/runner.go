// Package runner executes tests and suites through an ordered filter
// pipeline and produces result trees.
//
// Execution is single threaded. A suite blocks until every child finished;
// there is no cancellation or timeout at this layer.
package runner

import (
	"time"

	"github.com/bgricker/unitkit/pkg/logging"
	"github.com/bgricker/unitkit/pkg/report"
)

// Options configure how the runner executes units.
type Options struct {
	Logger    logging.Logger
	Now       func() time.Time
	Observers []Observer
}

// Runner runs unit trees with shared options.
type Runner struct {
	opts Options
}

// New creates a runner with the supplied options.
func New(opts Options) *Runner {
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	opts.Observers = append([]Observer(nil), opts.Observers...)
	return &Runner{opts: opts}
}

// NewContext returns a context bound to instance and carrying the runner's
// logger, clock and observers.
func (r *Runner) NewContext(instance any) *Context {
	return &Context{
		Instance:  instance,
		Logger:    r.opts.Logger,
		Now:       r.opts.Now,
		Observers: r.opts.Observers,
	}
}

// Run executes u against instance.
func (r *Runner) Run(u Unit, instance any) (report.Result, error) {
	return RunUnit(u, r.NewContext(instance))
}
