package runner

import "github.com/bgricker/unitkit/pkg/report"

// Event identifies a lifecycle point of a unit run.
type Event int

const (
	EventBeforeRun Event = iota
	EventPass
	EventFail
	EventError
	EventIgnore
	EventAfterRun
)

func (e Event) String() string {
	switch e {
	case EventBeforeRun:
		return "before_run"
	case EventPass:
		return "pass"
	case EventFail:
		return "fail"
	case EventError:
		return "error"
	case EventIgnore:
		return "ignore"
	case EventAfterRun:
		return "after_run"
	default:
		return "unknown"
	}
}

// Observer receives lifecycle events synchronously, in registration order.
type Observer interface {
	OnEvent(ev Event, u Unit, r report.Result)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ev Event, u Unit, r report.Result)

func (f ObserverFunc) OnEvent(ev Event, u Unit, r report.Result) { f(ev, u, r) }

func statusEvent(s report.Status) Event {
	switch s {
	case report.StatusFail:
		return EventFail
	case report.StatusError:
		return EventError
	case report.StatusIgnore:
		return EventIgnore
	default:
		return EventPass
	}
}

// notify fires ev on the unit's own observers first, then the run-wide ones.
func notify(ctx *Context, own []Observer, ev Event, u Unit, r report.Result) {
	for _, o := range own {
		o.OnEvent(ev, u, r)
	}
	for _, o := range ctx.Observers {
		o.OnEvent(ev, u, r)
	}
}
