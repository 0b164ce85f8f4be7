package report

// Status is the lifecycle state of a test or suite result.
type Status string

const (
	// StatusNotRun is the initial state of every result.
	StatusNotRun Status = "not_run"
	// StatusRunning marks a result whose unit is executing.
	StatusRunning Status = "running"
	// StatusPass marks a unit that completed without failures.
	StatusPass Status = "pass"
	// StatusFail marks a unit whose assertions failed.
	StatusFail Status = "fail"
	// StatusError marks a unit that raised an unexpected error.
	StatusError Status = "error"
	// StatusIgnore marks a unit that was skipped on purpose.
	StatusIgnore Status = "ignore"
)

// Terminal reports whether s is one of the four final states.
func (s Status) Terminal() bool {
	switch s {
	case StatusPass, StatusFail, StatusError, StatusIgnore:
		return true
	default:
		return false
	}
}

func (s Status) String() string {
	return string(s)
}

// Rollup derives a suite status from its children. The first matching rule
// wins: any error, any failure, no pass with at least one ignore, otherwise
// pass. An empty slice yields pass.
func Rollup(children []Result) Status {
	var passed, failed, erred, ignored int
	for _, child := range children {
		switch child.Status() {
		case StatusPass:
			passed++
		case StatusFail:
			failed++
		case StatusError:
			erred++
		case StatusIgnore:
			ignored++
		}
	}
	switch {
	case erred > 0:
		return StatusError
	case failed > 0:
		return StatusFail
	case passed == 0 && ignored > 0:
		return StatusIgnore
	default:
		return StatusPass
	}
}
