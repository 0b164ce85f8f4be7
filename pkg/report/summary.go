package report

import "time"

// Summary counts leaf results below a root result.
type Summary struct {
	Total      int           `json:"total"`
	Passed     int           `json:"passed"`
	Failed     int           `json:"failed"`
	Erred      int           `json:"erred"`
	Ignored    int           `json:"ignored"`
	Duration   time.Duration `json:"-"`
	DurationMS int64         `json:"duration_ms"`
	ExitCode   int           `json:"exit_code"`
}

// Summarize counts every leaf below root. Suites contribute only through
// their children; the root's own status decides the exit code.
func Summarize(root Result) Summary {
	var summary Summary
	if root == nil {
		return summary
	}
	Walk(root, func(r Result, _ int) bool {
		if _, ok := r.(*SuiteResult); ok {
			return true
		}
		summary.Total++
		switch r.Status() {
		case StatusPass:
			summary.Passed++
		case StatusFail:
			summary.Failed++
		case StatusError:
			summary.Erred++
		case StatusIgnore:
			summary.Ignored++
		}
		return true
	})
	summary.Duration = root.ExecutionTime()
	summary.DurationMS = summary.Duration.Milliseconds()
	if s := root.Status(); s == StatusFail || s == StatusError {
		summary.ExitCode = 1
	}
	return summary
}
