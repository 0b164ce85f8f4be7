package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/bgricker/unitkit/pkg/report"
	"github.com/bgricker/unitkit/pkg/runner"
)

// StreamingRenderer prints each test as soon as it finishes. Register it as
// a runner observer.
type StreamingRenderer struct {
	out   io.Writer
	depth int
	err   error
}

var _ runner.Observer = (*StreamingRenderer)(nil)

// NewStreaming creates a StreamingRenderer writing to out.
func NewStreaming(out io.Writer) *StreamingRenderer {
	return &StreamingRenderer{out: out}
}

// OnEvent prints suite headers on entry and one line per finished test.
func (s *StreamingRenderer) OnEvent(ev runner.Event, u runner.Unit, r report.Result) {
	_, isSuite := u.(*runner.Suite)
	switch {
	case isSuite && ev == runner.EventBeforeRun:
		s.printf("%s%s\n", strings.Repeat("  ", s.depth), u.Name())
		s.depth++
	case isSuite && ev == runner.EventAfterRun:
		if s.depth > 0 {
			s.depth--
		}
	case !isSuite && ev == runner.EventAfterRun:
		pad := strings.Repeat("  ", s.depth)
		s.printf("%s%s %s (%s)\n", pad, statusGlyph(r.Status()), u.Name(), formatDuration(r.ExecutionTime()))
		if r.Status() != report.StatusPass && r.Message() != "" {
			s.printf("%s\n", indent(r.Message(), pad+"    "))
		}
	}
}

// RenderSummary prints the final summary line.
func (s *StreamingRenderer) RenderSummary(summary report.Summary) error {
	s.printf("%s\n", summaryLine(summary))
	return s.Err()
}

// Err returns the first write error seen.
func (s *StreamingRenderer) Err() error { return s.err }

func (s *StreamingRenderer) printf(format string, args ...any) {
	if s.err != nil {
		return
	}
	_, s.err = fmt.Fprintf(s.out, format, args...)
}
