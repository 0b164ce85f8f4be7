package output

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/bgricker/unitkit/pkg/report"
	"github.com/bgricker/unitkit/pkg/runner"
)

// PrettyRenderer renders unit trees and results in a human-friendly format.
type PrettyRenderer struct {
	out     io.Writer
	verbose bool
}

// NewPretty creates a PrettyRenderer writing to out. Verbose output adds
// stack traces for erred tests and descriptions to listings.
func NewPretty(out io.Writer, verbose bool) *PrettyRenderer {
	return &PrettyRenderer{out: out, verbose: verbose}
}

// RenderList renders the accumulated hierarchy without running it.
func (p *PrettyRenderer) RenderList(root runner.Unit) error {
	var buf bytes.Buffer
	listUnit(&buf, root, 0, p.verbose)
	_, err := buf.WriteTo(p.out)
	return err
}

func listUnit(buf *bytes.Buffer, u runner.Unit, depth int, verbose bool) {
	pad := strings.Repeat("  ", depth)
	if s, ok := u.(*runner.Suite); ok {
		fmt.Fprintf(buf, "%s%s %s\n", pad, kindLabel(s.Kind()), s.Name())
		for _, child := range s.Children() {
			listUnit(buf, child, depth+1, verbose)
		}
		return
	}
	label := u.Name()
	if c := u.Category(); c != "" {
		label += " [" + c + "]"
	}
	fmt.Fprintf(buf, "%s• %s\n", pad, label)
	if verbose && u.Description() != "" {
		fmt.Fprintf(buf, "%s  %s\n", pad, u.Description())
	}
}

func kindLabel(k runner.Kind) string {
	switch k {
	case runner.KindAssembly:
		return "Assembly"
	case runner.KindNamespace:
		return "Namespace"
	default:
		return "Class"
	}
}

// RenderResults shows the outcome of every unit, then a summary table.
func (p *PrettyRenderer) RenderResults(root report.Result, summary report.Summary) error {
	var buf bytes.Buffer
	report.Walk(root, func(r report.Result, depth int) bool {
		pad := strings.Repeat("  ", depth)
		fmt.Fprintf(&buf, "%s%s %s (%s)\n", pad, statusGlyph(r.Status()), r.Name(), formatDuration(r.ExecutionTime()))
		if _, isSuite := r.(*report.SuiteResult); isSuite {
			return true
		}
		switch r.Status() {
		case report.StatusFail:
			fmt.Fprintf(&buf, "%s\n", indent(r.Message(), pad+"    "))
		case report.StatusError:
			fmt.Fprintf(&buf, "%s\n", indent(r.Message(), pad+"    "))
			if p.verbose {
				for _, err := range r.Errors() {
					if frames := report.Stack(err); len(frames) > 0 {
						fmt.Fprintf(&buf, "%s\n", indent(strings.Join(frames, "\n"), pad+"      "))
					}
				}
			}
		case report.StatusIgnore:
			if r.Message() != "" {
				fmt.Fprintf(&buf, "%s    note: %s\n", pad, r.Message())
			}
		}
		return true
	})
	if _, err := buf.WriteTo(p.out); err != nil {
		return err
	}
	if err := p.renderTable(root, summary); err != nil {
		return err
	}
	_, err := fmt.Fprintln(p.out, summaryLine(summary))
	return err
}

// renderTable prints one row per top-level suite plus a total footer.
func (p *PrettyRenderer) renderTable(root report.Result, summary report.Summary) error {
	var buf bytes.Buffer
	t := table.NewWriter()
	t.SetOutputMirror(&buf)
	t.AppendHeader(table.Row{"Suite", "Duration", "Tests", "Passed", "Failed", "Erred", "Ignored", "Status"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Suite", WidthMax: 80, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Duration", Align: text.AlignRight},
		{Name: "Tests", Align: text.AlignRight},
		{Name: "Passed", Align: text.AlignRight},
		{Name: "Failed", Align: text.AlignRight},
		{Name: "Erred", Align: text.AlignRight},
		{Name: "Ignored", Align: text.AlignRight},
	})

	rows := []report.Result{root}
	if s, ok := root.(*report.SuiteResult); ok && len(s.AllTests()) > 0 {
		rows = s.AllTests()
	}
	for _, r := range rows {
		sum := report.Summarize(r)
		t.AppendRow(table.Row{
			r.Name(),
			formatDuration(r.ExecutionTime()),
			sum.Total,
			sum.Passed,
			sum.Failed,
			sum.Erred,
			sum.Ignored,
			strings.ToUpper(r.Status().String()),
		})
	}
	t.AppendFooter(table.Row{
		"TOTAL",
		formatDuration(summary.Duration),
		summary.Total,
		summary.Passed,
		summary.Failed,
		summary.Erred,
		summary.Ignored,
		strings.ToUpper(root.Status().String()),
	})
	t.SetStyle(table.StyleLight)
	t.Render()
	_, err := buf.WriteTo(p.out)
	return err
}

func summaryLine(s report.Summary) string {
	return fmt.Sprintf("SUMMARY: %d passed, %d failed, %d erred, %d ignored (%s)",
		s.Passed, s.Failed, s.Erred, s.Ignored, formatDuration(s.Duration))
}

func statusGlyph(status report.Status) string {
	switch status {
	case report.StatusPass:
		return "✓"
	case report.StatusFail:
		return "✗"
	case report.StatusError:
		return "!"
	case report.StatusIgnore:
		return "-"
	default:
		return "?"
	}
}

func indent(s, pad string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = pad + lines[i]
	}
	return strings.Join(lines, "\n")
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Truncate(time.Millisecond).String()
}
