package output

import (
	"encoding/json"
	"io"

	"github.com/bgricker/unitkit/pkg/report"
	"github.com/bgricker/unitkit/pkg/runner"
)

// JSONRenderer emits structured run data.
type JSONRenderer struct {
	out io.Writer
}

// NewJSON creates a JSON renderer writing to out.
func NewJSON(out io.Writer) *JSONRenderer {
	return &JSONRenderer{out: out}
}

// Report captures JSON output schema.
type Report struct {
	RunID    string          `json:"run_id,omitempty"`
	Assembly string          `json:"assembly"`
	Units    *UnitNode       `json:"units,omitempty"`
	Results  *ResultNode     `json:"results,omitempty"`
	Summary  *report.Summary `json:"summary,omitempty"`
	Warnings []string        `json:"warnings,omitempty"`
}

// UnitNode is a listed unit.
type UnitNode struct {
	Name        string      `json:"name"`
	Kind        string      `json:"kind"`
	Category    string      `json:"category,omitempty"`
	Description string      `json:"description,omitempty"`
	Children    []*UnitNode `json:"children,omitempty"`
}

// ResultNode is the outcome of one unit.
type ResultNode struct {
	Name       string        `json:"name"`
	Status     report.Status `json:"status"`
	Category   string        `json:"category,omitempty"`
	Message    string        `json:"message,omitempty"`
	DurationMS int64         `json:"duration_ms"`
	Errors     []ErrorNode   `json:"errors,omitempty"`
	Children   []*ResultNode `json:"children,omitempty"`
}

// ErrorNode is a captured error with its filtered stack.
type ErrorNode struct {
	Message string   `json:"message"`
	Stack   []string `json:"stack,omitempty"`
}

// Render encodes the report as JSON.
func (j *JSONRenderer) Render(report Report) error {
	enc := json.NewEncoder(j.out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// UnitTree converts a unit hierarchy for listing.
func UnitTree(u runner.Unit) *UnitNode {
	node := &UnitNode{Name: u.Name(), Kind: "test", Category: u.Category(), Description: u.Description()}
	if s, ok := u.(*runner.Suite); ok {
		node.Kind = string(s.Kind())
		for _, child := range s.Children() {
			node.Children = append(node.Children, UnitTree(child))
		}
	}
	return node
}

// ResultTree converts a result hierarchy for reporting.
func ResultTree(r report.Result) *ResultNode {
	node := &ResultNode{
		Name:       r.Name(),
		Status:     r.Status(),
		Message:    r.Message(),
		DurationMS: r.ExecutionTime().Milliseconds(),
	}
	for _, err := range r.Errors() {
		node.Errors = append(node.Errors, ErrorNode{Message: err.Error(), Stack: report.Stack(err)})
	}
	switch v := r.(type) {
	case *report.MethodResult:
		node.Category = v.Category()
	case *report.SuiteResult:
		for _, child := range v.AllTests() {
			node.Children = append(node.Children, ResultTree(child))
		}
	}
	return node
}
