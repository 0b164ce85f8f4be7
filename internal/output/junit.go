package output

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/bgricker/unitkit/pkg/report"
)

// JUnit XML structures following the common schema.

type junitSuites struct {
	XMLName  xml.Name      `xml:"testsuites"`
	Name     string        `xml:"name,attr"`
	Tests    int           `xml:"tests,attr"`
	Failures int           `xml:"failures,attr"`
	Errors   int           `xml:"errors,attr"`
	Skipped  int           `xml:"skipped,attr"`
	Time     float64       `xml:"time,attr"`
	Suites   []*junitSuite `xml:"testsuite"`
}

type junitSuite struct {
	Name       string          `xml:"name,attr"`
	Tests      int             `xml:"tests,attr"`
	Failures   int             `xml:"failures,attr"`
	Errors     int             `xml:"errors,attr"`
	Skipped    int             `xml:"skipped,attr"`
	Time       float64         `xml:"time,attr"`
	Timestamp  string          `xml:"timestamp,attr,omitempty"`
	Properties []junitProperty `xml:"properties>property,omitempty"`
	Cases      []junitCase     `xml:"testcase"`
}

type junitProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

type junitCase struct {
	Name      string        `xml:"name,attr"`
	Classname string        `xml:"classname,attr"`
	Time      float64       `xml:"time,attr"`
	Failure   *junitProblem `xml:"failure,omitempty"`
	Error     *junitProblem `xml:"error,omitempty"`
	Skipped   *junitSkipped `xml:"skipped,omitempty"`
}

type junitProblem struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr,omitempty"`
	Content string `xml:",chardata"`
}

type junitSkipped struct {
	Message string `xml:"message,attr,omitempty"`
}

// JUnitRenderer emits JUnit XML. Every suite that directly holds tests
// becomes a <testsuite>, named by its path from the root.
type JUnitRenderer struct {
	out io.Writer
}

// NewJUnit creates a JUnit renderer writing to out.
func NewJUnit(out io.Writer) *JUnitRenderer {
	return &JUnitRenderer{out: out}
}

// Render writes root as a JUnit document tagged with runID.
func (j *JUnitRenderer) Render(runID string, root report.Result) error {
	sum := report.Summarize(root)
	doc := junitSuites{
		Name:     root.Name(),
		Tests:    sum.Total,
		Failures: sum.Failed,
		Errors:   sum.Erred,
		Skipped:  sum.Ignored,
		Time:     root.ExecutionTimeInSeconds(),
	}
	collectSuites(&doc, root, nil, runID)

	if _, err := io.WriteString(j.out, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(j.out)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	_, err := io.WriteString(j.out, "\n")
	return err
}

func collectSuites(doc *junitSuites, r report.Result, path []string, runID string) {
	s, ok := r.(*report.SuiteResult)
	if !ok {
		// A bare test at the root gets a suite of its own.
		suite := &junitSuite{Name: r.Name()}
		addCase(suite, r, r.Name())
		doc.Suites = append(doc.Suites, suite)
		return
	}
	path = append(path, s.Name())
	name := strings.Join(path, ".")

	var suite *junitSuite
	for _, child := range s.AllTests() {
		if _, nested := child.(*report.SuiteResult); nested {
			collectSuites(doc, child, path, runID)
			continue
		}
		if suite == nil {
			suite = &junitSuite{
				Name:      name,
				Time:      s.ExecutionTimeInSeconds(),
				Timestamp: s.StartTime().UTC().Format("2006-01-02T15:04:05"),
			}
			if runID != "" {
				suite.Properties = []junitProperty{{Name: "run_id", Value: runID}}
			}
			doc.Suites = append(doc.Suites, suite)
		}
		addCase(suite, child, name)
	}
}

func addCase(suite *junitSuite, r report.Result, classname string) {
	c := junitCase{Name: r.Name(), Classname: classname, Time: r.ExecutionTimeInSeconds()}
	switch r.Status() {
	case report.StatusFail:
		c.Failure = &junitProblem{Message: r.Message(), Type: "assertion", Content: details(r)}
		suite.Failures++
	case report.StatusError:
		c.Error = &junitProblem{Message: r.Message(), Type: "error", Content: details(r)}
		suite.Errors++
	case report.StatusIgnore:
		c.Skipped = &junitSkipped{Message: r.Message()}
		suite.Skipped++
	}
	suite.Tests++
	suite.Cases = append(suite.Cases, c)
}

func details(r report.Result) string {
	var b strings.Builder
	for _, err := range r.Errors() {
		b.WriteString(err.Error())
		b.WriteString("\n")
		for _, frame := range report.Stack(err) {
			b.WriteString("\t")
			b.WriteString(frame)
			b.WriteString("\n")
		}
	}
	return b.String()
}
