package report

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// InternalFramePrefixes lists function-name prefixes removed from reported
// stacks. Runner frames and the Go runtime are noise to the test author.
var InternalFramePrefixes = []string{
	"runtime.",
	"github.com/bgricker/unitkit/pkg/runner.",
}

// Stack returns the innermost stack recorded on err, one "func file:line"
// entry per frame, without internal frames. Errors carrying no stack yield
// nil.
func Stack(err error) []string {
	var deepest errors.StackTrace
	for cur := err; cur != nil; cur = unwrapOnce(cur) {
		if st, ok := cur.(stackTracer); ok {
			deepest = st.StackTrace()
		}
	}
	if len(deepest) == 0 {
		return nil
	}
	out := make([]string, 0, len(deepest))
	for _, frame := range deepest {
		name, file, _ := strings.Cut(fmt.Sprintf("%+s", frame), "\n\t")
		if internalFrame(name) {
			continue
		}
		out = append(out, fmt.Sprintf("%s %s:%d", name, file, frame))
	}
	return out
}

func unwrapOnce(err error) error {
	type causer interface{ Cause() error }
	if c, ok := err.(causer); ok {
		return c.Cause()
	}
	type wrapper interface{ Unwrap() error }
	if w, ok := err.(wrapper); ok {
		return w.Unwrap()
	}
	return nil
}

func internalFrame(name string) bool {
	for _, prefix := range InternalFramePrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
