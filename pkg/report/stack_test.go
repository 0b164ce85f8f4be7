package report

import (
	"fmt"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func raiseWithStack() error {
	return errors.New("stacked")
}

func TestStackKeepsCallerFrames(t *testing.T) {
	err := fmt.Errorf("outer: %w", raiseWithStack())

	frames := Stack(err)
	require.NotEmpty(t, frames)
	assert.True(t, strings.Contains(frames[0], "raiseWithStack"), "first frame %q", frames[0])
	for _, f := range frames {
		assert.False(t, strings.HasPrefix(f, "runtime."), "runtime frame leaked: %q", f)
	}
}

func TestStackWithoutTrace(t *testing.T) {
	assert.Nil(t, Stack(fmt.Errorf("plain")))
	assert.Nil(t, Stack(nil))
}
