package grovedb

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureLogger records warnings for assertions.
type captureLogger struct {
	warns []string
}

func (c *captureLogger) Error(msg string, _ ...any) {}
func (c *captureLogger) Warn(msg string, _ ...any)  { c.warns = append(c.warns, msg) }
func (c *captureLogger) Info(msg string, _ ...any)  {}

func TestPrintTree(t *testing.T) {
	t.Parallel()

	tr := setup(t, 4, 4)

	var sb strings.Builder
	require.NoError(t, tr.PrintTree(&sb))
	assert.Contains(t, sb.String(), "(empty)")

	for k := int64(1); k <= 10; k++ {
		insertInt(t, tr, k)
	}

	sb.Reset()
	require.NoError(t, tr.PrintTree(&sb))
	out := sb.String()
	assert.Contains(t, out, "internal")
	assert.Contains(t, out, "leaf")
	assert.Contains(t, out, "keys=[1 2]")
}

func TestDrawDot(t *testing.T) {
	t.Parallel()

	tr := setup(t, 4, 4)
	log := &captureLogger{}
	tr.log = log

	var sb strings.Builder
	require.NoError(t, tr.DrawDot(&sb))
	assert.Contains(t, sb.String(), "digraph G {}")
	assert.Len(t, log.warns, 1)

	for k := int64(1); k <= 10; k++ {
		insertInt(t, tr, k)
	}

	sb.Reset()
	require.NoError(t, tr.DrawDot(&sb))
	out := sb.String()
	assert.Contains(t, out, "digraph G {")
	assert.Contains(t, out, "->")
	assert.Contains(t, out, "leaf")
}
