package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(&bytes.Buffer{})

	require.NoError(t, Init("warn"))
	Info("hidden %d", 1)
	Warn("shown %d", 2)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown 2")

	require.NoError(t, Init("debug"))
	Sink{}.Debug("sink %s", "works")
	assert.Contains(t, buf.String(), "sink works")

	assert.Error(t, Init("loud"))
	require.NoError(t, Init("info"))
}
