package debug

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogDisabledWritesNothing(t *testing.T) {
	Disable()
	assert.NotPanics(t, func() { Log("test", "value %d", 1) })
	assert.False(t, Enabled())
}

func TestLogToWriter(t *testing.T) {
	var buf bytes.Buffer
	EnableWriter(&buf)
	defer Disable()

	Log("transport", "step %d", 7)

	assert.Contains(t, buf.String(), "transport")
	assert.Contains(t, buf.String(), "step 7")
}

func TestLogEvery(t *testing.T) {
	var buf bytes.Buffer
	EnableWriter(&buf)
	defer Disable()

	for i := 0; i < 6; i++ {
		LogEvery(3, "tick", "every-test")
	}

	assert.Equal(t, 2, bytes.Count(buf.Bytes(), []byte("every-test")))
}

func TestEnableFile(t *testing.T) {
	Disable()
	path := filepath.Join(t.TempDir(), "logs", "debug.log")
	require.NoError(t, Enable(path))
	Log("store", "saved %s", "daw")
	Disable()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "debug log started")
	assert.Contains(t, string(data), "saved daw")
}
