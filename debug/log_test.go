package debug

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogDisabledIsNoop(t *testing.T) {
	Disable()
	require.False(t, Enabled())
	Log("test", "nothing %d", 1)
	LogEvery(2, "test", "nothing")
}

func TestLogWritesCategory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "debug.log")
	require.NoError(t, Enable(path))
	t.Cleanup(Disable)
	require.True(t, Enabled())

	Log("midi-resync", "discarded %d bytes", 3)
	for i := 0; i < 6; i++ {
		LogEvery(3, "midi-in", "overflow")
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)

	require.Contains(t, out, "debug logging started")
	require.Contains(t, out, "discarded 3 bytes")
	require.Contains(t, out, "cat=midi-resync")
	require.Equal(t, 2, strings.Count(out, "overflow (every 3"))
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("HOME", "/home/someone")
	require.Equal(t, "/home/someone/.config/go-midirecv/debug.log", DefaultPath())
}
