package widgets

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderChannelStrip(t *testing.T) {
	var cells [16]ChannelCell
	for i := range cells {
		cells[i] = ChannelCell{Symbol: '·'}
	}
	cells[9].Symbol = '●'

	out := RenderChannelStrip(cells)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	require.True(t, strings.HasPrefix(lines[0], " 1  2"))
	require.True(t, strings.HasSuffix(lines[0], "16"))
	require.Equal(t, 1, strings.Count(lines[1], "●"))
	require.Equal(t, 15, strings.Count(lines[1], "·"))
}

func TestRenderMessageLine(t *testing.T) {
	line := RenderMessageLine([3]uint8{255, 0, 0}, "a very long port name that overflows", []byte{0x90, 0x3C, 0x7F}, "NoteOn ch:1 note:60 vel:127")
	require.Contains(t, line, "90 3C 7F")
	require.Contains(t, line, "NoteOn ch:1 note:60 vel:127")
	require.Contains(t, line, "a very long port na…")
}

func TestRenderKeyHelp(t *testing.T) {
	out := RenderKeyHelp([]KeySection{{Title: "Monitor", Keys: []KeyBinding{{Key: "q", Desc: "quit"}}}})
	require.Equal(t, "Monitor\n  q            quit", out)
}
