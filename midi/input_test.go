package midi

import (
	"testing"

	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"
)

func TestInputDecodesFedMessages(t *testing.T) {
	var got []Message
	in, err := NewInput("test", nil, 0, func(m Message) { got = append(got, m) })
	require.NoError(t, err)
	defer in.Close()

	in.feed(gomidi.NoteOn(0, 60, 100), 0)
	in.feed(gomidi.SysEx([]byte{0x01, 0x02, 0x03}), 0)
	in.feed(gomidi.Pitchbend(3, 0), 0)

	require.Equal(t, 2, in.Poll())
	require.Equal(t, []Message{
		noteOn(1, 60, 100),
		{Kind: PitchBend, Channel: 4, Value: 8192},
	}, got)

	stats, dropped := in.Stats()
	require.Equal(t, uint64(2), stats.Delivered)
	require.Equal(t, uint64(1), stats.Invalid) // the skipped SysEx block
	require.Zero(t, dropped)
}

func TestInputOverflow(t *testing.T) {
	in, err := NewInput("small", nil, 4, nil)
	require.NoError(t, err)

	n, err := in.Write([]byte{0x90, 0x3C, 0x7F, 0x3E, 0x00, 0x40})
	require.ErrorIs(t, err, ErrOverflow)
	require.Equal(t, 4, n)

	_, dropped := in.Stats()
	require.Equal(t, uint64(2), dropped)
	require.Equal(t, "small", in.ID())
}
