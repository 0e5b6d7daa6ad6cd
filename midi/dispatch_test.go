package midi

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCallbacksDispatch(t *testing.T) {
	var calls []string
	cb := &Callbacks{
		NoteOff: func(ch, note, vel uint8) {
			calls = append(calls, "off", string([]byte{ch, note, vel}))
		},
		NoteOn: func(ch, note, vel uint8) {
			calls = append(calls, "on", string([]byte{ch, note, vel}))
		},
		NoteAftertouch: func(ch, note, pressure uint8) {
			calls = append(calls, "poly", string([]byte{ch, note, pressure}))
		},
		ControlChange: func(ch, control, value uint8) {
			calls = append(calls, "cc", string([]byte{ch, control, value}))
		},
		ProgramChange: func(ch, program uint8) {
			calls = append(calls, "pc", string([]byte{ch, program}))
		},
		ChannelAftertouch: func(ch, pressure uint8) {
			calls = append(calls, "at", string([]byte{ch, pressure}))
		},
		PitchBend: func(ch uint8, value uint16) {
			calls = append(calls, "pb", string([]byte{ch, byte(value >> 7), byte(value & 0x7F)}))
		},
	}

	r := NewReceiver(NewBytesSource([]byte{
		0x80, 1, 2,
		0x91, 3, 4,
		0xA2, 5, 6,
		0xB3, 7, 8,
		0xC4, 9,
		0xD5, 10,
		0xE6, 0x7F, 0x40,
	}), cb.Handle)
	require.Equal(t, 7, r.Drain(0))

	require.Equal(t, []string{
		"off", "\x01\x01\x02",
		"on", "\x02\x03\x04",
		"poly", "\x03\x05\x06",
		"cc", "\x04\x07\x08",
		"pc", "\x05\x09",
		"at", "\x06\x0a",
		"pb", "\x07\x40\x7f",
	}, calls)
}

func TestCallbacksUnsetSlots(t *testing.T) {
	called := 0
	cb := &Callbacks{ProgramChange: func(ch, program uint8) { called++ }}

	for _, k := range Kinds {
		cb.Handle(Message{Kind: k, Channel: 1})
	}
	cb.Handle(Message{})
	require.Equal(t, 1, called)
}

func TestReceiverPoll(t *testing.T) {
	var got []Message
	r := NewReceiver(NewBytesSource([]byte{0x90, 0x3C, 0x7F, 0x3E}), func(m Message) {
		got = append(got, m)
	})

	require.True(t, r.Poll())
	require.False(t, r.Poll())
	require.False(t, r.Poll())
	require.Equal(t, []Message{noteOn(1, 60, 127)}, got)
}

func TestReceiverDrainLimit(t *testing.T) {
	src := NewBytesSource([]byte{0xC0, 1, 2, 3, 4})
	r := NewReceiver(src, nil)

	require.Equal(t, 2, r.Drain(2))
	require.Equal(t, 2, src.Len())
	require.Equal(t, 2, r.Drain(0))
	require.Equal(t, 0, r.Drain(0))
}

func TestReceiverDrainWithoutLen(t *testing.T) {
	// NextByte/PeekByte only, no usable Len
	src := struct{ Source }{NewBytesSource([]byte{0xC0, 1, 2})}
	r := NewReceiver(src, nil)
	require.Equal(t, 1, r.Drain(0))
	require.Equal(t, 1, r.Drain(0))
	require.Equal(t, 0, r.Drain(0))
}
