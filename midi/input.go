package midi

import (
	"fmt"

	"go-midirecv/debug"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// Input decodes one host MIDI input port. The driver callback only writes
// raw bytes into the input's Buffer; decoding happens in Poll, on the
// caller's goroutine.
type Input struct {
	id       string
	inPort   drivers.In
	stopFunc func()

	buf  *Buffer
	recv *Receiver
}

// NewInput opens inPort and starts buffering its bytes. A nil inPort gives
// an input that is only fed through Write.
func NewInput(id string, inPort drivers.In, bufSize int, h Handler) (*Input, error) {
	buf := NewBuffer(bufSize)
	in := &Input{
		id:     id,
		inPort: inPort,
		buf:    buf,
		recv:   NewReceiver(buf, h),
	}

	if inPort != nil {
		stop, err := gomidi.ListenTo(inPort, in.feed, gomidi.UseSysEx())
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		in.stopFunc = stop
	}

	return in, nil
}

func (in *Input) feed(msg gomidi.Message, timestampms int32) {
	in.Write([]byte(msg))
}

// Write queues raw bytes as if they had arrived on the port. It is safe
// to call from another goroutine than Poll.
func (in *Input) Write(p []byte) (int, error) {
	n, err := in.buf.Write(p)
	if err != nil {
		debug.LogEvery(16, "midi-in", "%s: %v, dropped=%d", in.id, err, in.buf.Dropped())
	}
	return n, err
}

func (in *Input) ID() string {
	return in.id
}

// Poll decodes everything buffered so far and returns how many messages
// reached the handler.
func (in *Input) Poll() int {
	return in.recv.Drain(0)
}

// Stats returns the decoder counters and the number of bytes dropped on
// overflow.
func (in *Input) Stats() (Stats, uint64) {
	return in.recv.Decoder.Stats(), in.buf.Dropped()
}

func (in *Input) Close() error {
	if in.stopFunc != nil {
		in.stopFunc()
		in.stopFunc = nil
	}
	return nil
}
