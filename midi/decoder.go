package midi

import (
	"go-midirecv/debug"
)

// Result is the outcome of one decode attempt
type Result int

const (
	// Incomplete means more bytes are needed. State is kept for the next call.
	Incomplete Result = iota
	// Delivered means a complete message was produced.
	Delivered
	// Invalid means the sequence was malformed or interrupted and the
	// decoder resynchronized.
	Invalid
)

func (r Result) String() string {
	switch r {
	case Incomplete:
		return "incomplete"
	case Delivered:
		return "delivered"
	case Invalid:
		return "invalid"
	}
	return "unknown"
}

// State is everything the decoder carries between attempts.
type State struct {
	Status  byte // active status, 0 if none
	Pending int  // buffered first data byte, -1 if none
}

// NewState returns the empty state.
func NewState() State {
	return State{Pending: -1}
}

// Step makes one decode attempt against src. It reads at most one byte
// up front, then peeks and consumes only the bytes the active status
// needs. Peeked status bytes that abort a message are left in src.
func Step(st State, src Source) (State, Message, Result) {
	if src == nil {
		return NewState(), Message{}, Invalid
	}

	b, ok := src.NextByte()
	if !ok {
		return st, Message{}, Incomplete
	}
	if IsRealTime(b) {
		return st, Message{}, Incomplete
	}

	data2 := -1
	switch {
	case IsStatus(b):
		st.Status = b
		st.Pending = -1
	case st.Pending < 0:
		st.Pending = int(b)
	default:
		data2 = int(b)
	}
	data1 := st.Pending

	if st.Status == 0 {
		return NewState(), Message{}, Invalid
	}

	switch st.Status {
	case StatusSysEx:
		st.Pending = -1
		return skipSysEx(st, src)
	case StatusEOX:
		// EOX without a preceding SysEx
		return NewState(), Message{}, Invalid
	}

	n := DataLength(st.Status)
	if n < 0 {
		return NewState(), Message{}, Invalid
	}

	if n >= 1 && data1 < 0 {
		c, res := nextData(src)
		if res != Delivered {
			return settle(st, res)
		}
		st.Pending = int(c)
		data1 = int(c)
	}
	if n >= 2 && data2 < 0 {
		c, res := nextData(src)
		if res != Delivered {
			return settle(st, res)
		}
		data2 = int(c)
	}

	m, ok := synthesize(st.Status, data1, data2)
	if !ok {
		return NewState(), Message{}, Invalid
	}

	st.Pending = -1
	if !HasRunningStatus(st.Status) {
		st.Status = 0
	}
	return st, m, Delivered
}

// skipSysEx discards exclusive payload up to and including EOX. If src
// runs dry the SysEx status stays active and the scan resumes next call.
func skipSysEx(st State, src Source) (State, Message, Result) {
	for {
		c, ok := src.PeekByte()
		if !ok {
			return st, Message{}, Incomplete
		}
		switch {
		case c == StatusEOX:
			src.NextByte()
			return NewState(), Message{}, Invalid
		case IsRealTime(c):
			src.NextByte()
		case IsStatus(c):
			return NewState(), Message{}, Invalid
		default:
			src.NextByte()
		}
	}
}

// nextData peeks for the next data byte, consuming any Real-Time bytes in
// front of it. Delivered means the byte was consumed; Invalid means a status byte
// is next and was left unread.
func nextData(src Source) (byte, Result) {
	for {
		c, ok := src.PeekByte()
		if !ok {
			return 0, Incomplete
		}
		if IsRealTime(c) {
			src.NextByte()
			continue
		}
		if IsStatus(c) {
			return 0, Invalid
		}
		src.NextByte()
		return c, Delivered
	}
}

func settle(st State, res Result) (State, Message, Result) {
	if res == Invalid {
		return NewState(), Message{}, Invalid
	}
	return st, Message{}, Incomplete
}

// Stats counts decode outcomes.
type Stats struct {
	Delivered uint64
	Invalid   uint64
}

// Decoder turns a byte Source into messages. Each MIDI input needs its
// own Decoder. A Decoder is not safe for concurrent use.
type Decoder struct {
	src   Source
	state State
	stats Stats
}

// NewDecoder creates a decoder with no source attached.
func NewDecoder() *Decoder {
	return &Decoder{state: NewState()}
}

// Attach binds src. Decode state is not reset.
func (d *Decoder) Attach(src Source) {
	d.src = src
}

// Decode makes one attempt. It returns false when no complete message is
// available yet or the bytes read were discarded as invalid.
func (d *Decoder) Decode() (Message, bool) {
	st, m, res := Step(d.state, d.src)
	d.state = st

	switch res {
	case Delivered:
		d.stats.Delivered++
		return m, true
	case Invalid:
		d.stats.Invalid++
		debug.LogEvery(64, "midi-resync", "discarded invalid sequence, total=%d", d.stats.Invalid)
	}
	return Message{}, false
}

// Reset clears the active status and any buffered data byte.
func (d *Decoder) Reset() {
	d.state = NewState()
}

func (d *Decoder) State() State {
	return d.state
}

func (d *Decoder) Stats() Stats {
	return d.stats
}
