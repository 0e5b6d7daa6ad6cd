package midi

// Handler receives decoded messages.
type Handler func(Message)

// Callbacks routes each message kind to its own function. Nil slots are
// skipped.
type Callbacks struct {
	NoteOff           func(channel, note, velocity uint8)
	NoteOn            func(channel, note, velocity uint8)
	NoteAftertouch    func(channel, note, pressure uint8)
	ControlChange     func(channel, control, value uint8)
	ProgramChange     func(channel, program uint8)
	ChannelAftertouch func(channel, pressure uint8)
	PitchBend         func(channel uint8, value uint16)
}

// Handle invokes the callback registered for m.Kind, if any.
func (c *Callbacks) Handle(m Message) {
	switch m.Kind {
	case NoteOff:
		if c.NoteOff != nil {
			c.NoteOff(m.Channel, m.Note, m.Velocity)
		}
	case NoteOn:
		if c.NoteOn != nil {
			c.NoteOn(m.Channel, m.Note, m.Velocity)
		}
	case NoteAftertouch:
		if c.NoteAftertouch != nil {
			c.NoteAftertouch(m.Channel, m.Note, m.Velocity)
		}
	case ControlChange:
		if c.ControlChange != nil {
			c.ControlChange(m.Channel, m.Control, uint8(m.Value))
		}
	case ProgramChange:
		if c.ProgramChange != nil {
			c.ProgramChange(m.Channel, m.Program)
		}
	case ChannelAftertouch:
		if c.ChannelAftertouch != nil {
			c.ChannelAftertouch(m.Channel, m.Velocity)
		}
	case PitchBend:
		if c.PitchBend != nil {
			c.PitchBend(m.Channel, m.Value)
		}
	}
}

// Receiver pairs a Decoder with a Handler, for callers that poll.
type Receiver struct {
	Decoder *Decoder
	src     Source
	handler Handler
}

// NewReceiver creates a receiver reading from src. h may be nil, in which
// case decoded messages are dropped.
func NewReceiver(src Source, h Handler) *Receiver {
	d := NewDecoder()
	d.Attach(src)
	return &Receiver{Decoder: d, src: src, handler: h}
}

// Poll makes one decode attempt and calls the handler if a message was
// completed. Call it from the polling loop.
func (r *Receiver) Poll() bool {
	m, ok := r.Decoder.Decode()
	if !ok {
		return false
	}
	if r.handler != nil {
		r.handler(m)
	}
	return true
}

// Drain polls until the source is empty or max messages were delivered
// (max <= 0 means no limit) and returns the number delivered. Sources
// that can't report their length get a single attempt.
func (r *Receiver) Drain(max int) int {
	l, ok := r.src.(interface{ Len() int })
	if !ok {
		if r.Poll() {
			return 1
		}
		return 0
	}

	n := 0
	for l.Len() > 0 {
		if r.Poll() {
			n++
			if max > 0 && n >= max {
				break
			}
		}
	}
	return n
}

// DecodeAll decodes every complete message in data.
func DecodeAll(data []byte) []Message {
	var out []Message
	r := NewReceiver(NewBytesSource(data), func(m Message) {
		out = append(out, m)
	})
	r.Drain(0)
	return out
}
