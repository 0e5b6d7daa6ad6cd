package midi

import (
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// Kind identifies the type of a decoded message
type Kind uint8

const (
	KindNone Kind = iota
	NoteOff
	NoteOn
	NoteAftertouch
	ControlChange
	ProgramChange
	ChannelAftertouch
	PitchBend
)

// Kinds lists every kind the decoder can produce, in status order.
var Kinds = []Kind{NoteOff, NoteOn, NoteAftertouch, ControlChange, ProgramChange, ChannelAftertouch, PitchBend}

func (k Kind) String() string {
	switch k {
	case NoteOff:
		return "NoteOff"
	case NoteOn:
		return "NoteOn"
	case NoteAftertouch:
		return "NoteAftertouch"
	case ControlChange:
		return "ControlChange"
	case ProgramChange:
		return "ProgramChange"
	case ChannelAftertouch:
		return "ChannelAftertouch"
	case PitchBend:
		return "PitchBend"
	}
	return "None"
}

// Message is a decoded channel message. Only the fields belonging to Kind
// are set:
//
//	NoteOff, NoteOn, NoteAftertouch  Note, Velocity
//	ControlChange                    Control, Value
//	ProgramChange                    Program
//	ChannelAftertouch                Velocity
//	PitchBend                        Value (0-16383, center 8192)
type Message struct {
	Kind     Kind
	Channel  uint8 // 1-16
	Note     uint8
	Velocity uint8
	Control  uint8
	Program  uint8
	Value    uint16
}

// Pressure returns the aftertouch pressure, which is carried in Velocity.
func (m Message) Pressure() uint8 {
	return m.Velocity
}

func (m Message) String() string {
	switch m.Kind {
	case NoteOff, NoteOn, NoteAftertouch:
		return fmt.Sprintf("%s ch:%d note:%d vel:%d", m.Kind, m.Channel, m.Note, m.Velocity)
	case ControlChange:
		return fmt.Sprintf("%s ch:%d cc:%d val:%d", m.Kind, m.Channel, m.Control, m.Value)
	case ProgramChange:
		return fmt.Sprintf("%s ch:%d prog:%d", m.Kind, m.Channel, m.Program)
	case ChannelAftertouch:
		return fmt.Sprintf("%s ch:%d pressure:%d", m.Kind, m.Channel, m.Velocity)
	case PitchBend:
		return fmt.Sprintf("%s ch:%d val:%d", m.Kind, m.Channel, m.Value)
	}
	return "None"
}

// Raw returns the message in gomidi wire form (running status expanded).
// It returns nil for KindNone.
func (m Message) Raw() gomidi.Message {
	ch := m.Channel - 1
	switch m.Kind {
	case NoteOff:
		return gomidi.NoteOffVelocity(ch, m.Note, m.Velocity)
	case NoteOn:
		return gomidi.NoteOn(ch, m.Note, m.Velocity)
	case NoteAftertouch:
		return gomidi.PolyAfterTouch(ch, m.Note, m.Velocity)
	case ControlChange:
		return gomidi.ControlChange(ch, m.Control, uint8(m.Value))
	case ProgramChange:
		return gomidi.ProgramChange(ch, m.Program)
	case ChannelAftertouch:
		return gomidi.AfterTouch(ch, m.Velocity)
	case PitchBend:
		return gomidi.Pitchbend(ch, int16(m.Value)-8192)
	}
	return nil
}

// synthesize builds a message from a status byte and its data bytes.
// Missing data bytes are passed as -1.
func synthesize(status byte, data1, data2 int) (Message, bool) {
	m := Message{Channel: status&0x0F + 1}

	switch status & 0xF0 {
	case StatusNoteOff, StatusNoteOn, StatusNoteAftertouch:
		if data1 < 0 || data2 < 0 {
			return Message{}, false
		}
		m.Kind = noteKind(status)
		m.Note = uint8(data1)
		m.Velocity = uint8(data2)
	case StatusControlChange:
		if data1 < 0 || data2 < 0 {
			return Message{}, false
		}
		m.Kind = ControlChange
		m.Control = uint8(data1)
		m.Value = uint16(data2)
	case StatusProgramChange:
		if data1 < 0 {
			return Message{}, false
		}
		m.Kind = ProgramChange
		m.Program = uint8(data1)
	case StatusChannelAftertouch:
		if data1 < 0 {
			return Message{}, false
		}
		m.Kind = ChannelAftertouch
		m.Velocity = uint8(data1)
	case StatusPitchBend:
		if data1 < 0 || data2 < 0 {
			return Message{}, false
		}
		m.Kind = PitchBend
		m.Value = uint16(data2)<<7 | uint16(data1)
	default:
		return Message{}, false
	}

	return m, true
}

func noteKind(status byte) Kind {
	switch status & 0xF0 {
	case StatusNoteOff:
		return NoteOff
	case StatusNoteOn:
		return NoteOn
	}
	return NoteAftertouch
}
