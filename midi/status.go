package midi

// BaudRate is the fixed MIDI 1.0 serial rate.
const BaudRate = 31250

// Status bytes (channel voice values carry channel 0 in the low nibble)
const (
	StatusNoteOff           byte = 0x80
	StatusNoteOn            byte = 0x90
	StatusNoteAftertouch    byte = 0xA0
	StatusControlChange     byte = 0xB0
	StatusProgramChange     byte = 0xC0
	StatusChannelAftertouch byte = 0xD0
	StatusPitchBend         byte = 0xE0

	StatusSysEx byte = 0xF0
	StatusEOX   byte = 0xF7

	StatusTimingClock   byte = 0xF8
	StatusStart         byte = 0xFA
	StatusContinue      byte = 0xFB
	StatusStop          byte = 0xFC
	StatusActiveSensing byte = 0xFE
	StatusReset         byte = 0xFF
)

// IsStatus reports whether b has the status bit set.
func IsStatus(b byte) bool {
	return b&0x80 != 0
}

// IsRealTime reports whether b is a System Real-Time byte (0xF8-0xFF).
// These may appear anywhere in the stream, including mid-message.
func IsRealTime(b byte) bool {
	return b >= StatusTimingClock
}

// DataLength returns how many data bytes follow status, or -1 if the
// decoder does not support the status family.
func DataLength(status byte) int {
	switch status & 0xF0 {
	case StatusNoteOff, StatusNoteOn, StatusNoteAftertouch, StatusControlChange, StatusPitchBend:
		return 2
	case StatusProgramChange, StatusChannelAftertouch:
		return 1
	}
	return -1
}

// HasRunningStatus reports whether status stays active after a complete
// message, so that following data bytes reuse it.
func HasRunningStatus(status byte) bool {
	return status >= 0x80 && status <= 0xEF
}
