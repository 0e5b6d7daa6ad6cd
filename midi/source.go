package midi

import (
	"errors"
	"sync"
)

// DefaultBufferSize matches a generous UART receive buffer.
const DefaultBufferSize = 256

// ErrOverflow is returned by Buffer.Write when not every byte fit.
var ErrOverflow = errors.New("midi: buffer overflow")

// Source is a non-blocking byte source, typically a UART receive buffer.
type Source interface {
	// NextByte consumes one byte if available
	NextByte() (byte, bool)
	// PeekByte returns the next byte without consuming it
	PeekByte() (byte, bool)
}

// Buffer is a bounded FIFO of received bytes. One goroutine may Write
// while another polls it as a Source.
type Buffer struct {
	mu      sync.Mutex
	data    []byte
	head    int // next byte to read
	size    int
	dropped uint64
}

// NewBuffer creates a buffer holding up to capacity bytes.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultBufferSize
	}
	return &Buffer{data: make([]byte, capacity)}
}

// Write appends p. Bytes that don't fit are dropped and counted, and
// ErrOverflow is returned along with the number actually stored.
func (b *Buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := 0
	for _, c := range p {
		if b.size == len(b.data) {
			break
		}
		b.data[(b.head+b.size)%len(b.data)] = c
		b.size++
		n++
	}

	if n < len(p) {
		b.dropped += uint64(len(p) - n)
		return n, ErrOverflow
	}
	return n, nil
}

func (b *Buffer) NextByte() (byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.size == 0 {
		return 0, false
	}
	c := b.data[b.head]
	b.head = (b.head + 1) % len(b.data)
	b.size--
	return c, true
}

func (b *Buffer) PeekByte() (byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.size == 0 {
		return 0, false
	}
	return b.data[b.head], true
}

// Len returns the number of unread bytes.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.size
}

func (b *Buffer) Cap() int {
	return len(b.data)
}

// Dropped returns the total number of bytes lost to overflow.
func (b *Buffer) Dropped() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}

// Reset discards unread bytes. The drop counter is kept.
func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.head = 0
	b.size = 0
}

// BytesSource reads from a fixed slice. It is not safe for concurrent use.
type BytesSource struct {
	data []byte
	pos  int
}

func NewBytesSource(data []byte) *BytesSource {
	return &BytesSource{data: data}
}

func (s *BytesSource) NextByte() (byte, bool) {
	if s.pos >= len(s.data) {
		return 0, false
	}
	c := s.data[s.pos]
	s.pos++
	return c, true
}

func (s *BytesSource) PeekByte() (byte, bool) {
	if s.pos >= len(s.data) {
		return 0, false
	}
	return s.data[s.pos], true
}

// Len returns the number of unread bytes.
func (s *BytesSource) Len() int {
	return len(s.data) - s.pos
}
