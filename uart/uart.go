// Package uart reads a MIDI serial line into a midi byte buffer.
package uart

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go-midirecv/debug"
	"go-midirecv/midi"

	"go.bug.st/serial"
)

// ErrClosed is returned by Run after Close.
var ErrClosed = errors.New("uart: port closed")

// Config describes the serial line
type Config struct {
	PortName    string
	BaudRate    int           // 0 means midi.BaudRate
	ReadTimeout time.Duration // 0 means 50ms
}

// Port is an open serial line
type Port struct {
	name   string
	port   serial.Port
	closed chan struct{}
}

// Ports lists the serial ports present on the system
func Ports() ([]string, error) {
	return serial.GetPortsList()
}

// Open opens the serial port in MIDI framing (8N1)
func Open(cfg Config) (*Port, error) {
	if cfg.BaudRate <= 0 {
		cfg.BaudRate = midi.BaudRate
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 50 * time.Millisecond
	}

	p, err := serial.Open(cfg.PortName, &serial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", cfg.PortName, err)
	}

	// Reads must return periodically so Run can see ctx cancellation
	if err := p.SetReadTimeout(cfg.ReadTimeout); err != nil {
		p.Close()
		return nil, fmt.Errorf("set read timeout: %w", err)
	}

	debug.Log("uart", "opened %s at %d baud", cfg.PortName, cfg.BaudRate)
	return &Port{name: cfg.PortName, port: p, closed: make(chan struct{})}, nil
}

func (p *Port) Name() string {
	return p.name
}

// Run copies received bytes into w until ctx is done or the port fails
// (blocking - run in goroutine)
func (p *Port) Run(ctx context.Context, w io.Writer) error {
	err := Pump(ctx, p.port, w)
	select {
	case <-p.closed:
		return ErrClosed
	default:
		return err
	}
}

func (p *Port) Close() error {
	select {
	case <-p.closed:
		return nil
	default:
		close(p.closed)
	}
	return p.port.Close()
}

// Pump copies bytes from r to w until ctx is done or r fails. A read of
// zero bytes with no error is treated as a timeout. Overflow in w is
// logged and does not stop the pump. It returns nil on cancellation and
// on io.EOF.
func Pump(ctx context.Context, r io.Reader, w io.Writer) error {
	buf := make([]byte, 64)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		n, err := r.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				if !errors.Is(werr, midi.ErrOverflow) {
					return fmt.Errorf("write: %w", werr)
				}
				debug.LogEvery(16, "uart", "receive buffer overflow")
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}
	}
}
