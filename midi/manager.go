package midi

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"go-midirecv/debug"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// ErrNoPort is returned when no input port matches.
var ErrNoPort = errors.New("midi: no matching input port")

// DeviceEvent is emitted when inputs connect/disconnect
type DeviceEvent struct {
	Type DeviceEventType
	ID   string
}

type DeviceEventType int

const (
	DeviceConnected DeviceEventType = iota
	DeviceDisconnected
)

// PortMessage is a decoded message tagged with the port it came from
type PortMessage struct {
	Port    string
	Message Message
}

// InputStatus is a snapshot of one input's counters
type InputStatus struct {
	ID      string
	Stats   Stats
	Dropped uint64
}

// Option configures a DeviceManager
type Option func(*DeviceManager)

// WithPortNames restricts the manager to ports whose name contains one of
// names (case-insensitive). No names means every input port.
func WithPortNames(names ...string) Option {
	return func(dm *DeviceManager) {
		for _, n := range names {
			if n = strings.TrimSpace(n); n != "" {
				dm.match = append(dm.match, strings.ToLower(n))
			}
		}
	}
}

// WithPollInterval sets how often buffered bytes are decoded.
func WithPollInterval(d time.Duration) Option {
	return func(dm *DeviceManager) {
		if d > 0 {
			dm.pollRate = d
		}
	}
}

// WithBufferSize sets the per-input receive buffer size.
func WithBufferSize(n int) Option {
	return func(dm *DeviceManager) {
		dm.bufSize = n
	}
}

// DeviceManager handles hot-plug detection of MIDI inputs and polls a
// decoder per input
type DeviceManager struct {
	inputs   map[string]*Input
	status   map[string]InputStatus
	mu       sync.RWMutex
	events   chan DeviceEvent
	messages chan PortMessage
	scanRate time.Duration
	pollRate time.Duration
	bufSize  int
	match    []string
	inPorts  func() []drivers.In
}

// NewDeviceManager creates a new device manager
func NewDeviceManager(opts ...Option) *DeviceManager {
	dm := &DeviceManager{
		inputs:   make(map[string]*Input),
		status:   make(map[string]InputStatus),
		events:   make(chan DeviceEvent, 16),
		messages: make(chan PortMessage, 256),
		scanRate: time.Second,
		pollRate: time.Millisecond,
		bufSize:  DefaultBufferSize,
		inPorts:  func() []drivers.In { return gomidi.GetInPorts() },
	}
	for _, o := range opts {
		o(dm)
	}
	return dm
}

// Events returns a channel of device connect/disconnect events
func (dm *DeviceManager) Events() <-chan DeviceEvent {
	return dm.events
}

// Messages returns decoded messages from every connected input
func (dm *DeviceManager) Messages() <-chan PortMessage {
	return dm.messages
}

// Inputs returns the IDs of connected inputs, sorted
func (dm *DeviceManager) Inputs() []string {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	ids := make([]string, 0, len(dm.inputs))
	for id := range dm.inputs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Status returns counters for every connected input as of the last poll
func (dm *DeviceManager) Status() []InputStatus {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	out := make([]InputStatus, 0, len(dm.status))
	for _, s := range dm.status {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Run starts the scan and poll loops (blocking - run in goroutine)
func (dm *DeviceManager) Run(ctx context.Context) {
	scan := time.NewTicker(dm.scanRate)
	defer scan.Stop()
	poll := time.NewTicker(dm.pollRate)
	defer poll.Stop()

	// Initial scan
	dm.scan()

	for {
		select {
		case <-ctx.Done():
			dm.closeAll()
			close(dm.events)
			close(dm.messages)
			return
		case <-scan.C:
			dm.scan()
		case <-poll.C:
			dm.poll()
		}
	}
}

func (dm *DeviceManager) poll() {
	dm.mu.RLock()
	inputs := make([]*Input, 0, len(dm.inputs))
	for _, in := range dm.inputs {
		inputs = append(inputs, in)
	}
	dm.mu.RUnlock()

	for _, in := range inputs {
		in.Poll()
		stats, dropped := in.Stats()
		dm.mu.Lock()
		dm.status[in.ID()] = InputStatus{ID: in.ID(), Stats: stats, Dropped: dropped}
		dm.mu.Unlock()
	}
}

// forward returns the handler for an input; messages are dropped if the
// consumer falls behind
func (dm *DeviceManager) forward(id string) Handler {
	return func(m Message) {
		select {
		case dm.messages <- PortMessage{Port: id, Message: m}:
		default:
			debug.LogEvery(64, "midi-in", "%s: consumer behind, message dropped", id)
		}
	}
}

func (dm *DeviceManager) scan() {
	// Get current MIDI ports with timeout (CoreMIDI can hang)
	ch := make(chan []drivers.In, 1)
	go func() {
		ch <- dm.inPorts()
	}()

	var inPorts []drivers.In
	select {
	case inPorts = <-ch:
	case <-time.After(3 * time.Second):
		debug.Log("midi-scan", "port listing timed out, skipping scan")
		return
	}

	seenIDs := make(map[string]bool)

	for _, inPort := range inPorts {
		id := inPort.String()
		if !dm.matches(id) {
			continue
		}
		seenIDs[id] = true

		dm.mu.RLock()
		_, exists := dm.inputs[id]
		dm.mu.RUnlock()
		if exists {
			continue
		}

		in, err := NewInput(id, inPort, dm.bufSize, dm.forward(id))
		if err != nil {
			debug.Log("midi-scan", "%s: %v", id, err)
			continue
		}
		dm.add(in)
	}

	// Check for disconnects
	dm.mu.Lock()
	var toRemove []string
	for id, in := range dm.inputs {
		// inputs without a driver port are fed externally
		if in.inPort != nil && !seenIDs[id] {
			toRemove = append(toRemove, id)
		}
	}
	dm.mu.Unlock()
	for _, id := range toRemove {
		dm.remove(id)
	}
}

// AddInput registers an externally fed input, such as a UART, so it is
// polled alongside the driver ports.
func (dm *DeviceManager) AddInput(id string, bufSize int) *Input {
	in, _ := NewInput(id, nil, bufSize, dm.forward(id))
	dm.add(in)
	return in
}

func (dm *DeviceManager) add(in *Input) {
	dm.mu.Lock()
	dm.inputs[in.ID()] = in
	dm.status[in.ID()] = InputStatus{ID: in.ID()}
	dm.mu.Unlock()

	debug.Log("midi-scan", "connected %s", in.ID())
	dm.emit(DeviceEvent{Type: DeviceConnected, ID: in.ID()})
}

func (dm *DeviceManager) remove(id string) {
	dm.mu.Lock()
	in, ok := dm.inputs[id]
	if ok {
		in.Close()
		delete(dm.inputs, id)
		delete(dm.status, id)
	}
	dm.mu.Unlock()

	if ok {
		debug.Log("midi-scan", "disconnected %s", id)
		dm.emit(DeviceEvent{Type: DeviceDisconnected, ID: id})
	}
}

func (dm *DeviceManager) emit(ev DeviceEvent) {
	select {
	case dm.events <- ev:
	default:
		debug.Log("midi-scan", "event queue full, dropped %v for %s", ev.Type, ev.ID)
	}
}

func (dm *DeviceManager) closeAll() {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	for _, in := range dm.inputs {
		in.Close()
	}
	dm.inputs = make(map[string]*Input)
	dm.status = make(map[string]InputStatus)
}

func (dm *DeviceManager) matches(name string) bool {
	if len(dm.match) == 0 {
		return true
	}
	name = strings.ToLower(name)
	for _, m := range dm.match {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}

// FindInPort returns the first input port whose name contains name
// (case-insensitive).
func FindInPort(name string) (drivers.In, error) {
	name = strings.ToLower(name)
	for _, p := range gomidi.GetInPorts() {
		if strings.Contains(strings.ToLower(p.String()), name) {
			return p, nil
		}
	}
	return nil, ErrNoPort
}
