package midi

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2/drivers"
)

func newTestManager(opts ...Option) *DeviceManager {
	dm := NewDeviceManager(opts...)
	dm.inPorts = func() []drivers.In { return nil }
	return dm
}

func TestPortNameMatching(t *testing.T) {
	dm := newTestManager()
	require.True(t, dm.matches("anything"))

	dm = newTestManager(WithPortNames("KeyStep", "  ", "uart"))
	require.True(t, dm.matches("Arturia KeyStep 37 MIDI 1"))
	require.True(t, dm.matches("UART MIDI"))
	require.False(t, dm.matches("Launchpad X LPX MIDI"))
}

func TestManagerForwardsDecodedMessages(t *testing.T) {
	dm := newTestManager(WithBufferSize(64))
	in := dm.AddInput("serial:ttyUSB0", 0)

	ev := <-dm.Events()
	require.Equal(t, DeviceEvent{Type: DeviceConnected, ID: "serial:ttyUSB0"}, ev)
	require.Equal(t, []string{"serial:ttyUSB0"}, dm.Inputs())

	in.Write([]byte{0xB0, 0x07, 0x64, 0x08, 0x40, 0x3C})
	dm.poll()

	require.Equal(t, PortMessage{Port: "serial:ttyUSB0", Message: Message{Kind: ControlChange, Channel: 1, Control: 7, Value: 100}}, <-dm.Messages())
	require.Equal(t, PortMessage{Port: "serial:ttyUSB0", Message: Message{Kind: ControlChange, Channel: 1, Control: 8, Value: 64}}, <-dm.Messages())

	status := dm.Status()
	require.Len(t, status, 1)
	require.Equal(t, uint64(2), status[0].Stats.Delivered)
}

func TestScanKeepsExternalInputs(t *testing.T) {
	dm := newTestManager()
	dm.AddInput("serial:a", 0)
	<-dm.Events()

	dm.scan()
	require.Equal(t, []string{"serial:a"}, dm.Inputs())

	dm.remove("serial:a")
	ev := <-dm.Events()
	require.Equal(t, DeviceDisconnected, ev.Type)
	require.Empty(t, dm.Inputs())
	require.Empty(t, dm.Status())
}

func TestRunClosesChannelsOnCancel(t *testing.T) {
	dm := newTestManager(WithPollInterval(time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		dm.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	_, ok := <-dm.Messages()
	require.False(t, ok)
}
