package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingReturnsDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
	require.Equal(t, 31250, cfg.Serial.BaudRate)
	require.Equal(t, time.Millisecond, cfg.PollInterval())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := DefaultConfig()
	cfg.AddInput(InputConfig{PortName: "KeyStep", AutoConnect: true, Channels: []int{1, 10}})
	cfg.Serial.PortName = "/dev/ttyUSB0"
	cfg.Debug.Enabled = true
	require.NoError(t, cfg.Save())

	_, err := os.Stat(filepath.Join(home, ".config", "go-midirecv", "config.json"))
	require.NoError(t, err)

	loaded, err := Load()
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)
}

func TestLoadFileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "midirecv.yaml")
	yml := `
inputs:
  - portName: "UM-ONE"
    autoConnect: true
    channels: [2, 3]
serial:
  portName: /dev/ttyAMA0
  readTimeoutMs: 20
monitor:
  history: 50
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, []string{"UM-ONE"}, cfg.AutoConnectInputs())
	require.Equal(t, "/dev/ttyAMA0", cfg.Serial.PortName)
	require.Equal(t, 31250, cfg.Serial.BaudRate, "unset fields keep defaults")
	require.Equal(t, 20*time.Millisecond, cfg.ReadTimeout())
	require.Equal(t, 50, cfg.Monitor.History)
	require.Equal(t, map[int]bool{2: true, 3: true}, cfg.ChannelFilter())
}

func TestLoadFileRejectsInvalid(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"inputs":[{"portName":"x","channels":[17]}]}`), 0644))
	_, err := LoadFile(bad)
	require.ErrorContains(t, err, "channel 17")

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte(`{`), 0644))
	_, err = LoadFile(broken)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.Serial.BaudRate = 0
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Serial.BufferSize = -1
	require.Error(t, cfg.Validate())
}

func TestInputsHelpers(t *testing.T) {
	cfg := DefaultConfig()
	require.Nil(t, cfg.ChannelFilter())
	require.Nil(t, cfg.FindInput("a"))

	cfg.AddInput(InputConfig{PortName: "a"})
	cfg.AddInput(InputConfig{PortName: "b", AutoConnect: true})
	cfg.AddInput(InputConfig{PortName: "a", AutoConnect: true})

	require.Len(t, cfg.Inputs, 2)
	require.True(t, cfg.FindInput("a").AutoConnect)
	require.Equal(t, []string{"a", "b"}, cfg.AutoConnectInputs())
}
