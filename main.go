package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver

	"go-midirecv/config"
	"go-midirecv/debug"
	"go-midirecv/midi"
	"go-midirecv/theme"
	"go-midirecv/tui"
	"go-midirecv/uart"
)

func main() {
	cfgPath := flag.String("config", "", "config file (.json or .yaml), default ~/.config/go-midirecv/config.json")
	serialPort := flag.String("serial", "", "also decode this serial port (overrides config)")
	flag.Parse()

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if *serialPort != "" {
		cfg.Serial.PortName = *serialPort
	}

	if cfg.Debug.Enabled {
		if err := debug.Enable(cfg.Debug.Path); err != nil {
			fmt.Printf("Warning: debug log: %v\n", err)
		}
		defer debug.Disable()
	}

	th := theme.New(theme.LoadOrDefault(cfg.Monitor.Palette))

	deviceMgr := midi.NewDeviceManager(
		midi.WithPortNames(cfg.AutoConnectInputs()...),
		midi.WithPollInterval(cfg.PollInterval()),
		midi.WithBufferSize(cfg.Serial.BufferSize),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Serial.PortName != "" {
		port, err := uart.Open(uart.Config{
			PortName:    cfg.Serial.PortName,
			BaudRate:    cfg.Serial.BaudRate,
			ReadTimeout: cfg.ReadTimeout(),
		})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		defer port.Close()

		in := deviceMgr.AddInput("serial:"+port.Name(), cfg.Serial.BufferSize)
		go func() {
			if err := port.Run(ctx, in); err != nil {
				debug.Log("uart", "%s stopped: %v", port.Name(), err)
			}
		}()
	}

	// Start device manager in background
	go deviceMgr.Run(ctx)

	var channels []int
	for ch := range cfg.ChannelFilter() {
		channels = append(channels, ch)
	}

	m := tui.NewModel(deviceMgr, th, cfg.Monitor.History, channels)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}
