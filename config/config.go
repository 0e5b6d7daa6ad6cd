package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// InputConfig defines a host MIDI input to decode
type InputConfig struct {
	PortName    string `json:"portName" yaml:"portName"`
	AutoConnect bool   `json:"autoConnect" yaml:"autoConnect"`
	Channels    []int  `json:"channels,omitempty" yaml:"channels,omitempty"` // 1-16, empty = all
}

// SerialConfig defines a UART MIDI input
type SerialConfig struct {
	PortName      string `json:"portName,omitempty" yaml:"portName,omitempty"`
	BaudRate      int    `json:"baudRate" yaml:"baudRate"`
	BufferSize    int    `json:"bufferSize" yaml:"bufferSize"`
	ReadTimeoutMs int    `json:"readTimeoutMs,omitempty" yaml:"readTimeoutMs,omitempty"`
}

// MonitorConfig stores monitor UI preferences
type MonitorConfig struct {
	PollIntervalMs int    `json:"pollIntervalMs" yaml:"pollIntervalMs"`
	History        int    `json:"history" yaml:"history"`
	Palette        string `json:"palette,omitempty" yaml:"palette,omitempty"` // GIMP .gpl file
}

// DebugConfig controls the debug log
type DebugConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Path    string `json:"path,omitempty" yaml:"path,omitempty"`
}

// Config is the main configuration structure
type Config struct {
	Inputs  []InputConfig `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	Serial  SerialConfig  `json:"serial" yaml:"serial"`
	Monitor MonitorConfig `json:"monitor" yaml:"monitor"`
	Debug   DebugConfig   `json:"debug" yaml:"debug"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Serial: SerialConfig{
			BaudRate:   31250,
			BufferSize: 256,
		},
		Monitor: MonitorConfig{
			PollIntervalMs: 1,
			History:        200,
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-midirecv"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}

	cfg, err := LoadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads a JSON or YAML (.yaml/.yml) config. Missing fields keep
// their defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.Serial.BaudRate <= 0 {
		return fmt.Errorf("serial.baudRate must be positive, got %d", c.Serial.BaudRate)
	}
	if c.Serial.BufferSize <= 0 {
		return fmt.Errorf("serial.bufferSize must be positive, got %d", c.Serial.BufferSize)
	}
	for _, in := range c.Inputs {
		for _, ch := range in.Channels {
			if ch < 1 || ch > 16 {
				return fmt.Errorf("input %q: channel %d out of range 1-16", in.PortName, ch)
			}
		}
	}
	return nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// PollInterval returns the monitor poll interval as a duration
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Monitor.PollIntervalMs) * time.Millisecond
}

// ReadTimeout returns the serial read timeout as a duration
func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.Serial.ReadTimeoutMs) * time.Millisecond
}

// FindInput finds an input config by port name
func (c *Config) FindInput(portName string) *InputConfig {
	for i := range c.Inputs {
		if c.Inputs[i].PortName == portName {
			return &c.Inputs[i]
		}
	}
	return nil
}

// AddInput adds or updates an input config
func (c *Config) AddInput(in InputConfig) {
	for i := range c.Inputs {
		if c.Inputs[i].PortName == in.PortName {
			c.Inputs[i] = in
			return
		}
	}
	c.Inputs = append(c.Inputs, in)
}

// AutoConnectInputs returns port names with autoConnect enabled
func (c *Config) AutoConnectInputs() []string {
	var result []string
	for _, in := range c.Inputs {
		if in.AutoConnect {
			result = append(result, in.PortName)
		}
	}
	return result
}

// ChannelFilter returns the union of configured channel filters as a set;
// nil means all channels.
func (c *Config) ChannelFilter() map[int]bool {
	var set map[int]bool
	for _, in := range c.Inputs {
		for _, ch := range in.Channels {
			if set == nil {
				set = make(map[int]bool)
			}
			set[ch] = true
		}
	}
	return set
}
