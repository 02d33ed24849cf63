// Package config loads the hardware wiring and tuning of the device.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cgxeiji/tapclock"
)

// Config describes how the device is wired and tuned. Empty fields take the
// values of Default.
type Config struct {
	// GPIO pin names as known by periph (e.g. "GPIO17").
	TapPin     string    `json:"tap_pin"`
	PulsePin   string    `json:"pulse_pin"`
	LEDPin     string    `json:"led_pin"`
	ModePins   [4]string `json:"mode_pins"`
	PulseLow   bool      `json:"pulse_active_low"`
	PulseLen   string    `json:"pulse_duration"`
	Debounce   string    `json:"debounce"`
	PollPeriod string    `json:"poll_interval"`

	// Division pot on an ADS1115.
	I2CBus       string `json:"i2c_bus"`
	ADCAddr      uint16 `json:"adc_addr"`
	PotFullScale int    `json:"pot_full_scale"`

	// MIDI input; empty disables it.
	MIDIPort string `json:"midi_port"`

	SettingsPath string `json:"settings_path"`
	Division     string `json:"division"`
}

// Default returns the configuration of the reference board.
func Default() *Config {
	return &Config{
		TapPin:       "GPIO17",
		PulsePin:     "GPIO27",
		LEDPin:       "GPIO22",
		ModePins:     [4]string{"GPIO5", "GPIO6", "GPIO13", "GPIO19"},
		PulseLen:     "100ms",
		Debounce:     "20ms",
		PollPeriod:   "5ms",
		ADCAddr:      0x48,
		PotFullScale: 26400, // 3.3V at ±4.096V
		SettingsPath: "tapclock.db",
		Division:     tapclock.Triplet16th.String(),
	}
}

// Load reads a JSON configuration file over the defaults.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 64 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that every field can be used.
func (c *Config) Validate() error {
	var errs []error
	if c.TapPin == "" && c.MIDIPort == "" {
		errs = append(errs, errors.New("no tap source: set tap_pin or midi_port"))
	}
	if c.PulsePin == "" {
		errs = append(errs, errors.New("pulse_pin is required"))
	}
	for name, d := range map[string]string{
		"pulse_duration": c.PulseLen,
		"debounce":       c.Debounce,
		"poll_interval":  c.PollPeriod,
	} {
		if v, err := time.ParseDuration(d); err != nil || v <= 0 {
			errs = append(errs, fmt.Errorf("%s: invalid duration %q", name, d))
		}
	}
	if c.PotFullScale <= 0 || c.PotFullScale > 32767 {
		errs = append(errs, fmt.Errorf("pot_full_scale %d out of range 1 to 32767", c.PotFullScale))
	}
	if _, err := tapclock.ParseDivision(c.Division); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// PulseDuration returns the length of an output pulse.
func (c *Config) PulseDuration() time.Duration {
	return mustDuration(c.PulseLen)
}

// DebounceHoldoff returns the minimum time between two footswitch presses.
func (c *Config) DebounceHoldoff() time.Duration {
	return mustDuration(c.Debounce)
}

// PollInterval returns how often the device loop polls its inputs.
func (c *Config) PollInterval() time.Duration {
	return mustDuration(c.PollPeriod)
}

// InitialDivision returns the division selected at start.
func (c *Config) InitialDivision() tapclock.Division {
	d, err := tapclock.ParseDivision(c.Division)
	if err != nil {
		return tapclock.Triplet16th
	}
	return d
}

// mustDuration parses a duration checked by Validate.
func mustDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		panic(fmt.Sprintf("config: unvalidated duration %q", s))
	}
	return d
}
