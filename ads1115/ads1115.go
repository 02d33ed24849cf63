// Package ads1115 reads the ADS1115 16-bit I²C analog-to-digital converter
// the division pot is wired to.
package ads1115

import (
	"errors"
	"fmt"

	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/i2c/i2creg"
	"periph.io/x/periph/host"
)

var (
	// ErrTimeout is returned when a conversion does not complete.
	ErrTimeout = errors.New("ads1115: conversion did not complete")
)

// maxPolls bounds the number of config reads while waiting for a conversion.
const maxPolls = 100

// Device defines an ADS1115 device.
type Device struct {
	dev *i2c.Dev
	bus i2c.BusCloser
}

// New returns a new ADS1115 device reading AIN0 single-shot with a ±4.096V
// range at 860 samples/s.
//
// Argument "busName" can be used to specify the exact bus to use ("/dev/i2c-2", "I2C2", "2").
// Argument "addr" can be used to specify alternative address if default (0x48) is changed.
// If "busName" argument is specified as an empty string "" the first available bus will be used.
func New(busName string, addr uint16) (*Device, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("ads1115: could not initialize host: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("ads1115: could not open I2C bus: %w", err)
	}

	d, err := NewOnBus(bus, addr)
	if err != nil {
		bus.Close()
		return nil, err
	}
	d.bus = bus

	return d, nil
}

// NewOnBus returns a device on an already open bus. Closing the device does
// not close the bus.
func NewOnBus(bus i2c.Bus, addr uint16) (*Device, error) {
	if addr == 0 {
		addr = Addr
	}

	d := &Device{
		dev: &i2c.Dev{Addr: addr, Bus: bus},
	}

	if _, err := d.Read(Config); err != nil {
		return nil, fmt.Errorf("ads1115: no device at %#x: %w", addr, err)
	}
	if err := d.Write(Config, defaultConfig); err != nil {
		return nil, fmt.Errorf("ads1115: could not initialize device: %w", err)
	}

	return d, nil
}

// Close closes the bus if the device opened it.
func (d *Device) Close() {
	if d.bus != nil {
		d.bus.Close()
	}
}

// Read reads a 16-bit register.
func (d *Device) Read(reg byte) (uint16, error) {
	b := make([]byte, 2)
	if err := d.dev.Tx([]byte{reg}, b); err != nil {
		return 0, fmt.Errorf("ads1115: could not read register %#x: %w", reg, err)
	}

	return uint16(b[0])<<8 | uint16(b[1]), nil
}

// Write writes a 16-bit register.
func (d *Device) Write(reg byte, data uint16) error {
	n, err := d.dev.Write([]byte{reg, byte(data >> 8), byte(data)})
	if err != nil {
		return fmt.Errorf("ads1115: could not write register %#x: %w", reg, err)
	}
	n-- // remove register write
	if n != 2 {
		return fmt.Errorf("ads1115: wrong number of bytes written: want %d, got %d", 2, n)
	}

	return nil
}

func (d *Device) waitUntil(reg byte, flag uint16) error {
	for i := 0; i < maxPolls; i++ {
		state, err := d.Read(reg)
		if err != nil {
			return fmt.Errorf("could not wait for %#x in %#x: %w", flag, reg, err)
		}
		if state&flag != 0 {
			return nil
		}
	}

	return ErrTimeout
}

// ReadRaw starts a single-shot conversion of the selected input and returns
// its signed result.
func (d *Device) ReadRaw() (int16, error) {
	if _, err := d.config(Config, ^OS, OS); err != nil {
		return 0, fmt.Errorf("ads1115: could not start conversion: %w", err)
	}
	if err := d.waitUntil(Config, OS); err != nil {
		return 0, err
	}

	v, err := d.Read(Conversion)
	if err != nil {
		return 0, err
	}

	return int16(v), nil
}
