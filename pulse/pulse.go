// Package pulse drives the clock output: a fixed-duration pulse on a GPIO
// pin, optionally mirrored on an indicator LED.
package pulse

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/periph/conn/gpio"
)

// DefaultDuration is the length of a pulse.
const DefaultDuration = 100 * time.Millisecond

var (
	// ErrNoPin is returned by New when no output pin is given.
	ErrNoPin = errors.New("pulse: no output pin")
)

// Generator sends fixed-duration pulses. Trigger starts a pulse and Poll ends
// it once the duration has elapsed; Poll must be called regularly.
type Generator struct {
	pin      gpio.PinOut
	led      gpio.PinOut
	active   gpio.Level
	duration time.Duration
	now      func() time.Time

	started time.Time
	high    bool
}

// New returns a generator driving pin and leaves it released.
func New(pin gpio.PinOut, options ...Option) (*Generator, error) {
	if pin == nil {
		return nil, ErrNoPin
	}

	g := &Generator{
		pin:      pin,
		active:   gpio.High,
		duration: DefaultDuration,
		now:      time.Now,
	}
	for _, opt := range options {
		opt(g)
	}

	if err := g.Reset(); err != nil {
		return nil, err
	}

	return g, nil
}

// Trigger starts a pulse. Triggering during a pulse restarts its duration.
func (g *Generator) Trigger() error {
	if err := g.pin.Out(g.active); err != nil {
		return fmt.Errorf("pulse: could not drive %s: %w", g.pin, err)
	}
	if g.led != nil {
		if err := g.led.Out(gpio.High); err != nil {
			return fmt.Errorf("pulse: could not light %s: %w", g.led, err)
		}
	}
	g.started = g.now()
	g.high = true

	return nil
}

// Poll ends the current pulse once it has lasted its duration.
func (g *Generator) Poll() error {
	if !g.high {
		return nil
	}
	if g.now().Sub(g.started) < g.duration {
		return nil
	}
	return g.Reset()
}

// Reset ends the current pulse immediately.
func (g *Generator) Reset() error {
	if err := g.pin.Out(!g.active); err != nil {
		return fmt.Errorf("pulse: could not release %s: %w", g.pin, err)
	}
	if g.led != nil {
		if err := g.led.Out(gpio.Low); err != nil {
			return fmt.Errorf("pulse: could not turn off %s: %w", g.led, err)
		}
	}
	g.high = false

	return nil
}

// Active reports whether a pulse is in progress.
func (g *Generator) Active() bool {
	return g.high
}
