package pulse

import (
	"time"

	"periph.io/x/periph/conn/gpio"
)

// An Option configures a generator. It returns an option that restores the
// previous value.
type Option func(g *Generator) Option

// Duration sets the length of a pulse. By default, pulses last 100ms.
func Duration(d time.Duration) Option {
	return func(g *Generator) Option {
		old := g.duration
		if d > 0 {
			g.duration = d
		}
		return Duration(old)
	}
}

// LED mirrors pulses on an indicator pin.
func LED(pin gpio.PinOut) Option {
	return func(g *Generator) Option {
		old := g.led
		g.led = pin
		return LED(old)
	}
}

// ActiveLow makes pulses pull the output low instead of driving it high,
// as needed by open-drain tap inputs.
func ActiveLow(low bool) Option {
	return func(g *Generator) Option {
		old := g.active == gpio.Low
		g.active = gpio.Level(!low)
		return ActiveLow(old)
	}
}

// Clock sets the time source. By default, it is time.Now.
func Clock(now func() time.Time) Option {
	return func(g *Generator) Option {
		old := g.now
		g.now = now
		return Clock(old)
	}
}
