// Package inputs reads the front panel of the pedal: the delay mode switch,
// the division pot and the tap footswitch.
package inputs

import (
	"fmt"

	"periph.io/x/periph/conn/gpio"
)

// DelayMode is the position of the 16-way mode switch.
type DelayMode uint8

// Delay modes by switch code.
const (
	RythmicDelay   DelayMode = 0b0000
	AnalogEcho     DelayMode = 0b0001
	Reverse        DelayMode = 0b0010
	TapeEcho       DelayMode = 0b0011
	DigitalWithMod DelayMode = 0b0100
	AnalogWithMod  DelayMode = 0b0101
	DynamicDelay   DelayMode = 0b0110
	TubeEcho       DelayMode = 0b0111
	StereoDelays   DelayMode = 0b1000
	SweepEcho      DelayMode = 0b1001
	PingPong       DelayMode = 0b1010
	MultiHead      DelayMode = 0b1011
	DigitalDelay   DelayMode = 0b1100
	LoResDelay     DelayMode = 0b1101
	AutoVolumeEcho DelayMode = 0b1110
	Looper         DelayMode = 0b1111
)

var modeNames = [16]string{
	RythmicDelay:   "rythmic delay",
	AnalogEcho:     "analog echo",
	Reverse:        "reverse",
	TapeEcho:       "tape echo",
	DigitalWithMod: "digital with mod",
	AnalogWithMod:  "analog with mod",
	DynamicDelay:   "dynamic delay",
	TubeEcho:       "tube echo",
	StereoDelays:   "stereo delays",
	SweepEcho:      "sweep echo",
	PingPong:       "ping pong",
	MultiHead:      "multi head",
	DigitalDelay:   "digital delay",
	LoResDelay:     "lo-res delay",
	AutoVolumeEcho: "auto volume echo",
	Looper:         "looper",
}

func (m DelayMode) String() string {
	if int(m) >= len(modeNames) {
		return fmt.Sprintf("DelayMode(%d)", uint8(m))
	}
	return modeNames[m]
}

// ModeEncoder reads the mode switch on four input pins, A being the most
// significant bit.
type ModeEncoder struct {
	pins [4]gpio.PinIn
}

// NewModeEncoder configures the pins as floating inputs.
func NewModeEncoder(a, b, c, d gpio.PinIn) (*ModeEncoder, error) {
	e := &ModeEncoder{pins: [4]gpio.PinIn{a, b, c, d}}
	for _, p := range e.pins {
		if p == nil {
			return nil, fmt.Errorf("inputs: mode encoder needs four pins")
		}
		if err := p.In(gpio.Float, gpio.NoEdge); err != nil {
			return nil, fmt.Errorf("inputs: could not configure %s: %w", p, err)
		}
	}
	return e, nil
}

// Read returns the current switch position.
func (e *ModeEncoder) Read() DelayMode {
	var code DelayMode
	for _, p := range e.pins {
		code <<= 1
		if p.Read() == gpio.High {
			code |= 1
		}
	}
	return code
}
