package inputs

import (
	"context"
	"fmt"
	"time"

	"periph.io/x/periph/conn/gpio"
)

// Timer supplies the timestamps taps are stamped with.
type Timer interface {
	Now() int64
}

// Debouncer turns a bouncing switch level into presses. A press is accepted
// on the transition to down, unless the previous accepted press is less than
// the holdoff ago.
type Debouncer struct {
	holdoff int64
	last    int64
	down    bool
	pressed bool
}

// NewDebouncer returns a debouncer ignoring presses closer than holdoff, in
// timer units.
func NewDebouncer(holdoff int64) *Debouncer {
	return &Debouncer{holdoff: holdoff}
}

// Update feeds the switch level observed at now and reports whether it is a
// new press.
func (d *Debouncer) Update(down bool, now int64) bool {
	if down == d.down {
		return false
	}
	d.down = down
	if !down {
		return false
	}

	// A timer wrap makes the distance negative; take the press.
	if since := now - d.last; d.pressed && since >= 0 && since < d.holdoff {
		return false
	}
	d.pressed = true
	d.last = now

	return true
}

// Footswitch reports debounced presses of a momentary switch wired between a
// GPIO pin and ground, with the pin pulled up.
type Footswitch struct {
	pin      gpio.PinIn
	timer    Timer
	debounce *Debouncer
	timeout  time.Duration
}

// NewFootswitch configures pin for edge detection. Presses closer than
// holdoff (in timer units) are treated as bounces.
func NewFootswitch(pin gpio.PinIn, timer Timer, holdoff int64) (*Footswitch, error) {
	if err := pin.In(gpio.PullUp, gpio.BothEdges); err != nil {
		return nil, fmt.Errorf("inputs: could not configure footswitch %s: %w", pin, err)
	}
	return &Footswitch{
		pin:      pin,
		timer:    timer,
		debounce: NewDebouncer(holdoff),
		timeout:  100 * time.Millisecond,
	}, nil
}

// Watch calls tap with the timestamp of every press until ctx is done.
func (f *Footswitch) Watch(ctx context.Context, tap func(at int64)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !f.pin.WaitForEdge(f.timeout) {
			continue
		}
		at := f.timer.Now()
		if f.debounce.Update(f.pin.Read() == gpio.Low, at) {
			tap(at)
		}
	}
}
