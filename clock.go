package tapclock

import "math"

// State is the phase of a Clock.
type State uint8

const (
	// Unstarted clocks have not seen a tap yet.
	Unstarted State = iota
	// Bootstrapped clocks have seen one tap but measured no interval.
	Bootstrapped
	// Tracking clocks measure every interval and watch for tempo changes.
	Tracking
)

func (s State) String() string {
	switch s {
	case Unstarted:
		return "unstarted"
	case Bootstrapped:
		return "bootstrapped"
	case Tracking:
		return "tracking"
	}
	return "unknown"
}

// maxPulses is the number of consecutive pulses emitted per alignment.
const maxPulses = 3

const (
	defaultShortWindow = 2
	defaultLongWindow  = 4
)

// Clock infers a tempo from taps and decides on which taps a divided output
// pulse is sent.
//
// A Clock is not safe for concurrent use; it is meant to be owned by the loop
// that polls for taps.
type Clock struct {
	division     Division
	state        State
	clockCounter int
	pulseCounter int
	lastTap      int64
	tempoChanged bool

	short *RunningAverage[int32]
	long  *RunningAverage[int32]
}

// NewClock returns a Clock in the Unstarted state, dividing by triplet
// sixteenths unless configured otherwise.
func NewClock(options ...ClockOption) *Clock {
	c := &Clock{
		division: Triplet16th,
		short:    NewRunningAverage[int32](defaultShortWindow),
		long:     NewRunningAverage[int32](defaultLongWindow),
	}
	for _, opt := range options {
		opt(c)
	}

	return c
}

// Reset forgets every tap. The division is kept.
func (c *Clock) Reset() {
	c.state = Unstarted
	c.clockCounter = 0
	c.pulseCounter = 0
	c.lastTap = 0
	c.tempoChanged = false
	c.short.Reset()
	c.long.Reset()
}

// SetDivision changes the cycle length and re-arms the pulse sequence so that
// the next tap is the start of a cycle. Invalid divisions are ignored.
func (c *Clock) SetDivision(d Division) {
	if !d.Valid() {
		return
	}
	c.division = d
	c.pulseCounter = 0
	c.clockCounter = d.Clocks()
}

// Tick registers a tap at time now, in the unit of the timer source, and
// reports whether an output pulse should be sent.
func (c *Clock) Tick(now int64) bool {
	switch c.state {
	case Unstarted:
		c.lastTap = now
		c.state = Bootstrapped
		return true

	case Bootstrapped:
		interval := now - c.lastTap
		c.lastTap = now
		c.tempoChanged = false
		if interval >= 0 {
			c.push(interval)
			c.state = Tracking
		}
		c.advance()
		return c.shouldPulse()
	}

	c.advance()
	interval := now - c.lastTap
	c.lastTap = now

	c.tempoChanged = false
	if interval >= 0 {
		c.push(interval)
		c.tempoChanged = c.driftPercent() > 0
	}
	if c.tempoChanged {
		// Start tapping again at the next cycle.
		c.pulseCounter = 0
	}

	if c.clockCounter == 0 || c.tempoChanged {
		return c.shouldPulse()
	}
	return false
}

func (c *Clock) advance() {
	c.clockCounter++
	if c.clockCounter >= c.division.Clocks() {
		c.clockCounter = 0
	}
}

func (c *Clock) push(interval int64) {
	if interval > math.MaxInt32 {
		interval = math.MaxInt32
	}
	c.short.Push(int32(interval))
	c.long.Push(int32(interval))
}

// driftPercent returns how far the long window average is from the short
// one, in percent of the short average.
func (c *Clock) driftPercent() int64 {
	short := int64(c.short.Average())
	long := int64(c.long.Average())
	if short == 0 {
		return 100
	}

	delta := long - short
	if delta < 0 {
		delta = -delta
	}
	return 100 * delta / short
}

func (c *Clock) shouldPulse() bool {
	if c.clockCounter != 0 {
		return false
	}
	if c.pulseCounter < maxPulses {
		c.pulseCounter++
		return true
	}
	return false
}

// Division returns the current cycle length.
func (c *Clock) Division() Division {
	return c.division
}

// State returns the phase the clock is in.
func (c *Clock) State() State {
	return c.state
}

// ClockCounter returns the position of the last tap within the cycle.
func (c *Clock) ClockCounter() int {
	return c.clockCounter
}

// PulseCounter returns the number of pulses sent since the last re-arm.
func (c *Clock) PulseCounter() int {
	return c.pulseCounter
}

// TempoChanged reports whether the last tap was detected as a tempo change.
func (c *Clock) TempoChanged() bool {
	return c.tempoChanged
}

// ShortAverage returns the mean interval over the short window.
func (c *Clock) ShortAverage() int64 {
	return int64(c.short.Average())
}

// LongAverage returns the mean interval over the long window.
func (c *Clock) LongAverage() int64 {
	return int64(c.long.Average())
}
