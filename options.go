package tapclock

import "time"

// A ClockOption configures a clock. It returns an option that restores the
// previous value.
type ClockOption func(c *Clock) ClockOption

// InitialDivision sets the division of a clock. By default, a clock divides
// by triplet sixteenths.
func InitialDivision(d Division) ClockOption {
	return func(c *Clock) ClockOption {
		old := c.division
		if d.Valid() {
			c.division = d
		}
		return InitialDivision(old)
	}
}

// Windows sets the capacity of the short and long averaging windows. Both
// must be powers of two. By default, they are 2 and 4 taps. Changing the
// windows drops every measured interval.
func Windows(short, long int) ClockOption {
	return func(c *Clock) ClockOption {
		oldShort, oldLong := c.short.Size(), c.long.Size()
		c.short = NewRunningAverage[int32](short)
		c.long = NewRunningAverage[int32](long)
		if c.state == Tracking {
			c.state = Bootstrapped
		}
		return Windows(oldShort, oldLong)
	}
}

// An Option configures a device.
type Option func(d *Device) Option

// PollInterval sets how often the device polls its collaborators (pulse
// release, division pot, mode switch). By default, it polls every 5ms.
func PollInterval(interval time.Duration) Option {
	return func(d *Device) Option {
		old := d.interval
		if interval > 0 {
			d.interval = interval
		}
		return PollInterval(old)
	}
}

// WithClock sets the clock driven by the device.
func WithClock(c *Clock) Option {
	return func(d *Device) Option {
		old := d.clock
		d.clock = c
		return WithClock(old)
	}
}

// WithPollers adds collaborators polled by the device loop.
func WithPollers(p ...Poller) Option {
	return func(d *Device) Option {
		old := d.pollers
		d.pollers = append(append([]Poller(nil), old...), p...)
		return setPollers(old)
	}
}

func setPollers(p []Poller) Option {
	return func(d *Device) Option {
		old := d.pollers
		d.pollers = p
		return setPollers(old)
	}
}

// QueueSize sets the capacity of the event queue. By default, it holds 64
// events.
func QueueSize(n int) Option {
	return func(d *Device) Option {
		old := cap(d.events)
		if n > 0 {
			d.events = make(chan Event, n)
		}
		return QueueSize(old)
	}
}
