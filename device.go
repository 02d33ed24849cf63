package tapclock

import (
	"context"
	"errors"
	"time"

	"github.com/cgxeiji/tapclock/internal/monitoring"
)

var (
	// ErrQueueFull is returned by Post when the device loop is not keeping
	// up with its inputs. The event is dropped.
	ErrQueueFull = errors.New("event queue is full")
)

// EventKind tells what an Event asks the device to do.
type EventKind uint8

const (
	// EventTap registers a tap at Event.At.
	EventTap EventKind = iota
	// EventReset forgets the measured tempo (e.g. MIDI start or stop).
	EventReset
	// EventDivision selects Event.Division.
	EventDivision
)

func (k EventKind) String() string {
	switch k {
	case EventTap:
		return "tap"
	case EventReset:
		return "reset"
	case EventDivision:
		return "division"
	}
	return "unknown"
}

// Event is an input for the device loop.
type Event struct {
	Kind     EventKind
	At       int64
	Division Division
}

// TapAt returns a tap event stamped with the timer source value at.
func TapAt(at int64) Event {
	return Event{Kind: EventTap, At: at}
}

// Restart returns an event that resets the clock.
func Restart() Event {
	return Event{Kind: EventReset}
}

// Select returns an event that changes the division to div.
func Select(div Division) Event {
	return Event{Kind: EventDivision, Division: div}
}

// Output receives the pulses decided by the clock.
type Output interface {
	Trigger() error
}

// Poller is a collaborator the device loop polls periodically.
type Poller interface {
	Poll() error
}

// PollerFunc adapts a function to a Poller.
type PollerFunc func() error

// Poll calls f.
func (f PollerFunc) Poll() error {
	return f()
}

// Device owns a Clock and runs the control loop around it: events posted by
// the inputs are applied one at a time, pulses are forwarded to the output,
// and the pollers are serviced in between.
type Device struct {
	clock    *Clock
	output   Output
	pollers  []Poller
	events   chan Event
	interval time.Duration
}

// New returns a device sending its pulses to output.
func New(output Output, options ...Option) *Device {
	d := &Device{
		clock:    NewClock(),
		output:   output,
		events:   make(chan Event, 64),
		interval: 5 * time.Millisecond,
	}
	for _, opt := range options {
		opt(d)
	}

	return d
}

// Post queues an event for the device loop. It never blocks; if the queue is
// full the event is dropped and ErrQueueFull is returned.
func (d *Device) Post(e Event) error {
	select {
	case d.events <- e:
		return nil
	default:
		return ErrQueueFull
	}
}

// Run services events and pollers until ctx is done. It must be called from a
// single goroutine.
func (d *Device) Run(ctx context.Context) error {
	t := time.NewTicker(d.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case e := <-d.events:
			d.handle(e)

		case <-t.C:
			for _, p := range d.pollers {
				if err := p.Poll(); err != nil {
					monitoring.Logger.Warn("tapclock: poll failed", "err", err)
				}
			}
		}
	}
}

func (d *Device) handle(e Event) {
	switch e.Kind {
	case EventTap:
		pulse := d.clock.Tick(e.At)
		if d.clock.TempoChanged() {
			monitoring.Logger.Debug("tempo change",
				"short", d.clock.ShortAverage(),
				"long", d.clock.LongAverage(),
				"bpm", d.clock.BPM(ClocksPerQuarter),
			)
		}
		if !pulse {
			return
		}
		if err := d.output.Trigger(); err != nil {
			monitoring.Logger.Warn("tapclock: could not send pulse", "err", err)
		}

	case EventReset:
		d.clock.Reset()
		monitoring.Logger.Debug("clock reset")

	case EventDivision:
		if !e.Division.Valid() {
			monitoring.Logger.Warn("tapclock: ignoring invalid division", "division", e.Division)
			return
		}
		d.clock.SetDivision(e.Division)
		monitoring.Logger.Info("division", "division", e.Division, "clocks", e.Division.Clocks())
	}
}
