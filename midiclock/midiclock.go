// Package midiclock reads the MIDI input of the pedal: timing clocks drive
// the tap tempo, transport messages restart it and program changes select
// the division.
package midiclock

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gitlab.com/gomidi/midi/v2"
)

// ErrChannel is returned by NewReader for channels outside 1 to 16.
var ErrChannel = errors.New("midiclock: channel must be between 1 and 16")

// Handlers are called by Listen for the messages the pedal reacts to. Nil
// handlers are skipped.
type Handlers struct {
	// Clock is called for every timing clock (24 per quarter note).
	Clock func()
	// Start is called on start and continue.
	Start func()
	// Stop is called on stop.
	Stop func()
	// ProgramChange is called for program changes on the reader channel.
	ProgramChange func(program uint8)
}

// Reader decodes a MIDI byte stream.
type Reader struct {
	r       io.Reader
	channel uint8
	parser  parser
}

// NewReader returns a reader of r listening to channel (1 to 16) for program
// changes.
func NewReader(r io.Reader, channel uint8) (*Reader, error) {
	if channel < 1 || channel > 16 {
		return nil, ErrChannel
	}
	return &Reader{r: r, channel: channel - 1}, nil
}

// Listen reads messages and dispatches them to h until ctx is done or the
// stream ends. A read returning no data, as a serial port does on timeout,
// is not the end of the stream.
func (r *Reader) Listen(ctx context.Context, h Handlers) error {
	buf := make([]byte, 64)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, err := r.r.Read(buf)
		for _, b := range buf[:n] {
			if msg := r.parser.feed(b); msg != nil {
				r.dispatch(msg, h)
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("midiclock: could not read: %w", err)
		}
	}
}

func (r *Reader) dispatch(msg midi.Message, h Handlers) {
	var ch, program uint8
	switch {
	case msg.Is(midi.TimingClockMsg):
		call(h.Clock)
	case msg.Is(midi.StartMsg), msg.Is(midi.ContinueMsg):
		call(h.Start)
	case msg.Is(midi.StopMsg):
		call(h.Stop)
	case msg.GetProgramChange(&ch, &program):
		if ch == r.channel && h.ProgramChange != nil {
			h.ProgramChange(program)
		}
	}
}

func call(f func()) {
	if f != nil {
		f()
	}
}

// parser assembles bytes into messages. Real-time bytes may appear anywhere
// and do not break running status; system exclusive data is skipped.
type parser struct {
	status byte
	data   []byte
	want   int
	sysex  bool
}

func (p *parser) feed(b byte) midi.Message {
	switch {
	case b >= 0xF8:
		return midi.Message{b}

	case b == 0xF0:
		p.sysex = true
		p.status = 0
		return nil

	case b == 0xF7:
		p.sysex = false
		return nil

	case b >= 0xF0:
		// System common: cancels running status.
		p.sysex = false
		p.status = b
		p.data = p.data[:0]
		p.want = commonLength(b)
		if p.want == 0 {
			p.status = 0
			return midi.Message{b}
		}
		return nil

	case b >= 0x80:
		p.sysex = false
		p.status = b
		p.data = p.data[:0]
		p.want = 2
		if s := b & 0xF0; s == 0xC0 || s == 0xD0 {
			p.want = 1
		}
		return nil
	}

	if p.sysex || p.status == 0 {
		return nil
	}
	p.data = append(p.data, b)
	if len(p.data) < p.want {
		return nil
	}

	msg := make(midi.Message, 0, 1+len(p.data))
	msg = append(msg, p.status)
	msg = append(msg, p.data...)
	p.data = p.data[:0]
	if p.status >= 0xF0 {
		p.status = 0
	}

	return msg
}

func commonLength(status byte) int {
	switch status {
	case 0xF1, 0xF3:
		return 1
	case 0xF2:
		return 2
	}
	return 0
}
