package inputs

import "fmt"

// adcBits is the resolution AnalogSegments works at.
const adcBits = 10

// hysteresis is how close to a segment edge a reading must be to keep the
// previous segment.
const hysteresis = 4

// AnalogSegments splits the range of a 10-bit reading in equal segments and
// tells in which one a reading falls. Readings close to an edge keep the
// previous segment so a pot resting on a boundary does not flicker.
type AnalogSegments struct {
	segments int
	previous int
}

// NewAnalogSegments returns a splitter in n segments, starting from the
// segment of the initial reading. With 2 bits of hysteresis on a 10-bit
// reading at most 256 segments can be told apart.
func NewAnalogSegments(n int, initial int) (*AnalogSegments, error) {
	if n <= 0 || n > 256 {
		return nil, fmt.Errorf("inputs: %d segments, want 1 to 256", n)
	}
	a := &AnalogSegments{segments: n}
	a.previous = a.segment(clamp(initial))
	return a, nil
}

// Read returns the segment of value.
func (a *AnalogSegments) Read(value int) int {
	value = clamp(value)
	size := (1 << adcBits) / a.segments

	seg := a.segment(value)
	start := seg * size
	end := (seg+1)*size - 1
	if min(value-start, end-value) <= hysteresis {
		return a.previous
	}
	a.previous = seg
	return seg
}

// Segments returns the number of segments.
func (a *AnalogSegments) Segments() int {
	return a.segments
}

func (a *AnalogSegments) segment(value int) int {
	return value * a.segments >> adcBits
}

func clamp(value int) int {
	if value < 0 {
		return 0
	}
	if value >= 1<<adcBits {
		return 1<<adcBits - 1
	}
	return value
}
