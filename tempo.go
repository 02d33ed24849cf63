package tapclock

// ClocksPerQuarter is the MIDI timing clock resolution.
const ClocksPerQuarter = 24

// BPM returns the tempo estimated from the long window, assuming the timer
// counts microseconds and tapsPerBeat taps make one beat (1 for a footswitch,
// ClocksPerQuarter for MIDI clock). Tempos outside 10 to 300 beats per minute
// are not plausible and reported as 0, as is a clock with no measured
// interval.
func (c *Clock) BPM(tapsPerBeat int) float64 {
	mean := c.LongAverage()
	if mean <= 0 || tapsPerBeat <= 0 {
		return 0
	}

	bpm := 60e6 / (float64(mean) * float64(tapsPerBeat))
	if bpm < 10 || bpm > 300 {
		return 0
	}

	return bpm
}
