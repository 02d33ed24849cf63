package tapclock

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tapEvery ticks c n times, interval apart, starting at start. It returns
// the pulse decisions and the time of the next tap.
func tapEvery(c *Clock, start, interval int64, n int) ([]bool, int64) {
	pulses := make([]bool, n)
	now := start
	for i := range pulses {
		pulses[i] = c.Tick(now)
		now += interval
	}
	return pulses, now
}

// pulsedAt returns the 1-based indices of the taps that sent a pulse.
func pulsedAt(pulses []bool) []int {
	var at []int
	for i, p := range pulses {
		if p {
			at = append(at, i+1)
		}
	}
	return at
}

func TestClock_FirstTickAlwaysPulses(t *testing.T) {
	for _, t0 := range []int64{0, 1, -1, 1 << 40} {
		c := NewClock()
		assert.True(t, c.Tick(t0), "first tick at %d", t0)
		assert.Equal(t, Bootstrapped, c.State())
		assert.Equal(t, 0, c.ClockCounter())
		assert.Zero(t, c.ShortAverage())
	}
}

func TestClock_SteadyTempo(t *testing.T) {
	c := NewClock(InitialDivision(Triplet16th))

	pulses, _ := tapEvery(c, 0, 1000, 24)
	assert.Equal(t, []int{1, 5, 9, 13}, pulsedAt(pulses),
		"bootstrap pulse, then one per cycle for three cycles")
	assert.Equal(t, 3, c.PulseCounter())
	assert.Equal(t, Tracking, c.State())
	assert.False(t, c.TempoChanged())
	assert.Equal(t, int64(1000), c.ShortAverage())
	assert.Equal(t, int64(1000), c.LongAverage())
}

func TestClock_SecondTickUpdatesTimestamp(t *testing.T) {
	c := NewClock()
	now := int64(5000)
	for i := 0; i < 10; i++ {
		c.Tick(now)
		require.False(t, c.TempoChanged(), "tap %d", i+1)
		now += 1000
	}
	assert.Equal(t, int64(1000), c.ShortAverage())
	assert.Equal(t, int64(1000), c.LongAverage())
}

func TestClock_TempoHalves(t *testing.T) {
	c := NewClock(InitialDivision(Triplet32nd))

	pulses, now := tapEvery(c, 0, 1000, 10)
	require.Equal(t, []int{1, 3, 5, 7}, pulsedAt(pulses))
	require.Equal(t, 3, c.PulseCounter())

	assert.True(t, c.Tick(now-500), "tempo change re-arms the pulses")
	assert.True(t, c.TempoChanged())
	assert.Equal(t, 1, c.PulseCounter())
	assert.Equal(t, int64(750), c.ShortAverage())
	assert.Equal(t, int64(875), c.LongAverage())

	// The change keeps being reported until the long window catches up.
	pulses, _ = tapEvery(c, now, 500, 6)
	assert.Equal(t, []bool{false, true, false, true, false, true}, pulses)
	assert.False(t, c.TempoChanged())
	assert.Equal(t, int64(500), c.LongAverage())
}

func TestClock_TempoChangeOffCycle(t *testing.T) {
	c := NewClock(InitialDivision(Triplet16th))
	_, now := tapEvery(c, 0, 1000, 16)
	require.Equal(t, 3, c.PulseCounter())
	require.Equal(t, 3, c.ClockCounter())

	// The counter wraps to 0 on this tap, so the re-armed clock pulses.
	assert.True(t, c.Tick(now-500))
	assert.True(t, c.TempoChanged())
	assert.Equal(t, 1, c.PulseCounter())

	// A change detected away from the cycle start only re-arms.
	c.Reset()
	_, now = tapEvery(c, 0, 1000, 15)
	require.Equal(t, 2, c.ClockCounter())
	assert.False(t, c.Tick(now+1000))
	assert.True(t, c.TempoChanged())
	assert.Equal(t, 0, c.PulseCounter())
	assert.Equal(t, 3, c.ClockCounter())
}

func TestClock_NegativeInterval(t *testing.T) {
	c := NewClock()
	_, now := tapEvery(c, 0, 1000, 6)
	short, long := c.ShortAverage(), c.LongAverage()
	shortN, longN := c.short.Samples(), c.long.Samples()
	counter := c.ClockCounter()

	c.Tick(now - 1_000_000)
	assert.False(t, c.TempoChanged())
	assert.Equal(t, short, c.ShortAverage())
	assert.Equal(t, long, c.LongAverage())
	assert.Equal(t, shortN, c.short.Samples())
	assert.Equal(t, longN, c.long.Samples())
	assert.Equal(t, (counter+1)%Triplet16th.Clocks(), c.ClockCounter(), "counter still advances")

	// Measuring resumes from the wrapped timestamp.
	c.Tick(now - 1_000_000 + 1000)
	assert.False(t, c.TempoChanged())
	assert.Equal(t, int64(1000), c.ShortAverage())
}

func TestClock_NegativeSecondInterval(t *testing.T) {
	c := NewClock()
	require.True(t, c.Tick(1000))

	c.Tick(10)
	assert.Equal(t, Bootstrapped, c.State(), "nothing measured yet")
	assert.Equal(t, 0, c.short.Samples())

	c.Tick(1010)
	assert.Equal(t, Tracking, c.State())
	assert.Equal(t, int64(1000), c.ShortAverage())
	assert.False(t, c.TempoChanged())
}

func TestClock_HugeIntervalSaturates(t *testing.T) {
	c := NewClock()
	c.Tick(0)
	c.Tick(1 << 40)
	assert.Equal(t, int64(1<<31-1), c.ShortAverage())
}

func TestClock_ZeroIntervalIsTempoChange(t *testing.T) {
	c := NewClock()
	c.Tick(100)
	c.Tick(100)
	c.Tick(100)
	assert.True(t, c.TempoChanged())
}

func TestClock_SetDivision(t *testing.T) {
	c := NewClock()
	_, now := tapEvery(c, 0, 1000, 22)
	require.Equal(t, 3, c.PulseCounter())

	c.SetDivision(RegularQuarter)
	assert.Equal(t, RegularQuarter, c.Division())
	assert.Equal(t, 24, c.ClockCounter())
	assert.Equal(t, 0, c.PulseCounter())

	assert.True(t, c.Tick(now), "next tap starts a cycle")
	assert.Equal(t, 0, c.ClockCounter())
	assert.Equal(t, 1, c.PulseCounter())

	pulses, _ := tapEvery(c, now+1000, 1000, 72)
	assert.Equal(t, []int{24, 48}, pulsedAt(pulses), "third pulse was sent on the first tap")
}

func TestClock_SetInvalidDivision(t *testing.T) {
	c := NewClock(InitialDivision(Regular8th))
	c.Tick(0)
	c.Tick(1000)

	c.SetDivision(Division(99))
	assert.Equal(t, Regular8th, c.Division())
	assert.Equal(t, 1, c.ClockCounter())
}

func TestClock_Reset(t *testing.T) {
	c := NewClock(InitialDivision(RegularDotted8th))
	tapEvery(c, 0, 1000, 40)

	c.Reset()
	assert.Equal(t, Unstarted, c.State())
	assert.Equal(t, RegularDotted8th, c.Division(), "division survives a reset")
	assert.Equal(t, 0, c.ClockCounter())
	assert.Equal(t, 0, c.PulseCounter())
	assert.Zero(t, c.ShortAverage())
	assert.Zero(t, c.LongAverage())
	assert.True(t, c.Tick(123), "bootstrap pulse again")
}

func TestClock_ResetIdempotent(t *testing.T) {
	once := NewClock()
	twice := NewClock()
	for _, c := range []*Clock{once, twice} {
		tapEvery(c, 0, 700, 9)
		c.Tick(50)
	}

	once.Reset()
	twice.Reset()
	twice.Reset()

	opts := cmp.AllowUnexported(Clock{}, RunningAverage[int32]{})
	if diff := cmp.Diff(once, twice, opts); diff != "" {
		t.Errorf("Reset is not idempotent (-once +twice):\n%s", diff)
	}
}

func TestClock_Options(t *testing.T) {
	c := NewClock(Windows(4, 16))
	assert.Equal(t, 4, c.short.Size())
	assert.Equal(t, 16, c.long.Size())

	restore := InitialDivision(RegularHalf)(c)
	assert.Equal(t, RegularHalf, c.Division())
	restore(c)
	assert.Equal(t, Triplet16th, c.Division())

	c.Tick(0)
	c.Tick(1000)
	require.Equal(t, Tracking, c.State())
	restore = Windows(2, 4)(c)
	assert.Equal(t, Bootstrapped, c.State(), "new windows measure again")
	restore(c)
	assert.Equal(t, 16, c.long.Size())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "unstarted", Unstarted.String())
	assert.Equal(t, "bootstrapped", Bootstrapped.String())
	assert.Equal(t, "tracking", Tracking.String())
	assert.Equal(t, "unknown", State(9).String())
}
