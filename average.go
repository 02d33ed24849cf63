package tapclock

// Sample is a signed integer type a RunningAverage can hold. Sums are
// accumulated in int64, which is wider than every allowed sample type.
type Sample interface {
	~int8 | ~int16 | ~int32
}

// RunningAverage stores the last samples pushed into a fixed power-of-two
// sized ring and reports their truncated mean.
type RunningAverage[S Sample] struct {
	buffer []S
	mask   int
	index  int
	usage  int
}

// NewRunningAverage returns an empty RunningAverage holding up to size
// samples. It panics if size is not a positive power of two.
func NewRunningAverage[S Sample](size int) *RunningAverage[S] {
	if size <= 0 || size&(size-1) != 0 {
		panic("tapclock: running average size must be a power of two")
	}
	return &RunningAverage[S]{
		buffer: make([]S, size),
		mask:   size - 1,
	}
}

// Reset drops every sample.
func (r *RunningAverage[S]) Reset() {
	for i := range r.buffer {
		r.buffer[i] = 0
	}
	r.index = 0
	r.usage = 0
}

// Push overwrites the oldest slot with s.
func (r *RunningAverage[S]) Push(s S) {
	r.buffer[r.index] = s
	r.index = (r.index + 1) & r.mask
	if r.usage < len(r.buffer) {
		r.usage++
	}
}

// Average returns the truncated mean of the valid samples, or 0 if nothing
// was pushed yet.
func (r *RunningAverage[S]) Average() S {
	if r.usage == 0 {
		return 0
	}

	var sum int64
	for _, s := range r.buffer[:r.usage] {
		sum += int64(s)
	}

	return S(sum / int64(r.usage))
}

// Samples returns how many slots hold valid samples.
func (r *RunningAverage[S]) Samples() int {
	return r.usage
}

// Size returns the capacity of the ring.
func (r *RunningAverage[S]) Size() int {
	return len(r.buffer)
}
