package inputs

// ChangeListener calls a function with every new value it observes.
type ChangeListener[T comparable] struct {
	listener func(current T)
	last     T
}

// NewChangeListener returns a listener that reports values different from
// initial.
func NewChangeListener[T comparable](initial T, listener func(current T)) *ChangeListener[T] {
	return &ChangeListener[T]{listener: listener, last: initial}
}

// Observe calls the listener if current differs from the last value seen.
// It reports whether the listener was called.
func (c *ChangeListener[T]) Observe(current T) bool {
	if current == c.last {
		return false
	}
	c.last = current
	c.listener(current)
	return true
}

// Last returns the last value seen.
func (c *ChangeListener[T]) Last() T {
	return c.last
}
