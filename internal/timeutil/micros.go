// Package timeutil provides the timer source taps are stamped with.
package timeutil

import (
	"sync"
	"time"
)

// Source supplies timestamps in microseconds.
type Source interface {
	Now() int64
}

// Micros counts microseconds since it was created, wrapping at 32 bits like
// a hardware timer register. Across a wrap the counter goes back to zero.
type Micros struct {
	start time.Time
	now   func() time.Time
}

// NewMicros returns a counter starting at zero.
func NewMicros() *Micros {
	return &Micros{start: time.Now(), now: time.Now}
}

// Now returns the counter value.
func (m *Micros) Now() int64 {
	return int64(uint32(m.now().Sub(m.start).Microseconds()))
}

// MockSource is a manually advanced Source for testing.
type MockSource struct {
	mu  sync.Mutex
	now int64
}

// NewMockSource returns a MockSource set to now.
func NewMockSource(now int64) *MockSource {
	return &MockSource{now: now}
}

// Now returns the mocked timestamp.
func (s *MockSource) Now() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Advance moves the timestamp forward by d microseconds.
func (s *MockSource) Advance(d int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now += d
}

// Set sets the timestamp.
func (s *MockSource) Set(now int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}
