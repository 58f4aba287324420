// Package clock provides ports.Clock implementations.
package clock

import (
	"sync"
	"time"

	"github.com/artpar/themekit/ports"
)

// Real returns the wall clock time.
type Real struct{}

// Now returns time.Now.
func (Real) Now() time.Time {
	return time.Now()
}

// Step is a clock for tests: every call to Now returns the current time
// and then moves it forward by a fixed step.
type Step struct {
	mu   sync.Mutex
	next time.Time
	step time.Duration
}

// NewStep creates a clock starting at start. A zero step freezes time.
func NewStep(start time.Time, step time.Duration) *Step {
	return &Step{next: start, step: step}
}

// Now returns the current time and advances the clock.
func (s *Step) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.next
	s.next = s.next.Add(s.step)
	return now
}

// Peek returns the time the next Now call will return.
func (s *Step) Peek() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}

var (
	_ ports.Clock = Real{}
	_ ports.Clock = (*Step)(nil)
)
