// Package clock supplies the current time and the lending calendar date.
package clock

import (
	"sync"
	"time"

	"github.com/dtroode/library-server/internal/model"
)

// Clock returns the current instant and the current calendar date.
type Clock interface {
	Now() time.Time
	Today() time.Time
}

// System reads the wall clock in a fixed location.
type System struct {
	loc *time.Location
}

// NewSystem creates a System clock. A nil location means UTC.
func NewSystem(loc *time.Location) *System {
	if loc == nil {
		loc = time.UTC
	}
	return &System{loc: loc}
}

// Now returns the current time in the clock's location.
func (c *System) Now() time.Time {
	return time.Now().In(c.loc)
}

// Today returns the current calendar date in the clock's location.
func (c *System) Today() time.Time {
	return model.DateOf(c.Now())
}

// Fixed is a manually driven clock.
type Fixed struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixed creates a Fixed clock stopped at now.
func NewFixed(now time.Time) *Fixed {
	return &Fixed{now: now}
}

func (c *Fixed) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Fixed) Today() time.Time {
	return model.DateOf(c.Now())
}

// Advance moves the clock forward by d.
func (c *Fixed) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}
