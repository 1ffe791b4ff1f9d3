// Package scanclock holds the process-wide acquisition start timestamp.
//
// Sending a report with the reserved trigger ID marks the clock as a side
// effect of the transfer, successful or not. A separate acquisition
// subsystem reads the mark to align sampled data with the host timeline.
package scanclock

import (
	"sync"
	"time"
)

// Clock is a single timestamp cell. The zero value is ready to use and
// reads as unset until the first Mark.
type Clock struct {
	mu   sync.Mutex
	now  func() float64
	last float64
	set  bool
}

// New returns a clock using the given time source, or the monotonic
// wall-clock seconds source when now is nil.
func New(now func() float64) *Clock {
	return &Clock{now: now}
}

// Mark captures the current time into the clock.
func (c *Clock) Mark() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now
	if now == nil {
		now = Seconds
	}
	c.last = now()
	c.set = true
}

// Last returns the most recent mark and whether one exists.
func (c *Clock) Last() (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last, c.set
}

// Seconds is the default high-resolution time source: seconds since an
// arbitrary process-local epoch, monotonic.
func Seconds() float64 {
	return float64(time.Since(epoch)) / float64(time.Second)
}

var epoch = time.Now()
