package engine

import "sync/atomic"

// Clock is the monotonic logical clock that numbers processed commands.
//
// Seq values are strictly increasing within an engine session and are the
// journal's ordering key.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations).
// Only the Run goroutine calls Next(); Current() may be read from anywhere.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a new clock starting at a specific sequence number.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last issued sequence number.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
