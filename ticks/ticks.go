// Package ticks measures time with a free-running 32-bit counter. Every difference between two
// counter values is computed with unsigned subtraction and every deadline is compared by
// reinterpreting the remaining ticks as signed, so a single wrap of the counter never corrupts a
// measurement.
package ticks

import (
	"math"
	"time"
)

// maxWait is the longest interval that Reached can compare against a deadline
const maxWait = math.MaxInt32

// Counter is a free-running tick source that wraps at 2^32
type Counter interface {
	Now() uint32
}

// Func adapts a plain register read to a Counter
type Func func() uint32

// Now implements Counter
func (f Func) Now() uint32 {
	return f()
}

// Since returns the ticks from start to now. It is correct as long as less than one full counter
// period passed between the two readings
func Since(start, now uint32) uint32 {
	return now - start
}

// Reached reports whether now is at or past deadline
func Reached(deadline, now uint32) bool {
	return int32(deadline-now) <= 0
}

// Clock converts counter ticks into time using the counter's fixed frequency
type Clock struct {
	counter Counter
	hz      uint32
}

// NewClock creates a Clock for a counter running at hz
func NewClock(counter Counter, hz uint32) *Clock {
	return &Clock{counter: counter, hz: hz}
}

// Hz returns the counter frequency
func (c *Clock) Hz() uint32 {
	return c.hz
}

// Now returns the current counter value
func (c *Clock) Now() uint32 {
	return c.counter.Now()
}

// Elapsed returns the ticks since start
func (c *Clock) Elapsed(start uint32) uint32 {
	return Since(start, c.counter.Now())
}

// Seconds converts a tick count to seconds
func (c *Clock) Seconds(t uint32) float64 {
	return float64(t) / float64(c.hz)
}

// Ticks converts a duration to ticks, truncating any fraction of a tick
func (c *Clock) Ticks(d time.Duration) uint64 {
	if d <= 0 {
		return 0
	}
	sec := uint64(d / time.Second)
	rem := uint64(d % time.Second)
	return sec*uint64(c.hz) + rem*uint64(c.hz)/uint64(time.Second)
}

// Delay busy-waits for at least d. Waits longer than half the counter period run as consecutive
// chunks so each deadline stays comparable
func (c *Clock) Delay(d time.Duration) {
	remaining := c.Ticks(d)
	for remaining > 0 {
		chunk := remaining
		if chunk > maxWait {
			chunk = maxWait
		}
		c.wait(uint32(chunk))
		remaining -= chunk
	}
}

func (c *Clock) wait(n uint32) {
	deadline := c.counter.Now() + n
	for !Reached(deadline, c.counter.Now()) {
	}
}

// Monotonic is a Counter backed by the Go runtime's monotonic clock. It is used where there is no
// hardware cycle counter, like a Linux board or the host
type Monotonic struct {
	start      time.Time
	resolution time.Duration
	offset     uint32
}

// NewMonotonic creates a counter that advances once per resolution. A resolution of one
// microsecond gives a 1MHz counter that wraps about every 71 minutes
func NewMonotonic(resolution time.Duration) *Monotonic {
	if resolution <= 0 {
		resolution = time.Microsecond
	}
	return &Monotonic{start: time.Now(), resolution: resolution}
}

// Hz returns the counter frequency
func (m *Monotonic) Hz() uint32 {
	return uint32(time.Second / m.resolution)
}

// StartAt shifts the counter so that it currently reads v
func (m *Monotonic) StartAt(v uint32) {
	m.offset = 0
	m.offset = v - m.Now()
}

// Now implements Counter
func (m *Monotonic) Now() uint32 {
	return uint32(uint64(time.Since(m.start)/m.resolution)) + m.offset
}
