package notes

import (
	"sync"
	"time"
)

// versionClock issues strictly increasing timestamps at microsecond
// resolution. Two stores within the same wall-clock microsecond receive
// distinct ticks, so version filenames can never collide inside one
// process regardless of write rate.
type versionClock struct {
	mu   sync.Mutex
	last time.Time
}

// Next returns the current time, bumped forward by one microsecond
// whenever the wall clock has not advanced past the previous tick.
func (c *versionClock) Next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now().Truncate(time.Microsecond)
	if !now.After(c.last) {
		now = c.last.Add(time.Microsecond)
	}
	c.last = now
	return now
}
