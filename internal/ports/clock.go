package ports

import "time"

// Clock supplies the current time
type Clock interface {
	Now() time.Time
}

// SystemClock is the local wall clock. Calendar dates (created and target
// dates) are taken in the local zone.
type SystemClock struct{}

// Now implements Clock
func (SystemClock) Now() time.Time { return time.Now().Round(0) }
