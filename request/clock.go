package request

import "time"

// A Clock tells the current time. Injecting it keeps layer timing testable.
type Clock interface {
	CurrentTime() time.Time
}

// WallClock is the Clock used in production.
type WallClock struct{}

// CurrentTime returns the current wall time.
func (WallClock) CurrentTime() time.Time {
	return time.Now()
}
