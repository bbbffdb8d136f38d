package session

import "time"

// Clock is the wall-clock source used by the engine. Injecting it keeps
// every timing rule testable without sleeping.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the real wall clock.
func SystemClock() Clock { return systemClock{} }
