package services

import "time"

// Clock returns the current instant. Services take one so tests can pin "today".
type Clock func() time.Time

func systemClock() time.Time { return time.Now() }

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}
