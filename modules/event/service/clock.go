package service

import "time"

// Clock defines an interface for getting the current time.
// It is only consulted while validating a rule at definition time; the
// occurrence generator itself never reads it.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the server system time.
type RealClock struct{}

func (c RealClock) Now() time.Time {
	return time.Now()
}

// MockClock implements Clock for testing specific scenarios.
type MockClock struct {
	MockTime time.Time
}

func (m MockClock) Now() time.Time {
	return m.MockTime
}
