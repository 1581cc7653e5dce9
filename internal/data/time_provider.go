package data

import "time"

// TimeProvider abstracts the current time so repositories and services can
// be pinned to a known instant in tests.
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider reads the system clock. Timestamps are normalized to UTC
// before they reach the database.
type RealTimeProvider struct{}

var _ TimeProvider = (*RealTimeProvider)(nil)

func (*RealTimeProvider) Now() time.Time {
	return time.Now().UTC()
}

// FixedTimeProvider reports a caller-controlled instant.
type FixedTimeProvider struct {
	current time.Time
}

var _ TimeProvider = (*FixedTimeProvider)(nil)

func NewFixedTimeProvider(t time.Time) *FixedTimeProvider {
	return &FixedTimeProvider{current: t}
}

func (f *FixedTimeProvider) Now() time.Time {
	return f.current
}

// Advance moves the reported instant forward.
func (f *FixedTimeProvider) Advance(d time.Duration) {
	f.current = f.current.Add(d)
}
