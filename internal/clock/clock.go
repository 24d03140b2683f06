package clock

import "time"

type Clock interface {
	Now() time.Time
}

// System implements Clock using the wall clock.
type System struct{}

func (System) Now() time.Time {
	return time.Now()
}

// Fake is a manually advanced Clock for tests.
type Fake struct {
	Current time.Time
}

func NewFake(start time.Time) *Fake {
	return &Fake{Current: start}
}

func (f *Fake) Now() time.Time {
	return f.Current
}

func (f *Fake) Advance(d time.Duration) {
	f.Current = f.Current.Add(d)
}
