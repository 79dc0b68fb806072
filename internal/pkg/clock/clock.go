package clock

import "time"

// Clock yields the instant every temporal policy is evaluated against.
type Clock interface {
	Now() time.Time
}

type orgClock struct {
	loc *time.Location
}

// NewOrgClock returns a clock whose Now is expressed in the organization's
// operating timezone. An unknown timezone name falls back to UTC.
func NewOrgClock(timezone string) Clock {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}
	return &orgClock{loc: loc}
}

func (c *orgClock) Now() time.Time {
	return time.Now().In(c.loc)
}

// Fixed is a manually advanced clock for tests.
type Fixed struct {
	T time.Time
}

func (f *Fixed) Now() time.Time { return f.T }

// Advance moves the clock forward by d.
func (f *Fixed) Advance(d time.Duration) { f.T = f.T.Add(d) }
