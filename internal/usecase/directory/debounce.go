package directory

import (
	"time"

	"golang.org/x/time/rate"
)

// DefaultDebounceWindow is the search input cool-down.
const DefaultDebounceWindow = 100 * time.Millisecond

// Debouncer drops events arriving within the cool-down of the last accepted event.
// Dropped events are not deferred and do not extend the cool-down.
type Debouncer struct {
	limiter *rate.Limiter
	now     func() time.Time
}

// NewDebouncer creates a Debouncer. A non-positive window accepts every event.
func NewDebouncer(window time.Duration, now func() time.Time) *Debouncer {
	if now == nil {
		now = time.Now
	}
	d := &Debouncer{now: now}
	if window > 0 {
		d.limiter = rate.NewLimiter(rate.Every(window), 1)
	}
	return d
}

// Accept marks the guard busy and returns true when no cool-down is running.
func (d *Debouncer) Accept() bool {
	if d.limiter == nil {
		return true
	}
	return d.limiter.AllowN(d.now(), 1)
}
