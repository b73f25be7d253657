package pipeline

import (
	"context"
	"errors"
	"time"
)

// ErrTimeout signals that an external operation did not complete within the
// poll budget. Callers treat it as a normal pipeline failure; the provider
// operation is abandoned, not reconciled.
var ErrTimeout = errors.New("generation timeout")

// Handle is a refreshable long-running operation.
type Handle interface {
	Completed() bool
}

// RefreshFunc fetches the latest state of the operation.
type RefreshFunc func(ctx context.Context) (Handle, error)

// ProgressBand is the progress range mapped onto the wait window.
type ProgressBand struct {
	Floor int
	Ceil  int
}

// ProgressFunc receives an estimated progress percentage on every refresh
// tick. Implementations must be cheap; the poller calls it between sleeps.
type ProgressFunc func(progress int)

// Poller drives a long-running external operation to completion with a
// bounded total wait. True completion fraction is unknown, so progress is a
// linear interpolation of elapsed time over the budget, clamped at the
// band's ceiling; the resulting sequence is monotonic.
type Poller struct {
	Budget   time.Duration
	Interval time.Duration

	// sleep is injectable for tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewPoller constructs a poller with the given wait budget and refresh
// interval.
func NewPoller(budget, interval time.Duration) Poller {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if budget < interval {
		budget = interval
	}
	return Poller{Budget: budget, Interval: interval, sleep: sleepContext}
}

// Wait refreshes the operation each interval until it completes or the
// budget is exhausted, reporting estimated progress on every tick. It
// returns the last observed handle; the error is ErrTimeout when the budget
// ran out, or the refresh error that aborted the loop.
//
// Wait blocks and must only run inside a background executor, never on the
// request path. It holds no locks while sleeping.
func (p Poller) Wait(ctx context.Context, initial Handle, refresh RefreshFunc, band ProgressBand, report ProgressFunc) (Handle, error) {
	sleep := p.sleep
	if sleep == nil {
		sleep = sleepContext
	}
	handle := initial
	elapsed := time.Duration(0)
	for !handle.Completed() && elapsed < p.Budget {
		if err := sleep(ctx, p.Interval); err != nil {
			return handle, err
		}
		elapsed += p.Interval
		next, err := refresh(ctx)
		if err != nil {
			return handle, err
		}
		handle = next
		if report != nil {
			report(p.estimate(band, elapsed))
		}
	}
	if !handle.Completed() {
		return handle, ErrTimeout
	}
	return handle, nil
}

func (p Poller) estimate(band ProgressBand, elapsed time.Duration) int {
	span := band.Ceil - band.Floor
	progress := band.Floor + int(float64(span)*float64(elapsed)/float64(p.Budget))
	if progress > band.Ceil {
		progress = band.Ceil
	}
	return progress
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
