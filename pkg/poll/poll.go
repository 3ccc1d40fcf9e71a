// Package poll implements a bounded polling loop over a list of alternative
// success conditions. The browser exposes no synchronous completion signal for
// navigations, search submissions, or file writes, so every wait in the
// pipeline reduces to "re-check a set of predicates until one holds or the
// deadline passes".
package poll

import (
	"context"
	"errors"
	"time"
)

// ErrTimeout is returned when no condition was satisfied before the context
// deadline.
var ErrTimeout = errors.New("poll: no condition satisfied before timeout")

// Condition reports whether an external state change has happened. A non-nil
// error aborts the poll immediately; it is reserved for faults (e.g. a dead
// browser session), not for "not yet".
type Condition func(ctx context.Context) (bool, error)

// First evaluates conds in order on every tick and returns the index of the
// first condition that reports true. The overall timeout comes from ctx; when
// ctx has no deadline the poll runs until a condition holds or ctx is
// cancelled.
func First(ctx context.Context, interval time.Duration, conds ...Condition) (int, error) {
	if len(conds) == 0 {
		return -1, errors.New("poll: no conditions given")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		for i, cond := range conds {
			ok, err := cond(ctx)
			if err != nil {
				return -1, err
			}
			if ok {
				return i, nil
			}
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return -1, ErrTimeout
			}
			return -1, ctx.Err()
		case <-ticker.C:
		}
	}
}
