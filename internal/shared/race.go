package shared

import (
	"context"
	"time"
)

// Fallback runs primary and, on any failure, runs secondary once. onFallback
// is invoked with the primary error before the secondary attempt so callers
// can log the degradation. There is no retry beyond the single fallback.
func Fallback[T any](ctx context.Context, primary, secondary func(context.Context) (T, error), onFallback func(error)) (T, error) {
	result, err := primary(ctx)
	if err == nil {
		return result, nil
	}
	if onFallback != nil {
		onFallback(err)
	}
	return secondary(ctx)
}

// RaceTimeout runs fn against a timer. The first to finish wins; a losing fn
// is cancelled and its eventual result discarded. The boolean reports whether
// the timer won.
func RaceTimeout[T any](ctx context.Context, d time.Duration, fn func(context.Context) (T, error)) (T, error, bool) {
	type outcome struct {
		value T
		err   error
	}

	raceCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	ch := make(chan outcome, 1)
	go func() {
		value, err := fn(raceCtx)
		ch <- outcome{value: value, err: err}
	}()

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case out := <-ch:
		return out.value, out.err, false
	case <-timer.C:
		var zero T
		return zero, ErrTimeout, true
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err(), false
	}
}
