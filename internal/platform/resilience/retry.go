package resilience

import (
	"context"
	"errors"
	"time"
)

// ErrTransient marks a failure worth retrying. Store implementations mark
// driver errors with it; callers retry only marked errors.
var ErrTransient = errors.New("transient failure")

func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient)
}

// Retry invokes fn up to attempts times, sleeping backoff, 2*backoff, ...
// between tries. Non-transient errors return immediately.
func Retry(ctx context.Context, attempts int, backoff time.Duration, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		err = fn()
		if err == nil || !IsTransient(err) {
			return err
		}
		if i == attempts-1 {
			break
		}

		timer := time.NewTimer(backoff * time.Duration(i+1))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return err
}
