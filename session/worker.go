package session

import (
	"time"

	"github.com/pkg/errors"
)

type writeDeadliner interface {
	SetWriteDeadline(t time.Time) error
}

// runBounded runs fn in its own goroutine and waits for it. timeout bounds
// inactivity: every call to the touch function fn receives restarts the
// clock. When the clock runs out the write deadline on conn is pulled in so
// the blocked write returns, the goroutine is still awaited, and
// ErrWorkerTimeout is returned. The caller never proceeds while the worker
// is alive.
func runBounded(name string, timeout time.Duration, conn writeDeadliner, fn func(touch func()) error) error {
	activity := make(chan struct{}, 1)
	touch := func() {
		select {
		case activity <- struct{}{}:
		default:
		}
	}

	done := make(chan error, 1)
	go func() {
		done <- fn(touch)
	}()

	if timeout <= 0 {
		return <-done
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case err := <-done:
			return err
		case <-activity:
			timer.Reset(timeout)
		case <-timer.C:
			_ = conn.SetWriteDeadline(time.Now())
			<-done
			_ = conn.SetWriteDeadline(time.Time{})
			return errors.Wrap(ErrWorkerTimeout, name)
		}
	}
}
