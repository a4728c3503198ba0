package wait

import (
	"context"
	"fmt"
	"io"
	"time"

	"todo_e2e/domain/entities"
	"todo_e2e/domain/interfaces"

	"github.com/sirupsen/logrus"
	apiwait "k8s.io/apimachinery/pkg/util/wait"
)

// DefaultInterval matches the WebDriver wait default
const DefaultInterval = 500 * time.Millisecond

// Options control how a condition is polled
type Options struct {
	Timeout  time.Duration
	Interval time.Duration
	Logger   logrus.FieldLogger
}

// Poll evaluates cond against s until it holds or opts.Timeout elapses.
//
// Transient errors (see entities.IsTransient) are remembered and polling
// continues; any other error aborts at once. On timeout the returned
// *entities.TimeoutError carries the last reason seen. The condition is
// always evaluated one last time at the deadline, and sleeps never run past
// it.
func Poll[T any](ctx context.Context, s interfaces.Session, cond Condition[T], opts Options) (T, error) {
	var zero T

	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = discard
	}

	var (
		value    T
		last     error
		fault    error
		attempts int
	)
	check := func(ctx context.Context) (bool, error) {
		attempts++
		v, err := cond.Check(ctx, s)
		if err == nil {
			value = v
			return true, nil
		}
		if !entities.IsTransient(err) {
			// a check cut short by the deadline is not a fault
			if ctx.Err() != nil {
				return false, nil
			}
			fault = err
			return false, err
		}
		last = err
		logger.WithFields(logrus.Fields{"condition": cond.Description, "attempt": attempts}).Debugf("not yet: %v", err)
		return false, nil
	}

	err := apiwait.PollUntilContextTimeout(ctx, interval, opts.Timeout, true, check)
	switch {
	case err == nil:
		logger.WithFields(logrus.Fields{"condition": cond.Description, "attempts": attempts}).Debug("condition met")
		return value, nil
	case fault != nil:
		return zero, fmt.Errorf("waiting for %s: %w", cond.Description, fault)
	case ctx.Err() != nil:
		return zero, fmt.Errorf("waiting for %s canceled: %w", cond.Description, ctx.Err())
	case !apiwait.Interrupted(err):
		return zero, fmt.Errorf("waiting for %s: %w", cond.Description, err)
	}

	// deadline reached; one last look before giving up
	if ok, _ := check(ctx); ok {
		logger.WithFields(logrus.Fields{"condition": cond.Description, "attempts": attempts}).Debug("condition met at deadline")
		return value, nil
	}
	if fault != nil {
		return zero, fmt.Errorf("waiting for %s: %w", cond.Description, fault)
	}
	return zero, &entities.TimeoutError{
		Condition: cond.Description,
		Timeout:   opts.Timeout,
		Attempts:  attempts,
		Last:      last,
	}
}

// Waiter binds a session to polling options
type Waiter struct {
	Session interfaces.Session
	Options Options
}

// NewWaiter - creates a waiter with the default interval
func NewWaiter(s interfaces.Session, timeout time.Duration, logger logrus.FieldLogger) *Waiter {
	return &Waiter{
		Session: s,
		Options: Options{Timeout: timeout, Interval: DefaultInterval, Logger: logger},
	}
}

// WithTimeout returns a copy polling for d instead
func (w *Waiter) WithTimeout(d time.Duration) *Waiter {
	c := *w
	c.Options.Timeout = d
	return &c
}

// WithInterval returns a copy polling every d
func (w *Waiter) WithInterval(d time.Duration) *Waiter {
	c := *w
	c.Options.Interval = d
	return &c
}

// Until polls cond with the waiter's session and options
func Until[T any](ctx context.Context, w *Waiter, cond Condition[T]) (T, error) {
	return Poll(ctx, w.Session, cond, w.Options)
}

var discard = func() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()
