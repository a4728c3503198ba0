package entities

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrLaunch - the browser or its driver could not be started
	ErrLaunch = errors.New("browser launch failed")
	// ErrNavigation - a page load failed or timed out
	ErrNavigation = errors.New("navigation failed")
	// ErrNotFound - no element matched a locator
	ErrNotFound = errors.New("element not found")
	// ErrStaleElement - the element was detached from the document since lookup
	ErrStaleElement = errors.New("stale element reference")
	// ErrNotReady - a condition was evaluated and did not hold yet
	ErrNotReady = errors.New("condition not met")
	// ErrTimeout - a polled condition never held within its timeout
	ErrTimeout = errors.New("timed out waiting for condition")
	// ErrAssertion - an observed value differed from the expected one
	ErrAssertion = errors.New("assertion failed")
	// ErrEmptyLocator - a locator was built without a value
	ErrEmptyLocator = errors.New("empty locator")
	// ErrSessionClosed - an operation was attempted on a closed session
	ErrSessionClosed = errors.New("session closed")
)

// IsTransient reports whether err means "not yet" rather than a fault.
// Pollers keep going on transient errors and abort on everything else.
func IsTransient(err error) bool {
	return errors.Is(err, ErrNotReady) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrStaleElement)
}

// TimeoutError is returned when a polled condition never matched
type TimeoutError struct {
	Condition string
	Timeout   time.Duration
	Attempts  int
	Last      error
}

func (e *TimeoutError) Error() string {
	if e.Last == nil {
		return fmt.Sprintf("timed out after %s waiting for %s (%d attempts)", e.Timeout, e.Condition, e.Attempts)
	}
	return fmt.Sprintf("timed out after %s waiting for %s (%d attempts): %v", e.Timeout, e.Condition, e.Attempts, e.Last)
}

func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// Unwrap exposes the last observed reason
func (e *TimeoutError) Unwrap() error {
	return e.Last
}

// AssertionError reports an expected/actual mismatch
type AssertionError struct {
	What     string
	Expected interface{}
	Actual   interface{}
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s: expected %v, got %v", e.What, e.Expected, e.Actual)
}

func (e *AssertionError) Is(target error) bool {
	return target == ErrAssertion
}
