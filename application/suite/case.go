package suite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"todo_e2e/application/wait"
	"todo_e2e/domain/entities"
	"todo_e2e/domain/interfaces"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Case is one independently runnable scenario
type Case struct {
	Name        string
	Description string
	Run         func(ctx context.Context, env *Env) error
}

// Env is what a case body gets to work with. The session belongs to the
// runner: bodies must not close it.
type Env struct {
	Session interfaces.Session
	Wait    *wait.Waiter
	Config  Config
	Logger  logrus.FieldLogger
}

// Long returns a waiter using the long timeout
func (e *Env) Long() *wait.Waiter {
	return e.Wait.WithTimeout(e.Config.LongTimeout)
}

// Unique appends a random suffix to prefix, e.g. "Persist-3f2a9c1e"
func Unique(prefix string) string {
	return prefix + strings.SplitN(uuid.NewString(), "-", 2)[0]
}

// Equal - fails with an *entities.AssertionError unless actual == expected
func Equal[T comparable](what string, expected, actual T) error {
	if expected != actual {
		return &entities.AssertionError{What: what, Expected: expected, Actual: actual}
	}
	return nil
}

// True - fails with an *entities.AssertionError unless cond holds
func True(what string, cond bool) error {
	return Equal(what, true, cond)
}

// Step wraps err with the name of the step that produced it
func Step(name string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", name, err)
}

// Config holds the knobs the runner and case bodies need
type Config struct {
	BaseURL       string
	ExpectedTitle string
	Timeout       time.Duration
	LongTimeout   time.Duration
	PollInterval  time.Duration
	CaseTimeout   time.Duration
	Parallel      int
	Screenshots   bool
}
