package suite

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"todo_e2e/application/wait"
	"todo_e2e/domain/entities"
	"todo_e2e/domain/interfaces"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Runner executes cases, each with its own fresh session
type Runner struct {
	factory   interfaces.SessionFactory
	artifacts interfaces.ArtifactStore
	config    Config
	logger    *logrus.Logger
}

// NewRunner - creates a runner. artifacts may be nil.
func NewRunner(factory interfaces.SessionFactory, artifacts interfaces.ArtifactStore, config Config, logger *logrus.Logger) *Runner {
	if config.Parallel < 1 {
		config.Parallel = 1
	}
	if config.PollInterval <= 0 {
		config.PollInterval = wait.DefaultInterval
	}
	if config.LongTimeout <= 0 {
		config.LongTimeout = config.Timeout
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Runner{
		factory:   factory,
		artifacts: artifacts,
		config:    config,
		logger:    logger,
	}
}

// Run executes cases and returns the report. Failed cases never stop the
// others; only ctx cancellation does.
func (r *Runner) Run(ctx context.Context, cases []Case) (entities.Report, error) {
	report := entities.Report{
		Driver:    r.factory.Name(),
		BaseURL:   r.config.BaseURL,
		StartedAt: time.Now(),
	}

	results := make([]entities.CaseResult, len(cases))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.config.Parallel)

	for i, c := range cases {
		i, c := i, c
		g.Go(func() error {
			if gctx.Err() != nil {
				results[i] = entities.CaseResult{
					Name:   c.Name,
					Status: entities.CaseStatusFailed,
					Error:  fmt.Sprintf("not started: %v", gctx.Err()),
					Closed: true,
				}
				return nil
			}
			results[i] = r.RunCase(gctx, c)
			return nil
		})
	}
	_ = g.Wait()

	report.Results = results
	report.Duration = time.Since(report.StartedAt)

	r.logger.WithFields(logrus.Fields{
		"cases":    len(results),
		"failed":   len(report.Failed()),
		"duration": report.Duration.Round(time.Millisecond),
	}).Info("Suite finished")

	if r.artifacts != nil {
		if err := r.artifacts.SaveReport(report); err != nil {
			return report, fmt.Errorf("failed to save report: %w", err)
		}
	}
	if ctx.Err() != nil {
		return report, fmt.Errorf("suite canceled: %w", ctx.Err())
	}
	return report, nil
}

// RunCase runs one case: launch, navigate, body, teardown. The session is
// closed exactly once on every path, panics included.
func (r *Runner) RunCase(ctx context.Context, c Case) (result entities.CaseResult) {
	start := time.Now()
	logger := r.logger.WithFields(logrus.Fields{"case": c.Name, "driver": r.factory.Name()})
	result = entities.CaseResult{Name: c.Name, Status: entities.CaseStatusPassed}

	if r.config.CaseTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.CaseTimeout)
		defer cancel()
	}

	defer func() {
		result.Duration = time.Since(start)
		if result.Passed() {
			logger.WithField("duration", result.Duration.Round(time.Millisecond)).Info("PASS")
		} else {
			logger.WithField("duration", result.Duration.Round(time.Millisecond)).Errorf("FAIL: %s", result.Error)
		}
	}()

	logger.Info("Starting case")
	session, err := r.factory.NewSession(ctx, c.Name)
	if err != nil {
		result.Fail(err)
		// nothing was acquired
		result.Closed = true
		return result
	}

	defer func() {
		if !result.Passed() {
			result.Screenshot = r.screenshot(session, c.Name, logger)
		}
		if err := session.Close(); err != nil {
			logger.Warnf("Failed to close session: %v", err)
		}
		result.Closed = true
	}()

	err = r.execute(ctx, c, session, logger)
	if err != nil {
		result.Fail(err)
	}
	return result
}

func (r *Runner) execute(ctx context.Context, c Case, session interfaces.Session, logger logrus.FieldLogger) (err error) {
	defer func() {
		if p := recover(); p != nil {
			logger.Debugf("panic stack:\n%s", debug.Stack())
			err = fmt.Errorf("panic: %v", p)
		}
	}()

	if err := session.Navigate(ctx, r.config.BaseURL); err != nil {
		if !errors.Is(err, entities.ErrNavigation) {
			err = fmt.Errorf("%w: %w", entities.ErrNavigation, err)
		}
		return err
	}

	waiter := wait.NewWaiter(session, r.config.Timeout, logger).WithInterval(r.config.PollInterval)
	env := &Env{
		Session: session,
		Wait:    waiter,
		Config:  r.config,
		Logger:  logger,
	}
	return c.Run(ctx, env)
}

// screenshot - best effort capture for a failed case
func (r *Runner) screenshot(session interfaces.Session, name string, logger logrus.FieldLogger) string {
	if r.artifacts == nil || !r.config.Screenshots {
		return ""
	}
	// the case context may already be expired
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	data, err := session.TakeScreenshot(ctx)
	if err != nil {
		logger.Warnf("Failed to take screenshot: %v", err)
		return ""
	}
	path, err := r.artifacts.SaveScreenshot(name, data)
	if err != nil {
		logger.Warnf("Failed to save screenshot: %v", err)
		return ""
	}
	return path
}

// Select returns the cases with the given names in the order asked for
func Select(cases []Case, names []string) ([]Case, error) {
	if len(names) == 0 {
		return cases, nil
	}
	byName := make(map[string]Case, len(cases))
	for _, c := range cases {
		byName[c.Name] = c
	}
	selected := make([]Case, 0, len(names))
	for _, name := range names {
		c, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown case %q", name)
		}
		selected = append(selected, c)
	}
	return selected, nil
}
