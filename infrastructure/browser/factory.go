package browser

import (
	"context"
	"fmt"

	"todo_e2e/domain/interfaces"

	"github.com/sirupsen/logrus"
)

const (
	DriverSelenium   = "selenium"
	DriverPlaywright = "playwright"
)

// Drivers lists the supported driver names
var Drivers = []string{DriverSelenium, DriverPlaywright}

// Factory launches a fresh browser session per test case
type Factory struct {
	driver string
	opts   Options
	logger *logrus.Logger
}

// NewFactory - creates a factory for the named driver
func NewFactory(driver string, opts Options, logger *logrus.Logger) (*Factory, error) {
	switch driver {
	case DriverSelenium, DriverPlaywright:
	default:
		return nil, fmt.Errorf("unknown driver %q (available: %v)", driver, Drivers)
	}
	return &Factory{driver: driver, opts: opts, logger: logger}, nil
}

func (f *Factory) Name() string {
	return f.driver
}

// NewSession - launches a browser for the named case
func (f *Factory) NewSession(ctx context.Context, name string) (interfaces.Session, error) {
	logger := f.logger.WithFields(logrus.Fields{"case": name, "driver": f.driver})

	if f.driver == DriverPlaywright {
		s, err := NewPlaywrightSession(ctx, f.opts, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	s, err := NewSeleniumSession(ctx, f.opts, logger)
	if err != nil {
		return nil, err
	}
	return s, nil
}

var _ interfaces.SessionFactory = (*Factory)(nil)
