package memory

import (
	"context"
	"fmt"
	"sync"

	"todo_e2e/domain/entities"
	"todo_e2e/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// Factory hands out memory sessions sharing one App, so state the app keeps
// outlives a single session the way a backend would
type Factory struct {
	App    App
	Logger logrus.FieldLogger
	// LaunchErr, when set, makes every NewSession fail
	LaunchErr error

	mu       sync.Mutex
	sessions []*Session
}

// NewFactory - creates a factory serving app
func NewFactory(app App, logger logrus.FieldLogger) *Factory {
	return &Factory{App: app, Logger: logger}
}

func (f *Factory) Name() string {
	return "memory"
}

func (f *Factory) NewSession(ctx context.Context, name string) (interfaces.Session, error) {
	if f.LaunchErr != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrLaunch, f.LaunchErr)
	}
	s := NewSession(f.App, f.Logger)
	f.mu.Lock()
	f.sessions = append(f.sessions, s)
	f.mu.Unlock()
	return s, nil
}

// Sessions returns every session created so far
func (f *Factory) Sessions() []*Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*Session(nil), f.sessions...)
}

var _ interfaces.SessionFactory = (*Factory)(nil)
