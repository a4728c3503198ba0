package terminal

import (
	"context"
	"fmt"
	"io"

	"todo_e2e/application/suite"
	"todo_e2e/application/todo"
	"todo_e2e/domain/entities"
	"todo_e2e/domain/interfaces"
	"todo_e2e/infrastructure/browser"
	"todo_e2e/infrastructure/config"
	"todo_e2e/infrastructure/storage"

	"github.com/sirupsen/logrus"
)

type TerminalInterface struct {
	runner *suite.Runner
	config *config.Config
	logger *logrus.Logger
	out    io.Writer
	styles styles
}

// NewTerminalInterface - wires the browser factory, artifact store and runner
// for cfg
func NewTerminalInterface(cfg *config.Config, out io.Writer) (*TerminalInterface, error) {
	logger := cfg.NewLogger()

	factory, err := browser.NewFactory(cfg.Driver, cfg.BrowserOptions(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize browser: %w", err)
	}
	return newTerminalInterface(cfg, factory, logger, out)
}

func newTerminalInterface(cfg *config.Config, factory interfaces.SessionFactory, logger *logrus.Logger, out io.Writer) (*TerminalInterface, error) {
	var artifacts interfaces.ArtifactStore
	if cfg.ArtifactsDir != "" {
		store, err := storage.NewArtifactStore(cfg.ArtifactsDir)
		if err != nil {
			return nil, err
		}
		artifacts = store
	}

	return &TerminalInterface{
		runner: suite.NewRunner(factory, artifacts, cfg.SuiteConfig(), logger),
		config: cfg,
		logger: logger,
		out:    out,
		styles: newStyles(),
	}, nil
}

// Run executes the named cases, all of them when names is empty, and prints
// the report
func (t *TerminalInterface) Run(ctx context.Context, names []string) (entities.Report, error) {
	cases, err := suite.Select(todo.Cases(), names)
	if err != nil {
		return entities.Report{}, err
	}

	fmt.Fprintf(t.out, "Running %d case(s) against %s with %s\n\n", len(cases), t.config.BaseURL, t.config.Driver)

	report, err := t.runner.Run(ctx, cases)
	printReport(t.out, t.styles, report)
	return report, err
}
