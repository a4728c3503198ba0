package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"todo_e2e/domain/entities"
	"todo_e2e/domain/interfaces"
	"todo_e2e/infrastructure/storage"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
)

// PlaywrightSession drives Chromium through a persistent Playwright context
// rooted in an isolated profile directory
type PlaywrightSession struct {
	pw       *playwright.Playwright
	context  playwright.BrowserContext
	page     playwright.Page
	profile  *storage.ProfileDir
	logger   logrus.FieldLogger
	navigate float64
	closed   bool
}

// NewPlaywrightSession - starts playwright and a Chromium context with an isolated profile
func NewPlaywrightSession(ctx context.Context, opts Options, logger *logrus.Entry) (*PlaywrightSession, error) {
	s := &PlaywrightSession{
		logger:   logger,
		navigate: float64(opts.NavigationTimeout.Milliseconds()),
	}

	var err error
	s.profile, err = storage.NewProfileDir(opts.ProfileRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrLaunch, err)
	}

	s.pw, err = playwright.Run()
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("%w: failed to start playwright: %w", entities.ErrLaunch, err)
	}

	launch := playwright.BrowserTypeLaunchPersistentContextOptions{
		Headless: playwright.Bool(opts.Headless),
		Args:     opts.chromeArgs(),
		Viewport: &playwright.Size{
			Width:  opts.Width,
			Height: opts.Height,
		},
	}
	if chromeBinary := findChromeBinary(opts.BrowserPath); opts.BrowserPath != "" && chromeBinary != "" {
		launch.ExecutablePath = playwright.String(chromeBinary)
	}

	s.context, err = s.pw.Chromium.LaunchPersistentContext(s.profile.Path, launch)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("%w: failed to launch browser: %w", entities.ErrLaunch, err)
	}

	if pages := s.context.Pages(); len(pages) > 0 {
		s.page = pages[0]
	} else if s.page, err = s.context.NewPage(); err != nil {
		s.Close()
		return nil, fmt.Errorf("%w: failed to create page: %w", entities.ErrLaunch, err)
	}
	if s.navigate > 0 {
		s.page.SetDefaultNavigationTimeout(s.navigate)
	}

	logger.Debugf("Using user data directory: %s", s.profile.Path)
	return s, nil
}

// Navigate - navigates to the specified URL
func (s *PlaywrightSession) Navigate(ctx context.Context, url string) error {
	if s.closed {
		return entities.ErrSessionClosed
	}
	s.logger.Infof("Navigating to: %s", url)
	_, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
	})
	if err != nil {
		return fmt.Errorf("%w: %s: %w", entities.ErrNavigation, url, err)
	}
	return nil
}

// Refresh - reloads the current page
func (s *PlaywrightSession) Refresh(ctx context.Context) error {
	if s.closed {
		return entities.ErrSessionClosed
	}
	_, err := s.page.Reload(playwright.PageReloadOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
	})
	if err != nil {
		return fmt.Errorf("%w: refresh: %w", entities.ErrNavigation, err)
	}
	return nil
}

func (s *PlaywrightSession) FindElement(ctx context.Context, loc entities.Locator) (interfaces.Element, error) {
	elements, err := s.FindElements(ctx, loc)
	if err != nil {
		return nil, err
	}
	if len(elements) == 0 {
		return nil, fmt.Errorf("%w: %s", entities.ErrNotFound, loc)
	}
	return elements[0], nil
}

func (s *PlaywrightSession) FindElements(ctx context.Context, loc entities.Locator) ([]interfaces.Element, error) {
	if s.closed {
		return nil, entities.ErrSessionClosed
	}
	selector, err := playwrightSelector(loc)
	if err != nil {
		return nil, err
	}
	handles, err := s.page.QuerySelectorAll(selector)
	if err != nil {
		return nil, playwrightError(loc.String(), err)
	}
	return wrapPlaywright(handles), nil
}

// Title - returns the current page title
func (s *PlaywrightSession) Title(ctx context.Context) (string, error) {
	if s.closed {
		return "", entities.ErrSessionClosed
	}
	return s.page.Title()
}

// CurrentURL - returns the current page URL
func (s *PlaywrightSession) CurrentURL(ctx context.Context) (string, error) {
	if s.closed {
		return "", entities.ErrSessionClosed
	}
	return s.page.URL(), nil
}

// TakeScreenshot - takes a screenshot of the current page
func (s *PlaywrightSession) TakeScreenshot(ctx context.Context) ([]byte, error) {
	if s.closed {
		return nil, entities.ErrSessionClosed
	}
	return s.page.Screenshot()
}

// Close - closes the context, stops playwright and removes the profile
func (s *PlaywrightSession) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	if s.context != nil {
		if err := s.context.Close(); err != nil && !isClosedErr(err) {
			errs = append(errs, fmt.Errorf("failed to close context: %w", err))
		}
		s.context = nil
	}
	if s.pw != nil {
		if err := s.pw.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop playwright: %w", err))
		}
		s.pw = nil
	}
	if err := s.profile.Remove(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func isClosedErr(err error) bool {
	errStr := err.Error()
	return strings.Contains(errStr, "closed") || strings.Contains(errStr, "target closed")
}

type playwrightElement struct {
	handle playwright.ElementHandle
}

func wrapPlaywright(handles []playwright.ElementHandle) []interfaces.Element {
	elements := make([]interfaces.Element, 0, len(handles))
	for _, h := range handles {
		elements = append(elements, &playwrightElement{handle: h})
	}
	return elements
}

// attached - playwright keeps detached handles usable for reads, so
// staleness has to be checked explicitly
func (e *playwrightElement) attached(op string) error {
	connected, err := e.handle.Evaluate("e => e.isConnected")
	if err != nil {
		return playwrightError(op, err)
	}
	if ok, _ := connected.(bool); !ok {
		return fmt.Errorf("%w: %s", entities.ErrStaleElement, op)
	}
	return nil
}

func (e *playwrightElement) Text(ctx context.Context) (string, error) {
	if err := e.attached("text"); err != nil {
		return "", err
	}
	text, err := e.handle.InnerText()
	return text, playwrightError("text", err)
}

func (e *playwrightElement) Attribute(ctx context.Context, name string) (string, error) {
	if err := e.attached("attribute " + name); err != nil {
		return "", err
	}
	if name == "value" {
		value, err := e.handle.InputValue()
		return value, playwrightError("input value", err)
	}
	value, err := e.handle.GetAttribute(name)
	return value, playwrightError("attribute "+name, err)
}

func (e *playwrightElement) IsEnabled(ctx context.Context) (bool, error) {
	if err := e.attached("enabled"); err != nil {
		return false, err
	}
	ok, err := e.handle.IsEnabled()
	return ok, playwrightError("enabled", err)
}

func (e *playwrightElement) IsDisplayed(ctx context.Context) (bool, error) {
	if err := e.attached("displayed"); err != nil {
		return false, err
	}
	ok, err := e.handle.IsVisible()
	return ok, playwrightError("displayed", err)
}

func (e *playwrightElement) Click(ctx context.Context) error {
	if err := e.attached("click"); err != nil {
		return err
	}
	return playwrightError("click", e.handle.Click())
}

func (e *playwrightElement) SendKeys(ctx context.Context, text string) error {
	if err := e.attached("send keys"); err != nil {
		return err
	}
	return playwrightError("send keys", e.handle.Type(text))
}

func (e *playwrightElement) Clear(ctx context.Context) error {
	if err := e.attached("clear"); err != nil {
		return err
	}
	return playwrightError("clear", e.handle.Fill(""))
}

func (e *playwrightElement) FindElement(ctx context.Context, loc entities.Locator) (interfaces.Element, error) {
	elements, err := e.FindElements(ctx, loc)
	if err != nil {
		return nil, err
	}
	if len(elements) == 0 {
		return nil, fmt.Errorf("%w: %s", entities.ErrNotFound, loc)
	}
	return elements[0], nil
}

func (e *playwrightElement) FindElements(ctx context.Context, loc entities.Locator) ([]interfaces.Element, error) {
	if err := e.attached(loc.String()); err != nil {
		return nil, err
	}
	selector, err := playwrightSelector(loc)
	if err != nil {
		return nil, err
	}
	handles, err := e.handle.QuerySelectorAll(selector)
	if err != nil {
		return nil, playwrightError(loc.String(), err)
	}
	return wrapPlaywright(handles), nil
}

func playwrightSelector(loc entities.Locator) (string, error) {
	switch loc.Strategy {
	case entities.StrategyID:
		return "id=" + loc.Value, nil
	case entities.StrategyCSS:
		return "css=" + loc.Value, nil
	case entities.StrategyXPath:
		return "xpath=" + loc.Value, nil
	default:
		return "", fmt.Errorf("unsupported locator strategy %q", loc.Strategy)
	}
}

// playwrightError - maps playwright failures onto the entities taxonomy
func playwrightError(op string, err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "not attached"),
		strings.Contains(msg, "is disposed"),
		strings.Contains(msg, "Execution context was destroyed"),
		strings.Contains(msg, "Cannot find context with specified id"):
		return fmt.Errorf("%w: %s: %v", entities.ErrStaleElement, op, err)
	case strings.Contains(msg, "is not a valid selector"),
		strings.Contains(msg, "Unexpected token"),
		strings.Contains(msg, "SyntaxError"):
		return fmt.Errorf("%w: invalid selector %s: %v", entities.ErrNotFound, op, err)
	default:
		return fmt.Errorf("failed to %s: %w", op, err)
	}
}

var (
	_ interfaces.Session = (*PlaywrightSession)(nil)
	_ interfaces.Element = (*playwrightElement)(nil)
)
