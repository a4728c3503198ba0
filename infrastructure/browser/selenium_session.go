package browser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"todo_e2e/domain/entities"
	"todo_e2e/domain/interfaces"
	"todo_e2e/infrastructure/storage"

	"github.com/sirupsen/logrus"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
)

// SeleniumSession drives Chrome through its own chromedriver service
type SeleniumSession struct {
	wd      selenium.WebDriver
	service *selenium.Service
	logger  logrus.FieldLogger
	profile *storage.ProfileDir
	output  io.Closer
	closed  bool
}

// freePort - asks the kernel for an unused port so parallel sessions never share a driver
func freePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}

// NewSeleniumSession - starts chromedriver and a Chrome session with an isolated profile
func NewSeleniumSession(ctx context.Context, opts Options, logger *logrus.Entry) (*SeleniumSession, error) {
	s := &SeleniumSession{logger: logger}

	driverPath, err := findChromeDriver(opts.DriverPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrLaunch, err)
	}
	logger.Infof("Using ChromeDriver at: %s", driverPath)

	s.profile, err = storage.NewProfileDir(opts.ProfileRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrLaunch, err)
	}
	logger.Debugf("Using user data directory: %s", s.profile.Path)

	port, err := freePort()
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("%w: failed to find a free port: %w", entities.ErrLaunch, err)
	}

	output := logger.WriterLevel(logrus.DebugLevel)
	s.output = output
	s.service, err = selenium.NewChromeDriverService(driverPath, port, selenium.Output(output))
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("%w: failed to start chromedriver: %w", entities.ErrLaunch, err)
	}

	chromeCaps := chrome.Capabilities{
		Args: append(opts.seleniumArgs(), fmt.Sprintf("--user-data-dir=%s", s.profile.Path)),
	}
	if chromeBinary := findChromeBinary(opts.BrowserPath); chromeBinary != "" {
		logger.Infof("Using Chrome binary at: %s", chromeBinary)
		chromeCaps.Path = chromeBinary
	}

	caps := selenium.Capabilities{"browserName": "chrome"}
	caps.AddChrome(chromeCaps)

	s.wd, err = selenium.NewRemote(caps, fmt.Sprintf("http://localhost:%d/wd/hub", port))
	if err != nil {
		s.Close()
		if strings.Contains(err.Error(), "cannot find Chrome binary") {
			return nil, fmt.Errorf("%w: Chrome browser not found. Please install Google Chrome or set CHROME_BINARY_PATH environment variable: %w", entities.ErrLaunch, err)
		}
		return nil, fmt.Errorf("%w: failed to create webdriver: %w", entities.ErrLaunch, err)
	}

	if opts.NavigationTimeout > 0 {
		if err := s.wd.SetPageLoadTimeout(opts.NavigationTimeout); err != nil {
			logger.Warnf("Failed to set page load timeout: %v", err)
		}
	}

	return s, nil
}

// Navigate - navigates browser to specified URL
func (s *SeleniumSession) Navigate(ctx context.Context, url string) error {
	if s.closed {
		return entities.ErrSessionClosed
	}
	s.logger.Infof("Navigating to: %s", url)
	if err := s.wd.Get(url); err != nil {
		return fmt.Errorf("%w: %s: %w", entities.ErrNavigation, url, err)
	}
	return nil
}

// Refresh - reloads the current page
func (s *SeleniumSession) Refresh(ctx context.Context) error {
	if s.closed {
		return entities.ErrSessionClosed
	}
	s.logger.Debug("Refreshing page")
	if err := s.wd.Refresh(); err != nil {
		return fmt.Errorf("%w: refresh: %w", entities.ErrNavigation, err)
	}
	return nil
}

func (s *SeleniumSession) FindElement(ctx context.Context, loc entities.Locator) (interfaces.Element, error) {
	if s.closed {
		return nil, entities.ErrSessionClosed
	}
	by, value, err := seleniumBy(loc)
	if err != nil {
		return nil, err
	}
	we, err := s.wd.FindElement(by, value)
	if err != nil {
		return nil, seleniumError(loc.String(), err)
	}
	return &seleniumElement{we: we}, nil
}

func (s *SeleniumSession) FindElements(ctx context.Context, loc entities.Locator) ([]interfaces.Element, error) {
	if s.closed {
		return nil, entities.ErrSessionClosed
	}
	by, value, err := seleniumBy(loc)
	if err != nil {
		return nil, err
	}
	found, err := s.wd.FindElements(by, value)
	if err != nil {
		err = seleniumError(loc.String(), err)
		if errors.Is(err, entities.ErrNotFound) && !isInvalidSelector(err) {
			return []interfaces.Element{}, nil
		}
		return nil, err
	}
	return wrapSelenium(found), nil
}

// Title - returns current page title
func (s *SeleniumSession) Title(ctx context.Context) (string, error) {
	if s.closed {
		return "", entities.ErrSessionClosed
	}
	return s.wd.Title()
}

// CurrentURL - returns current page URL
func (s *SeleniumSession) CurrentURL(ctx context.Context) (string, error) {
	if s.closed {
		return "", entities.ErrSessionClosed
	}
	return s.wd.CurrentURL()
}

// TakeScreenshot - takes screenshot of current page
func (s *SeleniumSession) TakeScreenshot(ctx context.Context) ([]byte, error) {
	if s.closed {
		return nil, entities.ErrSessionClosed
	}
	return s.wd.Screenshot()
}

// Close - closes browser, stops ChromeDriver service and removes the profile
func (s *SeleniumSession) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	if s.wd != nil {
		if err := s.wd.Quit(); err != nil {
			errs = append(errs, fmt.Errorf("failed to quit webdriver: %w", err))
		}
	}
	if s.service != nil {
		if err := s.service.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop chromedriver: %w", err))
		}
	}
	if s.output != nil {
		s.output.Close()
	}
	if err := s.profile.Remove(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

type seleniumElement struct {
	we selenium.WebElement
}

func wrapSelenium(found []selenium.WebElement) []interfaces.Element {
	elements := make([]interfaces.Element, 0, len(found))
	for _, we := range found {
		elements = append(elements, &seleniumElement{we: we})
	}
	return elements
}

func (e *seleniumElement) Text(ctx context.Context) (string, error) {
	text, err := e.we.Text()
	return text, seleniumError("text", err)
}

// Attribute - chromedriver answers "value" with the live property, not the
// initial attribute
func (e *seleniumElement) Attribute(ctx context.Context, name string) (string, error) {
	value, err := e.we.GetAttribute(name)
	if err != nil && strings.Contains(err.Error(), "nil return value") {
		return "", nil
	}
	return value, seleniumError("attribute "+name, err)
}

func (e *seleniumElement) IsEnabled(ctx context.Context) (bool, error) {
	ok, err := e.we.IsEnabled()
	return ok, seleniumError("enabled", err)
}

func (e *seleniumElement) IsDisplayed(ctx context.Context) (bool, error) {
	ok, err := e.we.IsDisplayed()
	return ok, seleniumError("displayed", err)
}

func (e *seleniumElement) Click(ctx context.Context) error {
	return seleniumError("click", e.we.Click())
}

func (e *seleniumElement) SendKeys(ctx context.Context, text string) error {
	return seleniumError("send keys", e.we.SendKeys(text))
}

func (e *seleniumElement) Clear(ctx context.Context) error {
	return seleniumError("clear", e.we.Clear())
}

func (e *seleniumElement) FindElement(ctx context.Context, loc entities.Locator) (interfaces.Element, error) {
	by, value, err := seleniumBy(loc)
	if err != nil {
		return nil, err
	}
	we, err := e.we.FindElement(by, value)
	if err != nil {
		return nil, seleniumError(loc.String(), err)
	}
	return &seleniumElement{we: we}, nil
}

func (e *seleniumElement) FindElements(ctx context.Context, loc entities.Locator) ([]interfaces.Element, error) {
	by, value, err := seleniumBy(loc)
	if err != nil {
		return nil, err
	}
	found, err := e.we.FindElements(by, value)
	if err != nil {
		err = seleniumError(loc.String(), err)
		if errors.Is(err, entities.ErrNotFound) && !isInvalidSelector(err) {
			return []interfaces.Element{}, nil
		}
		return nil, err
	}
	return wrapSelenium(found), nil
}

func seleniumBy(loc entities.Locator) (string, string, error) {
	switch loc.Strategy {
	case entities.StrategyID:
		return selenium.ByID, loc.Value, nil
	case entities.StrategyCSS:
		return selenium.ByCSSSelector, loc.Value, nil
	case entities.StrategyXPath:
		return selenium.ByXPATH, loc.Value, nil
	default:
		return "", "", fmt.Errorf("unsupported locator strategy %q", loc.Strategy)
	}
}

// invalidSelector marks a malformed locator; it still reads as not found
type invalidSelector struct{ error }

func (e invalidSelector) Unwrap() error { return e.error }

func isInvalidSelector(err error) bool {
	var target invalidSelector
	return errors.As(err, &target)
}

// seleniumError - maps WebDriver error codes onto the entities taxonomy
func seleniumError(op string, err error) error {
	if err == nil {
		return nil
	}

	code := ""
	var se *selenium.Error
	if errors.As(err, &se) {
		code = se.Err
	}
	msg := err.Error()

	switch {
	case code == "stale element reference" || strings.Contains(msg, "stale element"):
		return fmt.Errorf("%w: %s: %v", entities.ErrStaleElement, op, err)
	case code == "no such element" || strings.Contains(msg, "no such element"):
		return fmt.Errorf("%w: %s: %v", entities.ErrNotFound, op, err)
	case code == "invalid selector" || strings.Contains(msg, "invalid selector"):
		return invalidSelector{fmt.Errorf("%w: invalid selector %s: %v", entities.ErrNotFound, op, err)}
	default:
		return fmt.Errorf("failed to %s: %w", op, err)
	}
}

var (
	_ interfaces.Session = (*SeleniumSession)(nil)
	_ interfaces.Element = (*seleniumElement)(nil)
)
