// Package memory implements a browser session over an in-memory HTML
// document. There is no script engine: page behavior is supplied by an App.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"todo_e2e/domain/entities"
	"todo_e2e/domain/interfaces"

	"github.com/andybalholm/cascadia"
	"github.com/antchfx/htmlquery"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"
)

// App serves pages and reacts to interactions, standing in for the
// application under test.
type App interface {
	// Render returns the markup served at url
	Render(url string) (string, error)

	// Click is called after a click on an enabled element
	Click(doc *Document, target *html.Node) error

	// Input is called after the value of target changed
	Input(doc *Document, target *html.Node) error
}

// Static serves the same markup for every url and ignores interactions
type Static string

func (s Static) Render(string) (string, error)   { return string(s), nil }
func (Static) Click(*Document, *html.Node) error { return nil }
func (Static) Input(*Document, *html.Node) error { return nil }

// Session is an interfaces.Session over a Document
type Session struct {
	app    App
	logger logrus.FieldLogger

	mu         sync.Mutex
	doc        *Document
	url        string
	closed     bool
	closeCalls int
}

// NewSession - creates a session with no page loaded
func NewSession(app App, logger logrus.FieldLogger) *Session {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Session{app: app, logger: logger}
}

// Navigate - renders url through the app
func (s *Session) Navigate(ctx context.Context, url string) error {
	if err := s.alive(); err != nil {
		return err
	}
	if err := s.load(url); err != nil {
		return fmt.Errorf("%w: %s: %w", entities.ErrNavigation, url, err)
	}
	s.logger.Debugf("Navigated to: %s", url)
	return nil
}

// Refresh - renders the current url again, replacing the document
func (s *Session) Refresh(ctx context.Context) error {
	if err := s.alive(); err != nil {
		return err
	}
	if err := s.load(s.url); err != nil {
		return fmt.Errorf("%w: reload %s: %w", entities.ErrNavigation, s.url, err)
	}
	return nil
}

func (s *Session) load(url string) error {
	markup, err := s.app.Render(url)
	if err != nil {
		return err
	}
	doc, err := ParseDocument(markup)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.doc = doc
	s.url = url
	s.mu.Unlock()
	return nil
}

func (s *Session) FindElement(ctx context.Context, loc entities.Locator) (interfaces.Element, error) {
	elements, err := s.FindElements(ctx, loc)
	if err != nil {
		return nil, err
	}
	if len(elements) == 0 {
		return nil, fmt.Errorf("%w: %s", entities.ErrNotFound, loc)
	}
	return elements[0], nil
}

func (s *Session) FindElements(ctx context.Context, loc entities.Locator) ([]interfaces.Element, error) {
	if err := s.alive(); err != nil {
		return nil, err
	}
	doc := s.document()
	if doc == nil {
		return []interfaces.Element{}, nil
	}
	nodes, err := query(doc.root, doc.root, loc)
	if err != nil {
		return nil, err
	}
	return s.wrap(doc, nodes), nil
}

func (s *Session) Title(ctx context.Context) (string, error) {
	if err := s.alive(); err != nil {
		return "", err
	}
	doc := s.document()
	if doc == nil {
		return "", nil
	}
	return doc.Title(), nil
}

func (s *Session) CurrentURL(ctx context.Context) (string, error) {
	if err := s.alive(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.url, nil
}

// TakeScreenshot returns the serialized document; there is nothing to paint
func (s *Session) TakeScreenshot(ctx context.Context) ([]byte, error) {
	if err := s.alive(); err != nil {
		return nil, err
	}
	doc := s.document()
	if doc == nil {
		return nil, nil
	}
	return []byte(doc.String()), nil
}

// Close - marks the session closed; later calls only count
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeCalls++
	if s.closed {
		return nil
	}
	s.closed = true
	s.doc = nil
	return nil
}

// Closed reports whether Close was called
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// CloseCalls returns how many times Close was called
func (s *Session) CloseCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeCalls
}

// Document returns the current document, nil before the first navigation
func (s *Session) Document() *Document {
	return s.document()
}

func (s *Session) document() *Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

func (s *Session) alive() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return entities.ErrSessionClosed
	}
	return nil
}

func (s *Session) wrap(doc *Document, nodes []*html.Node) []interfaces.Element {
	elements := make([]interfaces.Element, 0, len(nodes))
	for _, n := range nodes {
		elements = append(elements, &element{session: s, doc: doc, node: n})
	}
	return elements
}

// query resolves loc from scope. Absolute XPath expressions are evaluated
// against root so they behave as in a browser.
func query(root, scope *html.Node, loc entities.Locator) ([]*html.Node, error) {
	switch loc.Strategy {
	case entities.StrategyID:
		return findAllByID(scope, loc.Value, nil), nil
	case entities.StrategyCSS:
		sel, err := cascadia.Parse(loc.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid selector %s: %v", entities.ErrNotFound, loc, err)
		}
		return cascadia.QueryAll(scope, sel), nil
	case entities.StrategyXPath:
		from := scope
		if strings.HasPrefix(loc.Value, "/") {
			from = root
		}
		nodes, err := htmlquery.QueryAll(from, loc.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid xpath %s: %v", entities.ErrNotFound, loc, err)
		}
		return nodes, nil
	default:
		return nil, fmt.Errorf("unsupported locator strategy %q", loc.Strategy)
	}
}

var _ interfaces.Session = (*Session)(nil)
