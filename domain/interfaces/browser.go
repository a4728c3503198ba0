package interfaces

import (
	"context"

	"todo_e2e/domain/entities"
)

// Session is a live connection to one browser instance. A session belongs to
// exactly one test case and must be closed by it.
type Session interface {
	// Navigate loads url, failing with entities.ErrNavigation
	Navigate(ctx context.Context, url string) error

	// Refresh reloads the current document. Every element obtained before
	// the call becomes stale.
	Refresh(ctx context.Context) error

	// FindElement returns the first match in document order or entities.ErrNotFound
	FindElement(ctx context.Context, loc entities.Locator) (Element, error)

	// FindElements returns all matches; an empty slice when nothing matches
	FindElements(ctx context.Context, loc entities.Locator) ([]Element, error)

	Title(ctx context.Context) (string, error)

	CurrentURL(ctx context.Context) (string, error)

	TakeScreenshot(ctx context.Context) ([]byte, error)

	// Close releases the browser. Calling it again is a no-op.
	Close() error
}

// Element is a handle to a DOM node of the current document. Every method
// fails with entities.ErrStaleElement once the node is detached.
type Element interface {
	Text(ctx context.Context) (string, error)

	// Attribute returns the named attribute. For "value" the live input
	// value is returned.
	Attribute(ctx context.Context, name string) (string, error)

	IsEnabled(ctx context.Context) (bool, error)

	IsDisplayed(ctx context.Context) (bool, error)

	Click(ctx context.Context) error

	SendKeys(ctx context.Context, text string) error

	Clear(ctx context.Context) error

	// FindElement resolves loc relative to this element
	FindElement(ctx context.Context, loc entities.Locator) (Element, error)

	FindElements(ctx context.Context, loc entities.Locator) ([]Element, error)
}

// SessionFactory launches fresh, isolated sessions
type SessionFactory interface {
	// NewSession starts a browser for the named test case, failing with entities.ErrLaunch
	NewSession(ctx context.Context, name string) (Session, error)

	// Name identifies the underlying driver
	Name() string
}
