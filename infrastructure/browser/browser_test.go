package browser

import (
	"context"
	"errors"
	"testing"

	"todo_e2e/domain/entities"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tebeka/selenium"
)

func TestNewFactory(t *testing.T) {
	logger := logrus.New()

	for _, driver := range Drivers {
		f, err := NewFactory(driver, Options{}, logger)
		require.NoError(t, err)
		assert.Equal(t, driver, f.Name())
	}

	_, err := NewFactory("netscape", Options{}, logger)
	assert.Error(t, err)
}

func TestChromeArgs(t *testing.T) {
	opts := Options{Headless: true, NoSandbox: true, Width: 1920, Height: 1080}

	args := opts.chromeArgs()
	assert.Contains(t, args, "--no-sandbox")
	assert.Contains(t, args, "--window-size=1920,1080")
	assert.NotContains(t, args, "--headless=new")

	args = opts.seleniumArgs()
	assert.Contains(t, args, "--headless=new")
	assert.Contains(t, args, "--no-sandbox")

	args = Options{Width: 800, Height: 600}.seleniumArgs()
	assert.NotContains(t, args, "--headless=new")
	assert.NotContains(t, args, "--no-sandbox")
}

func TestSeleniumBy(t *testing.T) {
	by, value, err := seleniumBy(entities.ByID("todo-add"))
	require.NoError(t, err)
	assert.Equal(t, selenium.ByID, by)
	assert.Equal(t, "todo-add", value)

	by, _, err = seleniumBy(entities.ByXPath("//div"))
	require.NoError(t, err)
	assert.Equal(t, selenium.ByXPATH, by)

	_, _, err = seleniumBy(entities.Locator{Strategy: "text", Value: "x"})
	assert.Error(t, err)
}

func TestSeleniumErrorMapping(t *testing.T) {
	assert.NoError(t, seleniumError("click", nil))

	err := seleniumError("click", &selenium.Error{Err: "stale element reference", Message: "element is not attached"})
	assert.ErrorIs(t, err, entities.ErrStaleElement)

	err = seleniumError("find", &selenium.Error{Err: "no such element"})
	assert.ErrorIs(t, err, entities.ErrNotFound)
	assert.False(t, isInvalidSelector(err))

	err = seleniumError("find", &selenium.Error{Err: "invalid selector"})
	assert.ErrorIs(t, err, entities.ErrNotFound)
	assert.True(t, isInvalidSelector(err))

	cause := errors.New("connection refused")
	err = seleniumError("click", cause)
	assert.ErrorIs(t, err, cause)
	assert.False(t, entities.IsTransient(err))
}

func TestPlaywrightSelector(t *testing.T) {
	sel, err := playwrightSelector(entities.ByID("todo-input"))
	require.NoError(t, err)
	assert.Equal(t, "id=todo-input", sel)

	sel, err = playwrightSelector(entities.ByCSS("button.toggles"))
	require.NoError(t, err)
	assert.Equal(t, "css=button.toggles", sel)

	sel, err = playwrightSelector(entities.ByXPath("./ancestor::div"))
	require.NoError(t, err)
	assert.Equal(t, "xpath=./ancestor::div", sel)
}

func TestPlaywrightErrorMapping(t *testing.T) {
	err := playwrightError("click", errors.New("Element is not attached to the DOM"))
	assert.ErrorIs(t, err, entities.ErrStaleElement)

	err = playwrightError("find", errors.New("SyntaxError: Unexpected token"))
	assert.ErrorIs(t, err, entities.ErrNotFound)

	err = playwrightError("goto", errors.New("net::ERR_CONNECTION_REFUSED"))
	assert.False(t, entities.IsTransient(err))
}

// fakeWebElement implements only what seleniumElement.Attribute calls
type fakeWebElement struct {
	selenium.WebElement
	attrs map[string]string
	err   error
}

func (f *fakeWebElement) GetAttribute(name string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.attrs[name], nil
}

func TestSeleniumAttribute(t *testing.T) {
	ctx := context.Background()

	el := &seleniumElement{we: &fakeWebElement{attrs: map[string]string{"value": "Buy milk", "class": "item completed"}}}
	value, err := el.Attribute(ctx, "value")
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", value)
	class, err := el.Attribute(ctx, "class")
	require.NoError(t, err)
	assert.Equal(t, "item completed", class)

	missing := &seleniumElement{we: &fakeWebElement{err: errors.New("nil return value")}}
	value, err = missing.Attribute(ctx, "aria-label")
	require.NoError(t, err)
	assert.Empty(t, value)

	stale := &seleniumElement{we: &fakeWebElement{err: &selenium.Error{Err: "stale element reference"}}}
	_, err = stale.Attribute(ctx, "value")
	assert.ErrorIs(t, err, entities.ErrStaleElement)
}
