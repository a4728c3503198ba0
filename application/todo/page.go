package todo

import (
	"context"
	"fmt"
	"strings"

	"todo_e2e/application/suite"
	"todo_e2e/application/wait"
	"todo_e2e/domain/interfaces"
)

// Page wraps the interactions every scenario repeats
type Page struct {
	env  *suite.Env
	wait *wait.Waiter
}

// NewPage - page object using the default timeout
func NewPage(env *suite.Env) *Page {
	return &Page{env: env, wait: env.Wait}
}

// Long returns a copy waiting with the long timeout
func (p *Page) Long() *Page {
	return &Page{env: p.env, wait: p.env.Long()}
}

func (p *Page) Waiter() *wait.Waiter {
	return p.wait
}

// Input waits for the text field to be present
func (p *Page) Input(ctx context.Context) (interfaces.Element, error) {
	el, err := wait.Until(ctx, p.wait, wait.Presence(InputField))
	return el, suite.Step("locate input", err)
}

// AddButton waits for the add button to be present
func (p *Page) AddButton(ctx context.Context) (interfaces.Element, error) {
	el, err := wait.Until(ctx, p.wait, wait.Presence(AddButton))
	return el, suite.Step("locate add button", err)
}

// Add types text once the input is clickable and clicks add once it is
func (p *Page) Add(ctx context.Context, text string) error {
	input, err := wait.Until(ctx, p.wait, wait.Clickable(InputField))
	if err != nil {
		return suite.Step("wait for input", err)
	}
	if err := input.SendKeys(ctx, text); err != nil {
		return suite.Step("type item", err)
	}
	add, err := wait.Until(ctx, p.wait, wait.Clickable(AddButton))
	if err != nil {
		return suite.Step("wait for add button", err)
	}
	return suite.Step("click add", add.Click(ctx))
}

// WaitForName waits for the name cell holding exactly text to be visible
func (p *Page) WaitForName(ctx context.Context, text string) (interfaces.Element, error) {
	el, err := wait.Until(ctx, p.wait, wait.Visibility(NameExact(text)))
	return el, suite.Step(fmt.Sprintf("wait for item %q", text), err)
}

// RowOf returns the row containing a name cell
func (p *Page) RowOf(ctx context.Context, name interfaces.Element) (interfaces.Element, error) {
	row, err := name.FindElement(ctx, RowOf)
	return row, suite.Step("locate row", err)
}

// Toggle clicks the completion toggle of row
func (p *Page) Toggle(ctx context.Context, row interfaces.Element) error {
	toggle, err := row.FindElement(ctx, ToggleButton)
	if err != nil {
		return suite.Step("locate toggle", err)
	}
	return suite.Step("click toggle", toggle.Click(ctx))
}

// Remove clicks the remove button of row
func (p *Page) Remove(ctx context.Context, row interfaces.Element) error {
	remove, err := row.FindElement(ctx, RemoveButton)
	if err != nil {
		return suite.Step("locate remove button", err)
	}
	return suite.Step("click remove", remove.Click(ctx))
}

// WaitFormReset waits until the input is empty and add is disabled again
func (p *Page) WaitFormReset(ctx context.Context, input, add interfaces.Element) error {
	if _, err := wait.Until(ctx, p.wait, wait.AttributeEquals(input, "value", "")); err != nil {
		return suite.Step("wait for input to clear", err)
	}
	if _, err := wait.Until(ctx, p.wait, wait.Not(wait.Enabled(add))); err != nil {
		return suite.Step("wait for add button to disable", err)
	}
	return nil
}

// Completed reports whether row carries the completed class
func Completed(ctx context.Context, row interfaces.Element) (bool, error) {
	class, err := row.Attribute(ctx, "class")
	if err != nil {
		return false, err
	}
	return strings.Contains(class, "completed"), nil
}
