// Package todo holds the end-to-end scenarios for the Todo application.
package todo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"todo_e2e/application/suite"
	"todo_e2e/application/wait"
)

// emptyGuardTimeout bounds how long the add button may take to disable
// after the input is cleared
const emptyGuardTimeout = 2 * time.Second

const bulkCount = 3

// Cases returns every scenario in its canonical order
func Cases() []suite.Case {
	return []suite.Case{
		{Name: "home-page-title", Description: "Page title equals the expected title", Run: HomePageTitle},
		{Name: "add-item", Description: "An item can be typed and submitted", Run: AddItem},
		{Name: "item-appears-after-addition", Description: "A submitted item is listed with its text", Run: ItemAppearsAfterAddition},
		{Name: "mark-item-as-complete", Description: "Toggling an item marks its row completed", Run: MarkItemAsComplete},
		{Name: "remove-item", Description: "Removing an item detaches its row", Run: RemoveItem},
		{Name: "prevent-empty-item-submission", Description: "Add is disabled while the input is empty", Run: PreventEmptyItemSubmission},
		{Name: "item-persists-after-reload", Description: "Items survive a page reload", Run: ItemPersistsAfterReload},
		{Name: "toggle-item-completion-status", Description: "Completion toggles on and off", Run: ToggleItemCompletionStatus},
		{Name: "add-multiple-items-and-check-count", Description: "Several items can be added in a row", Run: AddMultipleItemsAndCheckCount},
		{Name: "add-button-disables-after-item-is-added", Description: "Submitting resets the form", Run: AddButtonDisablesAfterItemIsAdded},
	}
}

func HomePageTitle(ctx context.Context, env *suite.Env) error {
	title, err := env.Session.Title(ctx)
	if err != nil {
		return suite.Step("read title", err)
	}
	return suite.Equal("page title", env.Config.ExpectedTitle, title)
}

func AddItem(ctx context.Context, env *suite.Env) error {
	page := NewPage(env)
	input, err := page.Input(ctx)
	if err != nil {
		return err
	}
	if err := input.SendKeys(ctx, "Buy milk"); err != nil {
		return suite.Step("type item", err)
	}
	add, err := wait.Until(ctx, page.Waiter(), wait.Clickable(AddButton))
	if err != nil {
		return suite.Step("wait for add button", err)
	}
	return suite.Step("click add", add.Click(ctx))
}

func ItemAppearsAfterAddition(ctx context.Context, env *suite.Env) error {
	const text = "Buy milk"
	page := NewPage(env)

	input, err := page.Input(ctx)
	if err != nil {
		return err
	}
	if err := input.SendKeys(ctx, text); err != nil {
		return suite.Step("type item", err)
	}
	add, err := wait.Until(ctx, page.Waiter(), wait.Clickable(AddButton))
	if err != nil {
		return suite.Step("wait for add button", err)
	}
	if err := add.Click(ctx); err != nil {
		return suite.Step("click add", err)
	}

	name, err := page.WaitForName(ctx, text)
	if err != nil {
		return err
	}
	got, err := name.Text(ctx)
	if err != nil {
		return suite.Step("read item text", err)
	}
	return suite.Equal("item text", text, strings.TrimSpace(got))
}

func MarkItemAsComplete(ctx context.Context, env *suite.Env) error {
	const text = "Read Book"
	page := NewPage(env)

	if err := page.Add(ctx, text); err != nil {
		return err
	}
	name, err := page.WaitForName(ctx, text)
	if err != nil {
		return err
	}
	row, err := page.RowOf(ctx, name)
	if err != nil {
		return err
	}
	if err := page.Toggle(ctx, row); err != nil {
		return err
	}
	if _, err := wait.Until(ctx, page.Waiter(), wait.AttributeContains(row, "class", "completed")); err != nil {
		return suite.Step("wait for completed", err)
	}

	done, err := Completed(ctx, row)
	if err != nil {
		return suite.Step("read row class", err)
	}
	return suite.True("row is completed", done)
}

func RemoveItem(ctx context.Context, env *suite.Env) error {
	const text = "Delete Me"
	page := NewPage(env)

	if err := page.Add(ctx, text); err != nil {
		return err
	}
	name, err := page.WaitForName(ctx, text)
	if err != nil {
		return err
	}
	row, err := page.RowOf(ctx, name)
	if err != nil {
		return err
	}
	if err := page.Remove(ctx, row); err != nil {
		return err
	}
	if _, err := wait.Until(ctx, page.Waiter(), wait.StalenessOf(row)); err != nil {
		return suite.Step("wait for row removal", err)
	}

	left, err := env.Session.FindElements(ctx, NameExact(text))
	if err != nil {
		return suite.Step("count remaining items", err)
	}
	return suite.Equal("items named "+text, 0, len(left))
}

func PreventEmptyItemSubmission(ctx context.Context, env *suite.Env) error {
	page := NewPage(env)
	input, err := page.Input(ctx)
	if err != nil {
		return err
	}
	add, err := env.Session.FindElement(ctx, AddButton)
	if err != nil {
		return suite.Step("locate add button", err)
	}
	if err := input.Clear(ctx); err != nil {
		return suite.Step("clear input", err)
	}

	if _, err := wait.Until(ctx, env.Wait.WithTimeout(emptyGuardTimeout), wait.Not(wait.Enabled(add))); err != nil {
		return suite.Step("wait for add button to disable", err)
	}
	enabled, err := add.IsEnabled(ctx)
	if err != nil {
		return suite.Step("read add button state", err)
	}
	return suite.Equal("add button enabled with empty input", false, enabled)
}

func ItemPersistsAfterReload(ctx context.Context, env *suite.Env) error {
	text := suite.Unique("Persist-")
	page := NewPage(env).Long()

	if err := page.Add(ctx, text); err != nil {
		return err
	}
	if _, err := page.WaitForName(ctx, text); err != nil {
		return err
	}
	if err := env.Session.Refresh(ctx); err != nil {
		return suite.Step("reload", err)
	}
	// handles from before the reload are stale; look the item up again
	_, err := page.WaitForName(ctx, text)
	return suite.Step("after reload", err)
}

func ToggleItemCompletionStatus(ctx context.Context, env *suite.Env) error {
	text := suite.Unique("ToggleTest-")
	page := NewPage(env).Long()

	if err := page.Add(ctx, text); err != nil {
		return err
	}
	row, err := wait.Until(ctx, page.Waiter(), wait.Visibility(RowContaining(text)))
	if err != nil {
		return suite.Step(fmt.Sprintf("wait for row %q", text), err)
	}
	toggle, err := row.FindElement(ctx, ToggleButton)
	if err != nil {
		return suite.Step("locate toggle", err)
	}

	if err := toggle.Click(ctx); err != nil {
		return suite.Step("toggle on", err)
	}
	if _, err := wait.Until(ctx, page.Waiter(), wait.AttributeContains(row, "class", "completed")); err != nil {
		return suite.Step("wait for completed", err)
	}

	if err := toggle.Click(ctx); err != nil {
		return suite.Step("toggle off", err)
	}
	_, err = wait.Until(ctx, page.Waiter(), wait.Not(wait.AttributeContains(row, "class", "completed")))
	return suite.Step("wait for not completed", err)
}

func AddMultipleItemsAndCheckCount(ctx context.Context, env *suite.Env) error {
	base := suite.Unique("BulkAddTest-") + "-"
	page := NewPage(env)
	w := page.Waiter()

	for i := 0; i < bulkCount; i++ {
		text := fmt.Sprintf("%s%d", base, i)

		input, err := page.Input(ctx)
		if err != nil {
			return err
		}
		if err := input.Clear(ctx); err != nil {
			return suite.Step("clear input", err)
		}
		if err := input.SendKeys(ctx, text); err != nil {
			return suite.Step("type item", err)
		}

		add, err := page.AddButton(ctx)
		if err != nil {
			return err
		}
		if _, err := wait.Until(ctx, w, wait.Enabled(add)); err != nil {
			return suite.Step("wait for add button to enable", err)
		}
		if _, err := wait.Until(ctx, w, wait.ElementClickable(add)); err != nil {
			return suite.Step("wait for add button", err)
		}
		if err := add.Click(ctx); err != nil {
			return suite.Step("click add", err)
		}

		if _, err := wait.Until(ctx, w, wait.Visibility(NameContains(text))); err != nil {
			return suite.Step(fmt.Sprintf("wait for item %q", text), err)
		}
		// next round needs a reset form, not a fixed pause
		if err := page.WaitFormReset(ctx, input, add); err != nil {
			return err
		}
	}

	rows, err := wait.Until(ctx, w, wait.CountAtLeast(Rows, bulkCount))
	if err != nil {
		return suite.Step("count items", err)
	}
	return suite.True(fmt.Sprintf("at least %d items, found %d", bulkCount, len(rows)), len(rows) >= bulkCount)
}

func AddButtonDisablesAfterItemIsAdded(ctx context.Context, env *suite.Env) error {
	page := NewPage(env).Long()
	w := page.Waiter()

	input, err := page.Input(ctx)
	if err != nil {
		return err
	}
	add, err := page.AddButton(ctx)
	if err != nil {
		return err
	}

	text := suite.Unique("PostAddDisableTest-")
	if err := input.Clear(ctx); err != nil {
		return suite.Step("clear input", err)
	}
	if err := input.SendKeys(ctx, text); err != nil {
		return suite.Step("type item", err)
	}
	if _, err := wait.Until(ctx, w, wait.ElementClickable(add)); err != nil {
		return suite.Step("wait for add button", err)
	}
	if err := add.Click(ctx); err != nil {
		return suite.Step("click add", err)
	}
	if _, err := page.WaitForName(ctx, text); err != nil {
		return err
	}
	if err := page.WaitFormReset(ctx, input, add); err != nil {
		return err
	}

	value, err := input.Attribute(ctx, "value")
	if err != nil {
		return suite.Step("read input value", err)
	}
	if err := suite.Equal("input value after submit", "", value); err != nil {
		return err
	}
	enabled, err := add.IsEnabled(ctx)
	if err != nil {
		return suite.Step("read add button state", err)
	}
	return suite.Equal("add button enabled after submit", false, enabled)
}
