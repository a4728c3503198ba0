package wait

import (
	"context"
	"fmt"
	"strings"

	"todo_e2e/domain/entities"
	"todo_e2e/domain/interfaces"
)

// first returns the first match in document order. Which node comes first is
// only as stable as the page's rendering.
func first(ctx context.Context, s interfaces.Session, loc entities.Locator) (interfaces.Element, error) {
	elements, err := s.FindElements(ctx, loc)
	if err != nil {
		return nil, err
	}
	if len(elements) == 0 {
		return nil, fmt.Errorf("%w: %s", entities.ErrNotFound, loc)
	}
	return elements[0], nil
}

// Presence - an element matching loc is attached to the document
func Presence(loc entities.Locator) Condition[interfaces.Element] {
	return Condition[interfaces.Element]{
		Description: fmt.Sprintf("presence of %s", loc),
		Check: func(ctx context.Context, s interfaces.Session) (interfaces.Element, error) {
			return first(ctx, s, loc)
		},
	}
}

// Visibility - the first element matching loc is displayed
func Visibility(loc entities.Locator) Condition[interfaces.Element] {
	return Condition[interfaces.Element]{
		Description: fmt.Sprintf("visibility of %s", loc),
		Check: func(ctx context.Context, s interfaces.Session) (interfaces.Element, error) {
			el, err := first(ctx, s, loc)
			if err != nil {
				return nil, err
			}
			if err := displayed(ctx, el); err != nil {
				return nil, err
			}
			return el, nil
		},
	}
}

// Clickable - the first element matching loc is displayed and enabled
func Clickable(loc entities.Locator) Condition[interfaces.Element] {
	return Condition[interfaces.Element]{
		Description: fmt.Sprintf("%s to be clickable", loc),
		Check: func(ctx context.Context, s interfaces.Session) (interfaces.Element, error) {
			el, err := first(ctx, s, loc)
			if err != nil {
				return nil, err
			}
			if err := clickable(ctx, el); err != nil {
				return nil, err
			}
			return el, nil
		},
	}
}

// ElementClickable - an already located element is displayed and enabled
func ElementClickable(el interfaces.Element) Condition[interfaces.Element] {
	return Condition[interfaces.Element]{
		Description: "element to be clickable",
		Check: func(ctx context.Context, _ interfaces.Session) (interfaces.Element, error) {
			if err := clickable(ctx, el); err != nil {
				return nil, err
			}
			return el, nil
		},
	}
}

// Enabled - the element is enabled
func Enabled(el interfaces.Element) Condition[bool] {
	return Condition[bool]{
		Description: "element to be enabled",
		Check: func(ctx context.Context, _ interfaces.Session) (bool, error) {
			ok, err := el.IsEnabled(ctx)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, NotReady("element is disabled")
			}
			return true, nil
		},
	}
}

// StalenessOf - the element is no longer attached to the document
func StalenessOf(el interfaces.Element) Condition[bool] {
	return Condition[bool]{
		Description: "staleness of element",
		Check: func(ctx context.Context, _ interfaces.Session) (bool, error) {
			_, err := el.IsEnabled(ctx)
			switch {
			case err == nil:
				return false, NotReady("element is still attached")
			case isStale(err):
				return true, nil
			default:
				return false, err
			}
		},
	}
}

// AttributeContains - the element's attribute name contains substr
func AttributeContains(el interfaces.Element, name, substr string) Condition[bool] {
	return Condition[bool]{
		Description: fmt.Sprintf("attribute %q to contain %q", name, substr),
		Check: func(ctx context.Context, _ interfaces.Session) (bool, error) {
			value, err := el.Attribute(ctx, name)
			if err != nil {
				return false, err
			}
			if !strings.Contains(value, substr) {
				return false, NotReady("attribute %q is %q", name, value)
			}
			return true, nil
		},
	}
}

// AttributeEquals - the element's attribute name equals value
func AttributeEquals(el interfaces.Element, name, value string) Condition[bool] {
	return Condition[bool]{
		Description: fmt.Sprintf("attribute %q to equal %q", name, value),
		Check: func(ctx context.Context, _ interfaces.Session) (bool, error) {
			got, err := el.Attribute(ctx, name)
			if err != nil {
				return false, err
			}
			if got != value {
				return false, NotReady("attribute %q is %q", name, got)
			}
			return true, nil
		},
	}
}

// CountAtLeast - at least n elements match loc
func CountAtLeast(loc entities.Locator, n int) Condition[[]interfaces.Element] {
	return Condition[[]interfaces.Element]{
		Description: fmt.Sprintf("at least %d elements matching %s", n, loc),
		Check: func(ctx context.Context, s interfaces.Session) ([]interfaces.Element, error) {
			elements, err := s.FindElements(ctx, loc)
			if err != nil {
				return nil, err
			}
			if len(elements) < n {
				return nil, NotReady("found %d", len(elements))
			}
			return elements, nil
		},
	}
}

// TitleIs - the document title equals title
func TitleIs(title string) Condition[string] {
	return Condition[string]{
		Description: fmt.Sprintf("title to be %q", title),
		Check: func(ctx context.Context, s interfaces.Session) (string, error) {
			got, err := s.Title(ctx)
			if err != nil {
				return "", err
			}
			if got != title {
				return "", NotReady("title is %q", got)
			}
			return got, nil
		},
	}
}

func displayed(ctx context.Context, el interfaces.Element) error {
	ok, err := el.IsDisplayed(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return NotReady("element is not displayed")
	}
	return nil
}

func clickable(ctx context.Context, el interfaces.Element) error {
	if err := displayed(ctx, el); err != nil {
		return err
	}
	ok, err := el.IsEnabled(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return NotReady("element is disabled")
	}
	return nil
}
