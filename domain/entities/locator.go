package entities

import "fmt"

// Strategy identifies how a Locator resolves elements
type Strategy string

const (
	StrategyID    Strategy = "id"
	StrategyCSS   Strategy = "css"
	StrategyXPath Strategy = "xpath"
)

// Locator describes how to find an element. It is a value: two locators with
// the same strategy and value are interchangeable.
type Locator struct {
	Strategy Strategy `json:"strategy"`
	Value    string   `json:"value"`
}

// NewLocator - creates a locator, rejecting empty descriptors
func NewLocator(strategy Strategy, value string) (Locator, error) {
	switch strategy {
	case StrategyID, StrategyCSS, StrategyXPath:
	default:
		return Locator{}, fmt.Errorf("unknown locator strategy %q", strategy)
	}
	if value == "" {
		return Locator{}, fmt.Errorf("%w: %s", ErrEmptyLocator, strategy)
	}
	return Locator{Strategy: strategy, Value: value}, nil
}

func mustLocator(strategy Strategy, value string) Locator {
	loc, err := NewLocator(strategy, value)
	if err != nil {
		panic(err)
	}
	return loc
}

// ByID - locator matching the element id. Panics on an empty id.
func ByID(id string) Locator {
	return mustLocator(StrategyID, id)
}

// ByCSS - locator matching a CSS selector. Panics on an empty selector.
func ByCSS(selector string) Locator {
	return mustLocator(StrategyCSS, selector)
}

// ByXPath - locator matching an XPath expression. Panics on an empty expression.
func ByXPath(expr string) Locator {
	return mustLocator(StrategyXPath, expr)
}

// IsZero reports whether the locator was never initialized
func (l Locator) IsZero() bool {
	return l.Strategy == "" && l.Value == ""
}

func (l Locator) String() string {
	return fmt.Sprintf("%s=%s", l.Strategy, l.Value)
}
