package todo

import "todo_e2e/domain/entities"

// Fixed parts of the Todo page
var (
	InputField   = entities.ByID("todo-input")
	AddButton    = entities.ByID("todo-add")
	Rows         = entities.ByCSS("div.item")
	ToggleButton = entities.ByCSS("button.toggles")
	RemoveButton = entities.ByCSS(`button[aria-label="Remove Item"]`)

	// RowOf climbs from a name cell to its row
	RowOf = entities.ByXPath("./ancestor::div[" + entities.XPathHasClass("item") + "]")
)

// NameExact - the name cell whose normalized text is exactly text
func NameExact(text string) entities.Locator {
	return entities.ByXPath("//div[" + entities.XPathHasClass("name") +
		" and normalize-space(.)=" + entities.XPathLiteral(text) + "]")
}

// NameContains - a name cell whose normalized text contains text
func NameContains(text string) entities.Locator {
	return entities.ByXPath("//div[" + entities.XPathHasClass("name") +
		" and contains(normalize-space(.), " + entities.XPathLiteral(text) + ")]")
}

// RowContaining - the row holding a name cell that contains text
func RowContaining(text string) entities.Locator {
	return entities.ByXPath("//div[" + entities.XPathHasClass("item") +
		" and .//div[" + entities.XPathHasClass("name") +
		" and contains(normalize-space(.), " + entities.XPathLiteral(text) + ")]]")
}
