package todo

import (
	"fmt"
	"html"
	"strconv"
	"strings"
	"sync"

	"todo_e2e/infrastructure/browser/memory"

	nethtml "golang.org/x/net/html"
)

type todoItem struct {
	id        int
	name      string
	completed bool
}

// todoApp mimics the Todo SPA: the add button is disabled while the input is
// empty, submitting resets the form, and items live in a store shared by
// every session so they survive reloads.
type todoApp struct {
	title string
	// ignoreAdd drops submissions, simulating a broken backend
	ignoreAdd bool
	// stickyAdd keeps the add button enabled whatever the input holds
	stickyAdd bool
	// stickyComplete never clears the completed flag once set
	stickyComplete bool

	mu     sync.Mutex
	items  []todoItem
	nextID int
}

func newTodoApp() *todoApp {
	return &todoApp{title: "Todo App"}
}

func (a *todoApp) Render(url string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "<html><head><title>%s</title></head><body>", html.EscapeString(a.title))
	disabled := " disabled"
	if a.stickyAdd {
		disabled = ""
	}
	fmt.Fprintf(&b, `<form><input id="todo-input" value=""><button id="todo-add"%s>Add Item</button></form>`, disabled)
	b.WriteString(`<div id="todo-list">`)
	for _, it := range a.items {
		b.WriteString(renderItem(it))
	}
	b.WriteString(`</div></body></html>`)
	return b.String(), nil
}

func renderItem(it todoItem) string {
	class := "item"
	if it.completed {
		class += " completed"
	}
	return fmt.Sprintf(`<div class="%s" data-id="%d">`+
		`<button class="toggles" aria-label="Mark item as complete">o</button>`+
		`<div class="name">%s</div>`+
		`<button class="remove" aria-label="Remove Item">x</button></div>`,
		class, it.id, html.EscapeString(it.name))
}

func (a *todoApp) Click(doc *memory.Document, target *nethtml.Node) error {
	switch {
	case memory.Attr(target, "id") == "todo-add":
		return a.submit(doc)
	case memory.HasClass(target, "toggles"):
		row := memory.Closest(target, "div", "item")
		if row == nil {
			return nil
		}
		if a.stickyComplete && memory.HasClass(row, "completed") {
			return nil
		}
		a.update(row, func(it *todoItem) { it.completed = !it.completed })
		memory.ToggleClass(row, "completed")
	case memory.Attr(target, "aria-label") == "Remove Item":
		row := memory.Closest(target, "div", "item")
		if row == nil {
			return nil
		}
		a.delete(row)
		doc.Remove(row)
	}
	return nil
}

func (a *todoApp) Input(doc *memory.Document, target *nethtml.Node) error {
	if memory.Attr(target, "id") != "todo-input" {
		return nil
	}
	a.syncAddButton(doc)
	return nil
}

func (a *todoApp) submit(doc *memory.Document) error {
	input := doc.ByID("todo-input")
	text := strings.TrimSpace(memory.Attr(input, "value"))
	if text == "" || a.ignoreAdd {
		return nil
	}

	a.mu.Lock()
	a.nextID++
	it := todoItem{id: a.nextID, name: text}
	a.items = append(a.items, it)
	a.mu.Unlock()

	if err := doc.AppendHTML(doc.ByID("todo-list"), renderItem(it)); err != nil {
		return err
	}
	memory.SetAttr(input, "value", "")
	a.syncAddButton(doc)
	return nil
}

func (a *todoApp) syncAddButton(doc *memory.Document) {
	add := doc.ByID("todo-add")
	if memory.Attr(doc.ByID("todo-input"), "value") == "" && !a.stickyAdd {
		memory.SetAttr(add, "disabled", "")
	} else {
		memory.RemoveAttr(add, "disabled")
	}
}

func (a *todoApp) update(row *nethtml.Node, fn func(*todoItem)) {
	id, _ := strconv.Atoi(memory.Attr(row, "data-id"))
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.items {
		if a.items[i].id == id {
			fn(&a.items[i])
		}
	}
}

func (a *todoApp) delete(row *nethtml.Node) {
	id, _ := strconv.Atoi(memory.Attr(row, "data-id"))
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.items {
		if a.items[i].id == id {
			a.items = append(a.items[:i], a.items[i+1:]...)
			return
		}
	}
}

func (a *todoApp) names() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	names := make([]string, 0, len(a.items))
	for _, it := range a.items {
		names = append(names, it.name)
	}
	return names
}

var _ memory.App = (*todoApp)(nil)
