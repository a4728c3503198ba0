package memory

import (
	"context"
	"fmt"
	"strings"

	"todo_e2e/domain/entities"
	"todo_e2e/domain/interfaces"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

type element struct {
	session *Session
	doc     *Document
	node    *html.Node
}

// live fails with ErrStaleElement once the document was replaced or the node
// was detached from it
func (e *element) live() error {
	if err := e.session.alive(); err != nil {
		return err
	}
	if e.session.document() != e.doc || !e.doc.Contains(e.node) {
		return fmt.Errorf("%w: <%s>", entities.ErrStaleElement, e.node.Data)
	}
	return nil
}

func (e *element) Text(ctx context.Context) (string, error) {
	if err := e.live(); err != nil {
		return "", err
	}
	return strings.Join(strings.Fields(htmlquery.InnerText(e.node)), " "), nil
}

func (e *element) Attribute(ctx context.Context, name string) (string, error) {
	if err := e.live(); err != nil {
		return "", err
	}
	return Attr(e.node, name), nil
}

func (e *element) IsEnabled(ctx context.Context) (bool, error) {
	if err := e.live(); err != nil {
		return false, err
	}
	return !HasAttr(e.node, "disabled"), nil
}

func (e *element) IsDisplayed(ctx context.Context) (bool, error) {
	if err := e.live(); err != nil {
		return false, err
	}
	for n := e.node; n != nil; n = n.Parent {
		if n.Type != html.ElementNode {
			continue
		}
		if HasAttr(n, "hidden") {
			return false, nil
		}
		style := strings.ReplaceAll(Attr(n, "style"), " ", "")
		if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
			return false, nil
		}
		if n.Data == "input" && Attr(n, "type") == "hidden" {
			return false, nil
		}
	}
	return true, nil
}

// Click dispatches to the app unless the element is disabled, which is what a
// browser does with clicks on disabled controls
func (e *element) Click(ctx context.Context) error {
	if err := e.live(); err != nil {
		return err
	}
	if HasAttr(e.node, "disabled") {
		return nil
	}
	return e.session.app.Click(e.doc, e.node)
}

func (e *element) SendKeys(ctx context.Context, text string) error {
	if err := e.live(); err != nil {
		return err
	}
	SetAttr(e.node, "value", Attr(e.node, "value")+text)
	return e.session.app.Input(e.doc, e.node)
}

func (e *element) Clear(ctx context.Context) error {
	if err := e.live(); err != nil {
		return err
	}
	SetAttr(e.node, "value", "")
	return e.session.app.Input(e.doc, e.node)
}

func (e *element) FindElement(ctx context.Context, loc entities.Locator) (interfaces.Element, error) {
	elements, err := e.FindElements(ctx, loc)
	if err != nil {
		return nil, err
	}
	if len(elements) == 0 {
		return nil, fmt.Errorf("%w: %s", entities.ErrNotFound, loc)
	}
	return elements[0], nil
}

func (e *element) FindElements(ctx context.Context, loc entities.Locator) ([]interfaces.Element, error) {
	if err := e.live(); err != nil {
		return nil, err
	}
	nodes, err := query(e.doc.root, e.node, loc)
	if err != nil {
		return nil, err
	}
	return e.session.wrap(e.doc, nodes), nil
}

var _ interfaces.Element = (*element)(nil)
