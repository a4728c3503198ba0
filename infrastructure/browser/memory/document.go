package memory

import (
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is the live DOM of a memory session. Apps mutate it in place from
// their Click and Input hooks, the way page scripts would.
type Document struct {
	root *html.Node
}

// ParseDocument - parses markup into a document
func ParseDocument(markup string) (*Document, error) {
	root, err := htmlquery.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return &Document{root: root}, nil
}

func (d *Document) Root() *html.Node {
	return d.root
}

// ByID returns the first element with the given id, or nil
func (d *Document) ByID(id string) *html.Node {
	return findByID(d.root, id)
}

// QueryAll evaluates an XPath expression against the document root
func (d *Document) QueryAll(expr string) ([]*html.Node, error) {
	return htmlquery.QueryAll(d.root, expr)
}

// Remove detaches n. Handles pointing at n or its descendants become stale.
func (d *Document) Remove(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// AppendHTML parses fragment in the context of parent and appends the result
func (d *Document) AppendHTML(parent *html.Node, fragment string) error {
	context := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), context)
	if err != nil {
		return fmt.Errorf("failed to parse fragment: %w", err)
	}
	for _, n := range nodes {
		parent.AppendChild(n)
	}
	return nil
}

// Contains reports whether n is attached under the document root
func (d *Document) Contains(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == d.root {
			return true
		}
	}
	return false
}

// Title returns the trimmed text of the <title> element
func (d *Document) Title() string {
	n := htmlquery.FindOne(d.root, "//title")
	if n == nil {
		return ""
	}
	return strings.TrimSpace(htmlquery.InnerText(n))
}

func (d *Document) String() string {
	return htmlquery.OutputHTML(d.root, true)
}

func findByID(n *html.Node, id string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && Attr(c, "id") == id {
			return c
		}
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

func findAllByID(n *html.Node, id string, out []*html.Node) []*html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && Attr(c, "id") == id {
			out = append(out, c)
		}
		out = findAllByID(c, id, out)
	}
	return out
}

// Attr returns the value of attribute name, "" when absent
func Attr(n *html.Node, name string) string {
	v, _ := lookupAttr(n, name)
	return v
}

// HasAttr reports whether attribute name is present
func HasAttr(n *html.Node, name string) bool {
	_, ok := lookupAttr(n, name)
	return ok
}

func lookupAttr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets or adds attribute name
func SetAttr(n *html.Node, name, value string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: name, Val: value})
}

// RemoveAttr deletes attribute name if present
func RemoveAttr(n *html.Node, name string) {
	attrs := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			continue
		}
		attrs = append(attrs, a)
	}
	n.Attr = attrs
}

// HasClass reports whether the class list of n holds class
func HasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(Attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// ToggleClass adds class to n, or removes it when present
func ToggleClass(n *html.Node, class string) {
	fields := strings.Fields(Attr(n, "class"))
	out := fields[:0]
	found := false
	for _, c := range fields {
		if c == class {
			found = true
			continue
		}
		out = append(out, c)
	}
	if !found {
		out = append(out, class)
	}
	SetAttr(n, "class", strings.Join(out, " "))
}

// Closest returns n or its nearest ancestor with the given tag and class
func Closest(n *html.Node, tag, class string) *html.Node {
	for p := n; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.Data == tag && HasClass(p, class) {
			return p
		}
	}
	return nil
}
