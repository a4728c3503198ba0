package entities

import "strings"

// XPathLiteral quotes s as an XPath 1.0 string literal. XPath has no escape
// sequences, so text holding both quote kinds is split into a concat() call.
func XPathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}

	parts := strings.Split(s, "'")
	args := make([]string, 0, len(parts)*2-1)
	for i, p := range parts {
		if i > 0 {
			args = append(args, `"'"`)
		}
		if p != "" {
			args = append(args, "'"+p+"'")
		}
	}
	return "concat(" + strings.Join(args, ", ") + ")"
}

// XPathHasClass returns a predicate matching elements whose class list holds
// the whole token class, so "item" does not match "items".
func XPathHasClass(class string) string {
	return "contains(concat(' ', normalize-space(@class), ' '), " + XPathLiteral(" "+class+" ") + ")"
}
