package dom

import (
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Selector is a named element predicate. Lists of selectors are evaluated in
// order and the first one that matches an element wins.
type Selector struct {
	Name  string
	Match func(n *html.Node) bool
}

// ByID matches the element whose id attribute equals id.
func ByID(id string) Selector {
	return mustSelector(fmt.Sprintf("[id=%q]", id))
}

// ByClass matches elements carrying class in their class list.
func ByClass(class string) Selector {
	return mustSelector(fmt.Sprintf("[class~=%q]", class))
}

// ByAttr matches elements whose key attribute equals value.
func ByAttr(key, value string) Selector {
	return mustSelector(fmt.Sprintf("[%s=%q]", key, value))
}

// ByTag matches elements by tag name.
func ByTag(tag string) Selector {
	return mustSelector(strings.ToLower(tag))
}

// ParseSelector compiles a CSS selector group such as "#aside",
// ".sidebar.widget", "#aside > .card" or `[role="complementary"]`.
func ParseSelector(s string) (Selector, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Selector{}, fmt.Errorf("empty selector")
	}
	m, err := cascadia.Compile(s)
	if err != nil {
		return Selector{}, fmt.Errorf("invalid selector %q: %w", s, err)
	}
	return Selector{Name: s, Match: m.Match}, nil
}

func mustSelector(s string) Selector {
	sel, err := ParseSelector(s)
	if err != nil {
		panic(err)
	}
	return sel
}

// ParseSelectors parses a list of selectors, keeping their order.
func ParseSelectors(list []string) ([]Selector, error) {
	out := make([]Selector, 0, len(list))
	for _, s := range list {
		sel, err := ParseSelector(s)
		if err != nil {
			return nil, err
		}
		out = append(out, sel)
	}
	return out, nil
}

func lookupAttr(n *html.Node, key string) (string, bool) {
	if n == nil || n.Type != html.ElementNode {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func attr(n *html.Node, key string) string {
	v, _ := lookupAttr(n, key)
	return v
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}
