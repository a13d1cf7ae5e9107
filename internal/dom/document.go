package dom

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	// ErrNoHead is returned when a stylesheet cannot be attached because the
	// document has no head element.
	ErrNoHead = errors.New("document has no head element")
)

// Document is a concurrency-safe in-memory HTML document. It plays the role
// of the browser page hosting the widget: elements can be found, inserted,
// mutated and removed, page-level globals can be set, and named events can be
// dispatched to registered listeners.
type Document struct {
	mu   sync.RWMutex
	root *html.Node

	globals   map[string]bool
	listeners map[string][]func()
}

// Parse reads an HTML document from r.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return &Document{
		root:      root,
		globals:   make(map[string]bool),
		listeners: make(map[string][]func()),
	}, nil
}

// ParseString parses an HTML document held in memory.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// SetGlobal marks a page-level global (e.g. a navigation library) as present.
func (d *Document) SetGlobal(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.globals[name] = true
}

// HasGlobal reports whether a page-level global is present.
func (d *Document) HasGlobal(name string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.globals[name]
}

// AddEventListener registers fn for a document-level event.
func (d *Document) AddEventListener(event string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[event] = append(d.listeners[event], fn)
}

// Dispatch calls every listener registered for event, in registration order,
// and returns how many ran. Listeners run without the document lock held.
func (d *Document) Dispatch(event string) int {
	d.mu.RLock()
	fns := append([]func(){}, d.listeners[event]...)
	d.mu.RUnlock()

	for _, fn := range fns {
		fn()
	}
	return len(fns)
}

// Exists reports whether an element with the given id is in the document.
func (d *Document) Exists(id string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.byID(id) != nil
}

// Count returns the number of elements carrying the given id.
func (d *Document) Count(id string) int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	n := 0
	walk(d.root, func(el *html.Node) bool {
		if attr(el, "id") == id {
			n++
		}
		return false
	})
	return n
}

// Matches reports whether any element satisfies sel.
func (d *Document) Matches(sel Selector) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return walk(d.root, sel.Match) != nil
}

// PrependTo parses fragment in the context of the first element matching sel
// and inserts the parsed nodes as that element's first children. It reports
// false when nothing matches.
func (d *Document) PrependTo(sel Selector, fragment string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	target := walk(d.root, sel.Match)
	if target == nil {
		return false, nil
	}

	nodes, err := html.ParseFragment(strings.NewReader(fragment), target)
	if err != nil {
		return false, fmt.Errorf("parse fragment for %s: %w", sel.Name, err)
	}

	first := target.FirstChild
	for _, n := range nodes {
		target.InsertBefore(n, first)
	}
	return true, nil
}

// Remove detaches the element with the given id. It reports whether an
// element was removed.
func (d *Document) Remove(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := d.byID(id)
	if n == nil || n.Parent == nil {
		return false
	}
	n.Parent.RemoveChild(n)
	return true
}

// SetText replaces the children of the element with a single text node.
// Missing elements are ignored and reported as false.
func (d *Document) SetText(id, text string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := d.byID(id)
	if n == nil {
		return false
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return true
}

// Text returns the concatenated text content of the element.
func (d *Document) Text(id string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	n := d.byID(id)
	if n == nil {
		return "", false
	}
	var b strings.Builder
	collectText(n, &b)
	return strings.TrimSpace(b.String()), true
}

// HasClass reports whether the element carries class.
func (d *Document) HasClass(id, class string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return hasClass(d.byID(id), class)
}

// RemoveClass drops class from the element's class list. Missing elements
// are ignored and reported as false.
func (d *Document) RemoveClass(id, class string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := d.byID(id)
	if n == nil {
		return false
	}
	for i, a := range n.Attr {
		if a.Namespace != "" || a.Key != "class" {
			continue
		}
		kept := make([]string, 0, 4)
		for _, c := range strings.Fields(a.Val) {
			if c != class {
				kept = append(kept, c)
			}
		}
		n.Attr[i].Val = strings.Join(kept, " ")
	}
	return true
}

// EnsureStylesheet appends <link id=id rel="stylesheet" href=href> to the
// head unless an element with that id already exists. It reports whether a
// link was inserted.
func (d *Document) EnsureStylesheet(id, href string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.byID(id) != nil {
		return false, nil
	}
	head := walk(d.root, func(n *html.Node) bool { return n.DataAtom == atom.Head })
	if head == nil {
		return false, ErrNoHead
	}
	head.AppendChild(&html.Node{
		Type:     html.ElementNode,
		Data:     "link",
		DataAtom: atom.Link,
		Attr: []html.Attribute{
			{Key: "id", Val: id},
			{Key: "rel", Val: "stylesheet"},
			{Key: "href", Val: href},
		},
	})
	return true, nil
}

// Render writes the document as HTML.
func (d *Document) Render(w io.Writer) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return html.Render(w, d.root)
}

// String renders the document, returning an empty string on failure.
func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

func (d *Document) byID(id string) *html.Node {
	if id == "" {
		return nil
	}
	return walk(d.root, func(n *html.Node) bool { return attr(n, "id") == id })
}

// walk returns the first element, in document order, for which match is true.
func walk(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n == nil {
		return nil
	}
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := walk(c, match); found != nil {
			return found
		}
	}
	return nil
}

func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}
