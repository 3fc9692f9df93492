// Package xmldoc holds the in-memory document model: a parsed XML tree
// plus a flat path index used by format detection and chunking.
package xmldoc

import "strings"

// Element is one node in the parsed document tree.
type Element struct {
	Name     string            // local tag name
	Space    string            // namespace URI, empty if none
	Attrs    map[string]string // attribute local name -> value
	Text     string            // direct character data, whitespace-collapsed
	Children []*Element        // child elements in document order

	Path  string // "/"-joined local names from the root, root included
	Depth int    // 0 for the root
	Seq   int    // document-order position, 0-based
}

// Attr returns the value of the named attribute, or "".
func (e *Element) Attr(name string) string {
	return e.Attrs[name]
}

// Child returns the first direct child with the given local name, or nil.
func (e *Element) Child(name string) *Element {
	for _, c := range e.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ChildText returns the text of the first direct child with the given
// local name, or "".
func (e *Element) ChildText(name string) string {
	if c := e.Child(name); c != nil {
		return c.Text
	}
	return ""
}

// Value resolves an identifier key against this element: attribute
// first, then first matching child element's text. Used by the chunker
// to read handler-declared identifier and reference keys.
func (e *Element) Value(key string) string {
	if v := e.Attrs[key]; v != "" {
		return v
	}
	return e.ChildText(key)
}

// SubtreeText renders all text content of the element and its subtree
// in document order, one segment per line.
func (e *Element) SubtreeText() string {
	var sb strings.Builder
	e.writeSubtreeText(&sb)
	return sb.String()
}

func (e *Element) writeSubtreeText(sb *strings.Builder) {
	if e.Text != "" {
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(e.Text)
	}
	for _, c := range e.Children {
		c.writeSubtreeText(sb)
	}
}

// Document is an immutable parsed XML document. It is built once per
// input by Parse and owned exclusively by the pipeline invocation that
// produced it.
type Document struct {
	Root  *Element
	index map[string][]*Element
	paths []string // sorted index keys
	count int
}

// ByPath returns all elements whose path matches, in document order.
func (d *Document) ByPath(path string) []*Element {
	return d.index[path]
}

// HasPath reports whether at least one element has the given path.
func (d *Document) HasPath(path string) bool {
	return len(d.index[path]) > 0
}

// Paths returns every distinct element path in the document, sorted.
// Sorted so that callers iterating paths stay deterministic.
func (d *Document) Paths() []string {
	return d.paths
}

// ElementCount returns the total number of elements in the document.
func (d *Document) ElementCount() int {
	return d.count
}

// Walk visits every element in document order.
func (d *Document) Walk(visit func(*Element)) {
	if d.Root == nil {
		return
	}
	walk(d.Root, visit)
}

func walk(e *Element, visit func(*Element)) {
	visit(e)
	for _, c := range e.Children {
		walk(c, visit)
	}
}
