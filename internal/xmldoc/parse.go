package xmldoc

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/unicode/norm"
)

// MalformedInputError indicates the input is not well-formed XML. It is
// returned before any format handler runs and is never retried.
type MalformedInputError struct {
	Err error
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed xml input: %v", e.Err)
}

func (e *MalformedInputError) Unwrap() error { return e.Err }

// Parse builds a Document from raw XML bytes. Non-UTF-8 documents are
// decoded through their declared encoding label. Any well-formedness
// failure yields a *MalformedInputError.
func Parse(data []byte) (*Document, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel

	var root *Element
	var stack []*Element
	seq := 0

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &MalformedInputError{Err: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{
				Name:  t.Name.Local,
				Space: t.Name.Space,
				Attrs: attrMap(t.Attr),
				Depth: len(stack),
				Seq:   seq,
			}
			seq++
			if len(stack) == 0 {
				if root != nil {
					return nil, &MalformedInputError{Err: errors.New("multiple root elements")}
				}
				el.Path = el.Name
				root = el
			} else {
				parent := stack[len(stack)-1]
				el.Path = parent.Path + "/" + el.Name
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)

		case xml.EndElement:
			if len(stack) == 0 {
				return nil, &MalformedInputError{Err: errors.New("unbalanced end element")}
			}
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			text := collapseSpace(string(t))
			if text == "" {
				continue
			}
			top := stack[len(stack)-1]
			if top.Text != "" {
				top.Text += " "
			}
			top.Text += norm.NFC.String(text)
		}
	}

	if root == nil {
		return nil, &MalformedInputError{Err: errors.New("no root element")}
	}
	if len(stack) != 0 {
		return nil, &MalformedInputError{Err: errors.New("unclosed element")}
	}

	doc := &Document{
		Root:  root,
		index: make(map[string][]*Element),
	}
	doc.Walk(func(e *Element) {
		doc.index[e.Path] = append(doc.index[e.Path], e)
		doc.count++
	})
	doc.paths = make([]string, 0, len(doc.index))
	for p := range doc.index {
		doc.paths = append(doc.paths, p)
	}
	sort.Strings(doc.paths)

	return doc, nil
}

func attrMap(attrs []xml.Attr) map[string]string {
	if len(attrs) == 0 {
		return nil
	}
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		m[a.Name.Local] = a.Value
	}
	return m
}

// collapseSpace trims and folds internal whitespace runs to single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
