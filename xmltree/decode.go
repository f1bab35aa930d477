package xmltree

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html/charset"
)

// ErrEmptyDocument is returned when the input holds no root element.
var ErrEmptyDocument = errors.New("xml document has no root element")

// ParseOptions controls Parse.
type ParseOptions struct {
	// TrimXMLDeclaration removes the <?xml ...?> prolog before decoding.
	// Some producers write a prolog whose declared encoding does not match
	// the bytes that follow.
	TrimXMLDeclaration bool
}

var declaration = regexp.MustCompile(`<[?].*?[?]>`)

var bom = []byte{0xEF, 0xBB, 0xBF}

// Parse decodes data into an element tree. Malformed XML is an error.
func Parse(data []byte, opts ParseOptions) (*Element, error) {
	data = bytes.TrimPrefix(data, bom)
	if opts.TrimXMLDeclaration {
		if loc := declaration.FindIndex(data); loc != nil {
			data = append(data[:loc[0]:loc[0]], data[loc[1]:]...)
		}
	}

	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel
	dec.Strict = true

	var (
		root  *Element
		stack []*Element
	)

	for {
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := newElement(t)
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				el.Parent = parent
				parent.Children = append(parent.Children, el)
			} else if root == nil {
				root = el
			} else {
				return nil, errors.New("decoding xml: multiple root elements")
			}
			el.resolveNames()
			stack = append(stack, el)

		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("decoding xml: unexpected end element %s", t.Name.Local)
			}
			el := stack[len(stack)-1]
			if el.Name.Local != t.Name.Local || el.Prefix != t.Name.Space {
				return nil, fmt.Errorf("decoding xml: element <%s> closed by </%s>", el.Name.Local, t.Name.Local)
			}
			if len(el.Children) > 0 && strings.TrimSpace(el.Text) == "" {
				el.Text = ""
			}
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}
		}
	}

	if len(stack) > 0 {
		return nil, fmt.Errorf("decoding xml: unclosed element %s", stack[len(stack)-1].Name.Local)
	}
	if root == nil {
		return nil, ErrEmptyDocument
	}
	return root, nil
}

func newElement(t xml.StartElement) *Element {
	el := &Element{
		Name:   xml.Name{Local: t.Name.Local},
		Prefix: t.Name.Space,
	}

	for _, a := range t.Attr {
		switch {
		case a.Name.Space == "xmlns":
			if el.ns == nil {
				el.ns = make(map[string]string)
			}
			el.ns[a.Name.Local] = a.Value
		case a.Name.Space == "" && a.Name.Local == "xmlns":
			if el.ns == nil {
				el.ns = make(map[string]string)
			}
			el.ns[""] = a.Value
		}
		el.Attrs = append(el.Attrs, Attr{Prefix: a.Name.Space, Local: a.Name.Local, Value: a.Value})
	}
	return el
}

// resolveNames fills in namespace URIs once the element is attached to its
// parent, so that inherited declarations are visible.
func (e *Element) resolveNames() {
	if uri, ok := e.LookupNamespace(e.Prefix); ok {
		e.Name.Space = uri
	}
	for i := range e.Attrs {
		a := &e.Attrs[i]
		switch a.Prefix {
		case "", "xmlns":
		case "xml":
			a.Space = "http://www.w3.org/XML/1998/namespace"
		default:
			if uri, ok := e.LookupNamespace(a.Prefix); ok {
				a.Space = uri
			}
		}
	}
}
