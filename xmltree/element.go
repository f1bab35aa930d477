// Package xmltree provides a small namespace-aware element tree over
// encoding/xml, with the attribute helpers WordprocessingML parsing needs.
//
// Lookups match on local names only: w:p, m:r and a:blip are all addressed
// as "p", "r" and "blip". Namespace URIs are still resolved and available
// through Element.Name.Space for the few places that need them.
package xmltree

import (
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/tsawler/docxhtml/units"
)

// Attr is a single attribute with its original prefix preserved.
type Attr struct {
	Prefix string
	Space  string
	Local  string
	Value  string
}

// Element is a node of a parsed XML document.
type Element struct {
	// Name holds the local name and the resolved namespace URI.
	Name   xml.Name
	Prefix string
	Attrs  []Attr
	// Text is the character data found directly inside the element.
	Text     string
	Children []*Element
	Parent   *Element

	ns map[string]string
}

// Local returns the element's local name.
func (e *Element) Local() string {
	if e == nil {
		return ""
	}
	return e.Name.Local
}

// Elements returns the child elements whose local name is one of names, in
// document order. With no names every child element is returned.
func (e *Element) Elements(names ...string) []*Element {
	if e == nil {
		return nil
	}
	if len(names) == 0 {
		return e.Children
	}

	var out []*Element
	for _, c := range e.Children {
		for _, n := range names {
			if c.Name.Local == n {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// Element returns the first child with the given local name, or nil.
func (e *Element) Element(name string) *Element {
	if e == nil {
		return nil
	}
	for _, c := range e.Children {
		if c.Name.Local == name {
			return c
		}
	}
	return nil
}

// FirstElement returns the first child element, or nil.
func (e *Element) FirstElement() *Element {
	if e == nil || len(e.Children) == 0 {
		return nil
	}
	return e.Children[0]
}

// ElementAttr returns attribute attr of the first child named name.
func (e *Element) ElementAttr(name, attr string) string {
	return e.Element(name).Attr(attr)
}

// AttrOK looks up an attribute by local name. Namespace declarations are
// never matched.
func (e *Element) AttrOK(name string) (string, bool) {
	if e == nil {
		return "", false
	}
	for _, a := range e.Attrs {
		if a.Local == name && a.Prefix != "xmlns" && !(a.Prefix == "" && a.Local == "xmlns") {
			return a.Value, true
		}
	}
	return "", false
}

// Attr returns the value of the attribute with the given local name, or "".
func (e *Element) Attr(name string) string {
	v, _ := e.AttrOK(name)
	return v
}

// IntAttr parses a decimal attribute, returning def when it is missing or
// malformed.
func (e *Element) IntAttr(name string, def int) int {
	v := e.Attr(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// HexAttr parses a hexadecimal attribute.
func (e *Element) HexAttr(name string, def int) int {
	v := e.Attr(name)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 16, 64)
	if err != nil {
		return def
	}
	return int(n)
}

// FloatAttr parses a floating point attribute.
func (e *Element) FloatAttr(name string, def float64) float64 {
	v := e.Attr(name)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

// BoolAttr decodes an on/off attribute with units.Bool.
func (e *Element) BoolAttr(name string, def bool) bool {
	return units.Bool(e.Attr(name), def)
}

// LengthAttr converts a measurement attribute into a CSS length.
func (e *Element) LengthAttr(name string, u units.Usage) string {
	return units.Convert(e.Attr(name), u)
}

// OnOff reports a toggle property such as <w:b/> or <w:b w:val="0"/>: a
// missing val means on.
func (e *Element) OnOff() bool {
	return e.BoolAttr("val", true)
}

// TextContent concatenates the character data of e and its descendants.
func (e *Element) TextContent() string {
	if e == nil {
		return ""
	}
	if len(e.Children) == 0 {
		return e.Text
	}

	var sb strings.Builder
	sb.WriteString(e.Text)
	for _, c := range e.Children {
		sb.WriteString(c.TextContent())
	}
	return sb.String()
}

// LookupNamespace resolves prefix against the declarations in scope at e.
func (e *Element) LookupNamespace(prefix string) (string, bool) {
	for n := e; n != nil; n = n.Parent {
		if uri, ok := n.ns[prefix]; ok {
			return uri, true
		}
	}
	return "", false
}
