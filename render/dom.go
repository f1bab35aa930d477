package render

import (
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tsawler/docxhtml/model"
)

// Namespaces of foreign content, as html.Render expects them.
const (
	nsMathML = "math"
	nsSVG    = "svg"
)

const mathMLURI = "http://www.w3.org/1998/Math/MathML"

// element creates an HTML element.
func element(tag string, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Lookup([]byte(tag)),
		Data:     tag,
		Attr:     attrs,
	}
}

// foreign creates a MathML or SVG element.
func foreign(ns, tag string, attrs ...html.Attribute) *html.Node {
	n := element(tag, attrs...)
	n.Namespace = ns
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func comment(s string) *html.Node {
	return &html.Node{Type: html.CommentNode, Data: " " + s + " "}
}

// appendChildren appends every non-nil node to parent.
func appendChildren(parent *html.Node, children ...*html.Node) {
	for _, c := range children {
		if c != nil {
			parent.AppendChild(c)
		}
	}
}

// removeChildren detaches every child of n.
func removeChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
	}
}

// getAttr returns the value of attribute key, or "".
func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// setAttr sets or replaces attribute key. An empty value is not written.
func setAttr(n *html.Node, key, val string) {
	if val == "" {
		return
	}
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// addClass appends class names to the class attribute.
func addClass(n *html.Node, names ...string) {
	var parts []string
	if cur := getAttr(n, "class"); cur != "" {
		parts = append(parts, cur)
	}
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			parts = append(parts, name)
		}
	}
	setAttr(n, "class", strings.Join(parts, " "))
}

// parseStyle reads an inline style attribute back into a map.
func parseStyle(s string) model.CSS {
	css := model.CSS{}
	for _, decl := range strings.Split(s, ";") {
		k, v, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		if k != "" {
			css[k] = strings.TrimSpace(v)
		}
	}
	return css
}

// inlineStyle serializes css as an inline style, keys sorted.
func inlineStyle(css model.CSS) string {
	keys := sortedKeys(css)
	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(k)
		sb.WriteString(": ")
		sb.WriteString(css[k])
		sb.WriteByte(';')
	}
	return sb.String()
}

// setStyle merges css into the style attribute of n. Keys of css win.
func setStyle(n *html.Node, css model.CSS) {
	if len(css) == 0 {
		return
	}
	merged := parseStyle(getAttr(n, "style"))
	for k, v := range css {
		if v != "" {
			merged[k] = v
		}
	}
	if len(merged) > 0 {
		setAttr(n, "style", inlineStyle(merged))
	}
}

func sortedKeys(css model.CSS) []string {
	keys := make([]string, 0, len(css))
	for k := range css {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// findElement returns the first element named tagName below n, n included.
func findElement(n *html.Node, tagName string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tagName {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tagName); found != nil {
			return found
		}
	}
	return nil
}

// closest returns the nearest ancestor of n named tagName.
func closest(n *html.Node, tagName string) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.Data == tagName {
			return p
		}
	}
	return nil
}

// getTextContent returns the concatenated text below n.
func getTextContent(n *html.Node) string {
	var sb strings.Builder
	getTextContentRecursive(n, &sb)
	return sb.String()
}

func getTextContentRecursive(n *html.Node, sb *strings.Builder) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		getTextContentRecursive(c, sb)
	}
}
