package docx

import (
	"strings"

	"github.com/tsawler/docxhtml/model"
	"github.com/tsawler/docxhtml/units"
	"github.com/tsawler/docxhtml/xmltree"
)

// parseVmlPicture parses w:pict. Shapes that have no SVG counterpart are
// skipped.
func (p *Parser) parseVmlPicture(el *xmltree.Element) model.NodeID {
	var children []model.NodeID
	for _, c := range el.Elements() {
		if child := p.parseVmlElement(c); child != model.NoNode {
			children = append(children, child)
		}
	}

	id := p.add(model.Node{Kind: model.KindVmlPicture})
	p.tree.Append(id, children...)
	return id
}

// parseVmlElement maps a VML shape onto an SVG element description. The SVG
// tag goes to Name and its attributes to Attrs.
func (p *Parser) parseVmlElement(el *xmltree.Element) model.NodeID {
	n := model.Node{Kind: model.KindVmlElement}

	switch el.Local() {
	case "rect":
		n.Name = "rect"
		n.Attrs = []model.Attr{{Name: "width", Value: "100%"}, {Name: "height", Value: "100%"}}
	case "oval":
		n.Name = "ellipse"
		n.Attrs = []model.Attr{
			{Name: "cx", Value: "50%"}, {Name: "cy", Value: "50%"},
			{Name: "rx", Value: "50%"}, {Name: "ry", Value: "50%"},
		}
	case "line":
		n.Name = "line"
	case "shape":
		n.Name = "g"
	default:
		return model.NoNode
	}

	for _, a := range el.Attrs {
		switch a.Local {
		case "style":
			n.CSSText = a.Value
		case "fillcolor":
			n.Attrs = setAttr(n.Attrs, "fill", a.Value)
		case "from":
			x, y := parsePoint(a.Value)
			n.Attrs = setAttr(setAttr(n.Attrs, "x1", x), "y1", y)
		case "to":
			x, y := parsePoint(a.Value)
			n.Attrs = setAttr(setAttr(n.Attrs, "x2", x), "y2", y)
		}
	}

	var children []model.NodeID
	for _, c := range el.Elements() {
		switch c.Local() {
		case "stroke":
			n.Attrs = setAttr(n.Attrs, "stroke", c.Attr("color"))
			weight := c.LengthAttr("weight", units.Emu)
			if weight == "" {
				weight = "1px"
			}
			n.Attrs = setAttr(n.Attrs, "stroke-width", weight)
		case "fill":
			// Gradient and pattern fills are not mapped.
		case "imagedata":
			n.Name = "image"
			n.Attrs = setAttr(setAttr(n.Attrs, "width", "100%"), "height", "100%")
			n.ID = c.Attr("id")
			n.Title = c.Attr("title")
		default:
			if child := p.parseVmlElement(c); child != model.NoNode {
				children = append(children, child)
			}
		}
	}

	id := p.add(n)
	p.tree.Append(id, children...)
	return id
}

func parsePoint(v string) (x, y string) {
	x, y, _ = strings.Cut(v, ",")
	return x, y
}

// setAttr replaces the value of name or appends it, keeping first-seen order.
func setAttr(attrs []model.Attr, name, value string) []model.Attr {
	for i := range attrs {
		if attrs[i].Name == name {
			attrs[i].Value = value
			return attrs
		}
	}
	return append(attrs, model.Attr{Name: name, Value: value})
}
