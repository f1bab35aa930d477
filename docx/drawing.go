package docx

import (
	"strings"

	"github.com/tsawler/docxhtml/model"
	"github.com/tsawler/docxhtml/units"
	"github.com/tsawler/docxhtml/xmltree"
)

// alternateContent picks the branch of an mc:AlternateContent element to
// use: the first Choice whose required namespace is supported, otherwise
// the first child of Fallback. It returns nil when neither applies.
func alternateContent(el *xmltree.Element) *xmltree.Element {
	if choice := el.Element("Choice"); choice != nil {
		for _, prefix := range strings.Fields(choice.Attr("Requires")) {
			if uri, ok := el.LookupNamespace(prefix); ok && supportedNamespaces[uri] {
				return choice.FirstElement()
			}
		}
	}
	return el.Element("Fallback").FirstElement()
}

// resolveAlternateContent returns el itself unless it is an
// mc:AlternateContent wrapper.
func resolveAlternateContent(el *xmltree.Element) *xmltree.Element {
	if el.Local() != "AlternateContent" {
		return el
	}
	return alternateContent(el)
}

// anchorPosition is the resolved positionH or positionV of a floating
// drawing.
type anchorPosition struct {
	relative string
	align    string
	offset   string
}

// parseDrawing parses w:drawing. Only the first inline or anchor wrapper
// is used.
func (p *Parser) parseDrawing(el *xmltree.Element) model.NodeID {
	for _, c := range el.Elements() {
		switch c.Local() {
		case "inline", "anchor":
			return p.parseDrawingWrapper(c)
		}
	}
	return model.NoNode
}

func (p *Parser) parseDrawingWrapper(el *xmltree.Element) model.NodeID {
	style := model.CSS{}
	var children []model.NodeID
	var title string

	isAnchor := el.Local() == "anchor"
	simplePos := el.BoolAttr("simplePos", false)
	posX := anchorPosition{relative: "page", align: "left", offset: "0"}
	posY := anchorPosition{relative: "page", align: "top", offset: "0"}
	var wrapType string

	for _, c := range el.Elements() {
		switch c.Local() {
		case "simplePos":
			if simplePos {
				posX.offset = c.LengthAttr("x", units.Emu)
				posY.offset = c.LengthAttr("y", units.Emu)
			}

		case "extent":
			style["width"] = c.LengthAttr("cx", units.Emu)
			style["height"] = c.LengthAttr("cy", units.Emu)

		case "positionH", "positionV":
			if simplePos {
				break
			}
			pos := &posX
			if c.Local() == "positionV" {
				pos = &posY
			}
			if rel, ok := c.AttrOK("relativeFrom"); ok {
				pos.relative = rel
			}
			if align := c.Element("align"); align != nil {
				pos.align = strings.TrimSpace(align.TextContent())
			}
			if off := c.Element("posOffset"); off != nil {
				pos.offset = units.Convert(strings.TrimSpace(off.TextContent()), units.Emu)
			}

		case "wrapTopAndBottom", "wrapNone":
			wrapType = c.Local()

		case "docPr":
			title = c.Attr("descr")

		case "graphic":
			if g := p.parseGraphic(c); g != model.NoNode {
				children = append(children, g)
			}
		}
	}

	switch {
	case wrapType == "wrapTopAndBottom":
		style["display"] = "block"
		if posX.align != "" {
			style["text-align"] = posX.align
			style["width"] = "100%"
		}
	case wrapType == "wrapNone":
		style["display"] = "block"
		style["position"] = "relative"
		style["width"] = "0px"
		style["height"] = "0px"
		if posX.offset != "" {
			style["left"] = posX.offset
		}
		if posY.offset != "" {
			style["top"] = posY.offset
		}
	case isAnchor && (posX.align == "left" || posX.align == "right"):
		style["float"] = posX.align
	}

	if title != "" {
		for _, c := range children {
			if n := p.node(c); n.Kind == model.KindImage {
				n.Title = title
			}
		}
	}

	id := p.add(model.Node{Kind: model.KindDrawing, Style: style})
	p.tree.Append(id, children...)
	return id
}

func (p *Parser) parseGraphic(el *xmltree.Element) model.NodeID {
	for _, c := range el.Element("graphicData").Elements() {
		if c.Local() == "pic" {
			return p.parsePicture(c)
		}
	}
	return model.NoNode
}

func (p *Parser) parsePicture(el *xmltree.Element) model.NodeID {
	style := model.CSS{"position": "relative"}
	blip := el.Element("blipFill").Element("blip")

	for _, c := range el.Element("spPr").Element("xfrm").Elements() {
		switch c.Local() {
		case "ext":
			style["width"] = c.LengthAttr("cx", units.Emu)
			style["height"] = c.LengthAttr("cy", units.Emu)
		case "off":
			style["left"] = c.LengthAttr("x", units.Emu)
			style["top"] = c.LengthAttr("y", units.Emu)
		}
	}

	return p.add(model.Node{
		Kind:  model.KindImage,
		ID:    blip.Attr("embed"),
		Title: el.Element("nvPicPr").ElementAttr("cNvPr", "descr"),
		Style: style,
	})
}
