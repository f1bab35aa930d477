package docx

import (
	"github.com/tsawler/docxhtml/model"
	"github.com/tsawler/docxhtml/xmltree"
)

// softHyphen is rendered as an ordinary text character.
const softHyphen = "\u00ad"

// parseRun parses a w:r element, or an m:r inside math.
func (p *Parser) parseRun(el *xmltree.Element) model.NodeID {
	id := p.add(model.Node{Kind: model.KindRun})
	var children []model.NodeID

	for _, c := range el.Elements() {
		c = resolveAlternateContent(c)
		if c == nil {
			continue
		}

		switch c.Local() {
		case "t":
			children = append(children, p.add(model.Node{Kind: model.KindText, Text: c.TextContent()}))

		case "delText":
			children = append(children, p.add(model.Node{Kind: model.KindDeletedText, Text: c.TextContent()}))

		case "fldSimple":
			children = append(children, p.add(model.Node{
				Kind:  model.KindSimpleField,
				Text:  c.Attr("instr"),
				Lock:  c.BoolAttr("lock", false),
				Dirty: c.BoolAttr("dirty", false),
			}))

		case "instrText":
			p.node(id).FieldRun = true
			children = append(children, p.add(model.Node{Kind: model.KindInstruction, Text: c.TextContent()}))

		case "fldChar":
			p.node(id).FieldRun = true
			children = append(children, p.add(model.Node{
				Kind:  model.KindComplexField,
				Type:  c.Attr("fldCharType"),
				Lock:  c.BoolAttr("lock", false),
				Dirty: c.BoolAttr("dirty", false),
			}))

		case "noBreakHyphen":
			children = append(children, p.add(model.Node{Kind: model.KindNoBreakHyphen}))

		case "softHyphen":
			children = append(children, p.add(model.Node{Kind: model.KindText, Text: softHyphen}))

		case "br":
			typ := c.Attr("type")
			if typ == "" {
				typ = BreakTextWrapping
			}
			children = append(children, p.add(model.Node{Kind: model.KindBreak, Type: typ}))

		case "cr":
			children = append(children, p.add(model.Node{Kind: model.KindBreak, Type: BreakTextWrapping}))

		case "lastRenderedPageBreak":
			children = append(children, p.add(model.Node{Kind: model.KindBreak, Type: BreakLastRenderedPage}))

		case "sym":
			children = append(children, p.add(model.Node{
				Kind: model.KindSymbol,
				Font: c.Attr("font"),
				Char: c.Attr("char"),
			}))

		case "tab":
			children = append(children, p.add(model.Node{Kind: model.KindTab}))

		case "footnoteReference":
			children = append(children, p.add(model.Node{Kind: model.KindFootnoteReference, ID: c.Attr("id")}))

		case "endnoteReference":
			children = append(children, p.add(model.Node{Kind: model.KindEndnoteReference, ID: c.Attr("id")}))

		case "drawing":
			// A drawing replaces whatever the run held before it.
			if d := p.parseDrawing(c); d != model.NoNode {
				children = []model.NodeID{d}
			}

		case "pict":
			children = append(children, p.parseVmlPicture(c))

		case "rPr":
			p.parseRunProperties(c, id)
		}
	}

	p.tree.Append(id, children...)
	return id
}

func (p *Parser) parseRunProperties(el *xmltree.Element, id model.NodeID) {
	var styleName, vertAlign string

	style := p.parseProperties(el, nil, nil, func(c *xmltree.Element) bool {
		switch c.Local() {
		case "rStyle":
			styleName = c.Attr("val")
		case "vertAlign":
			vertAlign = valueOfVertAlign(c, true)
		default:
			return false
		}
		return true
	})

	n := p.node(id)
	n.Style = style
	n.StyleName = styleName
	n.VertAlign = vertAlign
}
