package docx

import (
	"github.com/tsawler/docxhtml/model"
	"github.com/tsawler/docxhtml/units"
	"github.com/tsawler/docxhtml/xmltree"
)

// Vertical merge states of a table cell.
const (
	MergeRestart  = "restart"
	MergeContinue = "continue"
)

// parseTable parses a w:tbl element.
func (p *Parser) parseTable(el *xmltree.Element) model.NodeID {
	id := p.add(model.Node{Kind: model.KindTable, Table: &model.TableProperties{}})

	for _, c := range el.Elements() {
		switch c.Local() {
		case "tr":
			row := p.parseTableRow(c)
			p.tree.Append(id, row)
		case "tblGrid":
			p.node(id).Table.Columns = parseTableColumns(c)
		case "tblPr":
			p.parseTableProperties(c, id)
		}
	}

	return id
}

func parseTableColumns(el *xmltree.Element) []model.TableColumn {
	var cols []model.TableColumn
	for _, c := range el.Elements("gridCol") {
		cols = append(cols, model.TableColumn{Width: c.LengthAttr("w", units.Dxa)})
	}
	return cols
}

func (p *Parser) parseTableProperties(el *xmltree.Element, id model.NodeID) {
	table := p.node(id).Table
	table.CellStyle = model.CSS{}
	style := model.CSS{}
	var styleName, className string
	var floating *xmltree.Element

	p.parseProperties(el, style, table.CellStyle, func(c *xmltree.Element) bool {
		switch c.Local() {
		case "tblStyle":
			styleName = c.Attr("val")
		case "tblLook":
			className = classNameOfTblLook(c)
		case "tblpPr":
			floating = c
		case "tblStyleColBandSize":
			table.ColBandSize = c.IntAttr("val", 0)
		case "tblStyleRowBandSize":
			table.RowBandSize = c.IntAttr("val", 0)
		default:
			return false
		}
		return true
	})

	if floating != nil {
		parseTablePosition(floating, style)
	}

	switch style["text-align"] {
	case "center":
		delete(style, "text-align")
		style["margin-left"] = "auto"
		style["margin-right"] = "auto"
	case "right":
		delete(style, "text-align")
		style["margin-left"] = "auto"
	}

	n := p.node(id)
	n.Style = style
	n.StyleName = styleName
	n.ClassName = className
}

// parseTablePosition floats a table left and widens its margins by the
// distance kept from surrounding text.
func parseTablePosition(el *xmltree.Element, style model.CSS) {
	style["float"] = "left"
	for _, side := range []struct{ css, attr string }{
		{"margin-bottom", "bottomFromText"},
		{"margin-left", "leftFromText"},
		{"margin-right", "rightFromText"},
		{"margin-top", "topFromText"},
	} {
		if v := units.AddSize(style[side.css], el.LengthAttr(side.attr, units.Dxa)); v != "" {
			style[side.css] = v
		}
	}
}

func (p *Parser) parseTableRow(el *xmltree.Element) model.NodeID {
	id := p.add(model.Node{Kind: model.KindRow})

	for _, c := range el.Elements() {
		switch c.Local() {
		case "tc":
			cell := p.parseTableCell(c)
			p.tree.Append(id, cell)
		case "trPr":
			p.parseTableRowProperties(c, id)
		}
	}

	return id
}

func (p *Parser) parseTableRowProperties(el *xmltree.Element, id model.NodeID) {
	var className string
	var isHeader bool

	style := p.parseProperties(el, nil, nil, func(c *xmltree.Element) bool {
		switch c.Local() {
		case "cnfStyle":
			className = classNameOfCnfStyle(c)
		case "tblHeader":
			isHeader = c.OnOff()
		default:
			return false
		}
		return true
	})

	n := p.node(id)
	n.Style = style
	n.ClassName = className
	n.IsHeader = isHeader
}

func (p *Parser) parseTableCell(el *xmltree.Element) model.NodeID {
	id := p.add(model.Node{Kind: model.KindCell})

	for _, c := range el.Elements() {
		switch c.Local() {
		case "tbl":
			nested := p.parseTable(c)
			p.tree.Append(id, nested)
		case "p":
			para := p.parseParagraph(c)
			p.tree.Append(id, para)
		case "sdt":
			p.tree.Append(id, p.parseBodyElements(c.Element("sdtContent"))...)
		case "tcPr":
			p.parseTableCellProperties(c, id)
		}
	}

	return id
}

func (p *Parser) parseTableCellProperties(el *xmltree.Element, id model.NodeID) {
	var className, merge string
	var span int

	style := p.parseProperties(el, nil, nil, func(c *xmltree.Element) bool {
		switch c.Local() {
		case "gridSpan":
			span = c.IntAttr("val", 0)
		case "vMerge":
			merge = c.Attr("val")
			if merge == "" {
				merge = MergeContinue
			}
		case "cnfStyle":
			className = classNameOfCnfStyle(c)
		default:
			return false
		}
		return true
	})

	n := p.node(id)
	n.Style = style
	n.ClassName = className
	n.Span = span
	n.VerticalMerge = merge
}
