package docx

import (
	"github.com/tsawler/docxhtml/model"
	"github.com/tsawler/docxhtml/units"
	"github.com/tsawler/docxhtml/xmltree"
)

// parseSectionProperties decodes a w:sectPr element.
func parseSectionProperties(el *xmltree.Element) *model.SectionProperties {
	s := &model.SectionProperties{}

	for _, c := range el.Elements() {
		switch c.Local() {
		case "pgSz":
			s.PageSize = &model.PageSize{
				Width:       c.LengthAttr("w", units.Dxa),
				Height:      c.LengthAttr("h", units.Dxa),
				Orientation: c.Attr("orient"),
			}

		case "type":
			s.Type = c.Attr("val")

		case "pgMar":
			s.PageMargins = &model.PageMargins{
				Left:   c.LengthAttr("left", units.Dxa),
				Right:  c.LengthAttr("right", units.Dxa),
				Top:    c.LengthAttr("top", units.Dxa),
				Bottom: c.LengthAttr("bottom", units.Dxa),
				Header: c.LengthAttr("header", units.Dxa),
				Footer: c.LengthAttr("footer", units.Dxa),
				Gutter: c.LengthAttr("gutter", units.Dxa),
			}

		case "cols":
			s.Columns = parseColumns(c)

		case "headerReference":
			s.HeaderRefs = append(s.HeaderRefs, parseHeaderFooterRef(c))

		case "footerReference":
			s.FooterRefs = append(s.FooterRefs, parseHeaderFooterRef(c))

		case "titlePg":
			s.TitlePage = c.OnOff()

		case "pgBorders":
			s.PageBorders = parseBorders(c)

		case "pgNumType":
			s.PageNumber = &model.PageNumber{
				ChapSep:   c.Attr("chapSep"),
				ChapStyle: c.Attr("chapStyle"),
				Format:    c.Attr("fmt"),
				Start:     c.IntAttr("start", 0),
			}
		}
	}

	return s
}

func parseColumns(el *xmltree.Element) *model.Columns {
	cols := &model.Columns{
		NumberOfColumns: el.IntAttr("num", 0),
		Space:           el.LengthAttr("space", units.Dxa),
		Separator:       el.BoolAttr("sep", false),
		EqualWidth:      el.BoolAttr("equalWidth", true),
	}
	for _, c := range el.Elements("col") {
		cols.Columns = append(cols.Columns, model.Column{
			Width: c.LengthAttr("w", units.Dxa),
			Space: c.LengthAttr("space", units.Dxa),
		})
	}
	return cols
}

func parseHeaderFooterRef(el *xmltree.Element) model.HeaderFooterRef {
	return model.HeaderFooterRef{
		ID:   el.Attr("id"),
		Type: el.Attr("type"),
	}
}

func parseBorder(el *xmltree.Element) *model.Border {
	return &model.Border{
		Type:   el.Attr("val"),
		Color:  el.Attr("color"),
		Size:   el.LengthAttr("sz", units.Border),
		Offset: el.LengthAttr("space", units.Point),
		Frame:  el.BoolAttr("frame", false),
		Shadow: el.BoolAttr("shadow", false),
	}
}

func parseBorders(el *xmltree.Element) *model.Borders {
	b := &model.Borders{}
	for _, c := range el.Elements() {
		switch c.Local() {
		case "left":
			b.Left = parseBorder(c)
		case "top":
			b.Top = parseBorder(c)
		case "right":
			b.Right = parseBorder(c)
		case "bottom":
			b.Bottom = parseBorder(c)
		}
	}
	return b
}
