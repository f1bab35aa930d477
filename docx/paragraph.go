package docx

import (
	"github.com/tsawler/docxhtml/model"
	"github.com/tsawler/docxhtml/units"
	"github.com/tsawler/docxhtml/xmltree"
)

// parseParagraphProperty records the pPr children that are not plain CSS.
// It returns true when el is fully consumed; spacing and textAlignment are
// recorded and still passed on to the CSS decoder.
func parseParagraphProperty(el *xmltree.Element, props *model.ParagraphProperties) bool {
	if el.Name.Space != "" && el.Name.Space != nsW {
		return false
	}

	switch el.Local() {
	case "color":
		props.Color = el.Attr("val")
	case "sz":
		props.FontSize = el.LengthAttr("val", units.FontSize)
	case "tabs":
		props.Tabs = parseTabs(el)
	case "sectPr":
		props.Section = parseSectionProperties(el)
	case "numPr":
		props.Numbering = parseNumberingRef(el)
	case "spacing":
		props.LineSpacing = parseLineSpacing(el)
		return false
	case "textAlignment":
		props.TextAlignment = el.Attr("val")
		return false
	case "keepNext":
		props.KeepNext = toggle(el)
	case "keepLines":
		props.KeepLines = toggle(el)
	case "pageBreakBefore":
		props.PageBreakBefore = toggle(el)
	case "outlineLvl":
		level := el.IntAttr("val", 0)
		props.OutlineLevel = &level
	case "pStyle":
		props.StyleName = el.Attr("val")
	case "rPr":
		props.RunProps = parseRunProperties(el)
	default:
		return false
	}
	return true
}

// parseParagraphStyle decodes a pPr found outside the body, in a style or
// a numbering level, into its CSS and its structured properties.
func (p *Parser) parseParagraphStyle(el *xmltree.Element) (model.CSS, *model.ParagraphProperties) {
	props := &model.ParagraphProperties{}
	css := p.parseProperties(el, nil, nil, func(c *xmltree.Element) bool {
		return parseParagraphProperty(c, props)
	})
	return css, props
}

// parseRunProperties decodes the rPr values kept outside CSS.
func parseRunProperties(el *xmltree.Element) *model.RunProperties {
	props := &model.RunProperties{}
	for _, c := range el.Elements() {
		switch c.Local() {
		case "color":
			props.Color = c.Attr("val")
		case "sz":
			props.FontSize = c.LengthAttr("val", units.FontSize)
		}
	}
	return props
}

func parseTabs(el *xmltree.Element) []model.Tab {
	var tabs []model.Tab
	for _, t := range el.Elements("tab") {
		tabs = append(tabs, model.Tab{
			Position: t.LengthAttr("pos", units.Dxa),
			Leader:   t.Attr("leader"),
			Style:    t.Attr("val"),
		})
	}
	return tabs
}

func parseNumberingRef(el *xmltree.Element) *model.NumberingRef {
	ref := &model.NumberingRef{}
	for _, c := range el.Elements() {
		switch c.Local() {
		case "numId":
			ref.ID = c.Attr("val")
		case "ilvl":
			ref.Level = c.IntAttr("val", 0)
		}
	}
	return ref
}

func parseLineSpacing(el *xmltree.Element) *model.LineSpacing {
	return &model.LineSpacing{
		Before:   el.LengthAttr("before", units.Dxa),
		After:    el.LengthAttr("after", units.Dxa),
		Line:     el.IntAttr("line", 0),
		LineRule: el.Attr("lineRule"),
	}
}

// toggle reads an on/off property, keeping an explicit "0" distinct from an
// absent element.
func toggle(el *xmltree.Element) *bool {
	v := el.OnOff()
	return &v
}
