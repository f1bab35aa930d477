package docx

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tsawler/docxhtml/model"
	"github.com/tsawler/docxhtml/units"
	"github.com/tsawler/docxhtml/xmltree"
)

// propertyHandler lets a caller claim a property element before the shared
// decoder sees it. It returns true when the element was handled.
type propertyHandler func(el *xmltree.Element) bool

// ignoredProperties are recognised but have no CSS rendition.
var ignoredProperties = map[string]bool{
	"bCs": true, "iCs": true, "szCs": true, "tabs": true, "outlineLvl": true,
	"contextualSpacing": true, "tblStyleColBandSize": true, "tblStyleRowBandSize": true,
	"webHidden": true, "pageBreakBefore": true, "suppressLineNumbers": true,
	"keepLines": true, "keepNext": true, "lang": true, "widowControl": true,
	"bidi": true, "rtl": true, "noProof": true, "kern": true, "noWrap": true,
	"vertAlign": true, "snapToGrid": true, "adjustRightInd": true,
	"autoSpaceDE": true, "autoSpaceDN": true, "suppressAutoHyphens": true,
}

// parseProperties decodes the formatting children of a pPr, rPr, tblPr,
// trPr or tcPr element into CSS declarations. Table-level borders and cell
// margins go to childStyle when it is non-nil. handler runs first for every
// child.
func (p *Parser) parseProperties(el *xmltree.Element, style, childStyle model.CSS, handler propertyHandler) model.CSS {
	if style == nil {
		style = model.CSS{}
	}
	if childStyle == nil {
		childStyle = style
	}

	for _, c := range el.Elements() {
		if handler != nil && handler(c) {
			continue
		}

		switch c.Local() {
		case "jc":
			style["text-align"] = valueOfJc(c)

		case "textAlignment":
			style["vertical-align"] = valueOfTextAlignment(c)

		case "color":
			style["color"] = colorAttr(c, "val", "", autoColor)

		case "sz":
			size := c.LengthAttr("val", units.FontSize)
			style["min-height"] = size
			style["font-size"] = size

		case "shd":
			style["background-color"] = colorAttr(c, "fill", "", autoShading)

		case "highlight":
			style["background-color"] = colorAttr(c, "val", "", autoHighlight)

		case "position":
			style["vertical-align"] = c.LengthAttr("val", units.FontSize)

		case "tcW":
			if p.opts.IgnoreWidth {
				break
			}
			style["width"] = valueOfSize(c, "w")

		case "tblW":
			style["width"] = valueOfSize(c, "w")

		case "trHeight":
			parseTrHeight(c, style)

		case "strike", "dstrike":
			style["text-decoration"] = onOff(c, "line-through", "none")

		case "b":
			style["font-weight"] = onOff(c, "bold", "normal")

		case "i":
			style["font-style"] = onOff(c, "italic", "normal")

		case "caps":
			style["text-transform"] = onOff(c, "uppercase", "none")

		case "smallCaps":
			style["font-variant"] = onOff(c, "small-caps", "normal")

		case "u":
			parseUnderline(c, style)

		case "ind", "tblInd":
			parseIndentation(c, style)

		case "rFonts":
			parseFont(c, style)

		case "tblBorders":
			parseBorderProperties(c, childStyle)

		case "tblCellSpacing":
			style["border-spacing"] = valueOfMargin(c)
			style["border-collapse"] = "separate"

		case "pBdr", "tcBorders":
			parseBorderProperties(c, style)

		case "bdr":
			style["border"] = valueOfBorder(c)

		case "vanish":
			if c.OnOff() {
				style["display"] = "none"
			}

		case "tblCellMar", "tcMar":
			parseMarginProperties(c, childStyle)

		case "tblLayout":
			style["table-layout"] = valueOfTblLayout(c)

		case "vAlign":
			style["vertical-align"] = valueOfTextAlignment(c)

		case "spacing":
			if el.Local() == "pPr" {
				parseSpacing(c, style)
			}

		case "wordWrap":
			if c.BoolAttr("val", false) {
				style["overflow-wrap"] = "break-word"
			}

		default:
			if !ignoredProperties[c.Local()] {
				p.unknown(fmt.Sprintf("%s.%s", el.Local(), c.Local()))
			}
		}
	}

	return style
}

func onOff(el *xmltree.Element, on, off string) string {
	if el.OnOff() {
		return on
	}
	return off
}

func parseTrHeight(el *xmltree.Element, style model.CSS) {
	// exact and atLeast rules both map to a fixed height.
	style["height"] = el.LengthAttr("val", units.Dxa)
}

func parseUnderline(el *xmltree.Element, style model.CSS) {
	val, ok := el.AttrOK("val")
	if !ok {
		return
	}

	switch val {
	case "dash", "dashDotDotHeavy", "dashDotHeavy", "dashedHeavy",
		"dashLong", "dashLongHeavy", "dotDash", "dotDotDash":
		style["text-decoration"] = "underline"
		style["text-decoration-style"] = "dashed"
	case "dotted", "dottedHeavy":
		style["text-decoration"] = "underline"
		style["text-decoration-style"] = "dotted"
	case "double":
		style["text-decoration"] = "underline"
		style["text-decoration-style"] = "double"
	case "single", "thick", "words":
		style["text-decoration"] = "underline"
	case "wave", "wavyDouble", "wavyHeavy":
		style["text-decoration"] = "underline"
		style["text-decoration-style"] = "wavy"
	case "none":
		style["text-decoration"] = "none"
	}

	if col := colorAttr(el, "color", "", autoColor); col != "" {
		style["text-decoration-color"] = col
	}
}

func parseIndentation(el *xmltree.Element, style model.CSS) {
	firstLine := el.LengthAttr("firstLine", units.Dxa)
	hanging := el.LengthAttr("hanging", units.Dxa)
	left := el.LengthAttr("left", units.Dxa)
	start := el.LengthAttr("start", units.Dxa)
	right := el.LengthAttr("right", units.Dxa)
	end := el.LengthAttr("end", units.Dxa)
	width := el.LengthAttr("w", units.Dxa)

	if firstLine != "" {
		style["text-indent"] = firstLine
	}
	if hanging != "" {
		style["text-indent"] = "-" + hanging
	}
	if left = firstNonEmpty(left, start, width); left != "" {
		style["margin-left"] = left
	}
	if right = firstNonEmpty(right, end); right != "" {
		style["margin-right"] = right
	}
}

func parseFont(el *xmltree.Element, style model.CSS) {
	var fonts []string
	if ascii := el.Attr("ascii"); ascii != "" {
		fonts = append(fonts, ascii)
	}
	if theme := themeFont(el, "asciiTheme"); theme != "" {
		fonts = append(fonts, theme)
	}
	if len(fonts) > 0 {
		style["font-family"] = strings.Join(fonts, ", ")
	}
}

func parseBorderProperties(el *xmltree.Element, out model.CSS) {
	for _, c := range el.Elements() {
		switch c.Local() {
		case "start", "left":
			out["border-left"] = valueOfBorder(c)
		case "end", "right":
			out["border-right"] = valueOfBorder(c)
		case "top":
			out["border-top"] = valueOfBorder(c)
		case "bottom":
			out["border-bottom"] = valueOfBorder(c)
		}
	}
}

func parseMarginProperties(el *xmltree.Element, out model.CSS) {
	for _, c := range el.Elements() {
		switch c.Local() {
		case "left", "start":
			out["padding-left"] = valueOfMargin(c)
		case "right", "end":
			out["padding-right"] = valueOfMargin(c)
		case "top":
			out["padding-top"] = valueOfMargin(c)
		case "bottom":
			out["padding-bottom"] = valueOfMargin(c)
		}
	}
}

// parseSpacing maps paragraph spacing. Line spacing has three modes: auto
// (a multiple of single spacing), atLeast (a floor added to the natural
// height) and exact.
func parseSpacing(el *xmltree.Element, style model.CSS) {
	if before := el.LengthAttr("before", units.Dxa); before != "" {
		style["margin-top"] = before
	}
	if after := el.LengthAttr("after", units.Dxa); after != "" {
		style["margin-bottom"] = after
	}

	lineAttr, ok := el.AttrOK("line")
	if !ok {
		return
	}
	line, err := strconv.Atoi(lineAttr)
	if err != nil {
		return
	}

	switch el.Attr("lineRule") {
	case "auto":
		style["line-height"] = fmt.Sprintf("%.2f", float64(line)/240)
	case "atLeast":
		style["line-height"] = fmt.Sprintf("calc(100%% + %spt)", trimFloat(float64(line)/20))
	default:
		h := trimFloat(float64(line)/20) + "pt"
		style["min-height"] = h
		style["line-height"] = h
	}
}

// trimFloat formats f without trailing zeros, like a JavaScript number.
func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
