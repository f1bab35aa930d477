package docx

import (
	"regexp"
	"strings"

	"github.com/tsawler/docxhtml/units"
	"github.com/tsawler/docxhtml/xmltree"
)

// Colors substituted for "auto".
const (
	autoShading     = "inherit"
	autoColor       = "black"
	autoBorderColor = "black"
	autoHighlight   = "transparent"
)

var knownColors = map[string]bool{
	"black": true, "blue": true, "cyan": true, "darkBlue": true, "darkCyan": true,
	"darkGray": true, "darkGreen": true, "darkMagenta": true, "darkRed": true,
	"darkYellow": true, "green": true, "lightGray": true, "magenta": true,
	"none": true, "red": true, "white": true, "yellow": true,
}

// colorAttr decodes a color attribute. Hex values gain a leading #, named
// highlight colors pass through and theme colors become CSS variables.
func colorAttr(el *xmltree.Element, attr, def, auto string) string {
	if v := el.Attr(attr); v != "" {
		switch {
		case v == "auto":
			return auto
		case knownColors[v]:
			return v
		}
		return "#" + v
	}

	if theme := el.Attr("themeColor"); theme != "" {
		return "var(--docx-" + theme + "-color)"
	}
	return def
}

// themeFont returns a CSS variable for a theme font attribute.
func themeFont(el *xmltree.Element, attr string) string {
	if v := el.Attr(attr); v != "" {
		return "var(--docx-" + v + "-font)"
	}
	return ""
}

// valueOfSize reads a width measured in twips or fiftieths of a percent.
func valueOfSize(el *xmltree.Element, attr string) string {
	u := units.Dxa
	switch el.Attr("type") {
	case "pct":
		u = units.Percent
	case "auto":
		return "auto"
	}
	return el.LengthAttr(attr, u)
}

func valueOfMargin(el *xmltree.Element) string {
	return el.LengthAttr("w", units.Dxa)
}

func valueOfBorder(el *xmltree.Element) string {
	if el.Attr("val") == "nil" || el.Attr("val") == "none" {
		return "none"
	}

	color := colorAttr(el, "color", autoBorderColor, autoBorderColor)
	size := el.LengthAttr("sz", units.Border)
	return strings.TrimSpace(size + " solid " + color)
}

func valueOfTblLayout(el *xmltree.Element) string {
	if el.Attr("val") == "fixed" {
		return "fixed"
	}
	return "auto"
}

var cnfClasses = []string{
	"first-row", "last-row", "first-col", "last-col",
	"odd-col", "even-col", "odd-row", "even-row",
	"ne-cell", "nw-cell", "se-cell", "sw-cell",
}

// classNameOfCnfStyle maps a conditional formatting bitmask such as
// "100000000000" to table class names.
func classNameOfCnfStyle(el *xmltree.Element) string {
	val := el.Attr("val")
	var classes []string
	for i, c := range cnfClasses {
		if i < len(val) && val[i] == '1' {
			classes = append(classes, c)
		}
	}
	return strings.Join(classes, " ")
}

func valueOfJc(el *xmltree.Element) string {
	switch v := el.Attr("val"); v {
	case "start", "left":
		return "left"
	case "center":
		return "center"
	case "end", "right":
		return "right"
	case "both":
		return "justify"
	default:
		return v
	}
}

// valueOfVertAlign returns the CSS vertical-align value or, with asTag, the
// wrapper tag name (empty when none applies).
func valueOfVertAlign(el *xmltree.Element, asTag bool) string {
	switch v := el.Attr("val"); v {
	case "subscript":
		return "sub"
	case "superscript":
		if asTag {
			return "sup"
		}
		return "super"
	default:
		if asTag {
			return ""
		}
		return v
	}
}

func valueOfTextAlignment(el *xmltree.Element) string {
	switch v := el.Attr("val"); v {
	case "auto", "baseline":
		return "baseline"
	case "top":
		return "top"
	case "center":
		return "middle"
	case "bottom":
		return "bottom"
	default:
		return v
	}
}

// classNameOfTblLook decodes the table look flags, given either as
// attributes or as the legacy hex bitmask.
func classNameOfTblLook(el *xmltree.Element) string {
	val := el.HexAttr("val", 0)
	var classes []string

	add := func(attr string, mask int, class string) {
		if el.BoolAttr(attr, false) || val&mask != 0 {
			classes = append(classes, class)
		}
	}
	add("firstRow", 0x0020, "first-row")
	add("lastRow", 0x0040, "last-row")
	add("firstColumn", 0x0080, "first-col")
	add("lastColumn", 0x0100, "last-col")
	add("noHBand", 0x0200, "no-hband")
	add("noVBand", 0x0400, "no-vband")

	return strings.Join(classes, " ")
}

var (
	classNameSeparators = regexp.MustCompile(`[ .]+`)
	classNameAmpersands = regexp.MustCompile(`&+`)
)

// EscapeClassName turns a style id into a CSS class fragment.
func EscapeClassName(name string) string {
	name = classNameSeparators.ReplaceAllString(name, "-")
	name = classNameAmpersands.ReplaceAllString(name, "and")
	return strings.ToLower(name)
}
