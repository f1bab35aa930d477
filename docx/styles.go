package docx

import (
	"strings"

	"github.com/tsawler/docxhtml/model"
	"github.com/tsawler/docxhtml/xmltree"
)

// Style targets, as HTML element names.
const (
	TargetParagraph = "p"
	TargetRun       = "span"
	TargetTable     = "table"
	TargetCell      = "td"
)

// SubStyle is one CSS rule contributed by a style. Target is the element
// the rule applies to; Mod is an extra selector modifier used by
// conditional table formatting.
type SubStyle struct {
	Target string
	Mod    string
	Values model.CSS
}

// Style is an entry of word/styles.xml. The docDefaults block is
// represented as a Style with an empty ID.
type Style struct {
	ID        string
	Name      string
	Target    string
	BasedOn   string
	Linked    string
	Next      string
	Aliases   []string
	IsDefault bool

	ParagraphProps *model.ParagraphProperties
	RunProps       *model.RunProperties
	Styles         []SubStyle

	// CSSName is the class name assigned by the resolver.
	CSSName string
}

// styleBookkeeping are style children with no rendition.
var styleBookkeeping = map[string]bool{
	"rsid": true, "qFormat": true, "hidden": true, "semiHidden": true,
	"unhideWhenUsed": true, "autoRedefine": true, "uiPriority": true,
	"locked": true, "personal": true, "personalCompose": true, "personalReply": true,
}

// ParseStyles parses the root of a styles part.
func (p *Parser) ParseStyles(root *xmltree.Element) []*Style {
	var styles []*Style
	for _, el := range root.Elements() {
		switch el.Local() {
		case "style":
			styles = append(styles, p.parseStyle(el))
		case "docDefaults":
			styles = append(styles, p.parseDefaultStyles(el))
		}
	}
	return styles
}

func (p *Parser) parseDefaultStyles(el *xmltree.Element) *Style {
	s := &Style{}
	for _, c := range el.Elements() {
		switch c.Local() {
		case "rPrDefault":
			if rPr := c.Element("rPr"); rPr != nil {
				s.Styles = append(s.Styles, SubStyle{Target: TargetRun, Values: p.parseProperties(rPr, nil, nil, nil)})
			}
		case "pPrDefault":
			if pPr := c.Element("pPr"); pPr != nil {
				values, _ := p.parseParagraphStyle(pPr)
				s.Styles = append(s.Styles, SubStyle{Target: TargetParagraph, Values: values})
			}
		}
	}
	return s
}

func (p *Parser) parseStyle(el *xmltree.Element) *Style {
	s := &Style{
		ID:        el.Attr("styleId"),
		IsDefault: el.BoolAttr("default", false),
	}

	switch el.Attr("type") {
	case "paragraph", "numbering":
		s.Target = TargetParagraph
	case "table":
		s.Target = TargetTable
	case "character":
		s.Target = TargetRun
	}

	for _, c := range el.Elements() {
		switch c.Local() {
		case "basedOn":
			s.BasedOn = c.Attr("val")
		case "name":
			s.Name = c.Attr("val")
		case "link":
			s.Linked = c.Attr("val")
		case "next":
			s.Next = c.Attr("val")
		case "aliases":
			s.Aliases = strings.Split(c.Attr("val"), ",")

		case "pPr":
			values, props := p.parseParagraphStyle(c)
			s.Styles = append(s.Styles, SubStyle{Target: TargetParagraph, Values: values})
			s.ParagraphProps = props

		case "rPr":
			s.Styles = append(s.Styles, SubStyle{Target: TargetRun, Values: p.parseProperties(c, nil, nil, nil)})
			s.RunProps = parseRunProperties(c)

		case "tblPr", "tcPr":
			s.Styles = append(s.Styles, SubStyle{Target: TargetCell, Values: p.parseProperties(c, nil, nil, nil)})

		case "tblStylePr":
			s.Styles = append(s.Styles, p.parseTableStyle(c)...)

		default:
			if !styleBookkeeping[c.Local()] {
				p.unknown("style." + c.Local())
			}
		}
	}

	return s
}

// tableStyleSelectors maps a tblStylePr type to its cell selector and
// table modifier.
var tableStyleSelectors = map[string][2]string{
	"firstRow":  {"tr.first-row td", ".first-row"},
	"lastRow":   {"tr.last-row td", ".last-row"},
	"firstCol":  {"td.first-col", ".first-col"},
	"lastCol":   {"td.last-col", ".last-col"},
	"band1Vert": {"td.odd-col", ":not(.no-vband)"},
	"band2Vert": {"td.even-col", ":not(.no-vband)"},
	"band1Horz": {"tr.odd-row", ":not(.no-hband)"},
	"band2Horz": {"tr.even-row", ":not(.no-hband)"},
}

// parseTableStyle parses conditional table formatting. Unsupported
// conditions such as the corner cells yield nothing.
func (p *Parser) parseTableStyle(el *xmltree.Element) []SubStyle {
	sel, ok := tableStyleSelectors[el.Attr("type")]
	if !ok {
		return nil
	}
	selector, mod := sel[0], sel[1]

	var out []SubStyle
	for _, c := range el.Elements() {
		switch c.Local() {
		case "pPr":
			out = append(out, SubStyle{Target: selector + " p", Mod: mod, Values: p.parseProperties(c, nil, nil, nil)})
		case "rPr":
			out = append(out, SubStyle{Target: selector + " span", Mod: mod, Values: p.parseProperties(c, nil, nil, nil)})
		case "tblPr", "tcPr":
			out = append(out, SubStyle{Target: selector, Mod: mod, Values: p.parseProperties(c, nil, nil, nil)})
		}
	}
	return out
}
