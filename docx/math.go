package docx

import (
	"github.com/tsawler/docxhtml/model"
	"github.com/tsawler/docxhtml/xmltree"
)

var mathKinds = map[string]model.Kind{
	"oMath":     model.KindMath,
	"oMathPara": model.KindMathParagraph,
	"f":         model.KindFraction,
	"num":       model.KindNumerator,
	"den":       model.KindDenominator,
	"rad":       model.KindRadical,
	"deg":       model.KindDegree,
	"e":         model.KindBase,
	"sSup":      model.KindSuperscript,
	"sSub":      model.KindSubscript,
	"sup":       model.KindSuperArgument,
	"sub":       model.KindSubArgument,
	"d":         model.KindDelimiter,
	"nary":      model.KindNary,
}

// Math property keys stored in model.Node.MathProps.
const (
	MathChar       = "chr"
	MathHideDegree = "degHide"
	MathBeginChar  = "begChr"
	MathEndChar    = "endChr"
)

// parseMathElement parses an Office Math element and its descendants.
// Children outside the math table are dropped, except runs and the
// element's own property block.
func (p *Parser) parseMathElement(el *xmltree.Element) model.NodeID {
	propsTag := el.Local() + "Pr"
	id := p.add(model.Node{Kind: mathKinds[el.Local()]})

	for _, c := range el.Elements() {
		if _, ok := mathKinds[c.Local()]; ok {
			child := p.parseMathElement(c)
			p.tree.Append(id, child)
			continue
		}

		switch c.Local() {
		case "r":
			run := p.parseRun(c)
			p.tree.Append(id, run)
		case propsTag:
			p.node(id).MathProps = parseMathProperties(c)
		}
	}

	return id
}

func parseMathProperties(el *xmltree.Element) map[string]string {
	props := map[string]string{}
	for _, c := range el.Elements() {
		switch c.Local() {
		case MathChar, MathBeginChar, MathEndChar:
			props[c.Local()] = c.Attr("val")
		case MathHideDegree:
			if c.OnOff() {
				props[MathHideDegree] = "1"
			} else {
				props[MathHideDegree] = "0"
			}
		}
	}
	return props
}
