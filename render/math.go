package render

import (
	"unicode"

	"golang.org/x/net/html"

	"github.com/tsawler/docxhtml/docx"
	"github.com/tsawler/docxhtml/model"
)

// defaultNaryChar is the operator of an n-ary element without m:chr.
const defaultNaryChar = "∫"

// renderMath renders OMML nodes as MathML.
func (r *Renderer) renderMath(st *renderState, id model.NodeID, n *model.Node) *html.Node {
	if n.Kind == model.KindMathParagraph {
		return r.renderContainer(st, id, "span")
	}

	st.mathDepth++
	defer func() { st.mathDepth-- }()

	switch n.Kind {
	case model.KindMath:
		m := r.mathContainer(st, id, "math")
		setAttr(m, "xmlns", mathMLURI)
		return m
	case model.KindFraction:
		return r.mathContainer(st, id, "mfrac")
	case model.KindNumerator, model.KindDenominator, model.KindBase,
		model.KindDegree, model.KindSuperArgument, model.KindSubArgument:
		return r.mathContainer(st, id, "mrow")
	case model.KindSuperscript:
		return r.mathContainer(st, id, "msup")
	case model.KindSubscript:
		return r.mathContainer(st, id, "msub")
	case model.KindRadical:
		return r.renderRadical(st, id, n)
	case model.KindDelimiter:
		return r.renderDelimiter(st, id, n)
	case model.KindNary:
		return r.renderNary(st, id, n)
	}
	return nil
}

func (r *Renderer) mathContainer(st *renderState, id model.NodeID, tag string) *html.Node {
	elem := foreign(nsMathML, tag)
	appendChildren(elem, r.renderChildren(st, id)...)
	return elem
}

func mathOperator(s string) *html.Node {
	mo := foreign(nsMathML, "mo")
	mo.AppendChild(text(s))
	return mo
}

// childOfKind returns the first child of id of the given kind.
func childOfKind(tree *model.Tree, id model.NodeID, kind model.Kind) (model.NodeID, bool) {
	for _, c := range tree.Children(id) {
		if tree.Kind(c) == kind {
			return c, true
		}
	}
	return model.NoNode, false
}

func (r *Renderer) renderRadical(st *renderState, id model.NodeID, n *model.Node) *html.Node {
	base, hasBase := childOfKind(st.tree, id, model.KindBase)

	if n.MathProps[docx.MathHideDegree] == "1" {
		sqrt := foreign(nsMathML, "msqrt")
		if hasBase {
			appendChildren(sqrt, r.renderElement(st, base)...)
		}
		return sqrt
	}

	root := foreign(nsMathML, "mroot")
	if hasBase {
		appendChildren(root, r.renderElement(st, base)...)
	}
	if degree, ok := childOfKind(st.tree, id, model.KindDegree); ok {
		appendChildren(root, r.renderElement(st, degree)...)
	}
	return root
}

func (r *Renderer) renderDelimiter(st *renderState, id model.NodeID, n *model.Node) *html.Node {
	begin, ok := n.MathProps[docx.MathBeginChar]
	if !ok {
		begin = "("
	}
	end, ok := n.MathProps[docx.MathEndChar]
	if !ok {
		end = ")"
	}

	row := foreign(nsMathML, "mrow")
	row.AppendChild(mathOperator(begin))
	appendChildren(row, r.renderChildren(st, id)...)
	row.AppendChild(mathOperator(end))
	return row
}

// renderNary renders sums, products and integrals: the operator with its
// limits, then the base.
func (r *Renderer) renderNary(st *renderState, id model.NodeID, n *model.Node) *html.Node {
	chr := n.MathProps[docx.MathChar]
	if chr == "" {
		chr = defaultNaryChar
	}
	op := mathOperator(chr)

	limit := func(kind model.Kind) *html.Node {
		arg, ok := childOfKind(st.tree, id, kind)
		if !ok || len(st.tree.Children(arg)) == 0 {
			return nil
		}
		row := foreign(nsMathML, "mrow")
		appendChildren(row, r.renderChildren(st, arg)...)
		return row
	}
	sub := limit(model.KindSubArgument)
	sup := limit(model.KindSuperArgument)

	row := foreign(nsMathML, "mrow")
	switch {
	case sub != nil && sup != nil:
		under := foreign(nsMathML, "munderover")
		appendChildren(under, op, sub, sup)
		row.AppendChild(under)
	case sup != nil:
		over := foreign(nsMathML, "mover")
		appendChildren(over, op, sup)
		row.AppendChild(over)
	case sub != nil:
		under := foreign(nsMathML, "munder")
		appendChildren(under, op, sub)
		row.AppendChild(under)
	default:
		row.AppendChild(op)
	}

	if base, ok := childOfKind(st.tree, id, model.KindBase); ok {
		appendChildren(row, r.renderChildren(st, base)...)
	}
	return row
}

// renderMathRun renders the text of a run inside an equation as a number,
// an identifier or an operator.
func (r *Renderer) renderMathRun(st *renderState, id model.NodeID) *html.Node {
	s := st.tree.TextContent(id)
	if s == "" {
		return nil
	}
	elem := foreign(nsMathML, mathTokenTag(s))
	elem.AppendChild(text(s))
	return elem
}

func mathTokenTag(s string) string {
	digits, letters := true, true
	for _, c := range s {
		if !unicode.IsDigit(c) && c != '.' && c != ',' {
			digits = false
		}
		if !unicode.IsLetter(c) {
			letters = false
		}
	}
	switch {
	case digits:
		return "mn"
	case letters:
		return "mi"
	default:
		return "mo"
	}
}

// renderVmlElement renders a VML shape as an inline SVG.
func (r *Renderer) renderVmlElement(st *renderState, id model.NodeID, n *model.Node) *html.Node {
	svg := foreign(nsSVG, "svg")
	setAttr(svg, "style", n.CSSText)
	svg.AppendChild(r.renderVmlShape(st, id, n))
	return svg
}

func (r *Renderer) renderVmlShape(st *renderState, id model.NodeID, n *model.Node) *html.Node {
	shape := foreign(nsSVG, n.Name)
	for _, a := range n.Attrs {
		setAttr(shape, a.Name, a.Value)
	}
	if n.ID != "" {
		st.jobs = append(st.jobs, r.imageLoader(st.part, n.ID, shape, "href"))
	}
	for _, c := range st.tree.Children(id) {
		if cn := st.tree.Node(c); cn != nil && cn.Kind == model.KindVmlElement {
			shape.AppendChild(r.renderVmlShape(st, c, cn))
		}
	}
	return shape
}
