package render

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/tsawler/docxhtml/docx"
	"github.com/tsawler/docxhtml/model"
)

// cellStyleKeys are the table cell properties a cell inherits from its
// table's default cell style.
var cellStyleKeys = []string{
	"border-left", "border-right", "border-top", "border-bottom",
	"padding-left", "padding-right", "padding-top", "padding-bottom",
}

func one(n *html.Node) []*html.Node {
	if n == nil {
		return nil
	}
	return []*html.Node{n}
}

func itoa(i int) string {
	return strconv.Itoa(i)
}

// renderElement renders one node. Most kinds yield a single element; some
// render only their children, and some render nothing.
func (r *Renderer) renderElement(st *renderState, id model.NodeID) []*html.Node {
	n := st.tree.Node(id)
	if n == nil {
		return nil
	}

	switch n.Kind {
	case model.KindDocument:
		return r.renderChildren(st, id)
	case model.KindParagraph:
		return one(r.renderParagraph(st, id, n))
	case model.KindRun:
		return one(r.renderRun(st, id, n))
	case model.KindTable:
		return one(r.renderTable(st, id, n))
	case model.KindRow:
		return one(r.renderTableRow(st, id, n))
	case model.KindCell:
		return one(r.renderTableCell(st, id, n))
	case model.KindHyperlink:
		return one(r.renderHyperlink(st, id, n))
	case model.KindDrawing:
		return one(r.renderDrawing(st, id, n))
	case model.KindImage:
		return one(r.renderImage(st, n))
	case model.KindText:
		return one(text(n.Text))
	case model.KindDeletedText:
		if r.opts.RenderChanges {
			return one(text(n.Text))
		}
		return nil
	case model.KindTab:
		return one(r.renderTab(st))
	case model.KindSymbol:
		return one(renderSymbol(n))
	case model.KindBreak:
		if n.Type == docx.BreakTextWrapping {
			return one(element("br"))
		}
		return nil
	case model.KindBookmarkStart:
		span := element("span")
		setAttr(span, "id", n.Name)
		return one(span)
	case model.KindHeader:
		return one(r.renderContainer(st, id, "header"))
	case model.KindFooter:
		return one(r.renderContainer(st, id, "footer"))
	case model.KindFootnote, model.KindEndnote:
		return one(r.renderContainer(st, id, "li"))
	case model.KindFootnoteReference:
		st.footnoteIDs = append(st.footnoteIDs, n.ID)
		return one(noteReference(len(st.footnoteIDs)))
	case model.KindEndnoteReference:
		st.endnoteIDs = append(st.endnoteIDs, n.ID)
		return one(noteReference(len(st.endnoteIDs)))
	case model.KindNoBreakHyphen:
		return one(element("wbr"))
	case model.KindVmlPicture:
		return one(r.renderContainer(st, id, "div"))
	case model.KindVmlElement:
		return one(r.renderVmlElement(st, id, n))
	case model.KindInserted:
		if r.opts.RenderChanges {
			return one(r.renderContainer(st, id, "ins"))
		}
		return r.renderChildren(st, id)
	case model.KindDeleted:
		if r.opts.RenderChanges {
			return one(r.renderContainer(st, id, "del"))
		}
		return nil
	}

	if n.Kind.IsMath() {
		return one(r.renderMath(st, id, n))
	}
	return nil
}

// renderChildren renders the children of id in order.
func (r *Renderer) renderChildren(st *renderState, id model.NodeID) []*html.Node {
	var out []*html.Node
	for _, c := range st.tree.Children(id) {
		out = append(out, r.renderElement(st, c)...)
	}
	return out
}

// renderContainer wraps the children of id in a tag.
func (r *Renderer) renderContainer(st *renderState, id model.NodeID, tag string) *html.Node {
	elem := element(tag)
	appendChildren(elem, r.renderChildren(st, id)...)
	return elem
}

// styleClass returns the class of a paragraph, run or table style.
func (r *Renderer) styleClass(name string) string {
	if name == "" {
		return ""
	}
	if s := r.word.Styles.Find(name); s != nil && s.CSSName != "" {
		return s.CSSName
	}
	return r.opts.ClassName + "_" + docx.EscapeClassName(name)
}

// renderClass sets the class attribute from the node's own classes and its
// style.
func (r *Renderer) renderClass(n *model.Node, elem *html.Node) {
	addClass(elem, n.ClassName, r.styleClass(n.StyleName))
}

func (r *Renderer) renderParagraph(st *renderState, id model.NodeID, n *model.Node) *html.Node {
	p := element("p")
	r.renderClass(n, p)

	props := n.Paragraph
	styleProps := r.word.Styles.ParagraphProps(n.StyleName)

	var (
		numbering *model.NumberingRef
		tabs      []model.Tab
	)
	if props != nil {
		numbering = props.Numbering
		tabs = props.Tabs
	}
	if styleProps != nil {
		if numbering == nil {
			numbering = styleProps.Numbering
		}
		if tabs == nil {
			tabs = styleProps.Tabs
		}
	}
	if numbering != nil {
		addClass(p, r.word.Numbering.ClassName(numbering.ID, numbering.Level))
	}

	prevTabs := st.paraTabs
	st.paraTabs = tabs
	appendChildren(p, r.renderChildren(st, id)...)
	st.paraTabs = prevTabs

	setStyle(p, n.Style)
	if props != nil {
		setStyle(p, commonProperties(n.Style, props.Color, props.FontSize))
	}
	return p
}

// commonProperties returns the color and font size of a paragraph that its
// CSS does not already carry.
func commonProperties(style model.CSS, color, fontSize string) model.CSS {
	css := model.CSS{}
	if _, ok := style["color"]; !ok {
		if c := cssColor(color); c != "" {
			css["color"] = c
		}
	}
	if _, ok := style["font-size"]; !ok && fontSize != "" {
		css["font-size"] = fontSize
	}
	return css
}

// cssColor converts a raw w:color value.
func cssColor(v string) string {
	switch {
	case v == "" || v == "auto":
		return ""
	case isHex(v):
		return "#" + v
	default:
		return v
	}
}

func isHex(s string) bool {
	if len(s) != 6 {
		return false
	}
	_, err := strconv.ParseUint(s, 16, 32)
	return err == nil
}

func (r *Renderer) renderRun(st *renderState, id model.NodeID, n *model.Node) *html.Node {
	if n.FieldRun {
		return nil
	}
	if st.mathDepth > 0 {
		return r.renderMathRun(st, id)
	}

	span := element("span")
	r.renderClass(n, span)
	setStyle(span, n.Style)

	children := r.renderChildren(st, id)
	if n.VertAlign != "" {
		wrapper := element(n.VertAlign)
		appendChildren(wrapper, children...)
		span.AppendChild(wrapper)
	} else {
		appendChildren(span, children...)
	}
	return span
}

func (r *Renderer) renderTable(st *renderState, id model.NodeID, n *model.Node) *html.Node {
	table := element("table")
	st.pushTable(n.Table)
	defer st.popTable()

	if n.Table != nil && len(n.Table.Columns) > 0 {
		table.AppendChild(renderTableColumns(n.Table.Columns))
	}

	r.renderClass(n, table)
	appendChildren(table, r.renderChildren(st, id)...)
	setStyle(table, n.Style)
	return table
}

func renderTableColumns(columns []model.TableColumn) *html.Node {
	group := element("colgroup")
	for _, c := range columns {
		col := element("col")
		if c.Width != "" {
			setStyle(col, model.CSS{"width": c.Width})
		}
		group.AppendChild(col)
	}
	return group
}

func (r *Renderer) renderTableRow(st *renderState, id model.NodeID, n *model.Node) *html.Node {
	tr := element("tr")
	ts := st.table()
	if ts != nil {
		ts.cell.col = 0
	}

	r.renderClass(n, tr)
	appendChildren(tr, r.renderChildren(st, id)...)
	setStyle(tr, n.Style)

	if ts != nil {
		ts.cell.row++
	}
	return tr
}

func (r *Renderer) renderTableCell(st *renderState, id model.NodeID, n *model.Node) *html.Node {
	td := element("td")
	ts := st.table()

	if ts != nil {
		key := ts.cell.col
		switch n.VerticalMerge {
		case "restart":
			ts.merges[key] = &mergedCell{node: td, rows: 1}
		case "continue":
			if m := ts.merges[key]; m != nil {
				m.rows++
				setAttr(m.node, "rowspan", itoa(m.rows))
				setStyle(td, model.CSS{"display": "none"})
			}
		default:
			delete(ts.merges, key)
		}
	}

	r.renderClass(n, td)
	appendChildren(td, r.renderChildren(st, id)...)

	style := n.Style.Clone()
	if ts != nil && ts.props != nil {
		if style == nil {
			style = model.CSS{}
		}
		for _, k := range cellStyleKeys {
			if _, ok := style[k]; ok {
				continue
			}
			if v, ok := ts.props.CellStyle[k]; ok {
				style[k] = v
			}
		}
	}
	setStyle(td, style)

	span := 1
	if n.Span > 1 {
		span = n.Span
		setAttr(td, "colspan", itoa(span))
	}
	if ts != nil {
		ts.cell.col += span
	}
	return td
}

func (r *Renderer) renderHyperlink(st *renderState, id model.NodeID, n *model.Node) *html.Node {
	a := element("a")
	appendChildren(a, r.renderChildren(st, id)...)
	setStyle(a, n.Style)

	switch {
	case n.Anchor != "":
		setAttr(a, "href", "#"+n.Anchor)
	case n.ID != "":
		if rel, ok := r.word.Relationship(st.part, n.ID); ok {
			setAttr(a, "href", rel.Target)
		}
	}
	return a
}

func (r *Renderer) renderDrawing(st *renderState, id model.NodeID, n *model.Node) *html.Node {
	div := element("div")
	setStyle(div, model.CSS{
		"display":     "inline-block",
		"position":    "relative",
		"text-indent": "0px",
	})
	setStyle(div, n.Style)
	appendChildren(div, r.renderChildren(st, id)...)
	return div
}

func (r *Renderer) renderImage(st *renderState, n *model.Node) *html.Node {
	img := element("img")
	setStyle(img, n.Style)
	setAttr(img, "alt", n.Title)
	if n.ID != "" {
		st.jobs = append(st.jobs, r.imageLoader(st.part, n.ID, img, "src"))
	}
	return img
}

func renderSymbol(n *model.Node) *html.Node {
	span := element("span")
	setStyle(span, model.CSS{"font-family": n.Font})
	if code, err := strconv.ParseUint(strings.TrimSpace(n.Char), 16, 32); err == nil {
		span.AppendChild(text(string(rune(code))))
	}
	return span
}

func noteReference(number int) *html.Node {
	sup := element("sup")
	sup.AppendChild(text(itoa(number)))
	return sup
}

func (r *Renderer) renderTab(st *renderState) *html.Node {
	span := element("span")
	span.AppendChild(text("\u2003"))
	if r.opts.Experimental {
		addClass(span, r.tabStopClass())
		st.tabs = append(st.tabs, tabRef{span: span, stops: st.paraTabs, width: st.contentWidth})
	}
	return span
}

func (r *Renderer) tabStopClass() string {
	return r.opts.ClassName + "-tab-stop"
}
