package render

import (
	"golang.org/x/net/html"

	"github.com/tsawler/docxhtml/docx"
	"github.com/tsawler/docxhtml/model"
)

type cellPos struct {
	col int
	row int
}

// mergedCell is the first cell of a vertical merge.
type mergedCell struct {
	node *html.Node
	rows int
}

// tableState tracks vertical merges and the cell position of one table.
// Nested tables get their own.
type tableState struct {
	props  *model.TableProperties
	merges map[int]*mergedCell
	cell   cellPos
}

// renderState holds everything that changes while one Render call walks
// the document.
type renderState struct {
	// tree and part are the body being rendered and the part whose
	// relationships resolve its images and links.
	tree *model.Tree
	part *docx.Part

	styleTarget *html.Node

	tables []*tableState

	// footnoteIDs are the footnotes referenced by the current section,
	// endnoteIDs those of the whole document.
	footnoteIDs []string
	endnoteIDs  []string

	// paraTabs are the tab stops of the paragraph being rendered.
	paraTabs []model.Tab
	// contentWidth is the text width of the current section in points.
	contentWidth float64
	tabs         []tabRef

	mathDepth int

	jobs []loadJob
}

func newRenderState() *renderState {
	return &renderState{}
}

// enter renders fn with another body as the current one.
func (st *renderState) enter(tree *model.Tree, part *docx.Part, fn func()) {
	prevTree, prevPart := st.tree, st.part
	st.tree, st.part = tree, part
	defer func() { st.tree, st.part = prevTree, prevPart }()
	fn()
}

func (st *renderState) pushTable(props *model.TableProperties) {
	st.tables = append(st.tables, &tableState{
		props:  props,
		merges: make(map[int]*mergedCell),
	})
}

func (st *renderState) popTable() {
	st.tables = st.tables[:len(st.tables)-1]
}

// table returns the innermost table being rendered, or nil.
func (st *renderState) table() *tableState {
	if len(st.tables) == 0 {
		return nil
	}
	return st.tables[len(st.tables)-1]
}
