package layout

import (
	"github.com/tsawler/docxhtml/model"
)

// Break types that can end a page.
const (
	breakPage         = "page"
	breakLastRendered = "lastRenderedPageBreak"
)

// Styles looks up the resolved paragraph properties of a style id.
// *docx.StyleResolver satisfies it.
type Styles interface {
	ParagraphProps(id string) *model.ParagraphProperties
}

// Section is one page group of the body: a run of top-level elements and
// the section properties that apply to them.
type Section struct {
	// Props is never nil after splitting.
	Props *model.SectionProperties

	// Elements are body-level node ids in document order.
	Elements []model.NodeID

	// FirstOfSection is set when Props differs from the previous group's,
	// which is where a title page header applies.
	FirstOfSection bool
}

// SplitterConfig holds configuration for section splitting
type SplitterConfig struct {
	// BreakPages starts a new group at explicit page breaks.
	// Default: true
	BreakPages bool

	// IgnoreLastRenderedPageBreak ignores the page breaks Word records
	// where it last laid out a page. Only consulted when BreakPages is set.
	// Default: true
	IgnoreLastRenderedPageBreak bool
}

// DefaultSplitterConfig returns the default configuration
func DefaultSplitterConfig() SplitterConfig {
	return SplitterConfig{
		BreakPages:                  true,
		IgnoreLastRenderedPageBreak: true,
	}
}

// SectionSplitter groups the top-level elements of a body into sections
// and pages.
type SectionSplitter struct {
	config SplitterConfig
	styles Styles
}

// NewSectionSplitter creates a splitter. styles may be nil.
func NewSectionSplitter(config SplitterConfig, styles Styles) *SectionSplitter {
	return &SectionSplitter{config: config, styles: styles}
}

// position addresses a grandchild of a paragraph: child is the index of
// the run (or other inline container), index the position inside it.
type position struct {
	child int
	index int
}

// splitState accumulates groups during one Split call.
type splitState struct {
	sections []Section
}

func (st *splitState) current() *Section {
	return &st.sections[len(st.sections)-1]
}

func (st *splitState) push(id model.NodeID) {
	cur := st.current()
	cur.Elements = append(cur.Elements, id)
}

// end closes the current group with props and opens a new one.
func (st *splitState) end(props *model.SectionProperties) {
	st.current().Props = props
	st.sections = append(st.sections, Section{})
}

// endIfStarted closes the current group unless it is still empty.
func (st *splitState) endIfStarted() {
	if len(st.current().Elements) > 0 {
		st.end(nil)
	}
}

// Split walks the children of body and returns the resulting groups.
//
// A paragraph with pageBreakBefore starts a new group. A paragraph with
// its own section properties ends its group. With BreakPages, a page break
// inside a paragraph ends the group at the break: the paragraph, and the
// run holding the break, are split in two and the break moves to the
// second half. Splitting adds the new halves to tree.
//
// Groups without section properties take those of the next group that has
// them, and the trailing groups take the body's. Splitting an already split
// body yields the same groups.
func (s *SectionSplitter) Split(tree *model.Tree, body model.NodeID) []Section {
	st := &splitState{sections: []Section{{}}}

	for _, id := range tree.Children(body) {
		if tree.Kind(id) != model.KindParagraph {
			st.push(id)
			continue
		}
		s.splitParagraph(tree, body, id, st)
	}

	sections := st.sections
	for len(sections) > 1 && len(sections[len(sections)-1].Elements) == 0 {
		sections = sections[:len(sections)-1]
	}

	var props *model.SectionProperties
	if n := tree.Node(body); n != nil {
		props = n.Section
	}
	if props == nil {
		props = &model.SectionProperties{}
	}
	for i := len(sections) - 1; i >= 0; i-- {
		if sections[i].Props == nil {
			sections[i].Props = props
		} else {
			props = sections[i].Props
		}
	}

	for i := range sections {
		sections[i].FirstOfSection = i == 0 || sections[i].Props != sections[i-1].Props
	}
	return sections
}

func (s *SectionSplitter) splitParagraph(tree *model.Tree, body, id model.NodeID, st *splitState) {
	props := tree.Node(id).Paragraph
	if s.breakBefore(tree.Node(id)) {
		st.endIfStarted()
	}

	from := position{}
	for {
		pos, ok := s.nextBreak(tree, id, from)
		if !ok {
			break
		}

		if s.isLast(tree, id, pos) {
			st.push(id)
			var section *model.SectionProperties
			if props != nil {
				section = props.Section
			}
			st.end(section)
			return
		}

		// A break ahead of all content acts like pageBreakBefore.
		if pos == (position{}) {
			st.endIfStarted()
			from = position{0, 1}
			continue
		}

		tail := splitAt(tree, id, pos)
		tree.Nodes[tail].Parent = body
		st.push(id)
		st.end(nil)

		id = tail
		from = position{0, 1}
	}

	st.push(id)
	if props != nil && props.Section != nil {
		st.end(props.Section)
	}
}

// breakBefore reports whether paragraph n must start a group.
func (s *SectionSplitter) breakBefore(n *model.Node) bool {
	if n.Paragraph == nil {
		return false
	}
	if v := n.Paragraph.PageBreakBefore; v != nil {
		return *v
	}
	if s.styles == nil {
		return false
	}
	style := n.StyleName
	if style == "" {
		style = n.Paragraph.StyleName
	}
	if props := s.styles.ParagraphProps(style); props != nil {
		return model.On(props.PageBreakBefore)
	}
	return false
}

// isPageBreak reports whether n ends a page under the configuration.
func (s *SectionSplitter) isPageBreak(n *model.Node) bool {
	if n.Kind != model.KindBreak {
		return false
	}
	isPage := n.Type == breakPage
	isLastRendered := n.Type == breakLastRendered
	return isPage || (isLastRendered && !s.config.IgnoreLastRenderedPageBreak)
}

// nextBreak finds the first page break in the children of the paragraph's
// children, starting at from. Breaks nested deeper, inside a run of a
// hyperlink or a tracked change, do not split the paragraph.
func (s *SectionSplitter) nextBreak(tree *model.Tree, para model.NodeID, from position) (position, bool) {
	if !s.config.BreakPages {
		return position{}, false
	}
	children := tree.Children(para)
	for ci := from.child; ci < len(children); ci++ {
		start := 0
		if ci == from.child {
			start = from.index
		}
		grand := tree.Children(children[ci])
		for gi := start; gi < len(grand); gi++ {
			if s.isPageBreak(tree.Node(grand[gi])) {
				return position{ci, gi}, true
			}
		}
	}
	return position{}, false
}

// isLast reports whether nothing follows the break at pos.
func (s *SectionSplitter) isLast(tree *model.Tree, para model.NodeID, pos position) bool {
	children := tree.Children(para)
	return pos.child == len(children)-1 && pos.index == len(tree.Children(children[pos.child]))-1
}

// splitAt truncates para before the break at pos and returns a new
// paragraph holding the break and everything after it. When the break is
// not the first child of its run, the run is split the same way.
func splitAt(tree *model.Tree, para model.NodeID, pos position) model.NodeID {
	children := tree.Children(para)
	run := children[pos.child]

	var tailChildren []model.NodeID
	headLen := pos.child
	if pos.index > 0 {
		runChildren := tree.Children(run)
		tailRun := tree.Clone(run)
		tree.Nodes[tailRun].Children = append([]model.NodeID(nil), runChildren[pos.index:]...)
		tree.Nodes[run].Children = append([]model.NodeID(nil), runChildren[:pos.index]...)

		tailChildren = append(tailChildren, tailRun)
		tailChildren = append(tailChildren, children[pos.child+1:]...)
		headLen = pos.child + 1
	} else {
		tailChildren = append(tailChildren, children[pos.child:]...)
	}

	tail := tree.Clone(para)
	tree.Nodes[tail].Children = tailChildren
	tree.Nodes[para].Children = append([]model.NodeID(nil), children[:headLen]...)

	// The continuation is not a new list item.
	if props := tree.Nodes[tail].Paragraph; props != nil {
		cont := *props
		cont.Numbering = nil
		tree.Nodes[tail].Paragraph = &cont
	}
	tree.AttachParents(tail)
	return tail
}
