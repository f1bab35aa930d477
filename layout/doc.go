// Package layout splits a parsed document body into sections and pages.
//
// Word documents have no pages of their own: a body is a flat list of
// paragraphs and tables. Page groups are recovered from the markers Word
// leaves behind:
//
//   - section properties attached to the last paragraph of a section
//   - explicit page breaks inside runs
//   - the pageBreakBefore paragraph property, set directly or by a style
//   - optionally, the lastRenderedPageBreak markers of Word's last layout
//
// # Splitting
//
// The [SectionSplitter] walks the body once:
//
//	splitter := layout.NewSectionSplitter(layout.DefaultSplitterConfig(), word.Styles)
//	for _, section := range splitter.Split(body.Tree, body.Root) {
//		// section.Props, section.Elements
//	}
//
// A break in the middle of a paragraph splits the paragraph, and the run
// holding the break, into two halves that land in consecutive groups.
package layout
