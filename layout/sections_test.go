package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/docxhtml/docx"
	"github.com/tsawler/docxhtml/model"
	"github.com/tsawler/docxhtml/xmltree"
)

const wordNS = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"`

func parseBody(t *testing.T, inner string) docx.Body {
	t.Helper()
	root, err := xmltree.Parse([]byte(`<w:document `+wordNS+`><w:body>`+inner+`</w:body></w:document>`), xmltree.ParseOptions{})
	require.NoError(t, err)
	return docx.NewParser(docx.DefaultOptions()).ParseDocument(root)
}

func resolveStyles(t *testing.T, inner string) *docx.StyleResolver {
	t.Helper()
	root, err := xmltree.Parse([]byte(`<w:styles `+wordNS+`>`+inner+`</w:styles>`), xmltree.ParseOptions{})
	require.NoError(t, err)
	parser := docx.NewParser(docx.DefaultOptions())
	return docx.NewStyleResolver(parser.ParseStyles(root), docx.DefaultOptions())
}

func para(text string) string {
	return `<w:p><w:r><w:t>` + text + `</w:t></w:r></w:p>`
}

// texts returns the text of every element of every section.
func texts(tree *model.Tree, sections []Section) [][]string {
	out := make([][]string, len(sections))
	for i, s := range sections {
		out[i] = []string{}
		for _, id := range s.Elements {
			out[i] = append(out[i], tree.TextContent(id))
		}
	}
	return out
}

// resplit splits the concatenated sections again under a fresh body node.
func resplit(splitter *SectionSplitter, tree *model.Tree, body model.NodeID, sections []Section) []Section {
	again := tree.Add(model.Node{Kind: model.KindDocument, Section: tree.Node(body).Section})
	for _, s := range sections {
		tree.Append(again, s.Elements...)
	}
	return splitter.Split(tree, again)
}

func TestSplitMidRunPageBreak(t *testing.T) {
	body := parseBody(t, `<w:p>
  <w:r><w:t>A</w:t></w:r>
  <w:r><w:t>B</w:t><w:br w:type="page"/><w:t>C</w:t></w:r>
</w:p>`)
	tree := body.Tree

	sections := NewSectionSplitter(DefaultSplitterConfig(), nil).Split(tree, body.Root)
	require.Len(t, sections, 2)
	assert.Equal(t, [][]string{{"AB"}, {"C"}}, texts(tree, sections))

	head := sections[0].Elements[0]
	tail := sections[1].Elements[0]
	require.Len(t, tree.Children(head), 2)
	require.Len(t, tree.Children(tail), 1)

	// The break leads the second half.
	tailRun := tree.Children(tail)[0]
	kinds := []model.Kind{}
	for _, c := range tree.Children(tailRun) {
		kinds = append(kinds, tree.Kind(c))
	}
	assert.Equal(t, []model.Kind{model.KindBreak, model.KindText}, kinds)

	assert.Equal(t, body.Root, tree.Node(tail).Parent)
	assert.Equal(t, tail, tree.Node(tailRun).Parent)
	assert.Equal(t, model.KindRun, tree.Kind(tailRun))
}

func TestSplitKeepsContent(t *testing.T) {
	body := parseBody(t, para("one")+`<w:p>
  <w:r><w:t>two</w:t><w:br w:type="page"/></w:r>
  <w:r><w:t>three</w:t><w:br w:type="page"/><w:t>four</w:t></w:r>
  <w:r><w:t>five</w:t></w:r>
</w:p>`+para("six"))
	tree := body.Tree
	want := tree.TextContent(body.Root)

	sections := NewSectionSplitter(DefaultSplitterConfig(), nil).Split(tree, body.Root)
	assert.Equal(t, [][]string{{"one", "two"}, {"three"}, {"fourfive", "six"}}, texts(tree, sections))

	var got string
	for _, s := range sections {
		for _, id := range s.Elements {
			got += tree.TextContent(id)
		}
	}
	assert.Equal(t, want, got)
}

func TestSplitIsIdempotent(t *testing.T) {
	styles := resolveStyles(t, `<w:style w:type="paragraph" w:styleId="Chapter"><w:pPr><w:pageBreakBefore/></w:pPr></w:style>`)
	body := parseBody(t, para("intro")+
		`<w:p><w:pPr><w:pStyle w:val="Chapter"/></w:pPr><w:r><w:t>chapter</w:t></w:r></w:p>`+
		`<w:p><w:r><w:t>x</w:t><w:br w:type="page"/><w:t>y</w:t></w:r></w:p>`+
		`<w:p><w:r><w:br w:type="page"/><w:t>lead</w:t></w:r></w:p>`)
	tree := body.Tree
	splitter := NewSectionSplitter(DefaultSplitterConfig(), styles)

	first := splitter.Split(tree, body.Root)
	want := [][]string{{"intro"}, {"chapter", "x"}, {"y"}, {"lead"}}
	assert.Equal(t, want, texts(tree, first))

	nodes := len(tree.Nodes)
	second := resplit(splitter, tree, body.Root, first)
	assert.Equal(t, want, texts(tree, second))
	assert.Equal(t, nodes+1, len(tree.Nodes), "only the new body node is added")
}

func TestSplitPageBreakBefore(t *testing.T) {
	styles := resolveStyles(t, `
<w:style w:type="paragraph" w:styleId="Base"><w:pPr><w:pageBreakBefore/></w:pPr></w:style>
<w:style w:type="paragraph" w:styleId="Derived"><w:basedOn w:val="Base"/></w:style>`)

	body := parseBody(t, `<w:p><w:pPr><w:pStyle w:val="Derived"/></w:pPr><w:r><w:t>first</w:t></w:r></w:p>`+
		para("a")+
		`<w:p><w:pPr><w:pStyle w:val="Derived"/></w:pPr><w:r><w:t>b</w:t></w:r></w:p>`+
		`<w:p><w:pPr><w:pageBreakBefore/></w:pPr><w:r><w:t>c</w:t></w:r></w:p>`)

	sections := NewSectionSplitter(DefaultSplitterConfig(), styles).Split(body.Tree, body.Root)
	assert.Equal(t, [][]string{{"first", "a"}, {"b"}, {"c"}}, texts(body.Tree, sections))

	// Without the style lookup only direct properties apply.
	sections = NewSectionSplitter(DefaultSplitterConfig(), nil).Split(body.Tree, body.Root)
	assert.Equal(t, [][]string{{"first", "a", "b"}, {"c"}}, texts(body.Tree, sections))
}

func TestSplitPageBreakBeforeOverride(t *testing.T) {
	styles := resolveStyles(t, `
<w:style w:type="paragraph" w:styleId="Base"><w:pPr><w:pageBreakBefore/></w:pPr></w:style>
<w:style w:type="paragraph" w:styleId="NoBreak"><w:basedOn w:val="Base"/><w:pPr><w:pageBreakBefore w:val="0"/></w:pPr></w:style>`)

	tests := []struct {
		name  string
		inner string
	}{
		{
			name:  "derived style switches the break off",
			inner: para("one") + `<w:p><w:pPr><w:pStyle w:val="NoBreak"/></w:pPr><w:r><w:t>two</w:t></w:r></w:p>`,
		},
		{
			name:  "direct property switches the style break off",
			inner: para("one") + `<w:p><w:pPr><w:pStyle w:val="Base"/><w:pageBreakBefore w:val="0"/></w:pPr><w:r><w:t>two</w:t></w:r></w:p>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := parseBody(t, tt.inner)
			sections := NewSectionSplitter(DefaultSplitterConfig(), styles).Split(body.Tree, body.Root)
			assert.Equal(t, [][]string{{"one", "two"}}, texts(body.Tree, sections))
		})
	}
}

func TestSplitIgnoresBreaksInInlineContainers(t *testing.T) {
	// Only breaks in runs directly under the paragraph split it.
	body := parseBody(t, `<w:p><w:hyperlink w:anchor="top">
  <w:r><w:t>a</w:t><w:br w:type="page"/><w:t>b</w:t></w:r>
</w:hyperlink></w:p>`+para("c"))

	sections := NewSectionSplitter(DefaultSplitterConfig(), nil).Split(body.Tree, body.Root)
	assert.Equal(t, [][]string{{"ab", "c"}}, texts(body.Tree, sections))
}

func TestSplitSectionProperties(t *testing.T) {
	body := parseBody(t, para("a")+
		`<w:p><w:pPr><w:sectPr><w:pgSz w:w="16838" w:h="11906" w:orient="landscape"/><w:titlePg/></w:sectPr></w:pPr><w:r><w:t>b</w:t></w:r></w:p>`+
		`<w:p><w:r><w:t>c</w:t><w:br w:type="page"/><w:t>d</w:t></w:r></w:p>`+
		`<w:sectPr><w:pgSz w:w="11906" w:h="16838"/></w:sectPr>`)
	tree := body.Tree

	sections := NewSectionSplitter(DefaultSplitterConfig(), nil).Split(tree, body.Root)
	require.Len(t, sections, 3)
	assert.Equal(t, [][]string{{"a", "b"}, {"c"}, {"d"}}, texts(tree, sections))

	assert.Equal(t, "landscape", sections[0].Props.PageSize.Orientation)
	assert.True(t, sections[0].Props.TitlePage)
	assert.Same(t, tree.Node(body.Root).Section, sections[1].Props)
	assert.Same(t, sections[1].Props, sections[2].Props)

	assert.Equal(t, []bool{true, true, false}, []bool{
		sections[0].FirstOfSection,
		sections[1].FirstOfSection,
		sections[2].FirstOfSection,
	})
}

func TestSplitBackwardPropagation(t *testing.T) {
	body := parseBody(t, `<w:p><w:r><w:t>a</w:t><w:br w:type="page"/><w:t>b</w:t></w:r></w:p>`+
		`<w:p><w:pPr><w:sectPr><w:cols w:num="2"/></w:sectPr></w:pPr><w:r><w:t>c</w:t></w:r></w:p>`)

	sections := NewSectionSplitter(DefaultSplitterConfig(), nil).Split(body.Tree, body.Root)
	require.Len(t, sections, 2, "the trailing empty group is dropped")
	assert.Same(t, sections[0].Props, sections[1].Props)
	assert.Equal(t, 2, sections[0].Props.Columns.NumberOfColumns)
}

func TestSplitWithoutSectionProperties(t *testing.T) {
	body := parseBody(t, para("only"))

	sections := NewSectionSplitter(DefaultSplitterConfig(), nil).Split(body.Tree, body.Root)
	require.Len(t, sections, 1)
	assert.NotNil(t, sections[0].Props)
	assert.True(t, sections[0].FirstOfSection)
}

func TestSplitEmptyBody(t *testing.T) {
	body := parseBody(t, ``)

	sections := NewSectionSplitter(DefaultSplitterConfig(), nil).Split(body.Tree, body.Root)
	require.Len(t, sections, 1)
	assert.Empty(t, sections[0].Elements)
	assert.NotNil(t, sections[0].Props)
}

func TestSplitLastRenderedPageBreak(t *testing.T) {
	inner := `<w:p><w:r><w:t>a</w:t><w:lastRenderedPageBreak/><w:t>b</w:t></w:r></w:p>`

	tests := []struct {
		name   string
		config SplitterConfig
		want   [][]string
	}{
		{"ignored by default", DefaultSplitterConfig(), [][]string{{"ab"}}},
		{"honored", SplitterConfig{BreakPages: true}, [][]string{{"a"}, {"b"}}},
		{"pages not broken", SplitterConfig{BreakPages: false}, [][]string{{"ab"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := parseBody(t, inner)
			sections := NewSectionSplitter(tt.config, nil).Split(body.Tree, body.Root)
			assert.Equal(t, tt.want, texts(body.Tree, sections))
		})
	}
}

func TestSplitBreakAtEdges(t *testing.T) {
	t.Run("trailing break", func(t *testing.T) {
		body := parseBody(t, `<w:p><w:r><w:t>a</w:t><w:br w:type="page"/></w:r></w:p>`+para("b"))
		nodes := len(body.Tree.Nodes)

		sections := NewSectionSplitter(DefaultSplitterConfig(), nil).Split(body.Tree, body.Root)
		assert.Equal(t, [][]string{{"a"}, {"b"}}, texts(body.Tree, sections))
		assert.Equal(t, nodes, len(body.Tree.Nodes), "nothing is split")
	})

	t.Run("break only", func(t *testing.T) {
		body := parseBody(t, para("a")+`<w:p><w:r><w:br w:type="page"/></w:r></w:p>`+para("b"))

		sections := NewSectionSplitter(DefaultSplitterConfig(), nil).Split(body.Tree, body.Root)
		assert.Equal(t, [][]string{{"a", ""}, {"b"}}, texts(body.Tree, sections))
	})

	t.Run("leading break", func(t *testing.T) {
		body := parseBody(t, para("a")+`<w:p><w:r><w:br w:type="page"/><w:t>b</w:t></w:r></w:p>`)
		nodes := len(body.Tree.Nodes)

		sections := NewSectionSplitter(DefaultSplitterConfig(), nil).Split(body.Tree, body.Root)
		assert.Equal(t, [][]string{{"a"}, {"b"}}, texts(body.Tree, sections))
		assert.Equal(t, nodes, len(body.Tree.Nodes))
	})

	t.Run("break between runs", func(t *testing.T) {
		body := parseBody(t, `<w:p><w:r><w:t>a</w:t></w:r><w:r><w:br w:type="page"/><w:t>b</w:t></w:r></w:p>`)
		nodes := len(body.Tree.Nodes)

		sections := NewSectionSplitter(DefaultSplitterConfig(), nil).Split(body.Tree, body.Root)
		assert.Equal(t, [][]string{{"a"}, {"b"}}, texts(body.Tree, sections))
		assert.Equal(t, nodes+1, len(body.Tree.Nodes), "only the paragraph is split")
	})

	t.Run("column and line breaks", func(t *testing.T) {
		body := parseBody(t, `<w:p><w:r><w:t>a</w:t><w:br w:type="column"/><w:br/><w:t>b</w:t></w:r></w:p>`)

		sections := NewSectionSplitter(DefaultSplitterConfig(), nil).Split(body.Tree, body.Root)
		assert.Equal(t, [][]string{{"ab"}}, texts(body.Tree, sections))
	})
}

func TestSplitContinuationIsNotListItem(t *testing.T) {
	body := parseBody(t, `<w:p><w:pPr><w:numPr><w:ilvl w:val="0"/><w:numId w:val="3"/></w:numPr></w:pPr>
  <w:r><w:t>item</w:t><w:br w:type="page"/><w:t>more</w:t></w:r></w:p>`)
	tree := body.Tree

	sections := NewSectionSplitter(DefaultSplitterConfig(), nil).Split(tree, body.Root)
	require.Len(t, sections, 2)

	head := tree.Node(sections[0].Elements[0])
	tail := tree.Node(sections[1].Elements[0])
	require.NotNil(t, head.Paragraph.Numbering)
	assert.Equal(t, "3", head.Paragraph.Numbering.ID)
	assert.Nil(t, tail.Paragraph.Numbering)
}

func TestSplitPassesTablesThrough(t *testing.T) {
	body := parseBody(t, para("a")+
		`<w:tbl><w:tr><w:tc><w:p><w:r><w:t>cell</w:t><w:br w:type="page"/><w:t>x</w:t></w:r></w:p></w:tc></w:tr></w:tbl>`+
		para("b"))

	sections := NewSectionSplitter(DefaultSplitterConfig(), nil).Split(body.Tree, body.Root)
	assert.Equal(t, [][]string{{"a", "cellx", "b"}}, texts(body.Tree, sections))
	assert.Equal(t, model.KindTable, body.Tree.Kind(sections[0].Elements[1]))
}
