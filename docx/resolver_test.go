package docx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/docxhtml/model"
)

func parseStyles(t *testing.T, inner string) []*Style {
	t.Helper()
	root := parseElement(t, `<w:styles `+namespaces+`>`+inner+`</w:styles>`)
	return NewParser(DefaultOptions()).ParseStyles(root)
}

// rulesFor returns the values of every rule with the given selector.
func rulesFor(rules []Rule, selector string) []model.CSS {
	var out []model.CSS
	for _, r := range rules {
		if r.Selector == selector {
			out = append(out, r.Values)
		}
	}
	return out
}

func warningKinds(warnings []Warning) []WarningKind {
	var kinds []WarningKind
	for _, w := range warnings {
		kinds = append(kinds, w.Kind)
	}
	return kinds
}

const headingStyles = `
<w:docDefaults>
  <w:rPrDefault><w:rPr><w:sz w:val="22"/></w:rPr></w:rPrDefault>
  <w:pPrDefault><w:pPr><w:spacing w:after="160"/></w:pPr></w:pPrDefault>
</w:docDefaults>
<w:style w:type="paragraph" w:default="1" w:styleId="Normal">
  <w:name w:val="Normal"/>
  <w:qFormat/>
  <w:rPr><w:color w:val="333333"/></w:rPr>
</w:style>
<w:style w:type="paragraph" w:styleId="Heading1">
  <w:name w:val="heading 1"/>
  <w:basedOn w:val="Normal"/>
  <w:next w:val="Normal"/>
  <w:link w:val="Heading1Char"/>
  <w:uiPriority w:val="9"/>
  <w:pPr><w:keepNext/><w:outlineLvl w:val="0"/><w:jc w:val="center"/></w:pPr>
  <w:rPr><w:b/><w:sz w:val="32"/></w:rPr>
</w:style>
<w:style w:type="character" w:styleId="Heading1Char">
  <w:name w:val="Heading 1 Char"/>
  <w:link w:val="Heading1"/>
  <w:rPr><w:i/></w:rPr>
</w:style>`

func TestParseStyles(t *testing.T) {
	styles := parseStyles(t, headingStyles)
	require.Len(t, styles, 4)

	defaults := styles[0]
	assert.Empty(t, defaults.ID)
	assert.Equal(t, []SubStyle{
		{Target: TargetRun, Values: model.CSS{"font-size": "11.00pt", "min-height": "11.00pt"}},
		{Target: TargetParagraph, Values: model.CSS{"margin-bottom": "8.00pt"}},
	}, defaults.Styles)

	heading := styles[2]
	assert.Equal(t, "Heading1", heading.ID)
	assert.Equal(t, "heading 1", heading.Name)
	assert.Equal(t, TargetParagraph, heading.Target)
	assert.Equal(t, "Normal", heading.BasedOn)
	assert.Equal(t, "Normal", heading.Next)
	assert.Equal(t, "Heading1Char", heading.Linked)
	assert.True(t, model.On(heading.ParagraphProps.KeepNext))
	assert.Equal(t, "16.00pt", heading.RunProps.FontSize)

	assert.Equal(t, TargetRun, styles[3].Target)
	assert.True(t, styles[1].IsDefault)
}

func TestStyleResolverMergesBaseStyles(t *testing.T) {
	r := NewStyleResolver(parseStyles(t, headingStyles), DefaultOptions())
	assert.Empty(t, r.Warnings())

	heading := r.Find("Heading1")
	require.NotNil(t, heading)
	assert.Equal(t, "docx_heading1", heading.CSSName)

	// Base run values are added, derived ones win.
	span := findSubStyle(heading.Styles, TargetRun, "")
	require.NotNil(t, span)
	assert.Equal(t, model.CSS{
		"font-weight": "bold",
		"font-size":   "16.00pt",
		"min-height":  "16.00pt",
		"color":       "#333333",
	}, span.Values)

	assert.Equal(t, &model.RunProperties{Color: "333333", FontSize: "16.00pt"}, heading.RunProps)
	assert.True(t, model.On(heading.ParagraphProps.KeepNext))

	// The base style is not modified.
	normal := r.Find("Normal")
	assert.Equal(t, model.CSS{"color": "#333333"}, findSubStyle(normal.Styles, TargetRun, "").Values)
}

func TestStyleResolverExplicitOffWins(t *testing.T) {
	r := NewStyleResolver(parseStyles(t, `
<w:style w:type="paragraph" w:styleId="Chapter">
  <w:pPr><w:keepNext/><w:pageBreakBefore/><w:outlineLvl w:val="2"/></w:pPr>
</w:style>
<w:style w:type="paragraph" w:styleId="Appendix">
  <w:basedOn w:val="Chapter"/>
  <w:pPr><w:pageBreakBefore w:val="0"/><w:outlineLvl w:val="0"/></w:pPr>
</w:style>`), DefaultOptions())

	props := r.ParagraphProps("Appendix")
	require.NotNil(t, props)
	require.NotNil(t, props.PageBreakBefore)
	assert.False(t, *props.PageBreakBefore)
	require.NotNil(t, props.OutlineLevel)
	assert.Equal(t, 0, *props.OutlineLevel)
	assert.True(t, model.On(props.KeepNext))
	assert.Nil(t, props.KeepLines)

	base := r.ParagraphProps("Chapter")
	assert.True(t, model.On(base.PageBreakBefore))
	assert.Equal(t, 2, *base.OutlineLevel)
}

func TestStyleResolverRules(t *testing.T) {
	r := NewStyleResolver(parseStyles(t, headingStyles), DefaultOptions())
	rules := r.Rules()

	assert.Equal(t, []model.CSS{{"font-size": "11.00pt", "min-height": "11.00pt"}}, rulesFor(rules, ".docx span"))
	assert.Equal(t, []model.CSS{{"margin-bottom": "8.00pt"}}, rulesFor(rules, ".docx p"))

	// The default paragraph style also applies to every paragraph.
	assert.Len(t, rulesFor(rules, ".docx p, p.docx_normal span"), 1)

	assert.Equal(t, []model.CSS{{"text-align": "center"}}, rulesFor(rules, "p.docx_heading1"))

	// Own run values plus those of the linked character style.
	spans := rulesFor(rules, "p.docx_heading1 span")
	require.Len(t, spans, 2)
	assert.Equal(t, model.CSS{"font-style": "italic"}, spans[1])
}

func TestStyleResolverBrokenReferences(t *testing.T) {
	tests := []struct {
		name   string
		styles string
		want   []WarningKind
	}{
		{
			name:   "missing base",
			styles: `<w:style w:type="paragraph" w:styleId="A"><w:basedOn w:val="Missing"/></w:style>`,
			want:   []WarningKind{WarnMissingBaseStyle},
		},
		{
			name: "cycle",
			styles: `<w:style w:type="paragraph" w:styleId="A"><w:basedOn w:val="B"/></w:style>
<w:style w:type="paragraph" w:styleId="B"><w:basedOn w:val="A"/></w:style>`,
			want: []WarningKind{WarnStyleCycle},
		},
		{
			name: "target mismatch",
			styles: `<w:style w:type="character" w:styleId="C"><w:rPr><w:b/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="P"><w:basedOn w:val="C"/></w:style>`,
			want: []WarningKind{WarnStyleTargetMismatch},
		},
		{
			name:   "missing link",
			styles: `<w:style w:type="paragraph" w:styleId="A"><w:link w:val="Gone"/></w:style>`,
			want:   []WarningKind{WarnMissingLinkedStyle},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewStyleResolver(parseStyles(t, tt.styles), DefaultOptions())

			// Rules may be built any number of times without new warnings.
			assert.NotPanics(t, func() { r.Rules(); r.Rules() })
			assert.Equal(t, tt.want, warningKinds(r.Warnings()))
		})
	}
}

func TestStyleResolverMismatchKeepsStyle(t *testing.T) {
	r := NewStyleResolver(parseStyles(t, `
<w:style w:type="character" w:styleId="C"><w:rPr><w:b/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="P"><w:basedOn w:val="C"/><w:pPr><w:jc w:val="right"/></w:pPr></w:style>`), DefaultOptions())

	p := r.Find("P")
	require.Len(t, p.Styles, 1)
	assert.Equal(t, model.CSS{"text-align": "right"}, p.Styles[0].Values)
}

func TestTableStyleConditions(t *testing.T) {
	r := NewStyleResolver(parseStyles(t, `
<w:style w:type="table" w:styleId="Grid Table">
  <w:tblPr><w:tblBorders><w:top w:val="single" w:sz="8" w:color="4472C4"/></w:tblBorders></w:tblPr>
  <w:tblStylePr w:type="firstRow">
    <w:rPr><w:b/></w:rPr>
    <w:tcPr><w:shd w:val="clear" w:fill="4472C4"/></w:tcPr>
  </w:tblStylePr>
  <w:tblStylePr w:type="band1Horz"><w:tcPr><w:shd w:fill="D9E2F3"/></w:tcPr></w:tblStylePr>
  <w:tblStylePr w:type="nwCell"><w:rPr><w:i/></w:rPr></w:tblStylePr>
</w:style>`), DefaultOptions())
	rules := r.Rules()

	assert.Equal(t, []model.CSS{{"border-top": "1.00pt solid #4472C4"}}, rulesFor(rules, "table.docx_grid-table td"))
	assert.Equal(t, []model.CSS{{"font-weight": "bold"}}, rulesFor(rules, "table.docx_grid-table.first-row tr.first-row td span"))
	assert.Equal(t, []model.CSS{{"background-color": "#4472C4"}}, rulesFor(rules, "table.docx_grid-table.first-row tr.first-row td"))
	assert.Equal(t, []model.CSS{{"background-color": "#D9E2F3"}}, rulesFor(rules, "table.docx_grid-table:not(.no-hband) tr.odd-row"))
	assert.Len(t, rules, 4)
}

func TestStyleResolverDeepChain(t *testing.T) {
	r := NewStyleResolver(parseStyles(t, `
<w:style w:type="paragraph" w:styleId="C"><w:basedOn w:val="B"/></w:style>
<w:style w:type="paragraph" w:styleId="B"><w:basedOn w:val="A"/><w:rPr><w:i/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="A"><w:rPr><w:b/></w:rPr></w:style>`), DefaultOptions())

	c := r.Find("C")
	span := findSubStyle(c.Styles, TargetRun, "")
	require.NotNil(t, span)
	assert.Equal(t, model.CSS{"font-weight": "bold", "font-style": "italic"}, span.Values)
}

func TestEscapeClassName(t *testing.T) {
	tests := map[string]string{
		"Heading1":              "heading1",
		"Heading 1.Char & More": "heading-1-char-and-more",
		"a..b":                  "a-b",
	}
	for in, want := range tests {
		assert.Equal(t, want, EscapeClassName(in), in)
	}

	r := NewStyleResolver(nil, DefaultOptions())
	assert.Equal(t, "docx", r.CSSName(""))
	assert.Equal(t, "docx_title", r.CSSName("Title"))
	assert.Nil(t, r.Find("Title"))
}
