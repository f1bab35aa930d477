package render

import (
	"errors"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"

	"github.com/tsawler/docxhtml/docx"
	"github.com/tsawler/docxhtml/layout"
	"github.com/tsawler/docxhtml/model"
)

// ErrNoTarget is returned when Render is given no element to render into.
var ErrNoTarget = errors.New("render: no target element")

// Renderer turns a loaded document into HTML nodes.
type Renderer struct {
	word     *docx.Word
	opts     docx.Options
	log      *zap.Logger
	splitter *layout.SectionSplitter
}

// New creates a renderer for word. opts usually equals word.Options, but
// the render options may differ from the ones the package was loaded with.
func New(word *docx.Word, opts docx.Options) *Renderer {
	if opts.ClassName == "" {
		opts.ClassName = docx.DefaultOptions().ClassName
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{
		word: word,
		opts: opts,
		log:  log.Named("render"),
		splitter: layout.NewSectionSplitter(layout.SplitterConfig{
			BreakPages:                  opts.BreakPages,
			IgnoreLastRenderedPageBreak: opts.IgnoreLastRenderedPageBreak,
		}, word.Styles),
	}
}

// Result reports on one Render call. Images, bullet pictures and fonts are
// still loading when Render returns; Wait blocks until every one of them
// has been written into the tree.
type Result struct {
	// Sections is the number of <section> elements produced.
	Sections int

	mu sync.Mutex
	g  errgroup.Group
}

// Wait blocks until all resources are loaded and returns the first load
// error. The rendered tree must not be read or modified before Wait
// returns.
func (res *Result) Wait() error {
	return res.g.Wait()
}

// patch applies fn to the tree under the result's lock.
func (res *Result) patch(fn func()) {
	res.mu.Lock()
	defer res.mu.Unlock()
	fn()
}

// Render replaces the children of body with the rendered document and the
// children of styleTarget with the generated stylesheets. A nil
// styleTarget puts the styles into body.
func (r *Renderer) Render(body, styleTarget *html.Node) (*Result, error) {
	if body == nil {
		return nil, ErrNoTarget
	}
	if r.word.DocumentPart == nil {
		return nil, docx.ErrNoDocument
	}
	if styleTarget == nil {
		styleTarget = body
	}

	removeChildren(styleTarget)
	removeChildren(body)

	st := newRenderState()
	st.styleTarget = styleTarget

	cls := r.opts.ClassName
	appendStyle(styleTarget, "docxhtml predefined styles", defaultCSS(cls))

	if r.word.ThemePart != nil {
		appendStyle(styleTarget, "docxhtml document theme values", themeCSS(cls, r.word.ThemePart.Theme))
	}
	if r.word.StylesPart != nil {
		appendStyle(styleTarget, "docxhtml document styles", documentCSS(r.word.Styles))
	}
	if r.word.NumberingPart != nil {
		css, bullets := r.numberingCSS()
		appendStyle(styleTarget, "docxhtml document numbering styles", css)
		for _, b := range bullets {
			st.jobs = append(st.jobs, r.bulletLoader(st, b))
		}
	}
	if !r.opts.IgnoreFonts && r.word.FontTablePart != nil {
		for _, f := range r.word.FontTablePart.Fonts {
			for _, ref := range f.Embedded {
				st.jobs = append(st.jobs, r.fontLoader(st, f.Name, ref))
			}
		}
	}

	sections := r.renderSections(st)
	if r.opts.InWrapper {
		wrapper := element("div")
		setAttr(wrapper, "class", cls+"-wrapper")
		appendChildren(wrapper, sections...)
		body.AppendChild(wrapper)
	} else {
		appendChildren(body, sections...)
	}

	if r.opts.Experimental {
		r.layoutTabStops(st)
	}

	res := &Result{Sections: len(sections)}
	r.startResources(st, res)
	r.log.Debug("rendered document",
		zap.Int("sections", len(sections)),
		zap.Int("resources", len(st.jobs)))
	return res, nil
}

// appendStyle adds a labelled <style> element to target.
func appendStyle(target *html.Node, label, css string) {
	target.AppendChild(comment(label))
	s := element("style")
	s.AppendChild(text(css))
	target.AppendChild(s)
}

// renderSections splits a copy of the document body and renders one
// <section> per group. The loaded body is never modified, so renderers
// sharing a document can run concurrently.
func (r *Renderer) renderSections(st *renderState) []*html.Node {
	body := r.word.DocumentPart.Body
	tree := body.Tree.Copy()
	docStyle := tree.Node(body.Root).Style
	groups := r.splitter.Split(tree, body.Root)

	st.tree = tree
	st.part = r.word.DocumentPart.Part

	var result []*html.Node
	for i, group := range groups {
		st.footnoteIDs = nil
		st.contentWidth = contentWidth(group.Props)

		section := r.createSection(group.Props)
		setStyle(section, docStyle)

		if r.opts.RenderHeaders {
			r.renderHeaderFooter(st, group.Props.HeaderRefs, group.Props, len(result), group.FirstOfSection, section)
		}

		article := element("article")
		for _, id := range group.Elements {
			appendChildren(article, r.renderElement(st, id)...)
		}
		section.AppendChild(article)

		if r.opts.RenderFootnotes {
			r.renderNotes(st, st.footnoteIDs, r.word.FootnotesPart, section)
		}
		if r.opts.RenderEndnotes && i == len(groups)-1 {
			r.renderNotes(st, st.endnoteIDs, r.word.EndnotesPart, section)
		}

		if r.opts.RenderFooters {
			r.renderHeaderFooter(st, group.Props.FooterRefs, group.Props, len(result), group.FirstOfSection, section)
		}

		result = append(result, section)
	}
	return result
}

// createSection builds the page box of a section.
func (r *Renderer) createSection(props *model.SectionProperties) *html.Node {
	elem := element("section")
	setAttr(elem, "class", r.opts.ClassName)
	if props == nil {
		return elem
	}

	css := model.CSS{}
	if m := props.PageMargins; m != nil {
		css["padding-left"] = m.Left
		css["padding-right"] = m.Right
		css["padding-top"] = m.Top
		css["padding-bottom"] = m.Bottom
	}
	if size := props.PageSize; size != nil {
		if !r.opts.IgnoreWidth {
			css["width"] = size.Width
		}
		if !r.opts.IgnoreHeight {
			css["min-height"] = size.Height
		}
	}
	if cols := props.Columns; cols != nil && cols.NumberOfColumns > 0 {
		css["column-count"] = itoa(cols.NumberOfColumns)
		css["column-gap"] = cols.Space
		if cols.Separator {
			css["column-rule"] = "1px solid black"
		}
	}
	setStyle(elem, css)
	return elem
}

// selectHeaderFooter picks the reference that applies to a page: the first
// page variant on the first page of a title-page section, the even variant
// on even pages, the default otherwise.
func selectHeaderFooter(refs []model.HeaderFooterRef, props *model.SectionProperties, page int, firstOfSection bool) *model.HeaderFooterRef {
	find := func(typ string) *model.HeaderFooterRef {
		for i := range refs {
			if refs[i].Type == typ {
				return &refs[i]
			}
		}
		return nil
	}

	if props.TitlePage && firstOfSection {
		if ref := find("first"); ref != nil {
			return ref
		}
	}
	if page%2 == 1 {
		if ref := find("even"); ref != nil {
			return ref
		}
	}
	return find("default")
}

func (r *Renderer) renderHeaderFooter(st *renderState, refs []model.HeaderFooterRef, props *model.SectionProperties, page int, firstOfSection bool, into *html.Node) {
	if len(refs) == 0 {
		return
	}
	ref := selectHeaderFooter(refs, props, page, firstOfSection)
	if ref == nil {
		return
	}
	part := r.word.FindPartByRelID(ref.ID, r.word.DocumentPart.Part)
	if part == nil {
		r.log.Debug("header or footer part not found", zap.String("id", ref.ID))
		return
	}
	hf, ok := part.Payload.(*docx.HeaderFooterPart)
	if !ok {
		return
	}

	st.enter(hf.Body.Tree, part, func() {
		appendChildren(into, r.renderElement(st, hf.Body.Root)...)
	})
}

// renderNotes renders the referenced notes of a notes part as a list.
func (r *Renderer) renderNotes(st *renderState, ids []string, notes *docx.NotesPart, into *html.Node) {
	if notes == nil || len(ids) == 0 {
		return
	}
	var items []*html.Node
	st.enter(notes.Body.Tree, notes.Part, func() {
		for _, id := range ids {
			note, ok := notes.Note(id)
			if !ok {
				continue
			}
			items = append(items, r.renderElement(st, note)...)
		}
	})
	if len(items) == 0 {
		return
	}
	list := element("ol")
	appendChildren(list, items...)
	into.AppendChild(list)
}
