package docx

import (
	"sync"

	"go.uber.org/zap"

	"github.com/tsawler/docxhtml/model"
	"github.com/tsawler/docxhtml/xmltree"
)

// Body is a parsed block container: the main document, a header or footer,
// or the notes of a notes part.
type Body struct {
	Tree *model.Tree
	Root model.NodeID
}

// warningLog collects warnings from parts parsed concurrently.
type warningLog struct {
	mu    sync.Mutex
	list  []Warning
	log   *zap.Logger
	debug bool
}

func newWarningLog(opts *Options) *warningLog {
	return &warningLog{log: opts.logger(), debug: opts.Debug}
}

func (w *warningLog) add(kind WarningKind, part, msg string) {
	w.mu.Lock()
	w.list = append(w.list, Warning{Kind: kind, Part: part, Message: msg})
	w.mu.Unlock()

	if w.debug {
		w.log.Warn(msg, zap.String("part", part), zap.Stringer("kind", kind))
	}
}

func (w *warningLog) snapshot() []Warning {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]Warning(nil), w.list...)
}

// Parser turns WordprocessingML elements into model nodes. A Parser is
// bound to one part at a time; begin returns a copy for a new part.
type Parser struct {
	opts *Options
	warn *warningLog
	part string
	tree *model.Tree
}

// NewParser returns a parser configured by opts.
func NewParser(opts Options) *Parser {
	return &Parser{opts: &opts, warn: newWarningLog(&opts)}
}

func (p *Parser) begin(part string) *Parser {
	c := *p
	c.part = part
	c.tree = model.NewTree()
	return &c
}

// Warnings returns the warnings recorded so far.
func (p *Parser) Warnings() []Warning {
	return p.warn.snapshot()
}

// unknown reports unrecognised markup. Only debug runs record it.
func (p *Parser) unknown(what string) {
	if !p.opts.Debug {
		return
	}
	p.opts.logger().Debug("unknown element", zap.String("part", p.part), zap.String("element", what))
	p.warn.add(WarnUnknownElement, p.part, "unknown element "+what)
}

func (p *Parser) add(n model.Node) model.NodeID {
	return p.tree.Add(n)
}

func (p *Parser) node(id model.NodeID) *model.Node {
	return p.tree.Node(id)
}

// ParseDocument parses the root of word/document.xml.
func (p *Parser) ParseDocument(root *xmltree.Element) Body {
	p = p.begin(p.part)
	body := root.Element("body")

	doc := model.Node{Kind: model.KindDocument, Style: model.CSS{}}
	if bg := root.Element("background"); bg != nil {
		if color := colorAttr(bg, "color", "", autoColor); color != "" {
			doc.Style["background-color"] = color
		}
	}
	if sectPr := body.Element("sectPr"); sectPr != nil {
		doc.Section = parseSectionProperties(sectPr)
	}

	id := p.add(doc)
	p.tree.Append(id, p.parseBodyElements(body)...)
	p.tree.AttachParents(id)
	return Body{Tree: p.tree, Root: id}
}

// ParseHeaderFooter parses a header or footer part.
func (p *Parser) ParseHeaderFooter(root *xmltree.Element, kind model.Kind) Body {
	p = p.begin(p.part)
	id := p.add(model.Node{Kind: kind})
	p.tree.Append(id, p.parseBodyElements(root)...)
	p.tree.AttachParents(id)
	return Body{Tree: p.tree, Root: id}
}

// ParseNotes parses a footnotes or endnotes part. Each note becomes a child
// of the returned root, whose kind is the note kind.
func (p *Parser) ParseNotes(root *xmltree.Element, elemName string, kind model.Kind) Body {
	p = p.begin(p.part)
	container := p.add(model.Node{Kind: model.KindDocument})

	for _, el := range root.Elements(elemName) {
		note := p.add(model.Node{
			Kind: kind,
			ID:   el.Attr("id"),
			Type: el.Attr("type"),
		})
		p.tree.Append(note, p.parseBodyElements(el)...)
		p.tree.Append(container, note)
	}

	p.tree.AttachParents(container)
	return Body{Tree: p.tree, Root: container}
}

func (p *Parser) parseBodyElements(el *xmltree.Element) []model.NodeID {
	var children []model.NodeID
	for _, c := range el.Elements() {
		children = append(children, p.parseBodyElement(c)...)
	}
	return children
}

func (p *Parser) parseBodyElement(c *xmltree.Element) []model.NodeID {
	switch c.Local() {
	case "p":
		return []model.NodeID{p.parseParagraph(c)}
	case "tbl":
		return []model.NodeID{p.parseTable(c)}
	case "sdt":
		return p.parseBodyElements(c.Element("sdtContent"))
	case "customXml":
		return p.parseBodyElements(c)
	case "AlternateContent":
		if alt := alternateContent(c); alt != nil {
			return p.parseBodyElement(alt)
		}
	}
	return nil
}

// parseParagraph parses a w:p element.
func (p *Parser) parseParagraph(el *xmltree.Element) model.NodeID {
	id := p.add(model.Node{Kind: model.KindParagraph, Paragraph: &model.ParagraphProperties{}})
	p.tree.Append(id, p.parseParagraphContent(el, id)...)
	return id
}

// parseParagraphContent parses the inline children of a paragraph, or of
// a container that appears inside one (ins, del, sdtContent, smartTag).
func (p *Parser) parseParagraphContent(el *xmltree.Element, paragraph model.NodeID) []model.NodeID {
	var children []model.NodeID

	for _, c := range el.Elements() {
		switch c.Local() {
		case "pPr":
			if paragraph != model.NoNode {
				p.parseParagraphProperties(c, paragraph)
			}
		case "r":
			children = append(children, p.parseRun(c))
		case "hyperlink":
			children = append(children, p.parseHyperlink(c))
		case "bookmarkStart":
			children = append(children, p.add(model.Node{
				Kind:     model.KindBookmarkStart,
				ID:       c.Attr("id"),
				Name:     c.Attr("name"),
				ColFirst: c.IntAttr("colFirst", 0),
				ColLast:  c.IntAttr("colLast", 0),
			}))
		case "bookmarkEnd":
			children = append(children, p.add(model.Node{Kind: model.KindBookmarkEnd, ID: c.Attr("id")}))
		case "oMath", "oMathPara":
			children = append(children, p.parseMathElement(c))
		case "sdt":
			children = append(children, p.parseParagraphContent(c.Element("sdtContent"), model.NoNode)...)
		case "smartTag", "customXml":
			children = append(children, p.parseParagraphContent(c, model.NoNode)...)
		case "fldSimple":
			children = append(children, p.parseSimpleField(c)...)
		case "ins":
			id := p.add(model.Node{Kind: model.KindInserted})
			p.tree.Append(id, p.parseParagraphContent(c, model.NoNode)...)
			children = append(children, id)
		case "del":
			id := p.add(model.Node{Kind: model.KindDeleted})
			p.tree.Append(id, p.parseParagraphContent(c, model.NoNode)...)
			children = append(children, id)
		}
	}

	return children
}

// parseSimpleField keeps a paragraph-level simple field: a run holding the
// field instruction followed by the runs Word cached as its result.
func (p *Parser) parseSimpleField(el *xmltree.Element) []model.NodeID {
	run := p.add(model.Node{Kind: model.KindRun})
	p.tree.Append(run, p.add(model.Node{
		Kind:  model.KindSimpleField,
		Text:  el.Attr("instr"),
		Lock:  el.BoolAttr("lock", false),
		Dirty: el.BoolAttr("dirty", false),
	}))

	out := []model.NodeID{run}
	for _, r := range el.Elements("r") {
		out = append(out, p.parseRun(r))
	}
	return out
}

func (p *Parser) parseParagraphProperties(el *xmltree.Element, id model.NodeID) {
	props := p.node(id).Paragraph
	var className string

	style := p.parseProperties(el, nil, nil, func(c *xmltree.Element) bool {
		if parseParagraphProperty(c, props) {
			return true
		}
		switch c.Local() {
		case "cnfStyle":
			className = classNameOfCnfStyle(c)
		case "framePr":
			// Only drop caps have a rendition; see below.
		case "rPr":
		default:
			return false
		}
		return true
	})

	if fp := el.Element("framePr"); fp != nil && fp.Attr("dropCap") == "drop" {
		style["float"] = "left"
	}

	n := p.node(id)
	n.Style = style
	n.StyleName = props.StyleName
	n.ClassName = className
}

// parseHyperlink parses w:hyperlink. Internal links carry an anchor,
// external ones a relationship id resolved at render time.
func (p *Parser) parseHyperlink(el *xmltree.Element) model.NodeID {
	n := model.Node{Kind: model.KindHyperlink, ID: el.Attr("id")}
	if anchor := el.Attr("anchor"); anchor != "" {
		n.Anchor = anchor
	}

	id := p.add(n)
	for _, c := range el.Elements() {
		switch c.Local() {
		case "r":
			p.tree.Append(id, p.parseRun(c))
		case "ins", "smartTag":
			p.tree.Append(id, p.parseParagraphContent(c, model.NoNode)...)
		}
	}
	return id
}
