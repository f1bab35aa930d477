package docxhtml

import (
	"bytes"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tsawler/docxhtml/docx"
	"github.com/tsawler/docxhtml/internal/logger"
	"github.com/tsawler/docxhtml/opc"
	"github.com/tsawler/docxhtml/render"
)

type source int

const (
	sourceFile source = iota
	sourceBytes
	sourceText
)

// Converter provides a fluent interface for converting a Word document to
// HTML. Each configuration method returns a new Converter, so a configured
// Converter can be shared and extended safely.
type Converter struct {
	source   source
	filename string
	data     []byte
	text     string

	options options
}

// clone creates a copy of the Converter with its own options.
func (c *Converter) clone() *Converter {
	return &Converter{
		source:   c.source,
		filename: c.filename,
		data:     c.data,
		text:     c.text,
		options:  c.options.clone(),
	}
}

func (c *Converter) with(fn func(o *docx.Options)) *Converter {
	next := c.clone()
	fn(&next.options.docx)
	return next
}

// ============================================================================
// Configuration Methods (return new Converter instance)
// ============================================================================

// ClassName sets the prefix of every generated CSS class. The default is
// "docx".
//
// Example:
//
//	page, _, err := docxhtml.Open("doc.docx").ClassName("report").HTML()
func (c *Converter) ClassName(name string) *Converter {
	return c.with(func(o *docx.Options) { o.ClassName = name })
}

// InWrapper controls whether the sections are wrapped in a
// <class>-wrapper element. It is on by default.
func (c *Converter) InWrapper(enabled bool) *Converter {
	return c.with(func(o *docx.Options) { o.InWrapper = enabled })
}

// BreakPages controls whether explicit page breaks start a new section.
// It is on by default.
func (c *Converter) BreakPages(enabled bool) *Converter {
	return c.with(func(o *docx.Options) { o.BreakPages = enabled })
}

// IgnoreLastRenderedPageBreak controls whether the page breaks Word
// recorded on its last layout pass are ignored. It is on by default.
func (c *Converter) IgnoreLastRenderedPageBreak(enabled bool) *Converter {
	return c.with(func(o *docx.Options) { o.IgnoreLastRenderedPageBreak = enabled })
}

// RenderChanges shows tracked insertions and deletions as <ins> and <del>.
//
// Example:
//
//	page, _, err := docxhtml.Open("draft.docx").RenderChanges().HTML()
func (c *Converter) RenderChanges() *Converter {
	return c.with(func(o *docx.Options) { o.RenderChanges = true })
}

// UseBase64URL embeds images and fonts as data URLs, producing a
// self-contained page.
func (c *Converter) UseBase64URL() *Converter {
	return c.with(func(o *docx.Options) { o.UseBase64URL = true })
}

// NoHeaders skips page headers.
func (c *Converter) NoHeaders() *Converter {
	return c.with(func(o *docx.Options) { o.RenderHeaders = false })
}

// NoFooters skips page footers.
func (c *Converter) NoFooters() *Converter {
	return c.with(func(o *docx.Options) { o.RenderFooters = false })
}

// NoFootnotes skips footnotes.
func (c *Converter) NoFootnotes() *Converter {
	return c.with(func(o *docx.Options) { o.RenderFootnotes = false })
}

// NoEndnotes skips endnotes.
func (c *Converter) NoEndnotes() *Converter {
	return c.with(func(o *docx.Options) { o.RenderEndnotes = false })
}

// IgnoreWidth leaves the page width out of the section style.
func (c *Converter) IgnoreWidth() *Converter {
	return c.with(func(o *docx.Options) { o.IgnoreWidth = true })
}

// IgnoreHeight leaves the page height out of the section style.
func (c *Converter) IgnoreHeight() *Converter {
	return c.with(func(o *docx.Options) { o.IgnoreHeight = true })
}

// IgnoreFonts skips the fonts embedded in the document.
func (c *Converter) IgnoreFonts() *Converter {
	return c.with(func(o *docx.Options) { o.IgnoreFonts = true })
}

// Debug logs unrecognised markup and broken references. Without a logger
// set through WithLogger, a production logger at debug level is used.
func (c *Converter) Debug() *Converter {
	return c.with(func(o *docx.Options) { o.Debug = true })
}

// Experimental enables tab stop simulation.
func (c *Converter) Experimental() *Converter {
	return c.with(func(o *docx.Options) { o.Experimental = true })
}

// WithLogger sets the logger that receives diagnostics.
func (c *Converter) WithLogger(log *zap.Logger) *Converter {
	return c.with(func(o *docx.Options) { o.Logger = log })
}

// ResourceURL sets the function that maps an embedded image or font to the
// URL written into the page, for callers that store resources themselves.
//
// Example:
//
//	page, _, err := docxhtml.Open("doc.docx").
//	    ResourceURL(func(path string, data []byte) string {
//	        return "/media/" + filepath.Base(path)
//	    }).
//	    HTML()
func (c *Converter) ResourceURL(fn func(path string, data []byte) string) *Converter {
	return c.with(func(o *docx.Options) { o.ResourceURL = fn })
}

// Options returns the options the Converter loads and renders with.
func (c *Converter) Options() docx.Options {
	opts := c.options.docx
	if opts.Debug && opts.Logger == nil {
		opts.Logger = logger.New(true)
	}
	return opts
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Document loads and parses the document. The warnings report problems that
// were tolerated, such as styles based on undefined styles.
//
// Example:
//
//	word, warnings, err := docxhtml.Open("doc.docx").Document()
func (c *Converter) Document() (*docx.Word, []Warning, error) {
	word, err := c.load(c.Options())
	if err != nil {
		return nil, nil, err
	}
	return word, word.Warnings(), nil
}

func (c *Converter) load(opts docx.Options) (*docx.Word, error) {
	pkgOpts := opc.Options{TrimXMLDeclaration: opts.TrimXMLDeclaration}

	var pkg *opc.Package
	switch c.source {
	case sourceFile:
		if c.filename == "" {
			return nil, fmt.Errorf("no filename specified")
		}
		data, err := os.ReadFile(c.filename)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", c.filename, err)
		}
		if pkg, err = opc.Open(data, pkgOpts); err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", c.filename, err)
		}
	case sourceBytes:
		var err error
		if pkg, err = opc.Open(c.data, pkgOpts); err != nil {
			return nil, fmt.Errorf("failed to open package: %w", err)
		}
	case sourceText:
		pkg = opc.FromText(c.text, pkgOpts)
	}

	return docx.Load(pkg, opts)
}

// RenderInto renders the document into body and its stylesheets into
// style. A nil style puts the stylesheets into body. Images and fonts are
// loaded before RenderInto returns.
//
// Example:
//
//	warnings, err := docxhtml.Open("doc.docx").RenderInto(body, head)
func (c *Converter) RenderInto(body, style *html.Node) ([]Warning, error) {
	if body == nil {
		return nil, render.ErrNoTarget
	}
	opts := c.Options()
	word, err := c.load(opts)
	if err != nil {
		return nil, err
	}

	res, err := render.New(word, opts).Render(body, style)
	if err != nil {
		return word.Warnings(), err
	}
	if err := res.Wait(); err != nil {
		return word.Warnings(), fmt.Errorf("failed to load resources: %w", err)
	}
	return word.Warnings(), nil
}

// HTML renders the document as a complete HTML page with the stylesheets
// in its head.
//
// Example:
//
//	page, warnings, err := docxhtml.Open("doc.docx").UseBase64URL().HTML()
func (c *Converter) HTML() (string, []Warning, error) {
	opts := c.Options()
	word, err := c.load(opts)
	if err != nil {
		return "", nil, err
	}

	doc, head, body := newPage()
	res, err := render.New(word, opts).Render(body, head)
	if err != nil {
		return "", word.Warnings(), err
	}
	if err := res.Wait(); err != nil {
		return "", word.Warnings(), fmt.Errorf("failed to load resources: %w", err)
	}
	addPageMeta(head, pageTitle(word))

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return "", word.Warnings(), fmt.Errorf("failed to write page: %w", err)
	}
	return buf.String(), word.Warnings(), nil
}

// pageTitle returns the document title from the core properties.
func pageTitle(word *docx.Word) string {
	if word.CorePropsPart == nil || word.CorePropsPart.Props == nil {
		return ""
	}
	return word.CorePropsPart.Props.Title
}

// newPage builds an empty page and returns it with its head and body.
func newPage() (doc, head, body *html.Node) {
	doc = &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := &html.Node{Type: html.ElementNode, DataAtom: atom.Html, Data: "html"}
	head = &html.Node{Type: html.ElementNode, DataAtom: atom.Head, Data: "head"}
	body = &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	doc.AppendChild(root)
	root.AppendChild(head)
	root.AppendChild(body)
	return doc, head, body
}

// addPageMeta puts the charset and title ahead of the stylesheets. It runs
// after rendering, which replaces the children of head.
func addPageMeta(head *html.Node, title string) {
	meta := &html.Node{Type: html.ElementNode, DataAtom: atom.Meta, Data: "meta",
		Attr: []html.Attribute{{Key: "charset", Val: "utf-8"}}}

	if title != "" {
		t := &html.Node{Type: html.ElementNode, DataAtom: atom.Title, Data: "title"}
		t.AppendChild(&html.Node{Type: html.TextNode, Data: title})
		head.InsertBefore(t, head.FirstChild)
	}
	head.InsertBefore(meta, head.FirstChild)
}
