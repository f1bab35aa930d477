package render

import (
	"archive/zip"
	"bytes"
	"sort"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tsawler/docxhtml/docx"
	"github.com/tsawler/docxhtml/opc"
)

const ns = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" ` +
	`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
	`xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing" ` +
	`xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" ` +
	`xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture" ` +
	`xmlns:m="http://schemas.openxmlformats.org/officeDocument/2006/math" ` +
	`xmlns:v="urn:schemas-microsoft-com:vml" ` +
	`xmlns:o="urn:schemas-microsoft-com:office:office"`

// testPackage is a package under construction. Parts of the main document
// are added with their relationships.
type testPackage struct {
	files   map[string]string
	docRels []string
}

func newTestPackage(body string) *testPackage {
	return &testPackage{files: map[string]string{
		"_rels/.rels": rels(rel("rId1", docx.RelOfficeDocument, "word/document.xml")),
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document ` + ns + `><w:body>` + body + `</w:body></w:document>`,
	}}
}

// part adds a part related to the main document.
func (p *testPackage) part(id, typ, target, content string) *testPackage {
	p.docRels = append(p.docRels, rel(id, typ, target))
	if content != "" {
		p.files["word/"+target] = content
	}
	return p
}

// file adds a file that is not related to the main document.
func (p *testPackage) file(name, content string) *testPackage {
	p.files[name] = content
	return p
}

func (p *testPackage) load(t *testing.T, opts docx.Options) *docx.Word {
	t.Helper()

	files := make(map[string]string, len(p.files)+1)
	for k, v := range p.files {
		files[k] = v
	}
	if len(p.docRels) > 0 {
		files["word/_rels/document.xml.rels"] = rels(p.docRels...)
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(files[name]))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	pkg, err := opc.Open(buf.Bytes(), opc.Options{TrimXMLDeclaration: true})
	require.NoError(t, err)
	word, err := docx.Load(pkg, opts)
	require.NoError(t, err)
	return word
}

func rels(entries ...string) string {
	return `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		strings.Join(entries, "") + `</Relationships>`
}

func rel(id, typ, target string) string {
	return `<Relationship Id="` + id + `" Type="` + typ + `" Target="` + target + `"/>`
}

func bodyNode() *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
}

// renderWord renders word with opts into a fresh body and waits for its
// resources.
func renderWord(t *testing.T, word *docx.Word, opts docx.Options) (*goquery.Document, *Result) {
	t.Helper()

	body := bodyNode()
	res, err := New(word, opts).Render(body, nil)
	require.NoError(t, err)
	require.NoError(t, res.Wait())
	return goquery.NewDocumentFromNode(body), res
}

// renderBody loads a document made of body alone and renders it.
func renderBody(t *testing.T, body string, opts docx.Options) *goquery.Document {
	t.Helper()
	doc, _ := renderWord(t, newTestPackage(body).load(t, opts), opts)
	return doc
}

// styles returns the text of every <style> element.
func styles(doc *goquery.Document) string {
	var sb strings.Builder
	doc.Find("style").Each(func(_ int, s *goquery.Selection) {
		sb.WriteString(s.Text())
	})
	return sb.String()
}

func para(text string) string {
	return `<w:p><w:r><w:t xml:space="preserve">` + text + `</w:t></w:r></w:p>`
}
