package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/docxhtml/model"
	"github.com/tsawler/docxhtml/opc"
)

// buildPackage zips files into an in-memory package.
func buildPackage(t *testing.T, files map[string]string) *opc.Package {
	t.Helper()

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
	return pkg
}

func rels(entries ...string) string {
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	buf.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	for _, e := range entries {
		buf.WriteString(e)
	}
	buf.WriteString(`</Relationships>`)
	return buf.String()
}

func rel(id, typ, target string) string {
	return `<Relationship Id="` + id + `" Type="` + typ + `" Target="` + target + `"/>`
}

func document(inner string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document ` + namespaces + `><w:body>` + inner + `</w:body></w:document>`
}

const (
	relCustomXML = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/customXml"
	testFontKey  = "{8F3B5E4A-1C2D-4E5F-9A8B-7C6D5E4F3A2B}"
)

func samplePackage(t *testing.T) *opc.Package {
	t.Helper()
	return buildPackage(t, map[string]string{
		"_rels/.rels": rels(
			rel("rId1", RelOfficeDocument, "word/document.xml"),
			rel("rId2", RelCoreProperties, "docProps/core.xml"),
		),
		"docProps/core.xml": `<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/"><dc:title>Report</dc:title></cp:coreProperties>`,
		"word/document.xml": document(`<w:p><w:r><w:t>Body</w:t></w:r></w:p>`),
		"word/_rels/document.xml.rels": rels(
			rel("rId1", RelStyles, "styles.xml"),
			rel("rId2", RelNumbering, "numbering.xml"),
			rel("rId3", RelFootnotes, "footnotes.xml"),
			rel("rId4", RelHeader, "header1.xml"),
			rel("rId5", RelHeader, "header1.xml"),
			rel("rId6", RelImage, "media/image1.png"),
			rel("rId7", RelFontTable, "fontTable.xml"),
			rel("rId8", RelSettings, "/word/settings.xml"),
			`<Relationship Id="rId9" Type="`+RelHyperlink+`" Target="https://example.com/" TargetMode="External"/>`,
			rel("rId10", RelEndnotes, "endnotes.xml"),
			rel("rId11", relCustomXML, "../customXml/item1.xml"),
		),
		"word/styles.xml": `<w:styles ` + namespaces + `>
  <w:style w:type="paragraph" w:styleId="Normal"><w:rPr><w:b/></w:rPr></w:style>
  <w:style w:type="paragraph" w:styleId="Quote"><w:basedOn w:val="Missing"/></w:style>
</w:styles>`,
		"word/numbering.xml": `<w:numbering ` + namespaces + `>
  <w:abstractNum w:abstractNumId="0"><w:lvl w:ilvl="0"><w:numFmt w:val="decimal"/><w:lvlText w:val="%1."/></w:lvl></w:abstractNum>
  <w:num w:numId="1"><w:abstractNumId w:val="0"/></w:num>
</w:numbering>`,
		"word/footnotes.xml": `<w:footnotes ` + namespaces + `><w:footnote w:id="1"><w:p><w:r><w:t>Note</w:t></w:r></w:p></w:footnote></w:footnotes>`,
		"word/header1.xml":   `<w:hdr ` + namespaces + `><w:p><w:r><w:t>Head</w:t></w:r></w:p></w:hdr>`,
		"word/_rels/header1.xml.rels": rels(
			rel("rId1", RelImage, "media/logo.png"),
			rel("rId2", RelOfficeDocument, "document.xml"),
		),
		"word/media/image1.png": "image-bytes",
		"word/media/logo.png":   "logo-bytes",
		"word/fontTable.xml": `<w:fonts ` + namespaces + `>
  <w:font w:name="Calibri"><w:embedRegular r:id="rId1" w:fontKey="` + testFontKey + `"/></w:font>
</w:fonts>`,
		"word/_rels/fontTable.xml.rels": rels(rel("rId1", "http://schemas.openxmlformats.org/officeDocument/2006/relationships/font", "fonts/font1.odttf")),
		"word/fonts/font1.odttf":        obfuscatedFont(t),
		"word/settings.xml":             `<w:settings ` + namespaces + `><w:defaultTabStop w:val="720"/></w:settings>`,
		"customXml/item1.xml":           `<root/>`,
	})
}

// fontData is longer than the obfuscated prefix.
var fontData = []byte("0123456789abcdefghijklmnopqrstuvwxyzABCDEFGH")

func obfuscatedFont(t *testing.T) string {
	t.Helper()
	// The transform is its own inverse.
	data, err := Deobfuscate(fontData, testFontKey)
	require.NoError(t, err)
	return string(data)
}

func TestLoadPartGraph(t *testing.T) {
	w, err := Load(samplePackage(t), DefaultOptions())
	require.NoError(t, err)

	require.NotNil(t, w.DocumentPart)
	assert.Equal(t, "word/document.xml", w.DocumentPart.Path)
	assert.Equal(t, "Body", w.DocumentPart.Body.Tree.TextContent(w.DocumentPart.Body.Root))

	require.NotNil(t, w.CorePropsPart)
	assert.Equal(t, "Report", w.CorePropsPart.Props.Title)

	require.NotNil(t, w.StylesPart)
	require.NotNil(t, w.NumberingPart)
	require.NotNil(t, w.FootnotesPart)
	require.NotNil(t, w.FontTablePart)
	require.NotNil(t, w.SettingsPart)
	assert.Equal(t, "36.00pt", w.SettingsPart.Settings.DefaultTabStop)
	assert.Nil(t, w.EndnotesPart, "absent targets are skipped")
	assert.Nil(t, w.ThemePart)

	note, ok := w.FootnotesPart.Note("1")
	require.True(t, ok)
	assert.Equal(t, "Note", w.FootnotesPart.Body.Tree.TextContent(note))

	assert.Equal(t, []string{
		"word/document.xml",
		"docProps/core.xml",
		"word/styles.xml",
		"word/numbering.xml",
		"word/footnotes.xml",
		"word/header1.xml",
		"word/fontTable.xml",
		"word/settings.xml",
	}, partPaths(w))
}

func partPaths(w *Word) []string {
	var paths []string
	for _, p := range w.Parts {
		paths = append(paths, p.Path)
	}
	return paths
}

func TestLoadResolvesStylesAndNumbering(t *testing.T) {
	w, err := Load(samplePackage(t), DefaultOptions())
	require.NoError(t, err)

	require.NotNil(t, w.Styles.Find("Normal"))
	assert.Equal(t, "docx_normal", w.Styles.Find("Normal").CSSName)
	require.NotNil(t, w.Numbering.Level("1", 0))

	// A broken basedOn is tolerated and reported.
	assert.Equal(t, []WarningKind{WarnMissingBaseStyle}, warningKinds(w.Warnings()))
}

func TestLoadRelationshipLookups(t *testing.T) {
	w, err := Load(samplePackage(t), DefaultOptions())
	require.NoError(t, err)
	doc := w.DocumentPart.Part

	header := w.FindPartByRelID("rId4", doc)
	require.NotNil(t, header)
	assert.Equal(t, PartHeader, header.Kind)
	assert.Same(t, header, w.FindPartByRelID("rId5", doc), "shared targets load once")
	_, isHeader := header.Payload.(*HeaderFooterPart)
	assert.True(t, isHeader)

	assert.Same(t, doc, w.FindPartByRelID("rId1", nil))
	assert.Nil(t, w.FindPartByRelID("rId9", doc), "external targets are not parts")
	assert.Nil(t, w.FindPartByRelID("rId99", doc))

	assert.Equal(t, "word/media/image1.png", w.PathByID(doc, "rId6"))
	assert.Equal(t, "https://example.com/", w.PathByID(doc, "rId9"))
	assert.Empty(t, w.PathByID(doc, "rId99"))

	data, path, err := w.LoadResource(doc, "rId6")
	require.NoError(t, err)
	assert.Equal(t, "word/media/image1.png", path)
	assert.Equal(t, "image-bytes", string(data))

	// Header images resolve against the header's own relationships.
	data, path, err = w.LoadResource(header, "rId1")
	require.NoError(t, err)
	assert.Equal(t, "word/media/logo.png", path)
	assert.Equal(t, "logo-bytes", string(data))

	data, _, err = w.LoadResource(doc, "rId99")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestLoadFont(t *testing.T) {
	w, err := Load(samplePackage(t), DefaultOptions())
	require.NoError(t, err)

	fonts := w.FontTablePart.Fonts
	require.Len(t, fonts, 1)
	require.Len(t, fonts[0].Embedded, 1)
	ref := fonts[0].Embedded[0]
	assert.Equal(t, "regular", ref.Type)

	data, path, err := w.LoadFont(ref.ID, ref.Key)
	require.NoError(t, err)
	assert.Equal(t, "word/fonts/font1.odttf", path)
	assert.Equal(t, fontData, data)

	_, _, err = w.LoadFont(ref.ID, "not-a-guid")
	assert.Error(t, err)
}

func TestLoadUnknownParts(t *testing.T) {
	w, err := Load(samplePackage(t), DefaultOptions())
	require.NoError(t, err)
	assert.NotContains(t, partPaths(w), "customXml/item1.xml")

	opts := DefaultOptions()
	opts.LoadUnknownParts = true
	w, err = Load(samplePackage(t), opts)
	require.NoError(t, err)

	raw, ok := w.PartsByPath["customXml/item1.xml"]
	require.True(t, ok)
	assert.Equal(t, PartUnknown, raw.Kind)
	assert.Equal(t, "<root/>", string(raw.Payload.(*RawPart).Data))

	// Images are relationships of unknown type too.
	assert.Contains(t, partPaths(w), "word/media/image1.png")
}

func TestLoadDefaultDocumentPath(t *testing.T) {
	pkg := buildPackage(t, map[string]string{
		"word/document.xml": document(`<w:p/>`),
	})

	w, err := Load(pkg, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"word/document.xml"}, partPaths(w))
	assert.Empty(t, w.Styles.Styles())
	assert.Empty(t, w.Numbering.Levels())
}

func TestLoadWithoutDocument(t *testing.T) {
	pkg := buildPackage(t, map[string]string{
		"_rels/.rels":       rels(rel("rId1", RelOfficeDocument, "word/main.xml")),
		"word/document.xml": document(``),
	})

	_, err := Load(pkg, DefaultOptions())
	assert.True(t, errors.Is(err, ErrNoDocument))
}

func TestLoadMalformedPart(t *testing.T) {
	pkg := buildPackage(t, map[string]string{
		"word/document.xml":            document(``),
		"word/_rels/document.xml.rels": rels(rel("rId1", RelStyles, "styles.xml")),
		"word/styles.xml":              `<w:styles><w:style>`,
	})

	_, err := Load(pkg, DefaultOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing word/styles.xml")
}

func TestLoadSingleDocument(t *testing.T) {
	pkg := opc.FromText(document(`<w:p><w:r><w:t>flat</w:t></w:r></w:p>`), opc.Options{TrimXMLDeclaration: true})

	w, err := Load(pkg, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"word/document.xml"}, partPaths(w))
	assert.Equal(t, "flat", w.DocumentPart.Body.Tree.TextContent(w.DocumentPart.Body.Root))
}

func TestSaveKeptPart(t *testing.T) {
	opts := DefaultOptions()
	opts.KeepOrigin = true
	w, err := Load(samplePackage(t), opts)
	require.NoError(t, err)

	root := w.DocumentPart.Root()
	require.NotNil(t, root)
	root.Element("body").Element("p").Element("r").Element("t").Text = "Edited"
	require.NoError(t, w.DocumentPart.Save())

	var buf bytes.Buffer
	require.NoError(t, w.Save(&buf))

	pkg, err := opc.Open(buf.Bytes(), opc.Options{TrimXMLDeclaration: true})
	require.NoError(t, err)
	reloaded, err := Load(pkg, DefaultOptions())
	require.NoError(t, err)

	body := reloaded.DocumentPart.Body
	assert.Equal(t, "Edited", body.Tree.TextContent(body.Root))

	// Untouched parts survive byte for byte.
	before, _, err := w.Package.Load("word/styles.xml")
	require.NoError(t, err)
	after, _, err := pkg.Load("word/styles.xml")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestPartSaveRequiresKeptXML(t *testing.T) {
	w, err := Load(samplePackage(t), DefaultOptions())
	require.NoError(t, err)

	assert.Nil(t, w.DocumentPart.Root())
	assert.Error(t, w.DocumentPart.Save())
}

func TestPartKindString(t *testing.T) {
	assert.Equal(t, "document", PartDocument.String())
	assert.Equal(t, "footer", PartFooter.String())
	assert.Equal(t, "unknown", PartKind(99).String())
}

func TestHeaderPartBody(t *testing.T) {
	w, err := Load(samplePackage(t), DefaultOptions())
	require.NoError(t, err)

	header := w.PartsByPath["word/header1.xml"].Payload.(*HeaderFooterPart)
	assert.Equal(t, model.KindHeader, header.Body.Tree.Kind(header.Body.Root))
	assert.Equal(t, "word/", header.Folder())
}
