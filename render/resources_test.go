package render

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/tsawler/docxhtml/docx"
)

func encodeImage(t *testing.T, encode func(*bytes.Buffer, image.Image) error) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	return buf.String()
}

func pngData(t *testing.T) string {
	return encodeImage(t, func(b *bytes.Buffer, img image.Image) error { return png.Encode(b, img) })
}

func TestRenderImageURL(t *testing.T) {
	pkg := func(target, content string) *testPackage {
		return newTestPackage(picture("rId1")).part("rId1", docx.RelImage, target, content)
	}

	t.Run("package path", func(t *testing.T) {
		opts := docx.DefaultOptions()
		doc, _ := renderWord(t, pkg("media/image1.png", "png").load(t, opts), opts)
		src, ok := doc.Find("img").Attr("src")
		require.True(t, ok)
		assert.Equal(t, "word/media/image1.png", src)
	})

	t.Run("callback", func(t *testing.T) {
		opts := docx.DefaultOptions()
		var seen []byte
		opts.ResourceURL = func(path string, data []byte) string {
			seen = data
			return "https://cdn.example.com/" + path
		}
		doc, _ := renderWord(t, pkg("media/image1.png", "png").load(t, opts), opts)
		src, _ := doc.Find("img").Attr("src")
		assert.Equal(t, "https://cdn.example.com/word/media/image1.png", src)
		assert.Equal(t, []byte("png"), seen)
	})

	t.Run("data url", func(t *testing.T) {
		opts := docx.DefaultOptions()
		opts.UseBase64URL = true
		data := pngData(t)
		doc, _ := renderWord(t, pkg("media/image1.png", data).load(t, opts), opts)
		src, _ := doc.Find("img").Attr("src")
		assert.Equal(t, "data:image/png;base64,"+base64.StdEncoding.EncodeToString([]byte(data)), src)
	})

	t.Run("sniffed type", func(t *testing.T) {
		opts := docx.DefaultOptions()
		opts.UseBase64URL = true
		data := encodeImage(t, func(b *bytes.Buffer, img image.Image) error { return bmp.Encode(b, img) })
		doc, _ := renderWord(t, pkg("media/image2", data).load(t, opts), opts)
		src, _ := doc.Find("img").Attr("src")
		assert.Contains(t, src, "data:image/bmp;base64,")
	})

	t.Run("unknown type", func(t *testing.T) {
		opts := docx.DefaultOptions()
		opts.UseBase64URL = true
		doc, _ := renderWord(t, pkg("media/blob", "not an image").load(t, opts), opts)
		src, _ := doc.Find("img").Attr("src")
		assert.Contains(t, src, "data:application/octet-stream;base64,")
	})
}

func TestRenderMissingImage(t *testing.T) {
	opts := docx.DefaultOptions()
	word := newTestPackage(picture("rId1")).part("rId1", docx.RelImage, "media/gone.png", "").load(t, opts)
	doc, _ := renderWord(t, word, opts)

	img := doc.Find("img")
	require.Equal(t, 1, img.Length())
	_, ok := img.Attr("src")
	assert.False(t, ok)

	var found bool
	for _, w := range word.Warnings() {
		if w.Kind == docx.WarnMissingResource {
			found = true
			assert.Equal(t, "word/document.xml", w.Part)
		}
	}
	assert.True(t, found, "missing image is reported")
}

const fontKey = "{5E6A1D4B-2C3F-4A5B-8C7D-9E0F1A2B3C4D}"

func fontPackage(t *testing.T, plain []byte) *testPackage {
	t.Helper()
	obfuscated, err := docx.Deobfuscate(plain, fontKey)
	require.NoError(t, err)

	return newTestPackage(para("x")).
		part("rId1", docx.RelFontTable, "fontTable.xml", `<w:fonts `+ns+`>
  <w:font w:name="Lato"><w:embedRegular r:id="rId1" w:fontKey="`+fontKey+`"/><w:embedBold r:id="rId2"/></w:font>
</w:fonts>`).
		file("word/_rels/fontTable.xml.rels", rels(
			rel("rId1", "http://schemas.openxmlformats.org/officeDocument/2006/relationships/font", "fonts/font1.odttf"),
			rel("rId2", "http://schemas.openxmlformats.org/officeDocument/2006/relationships/font", "fonts/font2.ttf"),
		)).
		file("word/fonts/font1.odttf", string(obfuscated)).
		file("word/fonts/font2.ttf", "bold")
}

func TestRenderEmbeddedFonts(t *testing.T) {
	plain := bytes.Repeat([]byte{0xAB}, 48)

	opts := docx.DefaultOptions()
	opts.UseBase64URL = true
	doc, _ := renderWord(t, fontPackage(t, plain).load(t, opts), opts)

	css := styles(doc)
	assert.Contains(t, css, "@font-face {\n  font-family: Lato;\n  src: url(data:font/ttf;base64,"+
		base64.StdEncoding.EncodeToString(plain)+");\n}\n")
	assert.Contains(t, css, "@font-face {\n  font-family: Lato;\n  font-weight: bold;\n")

	opts.IgnoreFonts = true
	doc, _ = renderWord(t, fontPackage(t, plain).load(t, opts), opts)
	assert.NotContains(t, styles(doc), "@font-face")
}

const numberingXML = `<w:numbering ` + ns + `>
  <w:numPicBullet w:numPicBulletId="0">
    <w:pict><v:shape style="width:9pt;height:9pt"><v:imagedata r:id="rId1" o:title=""/></v:shape></w:pict>
  </w:numPicBullet>
  <w:abstractNum w:abstractNumId="0">
    <w:lvl w:ilvl="0"><w:start w:val="3"/><w:numFmt w:val="decimal"/><w:lvlText w:val="%1."/></w:lvl>
    <w:lvl w:ilvl="1"><w:numFmt w:val="lowerLetter"/><w:lvlText w:val="%1.%2"/></w:lvl>
    <w:lvl w:ilvl="2"><w:numFmt w:val="bullet"/><w:lvlText w:val="o"/><w:lvlPicBulletId w:val="0"/></w:lvl>
  </w:abstractNum>
  <w:num w:numId="1"><w:abstractNumId w:val="0"/></w:num>
</w:numbering>`

func numberedPackage() *testPackage {
	body := `<w:p><w:pPr><w:numPr><w:ilvl w:val="0"/><w:numId w:val="1"/></w:numPr></w:pPr><w:r><w:t>item</w:t></w:r></w:p>`
	return newTestPackage(body).
		part("rId1", docx.RelNumbering, "numbering.xml", numberingXML).
		file("word/_rels/numbering.xml.rels", rels(rel("rId1", docx.RelImage, "media/bullet.png"))).
		file("word/media/bullet.png", "png")
}

func TestRenderNumbering(t *testing.T) {
	opts := docx.DefaultOptions()
	doc, _ := renderWord(t, numberedPackage().load(t, opts), opts)

	assert.True(t, doc.Find("article > p").HasClass("docx-num-1-0"))

	css := styles(doc)
	assert.Contains(t, css, ".docx-wrapper {\n  counter-reset: docx-num-1-0 2;\n}\n")
	assert.Contains(t, css, "p.docx-num-1-0 {\n  counter-reset: docx-num-1-1;\n}\n")
	assert.Contains(t, css, `content: ""counter(docx-num-1-0, decimal)"."`)
	assert.Contains(t, css, "counter-increment: docx-num-1-1;")
	assert.Contains(t, css, "p.docx-num-1-0 {\n  display: list-item;\n  list-style-position: inside;\n  list-style-type: none;\n}\n")

	assert.Contains(t, css, "p.docx-num-1-2:before {\n  background: var(--docx-rid1);\n  content: ' ';\n"+
		"  display: inline-block;\n  width:9pt;height:9pt;\n}\n")
	assert.Contains(t, css, ".docx-wrapper { --docx-rid1: url(word/media/bullet.png) }\n")
}

func TestRenderNumberingWithoutWrapper(t *testing.T) {
	opts := docx.DefaultOptions()
	opts.InWrapper = false
	doc, _ := renderWord(t, numberedPackage().load(t, opts), opts)

	css := styles(doc)
	assert.Contains(t, css, ":root {\n  counter-reset: docx-num-1-0 2;\n}\n")
	assert.Contains(t, css, ":root { --docx-rid1: url(word/media/bullet.png) }\n")
}

func TestCounterReset(t *testing.T) {
	assert.Equal(t, "docx-num-1-0", counterReset("docx-num-1-0", 1))
	assert.Equal(t, "docx-num-1-0 4", counterReset("docx-num-1-0", 5))
	assert.Equal(t, "docx-num-1-0 -1", counterReset("docx-num-1-0", 0))
}
