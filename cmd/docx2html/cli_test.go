package main

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wordNS = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" ` +
	`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
	`xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing" ` +
	`xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" ` +
	`xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture"`

func writeSample(t *testing.T, dir string) string {
	t.Helper()
	files := map[string]string{
		"_rels/.rels": `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`,
		"word/_rels/document.xml.rels": `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
  <Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/image1.png"/>
</Relationships>`,
		"word/document.xml": `<w:document ` + wordNS + `><w:body>
<w:p><w:r><w:t>Hello</w:t></w:r></w:p>
<w:p><w:r><w:drawing><wp:inline><wp:docPr id="1" name="Picture"/><a:graphic><a:graphicData><pic:pic>
  <pic:blipFill><a:blip r:embed="rId2"/></pic:blipFill>
</pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing></w:r></w:p>
<w:p><w:r><w:br w:type="page"/><w:t>World</w:t></w:r></w:p>
</w:body></w:document>`,
		"word/styles.xml": `<w:styles ` + wordNS + `>
  <w:style w:type="paragraph" w:styleId="Normal" w:default="1"><w:name w:val="Normal"/></w:style>
</w:styles>`,
		"word/media/image1.png": "png",
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	path := filepath.Join(dir, "sample.docx")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand("test", "none", "unknown")
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRenderToStdout(t *testing.T) {
	dir := t.TempDir()
	input := writeSample(t, dir)

	out, err := execute(t, "render", input, "--class-name", "doc", "--no-wrapper")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, `<section class="doc"`)
	assert.NotContains(t, out, `<div class="doc-wrapper">`)
	assert.Contains(t, out, `src="word/media/image1.png"`)
}

func TestRenderExtractMedia(t *testing.T) {
	dir := t.TempDir()
	input := writeSample(t, dir)
	output := filepath.Join(dir, "out", "sample.html")
	require.NoError(t, os.MkdirAll(filepath.Dir(output), 0o755))
	media := filepath.Join(dir, "out", "media")

	_, err := execute(t, "render", input, "-o", output, "--extract-media", media)
	require.NoError(t, err)

	page, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(page), `src="media/word/media/image1.png"`)

	data, err := os.ReadFile(filepath.Join(media, "word", "media", "image1.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))
}

func TestRenderEnvironment(t *testing.T) {
	dir := t.TempDir()
	input := writeSample(t, dir)
	t.Setenv("DOCX2HTML_CLASS_NAME", "env")
	t.Setenv("DOCX2HTML_BASE64", "true")

	out, err := execute(t, "render", input)
	require.NoError(t, err)
	assert.Contains(t, out, `class="env-wrapper"`)
	assert.Contains(t, out, `src="data:image/png;base64,`)
}

func TestRenderConfigFile(t *testing.T) {
	dir := t.TempDir()
	input := writeSample(t, dir)
	cfg := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("class-name: cfg\nno-break-pages: true\n"), 0o644))

	out, err := execute(t, "render", input, "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, `<section class="cfg"`))

	out, err = execute(t, "render", input, "--config", cfg, "--class-name", "flag")
	require.NoError(t, err)
	assert.Contains(t, out, `class="flag-wrapper"`)
}

func TestRenderMissingInput(t *testing.T) {
	_, err := execute(t, "render", filepath.Join(t.TempDir(), "missing.docx"))
	assert.Error(t, err)

	_, err = execute(t, "render")
	assert.Error(t, err)
}

func TestInspectYAML(t *testing.T) {
	input := writeSample(t, t.TempDir())

	out, err := execute(t, "inspect", input, "--format", "yaml")
	require.NoError(t, err)

	var r report
	require.NoError(t, yaml.Unmarshal([]byte(out), &r))
	assert.Equal(t, 2, r.Sections)
	assert.Equal(t, 1, r.Styles)
	assert.Zero(t, r.NumberingLevels)

	var paths []string
	for _, p := range r.Parts {
		paths = append(paths, p.Path)
	}
	assert.Contains(t, paths, "word/document.xml")
	assert.Contains(t, paths, "word/styles.xml")

	var image bool
	for _, rel := range r.Relationships {
		if rel.Source == "word/document.xml" && rel.ID == "rId2" {
			image = true
			assert.Equal(t, "image", rel.Type)
			assert.Equal(t, "media/image1.png", rel.Target)
		}
	}
	assert.True(t, image)
}

func TestInspectTable(t *testing.T) {
	input := writeSample(t, t.TempDir())

	out, err := execute(t, "inspect", input)
	require.NoError(t, err)
	assert.Contains(t, out, "word/document.xml")
	assert.Contains(t, out, "Numbering levels")

	_, err = execute(t, "inspect", input, "--format", "xml")
	assert.ErrorContains(t, err, `unknown format "xml"`)
}

func TestShortRelType(t *testing.T) {
	assert.Equal(t, "styles", shortRelType("http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"))
	assert.Equal(t, "plain", shortRelType("plain"))
}
