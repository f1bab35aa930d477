// Package opc reads Open Packaging Conventions containers: the zip archives
// that carry .docx documents, their part relationships and content types.
//
// A Package is a path-addressed store. Parts are looked up by their package
// path (without the leading slash), relationships are loaded per part and
// resolved relative to the referring part's folder, and a package can be
// written back out with only the parts that were replaced re-encoded.
package opc

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path"
	"sort"
	"strings"

	"github.com/tsawler/docxhtml/xmltree"
)

// Options configures how a package is read.
type Options struct {
	// TrimXMLDeclaration strips the XML prolog before parsing any part.
	TrimXMLDeclaration bool
}

// Package is an opened OPC container.
type Package struct {
	opts Options

	zr      *zip.Reader
	files   map[string]*zip.File
	folded  map[string]*zip.File
	updated map[string][]byte

	// text is set in single-document mode, when the input was a bare XML
	// document instead of a zip container.
	text []byte

	types *contentTypes
}

// DocumentPath is the conventional location of the main document part.
const DocumentPath = "word/document.xml"

// Open reads a package from data. Zip containers are opened as packages,
// bare XML is accepted as a single main document, and everything else is
// rejected.
func Open(data []byte, opts Options) (*Package, error) {
	switch Detect(data) {
	case Zip:
		return openZip(data, opts)
	case FlatXML:
		return FromText(string(data), opts), nil
	case Encrypted:
		return nil, ErrEncryptedPackage
	case Legacy:
		return nil, ErrLegacyFormat
	}
	return nil, ErrUnknownFormat
}

// FromText creates a package in single-document mode. It holds exactly one
// part, the main document, whose content is text.
func FromText(text string, opts Options) *Package {
	return &Package{opts: opts, text: []byte(text)}
}

func openZip(data []byte, opts Options) (*Package, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening zip: %w", err)
	}

	p := &Package{
		opts:   opts,
		zr:     zr,
		files:  make(map[string]*zip.File, len(zr.File)),
		folded: make(map[string]*zip.File, len(zr.File)),
	}
	for _, f := range zr.File {
		// Some producers write Windows separators into entry names.
		name := strings.ReplaceAll(f.Name, `\`, "/")
		p.files[name] = f
		p.folded[strings.ToLower(name)] = f
	}

	if data, ok, err := p.Load(contentTypesPath); err == nil && ok {
		if root, err := p.ParseXML(data); err == nil {
			p.types = parseContentTypes(root)
		}
	}
	return p, nil
}

// Get returns the zip entry for path, or nil when the package has no such
// part. Part names compare case-insensitively as a fallback.
func (p *Package) Get(path string) *zip.File {
	if p.files == nil {
		return nil
	}
	path = NormalizePath(path)
	if f, ok := p.files[path]; ok {
		return f
	}
	if f, ok := p.folded[strings.ToLower(path)]; ok {
		return f
	}
	// Targets may be written percent-encoded while the entry name is not.
	if unescaped, err := url.PathUnescape(path); err == nil && unescaped != path {
		if f, ok := p.files[unescaped]; ok {
			return f
		}
		return p.folded[strings.ToLower(unescaped)]
	}
	return nil
}

// Exists reports whether path can be loaded.
func (p *Package) Exists(path string) bool {
	path = NormalizePath(path)
	if p.text != nil {
		return path == DocumentPath
	}
	if _, ok := p.updated[path]; ok {
		return true
	}
	return p.Get(path) != nil
}

// Load returns the bytes of the part at path. A missing part yields
// ok == false and no error.
func (p *Package) Load(path string) (data []byte, ok bool, err error) {
	path = NormalizePath(path)

	if p.text != nil {
		if path != DocumentPath {
			return nil, false, nil
		}
		return p.text, true, nil
	}

	if b, found := p.updated[path]; found {
		return b, true, nil
	}

	f := p.Get(path)
	if f == nil {
		return nil, false, nil
	}

	rc, err := f.Open()
	if err != nil {
		return nil, false, fmt.Errorf("opening %s: %w", path, err)
	}
	defer rc.Close()

	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, false, fmt.Errorf("reading %s: %w", path, err)
	}
	return b, true, nil
}

// LoadText is Load returning a string.
func (p *Package) LoadText(path string) (string, bool, error) {
	b, ok, err := p.Load(path)
	return string(b), ok, err
}

// ParseXML parses part content with the package's XML options.
func (p *Package) ParseXML(data []byte) (*xmltree.Element, error) {
	return xmltree.Parse(data, xmltree.ParseOptions{TrimXMLDeclaration: p.opts.TrimXMLDeclaration})
}

// Update replaces the content of path. Updated parts are re-compressed by
// Save; everything else is copied unchanged.
func (p *Package) Update(path string, content []byte) {
	if p.updated == nil {
		p.updated = make(map[string][]byte)
	}
	path = NormalizePath(path)
	p.updated[path] = content
	if p.text != nil && path == DocumentPath {
		p.text = content
	}
}

// Paths returns the names of all parts in the package, sorted.
func (p *Package) Paths() []string {
	if p.text != nil {
		return []string{DocumentPath}
	}

	seen := make(map[string]bool, len(p.files)+len(p.updated))
	var out []string
	for name := range p.files {
		seen[name] = true
		out = append(out, name)
	}
	for name := range p.updated {
		if !seen[name] {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// IsSingleDocument reports whether the package was created from bare XML.
func (p *Package) IsSingleDocument() bool {
	return p.text != nil
}

// Save writes the package as a zip archive. Entries that were not updated
// are copied without recompression, so their bytes are identical to the
// input. In single-document mode the document text is written as is.
func (p *Package) Save(w io.Writer) error {
	if p.text != nil {
		_, err := w.Write(p.text)
		return err
	}

	zw := zip.NewWriter(w)
	written := make(map[string]bool)

	for _, f := range p.zr.File {
		name := strings.ReplaceAll(f.Name, `\`, "/")
		if content, ok := p.updated[name]; ok {
			if err := writeEntry(zw, name, content); err != nil {
				return err
			}
			written[name] = true
			continue
		}
		if err := zw.Copy(f); err != nil {
			return fmt.Errorf("copying %s: %w", f.Name, err)
		}
	}

	var added []string
	for name := range p.updated {
		if !written[name] && p.files[name] == nil {
			added = append(added, name)
		}
	}
	sort.Strings(added)
	for _, name := range added {
		if err := writeEntry(zw, name, p.updated[name]); err != nil {
			return err
		}
	}

	return zw.Close()
}

func writeEntry(zw *zip.Writer, name string, content []byte) error {
	fw, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	if _, err := fw.Write(content); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

// ContentType returns the MIME type of the part at path. Overrides in
// [Content_Types].xml win over extension defaults; without either the
// extension is looked up in the system MIME table.
func (p *Package) ContentType(partPath string) string {
	partPath = NormalizePath(partPath)
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(partPath), "."))

	if p.types != nil {
		if ct, ok := p.types.overrides[strings.ToLower("/"+partPath)]; ok {
			return ct
		}
		if ct, ok := p.types.defaults[ext]; ok {
			return ct
		}
	}
	if ext == "" {
		return ""
	}
	return mime.TypeByExtension("." + ext)
}
