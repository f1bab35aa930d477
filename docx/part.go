package docx

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"golang.org/x/net/html/charset"

	"github.com/tsawler/docxhtml/model"
	"github.com/tsawler/docxhtml/opc"
	"github.com/tsawler/docxhtml/xmltree"
)

// PartKind identifies the payload of a Part.
type PartKind int

const (
	PartUnknown PartKind = iota
	PartDocument
	PartStyles
	PartNumbering
	PartSettings
	PartTheme
	PartFontTable
	PartFootnotes
	PartEndnotes
	PartHeader
	PartFooter
	PartCoreProperties
	PartExtendedProperties
	PartCustomProperties
)

var partKindNames = [...]string{
	PartUnknown:            "unknown",
	PartDocument:           "document",
	PartStyles:             "styles",
	PartNumbering:          "numbering",
	PartSettings:           "settings",
	PartTheme:              "theme",
	PartFontTable:          "fontTable",
	PartFootnotes:          "footnotes",
	PartEndnotes:           "endnotes",
	PartHeader:             "header",
	PartFooter:             "footer",
	PartCoreProperties:     "coreProperties",
	PartExtendedProperties: "extendedProperties",
	PartCustomProperties:   "customProperties",
}

func (k PartKind) String() string {
	if k < 0 || int(k) >= len(partKindNames) {
		return "unknown"
	}
	return partKindNames[k]
}

// partKinds maps relationship types to the part kinds the loader parses.
var partKinds = map[string]PartKind{
	RelOfficeDocument:     PartDocument,
	RelStyles:             PartStyles,
	RelNumbering:          PartNumbering,
	RelSettings:           PartSettings,
	RelTheme:              PartTheme,
	RelFontTable:          PartFontTable,
	RelFootnotes:          PartFootnotes,
	RelEndnotes:           PartEndnotes,
	RelHeader:             PartHeader,
	RelFooter:             PartFooter,
	RelCoreProperties:     PartCoreProperties,
	RelExtendedProperties: PartExtendedProperties,
	RelCustomProperties:   PartCustomProperties,
}

// Part is one loaded package part: its path, its relationships and a
// parsed payload whose type depends on Kind.
type Part struct {
	Path    string
	Kind    PartKind
	Rels    opc.Relationships
	Payload any

	pkg  *opc.Package
	root *xmltree.Element
}

// Folder returns the folder of the part, with a trailing slash.
func (p *Part) Folder() string {
	folder, _ := opc.SplitPath(p.Path)
	return folder
}

// Root returns the parsed XML of the part. It is only kept when the
// package was loaded with KeepOrigin.
func (p *Part) Root() *xmltree.Element {
	return p.root
}

// Save writes the kept XML tree back into the package.
func (p *Part) Save() error {
	if p.root == nil {
		return fmt.Errorf("part %s: XML was not kept", p.Path)
	}
	var buf bytes.Buffer
	if err := xmltree.Encode(&buf, p.root); err != nil {
		return fmt.Errorf("encoding %s: %w", p.Path, err)
	}
	p.pkg.Update(p.Path, buf.Bytes())
	return nil
}

// DocumentPart is the main document.
type DocumentPart struct {
	*Part
	Body Body
}

// StylesPart holds the raw style definitions.
type StylesPart struct {
	*Part
	Styles []*Style
}

// NumberingPart holds the numbering definitions.
type NumberingPart struct {
	*Part
	Definitions *NumberingDefinitions
}

// SettingsPart holds document settings.
type SettingsPart struct {
	*Part
	Settings *Settings
}

// ThemePart holds the theme colors and fonts.
type ThemePart struct {
	*Part
	Theme *Theme
}

// FontTablePart holds the font declarations.
type FontTablePart struct {
	*Part
	Fonts []FontDeclaration
}

// NotesPart holds footnotes or endnotes. Body.Root is a container whose
// children are the notes, in part order.
type NotesPart struct {
	*Part
	Body  Body
	Notes map[string]model.NodeID
}

// Note returns the node of the note with the given id.
func (p *NotesPart) Note(id string) (model.NodeID, bool) {
	n, ok := p.Notes[id]
	return n, ok
}

// HeaderFooterPart is a header or a footer.
type HeaderFooterPart struct {
	*Part
	Body Body
}

// CorePropsPart holds the core document properties.
type CorePropsPart struct {
	*Part
	Props *CoreProperties
}

// ExtendedPropsPart holds the application properties.
type ExtendedPropsPart struct {
	*Part
	Props *ExtendedProperties
}

// CustomPropsPart holds user-defined properties.
type CustomPropsPart struct {
	*Part
	Props []CustomProperty
}

// RawPart is a part of a type the loader does not interpret.
type RawPart struct {
	*Part
	Data []byte
}

// parse builds the payload of p from its content.
func (p *Part) parse(data []byte, parser *Parser, keepOrigin bool) error {
	switch p.Kind {
	case PartUnknown:
		p.Payload = &RawPart{Part: p, Data: data}
		return nil
	case PartSettings:
		s, err := ParseSettings(data)
		p.Payload = &SettingsPart{Part: p, Settings: s}
		return err
	case PartTheme:
		t, err := ParseTheme(data)
		p.Payload = &ThemePart{Part: p, Theme: t}
		return err
	case PartFontTable:
		f, err := ParseFontTable(data)
		p.Payload = &FontTablePart{Part: p, Fonts: f}
		return err
	case PartCoreProperties:
		c, err := ParseCoreProperties(data)
		p.Payload = &CorePropsPart{Part: p, Props: c}
		return err
	case PartExtendedProperties:
		e, err := ParseExtendedProperties(data)
		p.Payload = &ExtendedPropsPart{Part: p, Props: e}
		return err
	case PartCustomProperties:
		c, err := ParseCustomProperties(data)
		p.Payload = &CustomPropsPart{Part: p, Props: c}
		return err
	}

	root, err := p.pkg.ParseXML(data)
	if err != nil {
		return err
	}
	if keepOrigin {
		p.root = root
	}

	parser = parser.begin(p.Path)
	switch p.Kind {
	case PartDocument:
		p.Payload = &DocumentPart{Part: p, Body: parser.ParseDocument(root)}
	case PartStyles:
		p.Payload = &StylesPart{Part: p, Styles: parser.ParseStyles(root)}
	case PartNumbering:
		p.Payload = &NumberingPart{Part: p, Definitions: parser.ParseNumbering(root)}
	case PartFootnotes:
		p.Payload = newNotesPart(p, parser.ParseNotes(root, "footnote", model.KindFootnote))
	case PartEndnotes:
		p.Payload = newNotesPart(p, parser.ParseNotes(root, "endnote", model.KindEndnote))
	case PartHeader:
		p.Payload = &HeaderFooterPart{Part: p, Body: parser.ParseHeaderFooter(root, model.KindHeader)}
	case PartFooter:
		p.Payload = &HeaderFooterPart{Part: p, Body: parser.ParseHeaderFooter(root, model.KindFooter)}
	}
	return nil
}

func newNotesPart(p *Part, body Body) *NotesPart {
	notes := make(map[string]model.NodeID)
	for _, id := range body.Tree.Children(body.Root) {
		notes[body.Tree.Node(id).ID] = id
	}
	return &NotesPart{Part: p, Body: body, Notes: notes}
}

// decodeXML unmarshals a part into v, honouring declared encodings.
func decodeXML(data []byte, v any) error {
	d := xml.NewDecoder(bytes.NewReader(data))
	d.CharsetReader = charset.NewReaderLabel
	return d.Decode(v)
}
