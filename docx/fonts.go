package docx

import (
	"encoding/xml"
	"fmt"

	"github.com/google/uuid"
)

// EmbeddedFontRef points to an obfuscated font file embedded in the package.
type EmbeddedFontRef struct {
	ID   string
	Key  string
	Type string // regular, bold, italic or boldItalic
}

// FontDeclaration is an entry of word/fontTable.xml.
type FontDeclaration struct {
	Name     string
	AltName  string
	Family   string
	Embedded []EmbeddedFontRef
}

type embedXML struct {
	XMLName xml.Name
	ID      string `xml:"id,attr"`
	FontKey string `xml:"fontKey,attr"`
}

type fontsXML struct {
	XMLName xml.Name `xml:"fonts"`
	Fonts   []struct {
		Name    string `xml:"name,attr"`
		AltName struct {
			Val string `xml:"val,attr"`
		} `xml:"altName"`
		Family struct {
			Val string `xml:"val,attr"`
		} `xml:"family"`
		Embeds []embedXML `xml:",any"`
	} `xml:"font"`
}

var embedFontTypes = map[string]string{
	"embedRegular":    "regular",
	"embedBold":       "bold",
	"embedItalic":     "italic",
	"embedBoldItalic": "boldItalic",
}

// ParseFontTable decodes a font table part.
func ParseFontTable(data []byte) ([]FontDeclaration, error) {
	var x fontsXML
	if err := decodeXML(data, &x); err != nil {
		return nil, err
	}

	fonts := make([]FontDeclaration, 0, len(x.Fonts))
	for _, f := range x.Fonts {
		decl := FontDeclaration{Name: f.Name, AltName: f.AltName.Val, Family: f.Family.Val}
		for _, e := range f.Embeds {
			if typ, ok := embedFontTypes[e.XMLName.Local]; ok {
				decl.Embedded = append(decl.Embedded, EmbeddedFontRef{ID: e.ID, Key: e.FontKey, Type: typ})
			}
		}
		fonts = append(fonts, decl)
	}
	return fonts, nil
}

// Deobfuscate reverses the font obfuscation of ECMA-376 Part 2: the first
// 32 bytes are XORed with the GUID key read in reverse byte order. data is
// not modified.
func Deobfuscate(data []byte, key string) ([]byte, error) {
	guid, err := uuid.Parse(key)
	if err != nil {
		return nil, fmt.Errorf("font key %q: %w", key, err)
	}

	var mask [16]byte
	for i := range guid {
		mask[len(mask)-1-i] = guid[i]
	}
	out := append([]byte(nil), data...)
	for i := 0; i < 32 && i < len(out); i++ {
		out[i] ^= mask[i%len(mask)]
	}
	return out, nil
}
