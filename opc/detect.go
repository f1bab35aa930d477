package opc

import (
	"bytes"
	"errors"

	"github.com/richardlehane/mscfb"
)

// Format identifies what kind of input was handed to Open.
type Format int

const (
	// Unknown indicates an unrecognized input.
	Unknown Format = iota
	// Zip indicates a zip container, the normal shape of a .docx package.
	Zip
	// FlatXML indicates a bare XML document without a container.
	FlatXML
	// Encrypted indicates an OLE2 compound file holding an encrypted package.
	Encrypted
	// Legacy indicates a binary Word 97-2003 document.
	Legacy
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case Zip:
		return "Zip"
	case FlatXML:
		return "FlatXML"
	case Encrypted:
		return "Encrypted"
	case Legacy:
		return "Legacy"
	default:
		return "Unknown"
	}
}

// Input errors reported by Open.
var (
	ErrUnknownFormat    = errors.New("input is not a word-processing package")
	ErrEncryptedPackage = errors.New("package is password protected")
	ErrLegacyFormat     = errors.New("binary .doc files are not supported")
)

var (
	zipMagic = []byte{0x50, 0x4B, 0x03, 0x04}
	cfbMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// Detect determines the input format from its leading bytes. Compound files
// are opened to tell encrypted packages apart from legacy documents.
func Detect(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, zipMagic):
		return Zip
	case bytes.HasPrefix(data, cfbMagic):
		return detectCompound(data)
	case looksLikeXML(data):
		return FlatXML
	}
	return Unknown
}

// detectCompound walks the streams of an OLE2 compound file.
func detectCompound(data []byte) Format {
	doc, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		return Unknown
	}

	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		switch entry.Name {
		case "EncryptedPackage", "EncryptionInfo":
			return Encrypted
		case "WordDocument":
			return Legacy
		}
	}
	return Unknown
}

// looksLikeXML checks whether data starts with markup after optional
// whitespace and byte order mark.
func looksLikeXML(data []byte) bool {
	data = bytes.TrimPrefix(data, bom)
	data = bytes.TrimLeft(data, " \t\r\n")
	return len(data) > 1 && data[0] == '<'
}

var bom = []byte{0xEF, 0xBB, 0xBF}
