package docx

import (
	"encoding/xml"

	"github.com/tsawler/docxhtml/units"
)

// NoteProperties are the document-wide footnote or endnote settings.
type NoteProperties struct {
	NumberingFormat string
	// DefaultNoteIDs are the separator notes every document carries.
	DefaultNoteIDs []string
}

// Settings is the parsed content of word/settings.xml.
type Settings struct {
	DefaultTabStop    string
	FootnoteProps     *NoteProperties
	EndnoteProps      *NoteProperties
	AutoHyphenation   bool
	EvenAndOddHeaders bool
}

type valXML struct {
	Val *string `xml:"val,attr"`
}

func (v *valXML) onOff() bool {
	if v == nil {
		return false
	}
	if v.Val == nil {
		return true
	}
	return units.Bool(*v.Val, true)
}

type notePrXML struct {
	NumFmt struct {
		Val string `xml:"val,attr"`
	} `xml:"numFmt"`
	Notes []struct {
		ID string `xml:"id,attr"`
	} `xml:",any"`
}

type settingsXML struct {
	XMLName        xml.Name `xml:"settings"`
	DefaultTabStop struct {
		Val string `xml:"val,attr"`
	} `xml:"defaultTabStop"`
	FootnotePr        *notePrXML `xml:"footnotePr"`
	EndnotePr         *notePrXML `xml:"endnotePr"`
	AutoHyphenation   *valXML    `xml:"autoHyphenation"`
	EvenAndOddHeaders *valXML    `xml:"evenAndOddHeaders"`
}

func (n *notePrXML) props() *NoteProperties {
	if n == nil {
		return nil
	}
	p := &NoteProperties{NumberingFormat: n.NumFmt.Val}
	for _, note := range n.Notes {
		if note.ID != "" {
			p.DefaultNoteIDs = append(p.DefaultNoteIDs, note.ID)
		}
	}
	return p
}

// ParseSettings decodes a settings part.
func ParseSettings(data []byte) (*Settings, error) {
	var x settingsXML
	if err := decodeXML(data, &x); err != nil {
		return nil, err
	}
	return &Settings{
		DefaultTabStop:    units.Convert(x.DefaultTabStop.Val, units.Dxa),
		FootnoteProps:     x.FootnotePr.props(),
		EndnoteProps:      x.EndnotePr.props(),
		AutoHyphenation:   x.AutoHyphenation.onOff(),
		EvenAndOddHeaders: x.EvenAndOddHeaders.onOff(),
	}, nil
}
