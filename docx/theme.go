package docx

import "encoding/xml"

// ThemeColor is one entry of the theme color scheme, such as accent1.
type ThemeColor struct {
	Name  string
	Value string // hex RGB without #
}

// ThemeFont is the typeface set of a major or minor theme font.
type ThemeFont struct {
	Latin         string
	EastAsian     string
	ComplexScript string
}

// Theme is the parsed content of a theme part.
type Theme struct {
	ColorSchemeName string
	Colors          []ThemeColor
	FontSchemeName  string
	MajorFont       *ThemeFont
	MinorFont       *ThemeFont
}

type themeXML struct {
	XMLName  xml.Name `xml:"theme"`
	Elements struct {
		ColorScheme *struct {
			Name   string          `xml:"name,attr"`
			Colors []themeColorXML `xml:",any"`
		} `xml:"clrScheme"`
		FontScheme *struct {
			Name  string        `xml:"name,attr"`
			Major *themeFontXML `xml:"majorFont"`
			Minor *themeFontXML `xml:"minorFont"`
		} `xml:"fontScheme"`
	} `xml:"themeElements"`
}

type themeColorXML struct {
	XMLName xml.Name
	SRGB    *struct {
		Val string `xml:"val,attr"`
	} `xml:"srgbClr"`
	System *struct {
		LastColor string `xml:"lastClr,attr"`
	} `xml:"sysClr"`
}

type typefaceXML struct {
	Typeface string `xml:"typeface,attr"`
}

type themeFontXML struct {
	Latin typefaceXML `xml:"latin"`
	EA    typefaceXML `xml:"ea"`
	CS    typefaceXML `xml:"cs"`
}

func (f *themeFontXML) font() *ThemeFont {
	if f == nil {
		return nil
	}
	return &ThemeFont{Latin: f.Latin.Typeface, EastAsian: f.EA.Typeface, ComplexScript: f.CS.Typeface}
}

// ParseTheme decodes a theme part.
func ParseTheme(data []byte) (*Theme, error) {
	var x themeXML
	if err := decodeXML(data, &x); err != nil {
		return nil, err
	}

	t := &Theme{}
	if cs := x.Elements.ColorScheme; cs != nil {
		t.ColorSchemeName = cs.Name
		for _, c := range cs.Colors {
			switch {
			case c.SRGB != nil:
				t.Colors = append(t.Colors, ThemeColor{Name: c.XMLName.Local, Value: c.SRGB.Val})
			case c.System != nil:
				t.Colors = append(t.Colors, ThemeColor{Name: c.XMLName.Local, Value: c.System.LastColor})
			}
		}
	}
	if fs := x.Elements.FontScheme; fs != nil {
		t.FontSchemeName = fs.Name
		t.MajorFont = fs.Major.font()
		t.MinorFont = fs.Minor.font()
	}
	return t, nil
}
