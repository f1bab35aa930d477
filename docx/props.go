package docx

import (
	"encoding/xml"
	"strconv"
	"strings"
	"time"
)

// CoreProperties is docProps/core.xml.
type CoreProperties struct {
	Title          string
	Description    string
	Subject        string
	Creator        string
	Keywords       string
	Language       string
	LastModifiedBy string
	Revision       int
	Created        time.Time
	Modified       time.Time
}

type corePropsXML struct {
	XMLName        xml.Name `xml:"coreProperties"`
	Title          string   `xml:"title"`
	Description    string   `xml:"description"`
	Subject        string   `xml:"subject"`
	Creator        string   `xml:"creator"`
	Keywords       string   `xml:"keywords"`
	Language       string   `xml:"language"`
	LastModifiedBy string   `xml:"lastModifiedBy"`
	Revision       string   `xml:"revision"`
	Created        string   `xml:"created"`
	Modified       string   `xml:"modified"`
}

// ParseCoreProperties decodes a core properties part.
func ParseCoreProperties(data []byte) (*CoreProperties, error) {
	var x corePropsXML
	if err := decodeXML(data, &x); err != nil {
		return nil, err
	}
	return &CoreProperties{
		Title:          x.Title,
		Description:    x.Description,
		Subject:        x.Subject,
		Creator:        x.Creator,
		Keywords:       x.Keywords,
		Language:       x.Language,
		LastModifiedBy: x.LastModifiedBy,
		Revision:       atoi(x.Revision),
		Created:        parseW3CDate(x.Created),
		Modified:       parseW3CDate(x.Modified),
	}, nil
}

// ExtendedProperties is docProps/app.xml.
type ExtendedProperties struct {
	Template    string
	TotalTime   int
	Pages       int
	Words       int
	Characters  int
	Application string
	Lines       int
	Paragraphs  int
	Company     string
	AppVersion  string
}

type extendedPropsXML struct {
	XMLName     xml.Name `xml:"Properties"`
	Template    string   `xml:"Template"`
	TotalTime   string   `xml:"TotalTime"`
	Pages       string   `xml:"Pages"`
	Words       string   `xml:"Words"`
	Characters  string   `xml:"Characters"`
	Application string   `xml:"Application"`
	Lines       string   `xml:"Lines"`
	Paragraphs  string   `xml:"Paragraphs"`
	Company     string   `xml:"Company"`
	AppVersion  string   `xml:"AppVersion"`
}

// ParseExtendedProperties decodes an extended (application) properties part.
func ParseExtendedProperties(data []byte) (*ExtendedProperties, error) {
	var x extendedPropsXML
	if err := decodeXML(data, &x); err != nil {
		return nil, err
	}
	return &ExtendedProperties{
		Template:    x.Template,
		TotalTime:   atoi(x.TotalTime),
		Pages:       atoi(x.Pages),
		Words:       atoi(x.Words),
		Characters:  atoi(x.Characters),
		Application: x.Application,
		Lines:       atoi(x.Lines),
		Paragraphs:  atoi(x.Paragraphs),
		Company:     x.Company,
		AppVersion:  x.AppVersion,
	}, nil
}

// CustomProperty is one user-defined document property. Type is the
// variant type name, such as lpwstr or i4.
type CustomProperty struct {
	FormatID string
	Name     string
	Type     string
	Value    string
}

type customPropsXML struct {
	XMLName    xml.Name `xml:"Properties"`
	Properties []struct {
		FormatID string `xml:"fmtid,attr"`
		Name     string `xml:"name,attr"`
		Values   []struct {
			XMLName xml.Name
			Value   string `xml:",chardata"`
		} `xml:",any"`
	} `xml:"property"`
}

// ParseCustomProperties decodes a custom properties part.
func ParseCustomProperties(data []byte) ([]CustomProperty, error) {
	var x customPropsXML
	if err := decodeXML(data, &x); err != nil {
		return nil, err
	}

	props := make([]CustomProperty, 0, len(x.Properties))
	for _, p := range x.Properties {
		cp := CustomProperty{FormatID: p.FormatID, Name: p.Name}
		if len(p.Values) > 0 {
			cp.Type = p.Values[0].XMLName.Local
			cp.Value = p.Values[0].Value
		}
		props = append(props, cp)
	}
	return props, nil
}

func atoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}

// parseW3CDate parses the dcterms:W3CDTF values Word writes. Malformed
// dates yield the zero time.
func parseW3CDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
